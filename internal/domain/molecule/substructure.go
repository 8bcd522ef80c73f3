package molecule

import "strings"

// ContainsFragment reports whether fragment occurs in smiles after both are
// normalized: whitespace, stereo markers (/ \ @) and ring-closure labels are
// removed.
//
// This is text matching, not graph isomorphism. It yields false positives
// ("CC" matches "CCl", which has a single carbon) and false negatives whenever
// the same structure is written in a different atom order. Do not use it where
// correctness matters.
func ContainsFragment(smiles, fragment string) bool {
	f := NormalizeForMatch(fragment)
	if f == "" {
		return false
	}
	return strings.Contains(NormalizeForMatch(smiles), f)
}

// NormalizeForMatch strips characters that do not change connectivity-free
// text matching.
func NormalizeForMatch(smiles string) string {
	var sb strings.Builder
	sb.Grow(len(smiles))
	inBracket := false
	for i := 0; i < len(smiles); i++ {
		ch := smiles[i]
		switch {
		case ch == '[':
			inBracket = true
		case ch == ']':
			inBracket = false
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '/' || ch == '\\' || ch == '@':
			continue
		case !inBracket && ch == '%' && i+2 < len(smiles) && isDigit(smiles[i+1]) && isDigit(smiles[i+2]):
			i += 2
			continue
		case !inBracket && isDigit(ch):
			continue
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}

//Personal.AI order the ending
