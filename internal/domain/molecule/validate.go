package molecule

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationResult is the outcome of a structural validity check. Invalid
// input is reported here rather than through an error.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

func invalid(reason string) ValidationResult {
	return ValidationResult{Valid: false, Reason: reason}
}

// Validate checks a SMILES string for structural well-formedness without
// building a graph. The first failing check determines the reason.
func Validate(smiles string) ValidationResult {
	if strings.TrimSpace(smiles) == "" {
		return invalid("empty SMILES string")
	}
	if reason := checkParentheses(smiles); reason != "" {
		return invalid(reason)
	}
	if reason := checkBrackets(smiles); reason != "" {
		return invalid(reason)
	}
	if reason := checkRingClosures(smiles); reason != "" {
		return invalid(reason)
	}
	if !hasAtom(Tokenize(smiles)) {
		return invalid("no atoms found")
	}
	return ValidationResult{Valid: true}
}

func checkParentheses(smiles string) string {
	depth := 0
	for i, ch := range smiles {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return fmt.Sprintf("unbalanced parentheses: unexpected ')' at position %d", i)
			}
		}
	}
	if depth != 0 {
		return fmt.Sprintf("unbalanced parentheses: %d unclosed '('", depth)
	}
	return ""
}

func checkBrackets(smiles string) string {
	open := false
	for i, ch := range smiles {
		switch ch {
		case '[':
			if open {
				return fmt.Sprintf("unbalanced brackets: nested '[' at position %d", i)
			}
			open = true
		case ']':
			if !open {
				return fmt.Sprintf("unbalanced brackets: unexpected ']' at position %d", i)
			}
			open = false
		}
	}
	if open {
		return "unbalanced brackets: unclosed '['"
	}
	return ""
}

// checkRingClosures counts ring labels outside bracket atoms; every label must
// occur an even number of times.
func checkRingClosures(smiles string) string {
	counts := make(map[int]int)
	inBracket := false
	for i := 0; i < len(smiles); i++ {
		ch := smiles[i]
		switch {
		case ch == '[':
			inBracket = true
		case ch == ']':
			inBracket = false
		case inBracket:
		case ch == '%' && i+2 < len(smiles) && isDigit(smiles[i+1]) && isDigit(smiles[i+2]):
			counts[int(smiles[i+1]-'0')*10+int(smiles[i+2]-'0')]++
			i += 2
		case isDigit(ch):
			counts[int(ch-'0')]++
		}
	}

	var unpaired []int
	for label, n := range counts {
		if n%2 != 0 {
			unpaired = append(unpaired, label)
		}
	}
	if len(unpaired) == 0 {
		return ""
	}
	sort.Ints(unpaired)
	labels := make([]string, len(unpaired))
	for i, l := range unpaired {
		labels[i] = Token{Kind: TokenRingClosure, Ring: l}.String()
	}
	return "unpaired ring closure: " + strings.Join(labels, ", ")
}

func hasAtom(tokens []Token) bool {
	for _, t := range tokens {
		if t.Kind == TokenAtom {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
