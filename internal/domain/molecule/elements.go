package molecule

// Element tables are package-level constants in spirit; nothing writes to them
// after initialization.

// atomicWeights holds standard atomic weights (IUPAC, conventional values).
var atomicWeights = map[string]float64{
	"H": 1.008, "He": 4.003,
	"Li": 6.94, "Be": 9.012, "B": 10.81, "C": 12.011, "N": 14.007, "O": 15.999, "F": 18.998, "Ne": 20.180,
	"Na": 22.990, "Mg": 24.305, "Al": 26.982, "Si": 28.085, "P": 30.974, "S": 32.06, "Cl": 35.45, "Ar": 39.948,
	"K": 39.098, "Ca": 40.078, "Sc": 44.956, "Ti": 47.867, "V": 50.942, "Cr": 51.996, "Mn": 54.938,
	"Fe": 55.845, "Co": 58.933, "Ni": 58.693, "Cu": 63.546, "Zn": 65.38, "Ga": 69.723, "Ge": 72.630,
	"As": 74.922, "Se": 78.971, "Br": 79.904, "Kr": 83.798,
	"Rb": 85.468, "Sr": 87.62, "Y": 88.906, "Zr": 91.224, "Nb": 92.906, "Mo": 95.95, "Ru": 101.07,
	"Rh": 102.906, "Pd": 106.42, "Ag": 107.868, "Cd": 112.414, "In": 114.818, "Sn": 118.710,
	"Sb": 121.760, "Te": 127.60, "I": 126.904, "Xe": 131.293,
	"Cs": 132.905, "Ba": 137.327, "La": 138.905, "Gd": 157.25, "Hf": 178.49, "Ta": 180.948, "W": 183.84,
	"Re": 186.207, "Os": 190.23, "Ir": 192.217, "Pt": 195.084, "Au": 196.967, "Hg": 200.592,
	"Tl": 204.38, "Pb": 207.2, "Bi": 208.980, "Rn": 222.0, "Ra": 226.0, "U": 238.029,
}

// standardValence is the default valence used for implicit hydrogen inference.
var standardValence = map[string]int{
	"B":  3,
	"C":  4,
	"N":  3,
	"O":  2,
	"S":  2,
	"P":  3,
	"F":  1,
	"Cl": 1,
	"Br": 1,
	"I":  1,
}

// aromaticBracketSymbols are lowercase symbols allowed inside brackets.
var aromaticBracketSymbols = map[string]string{
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S",
	"se": "Se", "as": "As", "te": "Te",
}

// IsKnownElement reports whether symbol is in the periodic table subset
// molgraph knows weights for.
func IsKnownElement(symbol string) bool {
	_, ok := atomicWeights[symbol]
	return ok
}

// AtomicWeight returns the standard atomic weight of symbol, or 0 when unknown.
func AtomicWeight(symbol string) float64 {
	return atomicWeights[symbol]
}

// resolveElement resolves a bracket residue to an element symbol using a
// two-letter then one-letter lookup. The returned symbol is never empty. ok is
// false when the residue is not exactly one known symbol, in which case the
// symbol is the residue's first letter uppercased.
func resolveElement(residue string) (symbol string, aromatic bool, ok bool) {
	if residue == "" {
		return "*", false, false
	}
	if len(residue) >= 2 {
		if sym, found := aromaticBracketSymbols[residue[:2]]; found {
			return sym, true, len(residue) == 2
		}
		two := residue[:2]
		if isUpper(residue[0]) && isLower(residue[1]) && IsKnownElement(two) {
			return two, false, len(residue) == 2
		}
	}
	if sym, found := aromaticBracketSymbols[residue[:1]]; found {
		return sym, true, len(residue) == 1
	}
	one := upper(residue[0])
	return one, false, len(residue) == 1 && IsKnownElement(one)
}

func upper(ch byte) string {
	if isLower(ch) {
		ch -= 'a' - 'A'
	}
	return string(ch)
}

func isUpper(ch byte) bool { return ch >= 'A' && ch <= 'Z' }
func isLower(ch byte) bool { return ch >= 'a' && ch <= 'z' }

//Personal.AI order the ending
