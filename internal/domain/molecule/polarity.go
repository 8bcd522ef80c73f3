package molecule

import "math"

// polarEnv is the local environment of a polar atom used to look up its
// surface contribution.
type polarEnv struct {
	element  string
	aromatic bool
	degree   int
	hydrogen int
	orderSum int
	charge   int
}

// tpsaContributions holds Ertl atom contributions in square angstroms.
// Environments not listed contribute zero.
var tpsaContributions = map[polarEnv]float64{
	// nitrogen
	{"N", false, 3, 0, 3, 0}: 3.24,  // N(-)(-)-
	{"N", false, 2, 0, 3, 0}: 12.36, // -N=
	{"N", false, 1, 0, 3, 0}: 23.79, // N#
	{"N", false, 3, 0, 5, 0}: 11.68, // -N(=)=  nitro, pentavalent form
	{"N", false, 2, 0, 4, 0}: 13.60, // =N#  / =N=  azide middle
	{"N", false, 2, 1, 2, 0}: 12.03, // -NH-
	{"N", false, 1, 1, 2, 0}: 23.85, // =NH
	{"N", false, 1, 2, 1, 0}: 26.02, // -NH2
	{"N", false, 4, 0, 4, 1}: 0.00,  // quaternary N+
	{"N", false, 3, 0, 4, 1}: 3.01,  // -N+(=)-  nitro, charged form
	{"N", false, 2, 0, 4, 1}: 4.36,  // =N+=
	{"N", false, 3, 1, 3, 1}: 4.44,  // -NH+(-)-
	{"N", false, 2, 1, 3, 1}: 13.97, // =NH+-
	{"N", false, 2, 2, 2, 1}: 16.61, // -NH2+-
	{"N", false, 1, 2, 2, 1}: 25.59, // =NH2+
	{"N", false, 1, 3, 1, 1}: 27.64, // -NH3+
	{"N", true, 2, 0, 2, 0}:  12.89, // :n:
	{"N", true, 3, 0, 3, 0}:  4.41,  // :n(-):
	{"N", true, 2, 1, 2, 0}:  15.79, // :[nH]:
	{"N", true, 3, 0, 3, 1}:  4.10,  // :[n+](-):
	{"N", true, 2, 1, 2, 1}:  14.14, // :[nH+]:

	// oxygen
	{"O", false, 2, 0, 2, 0}:  9.23,  // -O-
	{"O", false, 1, 0, 2, 0}:  17.07, // =O
	{"O", false, 1, 1, 1, 0}:  20.23, // -OH
	{"O", false, 1, 0, 1, -1}: 23.06, // [O-]
	{"O", true, 2, 0, 2, 0}:   13.14, // :o:

	// sulfur
	{"S", false, 2, 0, 2, 0}: 25.30, // -S-
	{"S", false, 1, 0, 2, 0}: 32.09, // =S
	{"S", false, 1, 1, 1, 0}: 38.80, // -SH
	{"S", false, 3, 0, 4, 0}: 19.21, // -S(=O)-
	{"S", false, 4, 0, 6, 0}: 8.38,  // -S(=O)(=O)-
	{"S", true, 2, 0, 2, 0}:  28.24, // :s:
	{"S", true, 3, 0, 4, 0}:  21.70, // :s(=O):

	// phosphorus
	{"P", false, 3, 0, 3, 0}: 13.59, // -P(-)-
	{"P", false, 2, 0, 3, 0}: 34.14, // -P=
	{"P", false, 4, 0, 5, 0}: 9.81,  // -P(=)(-)-
	{"P", false, 3, 1, 5, 0}: 23.47, // -PH(=)-
}

func (m *Molecule) polarEnv(i int) polarEnv {
	a := m.atoms[i]
	return polarEnv{
		element:  a.Element,
		aromatic: a.Aromatic,
		degree:   m.Degree(i),
		hydrogen: m.HydrogenCount(i),
		orderSum: m.BondOrderSum(i),
		charge:   a.Charge,
	}
}

// TPSA returns the topological polar surface area, summed from per-atom Ertl
// contributions of N, O, S and P. Rounded to two decimals.
func TPSA(m *Molecule) float64 {
	total := 0.0
	for i, a := range m.atoms {
		switch a.Element {
		case "N", "O", "S", "P":
			total += tpsaContributions[m.polarEnv(i)]
		}
	}
	return round2(total)
}

// logPKey classifies an atom for the lipophilicity table.
type logPKey struct {
	element  string
	aromatic bool
	degree   int
	orderSum int
}

// logPContributions is a condensed Wildman-Crippen table. Keys missing here
// fall back to logPDefaults.
var logPContributions = map[logPKey]float64{
	{"C", false, 1, 1}: 0.1441, // CH3-
	{"C", false, 2, 2}: 0.1441, // -CH2-
	{"C", false, 3, 3}: 0.0000, // >CH-
	{"C", false, 4, 4}: 0.0000, // >C<
	{"C", true, 2, 2}:  0.1581, // aromatic CH
	{"C", true, 3, 3}:  0.2713, // substituted / fused aromatic C

	{"N", false, 1, 1}: -1.0190, // -NH2
	{"N", false, 2, 2}: -0.7096, // -NH-
	{"N", false, 3, 3}: -0.3187, // tertiary amine
	{"N", false, 1, 3}: -0.2930, // nitrile
	{"N", false, 2, 3}: -0.4806, // imine
	{"N", true, 2, 2}:  -0.4806, // pyridine-type
	{"N", true, 3, 3}:  -0.3239, // substituted aromatic N

	{"O", false, 1, 1}: -0.2893, // hydroxyl
	{"O", false, 2, 2}: -0.0684, // ether / ester
	{"O", false, 1, 2}: -0.1526, // carbonyl
	{"O", true, 2, 2}:  0.1552,  // furan-type
}

// logPDefaults is used when no key in logPContributions matches.
var logPDefaults = map[string]float64{
	"C":  0.0500, // unsaturated carbon not listed above
	"N":  -0.5000,
	"O":  -0.2000,
	"S":  0.6482,
	"P":  0.8612,
	"F":  0.4202,
	"Cl": 0.6895,
	"Br": 0.8456,
	"I":  0.8857,
	"B":  0.0000,
}

// logPHydrogen is the contribution of each attached hydrogen, keyed by the
// element it is attached to.
var logPHydrogen = map[string]float64{
	"C": 0.1230,
	"N": 0.2142,
	"O": -0.2677,
}

const logPHydrogenDefault = 0.1230

// LogP estimates the octanol/water partition coefficient from per-atom
// contributions. Accuracy is about one to two log units; do not treat the
// value as exact. Rounded to two decimals.
func LogP(m *Molecule) float64 {
	total := 0.0
	for i, a := range m.atoms {
		key := logPKey{element: a.Element, aromatic: a.Aromatic, degree: m.Degree(i), orderSum: m.BondOrderSum(i)}
		if v, ok := logPContributions[key]; ok {
			total += v
		} else {
			total += logPDefaults[a.Element]
		}
		if a.Charge != 0 {
			total -= 1.0
		}

		h := m.HydrogenCount(i)
		if h == 0 {
			continue
		}
		perH, ok := logPHydrogen[a.Element]
		if !ok {
			perH = logPHydrogenDefault
		}
		total += float64(h) * perH
	}
	return round2(total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

//Personal.AI order the ending
