package molecule

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// BondTally counts bonds by type. Aromatic bonds are not counted as single.
type BondTally struct {
	Single   int `json:"single"`
	Double   int `json:"double"`
	Triple   int `json:"triple"`
	Aromatic int `json:"aromatic"`
}

// DescriptorSet bundles every descriptor computed from one molecule.
type DescriptorSet struct {
	Formula         string         `json:"formula"`
	AtomCounts      map[string]int `json:"atom_counts"`
	MolecularWeight float64        `json:"molecular_weight"`
	HeavyAtoms      int            `json:"heavy_atoms"`
	Bonds           BondTally      `json:"bonds"`
	RingClosures    int            `json:"ring_closures"`
	RingCount       int            `json:"ring_count"`
	Fragments       int            `json:"fragments"`
	HBondDonors     int            `json:"hbd"`
	HBondAcceptors  int            `json:"hba"`
	RotatableBonds  int            `json:"rotatable_bonds"`
	TPSA            float64        `json:"tpsa"`
	LogP            float64        `json:"logp"`
	AromaticAtoms   int            `json:"aromatic_atoms"`
	UnresolvedAtoms int            `json:"unresolved_atoms,omitempty"`
}

// ComputeDescriptors runs every descriptor over m.
func ComputeDescriptors(m *Molecule) *DescriptorSet {
	counts := AtomCounts(m)
	ringBonds := RingBonds(m)
	ds := &DescriptorSet{
		Formula:         hillFormula(counts),
		AtomCounts:      counts,
		MolecularWeight: MolecularWeight(m),
		HeavyAtoms:      m.AtomCount(),
		Bonds:           CountBonds(m),
		RingClosures:    m.RingClosureCount(),
		RingCount:       RingCount(m),
		Fragments:       FragmentCount(m),
		HBondDonors:     HBondDonors(m),
		HBondAcceptors:  HBondAcceptors(m),
		RotatableBonds:  rotatableBonds(m, ringBonds),
		TPSA:            TPSA(m),
		LogP:            LogP(m),
	}
	for _, a := range m.atoms {
		if a.Aromatic {
			ds.AromaticAtoms++
		}
		if !a.Resolved {
			ds.UnresolvedAtoms++
		}
	}
	return ds
}

// AtomCounts tallies atoms by element, hydrogens included. The "H" key is
// present only when the molecule carries at least one hydrogen.
func AtomCounts(m *Molecule) map[string]int {
	counts := make(map[string]int)
	for i, a := range m.atoms {
		counts[a.Element]++
		if h := m.HydrogenCount(i); h > 0 {
			counts["H"] += h
		}
	}
	return counts
}

// MolecularFormula returns the Hill-order formula of m.
func MolecularFormula(m *Molecule) string {
	return hillFormula(AtomCounts(m))
}

// hillFormula orders carbon, then hydrogen, then the rest alphabetically.
// Without carbon every element, hydrogen included, is alphabetical.
func hillFormula(counts map[string]int) string {
	elements := make([]string, 0, len(counts))
	for el, n := range counts {
		if n > 0 {
			elements = append(elements, el)
		}
	}
	sort.Strings(elements)

	if counts["C"] > 0 {
		ordered := []string{"C"}
		if counts["H"] > 0 {
			ordered = append(ordered, "H")
		}
		for _, el := range elements {
			if el != "C" && el != "H" {
				ordered = append(ordered, el)
			}
		}
		elements = ordered
	}

	var sb strings.Builder
	for _, el := range elements {
		sb.WriteString(el)
		if n := counts[el]; n > 1 {
			sb.WriteString(strconv.Itoa(n))
		}
	}
	return sb.String()
}

// MolecularWeight returns the average molecular weight rounded to three
// decimals. Unknown elements weigh nothing.
func MolecularWeight(m *Molecule) float64 {
	total := 0.0
	for i, a := range m.atoms {
		total += AtomicWeight(a.Element)
		total += float64(m.HydrogenCount(i)) * atomicWeights["H"]
	}
	return round3(total)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// CountBonds tallies bonds by type.
func CountBonds(m *Molecule) BondTally {
	var t BondTally
	for _, b := range m.bonds {
		switch {
		case b.Aromatic:
			t.Aromatic++
		case b.Order == 2:
			t.Double++
		case b.Order == 3:
			t.Triple++
		default:
			t.Single++
		}
	}
	return t
}

func isPolarNO(element string) bool {
	return element == "O" || element == "N"
}

// HBondDonors counts O and N atoms bearing at least one hydrogen.
func HBondDonors(m *Molecule) int {
	n := 0
	for i, a := range m.atoms {
		if isPolarNO(a.Element) && m.HydrogenCount(i) > 0 {
			n++
		}
	}
	return n
}

// HBondAcceptors counts O and N atoms.
func HBondAcceptors(m *Molecule) int {
	n := 0
	for _, a := range m.atoms {
		if isPolarNO(a.Element) {
			n++
		}
	}
	return n
}

// RotatableBonds counts order-1, non-ring bonds between two non-terminal atoms.
func RotatableBonds(m *Molecule) int {
	return rotatableBonds(m, RingBonds(m))
}

func rotatableBonds(m *Molecule, ringBonds []bool) int {
	n := 0
	for i, b := range m.bonds {
		if b.Order != 1 || ringBonds[i] {
			continue
		}
		if m.Degree(b.From) > 1 && m.Degree(b.To) > 1 {
			n++
		}
	}
	return n
}

//Personal.AI order the ending
