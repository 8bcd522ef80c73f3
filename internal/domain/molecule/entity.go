// Package molecule implements the SMILES graph model: tokenizing, validity
// checking, graph building, implicit hydrogen inference, ring analysis,
// descriptors and circular fingerprints.
//
// A Molecule is an arena: atoms are addressed by integer index in first-seen
// order and bonds are index pairs. Once Parse returns, a Molecule is never
// mutated, so it may be shared freely between goroutines.
package molecule

// Atom is a single atom of a parsed molecule.
type Atom struct {
	Index    int    `json:"index"`
	Element  string `json:"element"`
	Aromatic bool   `json:"aromatic"`
	// Bracket is true for atoms written inside [ ]. Bracket atoms never
	// receive inferred hydrogens.
	Bracket bool `json:"bracket"`
	// ExplicitH is the H count written in a bracket atom, nil when absent.
	ExplicitH *int   `json:"explicit_h,omitempty"`
	Charge    int    `json:"charge,omitempty"`
	Isotope   int    `json:"isotope,omitempty"`
	Chirality string `json:"chirality,omitempty"`
	// Resolved is false when the bracket content did not name a known
	// element and the first-letter fallback was applied.
	Resolved bool `json:"resolved"`
}

// Bond connects two atoms by index.
type Bond struct {
	From  int `json:"from"`
	To    int `json:"to"`
	Order int `json:"order"`
	// Aromatic is set for ":" bonds and for unmarked bonds between two
	// aromatic atoms. Aromatic bonds keep Order 1.
	Aromatic bool `json:"aromatic"`
	// Explicit is true when a bond symbol was written.
	Explicit    bool `json:"explicit"`
	RingClosure bool `json:"ring_closure"`
}

// Other returns the endpoint of b that is not atom.
func (b Bond) Other(atom int) int {
	if b.From == atom {
		return b.To
	}
	return b.From
}

// Molecule is the immutable atom/bond graph produced by Parse.
type Molecule struct {
	smiles       string
	atoms        []Atom
	bonds        []Bond
	ringClosures int
	// incident holds bond indices per atom.
	incident [][]int
}

// SMILES returns the notation the molecule was parsed from.
func (m *Molecule) SMILES() string { return m.smiles }

// AtomCount returns the number of heavy (written) atoms.
func (m *Molecule) AtomCount() int { return len(m.atoms) }

// BondCount returns the number of bonds.
func (m *Molecule) BondCount() int { return len(m.bonds) }

// RingClosureCount returns how many ring-closure labels were paired.
func (m *Molecule) RingClosureCount() int { return m.ringClosures }

// Atom returns a copy of atom i.
func (m *Molecule) Atom(i int) Atom {
	a := m.atoms[i]
	if a.ExplicitH != nil {
		h := *a.ExplicitH
		a.ExplicitH = &h
	}
	return a
}

// Atoms returns a copy of the atom list.
func (m *Molecule) Atoms() []Atom {
	out := make([]Atom, len(m.atoms))
	for i := range m.atoms {
		out[i] = m.Atom(i)
	}
	return out
}

// Bond returns bond i.
func (m *Molecule) Bond(i int) Bond { return m.bonds[i] }

// Bonds returns a copy of the bond list.
func (m *Molecule) Bonds() []Bond {
	out := make([]Bond, len(m.bonds))
	copy(out, m.bonds)
	return out
}

// Degree returns the number of bonds incident to atom i.
func (m *Molecule) Degree(i int) int { return len(m.incident[i]) }

// IncidentBonds returns the indices of bonds touching atom i.
func (m *Molecule) IncidentBonds(i int) []int {
	out := make([]int, len(m.incident[i]))
	copy(out, m.incident[i])
	return out
}

// Neighbors returns the atoms bonded to atom i, in bond creation order.
// An atom joined by parallel bonds appears once per bond.
func (m *Molecule) Neighbors(i int) []int {
	out := make([]int, 0, len(m.incident[i]))
	for _, b := range m.incident[i] {
		out = append(out, m.bonds[b].Other(i))
	}
	return out
}

// BondOrderSum returns the sum of orders of bonds incident to atom i.
func (m *Molecule) BondOrderSum(i int) int {
	sum := 0
	for _, b := range m.incident[i] {
		sum += m.bonds[b].Order
	}
	return sum
}

// HydrogenCount returns the hydrogens attached to atom i: the written count
// for bracket atoms, the valence-model inference otherwise.
func (m *Molecule) HydrogenCount(i int) int {
	a := m.atoms[i]
	if a.Bracket {
		if a.ExplicitH != nil {
			return *a.ExplicitH
		}
		return 0
	}
	return ImplicitHydrogens(a.Element, a.Aromatic, m.BondOrderSum(i))
}

// TotalHydrogens returns the hydrogens attached to all atoms.
func (m *Molecule) TotalHydrogens() int {
	total := 0
	for i := range m.atoms {
		total += m.HydrogenCount(i)
	}
	return total
}

// HasUnresolvedAtoms reports whether any bracket atom fell back to the
// first-letter element guess.
func (m *Molecule) HasUnresolvedAtoms() bool {
	for _, a := range m.atoms {
		if !a.Resolved {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
