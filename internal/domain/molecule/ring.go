package molecule

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// FindBridges marks each bond whose removal would disconnect the graph.
//
// It is the discovery-time/low-link depth-first search, run with an explicit
// frame stack so deeply nested molecules do not grow the goroutine stack. The
// edge back to a vertex's parent is skipped by bond index rather than by
// vertex, so parallel bonds between the same pair are correctly not bridges.
func FindBridges(m *Molecule) []bool {
	n := m.AtomCount()
	bridges := make([]bool, m.BondCount())
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}

	type frame struct {
		atom       int
		parentBond int
		next       int
	}

	timer := 0
	for root := 0; root < n; root++ {
		if disc[root] != -1 {
			continue
		}
		disc[root], low[root] = timer, timer
		timer++
		stack := []frame{{atom: root, parentBond: -1}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			v := top.atom
			if top.next < len(m.incident[v]) {
				bi := m.incident[v][top.next]
				top.next++
				if bi == top.parentBond {
					continue
				}
				w := m.bonds[bi].Other(v)
				if disc[w] == -1 {
					disc[w], low[w] = timer, timer
					timer++
					stack = append(stack, frame{atom: w, parentBond: bi})
				} else if disc[w] < low[v] {
					low[v] = disc[w]
				}
				continue
			}

			done := *top
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				continue
			}
			p := stack[len(stack)-1].atom
			if low[done.atom] < low[p] {
				low[p] = low[done.atom]
			}
			if low[done.atom] > disc[p] {
				bridges[done.parentBond] = true
			}
		}
	}
	return bridges
}

// RingBonds marks each bond that lies on at least one ring, i.e. every bond
// that is not a bridge.
func RingBonds(m *Molecule) []bool {
	bridges := FindBridges(m)
	ring := make([]bool, len(bridges))
	for i, isBridge := range bridges {
		ring[i] = !isBridge
	}
	return ring
}

// RingAtoms marks each atom touching at least one ring bond.
func RingAtoms(m *Molecule) []bool {
	atoms := make([]bool, m.AtomCount())
	for i, inRing := range RingBonds(m) {
		if inRing {
			atoms[m.bonds[i].From] = true
			atoms[m.bonds[i].To] = true
		}
	}
	return atoms
}

// FragmentCount returns the number of disconnected components.
func FragmentCount(m *Molecule) int {
	if m.AtomCount() == 0 {
		return 0
	}
	g := simple.NewUndirectedGraph()
	for i := 0; i < m.AtomCount(); i++ {
		g.AddNode(simple.Node(int64(i)))
	}
	for _, b := range m.bonds {
		g.SetEdge(g.NewEdge(simple.Node(int64(b.From)), simple.Node(int64(b.To))))
	}
	return len(topo.ConnectedComponents(g))
}

// RingCount returns the cyclomatic number bonds - atoms + fragments, which
// equals the size of the smallest set of smallest rings.
func RingCount(m *Molecule) int {
	if m.AtomCount() == 0 {
		return 0
	}
	return m.BondCount() - m.AtomCount() + FragmentCount(m)
}

//Personal.AI order the ending
