package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/turtacn/molgraph/internal/domain/reaction"
	moltypes "github.com/turtacn/molgraph/pkg/types/molecule"
)

func ftoa(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// validationView renders one or more validity checks.
type validationView []*moltypes.ValidationDTO

func (v validationView) JSONValue() interface{} {
	if len(v) == 1 {
		return v[0]
	}
	return []*moltypes.ValidationDTO(v)
}

func (v validationView) String() string {
	lines := make([]string, 0, len(v))
	for _, r := range v {
		if r.Valid {
			lines = append(lines, fmt.Sprintf("%s\t%s", r.SMILES, color.GreenString("valid")))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s\t%s: %s", r.SMILES, color.RedString("invalid"), r.Reason))
	}
	return strings.Join(lines, "\n")
}

func (v validationView) TableHeaders() []string { return []string{"SMILES", "Valid", "Reason"} }

func (v validationView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, r := range v {
		rows = append(rows, []string{r.SMILES, strconv.FormatBool(r.Valid), r.Reason})
	}
	return rows
}

// moleculeView renders the atom and bond arena of a parsed molecule.
type moleculeView struct{ *moltypes.MoleculeDTO }

func (v moleculeView) JSONValue() interface{} { return v.MoleculeDTO }

func (v moleculeView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d atoms, %d bonds, %d ring closures\n",
		v.SMILES, len(v.Atoms), len(v.Bonds), v.RingClosures)
	for _, a := range v.Atoms {
		fmt.Fprintf(&sb, "  atom %d %s", a.Index, atomLabel(a))
		if a.Hydrogens > 0 {
			fmt.Fprintf(&sb, " H%d", a.Hydrogens)
		}
		sb.WriteByte('\n')
	}
	for _, b := range v.Bonds {
		fmt.Fprintf(&sb, "  bond %d-%d %s\n", b.From, b.To, bondLabel(b))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (v moleculeView) TableHeaders() []string {
	return []string{"Index", "Element", "Aromatic", "Charge", "Isotope", "Hydrogens", "Neighbors"}
}

func (v moleculeView) TableRows() [][]string {
	neighbors := make([][]string, len(v.Atoms))
	for _, b := range v.Bonds {
		if b.From < len(neighbors) && b.To < len(neighbors) {
			neighbors[b.From] = append(neighbors[b.From], strconv.Itoa(b.To))
			neighbors[b.To] = append(neighbors[b.To], strconv.Itoa(b.From))
		}
	}
	rows := make([][]string, 0, len(v.Atoms))
	for i, a := range v.Atoms {
		rows = append(rows, []string{
			strconv.Itoa(a.Index),
			a.Element,
			strconv.FormatBool(a.Aromatic),
			strconv.Itoa(a.Charge),
			strconv.Itoa(a.Isotope),
			strconv.Itoa(a.Hydrogens),
			strings.Join(neighbors[i], ","),
		})
	}
	return rows
}

func atomLabel(a moltypes.AtomDTO) string {
	label := a.Element
	if a.Aromatic {
		label = strings.ToLower(label)
	}
	switch {
	case a.Charge > 0:
		label += "+" + strconv.Itoa(a.Charge)
	case a.Charge < 0:
		label += strconv.Itoa(a.Charge)
	}
	if a.Isotope > 0 {
		label = strconv.Itoa(a.Isotope) + label
	}
	return label
}

func bondLabel(b moltypes.BondDTO) string {
	var label string
	switch {
	case b.Aromatic:
		label = "aromatic"
	case b.Order == 2:
		label = "double"
	case b.Order == 3:
		label = "triple"
	default:
		label = "single"
	}
	if b.RingClosure {
		label += " (ring closure)"
	}
	return label
}

// descriptorRows lists descriptor name/value pairs in display order.
func descriptorRows(d moltypes.DescriptorsDTO) [][]string {
	return [][]string{
		{"Formula", d.Formula},
		{"Molecular weight", ftoa(d.MolecularWeight, 3)},
		{"Heavy atoms", strconv.Itoa(d.HeavyAtoms)},
		{"Aromatic atoms", strconv.Itoa(d.AromaticAtoms)},
		{"Bonds", fmt.Sprintf("%d single, %d double, %d triple, %d aromatic",
			d.Bonds.Single, d.Bonds.Double, d.Bonds.Triple, d.Bonds.Aromatic)},
		{"Ring closures", strconv.Itoa(d.RingClosures)},
		{"Rings", strconv.Itoa(d.RingCount)},
		{"Fragments", strconv.Itoa(d.Fragments)},
		{"H-bond donors", strconv.Itoa(d.HBondDonors)},
		{"H-bond acceptors", strconv.Itoa(d.HBondAcceptors)},
		{"Rotatable bonds", strconv.Itoa(d.RotatableBonds)},
		{"TPSA", ftoa(d.TPSA, 2)},
		{"LogP", ftoa(d.LogP, 2)},
	}
}

// analysisView renders the descriptors of one molecule.
type analysisView struct{ *moltypes.AnalysisDTO }

func (v analysisView) JSONValue() interface{} { return v.AnalysisDTO }

func (v analysisView) String() string {
	var sb strings.Builder
	sb.WriteString(v.SMILES)
	for _, row := range descriptorRows(v.Descriptors) {
		fmt.Fprintf(&sb, "\n  %-18s %s", row[0]+":", row[1])
	}
	if v.Descriptors.UnresolvedAtoms > 0 {
		fmt.Fprintf(&sb, "\n  %s %d atoms use unknown elements",
			color.YellowString("warning:"), v.Descriptors.UnresolvedAtoms)
	}
	return sb.String()
}

func (v analysisView) TableHeaders() []string { return []string{"Descriptor", "Value"} }

func (v analysisView) TableRows() [][]string { return descriptorRows(v.Descriptors) }

// batchView renders a multi-molecule analysis.
type batchView struct{ *moltypes.BatchResult }

func (v batchView) JSONValue() interface{} { return v.BatchResult }

func (v batchView) TableHeaders() []string {
	return []string{"#", "SMILES", "Formula", "MW", "LogP", "TPSA", "Error"}
}

func (v batchView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Items))
	for _, it := range v.Items {
		row := []string{strconv.Itoa(it.Index), truncateString(it.SMILES, 40), "", "", "", "", ""}
		if it.Result != nil {
			d := it.Result.Descriptors
			row[2] = d.Formula
			row[3] = ftoa(d.MolecularWeight, 3)
			row[4] = ftoa(d.LogP, 2)
			row[5] = ftoa(d.TPSA, 2)
		}
		if it.Error != nil {
			row[6] = it.Error.Code + ": " + it.Error.Message
		}
		rows = append(rows, row)
	}
	return rows
}

func (v batchView) String() string {
	var sb strings.Builder
	for _, it := range v.Items {
		if it.Error != nil {
			fmt.Fprintf(&sb, "%s\t%s %s\n", it.SMILES, color.RedString("error:"), it.Error.Message)
			continue
		}
		d := it.Result.Descriptors
		fmt.Fprintf(&sb, "%s\t%s\tMW=%s\tlogP=%s\tTPSA=%s\n",
			it.SMILES, d.Formula, ftoa(d.MolecularWeight, 3), ftoa(d.LogP, 2), ftoa(d.TPSA, 2))
	}
	s := v.Summary
	fmt.Fprintf(&sb, "\n%d analyzed, %d failed; mean MW %s (sd %s), mean logP %s, mean TPSA %s, drug-like %s%%",
		s.Succeeded, s.Failed, ftoa(s.MeanWeight, 3), ftoa(s.StdDevWeight, 3),
		ftoa(s.MeanLogP, 2), ftoa(s.MeanTPSA, 2), ftoa(s.DrugLikeFraction*100, 1))
	return sb.String()
}

// formulaView is the formula and weight of one molecule.
type formulaView struct {
	SMILES          string  `json:"smiles"`
	Formula         string  `json:"formula"`
	MolecularWeight float64 `json:"molecular_weight"`
}

func (v formulaView) String() string {
	return fmt.Sprintf("%s\t%s", v.Formula, ftoa(v.MolecularWeight, 3))
}

func (v formulaView) TableHeaders() []string { return []string{"SMILES", "Formula", "MW"} }

func (v formulaView) TableRows() [][]string {
	return [][]string{{v.SMILES, v.Formula, ftoa(v.MolecularWeight, 3)}}
}

// fingerprintView renders a fingerprint as a bit string.
type fingerprintView struct {
	SMILES string
	*moltypes.FingerprintDTO
}

func (v fingerprintView) JSONValue() interface{} { return v.FingerprintDTO }

func (v fingerprintView) bitString() string {
	var sb strings.Builder
	sb.Grow(len(v.Bits))
	for _, b := range v.Bits {
		if b != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func (v fingerprintView) String() string {
	return fmt.Sprintf("%s radius=%d bits=%d on=%d\n%s", v.Type, v.Radius, v.Length, v.OnBits, v.bitString())
}

func (v fingerprintView) TableHeaders() []string {
	return []string{"SMILES", "Type", "Radius", "Length", "On bits"}
}

func (v fingerprintView) TableRows() [][]string {
	return [][]string{{v.SMILES, v.Type, strconv.Itoa(v.Radius), strconv.Itoa(v.Length), strconv.Itoa(v.OnBits)}}
}

// drugLikeView renders rule checks next to the descriptors they read.
type drugLikeView struct {
	SMILES       string                    `json:"smiles"`
	Descriptors  moltypes.DescriptorsDTO   `json:"descriptors"`
	DrugLikeness *moltypes.DrugLikenessDTO `json:"drug_likeness"`
}

func (v drugLikeView) TableHeaders() []string { return []string{"Rule", "Property", "Value", "Limit"} }

func (v drugLikeView) TableRows() [][]string {
	d := v.Descriptors
	return [][]string{
		{"Lipinski", "molecular weight", ftoa(d.MolecularWeight, 3), "500"},
		{"Lipinski", "logP", ftoa(d.LogP, 2), "5"},
		{"Lipinski", "H-bond donors", strconv.Itoa(d.HBondDonors), "5"},
		{"Lipinski", "H-bond acceptors", strconv.Itoa(d.HBondAcceptors), "10"},
		{"Veber", "rotatable bonds", strconv.Itoa(d.RotatableBonds), "10"},
		{"Veber", "TPSA", ftoa(d.TPSA, 2), "140"},
	}
}

func (v drugLikeView) String() string {
	dl := v.DrugLikeness
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n  Lipinski: %s (%d violations)\n  Veber:    %s",
		v.SMILES, passFail(dl.Lipinski), dl.LipinskiViolations, passFail(dl.Veber))
	for _, viol := range dl.Violations {
		fmt.Fprintf(&sb, "\n  - %s", viol)
	}
	return sb.String()
}

// similarityView renders a pairwise comparison.
type similarityView struct{ *moltypes.SimilarityDTO }

func (v similarityView) JSONValue() interface{} { return v.SimilarityDTO }

func (v similarityView) String() string {
	return fmt.Sprintf("%s %s (%s)", v.Metric, colorSimilarity(v.Score), v.Level)
}

func (v similarityView) TableHeaders() []string {
	return []string{"Query", "Target", "Metric", "Score", "Level"}
}

func (v similarityView) TableRows() [][]string {
	return [][]string{{
		truncateString(v.QuerySMILES, 40),
		truncateString(v.TargetSMILES, 40),
		v.Metric,
		colorSimilarity(v.Score),
		v.Level,
	}}
}

// neighborsView renders ranked search hits.
type neighborsView []moltypes.NeighborDTO

func (v neighborsView) JSONValue() interface{} { return []moltypes.NeighborDTO(v) }

func (v neighborsView) TableHeaders() []string {
	return []string{"Rank", "Similarity", "ID", "Name", "SMILES"}
}

func (v neighborsView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, n := range v {
		rows = append(rows, []string{
			strconv.Itoa(n.Rank),
			colorSimilarity(n.Similarity),
			truncateString(n.ID, 36),
			truncateString(n.Name, 30),
			truncateString(n.SMILES, 40),
		})
	}
	return rows
}

func (v neighborsView) String() string {
	if len(v) == 0 {
		return "no matches"
	}
	lines := make([]string, 0, len(v))
	for _, n := range v {
		name := n.Name
		if name == "" {
			name = n.ID
		}
		lines = append(lines, fmt.Sprintf("%d\t%s\t%s\t%s", n.Rank, colorSimilarity(n.Similarity), name, n.SMILES))
	}
	return strings.Join(lines, "\n")
}

// balanceView renders per-element totals on both sides of a reaction.
type balanceView struct{ *reaction.BalanceReport }

func (v balanceView) JSONValue() interface{} { return v.BalanceReport }

func (v balanceView) elements() []string {
	seen := make(map[string]struct{})
	for el := range v.ReactantCounts {
		seen[el] = struct{}{}
	}
	for el := range v.ProductCounts {
		seen[el] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for el := range seen {
		out = append(out, el)
	}
	sort.Strings(out)
	return out
}

func (v balanceView) TableHeaders() []string {
	return []string{"Element", "Reactants", "Products", "Delta"}
}

func (v balanceView) TableRows() [][]string {
	els := v.elements()
	rows := make([][]string, 0, len(els))
	for _, el := range els {
		r, p := v.ReactantCounts[el], v.ProductCounts[el]
		rows = append(rows, []string{el, strconv.Itoa(r), strconv.Itoa(p), strconv.Itoa(p - r)})
	}
	return rows
}

func (v balanceView) String() string {
	if v.Balanced {
		return color.GreenString("balanced")
	}
	var sb strings.Builder
	sb.WriteString(color.RedString("unbalanced"))
	for _, d := range v.Differences {
		fmt.Fprintf(&sb, "\n  %s: reactants %d, products %d (delta %+d)", d.Element, d.Reactants, d.Products, d.Delta)
	}
	return sb.String()
}

// compoundsView renders library entries.
type compoundsView []*moltypes.CompoundDTO

func (v compoundsView) JSONValue() interface{} { return []*moltypes.CompoundDTO(v) }

func (v compoundsView) TableHeaders() []string {
	return []string{"ID", "Name", "SMILES", "Formula", "MW"}
}

func (v compoundsView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, c := range v {
		rows = append(rows, []string{
			truncateString(string(c.ID), 36),
			truncateString(c.Name, 30),
			truncateString(c.SMILES, 40),
			c.Formula,
			ftoa(c.MolecularWeight, 3),
		})
	}
	return rows
}

func (v compoundsView) String() string {
	if len(v) == 0 {
		return "library is empty"
	}
	lines := make([]string, 0, len(v))
	for _, c := range v {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s\t%s", c.ID, c.Name, c.SMILES, c.Formula))
	}
	return strings.Join(lines, "\n")
}

//Personal.AI order the ending
