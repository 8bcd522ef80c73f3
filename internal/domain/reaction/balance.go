// Package reaction checks atom conservation across reaction SMILES.
package reaction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
)

// Component is one species of a reaction with its stoichiometric coefficient.
type Component struct {
	SMILES      string `json:"smiles" yaml:"smiles"`
	Coefficient int    `json:"coefficient" yaml:"coefficient"`
}

// Reaction is a parsed reaction SMILES, reactants>agents>products.
type Reaction struct {
	Reactants []Component `json:"reactants"`
	Agents    []Component `json:"agents,omitempty"`
	Products  []Component `json:"products"`
}

// ElementDelta is the imbalance of one element. Delta is products minus
// reactants.
type ElementDelta struct {
	Element   string `json:"element"`
	Reactants int    `json:"reactants"`
	Products  int    `json:"products"`
	Delta     int    `json:"delta"`
}

// BalanceReport is the outcome of CheckBalance.
type BalanceReport struct {
	Balanced       bool           `json:"balanced"`
	ReactantCounts map[string]int `json:"reactant_counts"`
	ProductCounts  map[string]int `json:"product_counts"`
	Differences    []ElementDelta `json:"differences,omitempty"`
}

// ParseReactionSMILES splits "A.B>agents>C.D" into components with
// coefficient 1. The agents section may be empty; reactants and products may
// not.
func ParseReactionSMILES(s string) (*Reaction, error) {
	parts := strings.Split(strings.TrimSpace(s), ">")
	if len(parts) != 3 {
		return nil, errors.Newf(errors.ErrCodeReactionMalformed,
			"expected reactants>agents>products, found %d sections", len(parts))
	}
	r := &Reaction{
		Reactants: splitSpecies(parts[0]),
		Agents:    splitSpecies(parts[1]),
		Products:  splitSpecies(parts[2]),
	}
	if len(r.Reactants) == 0 {
		return nil, errors.New(errors.ErrCodeReactionMalformed, "reaction has no reactants")
	}
	if len(r.Products) == 0 {
		return nil, errors.New(errors.ErrCodeReactionMalformed, "reaction has no products")
	}
	return r, nil
}

func splitSpecies(section string) []Component {
	var out []Component
	for _, s := range strings.Split(section, ".") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, Component{SMILES: s, Coefficient: 1})
		}
	}
	return out
}

// CheckBalance compares coefficient-weighted atom counts, implicit hydrogens
// included, on both sides. A zero coefficient is read as 1.
func CheckBalance(reactants, products []Component) (*BalanceReport, error) {
	if len(reactants) == 0 || len(products) == 0 {
		return nil, errors.New(errors.ErrCodeReactionMalformed, "both sides of a reaction need at least one component")
	}
	left, err := tally(reactants)
	if err != nil {
		return nil, err
	}
	right, err := tally(products)
	if err != nil {
		return nil, err
	}

	report := &BalanceReport{ReactantCounts: left, ProductCounts: right}
	for _, el := range unionKeys(left, right) {
		if d := right[el] - left[el]; d != 0 {
			report.Differences = append(report.Differences, ElementDelta{
				Element: el, Reactants: left[el], Products: right[el], Delta: d,
			})
		}
	}
	report.Balanced = len(report.Differences) == 0
	return report, nil
}

// Balance checks a parsed reaction. Agents do not take part.
func (r *Reaction) Balance() (*BalanceReport, error) {
	return CheckBalance(r.Reactants, r.Products)
}

func tally(components []Component) (map[string]int, error) {
	total := make(map[string]int)
	for i, c := range components {
		if c.Coefficient < 0 {
			return nil, errors.Newf(errors.ErrCodeReactionMalformed,
				"component %d has negative coefficient %d", i, c.Coefficient)
		}
		m, err := molecule.Parse(c.SMILES)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeReactionComponentFailed,
				fmt.Sprintf("component %d", i)).WithDetail(c.SMILES)
		}
		coef := c.Coefficient
		if coef == 0 {
			coef = 1
		}
		for el, n := range molecule.AtomCounts(m) {
			total[el] += coef * n
		}
	}
	return total, nil
}

func unionKeys(a, b map[string]int) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

//Personal.AI order the ending
