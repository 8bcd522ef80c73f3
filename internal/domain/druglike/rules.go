// Package druglike applies rule-of-thumb oral bioavailability filters to
// computed descriptors.
package druglike

import (
	"fmt"

	"github.com/turtacn/molgraph/internal/domain/molecule"
)

// Lipinski and Veber limits.
const (
	LipinskiMaxWeight    = 500.0
	LipinskiMaxLogP      = 5.0
	LipinskiMaxDonors    = 5
	LipinskiMaxAcceptors = 10
	LipinskiMaxViolation = 1

	VeberMaxRotatable = 10
	VeberMaxTPSA      = 140.0
)

// Violation describes one broken limit.
type Violation struct {
	Rule     string  `json:"rule"`
	Property string  `json:"property"`
	Value    float64 `json:"value"`
	Limit    float64 `json:"limit"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s %.2f exceeds %.2f", v.Rule, v.Property, v.Value, v.Limit)
}

// Report is the outcome of Evaluate.
type Report struct {
	Lipinski           bool        `json:"lipinski"`
	LipinskiViolations int         `json:"lipinski_violations"`
	Veber              bool        `json:"veber"`
	Violations         []Violation `json:"violations,omitempty"`
}

// DrugLike reports whether both rule sets pass.
func (r Report) DrugLike() bool {
	return r.Lipinski && r.Veber
}

// Evaluate checks the rule of five (at most one violation allowed) and the
// Veber criteria (both must hold). A nil set fails both.
func Evaluate(ds *molecule.DescriptorSet) Report {
	if ds == nil {
		return Report{}
	}
	var r Report
	check := func(rule, prop string, value, limit float64) bool {
		if value > limit {
			r.Violations = append(r.Violations, Violation{Rule: rule, Property: prop, Value: value, Limit: limit})
			return false
		}
		return true
	}

	for _, ok := range []bool{
		check("lipinski", "molecular_weight", ds.MolecularWeight, LipinskiMaxWeight),
		check("lipinski", "logp", ds.LogP, LipinskiMaxLogP),
		check("lipinski", "hbd", float64(ds.HBondDonors), LipinskiMaxDonors),
		check("lipinski", "hba", float64(ds.HBondAcceptors), LipinskiMaxAcceptors),
	} {
		if !ok {
			r.LipinskiViolations++
		}
	}
	r.Lipinski = r.LipinskiViolations <= LipinskiMaxViolation

	rot := check("veber", "rotatable_bonds", float64(ds.RotatableBonds), VeberMaxRotatable)
	polar := check("veber", "tpsa", ds.TPSA, VeberMaxTPSA)
	r.Veber = rot && polar
	return r
}

//Personal.AI order the ending
