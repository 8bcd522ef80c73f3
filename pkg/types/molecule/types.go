// Package molecule defines the molecule Data Transfer Objects shared by the
// application service, the CLI and the worker. No chemistry lives here, only
// plain data types that are safe to import from any layer.
package molecule

import (
	"fmt"
	"strings"

	"github.com/turtacn/molgraph/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Graph
// ─────────────────────────────────────────────────────────────────────────────

// AtomDTO is one heavy atom of a parsed molecule.
type AtomDTO struct {
	Index     int    `json:"index"`
	Element   string `json:"element"`
	Aromatic  bool   `json:"aromatic,omitempty"`
	Bracket   bool   `json:"bracket,omitempty"`
	Charge    int    `json:"charge,omitempty"`
	Isotope   int    `json:"isotope,omitempty"`
	Chirality string `json:"chirality,omitempty"`

	// Hydrogens is the explicit count for bracket atoms and the implicit count
	// otherwise.
	Hydrogens int `json:"hydrogens"`

	// Resolved is false when a bracket element could not be recognized and a
	// fallback symbol was used.
	Resolved bool `json:"resolved"`
}

// BondDTO is an edge between two atom indices.
type BondDTO struct {
	From        int  `json:"from"`
	To          int  `json:"to"`
	Order       int  `json:"order"`
	Aromatic    bool `json:"aromatic,omitempty"`
	RingClosure bool `json:"ring_closure,omitempty"`
}

// MoleculeDTO is the graph view of a SMILES string.
type MoleculeDTO struct {
	SMILES       string    `json:"smiles"`
	Atoms        []AtomDTO `json:"atoms"`
	Bonds        []BondDTO `json:"bonds"`
	RingClosures int       `json:"ring_closures"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Descriptors
// ─────────────────────────────────────────────────────────────────────────────

// BondCountsDTO tallies bonds by type.
type BondCountsDTO struct {
	Single   int `json:"single"`
	Double   int `json:"double"`
	Triple   int `json:"triple"`
	Aromatic int `json:"aromatic"`
}

// DescriptorsDTO holds the computed descriptor set for a molecule.
type DescriptorsDTO struct {
	Formula         string         `json:"formula"`
	AtomCounts      map[string]int `json:"atom_counts"`
	MolecularWeight float64        `json:"molecular_weight"`
	HeavyAtoms      int            `json:"heavy_atoms"`
	Bonds           BondCountsDTO  `json:"bonds"`
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

// DrugLikenessDTO is the rule-of-five and Veber verdict.
type DrugLikenessDTO struct {
	Lipinski           bool     `json:"lipinski"`
	LipinskiViolations int      `json:"lipinski_violations"`
	Veber              bool     `json:"veber"`
	Violations         []string `json:"violations,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Fingerprints & similarity
// ─────────────────────────────────────────────────────────────────────────────

// FingerprintDTO is a fingerprint as a 0/1 array.
type FingerprintDTO struct {
	Type   string `json:"type"`
	Radius int    `json:"radius"`
	Length int    `json:"length"`
	OnBits int    `json:"on_bits"`
	Bits   []int  `json:"bits"`
}

// SimilarityDTO is the score of one pairwise comparison.
type SimilarityDTO struct {
	QuerySMILES  string  `json:"query_smiles"`
	TargetSMILES string  `json:"target_smiles"`
	Metric       string  `json:"metric"`
	Score        float64 `json:"score"`
	Level        string  `json:"level"`
}

// NeighborDTO is one ranked hit of a nearest-neighbor search.
type NeighborDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name,omitempty"`
	SMILES     string  `json:"smiles"`
	Similarity float64 `json:"similarity"`
	Rank       int     `json:"rank"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Requests & results
// ─────────────────────────────────────────────────────────────────────────────

// AnalysisDTO is the full result of analyzing one SMILES string.
type AnalysisDTO struct {
	SMILES       string           `json:"smiles"`
	Molecule     *MoleculeDTO     `json:"molecule,omitempty"`
	Descriptors  DescriptorsDTO   `json:"descriptors"`
	Fingerprint  *FingerprintDTO  `json:"fingerprint,omitempty"`
	DrugLikeness *DrugLikenessDTO `json:"drug_likeness,omitempty"`
}

// ValidationDTO is the result of a validity check.
type ValidationDTO struct {
	SMILES string `json:"smiles"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// SimilaritySearchRequest asks for the k library entries nearest to SMILES.
type SimilaritySearchRequest struct {
	SMILES        string  `json:"smiles"`
	K             int     `json:"k"`
	MinSimilarity float64 `json:"min_similarity,omitempty"`
}

// Validate checks request bounds. A K of zero is allowed and yields no hits.
func (r SimilaritySearchRequest) Validate() error {
	if strings.TrimSpace(r.SMILES) == "" {
		return fmt.Errorf("smiles is required")
	}
	if r.K < 0 {
		return fmt.Errorf("k must be >= 0, got %d", r.K)
	}
	if r.MinSimilarity < 0 || r.MinSimilarity > 1 {
		return fmt.Errorf("min_similarity must be in [0, 1], got %g", r.MinSimilarity)
	}
	return nil
}

// CompoundDTO is a registered library entry.
type CompoundDTO struct {
	ID              common.ID        `json:"id"`
	Name            string           `json:"name"`
	SMILES          string           `json:"smiles"`
	Formula         string           `json:"formula"`
	MolecularWeight float64          `json:"molecular_weight"`
	CreatedAt       common.Timestamp `json:"created_at"`
}

// BatchItem is the outcome for one input of a batch analysis. Exactly one of
// Result and Error is set.
type BatchItem struct {
	Index  int                 `json:"index"`
	SMILES string              `json:"smiles"`
	Result *AnalysisDTO        `json:"result,omitempty"`
	Error  *common.ErrorDetail `json:"error,omitempty"`
}

// BatchSummary aggregates the successful items of a batch.
type BatchSummary struct {
	Total            int     `json:"total"`
	Succeeded        int     `json:"succeeded"`
	Failed           int     `json:"failed"`
	MeanWeight       float64 `json:"mean_molecular_weight"`
	StdDevWeight     float64 `json:"stddev_molecular_weight"`
	MeanLogP         float64 `json:"mean_logp"`
	MeanTPSA         float64 `json:"mean_tpsa"`
	DrugLikeFraction float64 `json:"drug_like_fraction"`
}

// BatchResult is the output of a batch analysis, items in input order.
type BatchResult struct {
	Items   []BatchItem  `json:"items"`
	Summary BatchSummary `json:"summary"`
}

// Errors returns the failed items as batch errors.
func (b *BatchResult) Errors() []common.BatchError {
	var out []common.BatchError
	for _, it := range b.Items {
		if it.Error != nil {
			out = append(out, common.BatchError{Index: it.Index, Error: *it.Error})
		}
	}
	return out
}

//Personal.AI order the ending
