package molecule

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/turtacn/molgraph/pkg/errors"
)

// SimilarityMetric defines the algorithm used for fingerprint comparison.
type SimilarityMetric string

const (
	MetricTanimoto SimilarityMetric = "tanimoto"
	MetricCosine   SimilarityMetric = "cosine"
)

// IsValid checks if the similarity metric is supported.
func (m SimilarityMetric) IsValid() bool {
	switch m {
	case MetricTanimoto, MetricCosine:
		return true
	default:
		return false
	}
}

func (m SimilarityMetric) String() string {
	return string(m)
}

// ParseSimilarityMetric parses a metric name; the empty string means Tanimoto.
func ParseSimilarityMetric(s string) (SimilarityMetric, error) {
	if s == "" {
		return MetricTanimoto, nil
	}
	m := SimilarityMetric(s)
	if m.IsValid() {
		return m, nil
	}
	return "", errors.New(errors.CodeInvalidParam, "unsupported similarity metric: "+s)
}

func checkLengths(a, b *Fingerprint) error {
	if a == nil || b == nil {
		return errors.InvalidParam("fingerprint must not be nil")
	}
	if a.Length() != b.Length() {
		return errors.Newf(errors.ErrCodeFingerprintLengthMismatch,
			"cannot compare fingerprints of %d and %d bits", a.Length(), b.Length())
	}
	return nil
}

// TanimotoSimilarity returns |a AND b| / |a OR b|, or 0 when both are empty.
func TanimotoSimilarity(a, b *Fingerprint) (float64, error) {
	if err := checkLengths(a, b); err != nil {
		return 0, err
	}
	union := a.bits.UnionCardinality(b.bits)
	if union == 0 {
		return 0, nil
	}
	return float64(a.bits.IntersectionCardinality(b.bits)) / float64(union), nil
}

// CosineSimilarity returns dot(a, b) / (|a| |b|), or 0 when either norm is 0.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.Newf(errors.ErrCodeFingerprintLengthMismatch,
			"cannot compare vectors of length %d and %d", len(a), len(b))
	}
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return floats.Dot(a, b) / (na * nb), nil
}

// Cosine compares two fingerprints as 0/1 vectors.
func (fp *Fingerprint) Cosine(other *Fingerprint) (float64, error) {
	if err := checkLengths(fp, other); err != nil {
		return 0, err
	}
	return CosineSimilarity(fp.ToFloat64s(), other.ToFloat64s())
}

// Similarity dispatches on metric.
func Similarity(a, b *Fingerprint, metric SimilarityMetric) (float64, error) {
	switch metric {
	case MetricTanimoto:
		return TanimotoSimilarity(a, b)
	case MetricCosine:
		return a.Cosine(b)
	default:
		return 0, errors.New(errors.CodeInvalidParam, "unsupported similarity metric: "+string(metric))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// k-nearest-neighbor ranking
// ─────────────────────────────────────────────────────────────────────────────

// Candidate is one entry of a fingerprint database.
type Candidate struct {
	ID          string
	Name        string
	SMILES      string
	Fingerprint *Fingerprint
}

// Neighbor is a ranked search hit.
type Neighbor struct {
	ID         string  `json:"id"`
	Name       string  `json:"name,omitempty"`
	SMILES     string  `json:"smiles"`
	Similarity float64 `json:"similarity"`
	Rank       int     `json:"rank"`
}

func (n Neighbor) String() string {
	return fmt.Sprintf("Neighbor{id=%s, similarity=%.4f, rank=%d}", n.ID, n.Similarity, n.Rank)
}

// NearestNeighbors scores every candidate by Tanimoto similarity to query and
// returns the k best, highest first. Ties keep database order. A k larger than
// the database returns everything; k <= 0 returns nothing.
func NearestNeighbors(query *Fingerprint, candidates []Candidate, k int) ([]Neighbor, error) {
	if k <= 0 || len(candidates) == 0 {
		return []Neighbor{}, nil
	}
	scored := make([]Neighbor, len(candidates))
	for i, c := range candidates {
		score, err := TanimotoSimilarity(query, c.Fingerprint)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "score candidate").WithDetail("id=" + c.ID)
		}
		scored[i] = Neighbor{ID: c.ID, Name: c.Name, SMILES: c.SMILES, Similarity: score}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if k < len(scored) {
		scored = scored[:k]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored, nil
}

// Similarity Threshold Constants
const (
	ThresholdIdentical          = 0.99
	ThresholdHighSimilarity     = 0.85
	ThresholdModerateSimilarity = 0.70
	ThresholdLowSimilarity      = 0.50
)

// ClassifySimilarity returns a classification label for a similarity score.
func ClassifySimilarity(score float64) string {
	if score >= ThresholdIdentical {
		return "identical"
	}
	if score >= ThresholdHighSimilarity {
		return "high"
	}
	if score >= ThresholdModerateSimilarity {
		return "moderate"
	}
	if score >= ThresholdLowSimilarity {
		return "low"
	}
	return "dissimilar"
}

//Personal.AI order the ending
