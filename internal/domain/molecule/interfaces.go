package molecule

import "github.com/turtacn/molgraph/pkg/errors"

// FingerprintType names a fingerprint algorithm.
type FingerprintType string

const (
	FingerprintMorgan FingerprintType = "morgan"
)

// IsValid reports whether t is a supported fingerprint type.
func (t FingerprintType) IsValid() bool {
	return t == FingerprintMorgan
}

const (
	DefaultFingerprintRadius = 2
	DefaultFingerprintBits   = 128
	// MaxFingerprintBits bounds caller-supplied lengths.
	MaxFingerprintBits = 1 << 16
)

// FingerprintCalcOptions defines parameters for fingerprint generation.
type FingerprintCalcOptions struct {
	Radius int `json:"radius" mapstructure:"radius"`
	Bits   int `json:"bits" mapstructure:"bits"`
}

// DefaultFingerprintCalcOptions returns radius 2, 128 bits.
func DefaultFingerprintCalcOptions() FingerprintCalcOptions {
	return FingerprintCalcOptions{Radius: DefaultFingerprintRadius, Bits: DefaultFingerprintBits}
}

// Validate rejects negative radii and non-positive or oversized lengths.
func (o FingerprintCalcOptions) Validate() error {
	if o.Radius < 0 {
		return errors.Newf(errors.ErrCodeFingerprintGenerationFailed, "radius must be >= 0, got %d", o.Radius)
	}
	if o.Bits <= 0 || o.Bits > MaxFingerprintBits {
		return errors.Newf(errors.ErrCodeFingerprintGenerationFailed,
			"bits must be in [1, %d], got %d", MaxFingerprintBits, o.Bits)
	}
	return nil
}

//Personal.AI order the ending
