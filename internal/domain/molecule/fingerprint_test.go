package molecule

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/pkg/errors"
)

func morgan(t *testing.T, smiles string, radius, nBits int) *Fingerprint {
	t.Helper()
	fp, err := CalculateMorganFingerprint(MustParse(smiles), radius, nBits)
	require.NoError(t, err)
	return fp
}

func TestCalculateMorganFingerprint_Defaults(t *testing.T) {
	opts := DefaultFingerprintCalcOptions()
	fp := morgan(t, aspirin, opts.Radius, opts.Bits)

	assert.Equal(t, 128, fp.Length())
	assert.Equal(t, 2, fp.Radius())
	assert.Equal(t, FingerprintMorgan, fp.Type())
	assert.Greater(t, fp.NumOnBits(), 0)

	bits := fp.ToBits()
	require.Len(t, bits, 128)
	sum := 0
	for _, b := range bits {
		assert.Contains(t, []int{0, 1}, b)
		sum += b
	}
	assert.Equal(t, fp.NumOnBits(), sum)
}

func TestCalculateMorganFingerprint_IdenticalInputsGiveIdenticalBits(t *testing.T) {
	a := morgan(t, aspirin, 2, 128)
	b := morgan(t, aspirin, 2, 128)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.ToBits(), b.ToBits())
}

func TestCalculateMorganFingerprint_RadiusZeroUsesAtomInvariants(t *testing.T) {
	benzene := morgan(t, "c1ccccc1", 0, 128)
	assert.Equal(t, 1, benzene.NumOnBits(), "six equivalent aromatic carbons share one invariant")

	ethanol := morgan(t, "CCO", 0, 128)
	assert.GreaterOrEqual(t, ethanol.NumOnBits(), 1)
	assert.LessOrEqual(t, ethanol.NumOnBits(), 3)
}

func TestCalculateMorganFingerprint_HigherLevelsOnlyAddBits(t *testing.T) {
	r0 := morgan(t, aspirin, 0, 1024)
	r2 := morgan(t, aspirin, 2, 1024)
	for _, i := range r0.OnBits() {
		assert.True(t, r2.GetBit(i), "bit %d lost at radius 2", i)
	}
	assert.GreaterOrEqual(t, r2.NumOnBits(), r0.NumOnBits())
}

func TestCalculateMorganFingerprint_BondOrderChangesEnvironment(t *testing.T) {
	single := morgan(t, "CCCC", 1, 2048)
	double := morgan(t, "CC=CC", 1, 2048)
	assert.False(t, single.Equal(double))
}

func TestCalculateMorganFingerprint_InvalidOptions(t *testing.T) {
	m := MustParse("CCO")
	for _, tc := range []struct{ radius, bits int }{{-1, 128}, {2, 0}, {2, -8}, {2, MaxFingerprintBits + 1}} {
		_, err := CalculateMorganFingerprint(m, tc.radius, tc.bits)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeFingerprintGenerationFailed))
	}
}

func TestCalculateMorganFingerprint_EmptyMolecule(t *testing.T) {
	fp := morgan(t, "()", 2, 64)
	assert.Equal(t, 0, fp.NumOnBits())
	assert.Equal(t, 64, fp.Length())
}

func TestFingerprint_PackedEncoding(t *testing.T) {
	fp := morgan(t, aspirin, 2, 100)

	packed := fp.ToBytes()
	assert.Len(t, packed, 13)
	decoded, err := FingerprintFromBytes(FingerprintMorgan, packed, 100)
	require.NoError(t, err)
	assert.True(t, fp.Equal(decoded))

	_, err = FingerprintFromBytes(FingerprintMorgan, packed, 128)
	assert.Error(t, err)

	raw, err := json.Marshal(fp)
	require.NoError(t, err)
	var restored Fingerprint
	require.NoError(t, json.Unmarshal(raw, &restored))
	assert.True(t, fp.Equal(&restored))
	assert.Equal(t, 2, restored.Radius())
}

func TestFingerprint_GetBitOutOfRange(t *testing.T) {
	fp := FingerprintFromBits(FingerprintMorgan, []int{1, 0, 1})
	assert.True(t, fp.GetBit(0))
	assert.False(t, fp.GetBit(1))
	assert.False(t, fp.GetBit(-1))
	assert.False(t, fp.GetBit(3))
	assert.Equal(t, []int{0, 2}, fp.OnBits())
}

//Personal.AI order the ending
