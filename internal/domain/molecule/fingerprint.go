package molecule

import (
	"encoding/binary"
	"encoding/json"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/cespare/xxhash/v2"

	"github.com/turtacn/molgraph/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fingerprint Structure
// ─────────────────────────────────────────────────────────────────────────────

// Fingerprint is an immutable fixed-length bit vector.
type Fingerprint struct {
	fpType FingerprintType
	radius int
	bits   *bitset.BitSet
}

// newFingerprint returns an all-zero fingerprint of length bits.
func newFingerprint(fpType FingerprintType, radius, length int) *Fingerprint {
	return &Fingerprint{fpType: fpType, radius: radius, bits: bitset.New(uint(length))}
}

// FingerprintFromBits builds a fingerprint from a 0/1 array.
func FingerprintFromBits(fpType FingerprintType, bits []int) *Fingerprint {
	fp := newFingerprint(fpType, 0, len(bits))
	for i, v := range bits {
		if v != 0 {
			fp.bits.Set(uint(i))
		}
	}
	return fp
}

// FingerprintFromBytes decodes the packed layout produced by ToBytes.
func FingerprintFromBytes(fpType FingerprintType, data []byte, length int) (*Fingerprint, error) {
	if length <= 0 || len(data) != (length+7)/8 {
		return nil, errors.Newf(errors.ErrCodeFingerprintGenerationFailed,
			"packed fingerprint of %d bytes does not hold %d bits", len(data), length)
	}
	fp := newFingerprint(fpType, 0, length)
	for i := 0; i < length; i++ {
		if data[i/8]&(1<<uint(i%8)) != 0 {
			fp.bits.Set(uint(i))
		}
	}
	return fp, nil
}

// RestoreFingerprint decodes a stored fingerprint together with the radius it
// was generated at.
func RestoreFingerprint(fpType FingerprintType, radius int, data []byte, length int) (*Fingerprint, error) {
	fp, err := FingerprintFromBytes(fpType, data, length)
	if err != nil {
		return nil, err
	}
	fp.radius = radius
	return fp, nil
}

// Type returns the algorithm that produced the fingerprint.
func (fp *Fingerprint) Type() FingerprintType { return fp.fpType }

// Radius returns the neighborhood radius used, 0 for decoded fingerprints.
func (fp *Fingerprint) Radius() int { return fp.radius }

// Length returns the number of bits.
func (fp *Fingerprint) Length() int { return int(fp.bits.Len()) }

// NumOnBits returns the popcount.
func (fp *Fingerprint) NumOnBits() int { return int(fp.bits.Count()) }

// GetBit reports whether bit i is set. Out-of-range indices report false.
func (fp *Fingerprint) GetBit(i int) bool {
	if i < 0 || i >= fp.Length() {
		return false
	}
	return fp.bits.Test(uint(i))
}

// OnBits returns the indices of set bits in ascending order.
func (fp *Fingerprint) OnBits() []int {
	out := make([]int, 0, fp.NumOnBits())
	for i, ok := fp.bits.NextSet(0); ok; i, ok = fp.bits.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// ToBits returns the fingerprint as a 0/1 array.
func (fp *Fingerprint) ToBits() []int {
	out := make([]int, fp.Length())
	for _, i := range fp.OnBits() {
		out[i] = 1
	}
	return out
}

// ToFloat64s returns the fingerprint as a 0/1 float vector.
func (fp *Fingerprint) ToFloat64s() []float64 {
	out := make([]float64, fp.Length())
	for _, i := range fp.OnBits() {
		out[i] = 1
	}
	return out
}

// ToBytes packs the fingerprint with bit i at byte i/8, position i%8.
func (fp *Fingerprint) ToBytes() []byte {
	out := make([]byte, (fp.Length()+7)/8)
	for _, i := range fp.OnBits() {
		out[i/8] |= 1 << uint(i%8)
	}
	return out
}

// Equal reports whether both fingerprints have the same length and bits.
func (fp *Fingerprint) Equal(other *Fingerprint) bool {
	if fp == nil || other == nil {
		return fp == other
	}
	return fp.bits.Equal(other.bits)
}

type fingerprintJSON struct {
	Type   FingerprintType `json:"type"`
	Radius int             `json:"radius"`
	Length int             `json:"length"`
	Bits   []byte          `json:"bits"`
}

// MarshalJSON encodes the packed form.
func (fp *Fingerprint) MarshalJSON() ([]byte, error) {
	return json.Marshal(fingerprintJSON{Type: fp.fpType, Radius: fp.radius, Length: fp.Length(), Bits: fp.ToBytes()})
}

// UnmarshalJSON decodes the packed form.
func (fp *Fingerprint) UnmarshalJSON(data []byte) error {
	var raw fingerprintJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := RestoreFingerprint(raw.Type, raw.Radius, raw.Bits, raw.Length)
	if err != nil {
		return err
	}
	*fp = *decoded
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Morgan (Circular) Fingerprint
// ─────────────────────────────────────────────────────────────────────────────

// CalculateMorganFingerprint computes a circular fingerprint by iterative
// neighborhood hashing.
//
// Level 0 hashes each atom's (element, degree, aromatic) invariant. Each level
// up to radius rehashes an atom's previous identifier together with the sorted
// identifiers of its neighbors, each perturbed by the connecting bond order,
// and the level number. Every identifier at every level sets bit id mod nBits;
// bits are never cleared. Atoms are not canonically renumbered, so collisions
// are possible; ask for more bits when discrimination matters.
func CalculateMorganFingerprint(m *Molecule, radius, nBits int) (*Fingerprint, error) {
	if err := (FingerprintCalcOptions{Radius: radius, Bits: nBits}).Validate(); err != nil {
		return nil, err
	}

	fp := newFingerprint(FingerprintMorgan, radius, nBits)
	ids := make([]uint64, m.AtomCount())
	for i, a := range m.atoms {
		ids[i] = atomInvariant(a.Element, m.Degree(i), a.Aromatic)
		fp.bits.Set(uint(ids[i] % uint64(nBits)))
	}

	next := make([]uint64, len(ids))
	var env []uint64
	for level := 1; level <= radius; level++ {
		for i := range ids {
			env = env[:0]
			for _, bi := range m.incident[i] {
				b := m.bonds[bi]
				env = append(env, perturb(ids[b.Other(i)], b.Order))
			}
			sort.Slice(env, func(x, y int) bool { return env[x] < env[y] })
			next[i] = environmentHash(ids[i], env, level)
			fp.bits.Set(uint(next[i] % uint64(nBits)))
		}
		ids, next = next, ids
	}
	return fp, nil
}

func atomInvariant(element string, degree int, aromatic bool) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(element)
	var buf [9]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(degree))
	if aromatic {
		buf[8] = 1
	}
	_, _ = d.Write(buf[:])
	return d.Sum64()
}

// perturb mixes a bond order into a neighbor identifier.
func perturb(id uint64, order int) uint64 {
	return (id ^ (uint64(order) * 0x9e3779b97f4a7c15)) * 0xbf58476d1ce4e5b9
}

func environmentHash(prev uint64, env []uint64, level int) uint64 {
	d := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], prev)
	_, _ = d.Write(buf[:])
	for _, v := range env {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	binary.LittleEndian.PutUint64(buf[:], uint64(level))
	_, _ = d.Write(buf[:])
	return d.Sum64()
}

//Personal.AI order the ending
