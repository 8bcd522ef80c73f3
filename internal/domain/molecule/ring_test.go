package molecule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBridges(t *testing.T) {
	tests := []struct {
		name   string
		smiles string
		ring   []bool
	}{
		{"chain", "CCCC", []bool{false, false, false}},
		{"benzene", "c1ccccc1", []bool{true, true, true, true, true, true}},
		{"cyclopropane with ethyl", "C1CC1CC", []bool{true, true, true, false, false}},
		{"parallel bonds", "C1C1", []bool{true, true}},
		{
			"two rings joined by a chain", "C1CC1CCC1CC1",
			[]bool{true, true, true, false, false, false, true, true, true},
		},
		{"disconnected fragments", "C1CC1.CC", []bool{true, true, true, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MustParse(tt.smiles)
			require.Equal(t, len(tt.ring), m.BondCount())
			assert.Equal(t, tt.ring, RingBonds(m))

			bridges := FindBridges(m)
			for i := range bridges {
				assert.Equal(t, !tt.ring[i], bridges[i], "bond %d", i)
			}
		})
	}
}

func TestRingAtoms(t *testing.T) {
	assert.Equal(t, []bool{true, true, true, false, false}, RingAtoms(MustParse("C1CC1CC")))
}

func TestRingAndFragmentCounts(t *testing.T) {
	tests := []struct {
		smiles    string
		rings     int
		fragments int
	}{
		{"CCO", 0, 1},
		{"c1ccccc1", 1, 1},
		{"c1ccc2ccccc2c1", 2, 1},
		{"C1CC1CCC1CC1", 2, 1},
		{"[Na+].[Cl-]", 0, 2},
		{"C1CC1.c1ccccc1", 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.smiles, func(t *testing.T) {
			m := MustParse(tt.smiles)
			assert.Equal(t, tt.rings, RingCount(m))
			assert.Equal(t, tt.fragments, FragmentCount(m))
		})
	}

	empty := MustParse("()")
	assert.Equal(t, 0, RingCount(empty))
	assert.Equal(t, 0, FragmentCount(empty))
}

func TestFindBridges_LongChainDoesNotRecurse(t *testing.T) {
	m := MustParse(strings.Repeat("C", 5000))
	bridges := FindBridges(m)
	for _, b := range bridges {
		require.True(t, b)
	}
	assert.Equal(t, 4997, RotatableBonds(m))
}

//Personal.AI order the ending
