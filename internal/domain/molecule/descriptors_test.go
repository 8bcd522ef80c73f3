package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aspirin = "CC(=O)Oc1ccccc1C(=O)O"

func TestAtomCounts(t *testing.T) {
	assert.Equal(t, map[string]int{"C": 2, "O": 1, "H": 6}, AtomCounts(MustParse("CCO")))
	assert.Equal(t, map[string]int{"C": 1, "Cl": 4}, AtomCounts(MustParse("ClC(Cl)(Cl)Cl")))
	assert.Equal(t, map[string]int{"N": 2}, AtomCounts(MustParse("N#N")))
}

func TestMolecularFormula_HillOrder(t *testing.T) {
	tests := []struct {
		smiles string
		want   string
	}{
		{"CCO", "C2H6O"},
		{"c1ccccc1", "C6H6"},
		{aspirin, "C9H8O4"},
		{"CCCC", "C4H10"},
		{"ClC(Cl)(Cl)Cl", "CCl4"},
		{"CS(=O)C", "C2H6OS"},
		{"O", "H2O"},
		{"[NH4+].[Cl-]", "ClH4N"},
		{"N#N", "N2"},
		{"[2H]", "H"},
	}
	for _, tt := range tests {
		t.Run(tt.smiles, func(t *testing.T) {
			assert.Equal(t, tt.want, MolecularFormula(MustParse(tt.smiles)))
		})
	}
}

func TestMolecularWeight(t *testing.T) {
	assert.Equal(t, 46.069, MolecularWeight(MustParse("CCO")))
	assert.Equal(t, 78.114, MolecularWeight(MustParse("c1ccccc1")))
	assert.Equal(t, 180.159, MolecularWeight(MustParse(aspirin)))
	assert.Equal(t, 0.0, MolecularWeight(MustParse("[Xx]")))
}

func TestCountBonds(t *testing.T) {
	assert.Equal(t, BondTally{Single: 1, Double: 1, Triple: 1}, CountBonds(MustParse("C=CC#N")))
	assert.Equal(t, BondTally{Aromatic: 6}, CountBonds(MustParse("c1ccccc1")))
	assert.Equal(t, BondTally{Single: 5, Double: 2, Aromatic: 6}, CountBonds(MustParse(aspirin)))
	assert.Equal(t, BondTally{Aromatic: 1}, CountBonds(MustParse("C:C")))
}

func TestHydrogenBonding(t *testing.T) {
	tests := []struct {
		smiles string
		hbd    int
		hba    int
	}{
		{"CCO", 1, 1},
		{"CN", 1, 1},
		{"CN(C)C", 0, 1},
		{"CC(=O)O", 1, 2},
		{"c1ccncc1", 0, 1},
		{"c1cc[nH]c1", 1, 1},
		{"CCCC", 0, 0},
		{aspirin, 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.smiles, func(t *testing.T) {
			m := MustParse(tt.smiles)
			assert.Equal(t, tt.hbd, HBondDonors(m))
			assert.Equal(t, tt.hba, HBondAcceptors(m))
		})
	}
}

func TestRotatableBonds(t *testing.T) {
	tests := []struct {
		smiles string
		want   int
	}{
		{"CCCC", 1},
		{"CC", 0},
		{"CCO", 0},
		{"c1ccccc1", 0},
		{"C1CCCCC1", 0},
		{"CC=CC", 0},
		{"CCCCC", 2},
		{aspirin, 3},
		{"c1ccccc1-c1ccccc1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.smiles, func(t *testing.T) {
			assert.Equal(t, tt.want, RotatableBonds(MustParse(tt.smiles)))
		})
	}
}

func TestTPSA(t *testing.T) {
	tests := []struct {
		smiles string
		want   float64
	}{
		{"CCO", 20.23},
		{"CCCC", 0},
		{"CC#N", 23.79},
		{"CN", 26.02},
		{"c1ccncc1", 12.89},
		{"c1cc[nH]c1", 15.79},
		{"c1ccoc1", 13.14},
		{"CS(=O)C", 36.28},
		{"CC(=O)[O-]", 40.13},
		{aspirin, 63.6},
	}
	for _, tt := range tests {
		t.Run(tt.smiles, func(t *testing.T) {
			assert.InDelta(t, tt.want, TPSA(MustParse(tt.smiles)), 1e-9)
		})
	}
}

func TestLogP_IsWithinDocumentedAccuracy(t *testing.T) {
	tests := []struct {
		smiles    string
		reference float64
	}{
		{"c1ccccc1", 1.69},
		{aspirin, 1.31},
		{"CCCCCC", 2.59},
		{"CCO", 0.00},
	}
	for _, tt := range tests {
		t.Run(tt.smiles, func(t *testing.T) {
			assert.InDelta(t, tt.reference, LogP(MustParse(tt.smiles)), 1.0)
		})
	}
	assert.Less(t, LogP(MustParse("OCC(O)CO")), LogP(MustParse("CCCCCC")))
}

func TestComputeDescriptors_Aspirin(t *testing.T) {
	ds := ComputeDescriptors(MustParse(aspirin))
	require.NotNil(t, ds)
	assert.Equal(t, "C9H8O4", ds.Formula)
	assert.Equal(t, 180.159, ds.MolecularWeight)
	assert.Equal(t, 13, ds.HeavyAtoms)
	assert.Equal(t, 1, ds.RingClosures)
	assert.Equal(t, 1, ds.RingCount)
	assert.Equal(t, 1, ds.Fragments)
	assert.Equal(t, 1, ds.HBondDonors)
	assert.Equal(t, 4, ds.HBondAcceptors)
	assert.Equal(t, 3, ds.RotatableBonds)
	assert.InDelta(t, 63.6, ds.TPSA, 1)
	assert.Equal(t, 6, ds.AromaticAtoms)
	assert.Zero(t, ds.UnresolvedAtoms)
}

func TestComputeDescriptors_IsDeterministic(t *testing.T) {
	for _, smiles := range []string{aspirin, "c1ccc2ccccc2c1", "[NH4+].[Cl-]"} {
		first := ComputeDescriptors(MustParse(smiles))
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, ComputeDescriptors(MustParse(smiles)))
		}
	}
}

//Personal.AI order the ending
