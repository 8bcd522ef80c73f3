package molecule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/pkg/errors"
	moltypes "github.com/turtacn/molgraph/pkg/types/molecule"
)

func TestAnalyzeBatch(t *testing.T) {
	svc := newTestService(t, func(c *Config) { c.BatchConcurrency = 2 })
	inputs := []string{"CCO", "C1CC", "c1ccccc1", ""}

	res, err := svc.AnalyzeBatch(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, res.Items, 4)

	for i, it := range res.Items {
		assert.Equal(t, i, it.Index)
		assert.Equal(t, inputs[i], it.SMILES)
	}
	require.NotNil(t, res.Items[0].Result)
	assert.Nil(t, res.Items[0].Error)
	require.NotNil(t, res.Items[1].Error)
	assert.Equal(t, string(errors.ErrCodeMoleculeInvalidSMILES), res.Items[1].Error.Code)
	assert.NotEmpty(t, res.Items[1].Error.Detail)
	require.NotNil(t, res.Items[2].Result)
	require.NotNil(t, res.Items[3].Error)
	assert.Equal(t, string(errors.ErrCodeMoleculeEmptySMILES), res.Items[3].Error.Code)

	s := res.Summary
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 2, s.Failed)
	w0 := res.Items[0].Result.Descriptors.MolecularWeight
	w2 := res.Items[2].Result.Descriptors.MolecularWeight
	assert.InDelta(t, (w0+w2)/2, s.MeanWeight, 1e-9)
	assert.Greater(t, s.StdDevWeight, 0.0)
	assert.InDelta(t, 1.0, s.DrugLikeFraction, 1e-9)

	assert.Len(t, res.Errors(), 2)
}

func TestAnalyzeBatch_Empty(t *testing.T) {
	svc := newTestService(t, nil)
	res, err := svc.AnalyzeBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, moltypes.BatchSummary{}, res.Summary)
}

func TestAnalyzeBatch_TooLarge(t *testing.T) {
	svc := newTestService(t, func(c *Config) { c.MaxBatchSize = 2 })
	_, err := svc.AnalyzeBatch(context.Background(), []string{"C", "CC", "CCC"})
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestAnalyzeBatch_Cancelled(t *testing.T) {
	svc := newTestService(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.AnalyzeBatch(ctx, []string{"CCO", "CC"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeTimeout))
}

func TestSummarize(t *testing.T) {
	one := []moltypes.BatchItem{
		{Result: &moltypes.AnalysisDTO{Descriptors: moltypes.DescriptorsDTO{MolecularWeight: 100, LogP: 1, TPSA: 20}}},
		{Index: 1, SMILES: "C1CC"},
	}

	s := summarize(one)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 100.0, s.MeanWeight)
	assert.Zero(t, s.StdDevWeight)
	assert.Equal(t, 1.0, s.MeanLogP)
	assert.Equal(t, 20.0, s.MeanTPSA)
	// no drug-likeness verdict attached
	assert.Zero(t, s.DrugLikeFraction)

	two := []moltypes.BatchItem{
		{Result: &moltypes.AnalysisDTO{Descriptors: moltypes.DescriptorsDTO{MolecularWeight: 100}}},
		{Result: &moltypes.AnalysisDTO{Descriptors: moltypes.DescriptorsDTO{MolecularWeight: 200}}},
	}
	s = summarize(two)
	assert.Equal(t, 150.0, s.MeanWeight)
	assert.InDelta(t, 70.71067811865476, s.StdDevWeight, 1e-9)
}

//Personal.AI order the ending
