package molecule

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/molgraph/pkg/errors"
	"github.com/turtacn/molgraph/pkg/types/common"
	moltypes "github.com/turtacn/molgraph/pkg/types/molecule"
)

// AnalyzeBatch analyzes every input with bounded concurrency. A failing item
// is recorded in place and never aborts the others; items keep input order.
// Only cancellation of ctx fails the whole call.
func (s *serviceImpl) AnalyzeBatch(ctx context.Context, smiles []string) (*moltypes.BatchResult, error) {
	if len(smiles) > s.cfg.MaxBatchSize {
		return nil, apperrors.Newf(apperrors.CodeInvalidParam,
			"batch of %d exceeds the limit of %d", len(smiles), s.cfg.MaxBatchSize)
	}
	s.metrics.RecordBatch(len(smiles))
	start := time.Now()

	items := make([]moltypes.BatchItem, len(smiles))
	var g errgroup.Group
	g.SetLimit(s.cfg.BatchConcurrency)
	for i, in := range smiles {
		i, in := i, in
		items[i] = moltypes.BatchItem{Index: i, SMILES: in}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				items[i].Error = common.NewErrorDetail(apperrors.Wrap(err, apperrors.ErrCodeTimeout, "batch cancelled"))
				return nil
			}
			dto, err := s.Analyze(ctx, in)
			if err != nil {
				items[i].Error = common.NewErrorDetail(err)
				return nil
			}
			items[i].Result = dto
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeTimeout, "batch analysis cancelled")
	}

	res := &moltypes.BatchResult{Items: items, Summary: summarize(items)}
	logging.LogOperationDuration(s.logger, "analyze_batch", start,
		logging.Int("total", res.Summary.Total),
		logging.Int("failed", res.Summary.Failed))
	return res, nil
}

// summarize aggregates the successful items. Standard deviation needs at least
// two samples and is zero otherwise.
func summarize(items []moltypes.BatchItem) moltypes.BatchSummary {
	sum := moltypes.BatchSummary{Total: len(items)}
	var weights, logP, tpsa []float64
	drugLike := 0
	for _, it := range items {
		if it.Result == nil {
			sum.Failed++
			continue
		}
		sum.Succeeded++
		d := it.Result.Descriptors
		weights = append(weights, d.MolecularWeight)
		logP = append(logP, d.LogP)
		tpsa = append(tpsa, d.TPSA)
		if dl := it.Result.DrugLikeness; dl != nil && dl.Lipinski && dl.Veber {
			drugLike++
		}
	}
	if sum.Succeeded == 0 {
		return sum
	}
	if len(weights) > 1 {
		sum.MeanWeight, sum.StdDevWeight = stat.MeanStdDev(weights, nil)
	} else {
		sum.MeanWeight = weights[0]
	}
	sum.MeanLogP = stat.Mean(logP, nil)
	sum.MeanTPSA = stat.Mean(tpsa, nil)
	sum.DrugLikeFraction = float64(drugLike) / float64(sum.Succeeded)
	return sum
}

//Personal.AI order the ending
