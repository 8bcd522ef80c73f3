package molecule

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainMol "github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/database/memory"
	redisinfra "github.com/turtacn/molgraph/internal/infrastructure/database/redis"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molgraph/internal/testutil"
	"github.com/turtacn/molgraph/pkg/errors"
	moltypes "github.com/turtacn/molgraph/pkg/types/molecule"
)

// fakeStore is an in-memory AnalysisStore.
type fakeStore struct {
	mu     sync.Mutex
	data   map[string]*moltypes.AnalysisDTO
	gets   int
	puts   int
	getErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]*moltypes.AnalysisDTO)}
}

func (f *fakeStore) Get(_ context.Context, smiles string, _, _ int) (*moltypes.AnalysisDTO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	dto, ok := f.data[smiles]
	if !ok {
		return nil, redisinfra.ErrCacheMiss
	}
	return dto, nil
}

func (f *fakeStore) Put(_ context.Context, _, _ int, dto *moltypes.AnalysisDTO) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	f.data[dto.SMILES] = dto
	return nil
}

func newTestService(t *testing.T, mutate func(*Config), opts ...Option) Service {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	svc, err := NewService(cfg, testutil.NewMockLogger(), opts...)
	require.NoError(t, err)
	return svc
}

func counterValue(t *testing.T, c prometheus.MetricsCollector, name, label string) float64 {
	t.Helper()
	families, err := c.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			if label == "" || (len(m.GetLabel()) > 0 && m.GetLabel()[0].GetValue() == label) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestNewService_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fingerprint.Bits = 0
	_, err := NewService(cfg, testutil.NewMockLogger())
	assert.True(t, errors.IsCode(err, errors.ErrCodeFingerprintGenerationFailed))

	cfg = DefaultConfig()
	cfg.DefaultMetric = "dice"
	_, err = NewService(cfg, testutil.NewMockLogger())
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestValidate(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	ok := svc.Validate(ctx, "CCO")
	assert.True(t, ok.Valid)
	assert.Empty(t, ok.Reason)

	bad := svc.Validate(ctx, "C1CC")
	assert.False(t, bad.Valid)
	assert.Equal(t, domainMol.Validate("C1CC").Reason, bad.Reason)
	assert.Equal(t, "C1CC", bad.SMILES)
}

func TestParse(t *testing.T) {
	svc := newTestService(t, nil)
	dto, err := svc.Parse(context.Background(), "CCO")
	require.NoError(t, err)
	require.Len(t, dto.Atoms, 3)
	require.Len(t, dto.Bonds, 2)
	assert.Equal(t, []int{3, 2, 1}, []int{dto.Atoms[0].Hydrogens, dto.Atoms[1].Hydrogens, dto.Atoms[2].Hydrogens})
	assert.Equal(t, "O", dto.Atoms[2].Element)
	assert.Equal(t, 0, dto.RingClosures)
}

func TestAnalyze(t *testing.T) {
	svc := newTestService(t, nil)
	dto, err := svc.Analyze(context.Background(), "CCO")
	require.NoError(t, err)

	assert.Equal(t, "CCO", dto.SMILES)
	assert.Equal(t, "C2H6O", dto.Descriptors.Formula)
	assert.Equal(t, 46.069, dto.Descriptors.MolecularWeight)
	assert.Equal(t, 1, dto.Descriptors.HBondDonors)
	require.NotNil(t, dto.Fingerprint)
	assert.Equal(t, domainMol.DefaultFingerprintBits, dto.Fingerprint.Length)
	assert.Len(t, dto.Fingerprint.Bits, domainMol.DefaultFingerprintBits)
	require.NotNil(t, dto.DrugLikeness)
	assert.True(t, dto.DrugLikeness.Lipinski)
	assert.True(t, dto.DrugLikeness.Veber)
}

func TestAnalyze_InvalidInput(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Analyze(ctx, "C1CC")
	require.Error(t, err)
	var ae *errors.AppError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, errors.ErrCodeMoleculeInvalidSMILES, ae.Code)
	assert.Equal(t, domainMol.Validate("C1CC").Reason, ae.Detail)

	_, err = svc.Analyze(ctx, "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeMoleculeEmptySMILES))
}

func TestAnalyze_StrictElements(t *testing.T) {
	lenient := newTestService(t, nil)
	_, err := lenient.Analyze(context.Background(), "C[Xx]C")
	assert.NoError(t, err)

	strict := newTestService(t, func(c *Config) { c.StrictElements = true })
	_, err = strict.Analyze(context.Background(), "C[Xx]C")
	assert.True(t, errors.IsCode(err, errors.ErrCodeMoleculeUnknownElement))
}

func TestAnalyze_LocalCache(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, nil, WithAnalysisStore(store))
	ctx := context.Background()

	first, err := svc.Analyze(ctx, "CCO")
	require.NoError(t, err)
	second, err := svc.Analyze(ctx, "CCO")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, store.gets)
	assert.Equal(t, 1, store.puts)
}

func TestAnalyze_RemoteCache(t *testing.T) {
	store := newFakeStore()
	cached := &moltypes.AnalysisDTO{SMILES: "CCO", Descriptors: moltypes.DescriptorsDTO{Formula: "from-cache"}}
	store.data["CCO"] = cached

	svc := newTestService(t, func(c *Config) { c.LocalCacheSize = 0 }, WithAnalysisStore(store))
	dto, err := svc.Analyze(context.Background(), "CCO")
	require.NoError(t, err)
	assert.Same(t, cached, dto)
	assert.Equal(t, 0, store.puts)
}

func TestAnalyze_RemoteCacheFailureFallsBack(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New(errors.ErrCodeCacheError, "connection refused")
	logger := testutil.NewMockLogger()

	svc, err := NewService(DefaultConfig(), logger, WithAnalysisStore(store))
	require.NoError(t, err)
	dto, err := svc.Analyze(context.Background(), "CCO")
	require.NoError(t, err)
	assert.Equal(t, "C2H6O", dto.Descriptors.Formula)
	assert.True(t, logger.HasMessage("warn", "analysis cache lookup failed"))
}

func TestAnalyze_Metrics(t *testing.T) {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "test"}, nil)
	require.NoError(t, err)
	svc := newTestService(t, nil, WithMetrics(prometheus.NewChemMetrics(collector)))
	ctx := context.Background()

	_, err = svc.Analyze(ctx, "CCO")
	require.NoError(t, err)
	_, err = svc.Analyze(ctx, "CCO")
	require.NoError(t, err)
	_, err = svc.Analyze(ctx, "C1CC")
	require.Error(t, err)

	assert.Equal(t, 1.0, counterValue(t, collector, "test_parse_total", prometheus.StatusOK))
	assert.Equal(t, 1.0, counterValue(t, collector, "test_parse_total", prometheus.StatusInvalid))
	assert.Equal(t, 1.0, counterValue(t, collector, "test_cache_hits_total", prometheus.CacheLayerLocal))
	assert.Equal(t, 2.0, counterValue(t, collector, "test_cache_misses_total", ""))
	assert.Equal(t, 1.0, counterValue(t, collector, "test_fingerprint_total", ""))
}

func TestAnalyze_Concurrent(t *testing.T) {
	svc := newTestService(t, nil)
	var wg sync.WaitGroup
	results := make([]*moltypes.AnalysisDTO, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dto, err := svc.Analyze(context.Background(), "c1ccccc1O")
			assert.NoError(t, err)
			results[i] = dto
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, results[0].Descriptors, r.Descriptors)
	}
}

func TestFingerprint(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	fp, err := svc.Fingerprint(ctx, "CCO", domainMol.FingerprintCalcOptions{Radius: 1, Bits: 64})
	require.NoError(t, err)
	assert.Equal(t, 64, fp.Length)
	assert.Equal(t, 1, fp.Radius)
	assert.Equal(t, "morgan", fp.Type)

	on := 0
	for _, b := range fp.Bits {
		on += b
	}
	assert.Equal(t, fp.OnBits, on)

	_, err = svc.Fingerprint(ctx, "CCO", domainMol.FingerprintCalcOptions{Radius: 2, Bits: 0})
	assert.True(t, errors.IsCode(err, errors.ErrCodeFingerprintGenerationFailed))
}

func TestCompare(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	same, err := svc.Compare(ctx, "CCO", "CCO", "")
	require.NoError(t, err)
	assert.Equal(t, 1.0, same.Score)
	assert.Equal(t, "tanimoto", same.Metric)
	assert.Equal(t, "identical", same.Level)

	diff, err := svc.Compare(ctx, "CCO", "c1ccccc1", "COSINE")
	require.NoError(t, err)
	assert.Equal(t, "cosine", diff.Metric)
	assert.Less(t, diff.Score, 1.0)
	assert.GreaterOrEqual(t, diff.Score, 0.0)
}

func TestCompare_Errors(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Compare(ctx, "CCO", "CCO", "dice")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	_, err = svc.Compare(ctx, "CCO", "C1CC", "tanimoto")
	assert.True(t, errors.IsCode(err, errors.ErrCodeMoleculeInvalidSMILES))
}

func TestRegisterAndSearch(t *testing.T) {
	repo := memory.NewLibraryRepo()
	svc := newTestService(t, nil, WithLibrary(repo))
	ctx := context.Background()

	ethanol, err := svc.Register(ctx, "ethanol", "CCO")
	require.NoError(t, err)
	assert.Len(t, string(ethanol.ID), 36)
	assert.Equal(t, "C2H6O", ethanol.Formula)
	assert.Equal(t, 46.069, ethanol.MolecularWeight)

	_, err = svc.Register(ctx, "propanol", "CCCO")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "benzene", "c1ccccc1")
	require.NoError(t, err)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	hits, err := svc.SearchSimilar(ctx, moltypes.SimilaritySearchRequest{SMILES: "CCO", K: 2})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "ethanol", hits[0].Name)
	assert.Equal(t, 1.0, hits[0].Similarity)
	assert.Equal(t, 1, hits[0].Rank)
	assert.Equal(t, 2, hits[1].Rank)
	assert.GreaterOrEqual(t, hits[0].Similarity, hits[1].Similarity)

	exact, err := svc.SearchSimilar(ctx, moltypes.SimilaritySearchRequest{SMILES: "CCO", K: 10, MinSimilarity: 0.99})
	require.NoError(t, err)
	require.Len(t, exact, 1)
	assert.Equal(t, ethanol.SMILES, exact[0].SMILES)

	none, err := svc.SearchSimilar(ctx, moltypes.SimilaritySearchRequest{SMILES: "CCO", K: 0})
	require.NoError(t, err)
	assert.Empty(t, none)
}

const librarySizedFile = `fingerprint:
  radius: 2
  bits: %BITS%
compounds:
  - id: eth
    name: ethanol
    smiles: CCO
  - id: bnz
    name: benzene
    smiles: c1ccccc1
`

func TestSearchSimilar_FileLibrary(t *testing.T) {
	cfg := DefaultConfig()
	ctx := context.Background()

	doc := strings.ReplaceAll(librarySizedFile, "%BITS%", "128")
	entries, err := memory.DecodeLibrary(strings.NewReader(doc), cfg.Fingerprint)
	require.NoError(t, err)
	repo := memory.NewLibraryRepo()
	require.NoError(t, repo.Replace(entries))

	svc := newTestService(t, nil, WithLibrary(repo))
	hits, err := svc.SearchSimilar(ctx, moltypes.SimilaritySearchRequest{SMILES: "CCO", K: 3})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "eth", string(hits[0].ID))
	assert.Equal(t, 1.0, hits[0].Similarity)

	// A file sized differently from the service is refused up front instead
	// of failing every search later.
	doc = strings.ReplaceAll(librarySizedFile, "%BITS%", "256")
	_, err = memory.DecodeLibrary(strings.NewReader(doc), cfg.Fingerprint)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFingerprintLengthMismatch))
}

func TestRegister_Invalid(t *testing.T) {
	repo := memory.NewLibraryRepo()
	svc := newTestService(t, nil, WithLibrary(repo))

	_, err := svc.Register(context.Background(), "broken", "C1CC")
	assert.True(t, errors.IsCode(err, errors.ErrCodeMoleculeInvalidSMILES))
	n, _ := repo.Count(context.Background())
	assert.Zero(t, n)
}

func TestLibraryUnavailable(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "x", "CCO")
	assert.ErrorIs(t, err, ErrLibraryUnavailable)
	_, err = svc.SearchSimilar(ctx, moltypes.SimilaritySearchRequest{SMILES: "CCO", K: 1})
	assert.ErrorIs(t, err, ErrLibraryUnavailable)
}

func TestSearchSimilar_BadRequest(t *testing.T) {
	svc := newTestService(t, nil, WithLibrary(memory.NewLibraryRepo()))
	for _, req := range []moltypes.SimilaritySearchRequest{
		{SMILES: "", K: 1},
		{SMILES: "CCO", K: -1},
		{SMILES: "CCO", K: 1, MinSimilarity: 1.5},
	} {
		_, err := svc.SearchSimilar(context.Background(), req)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidParam), "%+v", req)
	}
}

func TestCheckBalance(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	report, err := svc.CheckBalance(ctx, "CC(=O)O.OCC>>CC(=O)OCC.O")
	require.NoError(t, err)
	assert.True(t, report.Balanced)

	report, err = svc.CheckBalance(ctx, "CCO>>CC=O")
	require.NoError(t, err)
	assert.False(t, report.Balanced)
	require.Len(t, report.Differences, 1)
	assert.Equal(t, "H", report.Differences[0].Element)
	assert.Equal(t, -2, report.Differences[0].Delta)

	_, err = svc.CheckBalance(ctx, "CCO")
	assert.True(t, errors.IsCode(err, errors.ErrCodeReactionMalformed))
}

func TestConfigFrom(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, domainMol.DefaultFingerprintCalcOptions(), cfg.Fingerprint)
	assert.Equal(t, domainMol.MetricTanimoto, cfg.DefaultMetric)
	assert.Positive(t, cfg.LocalCacheSize)
	assert.Equal(t, 10*time.Minute, cfg.LocalCacheTTL)
}

//Personal.AI order the ending
