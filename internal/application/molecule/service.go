// Package molecule provides the application-level service for molecule
// operations. It sits between the CLI and worker on one side and the chemistry
// domain on the other, adding caching, batching, metrics and logging.
package molecule

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/molgraph/internal/config"
	domainMol "github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/domain/reaction"
	redisinfra "github.com/turtacn/molgraph/internal/infrastructure/database/redis"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/turtacn/molgraph/pkg/errors"
	moltypes "github.com/turtacn/molgraph/pkg/types/molecule"
)

// Service defines the interface for molecule application operations.
type Service interface {
	Validate(ctx context.Context, smiles string) *moltypes.ValidationDTO
	Parse(ctx context.Context, smiles string) (*moltypes.MoleculeDTO, error)
	Analyze(ctx context.Context, smiles string) (*moltypes.AnalysisDTO, error)
	AnalyzeBatch(ctx context.Context, smiles []string) (*moltypes.BatchResult, error)
	Fingerprint(ctx context.Context, smiles string, opts domainMol.FingerprintCalcOptions) (*moltypes.FingerprintDTO, error)
	Compare(ctx context.Context, query, target, metric string) (*moltypes.SimilarityDTO, error)
	Register(ctx context.Context, name, smiles string) (*moltypes.CompoundDTO, error)
	SearchSimilar(ctx context.Context, req moltypes.SimilaritySearchRequest) ([]moltypes.NeighborDTO, error)
	CheckBalance(ctx context.Context, reactionSMILES string) (*reaction.BalanceReport, error)
}

// AnalysisStore is the shared second-level cache. *redis.AnalysisCache
// satisfies it.
type AnalysisStore interface {
	Get(ctx context.Context, smiles string, radius, bits int) (*moltypes.AnalysisDTO, error)
	Put(ctx context.Context, radius, bits int, result *moltypes.AnalysisDTO) error
}

// ErrLibraryUnavailable is returned by library operations when no repository
// was configured.
var ErrLibraryUnavailable = apperrors.New(apperrors.ErrCodeServiceUnavailable, "compound library is not configured")

// Config holds service tuning.
type Config struct {
	Fingerprint      domainMol.FingerprintCalcOptions
	StrictElements   bool
	DefaultMetric    domainMol.SimilarityMetric
	BatchConcurrency int
	MaxBatchSize     int
	// LocalCacheSize of zero disables the in-process cache.
	LocalCacheSize int
	LocalCacheTTL  time.Duration
}

// DefaultConfig mirrors the configuration defaults.
func DefaultConfig() Config {
	return ConfigFrom(config.Default())
}

// ConfigFrom extracts the service settings from the application config.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Fingerprint:      cfg.Chemistry.FingerprintOptions(),
		StrictElements:   cfg.Chemistry.StrictElements,
		DefaultMetric:    domainMol.SimilarityMetric(cfg.Chemistry.DefaultMetric),
		BatchConcurrency: cfg.Chemistry.BatchConcurrency,
		MaxBatchSize:     cfg.Chemistry.MaxBatchSize,
		LocalCacheSize:   cfg.Cache.LocalSize,
		LocalCacheTTL:    cfg.Cache.LocalTTL,
	}
}

// Option customizes the service.
type Option func(*serviceImpl)

// WithAnalysisStore adds a shared cache consulted after the local one.
func WithAnalysisStore(store AnalysisStore) Option {
	return func(s *serviceImpl) { s.remote = store }
}

// WithLibrary enables Register and SearchSimilar.
func WithLibrary(repo domainMol.LibraryRepository) Option {
	return func(s *serviceImpl) { s.library = repo }
}

// WithMetrics records chemistry metrics.
func WithMetrics(m *prometheus.ChemMetrics) Option {
	return func(s *serviceImpl) {
		if m != nil {
			s.metrics = m
		}
	}
}

type serviceImpl struct {
	cfg       Config
	parseOpts []domainMol.ParseOption
	local     *expirable.LRU[string, *moltypes.AnalysisDTO]
	remote    AnalysisStore
	library   domainMol.LibraryRepository
	group     singleflight.Group
	metrics   *prometheus.ChemMetrics
	logger    logging.Logger
}

// NewService creates a new molecule application service.
func NewService(cfg Config, logger logging.Logger, opts ...Option) (Service, error) {
	if err := cfg.Fingerprint.Validate(); err != nil {
		return nil, err
	}
	if cfg.DefaultMetric == "" {
		cfg.DefaultMetric = domainMol.MetricTanimoto
	}
	if !cfg.DefaultMetric.IsValid() {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "unsupported similarity metric: "+string(cfg.DefaultMetric))
	}
	if cfg.BatchConcurrency < 1 {
		cfg.BatchConcurrency = 1
	}
	if cfg.MaxBatchSize < 1 {
		cfg.MaxBatchSize = config.DefaultMaxBatchSize
	}

	s := &serviceImpl{
		cfg:     cfg,
		metrics: prometheus.NewNopChemMetrics(),
		logger:  logger.Named("molecule_service"),
	}
	if cfg.StrictElements {
		s.parseOpts = append(s.parseOpts, domainMol.WithStrictElements())
	}
	if cfg.LocalCacheSize > 0 {
		s.local = expirable.NewLRU[string, *moltypes.AnalysisDTO](cfg.LocalCacheSize, nil, cfg.LocalCacheTTL)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *serviceImpl) Validate(_ context.Context, smiles string) *moltypes.ValidationDTO {
	res := domainMol.Validate(smiles)
	return &moltypes.ValidationDTO{SMILES: smiles, Valid: res.Valid, Reason: res.Reason}
}

func (s *serviceImpl) parse(smiles string) (*domainMol.Molecule, error) {
	return domainMol.ParseValid(smiles, s.parseOpts...)
}

func (s *serviceImpl) Parse(_ context.Context, smiles string) (*moltypes.MoleculeDTO, error) {
	m, err := s.parse(smiles)
	if err != nil {
		return nil, err
	}
	return ToMoleculeDTO(m), nil
}

// Analyze returns the cached result when one exists. Concurrent calls for the
// same input share one computation. The returned value may be shared between
// callers and must not be modified.
func (s *serviceImpl) Analyze(ctx context.Context, smiles string) (*moltypes.AnalysisDTO, error) {
	if s.local != nil {
		if dto, ok := s.local.Get(smiles); ok {
			s.metrics.RecordCacheHit(prometheus.CacheLayerLocal)
			return dto, nil
		}
	}

	v, err, _ := s.group.Do(smiles, func() (interface{}, error) {
		if dto := s.lookupRemote(ctx, smiles); dto != nil {
			s.storeLocal(dto)
			return dto, nil
		}
		s.metrics.RecordCacheMiss()

		dto, err := s.compute(smiles)
		if err != nil {
			return nil, err
		}
		s.storeLocal(dto)
		s.storeRemote(ctx, dto)
		return dto, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*moltypes.AnalysisDTO), nil
}

func (s *serviceImpl) compute(smiles string) (*moltypes.AnalysisDTO, error) {
	start := time.Now()
	m, err := s.parse(smiles)
	if err != nil {
		s.metrics.RecordParse(parseStatus(err), time.Since(start))
		s.logger.Debug("analysis rejected input",
			logging.String("smiles", smiles),
			logging.String("code", string(apperrors.GetCode(err))))
		return nil, err
	}

	fp, err := domainMol.CalculateMorganFingerprint(m, s.cfg.Fingerprint.Radius, s.cfg.Fingerprint.Bits)
	if err != nil {
		s.metrics.RecordParse(prometheus.StatusError, time.Since(start))
		return nil, err
	}
	s.metrics.RecordFingerprint()

	dto := BuildAnalysis(m, fp)
	s.metrics.RecordParse(prometheus.StatusOK, time.Since(start))
	return dto, nil
}

func parseStatus(err error) string {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeMoleculeInvalidSMILES, apperrors.ErrCodeMoleculeEmptySMILES, apperrors.ErrCodeMoleculeUnknownElement:
		return prometheus.StatusInvalid
	default:
		return prometheus.StatusError
	}
}

func (s *serviceImpl) lookupRemote(ctx context.Context, smiles string) *moltypes.AnalysisDTO {
	if s.remote == nil {
		return nil
	}
	dto, err := s.remote.Get(ctx, smiles, s.cfg.Fingerprint.Radius, s.cfg.Fingerprint.Bits)
	if err != nil {
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			s.logger.Warn("analysis cache lookup failed", logging.Err(err))
		}
		return nil
	}
	s.metrics.RecordCacheHit(prometheus.CacheLayerRedis)
	return dto
}

func (s *serviceImpl) storeLocal(dto *moltypes.AnalysisDTO) {
	if s.local != nil {
		s.local.Add(dto.SMILES, dto)
	}
}

func (s *serviceImpl) storeRemote(ctx context.Context, dto *moltypes.AnalysisDTO) {
	if s.remote == nil {
		return
	}
	if err := s.remote.Put(ctx, s.cfg.Fingerprint.Radius, s.cfg.Fingerprint.Bits, dto); err != nil {
		s.logger.Warn("analysis cache store failed", logging.Err(err))
	}
}

func (s *serviceImpl) Fingerprint(_ context.Context, smiles string, opts domainMol.FingerprintCalcOptions) (*moltypes.FingerprintDTO, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	m, err := s.parse(smiles)
	if err != nil {
		return nil, err
	}
	fp, err := domainMol.CalculateMorganFingerprint(m, opts.Radius, opts.Bits)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordFingerprint()
	return ToFingerprintDTO(fp), nil
}

// Compare fingerprints both inputs with the configured parameters. An empty
// metric selects the configured default.
func (s *serviceImpl) Compare(ctx context.Context, query, target, metric string) (*moltypes.SimilarityDTO, error) {
	m := s.cfg.DefaultMetric
	if metric != "" {
		parsed, err := domainMol.ParseSimilarityMetric(strings.ToLower(metric))
		if err != nil {
			return nil, err
		}
		m = parsed
	}

	fa, err := s.fingerprintOf(ctx, query)
	if err != nil {
		return nil, err
	}
	fb, err := s.fingerprintOf(ctx, target)
	if err != nil {
		return nil, err
	}
	score, err := domainMol.Similarity(fa, fb, m)
	if err != nil {
		return nil, err
	}
	return &moltypes.SimilarityDTO{
		QuerySMILES:  query,
		TargetSMILES: target,
		Metric:       m.String(),
		Score:        score,
		Level:        domainMol.ClassifySimilarity(score),
	}, nil
}

// fingerprintOf reuses a cached analysis so repeated comparisons do not parse
// again.
func (s *serviceImpl) fingerprintOf(ctx context.Context, smiles string) (*domainMol.Fingerprint, error) {
	dto, err := s.Analyze(ctx, smiles)
	if err != nil {
		return nil, err
	}
	return FingerprintFromDTO(dto.Fingerprint)
}

// Register stores smiles in the compound library under a fresh id.
func (s *serviceImpl) Register(ctx context.Context, name, smiles string) (*moltypes.CompoundDTO, error) {
	if s.library == nil {
		return nil, ErrLibraryUnavailable
	}
	entry, err := domainMol.NewLibraryEntry(uuid.NewString(), name, smiles, s.cfg.Fingerprint)
	if err != nil {
		return nil, err
	}
	if err := s.library.Save(ctx, entry); err != nil {
		return nil, err
	}
	if n, err := s.library.Count(ctx); err == nil {
		s.metrics.SetLibrarySize(int(n))
	}
	s.logger.Info("compound registered",
		logging.String("id", entry.ID),
		logging.String("formula", entry.Formula))
	return ToCompoundDTO(entry), nil
}

// SearchSimilar ranks the library by Tanimoto similarity to req.SMILES and
// returns at most req.K hits scoring at least req.MinSimilarity.
func (s *serviceImpl) SearchSimilar(ctx context.Context, req moltypes.SimilaritySearchRequest) ([]moltypes.NeighborDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.InvalidParam(err.Error())
	}
	if s.library == nil {
		return nil, ErrLibraryUnavailable
	}
	start := time.Now()
	defer func() { s.metrics.RecordSearch(time.Since(start)) }()

	query, err := s.fingerprintOf(ctx, req.SMILES)
	if err != nil {
		return nil, err
	}
	entries, err := s.library.List(ctx)
	if err != nil {
		return nil, err
	}
	candidates := make([]domainMol.Candidate, len(entries))
	for i, e := range entries {
		candidates[i] = e.Candidate()
	}

	ranked, err := domainMol.NearestNeighbors(query, candidates, len(candidates))
	if err != nil {
		return nil, err
	}
	out := make([]moltypes.NeighborDTO, 0, min(req.K, len(ranked)))
	for _, n := range ranked {
		if len(out) == req.K || n.Similarity < req.MinSimilarity {
			break
		}
		out = append(out, ToNeighborDTO(n))
	}
	return out, nil
}

func (s *serviceImpl) CheckBalance(_ context.Context, reactionSMILES string) (*reaction.BalanceReport, error) {
	rxn, err := reaction.ParseReactionSMILES(reactionSMILES)
	if err != nil {
		return nil, err
	}
	return rxn.Balance()
}

//Personal.AI order the ending
