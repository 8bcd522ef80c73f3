package prometheus

import "time"

// ChemMetrics holds every metric molgraph emits.
type ChemMetrics struct {
	ParseTotal               CounterVec
	ParseDuration            HistogramVec
	CacheHitsTotal           CounterVec
	CacheMissesTotal         CounterVec
	FingerprintTotal         CounterVec
	SimilaritySearchDuration HistogramVec
	BatchSize                HistogramVec
	WorkerMessagesTotal      CounterVec
	LibrarySize              GaugeVec
}

// Label values.
const (
	StatusOK      = "ok"
	StatusInvalid = "invalid"
	StatusError   = "error"

	CacheLayerLocal = "local"
	CacheLayerRedis = "redis"

	OutcomeComputed  = "computed"
	OutcomeFailed    = "failed"
	OutcomeDecode    = "decode_error"
	OutcomeDuplicate = "duplicate"
)

var DefaultBatchSizeBuckets = []float64{1, 5, 10, 50, 100, 500, 1000, 5000}

// NewChemMetrics registers all metric families on collector.
func NewChemMetrics(collector MetricsCollector) *ChemMetrics {
	return &ChemMetrics{
		ParseTotal:               collector.RegisterCounter("parse_total", "SMILES analyses by outcome", "status"),
		ParseDuration:            collector.RegisterHistogram("parse_duration_seconds", "Time to parse and describe one SMILES string", nil),
		CacheHitsTotal:           collector.RegisterCounter("cache_hits_total", "Descriptor cache hits", "layer"),
		CacheMissesTotal:         collector.RegisterCounter("cache_misses_total", "Descriptor cache misses after every layer"),
		FingerprintTotal:         collector.RegisterCounter("fingerprint_total", "Fingerprints computed"),
		SimilaritySearchDuration: collector.RegisterHistogram("similarity_search_duration_seconds", "Nearest-neighbor search latency", nil),
		BatchSize:                collector.RegisterHistogram("batch_size", "Inputs per batch analysis", DefaultBatchSizeBuckets),
		WorkerMessagesTotal:      collector.RegisterCounter("worker_messages_total", "Worker messages by outcome", "outcome"),
		LibrarySize:              collector.RegisterGauge("library_size", "Compounds in the loaded library"),
	}
}

// NewNopChemMetrics returns metrics that record nothing.
func NewNopChemMetrics() *ChemMetrics {
	return &ChemMetrics{
		ParseTotal:               noopCounterVec{},
		ParseDuration:            noopHistogramVec{},
		CacheHitsTotal:           noopCounterVec{},
		CacheMissesTotal:         noopCounterVec{},
		FingerprintTotal:         noopCounterVec{},
		SimilaritySearchDuration: noopHistogramVec{},
		BatchSize:                noopHistogramVec{},
		WorkerMessagesTotal:      noopCounterVec{},
		LibrarySize:              noopGaugeVec{},
	}
}

func (m *ChemMetrics) RecordParse(status string, d time.Duration) {
	m.ParseTotal.WithLabelValues(status).Inc()
	m.ParseDuration.WithLabelValues().Observe(d.Seconds())
}

func (m *ChemMetrics) RecordCacheHit(layer string) {
	m.CacheHitsTotal.WithLabelValues(layer).Inc()
}

func (m *ChemMetrics) RecordCacheMiss() {
	m.CacheMissesTotal.WithLabelValues().Inc()
}

func (m *ChemMetrics) RecordFingerprint() {
	m.FingerprintTotal.WithLabelValues().Inc()
}

func (m *ChemMetrics) RecordSearch(d time.Duration) {
	m.SimilaritySearchDuration.WithLabelValues().Observe(d.Seconds())
}

func (m *ChemMetrics) RecordBatch(size int) {
	m.BatchSize.WithLabelValues().Observe(float64(size))
}

func (m *ChemMetrics) RecordWorkerMessage(outcome string) {
	m.WorkerMessagesTotal.WithLabelValues(outcome).Inc()
}

func (m *ChemMetrics) SetLibrarySize(n int) {
	m.LibrarySize.WithLabelValues().Set(float64(n))
}

//Personal.AI order the ending
