package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// Metrics provides observability for identity resolution and merging.
type Metrics struct {
	ResolveTotal     *prometheus.CounterVec
	ResolveDuration  prometheus.Histogram
	ResolveErrors    *prometheus.CounterVec
	MergeTotal       *prometheus.CounterVec
	MergeDuration    prometheus.Histogram
	PersonsMerged    prometheus.Counter
	AccountsMoved    prometheus.Counter
	PrimaryHops      prometheus.Histogram
	CyclesDetected   prometheus.Counter
	LinkCodesIssued  prometheus.Counter
	LinkCodesClaimed *prometheus.CounterVec
	OutboxPublished  prometheus.Counter
	OutboxFailures   prometheus.Counter
}

// New registers every identity metric with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ResolveTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "idlink_resolve_total",
			Help: "Resolved signals by the precedence rule that selected the person",
		}, []string{"matched_by"}),
		ResolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "idlink_resolve_duration_seconds",
			Help:    "Duration of Resolve transactions",
			Buckets: durationBuckets,
		}),
		ResolveErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "idlink_resolve_errors_total",
			Help: "Failed Resolve calls by error code",
		}, []string{"code"}),
		MergeTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "idlink_merge_total",
			Help: "Completed merges by method",
		}, []string{"method"}),
		MergeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "idlink_merge_duration_seconds",
			Help:    "Duration of Merge transactions",
			Buckets: durationBuckets,
		}),
		PersonsMerged: f.NewCounter(prometheus.CounterOpts{
			Name: "idlink_persons_merged_total",
			Help: "Non-primary persons redirected to a primary",
		}),
		AccountsMoved: f.NewCounter(prometheus.CounterOpts{
			Name: "idlink_accounts_moved_total",
			Help: "Provider accounts reassigned to a merge primary",
		}),
		PrimaryHops: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "idlink_primary_chain_hops",
			Help:    "Pointer hops followed to reach a primary",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		}),
		CyclesDetected: f.NewCounter(prometheus.CounterOpts{
			Name: "idlink_primary_cycles_detected_total",
			Help: "Primary pointer cycles found while resolving; each one is an integrity violation",
		}),
		LinkCodesIssued: f.NewCounter(prometheus.CounterOpts{
			Name: "idlink_link_codes_issued_total",
			Help: "Link codes issued",
		}),
		LinkCodesClaimed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "idlink_link_codes_claimed_total",
			Help: "Link code claims by outcome",
		}, []string{"outcome"}),
		OutboxPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "idlink_outbox_published_total",
			Help: "Audit outbox entries published to the event bus",
		}),
		OutboxFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "idlink_outbox_publish_failures_total",
			Help: "Audit outbox publish attempts that failed",
		}),
	}
}

// ObserveResolve records a successful Resolve. Call with time.Now() taken at the start.
func (m *Metrics) ObserveResolve(matchedBy string, start time.Time) {
	m.ResolveTotal.WithLabelValues(matchedBy).Inc()
	m.ResolveDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementResolveError(code string) {
	m.ResolveErrors.WithLabelValues(code).Inc()
}

// ObserveMerge records a completed Merge.
func (m *Metrics) ObserveMerge(method string, updated, moved int, start time.Time) {
	m.MergeTotal.WithLabelValues(method).Inc()
	m.MergeDuration.Observe(time.Since(start).Seconds())
	m.PersonsMerged.Add(float64(updated))
	m.AccountsMoved.Add(float64(moved))
}

func (m *Metrics) ObservePrimaryHops(hops int) {
	m.PrimaryHops.Observe(float64(hops))
}

func (m *Metrics) IncrementCycleDetected() {
	m.CyclesDetected.Inc()
}

func (m *Metrics) IncrementLinkCodeIssued() {
	m.LinkCodesIssued.Inc()
}

func (m *Metrics) IncrementLinkCodeClaimed(outcome string) {
	m.LinkCodesClaimed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AddOutboxPublished(n int) {
	m.OutboxPublished.Add(float64(n))
}

func (m *Metrics) IncrementOutboxFailure() {
	m.OutboxFailures.Inc()
}
