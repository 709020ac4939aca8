package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SettlementMetrics records settlement attempt outcomes per tender method.
type SettlementMetrics struct {
	duration  *prometheus.HistogramVec
	committed *prometheus.CounterVec
	failed    *prometheus.CounterVec
	held      prometheus.Counter
	resumed   prometheus.Counter
}

// NewSettlementMetrics registers the settlement metrics on the provided registerer.
func NewSettlementMetrics(reg prometheus.Registerer) *SettlementMetrics {
	if reg == nil {
		return &SettlementMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "settlement_duration_seconds",
		Help:    "Duration of settlement attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"tender_method"})
	committed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_committed",
		Help: "Settlements committed to the ledger.",
	}, []string{"tender_method"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_failed",
		Help: "Settlement attempts that failed validation or persistence.",
	}, []string{"tender_method", "reason"})
	held := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "transactions_held",
		Help: "Carts parked under a hold code.",
	})
	resumed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "transactions_resumed",
		Help: "Held carts redeemed back onto a register.",
	})
	reg.MustRegister(duration, committed, failed, held, resumed)
	return &SettlementMetrics{
		duration:  duration,
		committed: committed,
		failed:    failed,
		held:      held,
		resumed:   resumed,
	}
}

// ObserveDuration records how long a settlement attempt took.
func (s *SettlementMetrics) ObserveDuration(method string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(method)).Observe(duration.Seconds())
}

// IncCommitted increments the committed counter for the tender method.
func (s *SettlementMetrics) IncCommitted(method string) {
	if s == nil || s.committed == nil {
		return
	}
	s.committed.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncFailed increments the failure counter for the tender method and reason.
func (s *SettlementMetrics) IncFailed(method, reason string) {
	if s == nil || s.failed == nil {
		return
	}
	s.failed.WithLabelValues(normalizeLabel(method), normalizeLabel(reason)).Inc()
}

// IncHeld increments the held-transaction counter.
func (s *SettlementMetrics) IncHeld() {
	if s == nil || s.held == nil {
		return
	}
	s.held.Inc()
}

// IncResumed increments the resumed-transaction counter.
func (s *SettlementMetrics) IncResumed() {
	if s == nil || s.resumed == nil {
		return
	}
	s.resumed.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
