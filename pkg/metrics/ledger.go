package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// LedgerMetrics records payment ledger and read-path activity.
type LedgerMetrics struct {
	paymentsRecorded *prometheus.CounterVec
	paymentsRejected *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	opDuration       *prometheus.HistogramVec
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
// A nil registerer yields a recorder that drops every observation.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	paymentsRecorded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_payments_recorded_total",
		Help: "Payments committed to the ledger.",
	}, []string{"currency"})
	paymentsRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_payments_rejected_total",
		Help: "Payments refused before persistence.",
	}, []string{"reason"})
	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_cache_lookups_total",
		Help: "Order cache lookups by result.",
	}, []string{"scope", "result"})
	opDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_operation_duration_seconds",
		Help:    "Duration of ledger service operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(paymentsRecorded, paymentsRejected, cacheLookups, opDuration)
	return &LedgerMetrics{
		paymentsRecorded: paymentsRecorded,
		paymentsRejected: paymentsRejected,
		cacheLookups:     cacheLookups,
		opDuration:       opDuration,
	}
}

// IncPaymentRecorded counts a committed payment.
func (m *LedgerMetrics) IncPaymentRecorded(currency string) {
	if m == nil || m.paymentsRecorded == nil {
		return
	}
	m.paymentsRecorded.WithLabelValues(normalizeLabel(currency)).Inc()
}

// IncPaymentRejected counts a refused payment by error code.
func (m *LedgerMetrics) IncPaymentRejected(reason string) {
	if m == nil || m.paymentsRejected == nil {
		return
	}
	m.paymentsRejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveCacheLookup counts a cache read for scope (order, admin_list, client_list).
func (m *LedgerMetrics) ObserveCacheLookup(scope, result string) {
	if m == nil || m.cacheLookups == nil {
		return
	}
	m.cacheLookups.WithLabelValues(normalizeLabel(scope), normalizeLabel(result)).Inc()
}

// ObserveDuration records how long a named operation took.
func (m *LedgerMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.opDuration == nil {
		return
	}
	m.opDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
