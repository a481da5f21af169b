package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestLedgerMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewLedgerMetrics(reg)
	metrics.IncPaymentRecorded("NGN")
	metrics.IncPaymentRecorded("NGN")
	metrics.IncPaymentRejected("PAYMENT_EXCEEDS_BALANCE")
	metrics.ObserveCacheLookup("order", CacheHit)
	metrics.ObserveCacheLookup("order", CacheMiss)
	metrics.ObserveDuration("add_payment", 120*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "ledger_payments_recorded_total", "currency", "NGN"); err != nil {
		t.Fatalf("fetch recorded: %v", err)
	} else if got != 2 {
		t.Fatalf("expected recorded=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "ledger_payments_rejected_total", "reason", "PAYMENT_EXCEEDS_BALANCE"); err != nil {
		t.Fatalf("fetch rejected: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rejected=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "ledger_cache_lookups_total", "result", CacheHit); err != nil {
		t.Fatalf("fetch cache hit: %v", err)
	} else if got != 1 {
		t.Fatalf("expected hit=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "ledger_operation_duration_seconds", "operation", "add_payment"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestLedgerMetricsNilSafe(t *testing.T) {
	var nilMetrics *LedgerMetrics
	nilMetrics.IncPaymentRecorded("NGN")
	nilMetrics.ObserveCacheLookup("order", CacheHit)

	unregistered := NewLedgerMetrics(nil)
	unregistered.IncPaymentRejected("")
	unregistered.ObserveDuration("create_order", time.Second)
}

func TestNormalizeLabel(t *testing.T) {
	if got := normalizeLabel(""); got != "unknown" {
		t.Fatalf("expected unknown, got %s", got)
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
