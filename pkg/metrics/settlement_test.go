package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestSettlementMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewSettlementMetrics(reg)
	metrics.ObserveDuration("cash", 250*time.Millisecond)
	metrics.IncCommitted("cash")
	metrics.IncFailed("card", "EXACT_PAYMENT_REQUIRED")
	metrics.IncHeld()
	metrics.IncResumed()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "settlement_committed", "tender_method", "cash"); err != nil {
		t.Fatalf("fetch committed: %v", err)
	} else if got != 1 {
		t.Fatalf("expected committed=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "settlement_failed", "tender_method", "card"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failed=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "settlement_duration_seconds", "tender_method", "cash"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestSettlementMetricsNilReceiverIsSafe(t *testing.T) {
	var metrics *SettlementMetrics
	metrics.ObserveDuration("cash", time.Second)
	metrics.IncCommitted("cash")
	metrics.IncFailed("cash", "x")
	metrics.IncHeld()
	metrics.IncResumed()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if !hasLabel(metric, label, value) {
			continue
		}
		return metric.GetCounter().GetValue(), nil
	}
	return 0, fmt.Errorf("metric %q with %s=%s not found", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if !hasLabel(metric, label, value) {
			continue
		}
		return metric.GetHistogram().GetSampleSum(), nil
	}
	return 0, fmt.Errorf("metric %q with %s=%s not found", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func hasLabel(metric *dto.Metric, label, value string) bool {
	for _, pair := range metric.GetLabel() {
		if pair.GetName() == label && pair.GetValue() == value {
			return true
		}
	}
	return false
}
