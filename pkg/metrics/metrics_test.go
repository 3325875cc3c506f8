package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestWizardMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWizardMetrics(reg)
	m.Transition("next", "advanced")
	m.Transition("next", "advanced")
	m.Transition("next", "invalid")
	m.Payment("confirm", "succeeded")
	m.ObserveGateway("intent", 120*time.Millisecond)
	m.SideEffect("email", errors.New("smtp down"))
	m.SideEffect("order", nil)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "washday_wizard_transitions_total", map[string]string{"operation": "next", "outcome": "advanced"}); err != nil {
		t.Fatalf("fetch transitions: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 advanced transitions, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "washday_wizard_payments_total", map[string]string{"stage": "confirm", "outcome": "succeeded"}); err != nil || got != 1 {
		t.Fatalf("expected 1 confirmed payment, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "washday_checkout_side_effects_total", map[string]string{"effect": "email", "outcome": "error"}); err != nil || got != 1 {
		t.Fatalf("expected 1 email error, got %f (%v)", got, err)
	}
	if got, err := fetchHistogramSum(mfs, "washday_payment_gateway_duration_seconds", map[string]string{"stage": "intent"}); err != nil || got <= 0 {
		t.Fatalf("expected gateway duration recorded, got %f (%v)", got, err)
	}
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe(http.MethodPost, "/api/v1/wizard/{id}/next", http.StatusOK, 30*time.Millisecond)
	m.Observe(http.MethodPost, "", http.StatusNotFound, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	labels := map[string]string{"method": "POST", "route": "/api/v1/wizard/{id}/next", "status": "200"}
	if got, err := fetchCounterValue(mfs, "washday_http_requests_total", labels); err != nil || got != 1 {
		t.Fatalf("expected 1 request, got %f (%v)", got, err)
	}
	if _, err := fetchCounterValue(mfs, "washday_http_requests_total", map[string]string{"route": "unknown", "status": "404"}); err != nil {
		t.Fatalf("empty route should be recorded as unknown: %v", err)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	var w *WizardMetrics
	w.Transition("next", "advanced")
	NewWizardMetrics(nil).Payment("intent", "failed")
	NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Second)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	for name, value := range want {
		found := false
		for _, label := range pairs {
			if label.GetName() == name && label.GetValue() == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
