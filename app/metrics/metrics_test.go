package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, m := range mf.GetMetric() {
			for _, pair := range m.GetLabel() {
				if labels[pair.GetName()] != pair.GetValue() {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}

	t.Fatalf("Metric %s not found", name)
	return 0
}

func TestRecordParseSuccess(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordParseSuccess()
	c.RecordParseSuccess()

	if got := counterValue(t, reg, "atomcomb_parse_success_total", nil); got != 2 {
		t.Errorf("Expected parse success count 2, got: %v", got)
	}
}

func TestRecordParseFailureByKind(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordParseFailure("missing_element")
	c.RecordParseFailure("missing_element")
	c.RecordParseFailure("xml_syntax")

	got := counterValue(t, reg, "atomcomb_parse_fail_total", map[string]string{"kind": "missing_element"})
	if got != 2 {
		t.Errorf("Expected missing_element count 2, got: %v", got)
	}
	got = counterValue(t, reg, "atomcomb_parse_fail_total", map[string]string{"kind": "xml_syntax"})
	if got != 1 {
		t.Errorf("Expected xml_syntax count 1, got: %v", got)
	}
}

func TestRecordFetchCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordFetchSuccess()
	c.RecordFetchFailure()
	c.RecordFetchFailure()

	if got := counterValue(t, reg, "atomcomb_fetch_success_total", nil); got != 1 {
		t.Errorf("Expected fetch success count 1, got: %v", got)
	}
	if got := counterValue(t, reg, "atomcomb_fetch_fail_total", nil); got != 2 {
		t.Errorf("Expected fetch fail count 2, got: %v", got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordParseSuccess()
	c.RecordParseDuration(25 * time.Millisecond)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler(reg).ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("Expected status 200, got: %d", rec.Code)
	}

	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "atomcomb_parse_success_total") {
		t.Error("Expected parse success metric in scrape output")
	}
	if !strings.Contains(string(body), "atomcomb_parse_duration_seconds") {
		t.Error("Expected parse duration metric in scrape output")
	}
}
