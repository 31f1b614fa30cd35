package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg == nil {
		t.Fatal("expected non-nil registry")
	}

	// Should have go runtime metrics at minimum
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(mfs) == 0 {
		t.Error("expected some metrics to be registered")
	}
}

func TestRegistry_RecordRun(t *testing.T) {
	reg := NewRegistry()
	reg.RecordRun("success", 12.5)
	reg.RecordRun("failed", 1.1)

	assertMetric(t, reg, "reitwatch_runs_total")
	assertMetric(t, reg, "reitwatch_run_duration_seconds")
}

func TestRegistry_RecordTicker(t *testing.T) {
	reg := NewRegistry()
	reg.RecordTicker("ok")
	reg.RecordTicker("degraded")
	assertMetric(t, reg, "reitwatch_tickers_processed_total")
}

func TestRegistry_RecordLLMUsage(t *testing.T) {
	reg := NewRegistry()
	reg.RecordLLMUsage(120, 45)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != "reitwatch_llm_tokens_total" {
			continue
		}
		var total float64
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		if total != 165 {
			t.Errorf("llm tokens = %v, want 165", total)
		}
		return
	}
	t.Error("expected reitwatch_llm_tokens_total metric")
}

func TestRegistry_Handler(t *testing.T) {
	reg := NewRegistry()
	reg.SetUniverseSize(42)

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "reitwatch_universe_size 42") {
		t.Errorf("exposition missing universe gauge:\n%s", rec.Body.String())
	}
}

func assertMetric(t *testing.T, reg *Registry, name string) {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == name {
			return
		}
	}
	t.Errorf("expected %s metric", name)
}
