package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wqkoh/reitwatch/internal/config"
	"github.com/wqkoh/reitwatch/internal/core"
	"github.com/wqkoh/reitwatch/internal/indicator"
	"github.com/wqkoh/reitwatch/internal/metrics"
	"github.com/wqkoh/reitwatch/internal/narrative"
	"github.com/wqkoh/reitwatch/internal/notifier"
	"github.com/wqkoh/reitwatch/internal/report"
	"github.com/wqkoh/reitwatch/internal/storage/archive"
)

type fakePrices struct {
	series map[string]core.PriceSeries
	err    map[string]error
}

func (f *fakePrices) Name() string { return "fake-prices" }

func (f *fakePrices) FetchDailyCloses(_ context.Context, symbol string, _ int) (core.PriceSeries, error) {
	if err := f.err[symbol]; err != nil {
		return nil, err
	}
	return f.series[symbol], nil
}

type fakeFundamentals struct {
	table map[string]core.FundamentalsSnapshot
	err   error
}

func (f *fakeFundamentals) Name() string { return "fake-fundamentals" }

func (f *fakeFundamentals) FetchAll(_ context.Context) (map[string]core.FundamentalsSnapshot, error) {
	return f.table, f.err
}

type captureNotifier struct {
	rep *report.Report
	err error
}

func (c *captureNotifier) Name() string { return "capture" }

func (c *captureNotifier) Send(_ context.Context, rep *report.Report) error {
	c.rep = rep
	return c.err
}

func flatSeries(n int, close float64) core.PriceSeries {
	series := make(core.PriceSeries, n)
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range series {
		series[i] = core.PriceObservation{Date: day.AddDate(0, 0, i), Close: close}
	}
	return series
}

func testApp(t *testing.T, prices *fakePrices, fundamentals *fakeFundamentals) (*App, string, *captureNotifier) {
	t.Helper()

	dir := t.TempDir()
	store, err := archive.NewLocalFS(dir)
	if err != nil {
		t.Fatalf("NewLocalFS: %v", err)
	}
	renderer, err := report.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	capture := &captureNotifier{}
	registry := notifier.NewRegistry()
	registry.Register(capture)

	cfg := config.Defaults()
	cfg.Universe = []config.UniverseItem{
		{Ticker: "C38U.SI", Name: "CapitaLand Integrated Commercial Trust", Segment: "Retail"},
		{Ticker: "A17U.SI", Name: "CapitaLand Ascendas REIT", Segment: "Industrial"},
	}
	cfg.Output.DashboardURL = "https://example.com/reits/"

	engineCfg := indicator.DefaultConfig()
	engineCfg.ChangeHorizons = withHorizons(engineCfg.ChangeHorizons, weeklyHorizon, monthlyHorizon)

	return &App{
		cfg:          cfg,
		log:          zap.NewNop(),
		prices:       prices,
		fundamentals: fundamentals,
		engineCfg:    engineCfg,
		narrator:     narrative.New(nil, zap.NewNop()),
		renderer:     renderer,
		publisher:    archive.NewPublisher(store),
		notifiers:    registry,
		metrics:      metrics.NewRegistry(),
	}, dir, capture
}

func TestRunOnce(t *testing.T) {
	prices := &fakePrices{series: map[string]core.PriceSeries{
		"C38U.SI": flatSeries(40, 2.00),
		"A17U.SI": flatSeries(40, 2.70),
	}}
	fundamentals := &fakeFundamentals{table: map[string]core.FundamentalsSnapshot{
		"CapitaLand Integrated Commercial Trust": {YieldPct: core.MetricOf(5.2)},
	}}
	a, dir, capture := testApp(t, prices, fundamentals)

	rep, err := a.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if len(rep.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rep.Rows))
	}
	if got := rep.Rows[0].Fundamentals.YieldPct.Or(0); got != 5.2 {
		t.Errorf("fundamentals not matched onto row: %v", got)
	}
	if rep.DashboardURL != "https://example.com/reits/" {
		t.Errorf("dashboard URL = %q", rep.DashboardURL)
	}

	// Dashboard landed on disk.
	html, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatalf("index.html not published: %v", err)
	}
	if !strings.Contains(string(html), "CapitaLand Ascendas REIT") {
		t.Errorf("published page missing universe rows")
	}

	// Digest went out.
	if capture.rep == nil {
		t.Fatalf("notifier was not invoked")
	}
	if capture.rep.Analysis.MarketCommentary == "" {
		t.Errorf("digest should carry fallback commentary")
	}
}

func TestRunOnceDegradedTicker(t *testing.T) {
	prices := &fakePrices{
		series: map[string]core.PriceSeries{"C38U.SI": flatSeries(40, 2.00)},
		err:    map[string]error{"A17U.SI": errors.New("upstream 500")},
	}
	fundamentals := &fakeFundamentals{table: map[string]core.FundamentalsSnapshot{
		"CapitaLand Ascendas REIT": {YieldPct: core.MetricOf(6.0)},
	}}
	a, _, _ := testApp(t, prices, fundamentals)

	rep, err := a.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("one bad ticker must not fail the run: %v", err)
	}

	degraded := rep.Rows[1]
	if degraded.Price.Present() || degraded.RSI.Present() {
		t.Errorf("degraded row should carry unavailable metrics: %+v", degraded)
	}
	if got := degraded.Fundamentals.YieldPct.Or(0); got != 6.0 {
		t.Errorf("fundamentals survive a price failure: %v", got)
	}
}

func TestRunOnceFundamentalsFailure(t *testing.T) {
	prices := &fakePrices{series: map[string]core.PriceSeries{
		"C38U.SI": flatSeries(40, 2.00),
		"A17U.SI": flatSeries(40, 2.70),
	}}
	fundamentals := &fakeFundamentals{err: errors.New("scrape blocked")}
	a, _, _ := testApp(t, prices, fundamentals)

	rep, err := a.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("fundamentals failure must not fail the run: %v", err)
	}
	for _, row := range rep.Rows {
		if row.Fundamentals.YieldPct.Present() {
			t.Errorf("row %s should have no fundamentals", row.Ticker)
		}
		if !row.Price.Present() {
			t.Errorf("row %s should still have a price", row.Ticker)
		}
	}
}

func TestWithHorizons(t *testing.T) {
	got := withHorizons([]int{5, 60}, 5, 20)
	if len(got) != 3 || got[2] != 20 {
		t.Errorf("withHorizons = %v", got)
	}
}
