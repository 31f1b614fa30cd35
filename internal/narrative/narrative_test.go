package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wqkoh/reitwatch/internal/core"
	"github.com/wqkoh/reitwatch/internal/llm"
	"github.com/wqkoh/reitwatch/internal/report"
)

// fakeProvider scripts replies keyed by a substring of the prompt.
type fakeProvider struct {
	replies  map[string]string
	err      error
	requests []llm.ChatRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	prompt := req.Messages[0].Content
	for key, reply := range f.replies {
		if strings.Contains(prompt, key) {
			return &llm.ChatResponse{Content: reply, Usage: llm.Usage{InputTokens: 10, OutputTokens: 5}}, nil
		}
	}
	return &llm.ChatResponse{Content: "ok"}, nil
}

var _ llm.Provider = (*fakeProvider)(nil)

func testReport() *report.Report {
	items := []report.Item{
		{
			REIT: core.REIT{Ticker: "C38U.SI", Name: "CICT", Segment: core.SegmentRetail},
			Result: core.IndicatorResult{
				LatestClose: core.MetricOf(2.00),
				ChangePct:   map[int]core.Metric{5: core.MetricOf(2.1), 20: core.MetricOf(4.0)},
				RSI:         core.MetricOf(55),
				Fundamentals: core.FundamentalsSnapshot{
					YieldPct:   core.MetricOf(5.2),
					PriceToNAV: core.MetricOf(0.95),
					GearingPct: core.MetricOf(40),
				},
			},
		},
		{
			REIT: core.REIT{Ticker: "A17U.SI", Name: "Ascendas", Segment: core.SegmentIndustrial},
			Result: core.IndicatorResult{
				LatestClose: core.MetricOf(2.70),
				ChangePct:   map[int]core.Metric{5: core.MetricOf(-3.4), 20: core.MetricOf(-1.0)},
				RSI:         core.MetricOf(42),
			},
		},
	}
	return report.Build(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), items, 5, 20)
}

func TestGenerateWithoutProvider(t *testing.T) {
	g := New(nil, zap.NewNop())
	analysis, usage := g.Generate(context.Background(), testReport())

	if analysis.AIEnabled {
		t.Errorf("AIEnabled should be false without a provider")
	}
	if analysis.MarketCommentary == "" || analysis.PortfolioRecommendation == "" {
		t.Fatalf("fallback prose should never be empty: %+v", analysis)
	}
	if !strings.Contains(analysis.MarketCommentary, "1 of 2 tracked names closed higher") {
		t.Errorf("commentary = %q", analysis.MarketCommentary)
	}
	if usage != (llm.Usage{}) {
		t.Errorf("usage = %+v, want zero", usage)
	}
}

func TestGenerateWithProvider(t *testing.T) {
	p := &fakeProvider{replies: map[string]string{
		"market commentary":      "Commentary text.",
		"diversified":            "Portfolio text.",
		"ticker to sentence":     "```json\n{\"A17U.SI\": \"Note for Ascendas.\"}\n```",
		"sector name to outlook": "{\"Retail\": \"Footfall holding up.\"}",
	}}
	g := New(p, zap.NewNop())
	analysis, usage := g.Generate(context.Background(), testReport())

	if !analysis.AIEnabled {
		t.Errorf("AIEnabled should be true")
	}
	if analysis.MarketCommentary != "Commentary text." {
		t.Errorf("commentary = %q", analysis.MarketCommentary)
	}
	if analysis.PortfolioRecommendation != "Portfolio text." {
		t.Errorf("recommendation = %q", analysis.PortfolioRecommendation)
	}
	if analysis.REITNotes["A17U.SI"] != "Note for Ascendas." {
		t.Errorf("notes = %v", analysis.REITNotes)
	}
	if analysis.SectorOutlook["Retail"] != "Footfall holding up." {
		t.Errorf("outlook = %v", analysis.SectorOutlook)
	}
	if len(p.requests) != 4 {
		t.Errorf("requests = %d, want 4", len(p.requests))
	}
	if usage.InputTokens != 40 || usage.OutputTokens != 20 {
		t.Errorf("usage = %+v, want 40 in / 20 out", usage)
	}
}

func TestGenerateProviderFailureFallsBack(t *testing.T) {
	p := &fakeProvider{err: errors.New("rate limited")}
	g := New(p, zap.NewNop())
	analysis, _ := g.Generate(context.Background(), testReport())

	if analysis.MarketCommentary == "" || analysis.PortfolioRecommendation == "" {
		t.Fatalf("failed calls must fall back to derived prose: %+v", analysis)
	}
	if len(analysis.REITNotes) != 0 || len(analysis.SectorOutlook) != 0 {
		t.Errorf("notes and outlook have no fallback: %+v", analysis)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":"b"}`, `{"a":"b"}`},
		{"```json\n{\"a\":\"b\"}\n```", `{"a":"b"}`},
		{"Here you go: {\"a\":\"b\"} hope it helps", `{"a":"b"}`},
		{"no json here", "no json here"},
	}
	for _, tt := range tests {
		if got := extractJSON(tt.in); got != tt.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFallbackRecommendation(t *testing.T) {
	rep := testReport()
	got := fallbackRecommendation(rep)
	if !strings.Contains(got, "5.2%") {
		t.Errorf("recommendation should cite the average yield: %q", got)
	}

	empty := report.Build(time.Now(), nil, 5, 20)
	if got := fallbackRecommendation(empty); got != "Fundamentals were unavailable for this run." {
		t.Errorf("empty-universe recommendation = %q", got)
	}
}
