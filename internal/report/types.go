package report

import (
	"time"

	"github.com/wqkoh/reitwatch/internal/core"
)

// Row is one REIT's line in the dashboard table. Metric fields stay
// unavailable when the price series could not support them; the row is
// still rendered with N/A cells rather than dropped.
type Row struct {
	Ticker  string
	Name    string
	Segment core.Segment
	Sector  string

	Price            core.Metric
	WeeklyChangePct  core.Metric
	MonthlyChangePct core.Metric
	RSI              core.Metric
	Trend            core.Trend
	Fundamentals     core.FundamentalsSnapshot

	Insights []string
	Note     string // per-REIT commentary, optional
}

// PortfolioMetrics are averages over the rows where the metric was
// available; absent metrics do not drag the average toward zero.
type PortfolioMetrics struct {
	AvgYieldPct   core.Metric
	AvgPriceToNAV core.Metric
	AvgGearingPct core.Metric
}

// SectorStat summarizes one sector across the universe.
type SectorStat struct {
	Sector          string
	Count           int
	AvgYieldPct     core.Metric
	AvgWeeklyChange core.Metric
	Outlook         string // one-line commentary, optional
}

// Analysis is the generated prose attached to a report. All fields are
// optional; a run without an LLM provider carries fallback text.
type Analysis struct {
	MarketCommentary        string
	PortfolioRecommendation string
	SectorOutlook           map[string]string
	REITNotes               map[string]string // keyed by ticker
	AIEnabled               bool
}

// Report is the full artifact for one run.
type Report struct {
	GeneratedAt  time.Time
	Rows         []Row
	Portfolio    PortfolioMetrics
	Sectors      []SectorStat
	Analysis     Analysis
	DashboardURL string
}
