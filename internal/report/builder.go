package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/wqkoh/reitwatch/internal/core"
)

// Insight thresholds, from the published S-REIT screening conventions:
// MAS caps gearing at 50%, so 45% reads as stretched; yields above 7%
// and P/NAV below 0.8x flag value candidates.
const (
	rsiOversold     = 30
	rsiOverbought   = 70
	highYieldPct    = 7
	deepDiscountNAV = 0.8
	premiumNAV      = 1.3
	highGearingPct  = 45
	lowGearingPct   = 35
)

// Item pairs a universe entry with its computed indicators.
type Item struct {
	REIT   core.REIT
	Result core.IndicatorResult
}

// Build assembles the dashboard data for one run. Row order follows the
// universe order. weeklyHorizon and monthlyHorizon name the change
// horizons (in trading sessions) displayed in the two change columns.
func Build(generatedAt time.Time, items []Item, weeklyHorizon, monthlyHorizon int) *Report {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		result := item.Result
		row := Row{
			Ticker:           item.REIT.Ticker,
			Name:             item.REIT.Name,
			Segment:          item.REIT.Segment,
			Sector:           SectorOf(item.REIT.Segment),
			Price:            result.LatestClose,
			WeeklyChangePct:  result.Change(weeklyHorizon),
			MonthlyChangePct: result.Change(monthlyHorizon),
			RSI:              result.RSI,
			Trend:            result.Trend,
			Fundamentals:     result.Fundamentals,
		}
		row.Insights = insightsFor(row)
		rows = append(rows, row)
	}

	return &Report{
		GeneratedAt: generatedAt,
		Rows:        rows,
		Portfolio:   portfolioMetrics(rows),
		Sectors:     sectorSummary(rows),
	}
}

// SectorOf maps a listing segment to the coarse sector used for
// grouping and outlook commentary.
func SectorOf(segment core.Segment) string {
	s := strings.ToLower(string(segment))
	switch {
	case strings.Contains(s, "industrial"), strings.Contains(s, "logistics"):
		return "Industrial & Logistics"
	case strings.Contains(s, "retail"):
		return "Retail"
	case strings.Contains(s, "office"), strings.Contains(s, "commercial"):
		return "Commercial"
	case strings.Contains(s, "hospitality"), strings.Contains(s, "hotel"):
		return "Hospitality"
	case strings.Contains(s, "health"):
		return "Healthcare"
	case strings.Contains(s, "data"):
		return "Data Centre"
	case strings.Contains(s, "diversified"):
		return "Diversified"
	case s == "":
		return "Other"
	default:
		return string(segment)
	}
}

func insightsFor(row Row) []string {
	var insights []string

	if rsi, ok := row.RSI.Value(); ok {
		if rsi < rsiOversold {
			insights = append(insights, fmt.Sprintf("Oversold (RSI %.0f) - potential entry point", rsi))
		} else if rsi > rsiOverbought {
			insights = append(insights, fmt.Sprintf("Overbought (RSI %.0f) - overvaluation risk", rsi))
		}
	}

	switch row.Trend {
	case core.TrendUp:
		insights = append(insights, "Short-term average above long-term - uptrend")
	case core.TrendDown:
		insights = append(insights, "Short-term average below long-term - downtrend")
	}

	f := row.Fundamentals
	if y, ok := f.YieldPct.Value(); ok && y > highYieldPct {
		insights = append(insights, fmt.Sprintf("High yield (%.1f%%)", y))
	}
	if pnav, ok := f.PriceToNAV.Value(); ok {
		if pnav < deepDiscountNAV {
			insights = append(insights, fmt.Sprintf("Deep discount to NAV (%.2fx)", pnav))
		} else if pnav > premiumNAV {
			insights = append(insights, fmt.Sprintf("Premium to NAV (%.2fx)", pnav))
		}
	}
	if g, ok := f.GearingPct.Value(); ok {
		if g > highGearingPct {
			insights = append(insights, fmt.Sprintf("High gearing (%.1f%%)", g))
		} else if g < lowGearingPct {
			insights = append(insights, fmt.Sprintf("Conservative gearing (%.1f%%)", g))
		}
	}

	if len(insights) == 0 && row.Price.Present() {
		insights = append(insights, "Trading within normal range")
	}
	return insights
}

// portfolioMetrics averages each fundamental over the rows where it is
// available. No available values means the average itself is unavailable.
func portfolioMetrics(rows []Row) PortfolioMetrics {
	return PortfolioMetrics{
		AvgYieldPct:   average(rows, func(r Row) core.Metric { return r.Fundamentals.YieldPct }),
		AvgPriceToNAV: average(rows, func(r Row) core.Metric { return r.Fundamentals.PriceToNAV }),
		AvgGearingPct: average(rows, func(r Row) core.Metric { return r.Fundamentals.GearingPct }),
	}
}

func average(rows []Row, pick func(Row) core.Metric) core.Metric {
	var sum float64
	var n int
	for _, row := range rows {
		if v, ok := pick(row).Value(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return core.Metric{}
	}
	return core.MetricOf(math.Round(sum/float64(n)*100) / 100)
}

func sectorSummary(rows []Row) []SectorStat {
	bySector := make(map[string][]Row)
	for _, row := range rows {
		bySector[row.Sector] = append(bySector[row.Sector], row)
	}

	sectors := make([]SectorStat, 0, len(bySector))
	for sector, group := range bySector {
		sectors = append(sectors, SectorStat{
			Sector:          sector,
			Count:           len(group),
			AvgYieldPct:     average(group, func(r Row) core.Metric { return r.Fundamentals.YieldPct }),
			AvgWeeklyChange: average(group, func(r Row) core.Metric { return r.WeeklyChangePct }),
		})
	}
	sort.Slice(sectors, func(i, j int) bool { return sectors[i].Sector < sectors[j].Sector })
	return sectors
}

// TopGainers returns up to n rows with the highest weekly change. Rows
// without a weekly change are excluded.
func (r *Report) TopGainers(n int) []Row {
	return r.sortedByWeeklyChange(n, true)
}

// TopLosers returns up to n rows with the lowest weekly change.
func (r *Report) TopLosers(n int) []Row {
	return r.sortedByWeeklyChange(n, false)
}

func (r *Report) sortedByWeeklyChange(n int, descending bool) []Row {
	movers := make([]Row, 0, len(r.Rows))
	for _, row := range r.Rows {
		if row.WeeklyChangePct.Present() {
			movers = append(movers, row)
		}
	}
	sort.SliceStable(movers, func(i, j int) bool {
		a, b := movers[i].WeeklyChangePct.Or(0), movers[j].WeeklyChangePct.Or(0)
		if descending {
			return a > b
		}
		return a < b
	})
	if len(movers) > n {
		movers = movers[:n]
	}
	return movers
}

// BiggestMovers returns up to n rows ordered by absolute weekly change,
// the candidates for per-REIT commentary.
func (r *Report) BiggestMovers(n int) []Row {
	movers := make([]Row, 0, len(r.Rows))
	for _, row := range r.Rows {
		if row.WeeklyChangePct.Present() {
			movers = append(movers, row)
		}
	}
	sort.SliceStable(movers, func(i, j int) bool {
		return math.Abs(movers[i].WeeklyChangePct.Or(0)) > math.Abs(movers[j].WeeklyChangePct.Or(0))
	})
	if len(movers) > n {
		movers = movers[:n]
	}
	return movers
}

// AttachAnalysis stores generated prose on the report and copies
// per-REIT notes onto their rows.
func (r *Report) AttachAnalysis(analysis Analysis) {
	r.Analysis = analysis
	if len(analysis.REITNotes) > 0 {
		for i := range r.Rows {
			if note, ok := analysis.REITNotes[r.Rows[i].Ticker]; ok {
				r.Rows[i].Note = note
			}
		}
	}
	if len(analysis.SectorOutlook) > 0 {
		for i := range r.Sectors {
			if outlook, ok := analysis.SectorOutlook[r.Sectors[i].Sector]; ok {
				r.Sectors[i].Outlook = outlook
			}
		}
	}
}
