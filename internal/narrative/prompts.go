package narrative

import (
	"fmt"
	"strings"

	"github.com/wqkoh/reitwatch/internal/report"
)

func commentaryPrompt(rep *report.Report) string {
	var b strings.Builder
	b.WriteString("Write 2-3 sentences of market commentary for this week's Singapore REIT data.\n\n")
	writeSnapshot(&b, rep)
	b.WriteString("\nRespond with the commentary only, no heading.")
	return b.String()
}

func recommendationPrompt(rep *report.Report) string {
	var b strings.Builder
	b.WriteString("Given the portfolio averages and sector data below, write 2-3 sentences on how a diversified S-REIT portfolio is positioned. Do not recommend individual purchases.\n\n")
	writeSnapshot(&b, rep)
	b.WriteString("\nRespond with the assessment only, no heading.")
	return b.String()
}

func notesPrompt(rep *report.Report) string {
	movers := rep.BiggestMovers(noteCount)
	var b strings.Builder
	b.WriteString("For each REIT below, write one short sentence on its week. ")
	b.WriteString("Respond with a single JSON object mapping ticker to sentence, nothing else.\n\n")
	for _, row := range movers {
		fmt.Fprintf(&b, "%s (%s): 1W %s, RSI %s, yield %s%%, P/NAV %sx\n",
			row.Ticker, row.Name,
			signed(row.WeeklyChangePct.Value()),
			row.RSI, row.Fundamentals.YieldPct, row.Fundamentals.PriceToNAV)
	}
	return b.String()
}

func outlookPrompt(rep *report.Report) string {
	var b strings.Builder
	b.WriteString("For each sector below, write a one-line outlook. ")
	b.WriteString("Respond with a single JSON object mapping sector name to outlook, nothing else.\n\n")
	for _, s := range rep.Sectors {
		fmt.Fprintf(&b, "%s: %d REITs, avg yield %s%%, avg 1W change %s\n",
			s.Sector, s.Count, s.AvgYieldPct, signed(s.AvgWeeklyChange.Value()))
	}
	return b.String()
}

func writeSnapshot(b *strings.Builder, rep *report.Report) {
	fmt.Fprintf(b, "Universe: %d REITs. Average yield %s%%, average P/NAV %sx, average gearing %s%%.\n",
		len(rep.Rows), rep.Portfolio.AvgYieldPct, rep.Portfolio.AvgPriceToNAV, rep.Portfolio.AvgGearingPct)

	if gainers := rep.TopGainers(3); len(gainers) > 0 {
		b.WriteString("Top gainers:")
		for _, row := range gainers {
			fmt.Fprintf(b, " %s %s;", row.Name, signed(row.WeeklyChangePct.Value()))
		}
		b.WriteString("\n")
	}
	if losers := rep.TopLosers(3); len(losers) > 0 {
		b.WriteString("Top losers:")
		for _, row := range losers {
			fmt.Fprintf(b, " %s %s;", row.Name, signed(row.WeeklyChangePct.Value()))
		}
		b.WriteString("\n")
	}
	for _, s := range rep.Sectors {
		fmt.Fprintf(b, "Sector %s: %d REITs, avg yield %s%%, avg 1W %s\n",
			s.Sector, s.Count, s.AvgYieldPct, signed(s.AvgWeeklyChange.Value()))
	}
}

func signed(v float64, ok bool) string {
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%+.2f%%", v)
}

// fallbackCommentary derives a factual summary directly from the data.
func fallbackCommentary(rep *report.Report) string {
	var up, down, withChange int
	for _, row := range rep.Rows {
		v, ok := row.WeeklyChangePct.Value()
		if !ok {
			continue
		}
		withChange++
		if v > 0 {
			up++
		} else if v < 0 {
			down++
		}
	}
	if withChange == 0 {
		return fmt.Sprintf("Tracking %d S-REITs; no weekly price changes were available for this run.", len(rep.Rows))
	}

	tone := "mixed"
	if up > down*2 {
		tone = "broadly positive"
	} else if down > up*2 {
		tone = "broadly negative"
	}
	return fmt.Sprintf("The week was %s for S-REITs: %d of %d tracked names closed higher and %d closed lower.",
		tone, up, withChange, down)
}

// fallbackRecommendation summarizes the portfolio averages.
func fallbackRecommendation(rep *report.Report) string {
	parts := []string{}
	if y, ok := rep.Portfolio.AvgYieldPct.Value(); ok {
		parts = append(parts, fmt.Sprintf("the average distribution yield stands at %.1f%%", y))
	}
	if p, ok := rep.Portfolio.AvgPriceToNAV.Value(); ok {
		level := "around book value"
		if p < 0.9 {
			level = "at a discount to book value"
		} else if p > 1.1 {
			level = "at a premium to book value"
		}
		parts = append(parts, fmt.Sprintf("the sector trades %s (%.2fx P/NAV)", level, p))
	}
	if g, ok := rep.Portfolio.AvgGearingPct.Value(); ok {
		parts = append(parts, fmt.Sprintf("average gearing of %.1f%% sits below the regulatory ceiling", g))
	}
	if len(parts) == 0 {
		return "Fundamentals were unavailable for this run."
	}
	return "Across the tracked universe, " + strings.Join(parts, ", ") + "."
}
