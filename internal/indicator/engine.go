package indicator

import (
	"fmt"
	"math"

	"github.com/wqkoh/reitwatch/internal/core"
)

// Config holds the tunable windows for one engine invocation. It is
// passed by value; there are no process-wide settings.
type Config struct {
	RSIPeriod         int
	RSISmoothing      Smoothing
	TrendShortWindow  int
	TrendLongWindow   int
	TrendTolerancePct float64
	ChangeHorizons    []int
}

// DefaultConfig returns the standard windows: 14-period RSI with simple
// averaging, 5/20-session trend with a 0.1% tolerance band, and 5/20
// session change horizons (weekly/monthly).
func DefaultConfig() Config {
	return Config{
		RSIPeriod:         14,
		RSISmoothing:      SmoothingSimple,
		TrendShortWindow:  5,
		TrendLongWindow:   20,
		TrendTolerancePct: 0.1,
		ChangeHorizons:    []int{5, 20},
	}
}

// Compute derives the indicator set for one ticker. It is a pure
// function of its inputs: no I/O, no state between calls.
//
// Every derived field degrades independently to unavailable when the
// series does not cover its lookback window; a short or empty series is
// not an error, so callers can still render a row for the ticker.
// Fundamentals pass through untouched. A series with non-ascending or
// duplicate dates is a caller bug and is rejected.
func Compute(series core.PriceSeries, fundamentals core.FundamentalsSnapshot, cfg Config) (core.IndicatorResult, error) {
	result := core.IndicatorResult{
		ChangePct:    make(map[int]core.Metric, len(cfg.ChangeHorizons)),
		Fundamentals: fundamentals,
	}

	if !series.Ordered() {
		return result, core.WrapError(core.ErrPrecondition,
			fmt.Errorf("series dates must be strictly ascending"))
	}

	if len(series) == 0 {
		return result, nil
	}

	closes := series.Closes()
	latest := closes[len(closes)-1]
	result.LatestClose = core.MetricOf(latest)

	for _, horizon := range cfg.ChangeHorizons {
		if horizon <= 0 || len(closes) < horizon+1 {
			// A shorter window would mislead the fixed horizon label.
			continue
		}
		base := closes[len(closes)-1-horizon]
		if base == 0 {
			continue
		}
		result.ChangePct[horizon] = core.MetricOf(round2((latest - base) / base * 100))
	}

	if rsi, ok := RSI(closes, cfg.RSIPeriod, cfg.RSISmoothing); ok {
		result.RSI = core.MetricOf(round2(rsi))
	}

	result.Trend = classifyTrend(closes, cfg)

	return result, nil
}

// classifyTrend compares the short and long simple moving averages.
// The relative difference is rounded to whole basis points before the
// tolerance comparison so boundary cases land on the same side every
// run: a difference of exactly the tolerance is FLAT, strictly greater
// is UP, strictly below the negated tolerance is DOWN.
func classifyTrend(closes []float64, cfg Config) core.Trend {
	short, okShort := LatestSMA(closes, cfg.TrendShortWindow)
	long, okLong := LatestSMA(closes, cfg.TrendLongWindow)
	if !okShort || !okLong || long == 0 {
		return ""
	}

	diffBp := int64(math.Round((short - long) / long * 100 * 100))
	tolBp := int64(math.Round(cfg.TrendTolerancePct * 100))

	switch {
	case diffBp > tolBp:
		return core.TrendUp
	case diffBp < -tolBp:
		return core.TrendDown
	default:
		return core.TrendFlat
	}
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
