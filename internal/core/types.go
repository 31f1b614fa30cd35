package core

import "time"

// Segment is the property segment a REIT operates in, as listed on SGX.
type Segment string

const (
	SegmentIndustrial  Segment = "Industrial"
	SegmentRetail      Segment = "Retail"
	SegmentOffice      Segment = "Office"
	SegmentHospitality Segment = "Hospitality"
	SegmentHealthcare  Segment = "Healthcare"
	SegmentDiversified Segment = "Diversified"
	SegmentDataCentre  Segment = "Data Centre"
)

// REIT identifies one security in the configured universe.
type REIT struct {
	Ticker  string
	Name    string
	Segment Segment
}

// PriceObservation is one daily close for a ticker.
type PriceObservation struct {
	Date  time.Time
	Close float64
}

// PriceSeries is a date-ascending sequence of daily observations.
// Dates are unique within a series.
type PriceSeries []PriceObservation

// Closes returns the closing prices in series order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, o := range s {
		closes[i] = o.Close
	}
	return closes
}

// Latest returns the most recent observation.
func (s PriceSeries) Latest() (PriceObservation, bool) {
	if len(s) == 0 {
		return PriceObservation{}, false
	}
	return s[len(s)-1], true
}

// Ordered reports whether dates are strictly ascending with no duplicates.
func (s PriceSeries) Ordered() bool {
	for i := 1; i < len(s); i++ {
		if !s[i].Date.After(s[i-1].Date) {
			return false
		}
	}
	return true
}

// Trend is the coarse direction label from comparing a short and a long
// simple moving average of price.
type Trend string

const (
	TrendUp   Trend = "UP"
	TrendDown Trend = "DOWN"
	TrendFlat Trend = "FLAT"
)

// Defined reports whether the trend could be classified. The zero value
// means the series did not cover the long moving-average window.
func (t Trend) Defined() bool {
	return t == TrendUp || t == TrendDown || t == TrendFlat
}

func (t Trend) String() string {
	if !t.Defined() {
		return "N/A"
	}
	return string(t)
}

// FundamentalsSnapshot holds point-in-time scalar metrics for a REIT.
// Every field is independently optional: the scrape can fail per metric.
type FundamentalsSnapshot struct {
	YieldPct   Metric // trailing distribution yield, percent
	PriceToNAV Metric // price / net asset value, ratio
	NAV        Metric // net asset value per unit, dollars
	GearingPct Metric // aggregate leverage, percent
	DPU        Metric // distribution per unit, cents
}

// IndicatorResult is the per-ticker output of the indicator engine.
// Derived fields are independently unavailable when the series does not
// cover their lookback window.
type IndicatorResult struct {
	LatestClose  Metric
	ChangePct    map[int]Metric // keyed by horizon in trading sessions
	RSI          Metric
	Trend        Trend
	Fundamentals FundamentalsSnapshot
}

// Change returns the percentage change for the given horizon, or an
// unavailable Metric when the horizon was not computed.
func (r IndicatorResult) Change(horizon int) Metric {
	if r.ChangePct == nil {
		return Metric{}
	}
	return r.ChangePct[horizon]
}
