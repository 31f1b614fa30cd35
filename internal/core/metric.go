package core

import (
	"encoding/json"
	"strconv"
)

// Metric is an optional decimal value. The zero value is unavailable.
// It exists so "metric missing" can never be confused with a numeric
// zero downstream.
type Metric struct {
	value   float64
	present bool
}

// MetricOf returns a present Metric holding v.
func MetricOf(v float64) Metric {
	return Metric{value: v, present: true}
}

// Present reports whether the metric holds a value.
func (m Metric) Present() bool {
	return m.present
}

// Value returns the held value and whether it is present.
func (m Metric) Value() (float64, bool) {
	return m.value, m.present
}

// Or returns the held value, or fallback when unavailable.
func (m Metric) Or(fallback float64) float64 {
	if !m.present {
		return fallback
	}
	return m.value
}

// String renders the value with two decimal places, or "N/A".
func (m Metric) String() string {
	if !m.present {
		return "N/A"
	}
	return strconv.FormatFloat(m.value, 'f', 2, 64)
}

// MarshalJSON renders an unavailable metric as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.present {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}

// UnmarshalJSON accepts null as unavailable.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Metric{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = MetricOf(v)
	return nil
}
