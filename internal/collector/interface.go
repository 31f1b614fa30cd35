package collector

import (
	"context"

	"github.com/wqkoh/reitwatch/internal/core"
)

// PriceProvider supplies an ordered daily close series for a ticker over
// a trailing lookback window.
type PriceProvider interface {
	Name() string
	FetchDailyCloses(ctx context.Context, symbol string, lookbackDays int) (core.PriceSeries, error)
}

// FundamentalsProvider supplies point-in-time scalar metrics for the
// whole universe in one fetch, keyed by REIT name as published by the
// source. Individual metrics may be unavailable independently.
type FundamentalsProvider interface {
	Name() string
	FetchAll(ctx context.Context) (map[string]core.FundamentalsSnapshot, error)
}

// MatchFundamentals finds the snapshot for a REIT by name. Source names
// rarely match the configured names exactly, so matching falls back to
// case-insensitive substring containment in either direction.
func MatchFundamentals(name string, table map[string]core.FundamentalsSnapshot) (core.FundamentalsSnapshot, bool) {
	if snap, ok := table[name]; ok {
		return snap, true
	}
	needle := normalizeName(name)
	for key, snap := range table {
		candidate := normalizeName(key)
		if candidate == needle {
			return snap, true
		}
	}
	for key, snap := range table {
		candidate := normalizeName(key)
		if contains(candidate, needle) || contains(needle, candidate) {
			return snap, true
		}
	}
	return core.FundamentalsSnapshot{}, false
}
