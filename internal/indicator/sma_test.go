package indicator

import "testing"

func TestSMA_Calculate(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15}

	sma := SMA(prices, 3)

	// SMA(3) for [10,11,12,13,14,15]:
	// [0] = (10+11+12)/3 = 11
	// [1] = (11+12+13)/3 = 12
	// [2] = (12+13+14)/3 = 13
	// [3] = (13+14+15)/3 = 14
	expected := []float64{11, 12, 13, 14}

	if len(sma) != len(expected) {
		t.Fatalf("expected %d values, got %d", len(expected), len(sma))
	}

	for i, v := range expected {
		if sma[i] != v {
			t.Errorf("sma[%d] = %f, want %f", i, sma[i], v)
		}
	}
}

func TestSMA_NotEnoughData(t *testing.T) {
	prices := []float64{10, 11}
	sma := SMA(prices, 5)

	if len(sma) != 0 {
		t.Errorf("expected empty slice, got %d values", len(sma))
	}
}

func TestLatestSMA(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15}

	got, ok := LatestSMA(prices, 3)
	if !ok {
		t.Fatal("expected a value")
	}
	if got != 14 {
		t.Errorf("LatestSMA = %f, want 14", got)
	}

	if _, ok := LatestSMA(prices, 7); ok {
		t.Error("expected no value for window longer than series")
	}
}

func TestRSI_NotEnoughData(t *testing.T) {
	closes := []float64{1.0, 1.1, 1.2}
	if _, ok := RSI(closes, 14, SmoothingSimple); ok {
		t.Error("expected no value for 3 closes")
	}
}

func TestRSI_AllGainsIs100(t *testing.T) {
	closes := make([]float64, 15)
	for i := range closes {
		closes[i] = 1.0 + float64(i)*0.01
	}

	for _, smoothing := range []Smoothing{SmoothingSimple, SmoothingWilder} {
		rsi, ok := RSI(closes, 14, smoothing)
		if !ok {
			t.Fatalf("%s: expected a value", smoothing)
		}
		if rsi != 100 {
			t.Errorf("%s: RSI = %f, want 100", smoothing, rsi)
		}
	}
}
