package indicator

// Smoothing selects the averaging method for RSI gains and losses.
// One method must be used for every ticker in a run so cross-ticker
// values stay comparable.
type Smoothing string

const (
	SmoothingSimple Smoothing = "simple"
	SmoothingWilder Smoothing = "wilder"
)

// RSI computes the relative strength index over the trailing period
// close-to-close changes. Requires at least period+1 closes; the second
// return value is false when the series is too short.
//
// With SmoothingSimple the average gain and loss are plain means over
// the trailing window. With SmoothingWilder the averages are seeded over
// the first period changes and exponentially smoothed over the rest of
// the series.
func RSI(closes []float64, period int, smoothing Smoothing) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}

	var avgGain, avgLoss float64
	switch smoothing {
	case SmoothingWilder:
		avgGain, avgLoss = wilderAverages(closes, period)
	default:
		avgGain, avgLoss = simpleAverages(closes, period)
	}

	// A window with no losses is fully overbought, not a division.
	if avgLoss == 0 {
		return 100, true
	}

	rs := avgGain / avgLoss
	rsi := 100 - 100/(1+rs)
	if rsi < 0 {
		rsi = 0
	}
	if rsi > 100 {
		rsi = 100
	}
	return rsi, true
}

// simpleAverages means the gains and losses of the trailing period changes.
func simpleAverages(closes []float64, period int) (avgGain, avgLoss float64) {
	start := len(closes) - period - 1
	for i := start + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	return avgGain / float64(period), avgLoss / float64(period)
}

// wilderAverages seeds over the first period changes and smooths the rest.
func wilderAverages(closes []float64, period int) (avgGain, avgLoss float64) {
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}
	return avgGain, avgLoss
}
