package service

import "math"

// The indicator helpers all operate on a chronological close series and
// degrade to the available window when the series is shorter than the
// nominal period, so none of them ever produce NaN.

// sma returns the mean of the last period values.
func sma(values []float64, period int) float64 {
	window := tail(values, period)
	if len(window) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range window {
		sum += v
	}
	return sum / float64(len(window))
}

// emaSeries returns the exponential moving average of values with the
// standard 2/(period+1) smoothing, seeded with the first value.
func emaSeries(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}
	alpha := 2.0 / (float64(period) + 1.0)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// rsi returns the relative strength index over the last period price
// moves. A flat history yields the neutral midpoint.
func rsi(values []float64, period int) float64 {
	if len(values) < 2 {
		return 50
	}
	deltas := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		deltas = append(deltas, values[i]-values[i-1])
	}
	window := tail(deltas, period)

	var gain, loss float64
	for _, d := range window {
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	gain /= float64(len(window))
	loss /= float64(len(window))

	switch {
	case gain == 0 && loss == 0:
		return 50
	case loss == 0:
		return 100
	}
	rs := gain / loss
	return 100 - 100/(1+rs)
}

// macd returns the latest MACD(12,26,9) line and signal line values.
func macd(values []float64) (macdLine, signalLine float64) {
	if len(values) == 0 {
		return 0, 0
	}
	fast := emaSeries(values, 12)
	slow := emaSeries(values, 26)
	diff := make([]float64, len(values))
	for i := range values {
		diff[i] = fast[i] - slow[i]
	}
	signal := emaSeries(diff, 9)
	return diff[len(diff)-1], signal[len(signal)-1]
}

// bollinger returns the numStd-sigma bands around the period moving
// average.
func bollinger(values []float64, period int, numStd float64) (upper, middle, lower float64) {
	window := tail(values, period)
	middle = sma(values, period)
	std := sampleStdDev(window, middle)
	return middle + numStd*std, middle, middle - numStd*std
}

// sampleStdDev is the n-1 standard deviation of window around mean. A
// window of one value has no spread.
func sampleStdDev(window []float64, mean float64) float64 {
	if len(window) < 2 {
		return 0
	}
	var sum float64
	for _, v := range window {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(window)-1))
}

func tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
