package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	assert.InDelta(t, 4.0, sma(values, 3), 1e-9)
	assert.InDelta(t, 3.0, sma(values, 10), 1e-9, "short series falls back to the full window")
	assert.Equal(t, 0.0, sma(nil, 3))
}

func TestEMASeries(t *testing.T) {
	// period 3 gives alpha 0.5, so the series is easy to follow by hand.
	series := emaSeries([]float64{10, 11, 12}, 3)

	assert.Len(t, series, 3)
	assert.InDelta(t, 10.0, series[0], 1e-9)
	assert.InDelta(t, 10.5, series[1], 1e-9)
	assert.InDelta(t, 11.25, series[2], 1e-9)
}

func TestRSI(t *testing.T) {
	t.Run("all gains saturate at 100", func(t *testing.T) {
		assert.InDelta(t, 100.0, rsi([]float64{1, 2, 3, 4, 5}, 14), 1e-9)
	})

	t.Run("all losses bottom out at 0", func(t *testing.T) {
		assert.InDelta(t, 0.0, rsi([]float64{5, 4, 3, 2, 1}, 14), 1e-9)
	})

	t.Run("flat series is the neutral midpoint", func(t *testing.T) {
		assert.InDelta(t, 50.0, rsi([]float64{3, 3, 3, 3}, 14), 1e-9)
		assert.InDelta(t, 50.0, rsi([]float64{3}, 14), 1e-9)
	})

	t.Run("mixed moves", func(t *testing.T) {
		// deltas +1, +1, -1: avg gain 2/3, avg loss 1/3, RS 2.
		assert.InDelta(t, 100.0-100.0/3.0, rsi([]float64{1, 2, 3, 2}, 14), 1e-9)
	})
}

func TestMACD(t *testing.T) {
	t.Run("constant series has no divergence", func(t *testing.T) {
		macdLine, signalLine := macd([]float64{7, 7, 7, 7, 7})
		assert.InDelta(t, 0.0, macdLine, 1e-9)
		assert.InDelta(t, 0.0, signalLine, 1e-9)
	})

	t.Run("sustained uptrend keeps the macd line above its signal", func(t *testing.T) {
		closes := make([]float64, 60)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}
		macdLine, signalLine := macd(closes)
		assert.Greater(t, macdLine, 0.0)
		assert.Greater(t, macdLine, signalLine)
	})
}

func TestBollinger(t *testing.T) {
	t.Run("constant series collapses the bands", func(t *testing.T) {
		upper, middle, lower := bollinger([]float64{5, 5, 5, 5}, 3, 2)
		assert.InDelta(t, 5.0, upper, 1e-9)
		assert.InDelta(t, 5.0, middle, 1e-9)
		assert.InDelta(t, 5.0, lower, 1e-9)
	})

	t.Run("two sigma around the window mean", func(t *testing.T) {
		// window {1,2,3}: mean 2, sample std 1.
		upper, middle, lower := bollinger([]float64{1, 2, 3}, 3, 2)
		assert.InDelta(t, 4.0, upper, 1e-9)
		assert.InDelta(t, 2.0, middle, 1e-9)
		assert.InDelta(t, 0.0, lower, 1e-9)
	})
}

func TestTallyVotes(t *testing.T) {
	vote := func(name, direction string) indicatorVote {
		return indicatorVote{name: name, vote: direction}
	}

	t.Run("buy majority", func(t *testing.T) {
		signal, strength, drivers := tallyVotes([]indicatorVote{
			vote("sma_crossover", "BUY"),
			vote("ema_crossover", "BUY"),
			vote("rsi", "SELL"),
			vote("macd", "BUY"),
			vote("bollinger", "NEUTRAL"),
		})
		assert.Equal(t, "BUY", signal)
		assert.InDelta(t, 0.6, strength, 1e-9)
		assert.Equal(t, []string{"sma_crossover", "ema_crossover", "macd"}, drivers)
	})

	t.Run("tie is neutral at half strength", func(t *testing.T) {
		signal, strength, drivers := tallyVotes([]indicatorVote{
			vote("sma_crossover", "BUY"),
			vote("ema_crossover", "SELL"),
			vote("rsi", "BUY"),
			vote("macd", "SELL"),
			vote("bollinger", "NEUTRAL"),
		})
		assert.Equal(t, "NEUTRAL", signal)
		assert.Equal(t, 0.5, strength)
		assert.Nil(t, drivers)
	})
}
