package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-signal-pipeline/internal/entity"
	"stock-signal-pipeline/internal/technical/config"
	"stock-signal-pipeline/pkg/logger"
)

type fakeBarRepo struct {
	bars       []entity.MarketBar
	lastSince  time.Time
	failSymbol string
}

func (f *fakeBarRepo) FindSince(_ context.Context, symbol string, since time.Time) ([]entity.MarketBar, error) {
	f.lastSince = since
	if f.failSymbol != "" && symbol == f.failSymbol {
		return nil, errors.New("store unavailable")
	}
	return f.bars, nil
}

type fakeAnalysisRepo struct {
	created []entity.TechnicalAnalysis
	err     error
}

func (f *fakeAnalysisRepo) Create(_ context.Context, analysis *entity.TechnicalAnalysis) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *analysis)
	return nil
}

func barSeries(closes []float64) []entity.MarketBar {
	base := time.Date(2025, 3, 3, 16, 0, 0, 0, time.UTC)
	bars := make([]entity.MarketBar, 0, len(closes))
	for i, c := range closes {
		bars = append(bars, entity.MarketBar{
			Symbol:    "BBCA",
			Timestamp: base.AddDate(0, 0, i),
			Open:      c - 0.5,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000,
		})
	}
	return bars
}

func trendingCloses(start, step float64, n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + step*float64(i)
	}
	return closes
}

func newTestAnalyzer(t *testing.T, bars *fakeBarRepo, analyses *fakeAnalysisRepo) *analyzerService {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Analyzer.Symbols = []string{"BBCA"}
	cfg.Analyzer.PollInterval = time.Minute
	cfg.Analyzer.LookbackDays = 90
	cfg.Analyzer.MinBars = 30

	svc := NewAnalyzerService(cfg, log, bars, analyses).(*analyzerService)
	svc.nowFn = func() time.Time {
		return time.Date(2025, 6, 2, 16, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestAnalyzeSymbolUptrend(t *testing.T) {
	bars := &fakeBarRepo{bars: barSeries(trendingCloses(100, 1, 60))}
	analyses := &fakeAnalysisRepo{}
	svc := newTestAnalyzer(t, bars, analyses)

	analysis, err := svc.AnalyzeSymbol(context.Background(), "BBCA")

	require.NoError(t, err)
	require.NotNil(t, analysis)
	require.Len(t, analyses.created, 1)

	// A steady climb carries the moving averages and MACD, while RSI
	// saturates overbought and votes the other way.
	assert.Equal(t, entity.SignalBuy, analysis.OverallSignal)
	assert.InDelta(t, 0.6, analysis.SignalStrength, 1e-9)
	assert.ElementsMatch(t, []string{"sma_crossover", "ema_crossover", "macd"}, []string(analysis.Drivers))
	assert.Equal(t, 159.0, analysis.ClosePrice)
	assert.Greater(t, analysis.SMA20, analysis.SMA50)
	assert.Equal(t, 100.0, analysis.RSI)

	var indicators map[string]float64
	require.NoError(t, json.Unmarshal(analysis.Indicators, &indicators))
	assert.Contains(t, indicators, "upper_band")
	assert.Contains(t, indicators, "ema_12")
}

func TestAnalyzeSymbolDowntrend(t *testing.T) {
	bars := &fakeBarRepo{bars: barSeries(trendingCloses(200, -1, 60))}
	analyses := &fakeAnalysisRepo{}
	svc := newTestAnalyzer(t, bars, analyses)

	analysis, err := svc.AnalyzeSymbol(context.Background(), "BBCA")

	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.Equal(t, entity.SignalSell, analysis.OverallSignal)
	assert.InDelta(t, 0.6, analysis.SignalStrength, 1e-9)
	assert.Less(t, analysis.SMA20, analysis.SMA50)
}

func TestAnalyzeSymbolSkipsThinHistory(t *testing.T) {
	bars := &fakeBarRepo{bars: barSeries(trendingCloses(100, 1, 10))}
	analyses := &fakeAnalysisRepo{}
	svc := newTestAnalyzer(t, bars, analyses)

	analysis, err := svc.AnalyzeSymbol(context.Background(), "BBCA")

	require.NoError(t, err)
	assert.Nil(t, analysis)
	assert.Empty(t, analyses.created)
}

func TestAnalyzeSymbolLookbackWindow(t *testing.T) {
	bars := &fakeBarRepo{bars: barSeries(trendingCloses(100, 1, 60))}
	svc := newTestAnalyzer(t, bars, &fakeAnalysisRepo{})

	_, err := svc.AnalyzeSymbol(context.Background(), "BBCA")

	require.NoError(t, err)
	want := time.Date(2025, 3, 4, 16, 0, 0, 0, time.UTC) // 90 days before the pinned clock
	assert.Equal(t, want, bars.lastSince)
}

func TestAnalyzeSymbolPersistFailure(t *testing.T) {
	bars := &fakeBarRepo{bars: barSeries(trendingCloses(100, 1, 60))}
	analyses := &fakeAnalysisRepo{err: errors.New("store unavailable")}
	svc := newTestAnalyzer(t, bars, analyses)

	_, err := svc.AnalyzeSymbol(context.Background(), "BBCA")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist")
}

func TestAnalyzeAllContinuesPastFailingSymbol(t *testing.T) {
	bars := &fakeBarRepo{bars: barSeries(trendingCloses(100, 1, 60)), failSymbol: "BBCA"}
	analyses := &fakeAnalysisRepo{}
	svc := newTestAnalyzer(t, bars, analyses)
	svc.cfg.Analyzer.Symbols = []string{"BBCA", "BBRI"}

	svc.AnalyzeAll(context.Background())

	require.Len(t, analyses.created, 1)
	assert.Equal(t, "BBRI", analyses.created[0].Symbol)
}
