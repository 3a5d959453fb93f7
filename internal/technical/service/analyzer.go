package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stock-signal-pipeline/internal/entity"
	"stock-signal-pipeline/internal/technical/config"
	"stock-signal-pipeline/internal/technical/repository"
	"stock-signal-pipeline/pkg/logger"
	"stock-signal-pipeline/pkg/utils"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// AnalyzerService periodically evaluates the indicator set per symbol and
// appends one technical-analysis row each run.
type AnalyzerService interface {
	Start(ctx context.Context)
	AnalyzeAll(ctx context.Context)
	AnalyzeSymbol(ctx context.Context, symbol string) (*entity.TechnicalAnalysis, error)
}

type analyzerService struct {
	cfg     *config.Config
	logger  *logger.Logger
	barRepo repository.MarketBarRepository
	taRepo  repository.TechnicalAnalysisRepository
	nowFn   func() time.Time
}

// NewAnalyzerService creates a new instance of AnalyzerService.
func NewAnalyzerService(
	cfg *config.Config,
	log *logger.Logger,
	barRepo repository.MarketBarRepository,
	taRepo repository.TechnicalAnalysisRepository,
) AnalyzerService {
	return &analyzerService{
		cfg:     cfg,
		logger:  log,
		barRepo: barRepo,
		taRepo:  taRepo,
		nowFn:   time.Now,
	}
}

// Start runs the analysis loop until ctx is cancelled.
func (s *analyzerService) Start(ctx context.Context) {
	s.AnalyzeAll(ctx)

	ticker := time.NewTicker(s.cfg.Analyzer.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Technical analyzer stopping")
			return
		case <-ticker.C:
			s.AnalyzeAll(ctx)
		}
	}
}

// AnalyzeAll runs one analysis pass over every configured symbol.
func (s *analyzerService) AnalyzeAll(ctx context.Context) {
	for _, symbol := range s.cfg.Analyzer.Symbols {
		if !utils.ShouldContinue(ctx, s.logger) {
			return
		}
		if _, err := s.AnalyzeSymbol(ctx, symbol); err != nil {
			s.logger.Error("Failed to analyze symbol", logger.ErrorField(err), logger.StringField("symbol", symbol))
		}
	}
}

// AnalyzeSymbol computes the indicator votes for one symbol and persists
// the resulting row. Symbols without enough bars are skipped with a
// warning, returning nil without error.
func (s *analyzerService) AnalyzeSymbol(ctx context.Context, symbol string) (*entity.TechnicalAnalysis, error) {
	now := s.nowFn()
	since := now.AddDate(0, 0, -s.cfg.Analyzer.LookbackDays)
	bars, err := s.barRepo.FindSince(ctx, symbol, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load market data: %w", err)
	}
	if len(bars) < s.cfg.Analyzer.MinBars {
		s.logger.Warn("Insufficient market data for analysis",
			logger.StringField("symbol", symbol),
			logger.IntField("bars", len(bars)),
			logger.IntField("min_bars", s.cfg.Analyzer.MinBars))
		return nil, nil
	}

	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}

	votes, indicators := evaluateVotes(closes)
	signal, strength, drivers := tallyVotes(votes)

	indicatorsJSON, err := json.Marshal(indicators)
	if err != nil {
		return nil, fmt.Errorf("failed to encode indicators: %w", err)
	}

	analysis := &entity.TechnicalAnalysis{
		Symbol:         symbol,
		Timestamp:      now,
		ClosePrice:     closes[len(closes)-1],
		SMA20:          indicators["sma_20"],
		SMA50:          indicators["sma_50"],
		RSI:            indicators["rsi"],
		MACDLine:       indicators["macd_line"],
		SignalLine:     indicators["signal_line"],
		OverallSignal:  signal,
		SignalStrength: strength,
		Drivers:        pq.StringArray(drivers),
		Indicators:     datatypes.JSON(indicatorsJSON),
	}
	if err := s.taRepo.Create(ctx, analysis); err != nil {
		return nil, fmt.Errorf("failed to persist analysis: %w", err)
	}

	s.logger.Info("Technical analysis completed",
		logger.StringField("symbol", symbol),
		logger.StringField("overall_signal", signal),
		logger.Float64Field("signal_strength", strength))
	return analysis, nil
}

type indicatorVote struct {
	name string
	vote string
}

// evaluateVotes computes every indicator and its directional vote for a
// chronological close series.
func evaluateVotes(closes []float64) ([]indicatorVote, map[string]float64) {
	latest := closes[len(closes)-1]
	sma20 := sma(closes, 20)
	sma50 := sma(closes, 50)
	ema12Series := emaSeries(closes, 12)
	ema26Series := emaSeries(closes, 26)
	ema12 := ema12Series[len(ema12Series)-1]
	ema26 := ema26Series[len(ema26Series)-1]
	rsi14 := rsi(closes, 14)
	macdLine, signalLine := macd(closes)
	upper, middle, lower := bollinger(closes, 20, 2)

	votes := []indicatorVote{
		{name: "sma_crossover", vote: crossoverVote(sma20, sma50)},
		{name: "ema_crossover", vote: crossoverVote(ema12, ema26)},
		{name: "rsi", vote: rsiVote(rsi14)},
		{name: "macd", vote: crossoverVote(macdLine, signalLine)},
		{name: "bollinger", vote: bollingerVote(latest, upper, lower)},
	}

	indicators := map[string]float64{
		"sma_20":      sma20,
		"sma_50":      sma50,
		"ema_12":      ema12,
		"ema_26":      ema26,
		"rsi":         rsi14,
		"macd_line":   macdLine,
		"signal_line": signalLine,
		"upper_band":  upper,
		"middle_band": middle,
		"lower_band":  lower,
	}
	return votes, indicators
}

func crossoverVote(fast, slow float64) string {
	if fast > slow {
		return entity.SignalBuy
	}
	return entity.SignalSell
}

func rsiVote(value float64) string {
	switch {
	case value < 30:
		return entity.SignalBuy
	case value > 70:
		return entity.SignalSell
	default:
		return entity.SignalNeutral
	}
}

func bollingerVote(latestClose, upper, lower float64) string {
	switch {
	case latestClose > upper:
		return entity.SignalSell
	case latestClose < lower:
		return entity.SignalBuy
	default:
		return entity.SignalNeutral
	}
}

// tallyVotes reduces the votes to a majority direction, its strength as
// the winning share of all votes, and the names of the agreeing
// indicators. A tie is NEUTRAL at 0.5 with no drivers.
func tallyVotes(votes []indicatorVote) (string, float64, []string) {
	var buy, sell int
	for _, v := range votes {
		switch v.vote {
		case entity.SignalBuy:
			buy++
		case entity.SignalSell:
			sell++
		}
	}

	switch {
	case buy > sell:
		return entity.SignalBuy, float64(buy) / float64(len(votes)), driverNames(votes, entity.SignalBuy)
	case sell > buy:
		return entity.SignalSell, float64(sell) / float64(len(votes)), driverNames(votes, entity.SignalSell)
	default:
		return entity.SignalNeutral, 0.5, nil
	}
}

func driverNames(votes []indicatorVote, direction string) []string {
	var names []string
	for _, v := range votes {
		if v.vote == direction {
			names = append(names, v.name)
		}
	}
	return names
}
