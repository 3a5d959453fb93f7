package service

import (
	"context"
	"fmt"
	"time"

	"stock-signal-pipeline/internal/entity"
	"stock-signal-pipeline/internal/signal/config"
	"stock-signal-pipeline/internal/signal/repository"
	"stock-signal-pipeline/pkg/logger"
	"stock-signal-pipeline/pkg/utils"
)

// FusionService periodically reconciles the latest technical analysis and
// recent sentiment per symbol into trading signals.
type FusionService interface {
	Start(ctx context.Context)
	Evaluate(ctx context.Context)
	EvaluateSymbol(ctx context.Context, symbol string) (*entity.TradingSignal, error)
}

type fusionService struct {
	cfg           *config.Config
	logger        *logger.Logger
	technicalRepo repository.TechnicalAnalysisRepository
	sentimentRepo repository.SentimentResultRepository
	signalRepo    repository.TradingSignalRepository
	nowFn         func() time.Time
}

// NewFusionService creates a new instance of FusionService.
func NewFusionService(
	cfg *config.Config,
	log *logger.Logger,
	technicalRepo repository.TechnicalAnalysisRepository,
	sentimentRepo repository.SentimentResultRepository,
	signalRepo repository.TradingSignalRepository,
) FusionService {
	return &fusionService{
		cfg:           cfg,
		logger:        log,
		technicalRepo: technicalRepo,
		sentimentRepo: sentimentRepo,
		signalRepo:    signalRepo,
		nowFn:         time.Now,
	}
}

// Start runs the evaluation loop until ctx is cancelled.
func (s *fusionService) Start(ctx context.Context) {
	s.Evaluate(ctx)

	ticker := time.NewTicker(s.cfg.Fusion.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Signal fusion service stopping")
			return
		case <-ticker.C:
			s.Evaluate(ctx)
		}
	}
}

// Evaluate runs one fusion pass over every configured symbol. Per-symbol
// failures are logged and do not stop the pass.
func (s *fusionService) Evaluate(ctx context.Context) {
	emitted := 0
	for _, symbol := range s.cfg.Fusion.Symbols {
		if !utils.ShouldContinue(ctx, s.logger) {
			return
		}
		signal, err := s.EvaluateSymbol(ctx, symbol)
		if err != nil {
			s.logger.Error("Failed to evaluate symbol", logger.ErrorField(err), logger.StringField("symbol", symbol))
			continue
		}
		if signal != nil {
			emitted++
		}
	}
	s.logger.Debug("Fusion pass completed",
		logger.IntField("symbols", len(s.cfg.Fusion.Symbols)),
		logger.IntField("signals_emitted", emitted))
}

// EvaluateSymbol fuses the freshest inputs for one symbol. It returns the
// persisted signal, or nil when the symbol is skipped (no technical
// analysis yet) or the combined strength stays under the confidence
// threshold.
func (s *fusionService) EvaluateSymbol(ctx context.Context, symbol string) (*entity.TradingSignal, error) {
	analysis, err := s.technicalRepo.FindLatestBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to load technical analysis: %w", err)
	}
	if analysis == nil {
		// Technical analysis is the mandatory input. Sentiment alone
		// never produces a signal.
		s.logger.Debug("No technical analysis yet, skipping symbol", logger.StringField("symbol", symbol))
		return nil, nil
	}

	recent, err := s.sentimentRepo.FindRecentBySymbol(ctx, symbol, s.cfg.Fusion.SentimentWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentiment window: %w", err)
	}
	sentiment := aggregateSentiment(recent)

	signalType, strength := fuseSignals(analysis.OverallSignal, analysis.SignalStrength, sentiment.Signal, sentiment.Strength)
	if strength < s.cfg.Fusion.ConfidenceThreshold {
		s.logger.Debug("Combined strength under threshold, dropping",
			logger.StringField("symbol", symbol),
			logger.StringField("signal_type", signalType),
			logger.Float64Field("strength", strength))
		return nil, nil
	}

	signal := &entity.TradingSignal{
		Symbol:          symbol,
		Timestamp:       s.nowFn(),
		SignalType:      signalType,
		Confidence:      strength,
		ClosePrice:      analysis.ClosePrice,
		TechnicalSignal: analysis.OverallSignal,
		SentimentSignal: sentiment.Signal,
		Reason:          buildReason(analysis, sentiment),
	}
	if err := s.signalRepo.Create(ctx, signal); err != nil {
		return nil, fmt.Errorf("failed to persist trading signal: %w", err)
	}

	s.logger.Info("Trading signal created",
		logger.StringField("symbol", symbol),
		logger.StringField("signal_type", signal.SignalType),
		logger.Float64Field("confidence", signal.Confidence),
		logger.StringField("technical", analysis.OverallSignal),
		logger.StringField("sentiment", sentiment.Signal))
	return signal, nil
}
