package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stock-signal-pipeline/internal/entity"
	"stock-signal-pipeline/internal/monitor/repository"
	"stock-signal-pipeline/pkg/logger"
)

const defaultSignalLimit = 20

// ErrInvalidOutcome is returned when an outcome value is neither SUCCESS
// nor FAILURE.
var ErrInvalidOutcome = errors.New("invalid outcome")

// SignalService exposes recent signals and the outcome hook to the ops
// API. The outcome evaluator itself runs outside this system; it posts
// its verdicts through here.
type SignalService interface {
	Recent(ctx context.Context, limit int) ([]entity.TradingSignal, error)
	SetOutcome(ctx context.Context, id int64, outcome string) error
}

// NewSignalService creates a new instance of SignalService.
func NewSignalService(signalRepo repository.TradingSignalRepository, log *logger.Logger) SignalService {
	return &signalService{signalRepo: signalRepo, logger: log}
}

type signalService struct {
	signalRepo repository.TradingSignalRepository
	logger     *logger.Logger
}

// Recent returns up to limit signals, newest first.
func (s *signalService) Recent(ctx context.Context, limit int) ([]entity.TradingSignal, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultSignalLimit
	}
	return s.signalRepo.FindRecent(ctx, limit)
}

// SetOutcome validates and records the evaluated outcome for one signal.
func (s *signalService) SetOutcome(ctx context.Context, id int64, outcome string) error {
	outcome = strings.ToUpper(strings.TrimSpace(outcome))
	if outcome != entity.OutcomeSuccess && outcome != entity.OutcomeFailure {
		return fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome)
	}
	if err := s.signalRepo.MarkVerified(ctx, id, outcome); err != nil {
		return err
	}
	s.logger.Info("Signal outcome recorded",
		logger.Int64Field("signal_id", id),
		logger.StringField("outcome", outcome))
	return nil
}
