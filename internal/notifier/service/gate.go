package service

import (
	"context"
	"fmt"
	"time"

	"stock-signal-pipeline/internal/notifier/config"
	"stock-signal-pipeline/internal/notifier/repository"
	"stock-signal-pipeline/pkg/logger"
	"stock-signal-pipeline/pkg/telegram"
	"stock-signal-pipeline/pkg/utils"

	"github.com/robfig/cron/v3"
)

// GateService delivers pending trading signals through the notification
// transport, honouring the suppression policy, and sends the daily
// summary on its cron schedule.
type GateService interface {
	Start(ctx context.Context)
	DeliverPending(ctx context.Context)
	SendDailySummary(ctx context.Context, day time.Time) error
}

type gateService struct {
	cfg        *config.Config
	logger     *logger.Logger
	signalRepo repository.TradingSignalRepository
	notifier   telegram.Notifier
	policy     *suppressionPolicy
	schedule   cron.Schedule
	location   *time.Location
	nowFn      func() time.Time
}

// NewGateService creates a new instance of GateService. It fails fast on
// an unparseable timezone, quiet-hours window, or summary cron.
func NewGateService(
	cfg *config.Config,
	log *logger.Logger,
	signalRepo repository.TradingSignalRepository,
	notifier telegram.Notifier,
) (GateService, error) {
	loc, err := utils.LoadLocation(cfg.Notification.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Notification.Timezone, err)
	}
	policy, err := newSuppressionPolicy(cfg.Notification, loc)
	if err != nil {
		return nil, err
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(cfg.Notification.SummaryCron)
	if err != nil {
		return nil, fmt.Errorf("invalid summary cron %q: %w", cfg.Notification.SummaryCron, err)
	}
	return &gateService{
		cfg:        cfg,
		logger:     log,
		signalRepo: signalRepo,
		notifier:   notifier,
		policy:     policy,
		schedule:   schedule,
		location:   loc,
		nowFn:      time.Now,
	}, nil
}

// Start runs the delivery loop until ctx is cancelled. The daily summary
// fires on the first poll at or after its scheduled time.
func (s *gateService) Start(ctx context.Context) {
	s.DeliverPending(ctx)
	nextSummary := s.schedule.Next(s.nowFn().In(s.location))

	ticker := time.NewTicker(s.cfg.Notification.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Notification gate stopping")
			return
		case <-ticker.C:
			s.DeliverPending(ctx)

			now := s.nowFn().In(s.location)
			if !now.Before(nextSummary) {
				if err := s.SendDailySummary(ctx, now); err != nil {
					s.logger.Error("Failed to send daily summary", logger.ErrorField(err))
				}
				nextSummary = s.schedule.Next(now)
			}
		}
	}
}

// DeliverPending runs one delivery cycle over every un-notified signal.
// A signal is marked notified only after the transport accepted it, so
// transport failures leave it pending for the next cycle.
func (s *gateService) DeliverPending(ctx context.Context) {
	signals, err := s.signalRepo.FindUnnotified(ctx)
	if err != nil {
		s.logger.Error("Failed to load pending signals", logger.ErrorField(err))
		return
	}
	if len(signals) == 0 {
		return
	}

	now := s.nowFn()
	delivered := 0
	for _, signal := range signals {
		if ctx.Err() != nil {
			return
		}

		verdict := s.policy.Evaluate(now, signal.Timestamp)
		if verdict != VerdictDeliver {
			s.logger.Debug("Signal suppressed",
				logger.Int64Field("signal_id", signal.ID),
				logger.StringField("symbol", signal.Symbol),
				logger.StringField("verdict", verdict.String()))
			continue
		}

		if err := s.notifier.SendMessage(telegram.FormatTradingSignalMessage(&signal)); err != nil {
			s.logger.Error("Failed to deliver signal, will retry next cycle",
				logger.ErrorField(err),
				logger.Int64Field("signal_id", signal.ID))
			continue
		}
		if err := s.signalRepo.MarkNotified(ctx, signal.ID); err != nil {
			// The message is already out; the next cycle will re-send it.
			s.logger.Error("Signal delivered but not marked notified, duplicate send likely",
				logger.ErrorField(err),
				logger.Int64Field("signal_id", signal.ID))
			continue
		}
		delivered++
	}

	s.logger.Info("Delivery cycle completed",
		logger.IntField("pending", len(signals)),
		logger.IntField("delivered", delivered))
}

// SendDailySummary aggregates the signals created on day's calendar date
// and sends one grouped report. Days without signals send nothing.
func (s *gateService) SendDailySummary(ctx context.Context, day time.Time) error {
	start, end := utils.DayBounds(day.In(s.location))
	signals, err := s.signalRepo.FindBetween(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to load signals for summary: %w", err)
	}
	if len(signals) == 0 {
		s.logger.Info("No signals for the day, skipping summary")
		return nil
	}

	messages := telegram.FormatDailySummaryMessages(start, signals)
	if err := s.notifier.SendMessages(messages); err != nil {
		return fmt.Errorf("failed to send daily summary: %w", err)
	}

	s.logger.Info("Daily summary sent",
		logger.IntField("signals", len(signals)),
		logger.IntField("parts", len(messages)))
	return nil
}
