package service

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"stock-signal-pipeline/internal/entity"
	"stock-signal-pipeline/internal/sentiment/config"
	"stock-signal-pipeline/internal/sentiment/repository"
	"stock-signal-pipeline/pkg/checkpoint"
	"stock-signal-pipeline/pkg/logger"
	"stock-signal-pipeline/pkg/utils"
)

// State is the processor lifecycle state.
type State int32

const (
	// StateRunning means batches are being consumed.
	StateRunning State = iota
	// StatePaused means the loop is parked, polling for a resume.
	StatePaused
	// StateShuttingDown is terminal: flush the checkpoint and return.
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "RUNNING"
	case StatePaused:
		return "PAUSED"
	case StateShuttingDown:
		return "SHUTTING_DOWN"
	default:
		return "UNKNOWN"
	}
}

// ProcessorService is the checkpointed sentiment stream processor. Pause,
// resume and shutdown requests arrive asynchronously and take effect at
// batch boundaries only; an item is never abandoned halfway.
type ProcessorService interface {
	Run(ctx context.Context) error
	Pause()
	Resume()
	Shutdown()
	State() State
}

// NewProcessorService creates a new sentiment processor.
func NewProcessorService(
	cfg *config.Config,
	log *logger.Logger,
	newsRepo repository.NewsRepository,
	resultRepo repository.SentimentResultRepository,
	analyzer repository.SentimentAnalyzerRepository,
	checkpoints *checkpoint.Store,
) ProcessorService {
	return &processorService{
		cfg:         cfg,
		logger:      log,
		newsRepo:    newsRepo,
		resultRepo:  resultRepo,
		analyzer:    analyzer,
		checkpoints: checkpoints,
		nowFn:       time.Now,
	}
}

type processorService struct {
	cfg         *config.Config
	logger      *logger.Logger
	newsRepo    repository.NewsRepository
	resultRepo  repository.SentimentResultRepository
	analyzer    repository.SentimentAnalyzerRepository
	checkpoints *checkpoint.Store
	state       atomic.Int32
	nowFn       func() time.Time
}

// cycleOutcome tells the run loop how long to sleep before the next fetch.
type cycleOutcome int

const (
	cycleIdle cycleOutcome = iota
	cycleProgress
	cycleStalled
	cycleError
)

// Run consumes the news stream until the context is cancelled or Shutdown
// is called. It loads the checkpoint once at startup and flushes it after
// every batch, on pause and on shutdown.
func (p *processorService) Run(ctx context.Context) error {
	st, err := p.checkpoints.Load()
	if err != nil {
		p.logger.Warn("checkpoint unreadable, starting from zero", logger.ErrorField(err))
	}
	cursor := st.LastProcessedNewsID

	p.logger.Info("sentiment processor started",
		logger.Int64Field("resume_after_news_id", cursor),
		logger.StringField("checkpoint", p.checkpoints.Path()),
		logger.IntField("batch_size", p.cfg.Processor.BatchSize),
	)

	pauseFlushed := false
	for {
		if ctx.Err() != nil {
			p.Shutdown()
		}

		switch p.State() {
		case StateShuttingDown:
			p.persistCheckpoint(cursor)
			p.logger.Info("sentiment processor stopped",
				logger.Int64Field("last_processed_news_id", cursor))
			return nil
		case StatePaused:
			if !pauseFlushed {
				p.persistCheckpoint(cursor)
				p.logger.Info("sentiment processor paused",
					logger.Int64Field("last_processed_news_id", cursor))
				pauseFlushed = true
			}
			utils.SleepContext(ctx, p.cfg.Processor.PausePollInterval)
			continue
		}
		pauseFlushed = false

		var outcome cycleOutcome
		cursor, outcome = p.runCycle(ctx, cursor)

		switch outcome {
		case cycleIdle:
			p.logger.Debug("no unprocessed news, idling")
			utils.SleepContext(ctx, p.cfg.Processor.IdleInterval)
		case cycleProgress:
			utils.SleepContext(ctx, p.cfg.Processor.BatchInterval)
		case cycleStalled, cycleError:
			utils.SleepContext(ctx, p.cfg.Processor.ErrorInterval)
		}
	}
}

// runCycle fetches and processes one batch. It returns the new cursor: the
// highest news id whose score was durably written. The cursor never moves
// past a failed item; scoring stops at the first failure so the item is
// retried on the next cycle.
func (p *processorService) runCycle(ctx context.Context, cursor int64) (int64, cycleOutcome) {
	items, err := p.newsRepo.FindUnprocessed(ctx, cursor, p.cfg.Processor.BatchSize)
	if err != nil {
		p.logger.Error("failed to fetch unprocessed news", logger.ErrorField(err))
		return cursor, cycleError
	}
	if len(items) == 0 {
		return cursor, cycleIdle
	}

	results := make([]entity.SentimentResult, 0, len(items))
	for _, item := range items {
		score, err := p.analyzer.Score(ctx, item.ID, scoringText(item))
		if err != nil {
			p.logger.Error("failed to score news item, stopping batch",
				logger.Int64Field("news_id", item.ID),
				logger.StringField("symbol", item.Symbol),
				logger.ErrorField(err),
			)
			break
		}
		results = append(results, entity.SentimentResult{
			NewsID:            item.ID,
			Symbol:            item.Symbol,
			Negative:          score.Negative,
			Neutral:           score.Neutral,
			Positive:          score.Positive,
			DominantSentiment: score.Dominant,
			Confidence:        score.Confidence,
			Timestamp:         p.nowFn(),
		})
	}

	if len(results) == 0 {
		return cursor, cycleStalled
	}

	// Results are written before the checkpoint moves; a crash in between
	// re-scores, which the upsert absorbs.
	written := cursor
	for i := range results {
		if err := p.resultRepo.Upsert(ctx, &results[i]); err != nil {
			p.logger.Error("failed to persist sentiment result",
				logger.Int64Field("news_id", results[i].NewsID),
				logger.ErrorField(err),
			)
			if written != cursor {
				p.persistCheckpoint(written)
			}
			if written == cursor {
				return cursor, cycleError
			}
			return written, cycleError
		}
		written = results[i].NewsID
	}

	p.persistCheckpoint(written)
	p.logger.Info("batch scored",
		logger.IntField("fetched", len(items)),
		logger.IntField("scored", len(results)),
		logger.Int64Field("last_processed_news_id", written),
	)
	return written, cycleProgress
}

func (p *processorService) persistCheckpoint(cursor int64) {
	err := p.checkpoints.Save(checkpoint.State{
		LastProcessedNewsID: cursor,
		LastRun:             p.nowFn(),
	})
	if err != nil {
		// Worst case the next run re-scores a batch; the upsert keeps
		// that harmless.
		p.logger.Warn("failed to persist checkpoint", logger.ErrorField(err))
	}
}

// Pause requests a pause; it takes effect at the next batch boundary.
func (p *processorService) Pause() {
	if p.state.CompareAndSwap(int32(StateRunning), int32(StatePaused)) {
		p.logger.Info("pause requested, takes effect at the next batch boundary")
	}
}

// Resume continues a paused processor.
func (p *processorService) Resume() {
	if p.state.CompareAndSwap(int32(StatePaused), int32(StateRunning)) {
		p.logger.Info("resume requested")
	}
}

// Shutdown requests termination; terminal, a shut-down processor cannot be
// resumed.
func (p *processorService) Shutdown() {
	if old := p.state.Swap(int32(StateShuttingDown)); State(old) != StateShuttingDown {
		p.logger.Info("shutdown requested, takes effect at the next batch boundary")
	}
}

// State reports the current lifecycle state.
func (p *processorService) State() State {
	return State(p.state.Load())
}

func scoringText(item entity.NewsItem) string {
	title := strings.TrimSpace(item.Title)
	summary := strings.TrimSpace(item.Summary)
	if summary == "" {
		return title
	}
	if title == "" {
		return summary
	}
	return title + ". " + summary
}
