package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-signal-pipeline/internal/entity"
	"stock-signal-pipeline/internal/notifier/config"
	"stock-signal-pipeline/pkg/logger"
)

type fakeSignalStore struct {
	mu      sync.Mutex
	signals []entity.TradingSignal
	marked  []int64
	findErr error
	markErr error
}

func (f *fakeSignalStore) FindUnnotified(_ context.Context) ([]entity.TradingSignal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []entity.TradingSignal
	for _, s := range f.signals {
		if !s.Notified {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSignalStore) MarkNotified(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	for i := range f.signals {
		if f.signals[i].ID == id {
			f.signals[i].Notified = true
		}
	}
	f.marked = append(f.marked, id)
	return nil
}

func (f *fakeSignalStore) FindBetween(_ context.Context, start, end time.Time) ([]entity.TradingSignal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []entity.TradingSignal
	for _, s := range f.signals {
		if !s.Timestamp.Before(start) && s.Timestamp.Before(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSignalStore) MarkVerified(_ context.Context, id int64, outcome string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.signals {
		if f.signals[i].ID == id {
			f.signals[i].Verified = true
			f.signals[i].Outcome.String = outcome
			f.signals[i].Outcome.Valid = true
		}
	}
	return nil
}

func (f *fakeSignalStore) markedIDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.marked...)
}

type fakeTransport struct {
	sent     []string
	failures int // fail this many sends before succeeding
}

func (f *fakeTransport) SendMessage(text string) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("transport unavailable")
	}
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeTransport) SendMessages(texts []string) error {
	for _, text := range texts {
		if err := f.SendMessage(text); err != nil {
			return err
		}
	}
	return nil
}

func pendingSignal(id int64, symbol string, createdAt time.Time) entity.TradingSignal {
	return entity.TradingSignal{
		ID:              id,
		Symbol:          symbol,
		Timestamp:       createdAt,
		SignalType:      entity.SignalBuy,
		Confidence:      0.85,
		ClosePrice:      101.5,
		TechnicalSignal: entity.SignalBuy,
		SentimentSignal: entity.SignalBuy,
		Reason:          "Technical indicators point to an uptrend",
	}
}

func newTestGate(t *testing.T, store *fakeSignalStore, transport *fakeTransport, mutate func(*config.Config)) *gateService {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Notification.PollInterval = time.Minute
	cfg.Notification.Timezone = "UTC"
	cfg.Notification.QuietHours = config.QuietHours{Enabled: true, Start: "22:00", End: "07:30"}
	cfg.Notification.Weekend = config.Weekend{Enabled: true, CollectForMonday: true}
	cfg.Notification.SummaryCron = "0 18 * * *"
	if mutate != nil {
		mutate(cfg)
	}

	svc, err := NewGateService(cfg, log, store, transport)
	require.NoError(t, err)

	gate := svc.(*gateService)
	gate.nowFn = func() time.Time { return mondayAt(10, 0) }
	return gate
}

func TestDeliverPendingMarksAfterTransportSuccess(t *testing.T) {
	store := &fakeSignalStore{signals: []entity.TradingSignal{
		pendingSignal(1, "BBCA", mondayAt(9, 0)),
		pendingSignal(2, "BBRI", mondayAt(9, 30)),
	}}
	transport := &fakeTransport{}
	gate := newTestGate(t, store, transport, nil)

	gate.DeliverPending(context.Background())

	require.Len(t, transport.sent, 2)
	assert.Equal(t, []int64{1, 2}, store.marked)
	assert.Contains(t, transport.sent[0], "BBCA")
	assert.Contains(t, transport.sent[0], "#Signal")
}

func TestDeliverPendingRetriesAfterTransportFailure(t *testing.T) {
	store := &fakeSignalStore{signals: []entity.TradingSignal{
		pendingSignal(1, "BBCA", mondayAt(9, 0)),
	}}
	transport := &fakeTransport{failures: 1}
	gate := newTestGate(t, store, transport, nil)

	gate.DeliverPending(context.Background())
	assert.Empty(t, store.marked)
	assert.False(t, store.signals[0].Notified)

	// Next cycle the transport is healthy again.
	gate.DeliverPending(context.Background())
	assert.Equal(t, []int64{1}, store.marked)
}

func TestDeliverPendingMarkFailureDoesNotUnsend(t *testing.T) {
	store := &fakeSignalStore{
		signals: []entity.TradingSignal{pendingSignal(1, "BBCA", mondayAt(9, 0))},
		markErr: errors.New("store unavailable"),
	}
	transport := &fakeTransport{}
	gate := newTestGate(t, store, transport, nil)

	gate.DeliverPending(context.Background())

	// Message went out but the signal stays pending: duplicate on retry
	// is the accepted failure mode.
	assert.Len(t, transport.sent, 1)
	assert.False(t, store.signals[0].Notified)
}

func TestDeliverPendingWithheldDuringQuietHours(t *testing.T) {
	store := &fakeSignalStore{signals: []entity.TradingSignal{
		pendingSignal(1, "BBCA", mondayAt(9, 0)),
	}}
	transport := &fakeTransport{}
	gate := newTestGate(t, store, transport, nil)
	gate.nowFn = func() time.Time { return mondayAt(23, 0) }

	gate.DeliverPending(context.Background())

	assert.Empty(t, transport.sent)
	assert.Empty(t, store.marked)
}

func TestDeliverPendingDropsWeekendSignalWithoutCollect(t *testing.T) {
	store := &fakeSignalStore{signals: []entity.TradingSignal{
		pendingSignal(1, "BBCA", saturdayAt(11, 0)),
	}}
	transport := &fakeTransport{}
	gate := newTestGate(t, store, transport, func(cfg *config.Config) {
		cfg.Notification.Weekend.CollectForMonday = false
	})
	// Attempted on the following Monday, still dropped.
	gate.nowFn = func() time.Time { return time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC) }

	gate.DeliverPending(context.Background())

	assert.Empty(t, transport.sent)
	assert.False(t, store.signals[0].Notified)
}

func TestDeliverPendingDefersWeekendSignalToMonday(t *testing.T) {
	store := &fakeSignalStore{signals: []entity.TradingSignal{
		pendingSignal(1, "BBCA", saturdayAt(11, 0)),
	}}
	transport := &fakeTransport{}
	gate := newTestGate(t, store, transport, nil)

	gate.nowFn = func() time.Time { return saturdayAt(12, 0) }
	gate.DeliverPending(context.Background())
	assert.Empty(t, transport.sent)

	gate.nowFn = func() time.Time { return time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC) }
	gate.DeliverPending(context.Background())
	assert.Len(t, transport.sent, 1)
	assert.Equal(t, []int64{1}, store.marked)
}

func TestSendDailySummaryGroupsByType(t *testing.T) {
	sell := pendingSignal(3, "TLKM", mondayAt(11, 0))
	sell.SignalType = entity.SignalSell
	store := &fakeSignalStore{signals: []entity.TradingSignal{
		pendingSignal(1, "BBCA", mondayAt(9, 0)),
		pendingSignal(2, "BBRI", mondayAt(10, 30)),
		sell,
		pendingSignal(4, "ASII", tuesdayAt(9, 0)), // next day, excluded
	}}
	transport := &fakeTransport{}
	gate := newTestGate(t, store, transport, nil)

	err := gate.SendDailySummary(context.Background(), mondayAt(18, 0))

	require.NoError(t, err)
	require.Len(t, transport.sent, 1)
	summary := transport.sent[0]
	assert.Contains(t, summary, "Total signals: 3")
	assert.Contains(t, summary, "*BUY* (2)")
	assert.Contains(t, summary, "*SELL* (1)")
	assert.Contains(t, summary, "`TLKM`")
	assert.NotContains(t, summary, "ASII")
}

func TestSendDailySummarySkipsEmptyDay(t *testing.T) {
	store := &fakeSignalStore{}
	transport := &fakeTransport{}
	gate := newTestGate(t, store, transport, nil)

	err := gate.SendDailySummary(context.Background(), mondayAt(18, 0))

	require.NoError(t, err)
	assert.Empty(t, transport.sent)
}

func TestSendDailySummaryPropagatesTransportFailure(t *testing.T) {
	store := &fakeSignalStore{signals: []entity.TradingSignal{
		pendingSignal(1, "BBCA", mondayAt(9, 0)),
	}}
	transport := &fakeTransport{failures: 1}
	gate := newTestGate(t, store, transport, nil)

	err := gate.SendDailySummary(context.Background(), mondayAt(18, 0))

	require.Error(t, err)
}

func TestNewGateServiceRejectsBadConfig(t *testing.T) {
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Notification.Timezone = "UTC"
	cfg.Notification.SummaryCron = "not a cron"
	_, err = NewGateService(cfg, log, &fakeSignalStore{}, &fakeTransport{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summary cron")
}

func TestGateStartStopsOnCancel(t *testing.T) {
	store := &fakeSignalStore{signals: []entity.TradingSignal{
		pendingSignal(1, "BBCA", mondayAt(9, 0)),
	}}
	transport := &fakeTransport{}
	gate := newTestGate(t, store, transport, func(cfg *config.Config) {
		cfg.Notification.PollInterval = 5 * time.Millisecond
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		gate.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(store.markedIDs()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("gate did not stop after cancellation")
	}
}
