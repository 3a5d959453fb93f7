package telegram

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-signal-pipeline/internal/entity"
)

func TestSignalEmoji(t *testing.T) {
	assert.Equal(t, "🟢", SignalEmoji(entity.SignalBuy))
	assert.Equal(t, "🔴", SignalEmoji(entity.SignalSell))
	assert.Equal(t, "⚪️", SignalEmoji(entity.SignalNeutral))
	assert.Equal(t, "⚪️", SignalEmoji("HOLD"))
}

func TestFormatTradingSignalMessage(t *testing.T) {
	signal := &entity.TradingSignal{
		Symbol:          "BBCA",
		Timestamp:       time.Date(2025, 3, 7, 9, 30, 0, 0, time.UTC),
		SignalType:      entity.SignalBuy,
		Confidence:      0.85,
		ClosePrice:      9875.5,
		TechnicalSignal: entity.SignalBuy,
		SentimentSignal: entity.SignalBuy,
		Reason:          "Technical indicators show buy and recent news sentiment is positive",
	}

	msg := FormatTradingSignalMessage(signal)

	assert.Contains(t, msg, "🟢 *Trading Signal: BBCA*")
	assert.Contains(t, msg, "*Confidence:* 85%")
	assert.Contains(t, msg, "*Price:* $9875.50")
	assert.Contains(t, msg, "• Technical: BUY")
	assert.Contains(t, msg, "• Sentiment: BUY")
	assert.Contains(t, msg, "_Technical indicators show buy and recent news sentiment is positive_")
	assert.Contains(t, msg, "#Signal #BBCA #buy")
}

func TestFormatTradingSignalMessageOmitsZeroPrice(t *testing.T) {
	signal := &entity.TradingSignal{
		Symbol:          "TLKM",
		Timestamp:       time.Date(2025, 3, 7, 9, 30, 0, 0, time.UTC),
		SignalType:      entity.SignalSell,
		Confidence:      0.72,
		TechnicalSignal: entity.SignalSell,
		SentimentSignal: entity.SignalNeutral,
	}

	msg := FormatTradingSignalMessage(signal)

	assert.Contains(t, msg, "🔴 *Trading Signal: TLKM*")
	assert.NotContains(t, msg, "*Price:*")
	assert.NotContains(t, msg, "*Reason:*")
	assert.Contains(t, msg, "#Signal #TLKM #sell")
}

func TestFormatDailySummaryMessagesGroupsByDirection(t *testing.T) {
	day := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	signals := []entity.TradingSignal{
		{Symbol: "BBCA", SignalType: entity.SignalBuy, Confidence: 0.85, Timestamp: day.Add(9 * time.Hour)},
		{Symbol: "TLKM", SignalType: entity.SignalSell, Confidence: 0.72, Timestamp: day.Add(10 * time.Hour)},
		{Symbol: "ASII", SignalType: entity.SignalBuy, Confidence: 0.9, Timestamp: day.Add(11 * time.Hour)},
	}

	messages := FormatDailySummaryMessages(day, signals)
	require.Len(t, messages, 1)
	msg := messages[0]

	assert.Contains(t, msg, "*Daily Signal Summary 07 Mar 2025*")
	assert.Contains(t, msg, "Total signals: 3")
	assert.Contains(t, msg, "🟢 *BUY* (2)")
	assert.Contains(t, msg, "🔴 *SELL* (1)")
	assert.NotContains(t, msg, "*NEUTRAL*")
	assert.Contains(t, msg, "• `BBCA` 85% at 09:00")
	assert.Contains(t, msg, "• `TLKM` 72% at 10:00")

	buyAt := strings.Index(msg, "*BUY*")
	sellAt := strings.Index(msg, "*SELL*")
	assert.Less(t, buyAt, sellAt)
}

func TestFormatDailySummaryMessagesSplitsLongDays(t *testing.T) {
	day := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	signals := make([]entity.TradingSignal, 0, 400)
	for i := 0; i < 400; i++ {
		signals = append(signals, entity.TradingSignal{
			Symbol:     fmt.Sprintf("SYM%03d", i),
			SignalType: entity.SignalBuy,
			Confidence: 0.8,
			Timestamp:  day.Add(9 * time.Hour),
		})
	}

	messages := FormatDailySummaryMessages(day, signals)
	require.Greater(t, len(messages), 1)

	assert.Contains(t, messages[0], "*Daily Signal Summary 07 Mar 2025*")
	assert.Contains(t, messages[0], "Total signals: 400")
	assert.Contains(t, messages[1], "*Daily Signal Summary Part 2*")
	for _, msg := range messages {
		assert.LessOrEqual(t, len(msg), 4096)
	}
}
