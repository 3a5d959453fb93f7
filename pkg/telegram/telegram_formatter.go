package telegram

import (
	"fmt"
	"strings"
	"time"

	"stock-signal-pipeline/internal/entity"
	"stock-signal-pipeline/pkg/utils"
)

// SignalEmoji returns the marker used for a signal direction.
func SignalEmoji(signalType string) string {
	switch signalType {
	case entity.SignalBuy:
		return "🟢"
	case entity.SignalSell:
		return "🔴"
	default:
		return "⚪️"
	}
}

// FormatTradingSignalMessage formats one fused trading signal into a
// Markdown string for Telegram.
func FormatTradingSignalMessage(signal *entity.TradingSignal) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("%s *Trading Signal: %s*\n\n", SignalEmoji(signal.SignalType), signal.Symbol))
	builder.WriteString(fmt.Sprintf("💡 *Signal:* %s\n", signal.SignalType))
	builder.WriteString(fmt.Sprintf("🎯 *Confidence:* %.0f%%\n", signal.Confidence*100))
	if signal.ClosePrice > 0 {
		builder.WriteString(fmt.Sprintf("💰 *Price:* $%.2f\n", signal.ClosePrice))
	}
	builder.WriteString("\n🔧 *Inputs:*\n")
	builder.WriteString(fmt.Sprintf("• Technical: %s\n", signal.TechnicalSignal))
	builder.WriteString(fmt.Sprintf("• Sentiment: %s\n", signal.SentimentSignal))

	if signal.Reason != "" {
		builder.WriteString(fmt.Sprintf("\n🧠 *Reason:*\n_%s_\n", signal.Reason))
	}

	builder.WriteString(fmt.Sprintf("\n📅 %s\n", utils.PrettyDate(signal.Timestamp)))
	builder.WriteString(fmt.Sprintf("\n#Signal #%s #%s", signal.Symbol, strings.ToLower(signal.SignalType)))

	return builder.String()
}

// FormatDailySummaryMessages formats the day's signals grouped by direction
// into one or more Markdown strings, each below Telegram's message limit.
func FormatDailySummaryMessages(day time.Time, signals []entity.TradingSignal) []string {
	const maxLen = 4090

	grouped := map[string][]entity.TradingSignal{}
	for _, s := range signals {
		grouped[s.SignalType] = append(grouped[s.SignalType], s)
	}

	var messages []string
	var currentMessage strings.Builder
	part := 1

	startNewPart := func() {
		currentMessage.Reset()
		if part == 1 {
			currentMessage.WriteString(fmt.Sprintf("📊 *Daily Signal Summary %s*\n\n", day.Format("02 Jan 2006")))
			currentMessage.WriteString(fmt.Sprintf("Total signals: %d\n\n", len(signals)))
		} else {
			currentMessage.WriteString(fmt.Sprintf("---*Daily Signal Summary Part %d*---\n\n", part))
		}
	}

	startNewPart()

	for _, signalType := range []string{entity.SignalBuy, entity.SignalSell, entity.SignalNeutral} {
		group := grouped[signalType]
		if len(group) == 0 {
			continue
		}

		var sectionHeader strings.Builder
		sectionHeader.WriteString(fmt.Sprintf("%s *%s* (%d)\n", SignalEmoji(signalType), signalType, len(group)))
		if currentMessage.Len()+sectionHeader.Len() > maxLen {
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}
		currentMessage.WriteString(sectionHeader.String())

		for _, s := range group {
			entry := fmt.Sprintf("• `%s` %.0f%% at %s\n", s.Symbol, s.Confidence*100, s.Timestamp.Format("15:04"))
			if currentMessage.Len()+len(entry) > maxLen {
				messages = append(messages, currentMessage.String())
				part++
				startNewPart()
			}
			currentMessage.WriteString(entry)
		}
		currentMessage.WriteString("\n")
	}

	messages = append(messages, currentMessage.String())
	return messages
}
