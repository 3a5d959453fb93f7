package entity

import (
	"database/sql"
	"time"
)

// Trading signal directions.
const (
	SignalBuy     = "BUY"
	SignalSell    = "SELL"
	SignalNeutral = "NEUTRAL"
)

// Outcome values set by the external outcome evaluator.
const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)

// TradingSignal is a fused recommendation produced by the signal engine.
// Delivery state lives on the row itself: the notifier flips Notified only
// after the transport accepted the message, so a crash in between re-sends
// rather than drops.
type TradingSignal struct {
	ID              int64          `gorm:"primaryKey" json:"id"`
	Symbol          string         `gorm:"not null;index" json:"symbol"`
	Timestamp       time.Time      `gorm:"not null;index" json:"timestamp"`
	SignalType      string         `gorm:"not null" json:"signal_type"`
	Confidence      float64        `json:"confidence"`
	ClosePrice      float64        `json:"close_price"`
	TechnicalSignal string         `json:"technical_signal"`
	SentimentSignal string         `json:"sentiment_signal"`
	Reason          string         `json:"reason"`
	Notified        bool           `gorm:"not null;default:false;index" json:"notified"`
	Verified        bool           `gorm:"not null;default:false" json:"verified"`
	Outcome         sql.NullString `json:"outcome"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the TradingSignal model.
func (TradingSignal) TableName() string {
	return "trading_signals"
}
