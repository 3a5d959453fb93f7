package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// TechnicalAnalysis is one indicator evaluation for a symbol. The fusion
// engine only ever reads the latest row per symbol.
type TechnicalAnalysis struct {
	ID             int64          `gorm:"primaryKey" json:"id"`
	Symbol         string         `gorm:"not null;index:idx_ta_symbol_ts,priority:1" json:"symbol"`
	Timestamp      time.Time      `gorm:"not null;index:idx_ta_symbol_ts,priority:2,sort:desc" json:"timestamp"`
	ClosePrice     float64        `json:"close_price"`
	SMA20          float64        `gorm:"column:sma_20" json:"sma_20"`
	SMA50          float64        `gorm:"column:sma_50" json:"sma_50"`
	RSI            float64        `gorm:"column:rsi" json:"rsi"`
	MACDLine       float64        `gorm:"column:macd_line" json:"macd_line"`
	SignalLine     float64        `gorm:"column:signal_line" json:"signal_line"`
	OverallSignal  string         `json:"overall_signal"`
	SignalStrength float64        `json:"signal_strength"`
	Drivers        pq.StringArray `gorm:"type:text[]" json:"drivers"`
	Indicators     datatypes.JSON `gorm:"type:jsonb" json:"indicators"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the TechnicalAnalysis model.
func (TechnicalAnalysis) TableName() string {
	return "technical_analysis"
}
