package entity

import (
	"time"
)

// MarketBar is one OHLCV candle written by the external market-data
// collector. The technical analyzer reads a lookback window of these.
type MarketBar struct {
	Symbol    string    `gorm:"primaryKey" json:"symbol"`
	Timestamp time.Time `gorm:"primaryKey" json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// TableName specifies the table name for the MarketBar model.
func (MarketBar) TableName() string {
	return "market_data"
}
