package model

import "time"

// PriceBar represents one daily candlestick for one instrument.
type PriceBar struct {
	Time             time.Time
	Open             float64
	High             float64
	Low              float64
	Close            float64
	PrevClose        float64
	Volume           float64
	Amount           float64 // turnover in CNY
	TurnoverRate     float64 // percentage, 0 when unknown
	Suspended        bool
	SpecialTreatment bool // ST / *ST flag
}

// StockInfo identifies one listed instrument.
type StockInfo struct {
	Code string // e.g. "sh.600000"
	Name string
}
