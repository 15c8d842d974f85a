package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are rendered as JSON numbers, matching what the mini-app client sends.
	decimal.MarshalJSONWithoutQuotes = true
}

// MaxAmount is the largest value a numeric(14,2) money column holds.
var MaxAmount = decimal.RequireFromString("999999999999.99")

// Base contains common columns for all tables
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
