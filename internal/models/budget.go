package models

import "github.com/shopspring/decimal"

// Budget represents a monthly spending ceiling for a category.
// Budgets are stored for the client; nothing checks transactions against them.
type Budget struct {
	Base
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	Category     string          `gorm:"size:50;not null" json:"category"`
	MonthlyLimit decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"monthly_limit"`
}
