package models

import "github.com/shopspring/decimal"

// Goal represents a savings target. CurrentAmount is maintained by the client.
type Goal struct {
	Base
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	GoalName      string          `gorm:"size:100;not null" json:"goal_name"`
	TargetAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"current_amount"`
	Deadline      *Date           `json:"deadline"`
}
