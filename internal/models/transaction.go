package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// DefaultCurrency is applied when a transaction is created without a currency.
const DefaultCurrency = "RUB"

// Valid reports whether t is one of the supported transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense:
		return true
	}
	return false
}

// Transaction represents a single income or expense event.
// The amount is always positive; the sign is carried by Type.
type Transaction struct {
	Base
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	Type            TransactionType `gorm:"type:varchar(16);not null" json:"type"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Currency        string          `gorm:"size:3;not null;default:'RUB'" json:"currency"`
	Category        string          `gorm:"size:50;not null;index" json:"category"`
	Description     *string         `gorm:"size:255" json:"description"`
	TransactionDate Date            `gorm:"not null;index" json:"transaction_date"`
}

// BeforeCreate fills in the currency and date defaults.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.Currency == "" {
		t.Currency = DefaultCurrency
	}
	if t.TransactionDate.IsZero() {
		t.TransactionDate = Today()
	}
	return nil
}
