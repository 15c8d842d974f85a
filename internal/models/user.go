package models

// User represents a mini-app user identified by their Telegram account.
// Rows are created on first authentication and never modified afterwards.
type User struct {
	Base
	TelegramID   int64         `gorm:"uniqueIndex;not null" json:"telegram_id"`
	FirstName    string        `gorm:"size:100" json:"first_name,omitempty"`
	LastName     string        `gorm:"size:100" json:"last_name,omitempty"`
	Username     string        `gorm:"size:100" json:"username,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"-"`
	Budgets      []Budget      `gorm:"foreignKey:UserID" json:"-"`
	Goals        []Goal        `gorm:"foreignKey:UserID" json:"-"`
}
