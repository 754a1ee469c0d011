package models

import "time"

// TransactionType represents the direction of a transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a single ledger entry. Transactions are immutable
// once created; only their category reference may change, and only as part
// of a category merge.
type Transaction struct {
	Base
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	CategoryID *uint           `gorm:"index" json:"category_id,omitempty"`
	Type       TransactionType `gorm:"not null" json:"type"`
	Amount     float64         `gorm:"not null" json:"amount"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
	Note       string          `json:"note,omitempty"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
