package models

import "time"

// User represents an authenticated ledger owner.
type User struct {
	Base
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Password         string     `gorm:"not null" json:"-"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash string     `gorm:"size:64" json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`

	Transactions []Transaction          `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Budgets      []Budget               `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
	Goals        []Goal                 `gorm:"foreignKey:UserID" json:"goals,omitempty"`
	Recurring    []RecurringTransaction `gorm:"foreignKey:UserID" json:"recurring_transactions,omitempty"`
}
