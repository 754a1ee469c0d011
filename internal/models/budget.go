package models

import "time"

// BudgetPeriod represents the period type for a budget.
type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Budget caps expense spending for a category over a date window.
// At most one budget may exist per (user, category, period, start date).
type Budget struct {
	Base
	UserID      uint         `gorm:"not null;index" json:"user_id"`
	CategoryID  uint         `gorm:"not null;index" json:"category_id"`
	AmountLimit float64      `gorm:"not null" json:"amount_limit"`
	Period      BudgetPeriod `gorm:"not null" json:"period"`
	StartDate   time.Time    `gorm:"not null" json:"start_date"`
	EndDate     time.Time    `gorm:"not null" json:"end_date"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
