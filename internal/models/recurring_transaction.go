package models

import "time"

// Frequency represents how often a recurring transaction materializes.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// RecurringTransaction is a rule that periodically generates concrete
// transactions. Each successful processing run creates one transaction and
// advances NextDueDate by one frequency unit measured from its previous
// value. Rules only go dormant when IsActive is explicitly cleared.
type RecurringTransaction struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Amount      float64         `gorm:"not null" json:"amount"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Frequency   Frequency       `gorm:"not null" json:"frequency"`
	NextDueDate time.Time       `gorm:"not null;index" json:"next_due_date"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
	Description string          `json:"description,omitempty"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
