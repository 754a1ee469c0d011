package models

import "time"

// GoalStatus represents the lifecycle state of a savings goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusPaused    GoalStatus = "paused"
)

// Goal represents a savings goal. The only automatic status transition is
// to completed, applied when a contribution brings the current amount up to
// the target.
type Goal struct {
	Base
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	Title         string     `gorm:"not null" json:"title"`
	TargetAmount  float64    `gorm:"not null" json:"target_amount"`
	CurrentAmount float64    `gorm:"default:0" json:"current_amount"`
	TargetDate    *time.Time `json:"target_date,omitempty"`
	Status        GoalStatus `gorm:"default:active" json:"status"`
}
