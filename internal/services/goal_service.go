package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"finledger/internal/clock"
	apperrors "finledger/internal/errors"
	"finledger/internal/models"
)

// goalService handles savings-goal business logic.
type goalService struct {
	db  *gorm.DB
	clk clock.Clock
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB, clk clock.Clock) GoalServicer {
	return &goalService{db: db, clk: clk}
}

// CreateGoal creates a new savings goal.
func (s *goalService) CreateGoal(userID uint, title string, targetAmount, currentAmount float64, targetDate *time.Time) (*models.Goal, error) {
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal title is required")
	}
	if targetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	if currentAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current amount cannot be negative")
	}

	goal := &models.Goal{
		UserID:        userID,
		Title:         title,
		TargetAmount:  targetAmount,
		CurrentAmount: currentAmount,
		TargetDate:    targetDate,
		Status:        models.GoalStatusActive,
	}
	if currentAmount >= targetAmount {
		goal.Status = models.GoalStatusCompleted
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// GetUserGoals returns all goals for the user.
func (s *goalService) GetUserGoals(userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	if err := s.db.Where("user_id = ?", userID).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goals, nil
}

// GetGoalByID returns a goal by ID if it belongs to the user.
func (s *goalService) GetGoalByID(userID, goalID uint) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// Progress computes detailed progress for a goal. Days remaining and the
// required daily savings pace are only reported when a target date is set;
// the pace additionally requires a future target date and a positive
// remaining amount.
func (s *goalService) Progress(userID, goalID uint) (*GoalProgress, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	var percentage float64
	if goal.TargetAmount > 0 {
		percentage = round2(goal.CurrentAmount / goal.TargetAmount * 100)
	}
	remaining := goal.TargetAmount - goal.CurrentAmount

	progress := &GoalProgress{
		GoalID:             goal.ID,
		Title:              goal.Title,
		TargetAmount:       goal.TargetAmount,
		CurrentAmount:      goal.CurrentAmount,
		RemainingAmount:    remaining,
		ProgressPercentage: percentage,
		IsCompleted:        goal.CurrentAmount >= goal.TargetAmount,
		Status:             goal.Status,
	}

	if goal.TargetDate != nil {
		days := int(clock.Midnight(*goal.TargetDate).Sub(s.clk.Today()).Hours() / 24)
		progress.DaysRemaining = &days
		if days > 0 && remaining > 0 {
			needed := round2(remaining / float64(days))
			progress.DailySavingsNeeded = &needed
		}
	}

	return progress, nil
}

// ApplyContribution adds amount to the goal's current amount. Reaching the
// target forces the status to completed regardless of its prior value, even
// from paused. This is the sole mutation path for goal progress.
func (s *goalService) ApplyContribution(userID, goalID uint, amount float64) (*models.Goal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.CurrentAmount += amount
	if goal.CurrentAmount >= goal.TargetAmount {
		goal.Status = models.GoalStatusCompleted
	}

	if err := s.db.Model(goal).Updates(map[string]interface{}{
		"current_amount": goal.CurrentAmount,
		"status":         goal.Status,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}
