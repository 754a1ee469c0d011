package services

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	apperrors "finledger/internal/errors"
	"finledger/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a new budget for a category. At most one budget may
// exist per (user, category, period, start date); the check happens before
// any write.
func (s *budgetService) CreateBudget(
	userID, categoryID uint,
	amountLimit float64,
	period models.BudgetPeriod,
	startDate, endDate time.Time,
) (*models.Budget, error) {
	if amountLimit <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount limit must be greater than zero")
	}
	if period != models.BudgetPeriodMonthly && period != models.BudgetPeriodYearly {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be 'monthly' or 'yearly'")
	}
	if !endDate.After(startDate) {
		return nil, apperrors.ErrInvalidDateRange
	}

	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var count int64
	if err := s.db.Model(&models.Budget{}).
		Where("user_id = ? AND category_id = ? AND period = ? AND start_date = ?",
			userID, categoryID, period, startDate).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateBudget
	}

	budget := &models.Budget{
		UserID:      userID,
		CategoryID:  categoryID,
		AmountLimit: amountLimit,
		Period:      period,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetUserBudgets returns all budgets for the user.
func (s *budgetService) GetUserBudgets(userID uint) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Preload("Category").Where("user_id = ?", userID).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// DeleteBudget removes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Usage sums the user's expense transactions for a category within the
// inclusive date range. Income transactions never offset a budget.
func (s *budgetService) Usage(userID, categoryID uint, startDate, endDate time.Time) (float64, error) {
	var spent float64
	err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND category_id = ? AND type = ? AND date >= ? AND date <= ?",
			userID, categoryID, models.TransactionTypeExpense, startDate, endDate).
		Scan(&spent).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return spent, nil
}

// Status reports how far a budget has been consumed within its own window.
func (s *budgetService) Status(userID, budgetID uint) (*BudgetStatus, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	spent, err := s.Usage(userID, budget.CategoryID, budget.StartDate, budget.EndDate)
	if err != nil {
		return nil, err
	}

	var percentage float64
	if budget.AmountLimit > 0 {
		percentage = round2(spent / budget.AmountLimit * 100)
	}

	return &BudgetStatus{
		BudgetID:        budget.ID,
		AmountLimit:     budget.AmountLimit,
		AmountSpent:     spent,
		AmountRemaining: budget.AmountLimit - spent,
		PercentageUsed:  percentage,
		IsOverBudget:    spent > budget.AmountLimit,
		Period:          budget.Period,
		CategoryName:    budget.Category.Name,
	}, nil
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
