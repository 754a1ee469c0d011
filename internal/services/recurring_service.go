package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"finledger/internal/clock"
	apperrors "finledger/internal/errors"
	"finledger/internal/models"
	"finledger/internal/recurrence"
)

// recurringService handles recurring-transaction rules and their
// materialization into concrete transactions.
type recurringService struct {
	db  *gorm.DB
	clk clock.Clock
}

// NewRecurringService creates a new RecurringServicer.
func NewRecurringService(db *gorm.DB, clk clock.Clock) RecurringServicer {
	return &recurringService{db: db, clk: clk}
}

// CreateRecurring creates a new active recurring transaction rule.
func (s *recurringService) CreateRecurring(
	userID, categoryID uint,
	amount float64,
	transactionType models.TransactionType,
	frequency models.Frequency,
	nextDueDate time.Time,
	description string,
) (*models.RecurringTransaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if transactionType != models.TransactionTypeIncome && transactionType != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}
	switch frequency {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyYearly:
	default:
		return nil, apperrors.ErrInvalidFrequency
	}
	if nextDueDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "next due date is required")
	}

	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	recurring := &models.RecurringTransaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Type:        transactionType,
		Frequency:   frequency,
		NextDueDate: nextDueDate,
		IsActive:    true,
		Description: description,
	}

	if err := s.db.Create(recurring).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return recurring, nil
}

// GetUserRecurring returns all recurring rules for the user.
func (s *recurringService) GetUserRecurring(userID uint) ([]models.RecurringTransaction, error) {
	var rules []models.RecurringTransaction
	if err := s.db.Preload("Category").Where("user_id = ?", userID).Find(&rules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rules, nil
}

// GetRecurringByID returns a rule by ID if it belongs to the user.
func (s *recurringService) GetRecurringByID(userID, recurringID uint) (*models.RecurringTransaction, error) {
	var rule models.RecurringTransaction
	if err := s.db.Where("id = ? AND user_id = ?", recurringID, userID).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecurringNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &rule, nil
}

// SetActive activates or deactivates a rule. The engine itself never
// deactivates a rule; this explicit toggle is the only path to dormancy.
func (s *recurringService) SetActive(userID, recurringID uint, active bool) (*models.RecurringTransaction, error) {
	rule, err := s.GetRecurringByID(userID, recurringID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(rule).Update("is_active", active).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rule, nil
}

// DeleteRecurring removes a rule. Transactions it already materialized are
// kept.
func (s *recurringService) DeleteRecurring(userID, recurringID uint) error {
	rule, err := s.GetRecurringByID(userID, recurringID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(rule).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DueRules returns every active rule whose next due date has arrived,
// optionally scoped to one user. Callers must not rely on the order.
func (s *recurringService) DueRules(asOf time.Time, userID *uint) ([]models.RecurringTransaction, error) {
	query := s.db.Where("is_active = ? AND next_due_date <= ?", true, asOf)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var rules []models.RecurringTransaction
	if err := query.Find(&rules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rules, nil
}

// Process materializes one transaction from the rule and advances its next
// due date by one frequency unit measured from the previous due date, not
// from today. The new transaction and the advanced due date commit or roll
// back together; a partial application would duplicate the transaction on
// the next sweep.
func (s *recurringService) Process(recurringID uint) (*models.Transaction, error) {
	var rule models.RecurringTransaction
	if err := s.db.First(&rule, recurringID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecurringNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !rule.IsActive {
		return nil, apperrors.ErrRecurringInactive
	}

	nextDue, err := recurrence.NextDate(rule.NextDueDate, rule.Frequency)
	if err != nil {
		return nil, err
	}

	note := "Recurring transaction"
	if rule.Description != "" {
		note = "Recurring: " + rule.Description
	}

	transaction := &models.Transaction{
		UserID:     rule.UserID,
		CategoryID: &rule.CategoryID,
		Type:       rule.Type,
		Amount:     rule.Amount,
		Date:       s.clk.Today(),
		Note:       note,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Model(&models.RecurringTransaction{}).
			Where("id = ?", rule.ID).
			Update("next_due_date", nextDue).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// ProcessDue runs one sequential sweep for a user: every due rule is
// processed exactly once. Rules are independent, but a given rule is only
// touched once per sweep.
func (s *recurringService) ProcessDue(userID uint) ([]models.Transaction, error) {
	rules, err := s.DueRules(s.clk.Today(), &userID)
	if err != nil {
		return nil, err
	}

	created := make([]models.Transaction, 0, len(rules))
	for _, rule := range rules {
		transaction, err := s.Process(rule.ID)
		if err != nil {
			return created, err
		}
		created = append(created, *transaction)
	}
	return created, nil
}
