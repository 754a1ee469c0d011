package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"finledger/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date builds a UTC date at midnight, the granularity the engine works at.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a root category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	return CreateTestChildCategory(t, db, nil)
}

// CreateTestChildCategory creates a category under the given parent.
func CreateTestChildCategory(t *testing.T, db *gorm.DB, parentID *uint) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:     fmt.Sprintf("Test Category %d", nextID()),
		ParentID: parentID,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given type and amount
// on the given date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, categoryID *uint, txType models.TransactionType, amount float64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     amount,
		Date:       date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a monthly budget covering the given window.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, categoryID uint, limit float64, start, end time.Time) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:      userID,
		CategoryID:  categoryID,
		AmountLimit: limit,
		Period:      models.BudgetPeriodMonthly,
		StartDate:   start,
		EndDate:     end,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestGoal creates an active goal.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint, target, current float64, targetDate *time.Time) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:        userID,
		Title:         fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:  target,
		CurrentAmount: current,
		TargetDate:    targetDate,
		Status:        models.GoalStatusActive,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestRecurring creates an active recurring rule due on the given date.
func CreateTestRecurring(t *testing.T, db *gorm.DB, userID, categoryID uint, frequency models.Frequency, due time.Time) *models.RecurringTransaction {
	t.Helper()

	rule := &models.RecurringTransaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      50,
		Type:        models.TransactionTypeExpense,
		Frequency:   frequency,
		NextDueDate: due,
		IsActive:    true,
		Description: fmt.Sprintf("Test Rule %d", nextID()),
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("failed to create test recurring transaction: %v", err)
	}
	return rule
}
