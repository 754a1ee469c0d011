package services

import (
	"testing"
	"time"

	"finledger/internal/clock"
	"finledger/internal/models"
	"finledger/internal/pagination"
	"finledger/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, clock.System())
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db)

		transaction, err := svc.CreateTransaction(user.ID, &category.ID, models.TransactionTypeExpense,
			42.50, testutil.Date(2024, time.March, 10), "Groceries")
		testutil.AssertNoError(t, err)

		if transaction.ID == 0 {
			t.Fatal("expected non-zero transaction ID")
		}
		if transaction.Amount != 42.50 {
			t.Errorf("expected amount 42.50, got %v", transaction.Amount)
		}
	})

	t.Run("uncategorized", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, clock.System())
		user := testutil.CreateTestUser(t, db)

		transaction, err := svc.CreateTransaction(user.ID, nil, models.TransactionTypeIncome,
			100, testutil.Date(2024, time.March, 10), "")
		testutil.AssertNoError(t, err)
		if transaction.CategoryID != nil {
			t.Errorf("expected no category, got %v", *transaction.CategoryID)
		}
	})

	t.Run("zero_date_defaults_to_today", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		today := testutil.Date(2024, time.March, 15)
		svc := NewTransactionService(db, clock.Fixed{Time: today})
		user := testutil.CreateTestUser(t, db)

		transaction, err := svc.CreateTransaction(user.ID, nil, models.TransactionTypeExpense,
			10, time.Time{}, "")
		testutil.AssertNoError(t, err)
		if !transaction.Date.Equal(today) {
			t.Errorf("expected date %v, got %v", today, transaction.Date)
		}
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, clock.System())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, nil, models.TransactionTypeExpense,
			0, testutil.Date(2024, time.March, 10), "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, clock.System())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, nil, models.TransactionType("transfer"),
			10, testutil.Date(2024, time.March, 10), "")
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("missing_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, clock.System())
		user := testutil.CreateTestUser(t, db)

		missing := uint(9999)
		_, err := svc.CreateTransaction(user.ID, &missing, models.TransactionTypeExpense,
			10, testutil.Date(2024, time.March, 10), "")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestGetUserTransactions(t *testing.T) {
	t.Run("newest_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, clock.System())
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user.ID, nil, models.TransactionTypeExpense, 1, testutil.Date(2024, time.March, 1))
		testutil.CreateTestTransaction(t, db, user.ID, nil, models.TransactionTypeExpense, 2, testutil.Date(2024, time.March, 20))
		testutil.CreateTestTransaction(t, db, user.ID, nil, models.TransactionTypeExpense, 3, testutil.Date(2024, time.March, 10))

		page := pagination.PageRequest{Page: 1, PageSize: 10}
		result, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 3 {
			t.Fatalf("expected 3 items, got %d", result.TotalItems)
		}
		if result.Data[0].Amount != 2 || result.Data[1].Amount != 3 || result.Data[2].Amount != 1 {
			t.Errorf("unexpected order: %v %v %v", result.Data[0].Amount, result.Data[1].Amount, result.Data[2].Amount)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, clock.System())
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < 5; i++ {
			testutil.CreateTestTransaction(t, db, user.ID, nil, models.TransactionTypeExpense, float64(i+1), testutil.Date(2024, time.March, i+1))
		}

		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{Page: 2, PageSize: 2}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if len(result.Data) != 2 {
			t.Errorf("expected page of 2, got %d", len(result.Data))
		}
		if result.TotalItems != 5 || result.TotalPages != 3 {
			t.Errorf("expected 5 items over 3 pages, got %d over %d", result.TotalItems, result.TotalPages)
		}
	})

	t.Run("filters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, clock.System())
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategory(t, db)
		rent := testutil.CreateTestCategory(t, db)

		testutil.CreateTestTransaction(t, db, user.ID, &food.ID, models.TransactionTypeExpense, 10, testutil.Date(2024, time.March, 5))
		testutil.CreateTestTransaction(t, db, user.ID, &rent.ID, models.TransactionTypeExpense, 900, testutil.Date(2024, time.March, 1))
		testutil.CreateTestTransaction(t, db, user.ID, &food.ID, models.TransactionTypeIncome, 25, testutil.Date(2024, time.April, 2))

		page := pagination.PageRequest{Page: 1, PageSize: 10}

		byCategory, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{CategoryID: &food.ID})
		testutil.AssertNoError(t, err)
		if byCategory.TotalItems != 2 {
			t.Errorf("expected 2 food transactions, got %d", byCategory.TotalItems)
		}

		expense := models.TransactionTypeExpense
		byType, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{Type: &expense})
		testutil.AssertNoError(t, err)
		if byType.TotalItems != 2 {
			t.Errorf("expected 2 expenses, got %d", byType.TotalItems)
		}

		from := testutil.Date(2024, time.March, 2)
		to := testutil.Date(2024, time.March, 31)
		byDate, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{FromDate: &from, ToDate: &to})
		testutil.AssertNoError(t, err)
		if byDate.TotalItems != 1 {
			t.Errorf("expected 1 transaction in window, got %d", byDate.TotalItems)
		}
	})

	t.Run("other_users_excluded", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, clock.System())
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, bob.ID, nil, models.TransactionTypeExpense, 10, testutil.Date(2024, time.March, 5))

		result, err := svc.GetUserTransactions(alice.ID, pagination.PageRequest{Page: 1, PageSize: 10}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 0 {
			t.Errorf("expected no transactions for alice, got %d", result.TotalItems)
		}
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, clock.System())
		user := testutil.CreateTestUser(t, db)
		transaction := testutil.CreateTestTransaction(t, db, user.ID, nil, models.TransactionTypeExpense, 10, testutil.Date(2024, time.March, 5))

		testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, transaction.ID))

		_, err := svc.GetTransactionByID(user.ID, transaction.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("other_users_transaction_not_deletable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, clock.System())
		owner := testutil.CreateTestUser(t, db)
		stranger := testutil.CreateTestUser(t, db)
		transaction := testutil.CreateTestTransaction(t, db, owner.ID, nil, models.TransactionTypeExpense, 10, testutil.Date(2024, time.March, 5))

		err := svc.DeleteTransaction(stranger.ID, transaction.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

		_, err = svc.GetTransactionByID(owner.ID, transaction.ID)
		testutil.AssertNoError(t, err)
	})
}
