package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finledger/internal/errors"
	"finledger/internal/models"
	"finledger/internal/services"
)

// --- mock recurring service ---

type mockRecurringService struct {
	createRecurringFn  func(userID, categoryID uint, amount float64, transactionType models.TransactionType, frequency models.Frequency, nextDueDate time.Time, description string) (*models.RecurringTransaction, error)
	getUserRecurringFn func(userID uint) ([]models.RecurringTransaction, error)
	setActiveFn        func(userID, recurringID uint, active bool) (*models.RecurringTransaction, error)
	deleteRecurringFn  func(userID, recurringID uint) error
	processDueFn       func(userID uint) ([]models.Transaction, error)
}

func (m *mockRecurringService) CreateRecurring(userID, categoryID uint, amount float64, transactionType models.TransactionType, frequency models.Frequency, nextDueDate time.Time, description string) (*models.RecurringTransaction, error) {
	if m.createRecurringFn != nil {
		return m.createRecurringFn(userID, categoryID, amount, transactionType, frequency, nextDueDate, description)
	}
	return &models.RecurringTransaction{}, nil
}

func (m *mockRecurringService) GetUserRecurring(userID uint) ([]models.RecurringTransaction, error) {
	if m.getUserRecurringFn != nil {
		return m.getUserRecurringFn(userID)
	}
	return []models.RecurringTransaction{}, nil
}

func (m *mockRecurringService) GetRecurringByID(userID, recurringID uint) (*models.RecurringTransaction, error) {
	return &models.RecurringTransaction{}, nil
}

func (m *mockRecurringService) SetActive(userID, recurringID uint, active bool) (*models.RecurringTransaction, error) {
	if m.setActiveFn != nil {
		return m.setActiveFn(userID, recurringID, active)
	}
	return &models.RecurringTransaction{}, nil
}

func (m *mockRecurringService) DeleteRecurring(userID, recurringID uint) error {
	if m.deleteRecurringFn != nil {
		return m.deleteRecurringFn(userID, recurringID)
	}
	return nil
}

func (m *mockRecurringService) DueRules(asOf time.Time, userID *uint) ([]models.RecurringTransaction, error) {
	return []models.RecurringTransaction{}, nil
}

func (m *mockRecurringService) Process(recurringID uint) (*models.Transaction, error) {
	return &models.Transaction{}, nil
}

func (m *mockRecurringService) ProcessDue(userID uint) ([]models.Transaction, error) {
	if m.processDueFn != nil {
		return m.processDueFn(userID)
	}
	return []models.Transaction{}, nil
}

var _ services.RecurringServicer = (*mockRecurringService)(nil)

func setupRecurringRouter(handler *RecurringHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/recurring", handler.CreateRecurring)
	auth.GET("/recurring", handler.GetRecurring)
	auth.PUT("/recurring/:id/active", handler.SetActive)
	auth.DELETE("/recurring/:id", handler.DeleteRecurring)
	auth.POST("/recurring/process-due", handler.ProcessDue)
	return r
}

func TestRecurringHandler_CreateRecurring(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockRecurringService{
			createRecurringFn: func(userID, categoryID uint, amount float64, transactionType models.TransactionType, frequency models.Frequency, nextDueDate time.Time, description string) (*models.RecurringTransaction, error) {
				return &models.RecurringTransaction{
					Base:        models.Base{ID: 1},
					UserID:      userID,
					CategoryID:  categoryID,
					Amount:      amount,
					Type:        transactionType,
					Frequency:   frequency,
					NextDueDate: nextDueDate,
					IsActive:    true,
					Description: description,
				}, nil
			},
		}
		handler := NewRecurringHandler(svc)
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "POST", "/recurring",
			`{"category_id":1,"amount":15.99,"type":"expense","frequency":"monthly","next_due_date":"2024-04-01T00:00:00Z","description":"Streaming"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		rule := result["recurring_transaction"].(map[string]interface{})
		if rule["frequency"] != "monthly" {
			t.Errorf("expected monthly frequency, got %v", rule["frequency"])
		}
	})

	t.Run("returns 400 on bad frequency", func(t *testing.T) {
		handler := NewRecurringHandler(&mockRecurringService{})
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "POST", "/recurring",
			`{"category_id":1,"amount":15.99,"type":"expense","frequency":"fortnightly","next_due_date":"2024-04-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestRecurringHandler_ProcessDue(t *testing.T) {
	t.Run("returns materialized transactions", func(t *testing.T) {
		svc := &mockRecurringService{
			processDueFn: func(userID uint) ([]models.Transaction, error) {
				return []models.Transaction{
					{Base: models.Base{ID: 1}, UserID: userID, Amount: 50, Type: models.TransactionTypeExpense},
					{Base: models.Base{ID: 2}, UserID: userID, Amount: 1200, Type: models.TransactionTypeExpense},
				}, nil
			},
		}
		handler := NewRecurringHandler(svc)
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "POST", "/recurring/process-due", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["processed_count"].(float64) != 2 {
			t.Errorf("expected processed_count 2, got %v", result["processed_count"])
		}
	})

	t.Run("returns empty sweep", func(t *testing.T) {
		handler := NewRecurringHandler(&mockRecurringService{})
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "POST", "/recurring/process-due", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["processed_count"].(float64) != 0 {
			t.Errorf("expected processed_count 0, got %v", result["processed_count"])
		}
	})
}

func TestRecurringHandler_SetActive(t *testing.T) {
	t.Run("returns 404 on missing rule", func(t *testing.T) {
		svc := &mockRecurringService{
			setActiveFn: func(_, _ uint, _ bool) (*models.RecurringTransaction, error) {
				return nil, apperrors.ErrRecurringNotFound
			},
		}
		handler := NewRecurringHandler(svc)
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "PUT", "/recurring/42/active", `{"is_active":false}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "RECURRING_NOT_FOUND")
	})

	t.Run("returns 400 on missing flag", func(t *testing.T) {
		handler := NewRecurringHandler(&mockRecurringService{})
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "PUT", "/recurring/42/active", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
