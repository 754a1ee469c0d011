package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finledger/internal/errors"
	"finledger/internal/models"
	"finledger/internal/services"
)

// RecurringHandler handles recurring-transaction rule requests.
type RecurringHandler struct {
	recurringService services.RecurringServicer
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(recurringService services.RecurringServicer) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// CreateRecurringRequest represents the request payload for creating a recurring rule.
type CreateRecurringRequest struct {
	CategoryID  uint                   `json:"category_id" binding:"required"`
	Amount      float64                `json:"amount" binding:"required,gt=0"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Frequency   models.Frequency       `json:"frequency" binding:"required,frequency"`
	NextDueDate time.Time              `json:"next_due_date" binding:"required"`
	Description string                 `json:"description" binding:"max=200"`
}

// SetActiveRequest represents the request payload for toggling a rule.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// CreateRecurring handles the creation of a new recurring rule.
// @Summary     Create a recurring transaction
// @Description Create a new recurring transaction rule that materializes transactions when due
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateRecurringRequest true "Recurring rule details"
// @Success     201 {object} models.RecurringTransaction "Rule created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring [post]
func (h *RecurringHandler) CreateRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	rule, err := h.recurringService.CreateRecurring(
		userID, req.CategoryID, req.Amount, req.Type, req.Frequency, req.NextDueDate, req.Description,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recurring_transaction": rule})
}

// GetRecurring handles listing recurring rules for the authenticated user.
// @Summary     Get recurring transactions
// @Description Get all recurring transaction rules for the authenticated user
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.RecurringTransaction "Recurring rules"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring [get]
func (h *RecurringHandler) GetRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rules, err := h.recurringService.GetUserRecurring(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_transactions": rules})
}

// SetActive handles activating or deactivating a rule.
// @Summary     Toggle recurring transaction
// @Description Activate or deactivate a recurring transaction rule
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int              true "Rule ID"
// @Param       request body SetActiveRequest true "Active flag"
// @Success     200 {object} models.RecurringTransaction "Updated rule"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/{id}/active [put]
func (h *RecurringHandler) SetActive(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurringID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	rule, err := h.recurringService.SetActive(userID, recurringID, *req.IsActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_transaction": rule})
}

// DeleteRecurring handles deleting a rule.
// @Summary     Delete recurring transaction
// @Description Delete a recurring transaction rule; already materialized transactions are kept
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Rule ID"
// @Success     204 "Rule deleted"
// @Failure     400 {object} ErrorResponse "Invalid rule ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/{id} [delete]
func (h *RecurringHandler) DeleteRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurringID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recurringService.DeleteRecurring(userID, recurringID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ProcessDue handles a due-rule sweep for the authenticated user.
// @Summary     Process due recurring transactions
// @Description Materialize a transaction for every active rule whose due date has arrived and advance its due date
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Transaction "Materialized transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/process-due [post]
func (h *RecurringHandler) ProcessDue(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	created, err := h.recurringService.ProcessDue(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"processed_count": len(created),
		"transactions":    created,
	})
}
