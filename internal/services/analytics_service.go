package services

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"finledger/internal/clock"
	apperrors "finledger/internal/errors"
	"finledger/internal/models"
)

// uncategorizedLabel is the breakdown key for transactions without a
// category.
const uncategorizedLabel = "Uncategorized"

// analyticsService aggregates transactions into period summaries and
// multi-month trends.
type analyticsService struct {
	db  *gorm.DB
	clk clock.Clock
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(db *gorm.DB, clk clock.Clock) AnalyticsServicer {
	return &analyticsService{db: db, clk: clk}
}

// MonthlySummary aggregates the user's transactions within one calendar
// month, first day through the last valid day.
func (s *analyticsService) MonthlySummary(userID uint, year int, month time.Month) (*MonthlySummary, error) {
	if month < time.January || month > time.December {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	startDate := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the next month is the last day of this one.
	endDate := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	daysInMonth := endDate.Day()

	var transactions []models.Transaction
	if err := s.db.Preload("Category").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, startDate, endDate).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &MonthlySummary{
		Period:            fmt.Sprintf("%04d-%02d", year, month),
		CategoryBreakdown: make(map[string]CategorySummary),
	}

	for _, tx := range transactions {
		name := uncategorizedLabel
		if tx.Category != nil {
			name = tx.Category.Name
		}
		entry := summary.CategoryBreakdown[name]

		switch tx.Type {
		case models.TransactionTypeIncome:
			summary.TotalIncome += tx.Amount
			entry.Income += tx.Amount
		case models.TransactionTypeExpense:
			summary.TotalExpenses += tx.Amount
			entry.Expense += tx.Amount
		}
		entry.Count++
		summary.CategoryBreakdown[name] = entry
	}

	summary.NetAmount = summary.TotalIncome - summary.TotalExpenses
	summary.TransactionCount = len(transactions)
	if summary.TotalExpenses > 0 {
		summary.AverageDailyExpense = summary.TotalExpenses / float64(daysInMonth)
	}

	return summary, nil
}

// Trend accumulates income and expense totals per "YYYY-MM" month over the
// window [today - months, today]. The result is sparse: months with no
// activity are omitted rather than zero-filled, so a six-month trend for a
// sparse ledger may return fewer than six points. Points are ordered by
// month ascending.
func (s *analyticsService) Trend(userID uint, months int) ([]TrendPoint, error) {
	if months <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be greater than zero")
	}

	endDate := s.clk.Today()
	startDate := endDate.AddDate(0, -months, 0)

	var transactions []models.Transaction
	if err := s.db.
		Where("user_id = ? AND date >= ? AND date <= ?", userID, startDate, endDate).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byMonth := make(map[string]*TrendPoint)
	for _, tx := range transactions {
		key := tx.Date.Format("2006-01")
		point, ok := byMonth[key]
		if !ok {
			point = &TrendPoint{Month: key}
			byMonth[key] = point
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			point.Income += tx.Amount
		case models.TransactionTypeExpense:
			point.Expense += tx.Amount
		}
	}

	trend := make([]TrendPoint, 0, len(byMonth))
	for _, point := range byMonth {
		trend = append(trend, *point)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Month < trend[j].Month })

	return trend, nil
}
