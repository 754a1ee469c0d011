package services

import (
	"time"

	"finledger/internal/models"
	"finledger/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// CategoryTotals accumulates income/expense/count for one category node.
type CategoryTotals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Count   int     `json:"count"`
}

// Add accumulates other into t.
func (t *CategoryTotals) Add(other CategoryTotals) {
	t.Income += other.Income
	t.Expense += other.Expense
	t.Count += other.Count
}

// CategoryTreeNode is one node of the two-level category tree with rolled-up
// totals. A parent's totals include its own direct transactions plus every
// child's totals.
type CategoryTreeNode struct {
	ID       uint               `json:"id"`
	Name     string             `json:"name"`
	ParentID *uint              `json:"parent_id,omitempty"`
	Totals   CategoryTotals     `json:"totals"`
	Children []CategoryTreeNode `json:"children,omitempty"`
}

// CategoryTree is the full rolled-up taxonomy for one user's transactions.
// Transactions without a category are not attached to any node; their
// totals are reported separately in Uncategorized.
type CategoryTree struct {
	Roots         []CategoryTreeNode `json:"categories"`
	Uncategorized CategoryTotals     `json:"uncategorized"`
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name string, parentID *uint) (*models.Category, error)
	GetCategories() ([]models.Category, error)
	GetCategoryByID(categoryID uint) (*models.Category, error)
	UpdateCategory(categoryID uint, name string, parentID *uint) (*models.Category, error)
	DeleteCategory(categoryID uint) error
	TreeWithTotals(userID uint, startDate, endDate *time.Time) (*CategoryTree, error)
	Merge(sourceID, targetID uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *uint
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, categoryID *uint, transactionType models.TransactionType, amount float64, date time.Time, note string) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// BudgetStatus describes how far a budget has been consumed by expense
// transactions within its own date window.
type BudgetStatus struct {
	BudgetID        uint                `json:"budget_id"`
	AmountLimit     float64             `json:"amount_limit"`
	AmountSpent     float64             `json:"amount_spent"`
	AmountRemaining float64             `json:"amount_remaining"`
	PercentageUsed  float64             `json:"percentage_used"`
	IsOverBudget    bool                `json:"is_over_budget"`
	Period          models.BudgetPeriod `json:"period"`
	CategoryName    string              `json:"category_name"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, categoryID uint, amountLimit float64, period models.BudgetPeriod, startDate, endDate time.Time) (*models.Budget, error)
	GetUserBudgets(userID uint) ([]models.Budget, error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
	Usage(userID, categoryID uint, startDate, endDate time.Time) (float64, error)
	Status(userID, budgetID uint) (*BudgetStatus, error)
}

// GoalProgress describes how far along a savings goal is, including the
// pace needed to reach it by its target date when one is set.
type GoalProgress struct {
	GoalID             uint              `json:"goal_id"`
	Title              string            `json:"title"`
	TargetAmount       float64           `json:"target_amount"`
	CurrentAmount      float64           `json:"current_amount"`
	RemainingAmount    float64           `json:"remaining_amount"`
	ProgressPercentage float64           `json:"progress_percentage"`
	DaysRemaining      *int              `json:"days_remaining,omitempty"`
	DailySavingsNeeded *float64          `json:"daily_savings_needed,omitempty"`
	IsCompleted        bool              `json:"is_completed"`
	Status             models.GoalStatus `json:"status"`
}

// GoalServicer defines the contract for goal-related business logic.
type GoalServicer interface {
	CreateGoal(userID uint, title string, targetAmount, currentAmount float64, targetDate *time.Time) (*models.Goal, error)
	GetUserGoals(userID uint) ([]models.Goal, error)
	GetGoalByID(userID, goalID uint) (*models.Goal, error)
	Progress(userID, goalID uint) (*GoalProgress, error)
	ApplyContribution(userID, goalID uint, amount float64) (*models.Goal, error)
}

// RecurringServicer defines the contract for recurring-transaction rules.
type RecurringServicer interface {
	CreateRecurring(userID, categoryID uint, amount float64, transactionType models.TransactionType, frequency models.Frequency, nextDueDate time.Time, description string) (*models.RecurringTransaction, error)
	GetUserRecurring(userID uint) ([]models.RecurringTransaction, error)
	GetRecurringByID(userID, recurringID uint) (*models.RecurringTransaction, error)
	SetActive(userID, recurringID uint, active bool) (*models.RecurringTransaction, error)
	DeleteRecurring(userID, recurringID uint) error
	DueRules(asOf time.Time, userID *uint) ([]models.RecurringTransaction, error)
	Process(recurringID uint) (*models.Transaction, error)
	ProcessDue(userID uint) ([]models.Transaction, error)
}

// CategorySummary accumulates per-category figures inside a monthly summary.
type CategorySummary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Count   int     `json:"count"`
}

// MonthlySummary aggregates one calendar month of a user's transactions.
type MonthlySummary struct {
	Period              string                     `json:"period"`
	TotalIncome         float64                    `json:"total_income"`
	TotalExpenses       float64                    `json:"total_expenses"`
	NetAmount           float64                    `json:"net_amount"`
	TransactionCount    int                        `json:"transaction_count"`
	CategoryBreakdown   map[string]CategorySummary `json:"category_breakdown"`
	AverageDailyExpense float64                    `json:"average_daily_expense"`
}

// TrendPoint is one month's totals inside a spending trend.
type TrendPoint struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// AnalyticsServicer defines the contract for period and trend analytics.
type AnalyticsServicer interface {
	MonthlySummary(userID uint, year int, month time.Month) (*MonthlySummary, error)
	Trend(userID uint, months int) ([]TrendPoint, error)
}
