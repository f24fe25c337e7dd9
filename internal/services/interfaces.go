package services

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/types"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// CategoryPatch holds optional fields for a partial category update.
// Nil fields are left unchanged.
type CategoryPatch struct {
	Name  *string
	Color *string
	Icon  *string
}

// CategorySpending aggregates transaction totals for one category.
type CategorySpending struct {
	Category         CategorySummary `json:"category"`
	Total            decimal.Decimal `json:"total"`
	TransactionCount int64           `json:"transactionCount"`
}

// SpendingFilter holds optional filters for category spending statistics.
type SpendingFilter struct {
	Type      *models.CategoryType
	StartDate *types.Date
	EndDate   *types.Date
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string, categoryType models.CategoryType, color, icon string) (*models.Category, error)
	GetUserCategories(userID uint, categoryType *models.CategoryType) ([]models.Category, error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, patch CategoryPatch) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
	SeedDefaults(userID uint) error
	GetSpendingStats(userID uint, filter SpendingFilter) ([]CategorySpending, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	CategoryID *uint
	Type       *models.CategoryType
	StartDate  *types.Date
	EndDate    *types.Date
}

// TransactionPatch holds optional fields for a partial transaction update.
type TransactionPatch struct {
	Amount          *decimal.Decimal
	Description     *string
	TransactionDate *types.Date
	CategoryID      *uint
}

// TransactionSummary totals all transactions by their category type.
type TransactionSummary struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// TransactionServicer defines the contract for transaction-related business
// logic. SumInRange is the aggregation primitive the budget engine builds on.
type TransactionServicer interface {
	CreateTransaction(userID, categoryID uint, amount decimal.Decimal, description string, date types.Date) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, patch TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
	SumInRange(userID, categoryID uint, start, end types.Date) (decimal.Decimal, error)
	GetSummary(userID uint, start, end *types.Date) (*TransactionSummary, error)
}

// BudgetStatus classifies how far spending has progressed against a budget.
type BudgetStatus string

const (
	BudgetStatusGood    BudgetStatus = "good"
	BudgetStatusWarning BudgetStatus = "warning"
	BudgetStatusOver    BudgetStatus = "over"
)

// CategorySummary is the embedded category representation used in derived views.
type CategorySummary struct {
	ID    uint                `json:"id"`
	Name  string              `json:"name"`
	Color string              `json:"color"`
	Icon  string              `json:"icon"`
	Type  models.CategoryType `json:"type"`
}

// BudgetView is the derived read model for a budget. Spent, remaining,
// percentage and status are computed from live transaction sums at read
// time and are never persisted.
type BudgetView struct {
	ID         uint            `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage decimal.Decimal `json:"percentage"`
	Period     string          `json:"period"`
	StartDate  types.Date      `json:"startDate"`
	EndDate    types.Date      `json:"endDate"`
	CreatedAt  time.Time       `json:"createdAt"`
	Category   CategorySummary `json:"category"`
	Status     BudgetStatus    `json:"status"`
}

// BudgetPatch holds optional fields for a partial budget update.
// The category of a budget cannot be changed after creation.
type BudgetPatch struct {
	Amount    *decimal.Decimal
	Period    *string
	StartDate *types.Date
	EndDate   *types.Date
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	GetUserBudgets(userID uint, period string) ([]BudgetView, error)
	GetBudgetByID(userID, budgetID uint) (*BudgetView, error)
	CreateBudget(userID, categoryID uint, amount decimal.Decimal, period string, startDate, endDate types.Date) (*BudgetView, error)
	UpdateBudget(userID, budgetID uint, patch BudgetPatch) (*BudgetView, error)
	DeleteBudget(userID, budgetID uint) error
}
