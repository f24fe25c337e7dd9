package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/types"
)

var (
	hundredPercent   = decimal.NewFromInt(100)
	warningThreshold = decimal.NewFromInt(80)
)

// budgetService handles budget-related business logic. It delegates
// spending aggregation to the transaction ledger.
type budgetService struct {
	db     *gorm.DB
	ledger TransactionServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, ledger TransactionServicer) BudgetServicer {
	return &budgetService{db: db, ledger: ledger}
}

// GetUserBudgets returns derived views for all of the user's budgets,
// optionally filtered by period label. Each view carries a fresh
// aggregation; results are ordered by most recent window first, then
// category name.
func (s *budgetService) GetUserBudgets(userID uint, period string) ([]BudgetView, error) {
	query := s.db.Preload("Category").
		Joins("JOIN categories ON categories.id = budgets.category_id").
		Where("budgets.user_id = ?", userID)
	if period != "" {
		query = query.Where("budgets.period = ?", period)
	}

	var budgets []models.Budget
	if err := query.
		Order("budgets.start_date DESC").
		Order("categories.name ASC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]BudgetView, 0, len(budgets))
	for i := range budgets {
		view, err := s.buildView(&budgets[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// GetBudgetByID returns the derived view for a budget if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID uint) (*BudgetView, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", budgetID, userID).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.buildView(&budget)
}

// CreateBudget creates a budget for an expense category the user owns.
// The category lookup, overlap check and insert run in one database
// transaction so concurrent creates cannot both pass the overlap check.
func (s *budgetService) CreateBudget(
	userID, categoryID uint,
	amount decimal.Decimal,
	period string,
	startDate, endDate types.Date,
) (*BudgetView, error) {
	if !amount.IsPositive() {
		return nil, apperrors.ErrAmountNotPositive
	}
	if startDate.After(endDate) {
		return nil, apperrors.ErrInvalidDateRange
	}
	if period == "" {
		period = models.DefaultBudgetPeriod
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Period:     period,
		StartDate:  startDate,
		EndDate:    endDate,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrInvalidCategory
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if category.Type != models.CategoryTypeExpense {
			return apperrors.ErrCategoryNotExpense
		}

		overlaps, err := overlapExists(tx, userID, categoryID, startDate, endDate, 0)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if overlaps {
			return apperrors.ErrBudgetOverlap
		}

		if err := tx.Create(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// A fresh aggregation: transactions recorded before the budget existed
	// may already fall inside the window.
	return s.GetBudgetByID(userID, budget.ID)
}

// UpdateBudget applies a partial update to a budget. Only non-nil patch
// fields change; the category is immutable. The overlap check runs against
// the effective window (patched dates merged over stored ones), excluding
// the budget itself, inside one database transaction.
func (s *budgetService) UpdateBudget(userID, budgetID uint, patch BudgetPatch) (*BudgetView, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var budget models.Budget
		if err := tx.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrBudgetNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if patch.Amount != nil && !patch.Amount.IsPositive() {
			return apperrors.ErrAmountNotPositive
		}

		start, end := budget.StartDate, budget.EndDate
		if patch.StartDate != nil {
			start = *patch.StartDate
		}
		if patch.EndDate != nil {
			end = *patch.EndDate
		}
		if start.After(end) {
			return apperrors.ErrInvalidDateRange
		}

		overlaps, err := overlapExists(tx, userID, budget.CategoryID, start, end, budget.ID)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if overlaps {
			return apperrors.ErrBudgetOverlap
		}

		updates := make(map[string]interface{})
		if patch.Amount != nil {
			updates["amount"] = *patch.Amount
		}
		if patch.Period != nil {
			updates["period"] = *patch.Period
		}
		if patch.StartDate != nil {
			updates["start_date"] = *patch.StartDate
		}
		if patch.EndDate != nil {
			updates["end_date"] = *patch.EndDate
		}

		if len(updates) > 0 {
			if err := tx.Model(&budget).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetBudgetByID(userID, budgetID)
}

// DeleteBudget removes a budget. Deletion is unconditional for the owner,
// regardless of spending against the budget.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBudgetNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// buildView computes the derived view for a budget from a live sum over
// its inclusive date window.
func (s *budgetService) buildView(budget *models.Budget) (*BudgetView, error) {
	spent, err := s.ledger.SumInRange(budget.UserID, budget.CategoryID, budget.StartDate, budget.EndDate)
	if err != nil {
		return nil, err
	}

	remaining := budget.Amount.Sub(spent)
	percentage := decimal.Zero
	if budget.Amount.IsPositive() {
		percentage = spent.Div(budget.Amount).Mul(hundredPercent).Round(2)
	}

	return &BudgetView{
		ID:         budget.ID,
		Amount:     budget.Amount,
		Spent:      spent,
		Remaining:  remaining,
		Percentage: percentage,
		Period:     budget.Period,
		StartDate:  budget.StartDate,
		EndDate:    budget.EndDate,
		CreatedAt:  budget.CreatedAt,
		Category: CategorySummary{
			ID:    budget.Category.ID,
			Name:  budget.Category.Name,
			Color: budget.Category.Color,
			Icon:  budget.Category.Icon,
			Type:  budget.Category.Type,
		},
		Status: statusFor(percentage),
	}, nil
}

// statusFor classifies spending against the limit. Landing exactly on the
// 80 or 100 mark does not trip the next level.
func statusFor(percentage decimal.Decimal) BudgetStatus {
	switch {
	case percentage.GreaterThan(hundredPercent):
		return BudgetStatusOver
	case percentage.GreaterThan(warningThreshold):
		return BudgetStatusWarning
	default:
		return BudgetStatusGood
	}
}

// overlapExists reports whether another budget for the same user and
// category has a date window touching [start, end]. Two inclusive windows
// overlap iff each starts on or before the other ends.
func overlapExists(tx *gorm.DB, userID, categoryID uint, start, end types.Date, excludeID uint) (bool, error) {
	query := tx.Model(&models.Budget{}).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
