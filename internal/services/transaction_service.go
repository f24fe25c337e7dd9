package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/types"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction records a new transaction against a category the user owns.
func (s *transactionService) CreateTransaction(
	userID, categoryID uint,
	amount decimal.Decimal,
	description string,
	date types.Date,
) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.ErrAmountNotPositive
	}

	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCategory
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	transaction := &models.Transaction{
		UserID:          userID,
		CategoryID:      &categoryID,
		Amount:          amount,
		Description:     description,
		TransactionDate: date,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	transaction.Category = &category
	return transaction, nil
}

// GetUserTransactions returns a paginated list of the user's transactions,
// newest first, with optional category/type/date filters.
func (s *transactionService) GetUserTransactions(
	userID uint,
	page pagination.PageRequest,
	filter TransactionFilter,
) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("transactions.user_id = ?", userID)
	if filter.CategoryID != nil {
		base = base.Where("transactions.category_id = ?", *filter.CategoryID)
	}
	if filter.StartDate != nil {
		base = base.Where("transactions.transaction_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		base = base.Where("transactions.transaction_date <= ?", *filter.EndDate)
	}
	if filter.Type != nil {
		base = base.
			Joins("JOIN categories ON categories.id = transactions.category_id").
			Where("categories.type = ?", *filter.Type)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").
		Order("transactions.transaction_date DESC").
		Order("transactions.id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page, totalItems)
	return &result, nil
}

// GetTransactionByID returns a transaction by ID if it belongs to the user.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies a partial update to a transaction. Only non-nil
// patch fields change; a new category must belong to the user.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, patch TransactionPatch) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if patch.Amount != nil && !patch.Amount.IsPositive() {
		return nil, apperrors.ErrAmountNotPositive
	}

	if patch.CategoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND user_id = ?", *patch.CategoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrInvalidCategory
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	updates := make(map[string]interface{})
	if patch.Amount != nil {
		updates["amount"] = *patch.Amount
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.TransactionDate != nil {
		updates["transaction_date"] = *patch.TransactionDate
	}
	if patch.CategoryID != nil {
		updates["category_id"] = *patch.CategoryID
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction removes a transaction.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SumInRange totals the user's transactions for one category with
// transaction dates inside [start, end]. Both endpoints are inclusive.
// No matching rows sums to zero.
func (s *transactionService) SumInRange(userID, categoryID uint, start, end types.Date) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := s.db.Model(&models.Transaction{}).
		Select("SUM(amount)").
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Where("transaction_date >= ? AND transaction_date <= ?", start, end).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// GetSummary totals the user's transactions by category type over an
// optional date range. Transactions without a category are excluded.
func (s *transactionService) GetSummary(userID uint, start, end *types.Date) (*TransactionSummary, error) {
	query := s.db.Model(&models.Transaction{}).
		Select("categories.type AS category_type, SUM(transactions.amount) AS total").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ?", userID)
	if start != nil {
		query = query.Where("transactions.transaction_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("transactions.transaction_date <= ?", *end)
	}

	var rows []struct {
		CategoryType models.CategoryType
		Total        decimal.Decimal
	}
	if err := query.Group("categories.type").Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &TransactionSummary{
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
	}
	for _, row := range rows {
		switch row.CategoryType {
		case models.CategoryTypeIncome:
			summary.Income = row.Total
		case models.CategoryTypeExpense:
			summary.Expenses = row.Total
		}
	}
	summary.Balance = summary.Income.Sub(summary.Expenses)

	return summary, nil
}
