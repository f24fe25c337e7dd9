package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// defaultCategories are seeded for every new user on registration.
var defaultCategories = []models.Category{
	{Name: "Food & Dining", Color: "#EF4444", Icon: "utensils", Type: models.CategoryTypeExpense},
	{Name: "Transportation", Color: "#F59E0B", Icon: "car", Type: models.CategoryTypeExpense},
	{Name: "Shopping", Color: "#8B5CF6", Icon: "shopping-bag", Type: models.CategoryTypeExpense},
	{Name: "Entertainment", Color: "#EC4899", Icon: "film", Type: models.CategoryTypeExpense},
	{Name: "Bills & Utilities", Color: "#6B7280", Icon: "file-text", Type: models.CategoryTypeExpense},
	{Name: "Healthcare", Color: "#10B981", Icon: "heart", Type: models.CategoryTypeExpense},
	{Name: "Salary", Color: "#059669", Icon: "briefcase", Type: models.CategoryTypeIncome},
	{Name: "Freelance", Color: "#0EA5E9", Icon: "laptop", Type: models.CategoryTypeIncome},
	{Name: "Other Income", Color: "#6366F1", Icon: "plus-circle", Type: models.CategoryTypeIncome},
}

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category. The (name, type) pair must be
// unique per user.
func (s *categoryService) CreateCategory(
	userID uint,
	name string,
	categoryType models.CategoryType,
	color, icon string,
) (*models.Category, error) {
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ? AND type = ?", userID, name, categoryType).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategory
	}

	if color == "" {
		color = models.DefaultCategoryColor
	}
	if icon == "" {
		icon = models.DefaultCategoryIcon
	}

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Type:   categoryType,
		Color:  color,
		Icon:   icon,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetUserCategories returns all of the user's categories ordered by name,
// optionally restricted to one type.
func (s *categoryService) GetUserCategories(userID uint, categoryType *models.CategoryType) ([]models.Category, error) {
	query := s.db.Where("user_id = ?", userID)
	if categoryType != nil {
		query = query.Where("type = ?", *categoryType)
	}

	var categories []models.Category
	if err := query.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID returns a category by ID if it belongs to the user.
func (s *categoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory applies a partial update to a category. The type is
// immutable; a rename is checked against the per-user uniqueness rule.
func (s *categoryService) UpdateCategory(userID, categoryID uint, patch CategoryPatch) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != category.Name {
		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("user_id = ? AND name = ? AND type = ? AND id <> ?", userID, *patch.Name, category.Type, categoryID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateCategory
		}
	}

	updates := make(map[string]interface{})
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Color != nil {
		updates["color"] = *patch.Color
	}
	if patch.Icon != nil {
		updates["icon"] = *patch.Icon
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory removes a category and its budgets. Deletion is refused
// while transactions still reference the category.
func (s *categoryService) DeleteCategory(userID, categoryID uint) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	var txCount int64
	if err := s.db.Model(&models.Transaction{}).
		Where("category_id = ?", categoryID).
		Count(&txCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if txCount > 0 {
		return apperrors.WithMessage(apperrors.ErrCategoryInUse,
			fmt.Sprintf("Cannot delete category. It is used by %d transaction(s)", txCount))
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", categoryID).Delete(&models.Budget{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// SeedDefaults creates the starter category set for a new user.
func (s *categoryService) SeedDefaults(userID uint) error {
	categories := make([]models.Category, len(defaultCategories))
	for i, c := range defaultCategories {
		c.UserID = userID
		categories[i] = c
	}

	if err := s.db.Create(&categories).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetSpendingStats aggregates transaction totals per category, largest
// first. Categories without matching transactions are included with a
// zero total.
func (s *categoryService) GetSpendingStats(userID uint, filter SpendingFilter) ([]CategorySpending, error) {
	query := s.db.Model(&models.Category{}).
		Select("categories.id, categories.name, categories.color, categories.icon, categories.type, COALESCE(SUM(transactions.amount), 0) AS total, COUNT(transactions.id) AS transaction_count")

	join := "LEFT JOIN transactions ON transactions.category_id = categories.id AND transactions.deleted_at IS NULL"
	args := []interface{}{}
	if filter.StartDate != nil {
		join += " AND transactions.transaction_date >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		join += " AND transactions.transaction_date <= ?"
		args = append(args, *filter.EndDate)
	}
	query = query.Joins(join, args...).Where("categories.user_id = ?", userID)

	if filter.Type != nil {
		query = query.Where("categories.type = ?", *filter.Type)
	}

	var rows []struct {
		ID               uint
		Name             string
		Color            string
		Icon             string
		Type             models.CategoryType
		Total            decimal.NullDecimal
		TransactionCount int64
	}
	if err := query.
		Group("categories.id, categories.name, categories.color, categories.icon, categories.type").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats := make([]CategorySpending, 0, len(rows))
	for _, row := range rows {
		total := decimal.Zero
		if row.Total.Valid {
			total = row.Total.Decimal
		}
		stats = append(stats, CategorySpending{
			Category: CategorySummary{
				ID:    row.ID,
				Name:  row.Name,
				Color: row.Color,
				Icon:  row.Icon,
				Type:  row.Type,
			},
			Total:            total,
			TransactionCount: row.TransactionCount,
		})
	}
	return stats, nil
}
