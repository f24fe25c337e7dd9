package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Defaults applied when a category is created without a color or icon.
const (
	DefaultCategoryColor = "#3B82F6"
	DefaultCategoryIcon  = "dollar-sign"
)

// Category represents a transaction category
type Category struct {
	Base
	UserID uint         `gorm:"not null;index" json:"-"`
	Name   string       `gorm:"size:100;not null" json:"name"`
	Type   CategoryType `gorm:"size:10;not null" json:"type"`
	Color  string       `gorm:"size:7;default:#3B82F6" json:"color"`
	Icon   string       `gorm:"size:50;default:dollar-sign" json:"icon"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"-"`
	Budgets      []Budget      `gorm:"foreignKey:CategoryID" json:"-"`
}
