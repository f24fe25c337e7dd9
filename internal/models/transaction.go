package models

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/types"
)

// Transaction represents a single income or expense entry. Whether it counts
// as income or expense is derived from its category's type.
type Transaction struct {
	Base
	UserID          uint            `gorm:"not null;index" json:"-"`
	CategoryID      *uint           `json:"categoryId,omitempty"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description     string          `gorm:"size:255;not null" json:"description"`
	TransactionDate types.Date      `gorm:"not null;index" json:"transactionDate"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
