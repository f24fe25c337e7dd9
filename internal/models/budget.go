package models

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/types"
)

// DefaultBudgetPeriod is the period label applied when none is given.
// The period is an opaque grouping label; the engine never derives the
// date window from it.
const DefaultBudgetPeriod = "monthly"

// Budget represents a spending limit for an expense category over an
// inclusive date range. At most one budget may exist per (user, category)
// for any overlapping range.
type Budget struct {
	Base
	UserID     uint            `gorm:"not null;index" json:"-"`
	CategoryID uint            `gorm:"not null;index" json:"categoryId"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Period     string          `gorm:"size:20;default:monthly" json:"period"`
	StartDate  types.Date      `gorm:"not null" json:"startDate"`
	EndDate    types.Date      `gorm:"not null" json:"endDate"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}
