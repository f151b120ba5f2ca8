package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory classifies an expense type.
type ExpenseCategory string

const (
	CategoryPersonal ExpenseCategory = "personal"
	CategoryCompany  ExpenseCategory = "company"
	CategoryHouse    ExpenseCategory = "house"
	CategoryCard     ExpenseCategory = "card"
	CategorySalon    ExpenseCategory = "salon"
	CategoryHealth   ExpenseCategory = "health"
)

// Valid reports whether c is one of the known categories.
func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryCompany, CategoryHouse, CategoryCard, CategorySalon, CategoryHealth:
		return true
	}
	return false
}

// ExpenseType is a user-defined expense category. Recurrent types get one
// Expense materialized per month until EndDate (when set).
type ExpenseType struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    uint            `gorm:"index;not null"`
	Name      string          `gorm:"size:80;not null"`
	Category  ExpenseCategory `gorm:"size:16;index;not null;default:personal"`
	Recurrent bool            `gorm:"not null;default:false"`
	BaseValue decimal.Decimal `gorm:"type:decimal(10,2)"`
	EndDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}

// Expense is one month's record of an ExpenseType.
type Expense struct {
	ID     uint            `gorm:"primaryKey"`
	TypeID uint            `gorm:"not null;uniqueIndex:idx_expense_period"`
	Value  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Month  int             `gorm:"not null;uniqueIndex:idx_expense_period"`
	Year   int             `gorm:"not null;uniqueIndex:idx_expense_period"`
	Paid   bool            `gorm:"not null;default:false"`

	Type ExpenseType `gorm:"foreignKey:TypeID;constraint:OnDelete:CASCADE"`
}

func (t ExpenseType) GetID() uint                  { return t.ID }
func (t ExpenseType) GetName() string              { return t.Name }
func (t ExpenseType) IsRecurrent() bool            { return t.Recurrent }
func (t ExpenseType) GetBaseValue() decimal.Decimal { return t.BaseValue }

// OpenAt reports whether the given period is not strictly after EndDate.
func (t ExpenseType) OpenAt(year, month int) bool {
	if t.EndDate == nil {
		return true
	}
	if year != t.EndDate.Year() {
		return year < t.EndDate.Year()
	}
	return month <= int(t.EndDate.Month())
}

func (e Expense) GetID() uint               { return e.ID }
func (e Expense) GetTypeID() uint           { return e.TypeID }
func (e Expense) GetValue() decimal.Decimal { return e.Value }
func (e Expense) GetPeriod() (int, int)     { return e.Year, e.Month }
func (e Expense) IsSettled() bool           { return e.Paid }
