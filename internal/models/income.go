package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeType is a user-defined income source. Unlike ExpenseType it has no
// end date: incomes are assumed perpetual while recurrent.
type IncomeType struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    uint            `gorm:"index;not null"`
	Name      string          `gorm:"size:80;not null"`
	Recurrent bool            `gorm:"not null;default:false"`
	BaseValue decimal.Decimal `gorm:"type:decimal(10,2)"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}

// Income is one month's record of an IncomeType.
type Income struct {
	ID       uint            `gorm:"primaryKey"`
	TypeID   uint            `gorm:"not null;uniqueIndex:idx_income_period"`
	Value    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Month    int             `gorm:"not null;uniqueIndex:idx_income_period"`
	Year     int             `gorm:"not null;uniqueIndex:idx_income_period"`
	Received bool            `gorm:"not null;default:false"`

	Type IncomeType `gorm:"foreignKey:TypeID;constraint:OnDelete:CASCADE"`
}

func (t IncomeType) GetID() uint                   { return t.ID }
func (t IncomeType) GetName() string               { return t.Name }
func (t IncomeType) IsRecurrent() bool             { return t.Recurrent }
func (t IncomeType) GetBaseValue() decimal.Decimal { return t.BaseValue }
func (t IncomeType) OpenAt(year, month int) bool   { return true }

func (i Income) GetID() uint               { return i.ID }
func (i Income) GetTypeID() uint           { return i.TypeID }
func (i Income) GetValue() decimal.Decimal { return i.Value }
func (i Income) GetPeriod() (int, int)     { return i.Year, i.Month }
func (i Income) IsSettled() bool           { return i.Received }
