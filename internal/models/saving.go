package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingType is a user-defined savings bucket. Only active types show up in
// the savings summary; like IncomeType it never terminates.
type SavingType struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    uint            `gorm:"index;not null"`
	Name      string          `gorm:"size:80;not null"`
	Active    bool            `gorm:"not null;default:false"`
	Recurrent bool            `gorm:"not null;default:false"`
	BaseValue decimal.Decimal `gorm:"type:decimal(10,2)"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}

// SavingValue is one month's deposit (used=false) or withdrawal (used=true)
// against a SavingType. The partial unique index guards deposit
// materialization against double creation while still letting a deposit and
// a withdrawal share a period.
type SavingValue struct {
	ID     uint            `gorm:"primaryKey"`
	TypeID uint            `gorm:"index;not null;uniqueIndex:idx_saving_deposit_period,where:used = false"`
	Value  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Month  int             `gorm:"not null;uniqueIndex:idx_saving_deposit_period"`
	Year   int             `gorm:"not null;uniqueIndex:idx_saving_deposit_period"`
	Used   bool            `gorm:"not null;default:false"`

	Type SavingType `gorm:"foreignKey:TypeID;constraint:OnDelete:CASCADE"`
}

func (t SavingType) GetID() uint                   { return t.ID }
func (t SavingType) GetName() string               { return t.Name }
func (t SavingType) IsRecurrent() bool             { return t.Recurrent }
func (t SavingType) GetBaseValue() decimal.Decimal { return t.BaseValue }
func (t SavingType) OpenAt(year, month int) bool   { return true }

func (v SavingValue) GetID() uint               { return v.ID }
func (v SavingValue) GetTypeID() uint           { return v.TypeID }
func (v SavingValue) GetValue() decimal.Decimal { return v.Value }
func (v SavingValue) GetPeriod() (int, int)     { return v.Year, v.Month }
func (v SavingValue) IsSettled() bool           { return v.Used }
