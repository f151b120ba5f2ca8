package service

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PeriodType is the catalog side of a recurring ledger pair (ExpenseType,
// IncomeType, SavingType).
type PeriodType interface {
	GetID() uint
	GetName() string
	IsRecurrent() bool
	GetBaseValue() decimal.Decimal
	// OpenAt reports whether entries may exist for the given period.
	OpenAt(year, month int) bool
}

// PeriodEntry is the per-month record side (Expense, Income, SavingValue).
type PeriodEntry interface {
	GetID() uint
	GetTypeID() uint
	GetValue() decimal.Decimal
	GetPeriod() (year, month int)
	IsSettled() bool
}

// Row pairs an entry with its owning type so period listings can be
// rendered without re-querying the catalog.
type Row[T PeriodType, E PeriodEntry] struct {
	Type  T
	Entry E
}

// ledger implements the recurrence and retroactive-propagation logic shared
// by expenses, incomes and savings. The settlement flag lives in a
// differently named column per entry table, hence statusColumn.
type ledger[T PeriodType, E PeriodEntry] struct {
	statusColumn string
	newEntry     func(typeID uint, year, month int, value decimal.Decimal) E
}

// entriesForPeriod returns one row per relevant type for (year, month),
// materializing missing entries for recurrent types. Non-recurrent types
// without an entry contribute nothing. Recurrent types whose end date lies
// strictly before the period are skipped entirely.
func (l *ledger[T, E]) entriesForPeriod(db *gorm.DB, types []T, year, month int) ([]Row[T, E], error) {
	rows := make([]Row[T, E], 0, len(types))
	for _, t := range types {
		if t.IsRecurrent() {
			if !t.OpenAt(year, month) {
				continue
			}
			entry, err := l.getOrCreate(db, t, year, month)
			if err != nil {
				return nil, err
			}
			rows = append(rows, Row[T, E]{Type: t, Entry: entry})
			continue
		}

		var entry E
		err := db.Where("type_id = ? AND year = ? AND month = ?", t.GetID(), year, month).
			First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row[T, E]{Type: t, Entry: entry})
	}
	return rows, nil
}

// getOrCreate fetches the entry for (type, year, month) or inserts one with
// the type's base value and an unsettled flag.
func (l *ledger[T, E]) getOrCreate(db *gorm.DB, t T, year, month int) (E, error) {
	var entry E
	err := db.Where("type_id = ? AND year = ? AND month = ?", t.GetID(), year, month).
		First(&entry).Error
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return entry, err
	}

	fresh := l.newEntry(t.GetID(), year, month, t.GetBaseValue())
	if createErr := db.Create(&fresh).Error; createErr != nil {
		// A concurrent request may have materialized the same period first;
		// the unique period index turns that race into a refetch.
		if err := db.Where("type_id = ? AND year = ? AND month = ?", t.GetID(), year, month).
			First(&entry).Error; err == nil {
			return entry, nil
		}
		return fresh, createErr
	}
	return fresh, nil
}

// propagateBaseValue overwrites the value of every unsettled entry of the
// type in the current or a future period, as of now. Past periods and
// settled entries are never touched.
func (l *ledger[T, E]) propagateBaseValue(db *gorm.DB, typeID uint, value decimal.Decimal, now time.Time) error {
	year, month := now.Year(), int(now.Month())

	return db.Transaction(func(tx *gorm.DB) error {
		var entries []E
		if err := tx.Where("type_id = ? AND year >= ? AND "+l.statusColumn+" = ?", typeID, year, false).
			Find(&entries).Error; err != nil {
			return err
		}
		var model E
		for _, e := range entries {
			y, m := e.GetPeriod()
			if y == year && m < month {
				continue
			}
			if err := tx.Model(&model).Where("id = ?", e.GetID()).
				Update("value", value).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
