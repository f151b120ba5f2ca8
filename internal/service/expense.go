package service

import (
	"errors"
	"time"

	"github.com/ferrarijessie/j.money.api/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseTypePatch carries the fields an update may touch. Nil means
// "leave unchanged".
type ExpenseTypePatch struct {
	Name      *string
	Category  *models.ExpenseCategory
	Recurrent *bool
	BaseValue *decimal.Decimal
	EndDate   *time.Time
}

// ExpensePatch mirrors the original update surface: value and paid only.
type ExpensePatch struct {
	Value *decimal.Decimal
	Paid  *bool
}

// ExpenseService owns expense types and their monthly entries.
type ExpenseService struct {
	db     *gorm.DB
	ledger *ledger[models.ExpenseType, models.Expense]
}

func NewExpenseService(db *gorm.DB) *ExpenseService {
	return &ExpenseService{
		db: db,
		ledger: &ledger[models.ExpenseType, models.Expense]{
			statusColumn: "paid",
			newEntry: func(typeID uint, year, month int, value decimal.Decimal) models.Expense {
				return models.Expense{TypeID: typeID, Year: year, Month: month, Value: value}
			},
		},
	}
}

// ---------- expense types ----------

func (s *ExpenseService) Types(userID uint) ([]models.ExpenseType, error) {
	var types []models.ExpenseType
	err := s.db.Where("user_id = ?", userID).Order("id").Find(&types).Error
	return types, err
}

func (s *ExpenseService) TypesByCategory(userID uint, category models.ExpenseCategory) ([]models.ExpenseType, error) {
	var types []models.ExpenseType
	err := s.db.Where("user_id = ? AND category = ?", userID, category).Order("id").Find(&types).Error
	return types, err
}

func (s *ExpenseService) TypeByID(userID, id uint) (models.ExpenseType, error) {
	var t models.ExpenseType
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return t, ErrExpenseTypeNotFound
	}
	return t, err
}

func (s *ExpenseService) CreateType(t *models.ExpenseType) error {
	return s.db.Create(t).Error
}

// UpdateType applies the patch and, when the base value actually changed,
// propagates the new value to unsettled current and future entries. The
// caller supplies "now" so the current-period cutoff is explicit.
func (s *ExpenseService) UpdateType(userID, id uint, patch ExpenseTypePatch, now time.Time) (models.ExpenseType, error) {
	t, err := s.TypeByID(userID, id)
	if err != nil {
		return t, err
	}
	oldBase := t.BaseValue

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.Recurrent != nil {
		updates["recurrent"] = *patch.Recurrent
	}
	if patch.BaseValue != nil {
		updates["base_value"] = *patch.BaseValue
	}
	if patch.EndDate != nil {
		updates["end_date"] = *patch.EndDate
	}
	if len(updates) > 0 {
		if err := s.db.Model(&t).Updates(updates).Error; err != nil {
			return t, err
		}
	}

	if patch.BaseValue != nil && !patch.BaseValue.Equal(oldBase) {
		if err := s.ledger.propagateBaseValue(s.db, t.ID, *patch.BaseValue, now); err != nil {
			return t, err
		}
	}

	return s.TypeByID(userID, id)
}

// DeleteType removes the type and all its entries atomically.
func (s *ExpenseService) DeleteType(userID, id uint) error {
	t, err := s.TypeByID(userID, id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("type_id = ?", t.ID).Delete(&models.Expense{}).Error; err != nil {
			return err
		}
		return tx.Delete(&t).Error
	})
}

// ---------- expenses ----------

// ownership of an expense is derived through its type, never stored on the
// entry row itself
func (s *ExpenseService) ownedExpenses(userID uint) *gorm.DB {
	return s.db.Model(&models.Expense{}).
		Preload("Type").
		Select("expenses.*").
		Joins("JOIN expense_types ON expense_types.id = expenses.type_id").
		Where("expense_types.user_id = ?", userID)
}

func (s *ExpenseService) Expenses(userID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	err := s.ownedExpenses(userID).Order("expenses.year, expenses.month, expenses.id").Find(&expenses).Error
	return expenses, err
}

func (s *ExpenseService) ExpensesByCategory(userID uint, category models.ExpenseCategory) ([]models.Expense, error) {
	var expenses []models.Expense
	err := s.ownedExpenses(userID).
		Where("expense_types.category = ?", category).
		Order("expenses.year, expenses.month, expenses.id").
		Find(&expenses).Error
	return expenses, err
}

func (s *ExpenseService) ExpenseByID(userID, id uint) (models.Expense, error) {
	var e models.Expense
	err := s.ownedExpenses(userID).Where("expenses.id = ?", id).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return e, ErrExpenseNotFound
	}
	return e, err
}

func (s *ExpenseService) CreateExpense(userID uint, e *models.Expense) error {
	// the referenced type must belong to the caller
	if _, err := s.TypeByID(userID, e.TypeID); err != nil {
		return err
	}
	if err := s.db.Create(e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrExpenseExists
		}
		return err
	}
	return nil
}

func (s *ExpenseService) UpdateExpense(userID, id uint, patch ExpensePatch) (models.Expense, error) {
	e, err := s.ExpenseByID(userID, id)
	if err != nil {
		return e, err
	}

	updates := map[string]interface{}{}
	if patch.Value != nil {
		updates["value"] = *patch.Value
	}
	if patch.Paid != nil {
		updates["paid"] = *patch.Paid
	}
	if len(updates) == 0 {
		return e, nil
	}
	if err := s.db.Model(&e).Updates(updates).Error; err != nil {
		return e, err
	}
	return s.ExpenseByID(userID, id)
}

func (s *ExpenseService) DeleteExpense(userID, id uint) error {
	e, err := s.ExpenseByID(userID, id)
	if err != nil {
		return err
	}
	return s.db.Delete(&models.Expense{}, e.ID).Error
}

// ListForPeriod runs the recurrence engine over the caller's expense types
// for one month, optionally restricted to a category.
func (s *ExpenseService) ListForPeriod(userID uint, year, month int, category models.ExpenseCategory) ([]Row[models.ExpenseType, models.Expense], error) {
	var (
		types []models.ExpenseType
		err   error
	)
	if category == "" {
		types, err = s.Types(userID)
	} else {
		types, err = s.TypesByCategory(userID, category)
	}
	if err != nil {
		return nil, err
	}
	return s.ledger.entriesForPeriod(s.db, types, year, month)
}
