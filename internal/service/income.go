package service

import (
	"errors"
	"time"

	"github.com/ferrarijessie/j.money.api/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type IncomeTypePatch struct {
	Name      *string
	Recurrent *bool
	BaseValue *decimal.Decimal
}

type IncomePatch struct {
	Value    *decimal.Decimal
	Received *bool
}

// IncomeService owns income types and their monthly entries. It mirrors
// ExpenseService minus categories and end dates.
type IncomeService struct {
	db     *gorm.DB
	ledger *ledger[models.IncomeType, models.Income]
}

func NewIncomeService(db *gorm.DB) *IncomeService {
	return &IncomeService{
		db: db,
		ledger: &ledger[models.IncomeType, models.Income]{
			statusColumn: "received",
			newEntry: func(typeID uint, year, month int, value decimal.Decimal) models.Income {
				return models.Income{TypeID: typeID, Year: year, Month: month, Value: value}
			},
		},
	}
}

func (s *IncomeService) Types(userID uint) ([]models.IncomeType, error) {
	var types []models.IncomeType
	err := s.db.Where("user_id = ?", userID).Order("id").Find(&types).Error
	return types, err
}

func (s *IncomeService) TypeByID(userID, id uint) (models.IncomeType, error) {
	var t models.IncomeType
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return t, ErrIncomeTypeNotFound
	}
	return t, err
}

func (s *IncomeService) CreateType(t *models.IncomeType) error {
	return s.db.Create(t).Error
}

func (s *IncomeService) UpdateType(userID, id uint, patch IncomeTypePatch, now time.Time) (models.IncomeType, error) {
	t, err := s.TypeByID(userID, id)
	if err != nil {
		return t, err
	}
	oldBase := t.BaseValue

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Recurrent != nil {
		updates["recurrent"] = *patch.Recurrent
	}
	if patch.BaseValue != nil {
		updates["base_value"] = *patch.BaseValue
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

func (s *IncomeService) DeleteType(userID, id uint) error {
	t, err := s.TypeByID(userID, id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("type_id = ?", t.ID).Delete(&models.Income{}).Error; err != nil {
			return err
		}
		return tx.Delete(&t).Error
	})
}

func (s *IncomeService) ownedIncomes(userID uint) *gorm.DB {
	return s.db.Model(&models.Income{}).
		Preload("Type").
		Select("incomes.*").
		Joins("JOIN income_types ON income_types.id = incomes.type_id").
		Where("income_types.user_id = ?", userID)
}

func (s *IncomeService) Incomes(userID uint) ([]models.Income, error) {
	var incomes []models.Income
	err := s.ownedIncomes(userID).Order("incomes.year, incomes.month, incomes.id").Find(&incomes).Error
	return incomes, err
}

func (s *IncomeService) IncomeByID(userID, id uint) (models.Income, error) {
	var i models.Income
	err := s.ownedIncomes(userID).Where("incomes.id = ?", id).First(&i).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return i, ErrIncomeNotFound
	}
	return i, err
}

func (s *IncomeService) CreateIncome(userID uint, i *models.Income) error {
	if _, err := s.TypeByID(userID, i.TypeID); err != nil {
		return err
	}
	if err := s.db.Create(i).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrIncomeExists
		}
		return err
	}
	return nil
}

func (s *IncomeService) UpdateIncome(userID, id uint, patch IncomePatch) (models.Income, error) {
	i, err := s.IncomeByID(userID, id)
	if err != nil {
		return i, err
	}

	updates := map[string]interface{}{}
	if patch.Value != nil {
		updates["value"] = *patch.Value
	}
	if patch.Received != nil {
		updates["received"] = *patch.Received
	}
	if len(updates) == 0 {
		return i, nil
	}
	if err := s.db.Model(&i).Updates(updates).Error; err != nil {
		return i, err
	}
	return s.IncomeByID(userID, id)
}

func (s *IncomeService) DeleteIncome(userID, id uint) error {
	i, err := s.IncomeByID(userID, id)
	if err != nil {
		return err
	}
	return s.db.Delete(&models.Income{}, i.ID).Error
}

// ListForPeriod runs the recurrence engine over the caller's income types
// for one month.
func (s *IncomeService) ListForPeriod(userID uint, year, month int) ([]Row[models.IncomeType, models.Income], error) {
	types, err := s.Types(userID)
	if err != nil {
		return nil, err
	}
	return s.ledger.entriesForPeriod(s.db, types, year, month)
}
