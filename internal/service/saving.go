package service

import (
	"errors"

	"github.com/ferrarijessie/j.money.api/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SavingTypePatch struct {
	Name      *string
	Active    *bool
	Recurrent *bool
	BaseValue *decimal.Decimal
}

type SavingValuePatch struct {
	Value *decimal.Decimal
	Used  *bool
}

// SavingTypeSummary is one row of the savings summary: the historical
// balance of a bucket plus the deposits of the month under view.
type SavingTypeSummary struct {
	TypeID            uint
	Name              string
	Balance           decimal.Decimal
	CurrentMonthValue decimal.Decimal
}

// SavingService owns saving types, their monthly values and the balance
// engine. Base-value changes are not propagated here: used entries are
// withdrawals, not settled bills.
type SavingService struct {
	db     *gorm.DB
	ledger *ledger[models.SavingType, models.SavingValue]
}

func NewSavingService(db *gorm.DB) *SavingService {
	return &SavingService{
		db: db,
		ledger: &ledger[models.SavingType, models.SavingValue]{
			statusColumn: "used",
			newEntry: func(typeID uint, year, month int, value decimal.Decimal) models.SavingValue {
				return models.SavingValue{TypeID: typeID, Year: year, Month: month, Value: value}
			},
		},
	}
}

// ---------- saving types ----------

func (s *SavingService) Types(userID uint) ([]models.SavingType, error) {
	var types []models.SavingType
	err := s.db.Where("user_id = ?", userID).Order("id").Find(&types).Error
	return types, err
}

func (s *SavingService) ActiveTypes(userID uint) ([]models.SavingType, error) {
	var types []models.SavingType
	err := s.db.Where("user_id = ? AND active = ?", userID, true).Order("id").Find(&types).Error
	return types, err
}

func (s *SavingService) TypeByID(userID, id uint) (models.SavingType, error) {
	var t models.SavingType
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return t, ErrSavingTypeNotFound
	}
	return t, err
}

func (s *SavingService) CreateType(t *models.SavingType) error {
	return s.db.Create(t).Error
}

func (s *SavingService) UpdateType(userID, id uint, patch SavingTypePatch) (models.SavingType, error) {
	t, err := s.TypeByID(userID, id)
	if err != nil {
		return t, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Active != nil {
		updates["active"] = *patch.Active
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
	return s.TypeByID(userID, id)
}

func (s *SavingService) DeleteType(userID, id uint) error {
	t, err := s.TypeByID(userID, id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("type_id = ?", t.ID).Delete(&models.SavingValue{}).Error; err != nil {
			return err
		}
		return tx.Delete(&t).Error
	})
}

// ---------- saving values ----------

func (s *SavingService) ownedValues(userID uint) *gorm.DB {
	return s.db.Model(&models.SavingValue{}).
		Preload("Type").
		Select("saving_values.*").
		Joins("JOIN saving_types ON saving_types.id = saving_values.type_id").
		Where("saving_types.user_id = ?", userID)
}

func (s *SavingService) Values(userID uint) ([]models.SavingValue, error) {
	var values []models.SavingValue
	err := s.ownedValues(userID).Order("saving_values.year, saving_values.month, saving_values.id").Find(&values).Error
	return values, err
}

func (s *SavingService) ValueByID(userID, id uint) (models.SavingValue, error) {
	var v models.SavingValue
	err := s.ownedValues(userID).Where("saving_values.id = ?", id).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return v, ErrSavingValueNotFound
	}
	return v, err
}

func (s *SavingService) CreateValue(userID uint, v *models.SavingValue) error {
	if _, err := s.TypeByID(userID, v.TypeID); err != nil {
		return err
	}
	if err := s.db.Create(v).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSavingValueExists
		}
		return err
	}
	return nil
}

func (s *SavingService) UpdateValue(userID, id uint, patch SavingValuePatch) (models.SavingValue, error) {
	v, err := s.ValueByID(userID, id)
	if err != nil {
		return v, err
	}

	updates := map[string]interface{}{}
	if patch.Value != nil {
		updates["value"] = *patch.Value
	}
	if patch.Used != nil {
		updates["used"] = *patch.Used
	}
	if len(updates) == 0 {
		return v, nil
	}
	if err := s.db.Model(&v).Updates(updates).Error; err != nil {
		// flipping a withdrawal back to a deposit can collide with the
		// month's existing deposit
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return v, ErrSavingValueExists
		}
		return v, err
	}
	return s.ValueByID(userID, id)
}

func (s *SavingService) DeleteValue(userID, id uint) error {
	v, err := s.ValueByID(userID, id)
	if err != nil {
		return err
	}
	return s.db.Delete(&models.SavingValue{}, v.ID).Error
}

// ListForPeriod runs the recurrence engine over the caller's saving types
// for one month, materializing deposits for recurrent buckets.
func (s *SavingService) ListForPeriod(userID uint, year, month int) ([]Row[models.SavingType, models.SavingValue], error) {
	types, err := s.Types(userID)
	if err != nil {
		return nil, err
	}
	return s.ledger.entriesForPeriod(s.db, types, year, month)
}

// ---------- balance engine ----------

func (s *SavingService) sum(query *gorm.DB) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := query.Select("COALESCE(SUM(value), 0) AS total").Scan(&result).Error
	return result.Total, err
}

// BalanceAsOf computes accumulated-unused minus accumulated-used for one
// saving type up to (year, month). Deposits of the target month itself are
// excluded (they are "current month", reported separately); withdrawals of
// the target month are included.
func (s *SavingService) BalanceAsOf(typeID uint, year, month int) (decimal.Decimal, error) {
	unused, err := s.sum(s.db.Model(&models.SavingValue{}).
		Where("type_id = ? AND used = ? AND (year < ? OR (year = ? AND month < ?))",
			typeID, false, year, year, month))
	if err != nil {
		return decimal.Zero, err
	}

	used, err := s.sum(s.db.Model(&models.SavingValue{}).
		Where("type_id = ? AND used = ? AND (year < ? OR (year = ? AND month <= ?))",
			typeID, true, year, year, month))
	if err != nil {
		return decimal.Zero, err
	}

	return unused.Sub(used), nil
}

// SummaryForPeriod returns one row per active saving type: its balance as
// of the period plus the fresh deposits of that exact month.
func (s *SavingService) SummaryForPeriod(userID uint, year, month int) ([]SavingTypeSummary, error) {
	types, err := s.ActiveTypes(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]SavingTypeSummary, 0, len(types))
	for _, t := range types {
		balance, err := s.BalanceAsOf(t.ID, year, month)
		if err != nil {
			return nil, err
		}

		current, err := s.sum(s.db.Model(&models.SavingValue{}).
			Where("type_id = ? AND used = ? AND year = ? AND month = ?", t.ID, false, year, month))
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, SavingTypeSummary{
			TypeID:            t.ID,
			Name:              t.Name,
			Balance:           balance,
			CurrentMonthValue: current,
		})
	}
	return summaries, nil
}

// UnusedTotalForMonth sums the caller's unused deposits of one exact month
// across all saving types. The monthly summary counts this as spending.
func (s *SavingService) UnusedTotalForMonth(userID uint, year, month int) (decimal.Decimal, error) {
	return s.sum(s.ownedValues(userID).
		Where("saving_values.used = ? AND saving_values.year = ? AND saving_values.month = ?", false, year, month))
}
