package database

import (
	"fmt"

	"github.com/ferrarijessie/j.money.api/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.AuditLog{},
		&models.ExpenseType{},
		&models.Expense{},
		&models.IncomeType{},
		&models.Income{},
		&models.SavingType{},
		&models.SavingValue{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
