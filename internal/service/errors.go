package service

import "errors"

// Domain errors. Handlers match these with errors.Is and map them to the
// HTTP envelope; lookups scoped to the wrong user surface the same
// not-found sentinel as missing rows.
var (
	ErrExpenseTypeNotFound = errors.New("expense type not found")
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrIncomeTypeNotFound  = errors.New("income type not found")
	ErrIncomeNotFound      = errors.New("income not found")
	ErrSavingTypeNotFound  = errors.New("saving type not found")
	ErrSavingValueNotFound = errors.New("saving value not found")

	// period collisions on the unique (type, year, month) indexes
	ErrExpenseExists     = errors.New("expense already exists for this period")
	ErrIncomeExists      = errors.New("income already exists for this period")
	ErrSavingValueExists = errors.New("saving deposit already exists for this period")
)
