package service

import (
	"testing"
	"time"

	"github.com/ferrarijessie/j.money.api/internal/models"
)

// TestListForPeriod_MaterializesRecurrent checks that viewing a month creates
// one entry per recurrent type, carrying the base value and unsettled.
func TestListForPeriod_MaterializesRecurrent(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice")
	svc := NewExpenseService(db)

	typ := models.ExpenseType{
		UserID:    user.ID,
		Name:      "Rent",
		Category:  models.CategoryHouse,
		Recurrent: true,
		BaseValue: dec(t, "1200.00"),
	}
	if err := svc.CreateType(&typ); err != nil {
		t.Fatalf("create type: %v", err)
	}

	rows, err := svc.ListForPeriod(user.ID, 2024, 7, "")
	if err != nil {
		t.Fatalf("list for period: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	entry := rows[0].Entry
	if !entry.Value.Equal(dec(t, "1200.00")) {
		t.Errorf("entry value = %s, want 1200.00", entry.Value)
	}
	if entry.Paid {
		t.Error("materialized entry is paid, want unpaid")
	}
	if entry.Year != 2024 || entry.Month != 7 {
		t.Errorf("entry period = %d/%d, want 2024/7", entry.Year, entry.Month)
	}
}

// TestListForPeriod_Idempotent checks that viewing the same month twice does
// not duplicate entries.
func TestListForPeriod_Idempotent(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice")
	svc := NewExpenseService(db)

	typ := models.ExpenseType{
		UserID:    user.ID,
		Name:      "Rent",
		Category:  models.CategoryHouse,
		Recurrent: true,
		BaseValue: dec(t, "1200.00"),
	}
	if err := svc.CreateType(&typ); err != nil {
		t.Fatalf("create type: %v", err)
	}

	first, err := svc.ListForPeriod(user.ID, 2024, 7, "")
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	second, err := svc.ListForPeriod(user.ID, 2024, 7, "")
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("second list rows = %d, want 1", len(second))
	}
	if first[0].Entry.ID != second[0].Entry.ID {
		t.Errorf("second view created a new entry: %d != %d", second[0].Entry.ID, first[0].Entry.ID)
	}

	var count int64
	if err := db.Model(&models.Expense{}).Where("type_id = ?", typ.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("stored entries = %d, want 1", count)
	}
}

// TestListForPeriod_NonRecurrentOmitted checks that a non-recurrent type
// contributes nothing until an entry is created by hand.
func TestListForPeriod_NonRecurrentOmitted(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice")
	svc := NewExpenseService(db)

	typ := models.ExpenseType{
		UserID:    user.ID,
		Name:      "Dentist",
		Category:  models.CategoryHealth,
		Recurrent: false,
		BaseValue: dec(t, "90.00"),
	}
	if err := svc.CreateType(&typ); err != nil {
		t.Fatalf("create type: %v", err)
	}

	rows, err := svc.ListForPeriod(user.ID, 2024, 7, "")
	if err != nil {
		t.Fatalf("list for period: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(rows))
	}

	e := models.Expense{TypeID: typ.ID, Value: dec(t, "90.00"), Month: 7, Year: 2024}
	if err := svc.CreateExpense(user.ID, &e); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	rows, err = svc.ListForPeriod(user.ID, 2024, 7, "")
	if err != nil {
		t.Fatalf("list after manual create: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Entry.ID != e.ID {
		t.Errorf("row entry = %d, want %d", rows[0].Entry.ID, e.ID)
	}
}

// TestListForPeriod_EndDateBoundary checks that a recurrent type stops
// materializing strictly after its end date's month.
func TestListForPeriod_EndDateBoundary(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice")
	svc := NewExpenseService(db)

	end := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	typ := models.ExpenseType{
		UserID:    user.ID,
		Name:      "Gym",
		Category:  models.CategoryPersonal,
		Recurrent: true,
		BaseValue: dec(t, "45.00"),
		EndDate:   &end,
	}
	if err := svc.CreateType(&typ); err != nil {
		t.Fatalf("create type: %v", err)
	}

	cases := []struct {
		year, month int
		want        int
	}{
		{2024, 6, 1},  // end month itself still runs
		{2024, 7, 0},  // first month past the end date
		{2023, 12, 1}, // earlier year with a later month number
		{2025, 6, 0},  // later year with the same month number
	}
	for _, tc := range cases {
		rows, err := svc.ListForPeriod(user.ID, tc.year, tc.month, "")
		if err != nil {
			t.Fatalf("list %d/%d: %v", tc.year, tc.month, err)
		}
		if len(rows) != tc.want {
			t.Errorf("rows for %d/%d = %d, want %d", tc.year, tc.month, len(rows), tc.want)
		}
	}
}

// TestListForPeriod_CategoryFilter checks that a category narrows the
// materialization to matching types only.
func TestListForPeriod_CategoryFilter(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice")
	svc := NewExpenseService(db)

	rent := models.ExpenseType{
		UserID: user.ID, Name: "Rent", Category: models.CategoryHouse,
		Recurrent: true, BaseValue: dec(t, "1200.00"),
	}
	gym := models.ExpenseType{
		UserID: user.ID, Name: "Gym", Category: models.CategoryPersonal,
		Recurrent: true, BaseValue: dec(t, "45.00"),
	}
	for _, typ := range []*models.ExpenseType{&rent, &gym} {
		if err := svc.CreateType(typ); err != nil {
			t.Fatalf("create type: %v", err)
		}
	}

	rows, err := svc.ListForPeriod(user.ID, 2024, 7, models.CategoryHouse)
	if err != nil {
		t.Fatalf("list for period: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Type.ID != rent.ID {
		t.Errorf("row type = %d, want %d", rows[0].Type.ID, rent.ID)
	}

	// The filtered view must not have skipped the other type's entry for the
	// unfiltered one.
	rows, err = svc.ListForPeriod(user.ID, 2024, 7, "")
	if err != nil {
		t.Fatalf("unfiltered list: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("unfiltered rows = %d, want 2", len(rows))
	}
}

// TestIncomeListForPeriod_MaterializesRecurrent checks the engine runs the
// same way over the income ledger.
func TestIncomeListForPeriod_MaterializesRecurrent(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice")
	svc := NewIncomeService(db)

	typ := models.IncomeType{
		UserID:    user.ID,
		Name:      "Salary",
		Recurrent: true,
		BaseValue: dec(t, "5000.00"),
	}
	if err := svc.CreateType(&typ); err != nil {
		t.Fatalf("create type: %v", err)
	}

	rows, err := svc.ListForPeriod(user.ID, 2024, 7)
	if err != nil {
		t.Fatalf("list for period: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if !rows[0].Entry.Value.Equal(dec(t, "5000.00")) {
		t.Errorf("entry value = %s, want 5000.00", rows[0].Entry.Value)
	}
	if rows[0].Entry.Received {
		t.Error("materialized income is received, want not received")
	}
}
