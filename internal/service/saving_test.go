package service

import (
	"errors"
	"testing"

	"github.com/ferrarijessie/j.money.api/internal/models"
)

func seedSavingValue(t *testing.T, svc *SavingService, typeID uint, year, month int, value string, used bool) models.SavingValue {
	t.Helper()

	v := models.SavingValue{
		TypeID: typeID,
		Value:  dec(t, value),
		Year:   year,
		Month:  month,
		Used:   used,
	}
	if err := svc.db.Create(&v).Error; err != nil {
		t.Fatalf("seed saving value: %v", err)
	}
	return v
}

func newSavingType(t *testing.T, svc *SavingService, userID uint, name string, active bool) models.SavingType {
	t.Helper()

	typ := models.SavingType{
		UserID:    userID,
		Name:      name,
		Active:    active,
		BaseValue: dec(t, "0"),
	}
	if err := svc.CreateType(&typ); err != nil {
		t.Fatalf("create saving type: %v", err)
	}
	return typ
}

// TestBalanceAsOf_MonthAsymmetry checks the balance cutoffs: deposits count
// only from months strictly before the period, withdrawals up to and
// including it. A deposit and a withdrawal in the same month therefore show
// as a negative balance for that month and flip positive the next.
func TestBalanceAsOf_MonthAsymmetry(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice")
	svc := NewSavingService(db)

	typ := newSavingType(t, svc, user.ID, "Vacation", true)
	seedSavingValue(t, svc, typ.ID, 2024, 9, "200.00", false)
	seedSavingValue(t, svc, typ.ID, 2024, 9, "100.00", true)

	sameMonth, err := svc.BalanceAsOf(typ.ID, 2024, 9)
	if err != nil {
		t.Fatalf("balance 2024/9: %v", err)
	}
	if !sameMonth.Equal(dec(t, "-100.00")) {
		t.Errorf("balance for 2024/9 = %s, want -100.00", sameMonth)
	}

	nextMonth, err := svc.BalanceAsOf(typ.ID, 2024, 10)
	if err != nil {
		t.Fatalf("balance 2024/10: %v", err)
	}
	if !nextMonth.Equal(dec(t, "100.00")) {
		t.Errorf("balance for 2024/10 = %s, want 100.00", nextMonth)
	}
}

// TestBalanceAsOf_YearBoundary checks the cutoff comparison across years.
func TestBalanceAsOf_YearBoundary(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice")
	svc := NewSavingService(db)

	typ := newSavingType(t, svc, user.ID, "Vacation", true)
	seedSavingValue(t, svc, typ.ID, 2023, 12, "500.00", false)
	seedSavingValue(t, svc, typ.ID, 2024, 1, "50.00", true)

	balance, err := svc.BalanceAsOf(typ.ID, 2024, 1)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(dec(t, "450.00")) {
		t.Errorf("balance for 2024/1 = %s, want 450.00", balance)
	}
}

// TestSummaryForPeriod_ActiveOnly checks the summary covers active types
// only and splits balance from the month's own deposits.
func TestSummaryForPeriod_ActiveOnly(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice")
	svc := NewSavingService(db)

	vacation := newSavingType(t, svc, user.ID, "Vacation", true)
	closed := newSavingType(t, svc, user.ID, "Old fund", false)
	seedSavingValue(t, svc, vacation.ID, 2024, 8, "300.00", false)
	seedSavingValue(t, svc, vacation.ID, 2024, 9, "150.00", false)
	seedSavingValue(t, svc, closed.ID, 2024, 8, "999.00", false)

	rows, err := svc.SummaryForPeriod(user.ID, 2024, 9)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 (inactive type excluded)", len(rows))
	}
	row := rows[0]
	if row.TypeID != vacation.ID {
		t.Fatalf("row type = %d, want %d", row.TypeID, vacation.ID)
	}
	if !row.Balance.Equal(dec(t, "300.00")) {
		t.Errorf("balance = %s, want 300.00 (September deposit excluded)", row.Balance)
	}
	if !row.CurrentMonthValue.Equal(dec(t, "150.00")) {
		t.Errorf("currentMonthValue = %s, want 150.00", row.CurrentMonthValue)
	}
}

// TestSameMonthDepositAndWithdrawal checks that a used and an unused entry
// can coexist for the same type and period.
func TestSameMonthDepositAndWithdrawal(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice")
	svc := NewSavingService(db)

	typ := newSavingType(t, svc, user.ID, "Vacation", true)
	deposit := models.SavingValue{TypeID: typ.ID, Value: dec(t, "200.00"), Year: 2024, Month: 9}
	if err := svc.CreateValue(user.ID, &deposit); err != nil {
		t.Fatalf("create deposit: %v", err)
	}
	withdrawal := models.SavingValue{TypeID: typ.ID, Value: dec(t, "100.00"), Year: 2024, Month: 9, Used: true}
	if err := svc.CreateValue(user.ID, &withdrawal); err != nil {
		t.Fatalf("create withdrawal in same month: %v", err)
	}

	values, err := svc.Values(user.ID)
	if err != nil {
		t.Fatalf("values: %v", err)
	}
	if len(values) != 2 {
		t.Errorf("values = %d, want 2", len(values))
	}
}

// TestCreateValue_DuplicateDeposit checks the deposit-side period index:
// a second unused entry for the month conflicts, a withdrawal does not.
func TestCreateValue_DuplicateDeposit(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice")
	svc := NewSavingService(db)

	typ := newSavingType(t, svc, user.ID, "Vacation", true)
	deposit := models.SavingValue{TypeID: typ.ID, Value: dec(t, "200.00"), Year: 2024, Month: 9}
	if err := svc.CreateValue(user.ID, &deposit); err != nil {
		t.Fatalf("create deposit: %v", err)
	}

	dup := models.SavingValue{TypeID: typ.ID, Value: dec(t, "50.00"), Year: 2024, Month: 9}
	if err := svc.CreateValue(user.ID, &dup); !errors.Is(err, ErrSavingValueExists) {
		t.Errorf("duplicate deposit: err = %v, want ErrSavingValueExists", err)
	}

	withdrawal := models.SavingValue{TypeID: typ.ID, Value: dec(t, "80.00"), Year: 2024, Month: 9, Used: true}
	if err := svc.CreateValue(user.ID, &withdrawal); err != nil {
		t.Errorf("withdrawal in same month: err = %v, want nil", err)
	}

	// flipping the withdrawal into a deposit collides with the existing one
	used := false
	if _, err := svc.UpdateValue(user.ID, withdrawal.ID, SavingValuePatch{Used: &used}); !errors.Is(err, ErrSavingValueExists) {
		t.Errorf("flip withdrawal to deposit: err = %v, want ErrSavingValueExists", err)
	}
}

// TestUpdateSavingType_NoPropagation checks that changing a saving type's
// base value leaves existing deposits untouched.
func TestUpdateSavingType_NoPropagation(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice")
	svc := NewSavingService(db)

	typ := newSavingType(t, svc, user.ID, "Vacation", true)
	entry := seedSavingValue(t, svc, typ.ID, 2099, 1, "10.00", false)

	newBase := dec(t, "75.00")
	if _, err := svc.UpdateType(user.ID, typ.ID, SavingTypePatch{BaseValue: &newBase}); err != nil {
		t.Fatalf("update type: %v", err)
	}

	var v models.SavingValue
	if err := db.First(&v, entry.ID).Error; err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !v.Value.Equal(dec(t, "10.00")) {
		t.Errorf("deposit value = %s, want unchanged 10.00", v.Value)
	}
}

// TestUnusedTotalForMonth checks the month aggregate feeding the summary,
// scoped to the calling user.
func TestUnusedTotalForMonth(t *testing.T) {
	db := newTestDB(t)
	alice := newTestUser(t, db, "alice")
	bob := newTestUser(t, db, "bob")
	svc := NewSavingService(db)

	mine := newSavingType(t, svc, alice.ID, "Vacation", true)
	theirs := newSavingType(t, svc, bob.ID, "Car", true)
	seedSavingValue(t, svc, mine.ID, 2024, 9, "150.00", false)
	seedSavingValue(t, svc, mine.ID, 2024, 9, "50.00", true)
	seedSavingValue(t, svc, mine.ID, 2024, 8, "70.00", false)
	seedSavingValue(t, svc, theirs.ID, 2024, 9, "999.00", false)

	total, err := svc.UnusedTotalForMonth(alice.ID, 2024, 9)
	if err != nil {
		t.Fatalf("unused total: %v", err)
	}
	if !total.Equal(dec(t, "150.00")) {
		t.Errorf("unused total = %s, want 150.00", total)
	}
}

// TestSavingValueTenantIsolation checks ownership is derived through the
// type on the value side too.
func TestSavingValueTenantIsolation(t *testing.T) {
	db := newTestDB(t)
	alice := newTestUser(t, db, "alice")
	bob := newTestUser(t, db, "bob")
	svc := NewSavingService(db)

	typ := newSavingType(t, svc, alice.ID, "Vacation", true)
	entry := seedSavingValue(t, svc, typ.ID, 2024, 9, "200.00", false)

	if _, err := svc.ValueByID(bob.ID, entry.ID); !errors.Is(err, ErrSavingValueNotFound) {
		t.Errorf("ValueByID as bob: err = %v, want ErrSavingValueNotFound", err)
	}
	v := models.SavingValue{TypeID: typ.ID, Value: dec(t, "10.00"), Year: 2024, Month: 9}
	if err := svc.CreateValue(bob.ID, &v); !errors.Is(err, ErrSavingTypeNotFound) {
		t.Errorf("CreateValue on alice's type as bob: err = %v, want ErrSavingTypeNotFound", err)
	}
}
