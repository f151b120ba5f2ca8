package util

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateUsername_Valid(t *testing.T) {
	testCases := []string{"abc", "alice_99", "A1b2C3", "aaaaaaaaaaaaaaaaaaaa"}

	for _, name := range testCases {
		if err := ValidateUsername(name); err != nil {
			t.Errorf("ValidateUsername(%q) error = %v, want nil", name, err)
		}
	}
}

func TestValidateUsername_Invalid(t *testing.T) {
	testCases := []string{"", "ab", "with space", "dash-name", "тест", "aaaaaaaaaaaaaaaaaaaaa"}

	for _, name := range testCases {
		if err := ValidateUsername(name); err == nil {
			t.Errorf("ValidateUsername(%q) error = nil, want error", name)
		}
	}
}

func TestValidatePassword_Valid(t *testing.T) {
	testCases := []string{"Passw0rd", "Aa345678", "Str0ngEnough"}

	for _, pwd := range testCases {
		if err := ValidatePassword(pwd); err != nil {
			t.Errorf("ValidatePassword(%q) error = %v, want nil", pwd, err)
		}
	}
}

func TestValidatePassword_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"Aa1",             // too short
		"alllowercase1",   // no upper
		"ALLUPPERCASE1",   // no lower
		"NoDigitsHere",    // no digit
	}

	for _, pwd := range testCases {
		if err := ValidatePassword(pwd); err == nil {
			t.Errorf("ValidatePassword(%q) error = nil, want error", pwd)
		}
	}
}

func TestValidatePeriod(t *testing.T) {
	valid := [][2]int{{2024, 1}, {2024, 12}, {1970, 6}, {9999, 12}}
	for _, p := range valid {
		if err := ValidatePeriod(p[0], p[1]); err != nil {
			t.Errorf("ValidatePeriod(%d, %d) error = %v, want nil", p[0], p[1], err)
		}
	}

	invalid := [][2]int{{2024, 0}, {2024, 13}, {1969, 6}, {10000, 1}, {0, 0}}
	for _, p := range invalid {
		if err := ValidatePeriod(p[0], p[1]); err == nil {
			t.Errorf("ValidatePeriod(%d, %d) error = nil, want error", p[0], p[1])
		}
	}
}

func TestValidateAmount(t *testing.T) {
	valid := []string{"0", "0.01", "100.5", "9999999.99"}
	for _, s := range valid {
		v, _ := decimal.NewFromString(s)
		if err := ValidateAmount(v); err != nil {
			t.Errorf("ValidateAmount(%s) error = %v, want nil", s, err)
		}
	}

	invalid := []string{"-0.01", "-100", "10000000", "99999999"}
	for _, s := range invalid {
		v, _ := decimal.NewFromString(s)
		if err := ValidateAmount(v); err == nil {
			t.Errorf("ValidateAmount(%s) error = nil, want error", s)
		}
	}
}
