package util

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// maximum absolute amount accepted on any entry or base value
var maxAmount = decimal.NewFromInt(10000000)

// ValidateUsername checks the 3-20 letters/digits/underscore rule.
func ValidateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("username must be 3-20 letters, digits or underscores")
	}
	return nil
}

// ValidatePassword checks length and character-class requirements.
func ValidatePassword(pwd string) error {
	if len(pwd) < 8 || len(pwd) > 32 {
		return fmt.Errorf("password must be 8-32 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("password must contain upper and lower case letters and digits")
	}
	return nil
}

// ValidatePeriod checks a (year, month) pair.
func ValidatePeriod(year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	if year < 1970 || year > 9999 {
		return fmt.Errorf("year out of range, got %d", year)
	}
	return nil
}

// ValidateAmount checks an entry value (must be >= 0 and below the cap).
func ValidateAmount(v decimal.Decimal) error {
	if v.IsNegative() {
		return fmt.Errorf("amount must not be negative, got %s", v)
	}
	if v.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("amount too large, got %s", v)
	}
	return nil
}
