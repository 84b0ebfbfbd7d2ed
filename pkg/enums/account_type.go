package enums

import "fmt"

// AccountType distinguishes admin-console accounts from floor operators.
type AccountType string

const (
	AccountTypeAdmin    AccountType = "admin"
	AccountTypeOperator AccountType = "operator"
)

var validAccountTypes = []AccountType{
	AccountTypeAdmin,
	AccountTypeOperator,
}

// String implements fmt.Stringer.
func (a AccountType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AccountType.
func (a AccountType) IsValid() bool {
	for _, candidate := range validAccountTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAccountType converts raw input into an AccountType.
func ParseAccountType(value string) (AccountType, error) {
	for _, candidate := range validAccountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid account type %q", value)
}
