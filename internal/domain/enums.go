package domain

// BudgetPeriod represents the window a budget applies to.
type BudgetPeriod string

const (
	BudgetPeriodDaily   BudgetPeriod = "daily"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
)

// ValidBudgetPeriod reports whether p is a known period.
func ValidBudgetPeriod(p BudgetPeriod) bool {
	return p == BudgetPeriodDaily || p == BudgetPeriodMonthly
}

// KeyStatus represents the lifecycle state of an API key.
type KeyStatus string

const (
	KeyStatusActive  KeyStatus = "active"
	KeyStatusRevoked KeyStatus = "revoked"
)

// Status returns the lifecycle state of the key.
func (k *APIKey) Status() KeyStatus {
	if k.RevokedAt != nil {
		return KeyStatusRevoked
	}
	return KeyStatusActive
}
