package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type distinguishes money coming in from money going out. These are the only
// two valid values; the stored name matches the type column in the ledger.
type Type string

const (
	TypeIncome  Type = "INCOME"
	TypeExpense Type = "EXPENSE"
)

// IsValid reports whether t is one of the two known transaction types.
func (t Type) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single ledger entry. The id is store-assigned on create
// and never reused; every other field may be edited in place.
type Transaction struct {
	ID         int64
	Amount     decimal.Decimal
	Type       Type
	Category   string
	Notes      string
	OccurredAt time.Time
}

// CategorySum holds the total expense amount for a single category.
type CategorySum struct {
	Category string
	Total    decimal.Decimal
}
