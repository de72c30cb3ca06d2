package quickexpense

import "github.com/shopspring/decimal"

// QuickExpense is a reusable template for a common expense. Invoking it
// copies name, amount, and category by value into a new expense transaction;
// there is no link back, so deleting either side never touches the other.
// Duplicate names are allowed and are distinct presets.
type QuickExpense struct {
	ID       int64
	Name     string
	Amount   decimal.Decimal
	Category string
}
