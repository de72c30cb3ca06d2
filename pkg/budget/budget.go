package budget

import "github.com/shopspring/decimal"

// Budget is a monthly spending target for one category. The category is the
// key: setting a budget for a category that already has one replaces the
// amount, and there is no period-over-period history.
type Budget struct {
	Category      string
	MonthlyAmount decimal.Decimal
}
