package event_bus

// Change topics published by the ledger services. Live views subscribe to the
// topics of every table they derive from.
const (
	TransactionsChanged  EventType = "ledger.transactions.changed"
	BudgetsChanged       EventType = "ledger.budgets.changed"
	QuickExpensesChanged EventType = "ledger.quick_expenses.changed"

	// MonthSelectionChanged fires when the dashboard's month cursor moves.
	// Its payload is the newly selected types.Month.
	MonthSelectionChanged EventType = "dashboard.month.changed"
)

// ChangeKind describes what happened to a table row.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
	ChangeCleared ChangeKind = "cleared"
)

// TableChanged is the payload of every ledger change event. ID is zero for
// clear-all changes and for tables keyed by category, where Category is set
// instead.
type TableChanged struct {
	Kind     ChangeKind
	ID       int64
	Category string
}
