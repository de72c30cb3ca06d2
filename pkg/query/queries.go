package query

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mulahmanage/mulah/internal/event_bus"
	"github.com/mulahmanage/mulah/internal/types"
	"github.com/mulahmanage/mulah/pkg/budget"
	"github.com/mulahmanage/mulah/pkg/quickexpense"
	"github.com/mulahmanage/mulah/pkg/transaction"
	"github.com/shopspring/decimal"
)

// Queries is the ledger's query layer: every derived value the dashboard
// needs, exposed as live views over the store. Each view recomputes whenever
// a write touches one of the tables it depends on; nothing here is ever
// refreshed manually.
type Queries struct {
	bus           *event_bus.EventBus
	transactions  transaction.Repo
	quickExpenses quickexpense.Repo
	budgets       budget.Repo
	grace         time.Duration

	totalIncome       *View[decimal.Decimal]
	totalExpenses     *View[decimal.Decimal]
	expenseByCategory *View[[]transaction.CategorySum]
	allTransactions   *View[[]transaction.Transaction]
	allBudgets        *View[[]budget.Budget]
	allQuickExpenses  *View[[]quickexpense.QuickExpense]

	mu      sync.Mutex
	monthly map[types.Month]*View[[]transaction.Transaction]
}

func New(transactions transaction.Repo, quickExpenses quickexpense.Repo, budgets budget.Repo, bus *event_bus.EventBus, grace time.Duration) *Queries {
	q := &Queries{
		bus:           bus,
		transactions:  transactions,
		quickExpenses: quickExpenses,
		budgets:       budgets,
		grace:         grace,
		monthly:       make(map[types.Month]*View[[]transaction.Transaction]),
	}

	onTransactions := []event_bus.EventType{event_bus.TransactionsChanged}
	onBudgets := []event_bus.EventType{event_bus.BudgetsChanged}
	onQuickExpenses := []event_bus.EventType{event_bus.QuickExpensesChanged}

	q.totalIncome = NewView("total-income", bus, onTransactions, grace, q.computeTotal(transaction.TypeIncome))
	q.totalExpenses = NewView("total-expenses", bus, onTransactions, grace, q.computeTotal(transaction.TypeExpense))
	q.expenseByCategory = NewView("expense-by-category", bus, onTransactions, grace, q.computeExpenseByCategory)
	q.allTransactions = NewView("all-transactions", bus, onTransactions, grace, q.transactions.GetAll)
	q.allBudgets = NewView("all-budgets", bus, onBudgets, grace, q.budgets.GetAll)
	q.allQuickExpenses = NewView("all-quick-expenses", bus, onQuickExpenses, grace, q.quickExpenses.GetAll)

	return q
}

// TotalIncome is the sum of all income amounts; an empty ledger sums to 0.
func (q *Queries) TotalIncome() *View[decimal.Decimal] {
	return q.totalIncome
}

// TotalExpenses is the sum of all expense amounts; an empty ledger sums to 0.
func (q *Queries) TotalExpenses() *View[decimal.Decimal] {
	return q.totalExpenses
}

// ExpenseByCategory groups expense transactions by category. Categories
// without any expense are absent, not zero.
func (q *Queries) ExpenseByCategory() *View[[]transaction.CategorySum] {
	return q.expenseByCategory
}

// AllTransactions is every ledger entry, newest first.
func (q *Queries) AllTransactions() *View[[]transaction.Transaction] {
	return q.allTransactions
}

// AllBudgets is every budget row.
func (q *Queries) AllBudgets() *View[[]budget.Budget] {
	return q.allBudgets
}

// AllQuickExpenses is every stored preset, ordered by name.
func (q *Queries) AllQuickExpenses() *View[[]quickexpense.QuickExpense] {
	return q.allQuickExpenses
}

// TransactionsForMonth is the ledger filtered to one local calendar month,
// newest first. The month filter is pushed down to the store; views for
// months nobody is looking at tear down after the grace period.
func (q *Queries) TransactionsForMonth(month types.Month) *View[[]transaction.Transaction] {
	q.mu.Lock()
	defer q.mu.Unlock()

	if view, ok := q.monthly[month]; ok {
		return view
	}

	view := NewView(
		"transactions-"+month.String(),
		q.bus,
		[]event_bus.EventType{event_bus.TransactionsChanged},
		q.grace,
		func(ctx context.Context) ([]transaction.Transaction, error) {
			from, to := month.Bounds(time.Local)
			return q.transactions.FindForRange(ctx, from, to)
		},
	)
	q.monthly[month] = view
	return view
}

// Bus returns the event bus shared by every view. The dashboard composes its
// own derived views (balance, budget details) on the same bus.
func (q *Queries) Bus() *event_bus.EventBus {
	return q.bus
}

// Grace returns the teardown grace period views are built with.
func (q *Queries) Grace() time.Duration {
	return q.grace
}

func (q *Queries) computeTotal(txType transaction.Type) func(context.Context) (decimal.Decimal, error) {
	return func(ctx context.Context) (decimal.Decimal, error) {
		transactions, err := q.transactions.GetAll(ctx)
		if err != nil {
			return decimal.Zero, err
		}

		total := decimal.Zero
		for _, tx := range transactions {
			if tx.Type == txType {
				total = total.Add(tx.Amount)
			}
		}
		return total, nil
	}
}

func (q *Queries) computeExpenseByCategory(ctx context.Context) ([]transaction.CategorySum, error) {
	transactions, err := q.transactions.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if tx.Type != transaction.TypeExpense {
			continue
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}

	sums := make([]transaction.CategorySum, 0, len(totals))
	for category, total := range totals {
		sums = append(sums, transaction.CategorySum{Category: category, Total: total})
	}
	sort.Slice(sums, func(i, j int) bool {
		return sums[i].Category < sums[j].Category
	})
	return sums, nil
}
