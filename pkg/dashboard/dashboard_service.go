package dashboard

import (
	"context"
	"sort"
	"sync"

	"github.com/mulahmanage/mulah/internal/event_bus"
	"github.com/mulahmanage/mulah/internal/types"
	"github.com/mulahmanage/mulah/internal/utils"
	"github.com/mulahmanage/mulah/pkg/budget"
	"github.com/mulahmanage/mulah/pkg/query"
	"github.com/mulahmanage/mulah/pkg/quickexpense"
	"github.com/mulahmanage/mulah/pkg/transaction"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// BudgetDetail pairs a budgeted category with what has actually been spent on
// it. Categories with a budget but no spend carry AmountSpent zero; expense
// categories without a budget do not appear at all.
type BudgetDetail struct {
	Category     string
	BudgetAmount decimal.Decimal
	AmountSpent  decimal.Decimal
}

// Summary is one consistent snapshot of everything the dashboard surface
// renders. All monetary fields derive from a single read of the ledger.
type Summary struct {
	Balance           decimal.Decimal
	TotalIncome       decimal.Decimal
	TotalExpenses     decimal.Decimal
	ExpenseByCategory []transaction.CategorySum
	BudgetDetails     []BudgetDetail
	SelectedMonth     types.Month
	Transactions      []transaction.Transaction
}

// Service aggregates the ledger for presentation. Reads are live views that
// follow writes automatically; writes delegate to the entity services, which
// publish the change events the views react to.
type Service interface {
	// Balance is income minus expenses over the whole ledger, recomputed in
	// one snapshot pass so a half-applied write can never be observed.
	Balance() *query.View[decimal.Decimal]
	// BudgetDetails joins budgets against expense sums; it reacts to both
	// budget and transaction writes.
	BudgetDetails() *query.View[[]BudgetDetail]

	SelectedMonth() types.Month
	SelectNextMonth() types.Month
	SelectPreviousMonth() types.Month

	// SubscribeTransactions delivers the selected month's transactions and
	// follows the month cursor: when the cursor moves, subscribers keep the
	// old month's rows until the new month's first value is ready.
	SubscribeTransactions() (<-chan []transaction.Transaction, func())

	AddTransaction(ctx context.Context, amount decimal.Decimal, txType transaction.Type, category, notes string) (transaction.Transaction, error)
	UpdateTransaction(ctx context.Context, tx transaction.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
	// TransactionByID resolves against the all-transactions view's current
	// snapshot, which may trail the store by one recompute cycle. A miss
	// reports found=false, never an error.
	TransactionByID(ctx context.Context, id int64) (transaction.Transaction, bool, error)

	AddQuickExpense(ctx context.Context, name string, amount decimal.Decimal, category string) (quickexpense.QuickExpense, error)
	// InvokeQuickExpense records an expense transaction from a stored preset,
	// using the preset's name as the transaction notes.
	InvokeQuickExpense(ctx context.Context, presetID int64) (transaction.Transaction, error)

	UpsertBudget(ctx context.Context, category string, amount decimal.Decimal) (budget.Budget, error)
	DeleteBudget(ctx context.Context, category string) error

	// ClearAllData wipes transactions and budgets. Quick expense presets are
	// kept on purpose: they describe recurring spending, not recorded history.
	ClearAllData(ctx context.Context) error

	Summary(ctx context.Context) (Summary, error)
	SubscribeSummary() (<-chan Summary, func())

	Close()
}

type ServiceImpl struct {
	transactions  transaction.Service
	quickExpenses quickexpense.Service
	budgets       budget.Service
	queries       *query.Queries
	bus           *event_bus.EventBus

	balance       *query.View[decimal.Decimal]
	budgetDetails *query.View[[]BudgetDetail]
	summary       *query.View[Summary]

	monthMu sync.Mutex
	month   types.Month

	feedMu     sync.Mutex
	feedSubs   map[uint64]chan []transaction.Transaction
	feedNextID uint64
	feedStop   chan struct{}
	feedSwitch chan types.Month
	feedLast   []transaction.Transaction
	feedReady  bool
}

func NewService(
	transactions transaction.Service,
	quickExpenses quickexpense.Service,
	budgets budget.Service,
	queries *query.Queries,
	clock utils.Clock,
) *ServiceImpl {
	s := &ServiceImpl{
		transactions:  transactions,
		quickExpenses: quickExpenses,
		budgets:       budgets,
		queries:       queries,
		bus:           queries.Bus(),
		month:         types.MonthOf(clock.Now()),
		feedSubs:      make(map[uint64]chan []transaction.Transaction),
	}

	onLedger := []event_bus.EventType{event_bus.TransactionsChanged}
	onBudgets := []event_bus.EventType{event_bus.TransactionsChanged, event_bus.BudgetsChanged}
	onSummary := []event_bus.EventType{event_bus.TransactionsChanged, event_bus.BudgetsChanged, event_bus.MonthSelectionChanged}

	s.balance = query.NewView("balance", s.bus, onLedger, queries.Grace(), s.computeBalance)
	s.budgetDetails = query.NewView("budget-details", s.bus, onBudgets, queries.Grace(), s.computeBudgetDetails)
	s.summary = query.NewView("summary", s.bus, onSummary, queries.Grace(), s.computeSummary)

	return s
}

func (s *ServiceImpl) Balance() *query.View[decimal.Decimal] {
	return s.balance
}

func (s *ServiceImpl) BudgetDetails() *query.View[[]BudgetDetail] {
	return s.budgetDetails
}

func (s *ServiceImpl) SelectedMonth() types.Month {
	s.monthMu.Lock()
	defer s.monthMu.Unlock()
	return s.month
}

func (s *ServiceImpl) SelectNextMonth() types.Month {
	s.monthMu.Lock()
	s.month = s.month.Next()
	month := s.month
	s.monthMu.Unlock()

	s.monthMoved(month)
	return month
}

func (s *ServiceImpl) SelectPreviousMonth() types.Month {
	s.monthMu.Lock()
	s.month = s.month.Previous()
	month := s.month
	s.monthMu.Unlock()

	s.monthMoved(month)
	return month
}

func (s *ServiceImpl) monthMoved(month types.Month) {
	s.feedMu.Lock()
	if s.feedSwitch != nil {
		sendLatest(s.feedSwitch, month)
	}
	s.feedMu.Unlock()

	if err := s.bus.Publish(event_bus.NewEvent(context.Background(), event_bus.MonthSelectionChanged, month)); err != nil {
		log.Errorf("could not publish month selection change: %v", err)
	}
}

func (s *ServiceImpl) SubscribeTransactions() (<-chan []transaction.Transaction, func()) {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()

	if s.feedStop == nil {
		s.feedStop = make(chan struct{})
		s.feedSwitch = make(chan types.Month, 1)
		go s.runFeed(s.feedStop, s.feedSwitch, s.SelectedMonth())
	}

	s.feedNextID++
	id := s.feedNextID
	ch := make(chan []transaction.Transaction, 1)
	if s.feedReady {
		ch <- s.feedLast
	}
	s.feedSubs[id] = ch

	cancelled := false
	cancel := func() {
		s.feedMu.Lock()
		defer s.feedMu.Unlock()
		if cancelled {
			return
		}
		cancelled = true
		delete(s.feedSubs, id)
		if len(s.feedSubs) == 0 && s.feedStop != nil {
			close(s.feedStop)
			s.feedStop = nil
			s.feedSwitch = nil
			s.feedReady = false
		}
	}
	return ch, cancel
}

// runFeed pumps the selected month's view into the feed subscribers. On a
// month switch it subscribes to the new month first and only drops the old
// subscription after the new month's first value has been delivered, so the
// feed never goes blank in between.
func (s *ServiceImpl) runFeed(stop chan struct{}, switchMonth chan types.Month, month types.Month) {
	viewCh, cancelView := s.queries.TransactionsForMonth(month).Subscribe()
	defer func() { cancelView() }()

	for {
		select {
		case <-stop:
			return
		case entries := <-viewCh:
			s.broadcast(entries)
		case next := <-switchMonth:
			newCh, cancelNew := s.queries.TransactionsForMonth(next).Subscribe()
			waiting := true
			for waiting {
				select {
				case <-stop:
					cancelNew()
					return
				case next = <-switchMonth:
					cancelNew()
					newCh, cancelNew = s.queries.TransactionsForMonth(next).Subscribe()
				case entries := <-newCh:
					cancelView()
					viewCh, cancelView = newCh, cancelNew
					s.broadcast(entries)
					waiting = false
				}
			}
		}
	}
}

func (s *ServiceImpl) broadcast(entries []transaction.Transaction) {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	s.feedLast = entries
	s.feedReady = true
	for _, ch := range s.feedSubs {
		sendLatest(ch, entries)
	}
}

func (s *ServiceImpl) AddTransaction(ctx context.Context, amount decimal.Decimal, txType transaction.Type, category, notes string) (transaction.Transaction, error) {
	return s.transactions.Add(ctx, amount, txType, category, notes)
}

func (s *ServiceImpl) UpdateTransaction(ctx context.Context, tx transaction.Transaction) error {
	return s.transactions.Update(ctx, tx)
}

func (s *ServiceImpl) DeleteTransaction(ctx context.Context, id int64) error {
	return s.transactions.Delete(ctx, id)
}

func (s *ServiceImpl) TransactionByID(ctx context.Context, id int64) (transaction.Transaction, bool, error) {
	entries, err := s.queries.AllTransactions().Current(ctx)
	if err != nil {
		return transaction.Transaction{}, false, err
	}
	for _, tx := range entries {
		if tx.ID == id {
			return tx, true, nil
		}
	}
	return transaction.Transaction{}, false, nil
}

func (s *ServiceImpl) AddQuickExpense(ctx context.Context, name string, amount decimal.Decimal, category string) (quickexpense.QuickExpense, error) {
	return s.quickExpenses.Add(ctx, name, amount, category)
}

func (s *ServiceImpl) InvokeQuickExpense(ctx context.Context, presetID int64) (transaction.Transaction, error) {
	preset, err := s.quickExpenses.GetByID(ctx, presetID)
	if err != nil {
		return transaction.Transaction{}, err
	}
	return s.transactions.Add(ctx, preset.Amount, transaction.TypeExpense, preset.Category, preset.Name)
}

func (s *ServiceImpl) UpsertBudget(ctx context.Context, category string, amount decimal.Decimal) (budget.Budget, error) {
	return s.budgets.Upsert(ctx, category, amount)
}

func (s *ServiceImpl) DeleteBudget(ctx context.Context, category string) error {
	return s.budgets.Delete(ctx, category)
}

func (s *ServiceImpl) ClearAllData(ctx context.Context) error {
	if err := s.transactions.ClearAll(ctx); err != nil {
		return err
	}
	return s.budgets.ClearAll(ctx)
}

func (s *ServiceImpl) Summary(ctx context.Context) (Summary, error) {
	return s.summary.Current(ctx)
}

func (s *ServiceImpl) SubscribeSummary() (<-chan Summary, func()) {
	return s.summary.Subscribe()
}

// Close stops the month feed. Live views tear themselves down once their
// subscribers are gone.
func (s *ServiceImpl) Close() {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	if s.feedStop != nil {
		close(s.feedStop)
		s.feedStop = nil
		s.feedSwitch = nil
	}
	s.feedSubs = make(map[uint64]chan []transaction.Transaction)
	s.feedReady = false
}

func (s *ServiceImpl) computeBalance(ctx context.Context) (decimal.Decimal, error) {
	entries, err := s.transactions.GetAll(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, tx := range entries {
		switch tx.Type {
		case transaction.TypeIncome:
			balance = balance.Add(tx.Amount)
		case transaction.TypeExpense:
			balance = balance.Sub(tx.Amount)
		}
	}
	return balance, nil
}

func (s *ServiceImpl) computeBudgetDetails(ctx context.Context) ([]BudgetDetail, error) {
	budgets, err := s.budgets.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.transactions.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return joinBudgets(budgets, expenseSums(entries)), nil
}

func (s *ServiceImpl) computeSummary(ctx context.Context) (Summary, error) {
	entries, err := s.transactions.GetAll(ctx)
	if err != nil {
		return Summary{}, err
	}
	budgets, err := s.budgets.GetAll(ctx)
	if err != nil {
		return Summary{}, err
	}
	month := s.SelectedMonth()

	totalIncome := decimal.Zero
	totalExpenses := decimal.Zero
	spent := make(map[string]decimal.Decimal)
	monthEntries := make([]transaction.Transaction, 0)
	for _, tx := range entries {
		switch tx.Type {
		case transaction.TypeIncome:
			totalIncome = totalIncome.Add(tx.Amount)
		case transaction.TypeExpense:
			totalExpenses = totalExpenses.Add(tx.Amount)
			spent[tx.Category] = spent[tx.Category].Add(tx.Amount)
		}
		if month.Contains(tx.OccurredAt) {
			monthEntries = append(monthEntries, tx)
		}
	}

	byCategory := make([]transaction.CategorySum, 0, len(spent))
	for category, total := range spent {
		byCategory = append(byCategory, transaction.CategorySum{Category: category, Total: total})
	}
	sort.Slice(byCategory, func(i, j int) bool {
		return byCategory[i].Category < byCategory[j].Category
	})

	return Summary{
		Balance:           totalIncome.Sub(totalExpenses),
		TotalIncome:       totalIncome,
		TotalExpenses:     totalExpenses,
		ExpenseByCategory: byCategory,
		BudgetDetails:     joinBudgets(budgets, spent),
		SelectedMonth:     month,
		Transactions:      monthEntries,
	}, nil
}

func expenseSums(entries []transaction.Transaction) map[string]decimal.Decimal {
	spent := make(map[string]decimal.Decimal)
	for _, tx := range entries {
		if tx.Type == transaction.TypeExpense {
			spent[tx.Category] = spent[tx.Category].Add(tx.Amount)
		}
	}
	return spent
}

func joinBudgets(budgets []budget.Budget, spent map[string]decimal.Decimal) []BudgetDetail {
	details := make([]BudgetDetail, 0, len(budgets))
	for _, b := range budgets {
		details = append(details, BudgetDetail{
			Category:     b.Category,
			BudgetAmount: b.MonthlyAmount,
			AmountSpent:  spent[b.Category],
		})
	}
	sort.Slice(details, func(i, j int) bool {
		return details[i].Category < details[j].Category
	})
	return details
}

func sendLatest[T any](ch chan T, value T) {
	select {
	case ch <- value:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- value:
		default:
		}
	}
}
