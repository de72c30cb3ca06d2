package app

import (
	"database/sql"
	"time"

	"github.com/mulahmanage/mulah/internal/config"
	"github.com/mulahmanage/mulah/internal/event_bus"
	"github.com/mulahmanage/mulah/internal/utils"
	"github.com/mulahmanage/mulah/pkg/budget"
	"github.com/mulahmanage/mulah/pkg/dashboard"
	"github.com/mulahmanage/mulah/pkg/query"
	"github.com/mulahmanage/mulah/pkg/quickexpense"
	"github.com/mulahmanage/mulah/pkg/settings"
	"github.com/mulahmanage/mulah/pkg/transaction"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus   *event_bus.EventBus
	Clock utils.Clock

	TransactionRepo    transaction.Repo
	TransactionService transaction.Service
	CsvRenderer        *transaction.CsvRenderer
	TransactionHandler *transaction.Handler

	QuickExpenseRepo    quickexpense.Repo
	QuickExpenseService quickexpense.Service
	QuickExpenseHandler *quickexpense.Handler

	BudgetRepo    budget.Repo
	BudgetService budget.Service
	BudgetHandler *budget.Handler

	Queries *query.Queries

	DashboardService *dashboard.ServiceImpl
	DashboardHandler *dashboard.Handler

	SettingsRepo    settings.Repo
	SettingsService settings.Service
	SettingsHandler *settings.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.TransactionRepo = transaction.NewRepo(db)
	deps.TransactionService = transaction.NewService(deps.TransactionRepo, deps.Bus, deps.Clock)
	deps.CsvRenderer = transaction.NewCsvRenderer()
	deps.TransactionHandler = transaction.NewHandler(deps.TransactionService, deps.CsvRenderer)

	deps.QuickExpenseRepo = quickexpense.NewRepo(db)
	deps.QuickExpenseService = quickexpense.NewService(deps.QuickExpenseRepo, deps.Bus)
	deps.QuickExpenseHandler = quickexpense.NewHandler(deps.QuickExpenseService)

	deps.BudgetRepo = budget.NewRepo(db)
	deps.BudgetService = budget.NewService(deps.BudgetRepo, deps.Bus)
	deps.BudgetHandler = budget.NewHandler(deps.BudgetService)

	grace := time.Duration(cfg.Views.GraceSeconds) * time.Second
	deps.Queries = query.New(deps.TransactionRepo, deps.QuickExpenseRepo, deps.BudgetRepo, deps.Bus, grace)

	deps.DashboardService = dashboard.NewService(
		deps.TransactionService,
		deps.QuickExpenseService,
		deps.BudgetService,
		deps.Queries,
		deps.Clock,
	)
	deps.DashboardHandler = dashboard.NewHandler(deps.DashboardService)

	deps.SettingsRepo = settings.NewRepo(db)
	deps.SettingsService = settings.NewService(deps.SettingsRepo)
	deps.SettingsHandler = settings.NewHandler(deps.SettingsService)

	return deps
}
