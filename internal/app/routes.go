package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Transactions
	r.HandleFunc("/api/transactions", deps.TransactionHandler.Create).Methods("POST")
	r.HandleFunc("/api/transactions", deps.TransactionHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/transactions", deps.DashboardHandler.ClearAll).Methods("DELETE")
	r.HandleFunc("/api/transactions/export", deps.TransactionHandler.Export).Methods("GET")
	r.HandleFunc("/api/transactions/{id}", deps.TransactionHandler.Get).Methods("GET")
	r.HandleFunc("/api/transactions/{id}", deps.TransactionHandler.Update).Methods("PUT")
	r.HandleFunc("/api/transactions/{id}", deps.TransactionHandler.Delete).Methods("DELETE")

	// Quick expenses
	r.HandleFunc("/api/quick-expenses", deps.QuickExpenseHandler.Create).Methods("POST")
	r.HandleFunc("/api/quick-expenses", deps.QuickExpenseHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/quick-expenses/{id}", deps.QuickExpenseHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/quick-expenses/{id}/invoke", deps.DashboardHandler.InvokeQuickExpense).Methods("POST")

	// Budgets
	r.HandleFunc("/api/budgets", deps.BudgetHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/budgets/{category}", deps.BudgetHandler.Upsert).Methods("PUT")
	r.HandleFunc("/api/budgets/{category}", deps.BudgetHandler.Delete).Methods("DELETE")

	// Dashboard
	r.HandleFunc("/api/dashboard/summary", deps.DashboardHandler.Summary).Methods("GET")
	r.HandleFunc("/api/dashboard/stream", deps.DashboardHandler.Stream).Methods("GET")
	r.HandleFunc("/api/dashboard/month/next", deps.DashboardHandler.NextMonth).Methods("POST")
	r.HandleFunc("/api/dashboard/month/previous", deps.DashboardHandler.PreviousMonth).Methods("POST")

	// Settings
	r.HandleFunc("/api/settings", deps.SettingsHandler.Get).Methods("GET")
	r.HandleFunc("/api/settings", deps.SettingsHandler.Update).Methods("PUT")
}
