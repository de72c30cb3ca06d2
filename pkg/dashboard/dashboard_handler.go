package dashboard

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mulahmanage/mulah/internal/rest"
	"github.com/mulahmanage/mulah/pkg/transaction"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type BudgetDetailDTO struct {
	Category     string          `json:"category"`
	BudgetAmount decimal.Decimal `json:"budgetAmount"`
	AmountSpent  decimal.Decimal `json:"amountSpent"`
}

type CategorySumDTO struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type SummaryDTO struct {
	Balance           decimal.Decimal              `json:"balance"`
	TotalIncome       decimal.Decimal              `json:"totalIncome"`
	TotalExpenses     decimal.Decimal              `json:"totalExpenses"`
	ExpenseByCategory []CategorySumDTO             `json:"expenseByCategory"`
	BudgetDetails     []BudgetDetailDTO            `json:"budgetDetails"`
	SelectedMonth     string                       `json:"selectedMonth"`
	Transactions      []transaction.TransactionDTO `json:"transactions"`
}

type MonthDTO struct {
	SelectedMonth string `json:"selectedMonth"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	summary, err := handler.service.Summary(r.Context())
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toSummaryDTO(summary)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Stream pushes summary snapshots as server-sent events until the client
// disconnects. Each committed write produces at most one event; a slow client
// skips intermediate snapshots and receives the latest.
func (handler *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	summaries, cancel := handler.service.SubscribeSummary()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case summary := <-summaries:
			payload, err := json.Marshal(toSummaryDTO(summary))
			if err != nil {
				log.Errorf("could not marshal summary event: %v", err)
				continue
			}
			if _, err := w.Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (handler *Handler) NextMonth(w http.ResponseWriter, r *http.Request) {
	handler.writeMonth(w, handler.service.SelectNextMonth().String())
}

func (handler *Handler) PreviousMonth(w http.ResponseWriter, r *http.Request) {
	handler.writeMonth(w, handler.service.SelectPreviousMonth().String())
}

func (handler *Handler) writeMonth(w http.ResponseWriter, month string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(MonthDTO{SelectedMonth: month}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) ClearAll(w http.ResponseWriter, r *http.Request) {
	log.Debug("Clearing all ledger data")

	if err := handler.service.ClearAllData(r.Context()); err != nil {
		rest.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) InvokeQuickExpense(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	created, err := handler.service.InvokeQuickExpense(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(transaction.ToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func toSummaryDTO(summary Summary) SummaryDTO {
	byCategory := make([]CategorySumDTO, 0, len(summary.ExpenseByCategory))
	for _, sum := range summary.ExpenseByCategory {
		byCategory = append(byCategory, CategorySumDTO{Category: sum.Category, Total: sum.Total})
	}

	details := make([]BudgetDetailDTO, 0, len(summary.BudgetDetails))
	for _, detail := range summary.BudgetDetails {
		details = append(details, BudgetDetailDTO{
			Category:     detail.Category,
			BudgetAmount: detail.BudgetAmount,
			AmountSpent:  detail.AmountSpent,
		})
	}

	transactions := make([]transaction.TransactionDTO, 0, len(summary.Transactions))
	for _, tx := range summary.Transactions {
		transactions = append(transactions, transaction.ToDTO(tx))
	}

	return SummaryDTO{
		Balance:           summary.Balance,
		TotalIncome:       summary.TotalIncome,
		TotalExpenses:     summary.TotalExpenses,
		ExpenseByCategory: byCategory,
		BudgetDetails:     details,
		SelectedMonth:     summary.SelectedMonth.String(),
		Transactions:      transactions,
	}
}
