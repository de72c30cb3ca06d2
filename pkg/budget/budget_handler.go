package budget

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mulahmanage/mulah/internal/rest"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type BudgetDTO struct {
	Category      string          `json:"category"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (handler *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	log.Debug("Upserting budget")
	w.Header().Set("Content-Type", "application/json")

	category := mux.Vars(r)["category"]

	var dto BudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.Category != "" && dto.Category != category {
		http.Error(w, "Category in body does not match URL", http.StatusBadRequest)
		return
	}

	budget, err := handler.service.Upsert(r.Context(), category, dto.MonthlyAmount)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ToDTO(budget)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	budgets, err := handler.service.GetAll(r.Context())
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	dtos := make([]BudgetDTO, 0, len(budgets))
	for _, budget := range budgets {
		dtos = append(dtos, ToDTO(budget))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	if err := handler.service.Delete(r.Context(), category); err != nil {
		rest.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func ToDTO(budget Budget) BudgetDTO {
	return BudgetDTO{
		Category:      budget.Category,
		MonthlyAmount: budget.MonthlyAmount,
	}
}
