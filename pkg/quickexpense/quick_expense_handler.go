package quickexpense

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mulahmanage/mulah/internal/rest"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type QuickExpenseDTO struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (handler *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new quick expense preset")
	w.Header().Set("Content-Type", "application/json")

	var dto QuickExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.service.Add(r.Context(), dto.Name, dto.Amount, dto.Category)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	presets, err := handler.service.GetAll(r.Context())
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	dtos := make([]QuickExpenseDTO, 0, len(presets))
	for _, preset := range presets {
		dtos = append(dtos, ToDTO(preset))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.service.Delete(r.Context(), id); err != nil {
		rest.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func ToDTO(preset QuickExpense) QuickExpenseDTO {
	return QuickExpenseDTO{
		ID:       preset.ID,
		Name:     preset.Name,
		Amount:   preset.Amount,
		Category: preset.Category,
	}
}
