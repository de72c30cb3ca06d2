package transaction

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/mulahmanage/mulah/internal/rest"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type TransactionDTO struct {
	ID         int64           `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Type       string          `json:"type"`
	Category   string          `json:"category"`
	Notes      string          `json:"notes,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

type Handler struct {
	service  Service
	renderer *CsvRenderer
}

func NewHandler(service Service, renderer *CsvRenderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

func (handler *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Recording new transaction")
	w.Header().Set("Content-Type", "application/json")

	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.service.Add(r.Context(), dto.Amount, Type(dto.Type), dto.Category, dto.Notes)
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

	transactions, err := handler.service.GetAll(r.Context())
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, tx := range transactions {
		dtos = append(dtos, ToDTO(tx))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := handler.service.GetByID(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ToDTO(tx)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.ID == 0 || dto.ID != id {
		http.Error(w, "Invalid transaction id in request body", http.StatusBadRequest)
		return
	}

	if err := handler.service.Update(r.Context(), FromDTO(dto)); err != nil {
		rest.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
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

// Export dumps every transaction as CSV for external tools. The dump is
// one-way; nothing re-imports it.
func (handler *Handler) Export(w http.ResponseWriter, r *http.Request) {
	transactions, err := handler.service.GetAll(r.Context())
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	csv, err := handler.renderer.Render(transactions)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csv)); err != nil {
		log.Errorf("failed to write CSV export: %v", err)
	}
}

func pathID(r *http.Request) (int64, error) {
	vars := mux.Vars(r)
	return strconv.ParseInt(vars["id"], 10, 64)
}

func ToDTO(tx Transaction) TransactionDTO {
	return TransactionDTO{
		ID:         tx.ID,
		Amount:     tx.Amount,
		Type:       string(tx.Type),
		Category:   tx.Category,
		Notes:      tx.Notes,
		OccurredAt: tx.OccurredAt,
	}
}

func FromDTO(dto TransactionDTO) Transaction {
	return Transaction{
		ID:         dto.ID,
		Amount:     dto.Amount,
		Type:       Type(dto.Type),
		Category:   dto.Category,
		Notes:      dto.Notes,
		OccurredAt: dto.OccurredAt,
	}
}
