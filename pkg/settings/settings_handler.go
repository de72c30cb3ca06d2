package settings

import (
	"encoding/json"
	"net/http"

	"github.com/mulahmanage/mulah/internal/rest"
	log "github.com/sirupsen/logrus"
)

type SettingsDTO struct {
	Theme               string `json:"theme"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	current, err := handler.service.Get(r.Context())
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toDTO(current)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating settings")
	w.Header().Set("Content-Type", "application/json")

	var dto SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if dto.Theme != "" {
		if err := handler.service.SetTheme(r.Context(), Theme(dto.Theme)); err != nil {
			rest.WriteError(w, err)
			return
		}
	}
	if dto.OnboardingCompleted {
		if err := handler.service.SetOnboardingCompleted(r.Context()); err != nil {
			rest.WriteError(w, err)
			return
		}
	}

	current, err := handler.service.Get(r.Context())
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toDTO(current)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func toDTO(s Settings) SettingsDTO {
	return SettingsDTO{
		Theme:               string(s.Theme),
		OnboardingCompleted: s.OnboardingCompleted,
	}
}
