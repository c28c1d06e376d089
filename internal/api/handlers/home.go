package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/amaumene/openmovie/internal/controllers"
	"github.com/sirupsen/logrus"
)

// HomeProvider exposes the home snapshot and lets callers restart it
type HomeProvider interface {
	State() controllers.HomeState
	Refresh() int
}

// HomeHandler serves the home screen state
type HomeHandler struct {
	home   HomeProvider
	logger *logrus.Logger
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(home HomeProvider, logger *logrus.Logger) *HomeHandler {
	return &HomeHandler{
		home:   home,
		logger: logger,
	}
}

// RefreshResponse represents the refresh response
type RefreshResponse struct {
	Started int `json:"started"`
}

// ServeHTTP returns the current snapshot
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, h.home.State())
}

// Refresh restarts the subscriptions that are not running
func (h *HomeHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	started := h.home.Refresh()
	h.logger.WithField("started", started).Info("Refresh requested")

	h.writeJSON(w, http.StatusAccepted, RefreshResponse{Started: started})
}

func (h *HomeHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}
