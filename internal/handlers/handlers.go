// Package handlers provides HTTP request handlers
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/findosh/paywave/internal/config"
	"github.com/findosh/paywave/internal/services/gateway"
	"github.com/findosh/paywave/internal/services/ledger"
	"github.com/findosh/paywave/internal/services/session"
)

// Handler contains all HTTP handlers and dependencies
type Handler struct {
	cfg      *config.Config
	gateway  *gateway.Service
	sessions *session.Manager
	ledger   *ledger.Store
}

// New creates a new handler with all dependencies
func New(cfg *config.Config, gw *gateway.Service, sessions *session.Manager, store *ledger.Store) *Handler {
	return &Handler{
		cfg:      cfg,
		gateway:  gw,
		sessions: sessions,
		ledger:   store,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
