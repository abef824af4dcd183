package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/findosh/paywave/internal/services/gateway"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	UPIID    string `json:"upi_id"`
	Password string `json:"password"`
}

// Register creates a new wallet account
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.UPIID = strings.TrimSpace(req.UPIID)
	if req.Name == "" || req.Email == "" || req.UPIID == "" || req.Password == "" {
		h.jsonError(w, "all fields are required", http.StatusBadRequest)
		return
	}

	user, err := h.gateway.Register(gateway.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		UPIID:    req.UPIID,
	})
	if err != nil {
		switch {
		case errors.Is(err, gateway.ErrEmailExists), errors.Is(err, gateway.ErrUPIIDExists):
			h.jsonError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, gateway.ErrWeakPassword):
			h.jsonError(w, err.Error(), http.StatusBadRequest)
		default:
			h.jsonError(w, "registration failed", http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token           string `json:"token"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	TokenExpiration int64  `json:"token_expiration"` // unix milliseconds
}

// Login authenticates against the gateway and opens the local session
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.gateway.Login(gateway.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidCredentials) {
			h.jsonError(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		h.jsonError(w, "login failed", http.StatusInternalServerError)
		return
	}

	if err := h.sessions.Login(result.Token, result.User.Email, time.Until(result.Expires)); err != nil {
		h.jsonError(w, "failed to open session", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, loginResponse{
		Token:           result.Token,
		Email:           result.User.Email,
		Name:            result.User.Name,
		TokenExpiration: result.Expires.UnixMilli(),
	})
}

// Logout closes the local session
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout()
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
