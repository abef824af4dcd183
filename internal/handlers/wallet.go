package handlers

import (
	"errors"
	"net/http"

	"github.com/findosh/paywave/internal/services/gateway"
	"github.com/findosh/paywave/internal/services/ledger"
	"github.com/shopspring/decimal"
)

// Wallet returns the balance and account details
func (h *Handler) Wallet(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"balance":       h.ledger.Balance(),
		"upi_id":        h.ledger.UPIID(),
		"email":         h.sessions.UserEmail(),
		"recent_payees": h.ledger.RecentPayees(),
	})
}

// Transactions returns the history, optionally filtered by category
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		h.writeJSON(w, http.StatusOK, h.ledger.TransactionsByCategory(category))
		return
	}
	h.writeJSON(w, http.StatusOK, h.ledger.Transactions())
}

// RecentTransactions returns the five newest history entries
func (h *Handler) RecentTransactions(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.ledger.RecentTransactions())
}

// Summary returns aggregate spent/received/net totals
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.ledger.Summary())
}

type paymentRequest struct {
	Type      string          `json:"type"`
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
}

// MakePayment debits the wallet for a bill or transfer
func (h *Handler) MakePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Type == "" {
		req.Type = "Send Money"
	}

	tx, err := h.ledger.MakePayment(req.Type, req.Recipient, req.Amount)
	if err != nil {
		h.ledgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tx)
}

type rechargeRequest struct {
	Provider string          `json:"provider"`
	Number   string          `json:"number"`
	Amount   decimal.Decimal `json:"amount"`
	Plan     string          `json:"plan,omitempty"`
}

// Recharge pays a mobile or service recharge
func (h *Handler) Recharge(w http.ResponseWriter, r *http.Request) {
	var req rechargeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Provider == "" {
		req.Provider = "Default"
	}

	tx, err := h.ledger.Recharge(req.Provider, req.Number, req.Amount, req.Plan)
	if err != nil {
		h.ledgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tx)
}

type addMoneyRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// AddMoney credits the wallet from the user's bank
func (h *Handler) AddMoney(w http.ResponseWriter, r *http.Request) {
	var req addMoneyRequest
	if !h.decode(w, r, &req) {
		return
	}

	tx, err := h.ledger.AddMoney(req.Amount)
	if err != nil {
		h.ledgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tx)
}

type scanPayRequest struct {
	QRData string `json:"qr_data"`
}

// ScanAndPay processes a scanned UPI QR payload
func (h *Handler) ScanAndPay(w http.ResponseWriter, r *http.Request) {
	var req scanPayRequest
	if !h.decode(w, r, &req) {
		return
	}

	tx, err := h.ledger.ScanAndPay(req.QRData)
	if err != nil {
		h.ledgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tx)
}

// Rewards returns the unredeemed rewards and the live point total
func (h *Handler) Rewards(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"rewards":      h.ledger.AvailableRewards(),
		"total_points": h.ledger.TotalRewardPoints(),
	})
}

// Offers returns the offers not yet applied
func (h *Handler) Offers(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.ledger.SpecialOffers())
}

type idRequest struct {
	ID string `json:"id"`
}

// RedeemReward redeems a reward by id
func (h *Handler) RedeemReward(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.ledger.RedeemReward(req.ID); err != nil {
		h.ledgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "redeemed"})
}

// ApplyOffer applies an offer by id
func (h *Handler) ApplyOffer(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.ledger.ApplyOffer(req.ID); err != nil {
		h.ledgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "applied"})
}

func (h *Handler) ledgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		h.jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ledger.ErrNotFound):
		h.jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ledger.ErrAlreadyRedeemed), errors.Is(err, ledger.ErrAlreadyApplied):
		h.jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, gateway.ErrSimulatedFailure):
		h.jsonError(w, err.Error(), http.StatusBadGateway)
	default:
		h.jsonError(w, "operation failed", http.StatusInternalServerError)
	}
}
