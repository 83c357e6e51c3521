package http

import (
	"encoding/json"
	"net/http"

	"github.com/hgky95/Idle2Earn/internal/service"
)

type LedgerHandler struct {
	ledgerSvc service.LedgerService
}

func NewLedgerHandler(ledgerSvc service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}
	balance, err := h.ledgerSvc.GetBalance(r.Context(), actor.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}
	allowance, err := h.ledgerSvc.GetAllowance(r.Context(), actor.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{
		"balance_cents":   balance,
		"allowance_cents": allowance,
	})
}

type approveRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

// Approve grants the escrow operator a spend allowance on the caller's
// balance; a prerequisite for starting a rental.
func (h *LedgerHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}
	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.ledgerSvc.Approve(r.Context(), actor.AccountID, req.AmountCents); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

func (h *LedgerHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}
	page, pageSize := pagination(r)
	txs, total, err := h.ledgerSvc.ListTransactions(r.Context(), actor.AccountID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"transactions": txs, "total": total})
}
