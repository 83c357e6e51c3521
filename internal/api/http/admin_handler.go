package http

import (
	"encoding/json"
	"net/http"

	"github.com/hgky95/Idle2Earn/internal/service"
)

type AdminHandler struct {
	adminSvc service.AdminService
}

func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

func (h *AdminHandler) GetPlatformFee(w http.ResponseWriter, r *http.Request) {
	pct, err := h.adminSvc.GetPlatformFeePercentage(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"platform_fee_percentage": pct})
}

type updateFeeRequest struct {
	PlatformFeePercentage int64 `json:"platform_fee_percentage"`
}

func (h *AdminHandler) UpdatePlatformFee(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}
	var req updateFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.adminSvc.UpdatePlatformFeePercentage(r.Context(), actor.AccountID, req.PlatformFeePercentage); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"platform_fee_percentage": req.PlatformFeePercentage})
}

type creditRequest struct {
	AccountID   int64 `json:"account_id"`
	AmountCents int64 `json:"amount_cents"`
}

func (h *AdminHandler) CreditAccount(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}
	var req creditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.adminSvc.CreditAccount(r.Context(), actor.AccountID, req.AccountID, req.AmountCents); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "credited"})
}
