package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hgky95/Idle2Earn/internal/domain"
	"github.com/hgky95/Idle2Earn/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses: validation
// errors to 400, authorization to 401/403, missing records to 404,
// state conflicts to 409, and ledger shortfalls to 402.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidTerms),
		errors.Is(err, domain.ErrInvalidFeeRate),
		errors.Is(err, domain.ErrSelfRental),
		errors.Is(err, domain.ErrArithmeticOverflow):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotAdmin),
		errors.Is(err, domain.ErrNotRenter),
		errors.Is(err, domain.ErrNotLender),
		errors.Is(err, domain.ErrNotAuthorized):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrAssetNotFound),
		errors.Is(err, domain.ErrRentalNotFound),
		errors.Is(err, domain.ErrAccountNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAssetUnavailable),
		errors.Is(err, domain.ErrRentalNotActive),
		errors.Is(err, domain.ErrRentalNotExpired),
		errors.Is(err, domain.ErrOperationInProgress):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	case errors.Is(err, domain.ErrCustodyTransfer):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
