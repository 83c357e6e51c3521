package http

import (
	"net/http"

	"github.com/hgky95/Idle2Earn/internal/security"
	"github.com/hgky95/Idle2Earn/internal/service"

	"github.com/gorilla/mux"
)

// Handlers bundles the HTTP handlers the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Asset        *AssetHandler
	Rental       *RentalHandler
	Ledger       *LedgerHandler
	Admin        *AdminHandler
	Notification *NotificationHandler
}

func NewHandlers(
	authSvc service.AuthService,
	assetSvc service.AssetService,
	rentalSvc service.RentalService,
	ledgerSvc service.LedgerService,
	adminSvc service.AdminService,
	noteSvc service.NotificationService,
) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(authSvc),
		Asset:        NewAssetHandler(assetSvc),
		Rental:       NewRentalHandler(rentalSvc),
		Ledger:       NewLedgerHandler(ledgerSvc),
		Admin:        NewAdminHandler(adminSvc),
		Notification: NewNotificationHandler(noteSvc),
	}
}

// NewRouter wires all routes under /api/v1. Everything except signup, login
// and health requires a valid bearer token.
func NewRouter(h *Handlers, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api.HandleFunc("/auth/signup", h.Auth.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(tokens))

	authed.HandleFunc("/assets", h.Asset.Register).Methods(http.MethodPost)
	authed.HandleFunc("/assets", h.Asset.ListMine).Methods(http.MethodGet)
	authed.HandleFunc("/assets/{id:[0-9]+}", h.Asset.Get).Methods(http.MethodGet)
	authed.HandleFunc("/assets/{id:[0-9]+}/terms", h.Asset.UpdateTerms).Methods(http.MethodPut)
	authed.HandleFunc("/assets/{id:[0-9]+}/approve", h.Asset.Approve).Methods(http.MethodPost)

	authed.HandleFunc("/rentals", h.Rental.ListMine).Methods(http.MethodGet)
	authed.HandleFunc("/rentals/{assetId:[0-9]+}", h.Rental.Get).Methods(http.MethodGet)
	authed.HandleFunc("/rentals/{assetId:[0-9]+}/start", h.Rental.Start).Methods(http.MethodPost)
	authed.HandleFunc("/rentals/{assetId:[0-9]+}/end", h.Rental.End).Methods(http.MethodPost)
	authed.HandleFunc("/rentals/{assetId:[0-9]+}/force-end", h.Rental.ForceEnd).Methods(http.MethodPost)
	authed.HandleFunc("/rentals/{assetId:[0-9]+}/settlement", h.Rental.Settlement).Methods(http.MethodGet)

	authed.HandleFunc("/ledger/balance", h.Ledger.Balance).Methods(http.MethodGet)
	authed.HandleFunc("/ledger/approve", h.Ledger.Approve).Methods(http.MethodPost)
	authed.HandleFunc("/ledger/transactions", h.Ledger.Transactions).Methods(http.MethodGet)

	authed.HandleFunc("/admin/platform-fee", h.Admin.GetPlatformFee).Methods(http.MethodGet)
	authed.HandleFunc("/admin/platform-fee", h.Admin.UpdatePlatformFee).Methods(http.MethodPut)
	authed.HandleFunc("/admin/credit", h.Admin.CreditAccount).Methods(http.MethodPost)

	authed.HandleFunc("/notifications", h.Notification.List).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/{id}/read", h.Notification.MarkAsRead).Methods(http.MethodPost)

	return r
}
