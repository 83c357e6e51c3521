package service

import (
	"context"

	"github.com/hgky95/Idle2Earn/internal/domain"
)

type RentalService interface {
	// RebuildIndex reloads the renter index from the ACTIVE rental records;
	// called once at startup before the service accepts traffic.
	RebuildIndex(ctx context.Context) error
	// StartRental leases the asset to the caller for durationDays, debiting
	// rentalFee + deposit into escrow and moving custody to the caller.
	StartRental(ctx context.Context, assetID, durationDays, caller int64) (*domain.Rental, error)
	// EndRental is the renter's voluntary return: custody goes back to the
	// lender, the fee is split between lender and platform, and the deposit
	// is refunded in full.
	EndRental(ctx context.Context, assetID, caller int64) (*domain.Rental, error)
	// ForceEndRental is the administrator's recovery path for an expired
	// rental: the late fee is deducted from the deposit and paid to the
	// lender on top of the normal fee split.
	ForceEndRental(ctx context.Context, assetID, caller int64) (*domain.Rental, error)
	GetRental(ctx context.Context, assetID int64) (*domain.Rental, error)
	// PreviewSettlement computes the disbursement that EndRental or
	// ForceEndRental would perform right now, without any state change.
	PreviewSettlement(ctx context.Context, assetID int64) (*domain.Settlement, error)
	ListByRenter(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	// ActiveAssetsByRenter serves from the in-memory index; no ordering
	// guarantee.
	ActiveAssetsByRenter(renterID int64) []int64
}

type AssetService interface {
	RegisterAsset(ctx context.Context, lenderID int64, name, description string, dailyFeeCents, depositCents, lateFeePerDayCents int64) (*domain.Asset, error)
	GetAsset(ctx context.Context, id int64) (*domain.Asset, error)
	UpdateTerms(ctx context.Context, caller, assetID, dailyFeeCents, depositCents, lateFeePerDayCents int64) (*domain.Asset, error)
	ListByLender(ctx context.Context, lenderID int64, page, pageSize int32) ([]domain.Asset, int32, error)
	// ApproveEscrowOperator authorizes the settlement service to move the
	// asset on the lender's behalf; required before the asset can be rented.
	ApproveEscrowOperator(ctx context.Context, caller, assetID int64) error
}

type LedgerService interface {
	GetBalance(ctx context.Context, accountID int64) (int64, error)
	GetAllowance(ctx context.Context, accountID int64) (int64, error)
	// Approve grants the escrow operator a spend allowance on the caller's
	// balance.
	Approve(ctx context.Context, accountID, amountCents int64) error
	ListTransactions(ctx context.Context, accountID int64, page, pageSize int32) ([]domain.LedgerTransaction, int32, error)
}

type AdminService interface {
	GetPlatformFeePercentage(ctx context.Context) (int64, error)
	UpdatePlatformFeePercentage(ctx context.Context, caller, value int64) error
	// CreditAccount mints balance onto an account from the platform reserve;
	// administrator-only, used for bootstrap and manual adjustments.
	CreditAccount(ctx context.Context, caller, accountID, amountCents int64) error
}

type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
}

// Notifier receives the terminal-state notifications emitted by the rental
// state machine. Implementations must not fail the emitting transition.
type Notifier interface {
	RentalStarted(ctx context.Context, ev domain.RentalStarted)
	RentalEnded(ctx context.Context, ev domain.RentalEnded)
}

type NotificationService interface {
	List(ctx context.Context, accountID int64, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id string, accountID int64) error
}

type EmailService interface {
	SendRentalStartedNotification(ctx context.Context, lenderEmail, renterName, assetName string) error
	SendRentalEndedNotification(ctx context.Context, email, role, assetName string, amountCents int64) error
	SendOverdueReminder(ctx context.Context, renterEmail, assetName string, daysLate int64) error
}
