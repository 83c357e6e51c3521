package repository

import (
	"context"
	"time"

	"github.com/hgky95/Idle2Earn/internal/domain"
)

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	GetByID(ctx context.Context, id int64) (*domain.Asset, error)
	Update(ctx context.Context, asset *domain.Asset) error
	ListByLender(ctx context.Context, lenderID int64, page, pageSize int32) ([]domain.Asset, int32, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	// GetActiveByAsset returns the single ACTIVE rental for the asset, or
	// domain.ErrRentalNotFound if none exists.
	GetActiveByAsset(ctx context.Context, assetID int64) (*domain.Rental, error)
	// GetLatestByAsset returns the most recent rental for the asset in any
	// status, for audit queries.
	GetLatestByAsset(ctx context.Context, assetID int64) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
	ListActive(ctx context.Context) ([]domain.Rental, error)
	ListExpiredActive(ctx context.Context, asOf time.Time) ([]domain.Rental, error)
	ListByRenter(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.Rental, int32, error)
}

type LedgerRepository interface {
	GetBalance(ctx context.Context, accountID int64) (int64, error)
	// Transfer moves tx.AmountCents from tx.FromAccountID to tx.ToAccountID
	// and records the transaction row, all inside one database transaction.
	// Returns domain.ErrInsufficientFunds when the source balance is short.
	Transfer(ctx context.Context, tx *domain.LedgerTransaction) error
	// TransferWithAllowance is Transfer plus a debit of the spender's
	// allowance on the source account, inside the same database transaction.
	// Returns domain.ErrNotAuthorized when the allowance is below the amount;
	// neither balances nor the allowance change in that case.
	TransferWithAllowance(ctx context.Context, tx *domain.LedgerTransaction, spenderID int64) error
	GetAllowance(ctx context.Context, ownerID, spenderID int64) (int64, error)
	SetAllowance(ctx context.Context, ownerID, spenderID, amountCents int64) error
	ListTransactions(ctx context.Context, accountID int64, page, pageSize int32) ([]domain.LedgerTransaction, int32, error)
}

type ConfigRepository interface {
	GetPlatformFeePercentage(ctx context.Context) (int64, error)
	SetPlatformFeePercentage(ctx context.Context, value int64) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, accountID int64, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id string, accountID int64) error
}
