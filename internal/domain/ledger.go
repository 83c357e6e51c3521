package domain

import "time"

type TransactionType string

const (
	TransactionTypeEscrowDebit   TransactionType = "ESCROW_DEBIT"
	TransactionTypeLenderPayout  TransactionType = "LENDER_PAYOUT"
	TransactionTypePlatformFee   TransactionType = "PLATFORM_FEE"
	TransactionTypeDepositRefund TransactionType = "DEPOSIT_REFUND"
	TransactionTypeAdjustment    TransactionType = "ADJUSTMENT"
)

// LedgerTransaction is one movement of value between two accounts. Escrow
// holdings are ordinary account balances on the escrow account; every
// settlement leg is recorded as its own row.
type LedgerTransaction struct {
	ID             int64           `json:"id"`
	FromAccountID  int64           `json:"from_account_id"`
	ToAccountID    int64           `json:"to_account_id"`
	AmountCents    int64           `json:"amount_cents"`
	Type           TransactionType `json:"type"`
	RelatedAssetID *int64          `json:"related_asset_id,omitempty"`
	Description    string          `json:"description"`
	CreatedOn      time.Time       `json:"created_on"`
}
