// Package ledger implements the fungible-value ledger: account balances,
// spend allowances, and authorized transfers. Escrow holdings are ordinary
// balances on the configured escrow account.
package ledger

import (
	"context"
	"fmt"

	"github.com/hgky95/Idle2Earn/internal/domain"
	"github.com/hgky95/Idle2Earn/internal/logger"
	"github.com/hgky95/Idle2Earn/internal/repository"
)

type ValueLedger interface {
	// AuthorizedTransfer moves amountCents from one account to another.
	// Transfers out of any account other than the escrow account require a
	// prior allowance granted to the escrow operator; the allowance is
	// consumed in the same database transaction as the balance movement.
	// Zero-amount transfers are side-effect-free no-ops.
	AuthorizedTransfer(ctx context.Context, from, to, amountCents int64, txType domain.TransactionType, assetID *int64, description string) error
	// Reclaim is the operator's reversal primitive: it moves amountCents
	// from an account back into escrow without requiring an allowance, so a
	// failed settlement can always claw back the legs it already paid out.
	// Recorded as an ADJUSTMENT transaction.
	Reclaim(ctx context.Context, from, amountCents int64, assetID *int64, description string) error
	// Approve grants the escrow operator permission to spend up to
	// amountCents from the owner's balance.
	Approve(ctx context.Context, ownerID, amountCents int64) error
	BalanceOf(ctx context.Context, accountID int64) (int64, error)
	Allowance(ctx context.Context, ownerID int64) (int64, error)
}

type valueLedger struct {
	ledgerRepo repository.LedgerRepository
	// escrowAccount is both the custody account for in-flight rentals and
	// the operator identity allowances are granted to.
	escrowAccount int64
}

func NewValueLedger(ledgerRepo repository.LedgerRepository, escrowAccount int64) ValueLedger {
	return &valueLedger{ledgerRepo: ledgerRepo, escrowAccount: escrowAccount}
}

func (l *valueLedger) AuthorizedTransfer(ctx context.Context, from, to, amountCents int64, txType domain.TransactionType, assetID *int64, description string) error {
	if amountCents < 0 {
		return fmt.Errorf("%w: negative transfer amount %d", domain.ErrArithmeticOverflow, amountCents)
	}
	if amountCents == 0 {
		return nil
	}

	lt := &domain.LedgerTransaction{
		FromAccountID:  from,
		ToAccountID:    to,
		AmountCents:    amountCents,
		Type:           txType,
		RelatedAssetID: assetID,
		Description:    description,
	}
	if from != l.escrowAccount {
		// check and debit of the allowance happen inside the repository's
		// database transaction, together with the balance movement
		if err := l.ledgerRepo.TransferWithAllowance(ctx, lt, l.escrowAccount); err != nil {
			return err
		}
	} else if err := l.ledgerRepo.Transfer(ctx, lt); err != nil {
		return err
	}

	logger.Debug("Ledger transfer", "from", from, "to", to, "amount_cents", amountCents, "type", txType)
	return nil
}

func (l *valueLedger) Reclaim(ctx context.Context, from, amountCents int64, assetID *int64, description string) error {
	if amountCents < 0 {
		return fmt.Errorf("%w: negative transfer amount %d", domain.ErrArithmeticOverflow, amountCents)
	}
	if amountCents == 0 {
		return nil
	}

	lt := &domain.LedgerTransaction{
		FromAccountID:  from,
		ToAccountID:    l.escrowAccount,
		AmountCents:    amountCents,
		Type:           domain.TransactionTypeAdjustment,
		RelatedAssetID: assetID,
		Description:    description,
	}
	if err := l.ledgerRepo.Transfer(ctx, lt); err != nil {
		return err
	}

	logger.Debug("Ledger reclaim", "from", from, "amount_cents", amountCents)
	return nil
}

func (l *valueLedger) Approve(ctx context.Context, ownerID, amountCents int64) error {
	if amountCents < 0 {
		return fmt.Errorf("%w: negative allowance %d", domain.ErrArithmeticOverflow, amountCents)
	}
	return l.ledgerRepo.SetAllowance(ctx, ownerID, l.escrowAccount, amountCents)
}

func (l *valueLedger) BalanceOf(ctx context.Context, accountID int64) (int64, error) {
	return l.ledgerRepo.GetBalance(ctx, accountID)
}

func (l *valueLedger) Allowance(ctx context.Context, ownerID int64) (int64, error) {
	return l.ledgerRepo.GetAllowance(ctx, ownerID, l.escrowAccount)
}
