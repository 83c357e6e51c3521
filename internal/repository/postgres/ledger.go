package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hgky95/Idle2Earn/internal/domain"
	"github.com/hgky95/Idle2Earn/internal/repository"
)

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	var balance int64
	query := `SELECT COALESCE(balance_cents, 0) FROM accounts WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrAccountNotFound
	}
	return balance, err
}

// Transfer debits the source, credits the destination and records the
// transaction row inside a single database transaction. The debit statement
// carries the balance predicate so a short balance shows up as zero affected
// rows rather than a negative balance.
func (r *ledgerRepository) Transfer(ctx context.Context, lt *domain.LedgerTransaction) error {
	return r.transfer(ctx, lt, nil)
}

// TransferWithAllowance additionally debits the spender's allowance on the
// source account. The allowance debit carries the same >= predicate as the
// balance debit and shares the transaction, so a short allowance aborts
// everything and a successful transfer always consumes its allowance.
func (r *ledgerRepository) TransferWithAllowance(ctx context.Context, lt *domain.LedgerTransaction, spenderID int64) error {
	return r.transfer(ctx, lt, &spenderID)
}

func (r *ledgerRepository) transfer(ctx context.Context, lt *domain.LedgerTransaction, spenderID *int64) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer dbTx.Rollback()

	if spenderID != nil {
		spend := `UPDATE allowances SET amount_cents = amount_cents - $1, updated_on = $2
		          WHERE owner_id = $3 AND spender_id = $4 AND amount_cents >= $1`
		res, err := dbTx.ExecContext(ctx, spend, lt.AmountCents, time.Now(), lt.FromAccountID, *spenderID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return domain.ErrNotAuthorized
		}
	}

	debit := `UPDATE accounts SET balance_cents = balance_cents - $1 WHERE id = $2 AND balance_cents >= $1`
	res, err := dbTx.ExecContext(ctx, debit, lt.AmountCents, lt.FromAccountID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrInsufficientFunds
	}

	credit := `UPDATE accounts SET balance_cents = balance_cents + $1 WHERE id = $2`
	res, err = dbTx.ExecContext(ctx, credit, lt.AmountCents, lt.ToAccountID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrAccountNotFound
	}

	record := `INSERT INTO ledger_transactions (from_account_id, to_account_id, amount_cents, type, related_asset_id, description, created_on)
	           VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	lt.CreatedOn = time.Now()
	if err := dbTx.QueryRowContext(ctx, record,
		lt.FromAccountID, lt.ToAccountID, lt.AmountCents, lt.Type, lt.RelatedAssetID, lt.Description, lt.CreatedOn).Scan(&lt.ID); err != nil {
		return err
	}

	return dbTx.Commit()
}

func (r *ledgerRepository) GetAllowance(ctx context.Context, ownerID, spenderID int64) (int64, error) {
	var amount int64
	query := `SELECT COALESCE(amount_cents, 0) FROM allowances WHERE owner_id = $1 AND spender_id = $2`
	err := r.db.QueryRowContext(ctx, query, ownerID, spenderID).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return amount, err
}

func (r *ledgerRepository) SetAllowance(ctx context.Context, ownerID, spenderID, amountCents int64) error {
	query := `INSERT INTO allowances (owner_id, spender_id, amount_cents, updated_on)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (owner_id, spender_id) DO UPDATE SET amount_cents = $3, updated_on = $4`
	_, err := r.db.ExecContext(ctx, query, ownerID, spenderID, amountCents, time.Now())
	return err
}

func (r *ledgerRepository) ListTransactions(ctx context.Context, accountID int64, page, pageSize int32) ([]domain.LedgerTransaction, int32, error) {
	var count int32
	countQuery := `SELECT count(*) FROM ledger_transactions WHERE from_account_id = $1 OR to_account_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, accountID).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, from_account_id, to_account_id, amount_cents, type, related_asset_id, COALESCE(description, ''), created_on
	          FROM ledger_transactions WHERE from_account_id = $1 OR to_account_id = $1
	          ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, accountID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []domain.LedgerTransaction
	for rows.Next() {
		var lt domain.LedgerTransaction
		if err := rows.Scan(&lt.ID, &lt.FromAccountID, &lt.ToAccountID, &lt.AmountCents, &lt.Type,
			&lt.RelatedAssetID, &lt.Description, &lt.CreatedOn); err != nil {
			return nil, 0, err
		}
		txs = append(txs, lt)
	}
	return txs, count, rows.Err()
}
