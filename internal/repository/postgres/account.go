package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hgky95/Idle2Earn/internal/domain"
	"github.com/hgky95/Idle2Earn/internal/repository"
)

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (name, email, password_hash, role, balance_cents, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query, a.Name, a.Email, a.PasswordHash, a.Role, a.BalanceCents, time.Now()).Scan(&a.ID)
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	a := &domain.Account{}
	query := `SELECT id, name, email, password_hash, role, balance_cents, created_on FROM accounts WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.BalanceCents, &a.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	a := &domain.Account{}
	query := `SELECT id, name, email, password_hash, role, balance_cents, created_on FROM accounts WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.BalanceCents, &a.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
