package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/hgky95/Idle2Earn/internal/repository"
)

type configRepository struct {
	db *sql.DB
}

func NewConfigRepository(db *sql.DB) repository.ConfigRepository {
	return &configRepository{db: db}
}

// platform_config is a single-row table; the fee percentage is read at
// settlement time, never snapshotted into rentals.
func (r *configRepository) GetPlatformFeePercentage(ctx context.Context) (int64, error) {
	var pct int64
	query := `SELECT platform_fee_percentage FROM platform_config WHERE id = 1`
	err := r.db.QueryRowContext(ctx, query).Scan(&pct)
	return pct, err
}

func (r *configRepository) SetPlatformFeePercentage(ctx context.Context, value int64) error {
	query := `UPDATE platform_config SET platform_fee_percentage = $1, updated_on = $2 WHERE id = 1`
	_, err := r.db.ExecContext(ctx, query, value, time.Now())
	return err
}
