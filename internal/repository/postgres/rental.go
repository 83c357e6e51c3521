package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hgky95/Idle2Earn/internal/domain"
	"github.com/hgky95/Idle2Earn/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `asset_id, lender_id, renter_id, duration_days, rental_fee_cents, deposit_cents,
	late_fee_per_day_cents, start_time, end_time, status, lender_payout_cents, platform_fee_cents,
	deposit_refund_cents, late_fee_cents, settled_on, created_on, updated_on`

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (asset_id, lender_id, renter_id, duration_days, rental_fee_cents, deposit_cents,
	          late_fee_per_day_cents, start_time, end_time, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		rt.AssetID, rt.LenderID, rt.RenterID, rt.DurationDays, rt.RentalFeeCents, rt.DepositCents,
		rt.LateFeePerDayCents, rt.StartTime, rt.EndTime, rt.Status, now, now)
	return err
}

func (r *rentalRepository) GetActiveByAsset(ctx context.Context, assetID int64) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE asset_id = $1 AND status = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, assetID, domain.RentalStatusActive))
}

func (r *rentalRepository) GetLatestByAsset(ctx context.Context, assetID int64) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE asset_id = $1 ORDER BY start_time DESC LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, assetID))
}

func (r *rentalRepository) scanOne(row *sql.Row) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(
		&rt.AssetID, &rt.LenderID, &rt.RenterID, &rt.DurationDays, &rt.RentalFeeCents, &rt.DepositCents,
		&rt.LateFeePerDayCents, &rt.StartTime, &rt.EndTime, &rt.Status, &rt.LenderPayoutCents, &rt.PlatformFeeCents,
		&rt.DepositRefundCents, &rt.LateFeeCents, &rt.SettledOn, &rt.CreatedOn, &rt.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRentalNotFound
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// Update finalizes a transition. The status predicate makes the terminal
// transition a compare-and-swap: settling an already settled rental affects
// zero rows and surfaces as ErrRentalNotActive.
func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET status=$1, lender_payout_cents=$2, platform_fee_cents=$3, deposit_refund_cents=$4,
	          late_fee_cents=$5, settled_on=$6, updated_on=$7
	          WHERE asset_id=$8 AND status=$9`
	res, err := r.db.ExecContext(ctx, query,
		rt.Status, rt.LenderPayoutCents, rt.PlatformFeeCents, rt.DepositRefundCents,
		rt.LateFeeCents, rt.SettledOn, time.Now(), rt.AssetID, domain.RentalStatusActive)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrRentalNotActive
	}
	return nil
}

func (r *rentalRepository) ListActive(ctx context.Context) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE status = $1`
	rows, err := r.db.QueryContext(ctx, query, domain.RentalStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *rentalRepository) ListExpiredActive(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE status = $1 AND end_time < $2`
	rows, err := r.db.QueryContext(ctx, query, domain.RentalStatusActive, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *rentalRepository) ListByRenter(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	base := `FROM rentals WHERE renter_id = $1`
	args := []interface{}{renterID}
	argIdx := 2
	if status != "" {
		base += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) "+base, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT "+rentalColumns+" %s ORDER BY start_time DESC LIMIT $%d OFFSET $%d", base, argIdx, argIdx+1)
	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	rentals, err := r.scanAll(rows)
	if err != nil {
		return nil, 0, err
	}
	return rentals, count, nil
}

func (r *rentalRepository) scanAll(rows *sql.Rows) ([]domain.Rental, error) {
	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		if err := rows.Scan(
			&rt.AssetID, &rt.LenderID, &rt.RenterID, &rt.DurationDays, &rt.RentalFeeCents, &rt.DepositCents,
			&rt.LateFeePerDayCents, &rt.StartTime, &rt.EndTime, &rt.Status, &rt.LenderPayoutCents, &rt.PlatformFeeCents,
			&rt.DepositRefundCents, &rt.LateFeeCents, &rt.SettledOn, &rt.CreatedOn, &rt.UpdatedOn); err != nil {
			return nil, err
		}
		rentals = append(rentals, rt)
	}
	return rentals, rows.Err()
}
