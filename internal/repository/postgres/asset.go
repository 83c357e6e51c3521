package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hgky95/Idle2Earn/internal/domain"
	"github.com/hgky95/Idle2Earn/internal/repository"
)

type assetRepository struct {
	db *sql.DB
}

func NewAssetRepository(db *sql.DB) repository.AssetRepository {
	return &assetRepository{db: db}
}

const assetColumns = `id, lender_id, custody_holder_id, name, description, daily_fee_cents, deposit_cents,
	late_fee_per_day_cents, available, renter_id, rental_end, approved_operator, created_on, updated_on`

func (r *assetRepository) Create(ctx context.Context, a *domain.Asset) error {
	query := `INSERT INTO assets (lender_id, custody_holder_id, name, description, daily_fee_cents, deposit_cents,
	          late_fee_per_day_cents, available, approved_operator, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		a.LenderID, a.CustodyHolderID, a.Name, a.Description, a.DailyFeeCents, a.DepositCents,
		a.LateFeePerDayCents, a.Available, a.ApprovedOperator, now, now).Scan(&a.ID)
}

func (r *assetRepository) GetByID(ctx context.Context, id int64) (*domain.Asset, error) {
	a := &domain.Asset{}
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1 AND deleted_on IS NULL`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.LenderID, &a.CustodyHolderID, &a.Name, &a.Description, &a.DailyFeeCents, &a.DepositCents,
		&a.LateFeePerDayCents, &a.Available, &a.RenterID, &a.RentalEnd, &a.ApprovedOperator, &a.CreatedOn, &a.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *assetRepository) Update(ctx context.Context, a *domain.Asset) error {
	query := `UPDATE assets SET custody_holder_id=$1, daily_fee_cents=$2, deposit_cents=$3, late_fee_per_day_cents=$4,
	          available=$5, renter_id=$6, rental_end=$7, approved_operator=$8, updated_on=$9 WHERE id=$10`
	res, err := r.db.ExecContext(ctx, query,
		a.CustodyHolderID, a.DailyFeeCents, a.DepositCents, a.LateFeePerDayCents,
		a.Available, a.RenterID, a.RentalEnd, a.ApprovedOperator, time.Now(), a.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}

func (r *assetRepository) ListByLender(ctx context.Context, lenderID int64, page, pageSize int32) ([]domain.Asset, int32, error) {
	var count int32
	countQuery := `SELECT count(*) FROM assets WHERE lender_id = $1 AND deleted_on IS NULL`
	if err := r.db.QueryRowContext(ctx, countQuery, lenderID).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + assetColumns + ` FROM assets WHERE lender_id = $1 AND deleted_on IS NULL
	          ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, lenderID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		var a domain.Asset
		if err := rows.Scan(
			&a.ID, &a.LenderID, &a.CustodyHolderID, &a.Name, &a.Description, &a.DailyFeeCents, &a.DepositCents,
			&a.LateFeePerDayCents, &a.Available, &a.RenterID, &a.RentalEnd, &a.ApprovedOperator, &a.CreatedOn, &a.UpdatedOn); err != nil {
			return nil, 0, err
		}
		assets = append(assets, a)
	}
	return assets, count, rows.Err()
}
