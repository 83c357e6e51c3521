// Package registry implements the unique-asset registry: asset identity,
// custody, availability and operator authorization. The rental state machine
// talks to it only through the AssetRegistry interface.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/hgky95/Idle2Earn/internal/domain"
	"github.com/hgky95/Idle2Earn/internal/logger"
	"github.com/hgky95/Idle2Earn/internal/repository"
)

type AssetRegistry interface {
	// Terms returns the rental terms and custody snapshot for an asset.
	Terms(ctx context.Context, assetID int64) (*domain.AssetTerms, error)
	// SetRented marks the asset unavailable and records the renter and the
	// rental-end time. Fails with domain.ErrAssetUnavailable if the asset is
	// already rented.
	SetRented(ctx context.Context, assetID, renterID int64, rentalEnd time.Time) error
	// SetAvailable clears the rental metadata and marks the asset available.
	SetAvailable(ctx context.Context, assetID int64) error
	// TransferCustody moves custody from one account to another. The from
	// account must be the current custody holder.
	TransferCustody(ctx context.Context, from, to, assetID int64) error
	// IsAuthorized reports whether operator may move the asset on owner's
	// behalf.
	IsAuthorized(ctx context.Context, owner, operator, assetID int64) (bool, error)
	// Approve lets the current custody holder authorize an operator for the
	// asset.
	Approve(ctx context.Context, owner, operator, assetID int64) error
}

type assetRegistry struct {
	assetRepo repository.AssetRepository
}

func NewAssetRegistry(assetRepo repository.AssetRepository) AssetRegistry {
	return &assetRegistry{assetRepo: assetRepo}
}

func (r *assetRegistry) Terms(ctx context.Context, assetID int64) (*domain.AssetTerms, error) {
	a, err := r.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return &domain.AssetTerms{
		AssetID:            a.ID,
		LenderID:           a.LenderID,
		CustodyHolderID:    a.CustodyHolderID,
		DailyFeeCents:      a.DailyFeeCents,
		DepositCents:       a.DepositCents,
		LateFeePerDayCents: a.LateFeePerDayCents,
		Available:          a.Available,
	}, nil
}

func (r *assetRegistry) SetRented(ctx context.Context, assetID, renterID int64, rentalEnd time.Time) error {
	a, err := r.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return err
	}
	if !a.Available {
		return domain.ErrAssetUnavailable
	}
	a.Available = false
	a.RenterID = &renterID
	a.RentalEnd = &rentalEnd
	if err := r.assetRepo.Update(ctx, a); err != nil {
		return err
	}
	logger.Debug("Asset marked rented", "asset_id", assetID, "renter_id", renterID, "rental_end", rentalEnd)
	return nil
}

func (r *assetRegistry) SetAvailable(ctx context.Context, assetID int64) error {
	a, err := r.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return err
	}
	a.Available = true
	a.RenterID = nil
	a.RentalEnd = nil
	if err := r.assetRepo.Update(ctx, a); err != nil {
		return err
	}
	logger.Debug("Asset marked available", "asset_id", assetID)
	return nil
}

func (r *assetRegistry) TransferCustody(ctx context.Context, from, to, assetID int64) error {
	a, err := r.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return err
	}
	if a.CustodyHolderID != from {
		return fmt.Errorf("%w: account %d does not hold asset %d", domain.ErrCustodyTransfer, from, assetID)
	}
	a.CustodyHolderID = to
	if err := r.assetRepo.Update(ctx, a); err != nil {
		return err
	}
	logger.Debug("Custody transferred", "asset_id", assetID, "from", from, "to", to)
	return nil
}

func (r *assetRegistry) IsAuthorized(ctx context.Context, owner, operator, assetID int64) (bool, error) {
	a, err := r.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return false, err
	}
	if a.CustodyHolderID != owner {
		return false, nil
	}
	if owner == operator {
		return true, nil
	}
	return a.ApprovedOperator != nil && *a.ApprovedOperator == operator, nil
}

func (r *assetRegistry) Approve(ctx context.Context, owner, operator, assetID int64) error {
	a, err := r.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return err
	}
	if a.CustodyHolderID != owner {
		return domain.ErrNotLender
	}
	a.ApprovedOperator = &operator
	return r.assetRepo.Update(ctx, a)
}
