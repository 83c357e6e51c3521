package service

import (
	"context"
	"fmt"

	"github.com/hgky95/Idle2Earn/internal/domain"
	"github.com/hgky95/Idle2Earn/internal/logger"
	"github.com/hgky95/Idle2Earn/internal/registry"
	"github.com/hgky95/Idle2Earn/internal/repository"
)

type assetService struct {
	assetRepo     repository.AssetRepository
	assets        registry.AssetRegistry
	escrowAccount int64
}

func NewAssetService(assetRepo repository.AssetRepository, assets registry.AssetRegistry, escrowAccount int64) AssetService {
	return &assetService{assetRepo: assetRepo, assets: assets, escrowAccount: escrowAccount}
}

func validateTerms(dailyFeeCents, depositCents, lateFeePerDayCents int64) error {
	if dailyFeeCents <= 0 {
		return fmt.Errorf("%w: daily fee must be positive", domain.ErrInvalidTerms)
	}
	if depositCents < 0 {
		return fmt.Errorf("%w: deposit cannot be negative", domain.ErrInvalidTerms)
	}
	if lateFeePerDayCents < 0 {
		return fmt.Errorf("%w: late fee cannot be negative", domain.ErrInvalidTerms)
	}
	return nil
}

func (s *assetService) RegisterAsset(ctx context.Context, lenderID int64, name, description string, dailyFeeCents, depositCents, lateFeePerDayCents int64) (*domain.Asset, error) {
	if err := validateTerms(dailyFeeCents, depositCents, lateFeePerDayCents); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidTerms)
	}

	asset := &domain.Asset{
		LenderID:           lenderID,
		CustodyHolderID:    lenderID,
		Name:               name,
		Description:        description,
		DailyFeeCents:      dailyFeeCents,
		DepositCents:       depositCents,
		LateFeePerDayCents: lateFeePerDayCents,
		Available:          true,
	}
	if err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, err
	}
	logger.Info("Asset registered", "asset_id", asset.ID, "lender_id", lenderID, "daily_fee_cents", dailyFeeCents)
	return asset, nil
}

func (s *assetService) GetAsset(ctx context.Context, id int64) (*domain.Asset, error) {
	return s.assetRepo.GetByID(ctx, id)
}

// UpdateTerms changes fee terms for future rentals. Only the lender may
// change terms, and only while no rental is active; in-flight rentals keep
// the terms snapshotted at creation.
func (s *assetService) UpdateTerms(ctx context.Context, caller, assetID, dailyFeeCents, depositCents, lateFeePerDayCents int64) (*domain.Asset, error) {
	if err := validateTerms(dailyFeeCents, depositCents, lateFeePerDayCents); err != nil {
		return nil, err
	}
	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if asset.LenderID != caller {
		return nil, domain.ErrNotLender
	}
	if !asset.Available {
		return nil, domain.ErrAssetUnavailable
	}
	asset.DailyFeeCents = dailyFeeCents
	asset.DepositCents = depositCents
	asset.LateFeePerDayCents = lateFeePerDayCents
	if err := s.assetRepo.Update(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *assetService) ListByLender(ctx context.Context, lenderID int64, page, pageSize int32) ([]domain.Asset, int32, error) {
	return s.assetRepo.ListByLender(ctx, lenderID, page, pageSize)
}

func (s *assetService) ApproveEscrowOperator(ctx context.Context, caller, assetID int64) error {
	return s.assets.Approve(ctx, caller, s.escrowAccount, assetID)
}
