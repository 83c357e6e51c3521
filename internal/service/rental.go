package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hgky95/Idle2Earn/internal/domain"
	"github.com/hgky95/Idle2Earn/internal/ledger"
	"github.com/hgky95/Idle2Earn/internal/logger"
	"github.com/hgky95/Idle2Earn/internal/registry"
	"github.com/hgky95/Idle2Earn/internal/repository"
)

// rentalService is the settlement state machine. It is the sole writer of
// rental status and disbursement fields; custody changes go through the asset
// registry and balance changes through the value ledger, each guarded by a
// compensating undo so that a transition either commits every effect or none.
type rentalService struct {
	rentalRepo  repository.RentalRepository
	accountRepo repository.AccountRepository
	configRepo  repository.ConfigRepository
	assets      registry.AssetRegistry
	funds       ledger.ValueLedger
	notifier    Notifier

	escrowAccount   int64
	platformAccount int64

	guard *assetGuard
	index *renterIndex
	now   func() time.Time
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	accountRepo repository.AccountRepository,
	configRepo repository.ConfigRepository,
	assets registry.AssetRegistry,
	funds ledger.ValueLedger,
	notifier Notifier,
	escrowAccount, platformAccount int64,
) RentalService {
	return &rentalService{
		rentalRepo:      rentalRepo,
		accountRepo:     accountRepo,
		configRepo:      configRepo,
		assets:          assets,
		funds:           funds,
		notifier:        notifier,
		escrowAccount:   escrowAccount,
		platformAccount: platformAccount,
		guard:           newAssetGuard(),
		index:           newRenterIndex(),
		now:             time.Now,
	}
}

// RebuildIndex reloads the renter index from the ACTIVE rental records.
// Called once at startup before the service accepts traffic.
func (s *rentalService) RebuildIndex(ctx context.Context) error {
	active, err := s.rentalRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("rebuilding renter index: %w", err)
	}
	for _, rt := range active {
		s.index.add(rt.RenterID, rt.AssetID)
	}
	return nil
}

func (s *rentalService) StartRental(ctx context.Context, assetID, durationDays, caller int64) (*domain.Rental, error) {
	if err := s.guard.acquire(assetID); err != nil {
		return nil, err
	}
	defer s.guard.release(assetID)

	if durationDays <= 0 {
		return nil, domain.ErrInvalidDuration
	}

	if _, err := s.rentalRepo.GetActiveByAsset(ctx, assetID); err == nil {
		return nil, domain.ErrAssetUnavailable
	} else if !errors.Is(err, domain.ErrRentalNotFound) {
		return nil, err
	}

	terms, err := s.assets.Terms(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if caller == terms.CustodyHolderID {
		return nil, domain.ErrSelfRental
	}
	if !terms.Available {
		return nil, domain.ErrAssetUnavailable
	}
	authorized, err := s.assets.IsAuthorized(ctx, terms.CustodyHolderID, s.escrowAccount, assetID)
	if err != nil {
		return nil, err
	}
	if !authorized {
		return nil, fmt.Errorf("%w: escrow operator not approved for asset %d", domain.ErrNotAuthorized, assetID)
	}

	rentalFee, err := mulCents(terms.DailyFeeCents, durationDays)
	if err != nil {
		return nil, err
	}
	totalCost, err := addCents(rentalFee, terms.DepositCents)
	if err != nil {
		return nil, err
	}

	start := s.now()
	end := start.Add(time.Duration(durationDays) * 24 * time.Hour)

	comp := &compensator{}

	if err := s.funds.AuthorizedTransfer(ctx, caller, s.escrowAccount, totalCost,
		domain.TransactionTypeEscrowDebit, &assetID, fmt.Sprintf("escrow for rental of asset %d", assetID)); err != nil {
		return nil, err
	}
	comp.push(func(ctx context.Context) error {
		return s.funds.AuthorizedTransfer(ctx, s.escrowAccount, caller, totalCost,
			domain.TransactionTypeAdjustment, &assetID, "escrow rollback")
	})

	if err := s.assets.SetRented(ctx, assetID, caller, end); err != nil {
		comp.unwind(ctx)
		return nil, err
	}
	comp.push(func(ctx context.Context) error {
		return s.assets.SetAvailable(ctx, assetID)
	})

	if err := s.assets.TransferCustody(ctx, terms.CustodyHolderID, caller, assetID); err != nil {
		comp.unwind(ctx)
		return nil, err
	}
	comp.push(func(ctx context.Context) error {
		return s.assets.TransferCustody(ctx, caller, terms.CustodyHolderID, assetID)
	})

	rt := &domain.Rental{
		AssetID:            assetID,
		LenderID:           terms.LenderID,
		RenterID:           caller,
		DurationDays:       durationDays,
		RentalFeeCents:     rentalFee,
		DepositCents:       terms.DepositCents,
		LateFeePerDayCents: terms.LateFeePerDayCents,
		StartTime:          start,
		EndTime:            end,
		Status:             domain.RentalStatusActive,
	}
	if err := s.rentalRepo.Create(ctx, rt); err != nil {
		comp.unwind(ctx)
		return nil, err
	}

	s.index.add(caller, assetID)
	logger.Info("Rental started", "asset_id", assetID, "renter_id", caller, "lender_id", terms.LenderID,
		"rental_fee_cents", rentalFee, "deposit_cents", terms.DepositCents, "duration_days", durationDays)
	s.notifier.RentalStarted(ctx, domain.RentalStarted{
		AssetID:        assetID,
		LenderID:       terms.LenderID,
		RenterID:       caller,
		RentalFeeCents: rentalFee,
		DepositCents:   terms.DepositCents,
		DurationDays:   durationDays,
	})
	return rt, nil
}

func (s *rentalService) EndRental(ctx context.Context, assetID, caller int64) (*domain.Rental, error) {
	if err := s.guard.acquire(assetID); err != nil {
		return nil, err
	}
	defer s.guard.release(assetID)

	rt, err := s.activeRental(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if caller != rt.RenterID {
		return nil, domain.ErrNotRenter
	}

	pct, err := s.configRepo.GetPlatformFeePercentage(ctx)
	if err != nil {
		return nil, err
	}
	st, err := computeSettlement(rt, pct, s.now(), false)
	if err != nil {
		return nil, err
	}

	return s.settle(ctx, rt, st, domain.RentalStatusReturned)
}

func (s *rentalService) ForceEndRental(ctx context.Context, assetID, caller int64) (*domain.Rental, error) {
	if err := s.guard.acquire(assetID); err != nil {
		return nil, err
	}
	defer s.guard.release(assetID)

	admin, err := s.accountRepo.GetByID(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, domain.ErrNotAdmin
	}

	rt, err := s.activeRental(ctx, assetID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !now.After(rt.EndTime) {
		return nil, domain.ErrRentalNotExpired
	}

	pct, err := s.configRepo.GetPlatformFeePercentage(ctx)
	if err != nil {
		return nil, err
	}
	st, err := computeSettlement(rt, pct, now, true)
	if err != nil {
		return nil, err
	}

	return s.settle(ctx, rt, st, domain.RentalStatusForceClosed)
}

// settle performs the shared terminal transition: custody back to the lender,
// availability restored, escrow disbursed per the breakdown, record marked
// terminal. Any collaborator failure unwinds every prior effect.
func (s *rentalService) settle(ctx context.Context, rt *domain.Rental, st *domain.Settlement, status domain.RentalStatus) (*domain.Rental, error) {
	assetID := rt.AssetID
	comp := &compensator{}

	if err := s.assets.TransferCustody(ctx, rt.RenterID, rt.LenderID, assetID); err != nil {
		return nil, err
	}
	comp.push(func(ctx context.Context) error {
		return s.assets.TransferCustody(ctx, rt.LenderID, rt.RenterID, assetID)
	})

	if err := s.assets.SetAvailable(ctx, assetID); err != nil {
		comp.unwind(ctx)
		return nil, err
	}
	comp.push(func(ctx context.Context) error {
		return s.assets.SetRented(ctx, assetID, rt.RenterID, rt.EndTime)
	})

	disburse := []struct {
		to     int64
		amount int64
		txType domain.TransactionType
		desc   string
	}{
		{rt.LenderID, st.LenderTotalCents, domain.TransactionTypeLenderPayout, fmt.Sprintf("rental payout for asset %d", assetID)},
		{s.platformAccount, st.PlatformFeeCents, domain.TransactionTypePlatformFee, fmt.Sprintf("platform fee for asset %d", assetID)},
		{rt.RenterID, st.DepositRefundCents, domain.TransactionTypeDepositRefund, fmt.Sprintf("deposit refund for asset %d", assetID)},
	}
	for _, leg := range disburse {
		if leg.amount == 0 {
			continue
		}
		leg := leg
		if err := s.funds.AuthorizedTransfer(ctx, s.escrowAccount, leg.to, leg.amount, leg.txType, &assetID, leg.desc); err != nil {
			comp.unwind(ctx)
			return nil, err
		}
		// undo must not depend on the payee having granted an allowance
		comp.push(func(ctx context.Context) error {
			return s.funds.Reclaim(ctx, leg.to, leg.amount, &assetID, "disbursement rollback")
		})
	}

	settledOn := s.now()
	rt.Status = status
	rt.LenderPayoutCents = st.LenderTotalCents
	rt.PlatformFeeCents = st.PlatformFeeCents
	rt.DepositRefundCents = st.DepositRefundCents
	rt.LateFeeCents = st.DeductedFeeCents
	rt.SettledOn = &settledOn
	if err := s.rentalRepo.Update(ctx, rt); err != nil {
		comp.unwind(ctx)
		return nil, err
	}

	s.index.remove(rt.RenterID, assetID)
	logger.Info("Rental settled", "asset_id", assetID, "status", status,
		"lender_payout_cents", st.LenderTotalCents, "platform_fee_cents", st.PlatformFeeCents,
		"deposit_refund_cents", st.DepositRefundCents, "days_late", st.DaysLate)
	s.notifier.RentalEnded(ctx, domain.RentalEnded{
		AssetID:           assetID,
		LenderID:          rt.LenderID,
		RenterID:          rt.RenterID,
		LenderAmountCents: st.LenderTotalCents,
		PlatformFeeCents:  st.PlatformFeeCents,
		ForceClosed:       status == domain.RentalStatusForceClosed,
	})
	return rt, nil
}

// activeRental resolves the ACTIVE rental for the asset, distinguishing
// "never rented" from "already settled".
func (s *rentalService) activeRental(ctx context.Context, assetID int64) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetActiveByAsset(ctx, assetID)
	if err == nil {
		return rt, nil
	}
	if !errors.Is(err, domain.ErrRentalNotFound) {
		return nil, err
	}
	if _, latestErr := s.rentalRepo.GetLatestByAsset(ctx, assetID); latestErr == nil {
		return nil, domain.ErrRentalNotActive
	}
	return nil, domain.ErrRentalNotFound
}

func (s *rentalService) GetRental(ctx context.Context, assetID int64) (*domain.Rental, error) {
	return s.rentalRepo.GetLatestByAsset(ctx, assetID)
}

func (s *rentalService) PreviewSettlement(ctx context.Context, assetID int64) (*domain.Settlement, error) {
	rt, err := s.activeRental(ctx, assetID)
	if err != nil {
		return nil, err
	}
	pct, err := s.configRepo.GetPlatformFeePercentage(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return computeSettlement(rt, pct, now, now.After(rt.EndTime))
}

func (s *rentalService) ListByRenter(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.rentalRepo.ListByRenter(ctx, renterID, status, page, pageSize)
}

func (s *rentalService) ActiveAssetsByRenter(renterID int64) []int64 {
	return s.index.assets(renterID)
}
