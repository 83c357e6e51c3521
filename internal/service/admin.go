package service

import (
	"context"
	"fmt"

	"github.com/hgky95/Idle2Earn/internal/domain"
	"github.com/hgky95/Idle2Earn/internal/logger"
	"github.com/hgky95/Idle2Earn/internal/repository"
)

type adminService struct {
	accountRepo     repository.AccountRepository
	configRepo      repository.ConfigRepository
	ledgerRepo      repository.LedgerRepository
	platformAccount int64
}

func NewAdminService(accountRepo repository.AccountRepository, configRepo repository.ConfigRepository, ledgerRepo repository.LedgerRepository, platformAccount int64) AdminService {
	return &adminService{
		accountRepo:     accountRepo,
		configRepo:      configRepo,
		ledgerRepo:      ledgerRepo,
		platformAccount: platformAccount,
	}
}

func (s *adminService) GetPlatformFeePercentage(ctx context.Context) (int64, error) {
	return s.configRepo.GetPlatformFeePercentage(ctx)
}

// UpdatePlatformFeePercentage takes effect for rentals settled after the
// change; active rentals settle at whatever rate is current when they close.
func (s *adminService) UpdatePlatformFeePercentage(ctx context.Context, caller, value int64) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if value < 0 || value > 100 {
		return domain.ErrInvalidFeeRate
	}
	if err := s.configRepo.SetPlatformFeePercentage(ctx, value); err != nil {
		return err
	}
	logger.Info("Platform fee percentage updated", "value", value, "updated_by", caller)
	return nil
}

func (s *adminService) CreditAccount(ctx context.Context, caller, accountID, amountCents int64) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if amountCents <= 0 {
		return fmt.Errorf("%w: credit amount must be positive", domain.ErrInvalidTerms)
	}
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		return err
	}
	return s.ledgerRepo.Transfer(ctx, &domain.LedgerTransaction{
		FromAccountID: s.platformAccount,
		ToAccountID:   accountID,
		AmountCents:   amountCents,
		Type:          domain.TransactionTypeAdjustment,
		Description:   fmt.Sprintf("manual credit by admin %d", caller),
	})
}

func (s *adminService) requireAdmin(ctx context.Context, caller int64) error {
	account, err := s.accountRepo.GetByID(ctx, caller)
	if err != nil {
		return err
	}
	if !account.IsAdmin() {
		return domain.ErrNotAdmin
	}
	return nil
}
