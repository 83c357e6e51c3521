package service

import (
	"context"

	"github.com/hgky95/Idle2Earn/internal/domain"
	"github.com/hgky95/Idle2Earn/internal/ledger"
	"github.com/hgky95/Idle2Earn/internal/repository"
)

type ledgerService struct {
	ledgerRepo repository.LedgerRepository
	funds      ledger.ValueLedger
}

func NewLedgerService(ledgerRepo repository.LedgerRepository, funds ledger.ValueLedger) LedgerService {
	return &ledgerService{ledgerRepo: ledgerRepo, funds: funds}
}

func (s *ledgerService) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	return s.funds.BalanceOf(ctx, accountID)
}

func (s *ledgerService) GetAllowance(ctx context.Context, accountID int64) (int64, error) {
	return s.funds.Allowance(ctx, accountID)
}

func (s *ledgerService) Approve(ctx context.Context, accountID, amountCents int64) error {
	return s.funds.Approve(ctx, accountID, amountCents)
}

func (s *ledgerService) ListTransactions(ctx context.Context, accountID int64, page, pageSize int32) ([]domain.LedgerTransaction, int32, error) {
	return s.ledgerRepo.ListTransactions(ctx, accountID, page, pageSize)
}
