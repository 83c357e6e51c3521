package service

import (
	"context"
	"time"

	"github.com/hgky95/Idle2Earn/internal/domain"

	"github.com/stretchr/testify/mock"
)

type mockRentalRepo struct {
	mock.Mock
}

func (m *mockRentalRepo) Create(ctx context.Context, rt *domain.Rental) error {
	return m.Called(ctx, rt).Error(0)
}

func (m *mockRentalRepo) GetActiveByAsset(ctx context.Context, assetID int64) (*domain.Rental, error) {
	args := m.Called(ctx, assetID)
	if rt := args.Get(0); rt != nil {
		return rt.(*domain.Rental), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRentalRepo) GetLatestByAsset(ctx context.Context, assetID int64) (*domain.Rental, error) {
	args := m.Called(ctx, assetID)
	if rt := args.Get(0); rt != nil {
		return rt.(*domain.Rental), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRentalRepo) Update(ctx context.Context, rt *domain.Rental) error {
	return m.Called(ctx, rt).Error(0)
}

func (m *mockRentalRepo) ListActive(ctx context.Context) ([]domain.Rental, error) {
	args := m.Called(ctx)
	if rts := args.Get(0); rts != nil {
		return rts.([]domain.Rental), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRentalRepo) ListExpiredActive(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, asOf)
	if rts := args.Get(0); rts != nil {
		return rts.([]domain.Rental), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRentalRepo) ListByRenter(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	if rts := args.Get(0); rts != nil {
		return rts.([]domain.Rental), args.Get(1).(int32), args.Error(2)
	}
	return nil, args.Get(1).(int32), args.Error(2)
}

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*domain.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if a := args.Get(0); a != nil {
		return a.(*domain.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAssetRepo struct {
	mock.Mock
}

func (m *mockAssetRepo) Create(ctx context.Context, a *domain.Asset) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAssetRepo) GetByID(ctx context.Context, id int64) (*domain.Asset, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*domain.Asset), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAssetRepo) Update(ctx context.Context, a *domain.Asset) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAssetRepo) ListByLender(ctx context.Context, lenderID int64, page, pageSize int32) ([]domain.Asset, int32, error) {
	args := m.Called(ctx, lenderID, page, pageSize)
	if as := args.Get(0); as != nil {
		return as.([]domain.Asset), args.Get(1).(int32), args.Error(2)
	}
	return nil, args.Get(1).(int32), args.Error(2)
}

type mockLedgerRepo struct {
	mock.Mock
}

func (m *mockLedgerRepo) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLedgerRepo) Transfer(ctx context.Context, lt *domain.LedgerTransaction) error {
	return m.Called(ctx, lt).Error(0)
}

func (m *mockLedgerRepo) TransferWithAllowance(ctx context.Context, lt *domain.LedgerTransaction, spenderID int64) error {
	return m.Called(ctx, lt, spenderID).Error(0)
}

func (m *mockLedgerRepo) GetAllowance(ctx context.Context, ownerID, spenderID int64) (int64, error) {
	args := m.Called(ctx, ownerID, spenderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLedgerRepo) SetAllowance(ctx context.Context, ownerID, spenderID, amountCents int64) error {
	return m.Called(ctx, ownerID, spenderID, amountCents).Error(0)
}

func (m *mockLedgerRepo) ListTransactions(ctx context.Context, accountID int64, page, pageSize int32) ([]domain.LedgerTransaction, int32, error) {
	args := m.Called(ctx, accountID, page, pageSize)
	if txs := args.Get(0); txs != nil {
		return txs.([]domain.LedgerTransaction), args.Get(1).(int32), args.Error(2)
	}
	return nil, args.Get(1).(int32), args.Error(2)
}

type mockConfigRepo struct {
	mock.Mock
}

func (m *mockConfigRepo) GetPlatformFeePercentage(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockConfigRepo) SetPlatformFeePercentage(ctx context.Context, value int64) error {
	return m.Called(ctx, value).Error(0)
}

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) Terms(ctx context.Context, assetID int64) (*domain.AssetTerms, error) {
	args := m.Called(ctx, assetID)
	if terms := args.Get(0); terms != nil {
		return terms.(*domain.AssetTerms), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRegistry) SetRented(ctx context.Context, assetID, renterID int64, rentalEnd time.Time) error {
	return m.Called(ctx, assetID, renterID, rentalEnd).Error(0)
}

func (m *mockRegistry) SetAvailable(ctx context.Context, assetID int64) error {
	return m.Called(ctx, assetID).Error(0)
}

func (m *mockRegistry) TransferCustody(ctx context.Context, from, to, assetID int64) error {
	return m.Called(ctx, from, to, assetID).Error(0)
}

func (m *mockRegistry) IsAuthorized(ctx context.Context, owner, operator, assetID int64) (bool, error) {
	args := m.Called(ctx, owner, operator, assetID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRegistry) Approve(ctx context.Context, owner, operator, assetID int64) error {
	return m.Called(ctx, owner, operator, assetID).Error(0)
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) AuthorizedTransfer(ctx context.Context, from, to, amountCents int64, txType domain.TransactionType, assetID *int64, description string) error {
	return m.Called(ctx, from, to, amountCents, txType, assetID, description).Error(0)
}

func (m *mockLedger) Reclaim(ctx context.Context, from, amountCents int64, assetID *int64, description string) error {
	return m.Called(ctx, from, amountCents, assetID, description).Error(0)
}

func (m *mockLedger) Approve(ctx context.Context, ownerID, amountCents int64) error {
	return m.Called(ctx, ownerID, amountCents).Error(0)
}

func (m *mockLedger) BalanceOf(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLedger) Allowance(ctx context.Context, ownerID int64) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) RentalStarted(ctx context.Context, ev domain.RentalStarted) {
	m.Called(ctx, ev)
}

func (m *mockNotifier) RentalEnded(ctx context.Context, ev domain.RentalEnded) {
	m.Called(ctx, ev)
}
