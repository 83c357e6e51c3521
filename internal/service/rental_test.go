package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hgky95/Idle2Earn/internal/domain"
	"github.com/hgky95/Idle2Earn/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testEscrowAccount   = int64(1)
	testPlatformAccount = int64(2)
	testLenderID        = int64(10)
	testRenterID        = int64(20)
	testAdminID         = int64(99)
	testAssetID         = int64(7)
)

type rentalServiceFixture struct {
	rentalRepo  *mockRentalRepo
	accountRepo *mockAccountRepo
	configRepo  *mockConfigRepo
	assets      *mockRegistry
	funds       *mockLedger
	notifier    *mockNotifier
	now         time.Time
	svc         *rentalService
}

func newRentalServiceFixture(t *testing.T) *rentalServiceFixture {
	t.Helper()
	f := &rentalServiceFixture{
		rentalRepo:  &mockRentalRepo{},
		accountRepo: &mockAccountRepo{},
		configRepo:  &mockConfigRepo{},
		assets:      &mockRegistry{},
		funds:       &mockLedger{},
		notifier:    &mockNotifier{},
		now:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	svc := NewRentalService(f.rentalRepo, f.accountRepo, f.configRepo, f.assets, f.funds, f.notifier,
		testEscrowAccount, testPlatformAccount)
	f.svc = svc.(*rentalService)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *rentalServiceFixture) assetTerms() *domain.AssetTerms {
	return &domain.AssetTerms{
		AssetID:            testAssetID,
		LenderID:           testLenderID,
		CustodyHolderID:    testLenderID,
		DailyFeeCents:      10,
		DepositCents:       50,
		LateFeePerDayCents: 20,
		Available:          true,
	}
}

func (f *rentalServiceFixture) activeRental() *domain.Rental {
	return &domain.Rental{
		AssetID:            testAssetID,
		LenderID:           testLenderID,
		RenterID:           testRenterID,
		DurationDays:       3,
		RentalFeeCents:     30,
		DepositCents:       50,
		LateFeePerDayCents: 20,
		StartTime:          f.now.Add(-3 * 24 * time.Hour),
		EndTime:            f.now,
		Status:             domain.RentalStatusActive,
	}
}

func TestStartRentalSuccess(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()

	f.rentalRepo.On("GetActiveByAsset", ctx, testAssetID).Return(nil, domain.ErrRentalNotFound)
	f.assets.On("Terms", ctx, testAssetID).Return(f.assetTerms(), nil)
	f.assets.On("IsAuthorized", ctx, testLenderID, testEscrowAccount, testAssetID).Return(true, nil)
	// dailyFee=10 * duration=3 + deposit=50 = 80 into escrow
	f.funds.On("AuthorizedTransfer", ctx, testRenterID, testEscrowAccount, int64(80),
		domain.TransactionTypeEscrowDebit, mock.Anything, mock.Anything).Return(nil)
	f.assets.On("SetRented", ctx, testAssetID, testRenterID, f.now.Add(3*24*time.Hour)).Return(nil)
	f.assets.On("TransferCustody", ctx, testLenderID, testRenterID, testAssetID).Return(nil)
	f.rentalRepo.On("Create", ctx, mock.Anything).Return(nil)
	f.notifier.On("RentalStarted", ctx, mock.Anything).Return()

	rt, err := f.svc.StartRental(ctx, testAssetID, 3, testRenterID)
	require.NoError(t, err)

	assert.Equal(t, int64(30), rt.RentalFeeCents)
	assert.Equal(t, int64(50), rt.DepositCents)
	assert.Equal(t, domain.RentalStatusActive, rt.Status)
	assert.Equal(t, f.now.Add(3*24*time.Hour), rt.EndTime)
	assert.Equal(t, []int64{testAssetID}, f.svc.ActiveAssetsByRenter(testRenterID))

	f.funds.AssertExpectations(t)
	f.assets.AssertExpectations(t)
	f.rentalRepo.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestStartRentalRejectsZeroDuration(t *testing.T) {
	f := newRentalServiceFixture(t)

	_, err := f.svc.StartRental(context.Background(), testAssetID, 0, testRenterID)
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)
	f.funds.AssertNotCalled(t, "AuthorizedTransfer")
}

func TestStartRentalRejectsSelfRental(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()

	f.rentalRepo.On("GetActiveByAsset", ctx, testAssetID).Return(nil, domain.ErrRentalNotFound)
	f.assets.On("Terms", ctx, testAssetID).Return(f.assetTerms(), nil)

	_, err := f.svc.StartRental(ctx, testAssetID, 3, testLenderID)
	assert.ErrorIs(t, err, domain.ErrSelfRental)
}

func TestStartRentalRejectsWhenAlreadyRented(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()

	f.rentalRepo.On("GetActiveByAsset", ctx, testAssetID).Return(f.activeRental(), nil)

	_, err := f.svc.StartRental(ctx, testAssetID, 3, testRenterID)
	assert.ErrorIs(t, err, domain.ErrAssetUnavailable)
	f.funds.AssertNotCalled(t, "AuthorizedTransfer")
}

func TestStartRentalRequiresEscrowApproval(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()

	f.rentalRepo.On("GetActiveByAsset", ctx, testAssetID).Return(nil, domain.ErrRentalNotFound)
	f.assets.On("Terms", ctx, testAssetID).Return(f.assetTerms(), nil)
	f.assets.On("IsAuthorized", ctx, testLenderID, testEscrowAccount, testAssetID).Return(false, nil)

	_, err := f.svc.StartRental(ctx, testAssetID, 3, testRenterID)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	f.funds.AssertNotCalled(t, "AuthorizedTransfer")
}

func TestStartRentalOverflowingFeeRejected(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()

	terms := f.assetTerms()
	terms.DailyFeeCents = 1 << 62

	f.rentalRepo.On("GetActiveByAsset", ctx, testAssetID).Return(nil, domain.ErrRentalNotFound)
	f.assets.On("Terms", ctx, testAssetID).Return(terms, nil)
	f.assets.On("IsAuthorized", ctx, testLenderID, testEscrowAccount, testAssetID).Return(true, nil)

	_, err := f.svc.StartRental(ctx, testAssetID, 1000, testRenterID)
	assert.ErrorIs(t, err, domain.ErrArithmeticOverflow)
	f.funds.AssertNotCalled(t, "AuthorizedTransfer")
}

func TestStartRentalUnwindsEscrowWhenRegistryFails(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()

	f.rentalRepo.On("GetActiveByAsset", ctx, testAssetID).Return(nil, domain.ErrRentalNotFound)
	f.assets.On("Terms", ctx, testAssetID).Return(f.assetTerms(), nil)
	f.assets.On("IsAuthorized", ctx, testLenderID, testEscrowAccount, testAssetID).Return(true, nil)
	f.funds.On("AuthorizedTransfer", ctx, testRenterID, testEscrowAccount, int64(80),
		domain.TransactionTypeEscrowDebit, mock.Anything, mock.Anything).Return(nil)
	f.assets.On("SetRented", ctx, testAssetID, testRenterID, mock.Anything).Return(errors.New("registry down"))
	// the escrow debit must be refunded
	f.funds.On("AuthorizedTransfer", ctx, testEscrowAccount, testRenterID, int64(80),
		domain.TransactionTypeAdjustment, mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.StartRental(ctx, testAssetID, 3, testRenterID)
	require.Error(t, err)

	f.funds.AssertExpectations(t)
	f.rentalRepo.AssertNotCalled(t, "Create")
	f.notifier.AssertNotCalled(t, "RentalStarted")
	assert.Empty(t, f.svc.ActiveAssetsByRenter(testRenterID))
}

func TestStartRentalUnwindsEverythingWhenRecordCreateFails(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()

	f.rentalRepo.On("GetActiveByAsset", ctx, testAssetID).Return(nil, domain.ErrRentalNotFound)
	f.assets.On("Terms", ctx, testAssetID).Return(f.assetTerms(), nil)
	f.assets.On("IsAuthorized", ctx, testLenderID, testEscrowAccount, testAssetID).Return(true, nil)
	f.funds.On("AuthorizedTransfer", ctx, testRenterID, testEscrowAccount, int64(80),
		domain.TransactionTypeEscrowDebit, mock.Anything, mock.Anything).Return(nil)
	f.assets.On("SetRented", ctx, testAssetID, testRenterID, mock.Anything).Return(nil)
	f.assets.On("TransferCustody", ctx, testLenderID, testRenterID, testAssetID).Return(nil)
	f.rentalRepo.On("Create", ctx, mock.Anything).Return(errors.New("unique violation"))

	// undo stack in reverse: custody back, availability restored, escrow refunded
	f.assets.On("TransferCustody", ctx, testRenterID, testLenderID, testAssetID).Return(nil)
	f.assets.On("SetAvailable", ctx, testAssetID).Return(nil)
	f.funds.On("AuthorizedTransfer", ctx, testEscrowAccount, testRenterID, int64(80),
		domain.TransactionTypeAdjustment, mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.StartRental(ctx, testAssetID, 3, testRenterID)
	require.Error(t, err)

	f.assets.AssertExpectations(t)
	f.funds.AssertExpectations(t)
	f.notifier.AssertNotCalled(t, "RentalStarted")
}

func TestEndRentalSuccess(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()
	rt := f.activeRental()

	f.rentalRepo.On("GetActiveByAsset", ctx, testAssetID).Return(rt, nil)
	f.configRepo.On("GetPlatformFeePercentage", ctx).Return(int64(10), nil)
	f.assets.On("TransferCustody", ctx, testRenterID, testLenderID, testAssetID).Return(nil)
	f.assets.On("SetAvailable", ctx, testAssetID).Return(nil)
	// rentalFee=30 at 10%: lender 27, platform 3, deposit 50 refunded
	f.funds.On("AuthorizedTransfer", ctx, testEscrowAccount, testLenderID, int64(27),
		domain.TransactionTypeLenderPayout, mock.Anything, mock.Anything).Return(nil)
	f.funds.On("AuthorizedTransfer", ctx, testEscrowAccount, testPlatformAccount, int64(3),
		domain.TransactionTypePlatformFee, mock.Anything, mock.Anything).Return(nil)
	f.funds.On("AuthorizedTransfer", ctx, testEscrowAccount, testRenterID, int64(50),
		domain.TransactionTypeDepositRefund, mock.Anything, mock.Anything).Return(nil)
	f.rentalRepo.On("Update", ctx, mock.Anything).Return(nil)
	f.notifier.On("RentalEnded", ctx, mock.MatchedBy(func(ev domain.RentalEnded) bool {
		return ev.LenderAmountCents == 27 && ev.PlatformFeeCents == 3 && !ev.ForceClosed
	})).Return()

	got, err := f.svc.EndRental(ctx, testAssetID, testRenterID)
	require.NoError(t, err)

	assert.Equal(t, domain.RentalStatusReturned, got.Status)
	assert.Equal(t, int64(27), got.LenderPayoutCents)
	assert.Equal(t, int64(3), got.PlatformFeeCents)
	assert.Equal(t, int64(50), got.DepositRefundCents)
	require.NotNil(t, got.SettledOn)

	f.funds.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestEndRentalRejectsNonRenter(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()

	f.rentalRepo.On("GetActiveByAsset", ctx, testAssetID).Return(f.activeRental(), nil)

	_, err := f.svc.EndRental(ctx, testAssetID, testLenderID)
	assert.ErrorIs(t, err, domain.ErrNotRenter)
	f.funds.AssertNotCalled(t, "AuthorizedTransfer")
}

func TestEndRentalOnSettledRentalFails(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()

	settled := f.activeRental()
	settled.Status = domain.RentalStatusReturned

	f.rentalRepo.On("GetActiveByAsset", ctx, testAssetID).Return(nil, domain.ErrRentalNotFound)
	f.rentalRepo.On("GetLatestByAsset", ctx, testAssetID).Return(settled, nil)

	_, err := f.svc.EndRental(ctx, testAssetID, testRenterID)
	assert.ErrorIs(t, err, domain.ErrRentalNotActive)
	f.funds.AssertNotCalled(t, "AuthorizedTransfer")
}

func TestEndRentalNeverRented(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()

	f.rentalRepo.On("GetActiveByAsset", ctx, testAssetID).Return(nil, domain.ErrRentalNotFound)
	f.rentalRepo.On("GetLatestByAsset", ctx, testAssetID).Return(nil, domain.ErrRentalNotFound)

	_, err := f.svc.EndRental(ctx, testAssetID, testRenterID)
	assert.ErrorIs(t, err, domain.ErrRentalNotFound)
}

func TestEndRentalUnwindsOnDisbursementFailure(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()

	f.rentalRepo.On("GetActiveByAsset", ctx, testAssetID).Return(f.activeRental(), nil)
	f.configRepo.On("GetPlatformFeePercentage", ctx).Return(int64(10), nil)
	f.assets.On("TransferCustody", ctx, testRenterID, testLenderID, testAssetID).Return(nil)
	f.assets.On("SetAvailable", ctx, testAssetID).Return(nil)
	f.funds.On("AuthorizedTransfer", ctx, testEscrowAccount, testLenderID, int64(27),
		domain.TransactionTypeLenderPayout, mock.Anything, mock.Anything).Return(nil)
	f.funds.On("AuthorizedTransfer", ctx, testEscrowAccount, testPlatformAccount, int64(3),
		domain.TransactionTypePlatformFee, mock.Anything, mock.Anything).Return(errors.New("ledger down"))

	// undo stack: lender payout reclaimed into escrow, asset re-rented,
	// custody returned
	f.funds.On("Reclaim", ctx, testLenderID, int64(27), mock.Anything, mock.Anything).Return(nil)
	f.assets.On("SetRented", ctx, testAssetID, testRenterID, mock.Anything).Return(nil)
	f.assets.On("TransferCustody", ctx, testLenderID, testRenterID, testAssetID).Return(nil)

	_, err := f.svc.EndRental(ctx, testAssetID, testRenterID)
	require.Error(t, err)

	f.funds.AssertExpectations(t)
	f.assets.AssertExpectations(t)
	f.rentalRepo.AssertNotCalled(t, "Update")
	f.notifier.AssertNotCalled(t, "RentalEnded")
}

// memLedgerRepo is a minimal in-memory LedgerRepository so the state machine
// can be exercised against the real value ledger instead of a mocked one.
type memLedgerRepo struct {
	balances   map[int64]int64
	allowances map[[2]int64]int64
	failOn     map[domain.TransactionType]error
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{
		balances:   map[int64]int64{},
		allowances: map[[2]int64]int64{},
		failOn:     map[domain.TransactionType]error{},
	}
}

func (m *memLedgerRepo) GetBalance(_ context.Context, accountID int64) (int64, error) {
	return m.balances[accountID], nil
}

func (m *memLedgerRepo) Transfer(_ context.Context, lt *domain.LedgerTransaction) error {
	if err := m.failOn[lt.Type]; err != nil {
		return err
	}
	if m.balances[lt.FromAccountID] < lt.AmountCents {
		return domain.ErrInsufficientFunds
	}
	m.balances[lt.FromAccountID] -= lt.AmountCents
	m.balances[lt.ToAccountID] += lt.AmountCents
	return nil
}

func (m *memLedgerRepo) TransferWithAllowance(ctx context.Context, lt *domain.LedgerTransaction, spenderID int64) error {
	key := [2]int64{lt.FromAccountID, spenderID}
	if m.allowances[key] < lt.AmountCents {
		return domain.ErrNotAuthorized
	}
	if err := m.Transfer(ctx, lt); err != nil {
		return err
	}
	m.allowances[key] -= lt.AmountCents
	return nil
}

func (m *memLedgerRepo) GetAllowance(_ context.Context, ownerID, spenderID int64) (int64, error) {
	return m.allowances[[2]int64{ownerID, spenderID}], nil
}

func (m *memLedgerRepo) SetAllowance(_ context.Context, ownerID, spenderID, amountCents int64) error {
	m.allowances[[2]int64{ownerID, spenderID}] = amountCents
	return nil
}

func (m *memLedgerRepo) ListTransactions(_ context.Context, accountID int64, page, pageSize int32) ([]domain.LedgerTransaction, int32, error) {
	return nil, 0, nil
}

// The payees of a settlement never hold allowances, so the unwind must move
// already-paid legs back into escrow on the operator's own authority. A mid-
// settlement failure has to leave escrow holding the full rental cost again.
func TestEndRentalCompensationRestoresEscrowWithRealLedger(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()

	repo := newMemLedgerRepo()
	repo.balances[testEscrowAccount] = 80 // rentalFee 30 + deposit 50
	repo.failOn[domain.TransactionTypePlatformFee] = errors.New("ledger down")
	f.svc.funds = ledger.NewValueLedger(repo, testEscrowAccount)

	f.rentalRepo.On("GetActiveByAsset", ctx, testAssetID).Return(f.activeRental(), nil)
	f.configRepo.On("GetPlatformFeePercentage", ctx).Return(int64(10), nil)
	f.assets.On("TransferCustody", ctx, testRenterID, testLenderID, testAssetID).Return(nil)
	f.assets.On("SetAvailable", ctx, testAssetID).Return(nil)
	// unwind
	f.assets.On("SetRented", ctx, testAssetID, testRenterID, mock.Anything).Return(nil)
	f.assets.On("TransferCustody", ctx, testLenderID, testRenterID, testAssetID).Return(nil)

	_, err := f.svc.EndRental(ctx, testAssetID, testRenterID)
	require.Error(t, err)

	assert.Equal(t, int64(80), repo.balances[testEscrowAccount], "escrow holds the full rental cost again")
	assert.Equal(t, int64(0), repo.balances[testLenderID], "lender payout was pulled back")
	f.rentalRepo.AssertNotCalled(t, "Update")
	f.notifier.AssertNotCalled(t, "RentalEnded")
}

func TestForceEndRentalLateFeeWithinDeposit(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()

	rt := f.activeRental()
	rt.EndTime = f.now.Add(-2 * 24 * time.Hour) // two whole days late

	f.accountRepo.On("GetByID", ctx, testAdminID).Return(&domain.Account{ID: testAdminID, Role: domain.AccountRoleAdmin}, nil)
	f.rentalRepo.On("GetActiveByAsset", ctx, testAssetID).Return(rt, nil)
	f.configRepo.On("GetPlatformFeePercentage", ctx).Return(int64(10), nil)
	f.assets.On("TransferCustody", ctx, testRenterID, testLenderID, testAssetID).Return(nil)
	f.assets.On("SetAvailable", ctx, testAssetID).Return(nil)
	// lateFee = 20*2 = 40 deducted from deposit 50: lender 27+40, renter 10 back
	f.funds.On("AuthorizedTransfer", ctx, testEscrowAccount, testLenderID, int64(67),
		domain.TransactionTypeLenderPayout, mock.Anything, mock.Anything).Return(nil)
	f.funds.On("AuthorizedTransfer", ctx, testEscrowAccount, testPlatformAccount, int64(3),
		domain.TransactionTypePlatformFee, mock.Anything, mock.Anything).Return(nil)
	f.funds.On("AuthorizedTransfer", ctx, testEscrowAccount, testRenterID, int64(10),
		domain.TransactionTypeDepositRefund, mock.Anything, mock.Anything).Return(nil)
	f.rentalRepo.On("Update", ctx, mock.Anything).Return(nil)
	f.notifier.On("RentalEnded", ctx, mock.MatchedBy(func(ev domain.RentalEnded) bool {
		return ev.LenderAmountCents == 67 && ev.ForceClosed
	})).Return()

	got, err := f.svc.ForceEndRental(ctx, testAssetID, testAdminID)
	require.NoError(t, err)

	assert.Equal(t, domain.RentalStatusForceClosed, got.Status)
	assert.Equal(t, int64(40), got.LateFeeCents)
	assert.Equal(t, int64(10), got.DepositRefundCents)

	f.funds.AssertExpectations(t)
}

func TestForceEndRentalLateFeeCappedSkipsZeroRefund(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()

	rt := f.activeRental()
	rt.EndTime = f.now.Add(-3 * 24 * time.Hour) // raw lateFee 60 > deposit 50

	f.accountRepo.On("GetByID", ctx, testAdminID).Return(&domain.Account{ID: testAdminID, Role: domain.AccountRoleAdmin}, nil)
	f.rentalRepo.On("GetActiveByAsset", ctx, testAssetID).Return(rt, nil)
	f.configRepo.On("GetPlatformFeePercentage", ctx).Return(int64(10), nil)
	f.assets.On("TransferCustody", ctx, testRenterID, testLenderID, testAssetID).Return(nil)
	f.assets.On("SetAvailable", ctx, testAssetID).Return(nil)
	f.funds.On("AuthorizedTransfer", ctx, testEscrowAccount, testLenderID, int64(77),
		domain.TransactionTypeLenderPayout, mock.Anything, mock.Anything).Return(nil)
	f.funds.On("AuthorizedTransfer", ctx, testEscrowAccount, testPlatformAccount, int64(3),
		domain.TransactionTypePlatformFee, mock.Anything, mock.Anything).Return(nil)
	f.rentalRepo.On("Update", ctx, mock.Anything).Return(nil)
	f.notifier.On("RentalEnded", ctx, mock.Anything).Return()

	got, err := f.svc.ForceEndRental(ctx, testAssetID, testAdminID)
	require.NoError(t, err)

	assert.Equal(t, int64(50), got.LateFeeCents, "deduction capped at the deposit")
	assert.Equal(t, int64(0), got.DepositRefundCents)

	// the zero-value refund leg must be skipped, not attempted
	f.funds.AssertNotCalled(t, "AuthorizedTransfer", ctx, testEscrowAccount, testRenterID, int64(0),
		domain.TransactionTypeDepositRefund, mock.Anything, mock.Anything)
	f.funds.AssertExpectations(t)
}

func TestForceEndRentalRejectsNonAdmin(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()

	f.accountRepo.On("GetByID", ctx, testRenterID).Return(&domain.Account{ID: testRenterID, Role: domain.AccountRoleMember}, nil)

	_, err := f.svc.ForceEndRental(ctx, testAssetID, testRenterID)
	assert.ErrorIs(t, err, domain.ErrNotAdmin)
	f.rentalRepo.AssertNotCalled(t, "GetActiveByAsset")
}

func TestForceEndRentalRejectsBeforeExpiry(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()

	rt := f.activeRental()
	rt.EndTime = f.now.Add(time.Hour)

	f.accountRepo.On("GetByID", ctx, testAdminID).Return(&domain.Account{ID: testAdminID, Role: domain.AccountRoleAdmin}, nil)
	f.rentalRepo.On("GetActiveByAsset", ctx, testAssetID).Return(rt, nil)

	_, err := f.svc.ForceEndRental(ctx, testAssetID, testAdminID)
	assert.ErrorIs(t, err, domain.ErrRentalNotExpired)
	f.funds.AssertNotCalled(t, "AuthorizedTransfer")
}

func TestReentrantCallRejectedMidTransition(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()

	f.rentalRepo.On("GetActiveByAsset", ctx, testAssetID).Return(f.activeRental(), nil)
	f.configRepo.On("GetPlatformFeePercentage", ctx).Return(int64(10), nil)
	f.assets.On("TransferCustody", ctx, testRenterID, testLenderID, testAssetID).Return(nil)
	f.assets.On("SetAvailable", ctx, testAssetID).Return(nil)
	f.funds.On("AuthorizedTransfer", ctx, testEscrowAccount, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.rentalRepo.On("Update", ctx, mock.Anything).Return(nil)

	// the notifier fires while the guard is still held; a re-entrant call
	// against the same asset must be rejected
	var reentrantErr error
	f.notifier.On("RentalEnded", ctx, mock.Anything).Run(func(mock.Arguments) {
		_, reentrantErr = f.svc.EndRental(ctx, testAssetID, testRenterID)
	}).Return()

	_, err := f.svc.EndRental(ctx, testAssetID, testRenterID)
	require.NoError(t, err)
	assert.ErrorIs(t, reentrantErr, domain.ErrOperationInProgress)
}

func TestRebuildIndex(t *testing.T) {
	f := newRentalServiceFixture(t)
	ctx := context.Background()

	f.rentalRepo.On("ListActive", ctx).Return([]domain.Rental{
		{AssetID: 1, RenterID: testRenterID, Status: domain.RentalStatusActive},
		{AssetID: 2, RenterID: testRenterID, Status: domain.RentalStatusActive},
		{AssetID: 3, RenterID: 55, Status: domain.RentalStatusActive},
	}, nil)

	require.NoError(t, f.svc.RebuildIndex(ctx))
	assert.ElementsMatch(t, []int64{1, 2}, f.svc.ActiveAssetsByRenter(testRenterID))
	assert.ElementsMatch(t, []int64{3}, f.svc.ActiveAssetsByRenter(55))
}
