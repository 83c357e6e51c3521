package service

import (
	"fmt"
	"time"

	"github.com/hgky95/Idle2Earn/internal/domain"
)

const secondsPerDay = 24 * 60 * 60

// mulCents multiplies two non-negative cent amounts, failing instead of
// wrapping on overflow.
func mulCents(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("%w: negative operand", domain.ErrArithmeticOverflow)
	}
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/a != b {
		return 0, fmt.Errorf("%w: %d * %d", domain.ErrArithmeticOverflow, a, b)
	}
	return product, nil
}

func addCents(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, fmt.Errorf("%w: %d + %d", domain.ErrArithmeticOverflow, a, b)
	}
	return sum, nil
}

// splitFee divides the rental fee between platform and lender. Integer
// division truncates toward zero, so the lender absorbs the rounding
// remainder, not the platform.
func splitFee(rentalFeeCents, feePercentage int64) (platformFee, lenderRevenue int64, err error) {
	scaled, err := mulCents(rentalFeeCents, feePercentage)
	if err != nil {
		return 0, 0, err
	}
	platformFee = scaled / 100
	lenderRevenue = rentalFeeCents - platformFee
	return platformFee, lenderRevenue, nil
}

// daysLate counts whole days elapsed past end; partial days truncate down,
// so a rental 23 hours late counts zero late days.
func daysLate(end, now time.Time) int64 {
	if !now.After(end) {
		return 0
	}
	return int64(now.Sub(end).Seconds()) / secondsPerDay
}

// computeSettlement produces the full disbursement breakdown for terminating
// the rental at the given time. With force=false the deposit is refunded in
// full. With force=true the late fee is deducted from the deposit, capped at
// the deposit, and added to the lender's payout as compensation.
//
// Conservation: LenderTotal + PlatformFee + DepositRefund always equals
// RentalFee + Deposit.
func computeSettlement(rt *domain.Rental, feePercentage int64, now time.Time, force bool) (*domain.Settlement, error) {
	if feePercentage < 0 || feePercentage > 100 {
		return nil, domain.ErrInvalidFeeRate
	}

	platformFee, lenderRevenue, err := splitFee(rt.RentalFeeCents, feePercentage)
	if err != nil {
		return nil, err
	}
	st := &domain.Settlement{
		RentalFeeCents:     rt.RentalFeeCents,
		PlatformFeeCents:   platformFee,
		LenderRevenueCents: lenderRevenue,
		LenderTotalCents:   lenderRevenue,
		DepositRefundCents: rt.DepositCents,
	}

	if force {
		st.DaysLate = daysLate(rt.EndTime, now)
		lateFee, err := mulCents(rt.LateFeePerDayCents, st.DaysLate)
		if err != nil {
			return nil, err
		}
		st.LateFeeCents = lateFee
		st.DeductedFeeCents = lateFee
		if st.DeductedFeeCents > rt.DepositCents {
			st.DeductedFeeCents = rt.DepositCents
		}
		st.LenderTotalCents = lenderRevenue + st.DeductedFeeCents
		st.DepositRefundCents = rt.DepositCents - st.DeductedFeeCents
	}

	escrowed, err := addCents(rt.RentalFeeCents, rt.DepositCents)
	if err != nil {
		return nil, err
	}
	if st.LenderTotalCents+st.PlatformFeeCents+st.DepositRefundCents != escrowed {
		return nil, fmt.Errorf("settlement breakdown does not conserve escrowed value for asset %d", rt.AssetID)
	}
	return st, nil
}
