package domain

import "time"

type RentalStatus string

const (
	RentalStatusActive      RentalStatus = "ACTIVE"
	RentalStatusReturned    RentalStatus = "RETURNED"
	RentalStatusForceClosed RentalStatus = "FORCE_CLOSED"
)

// Terminal reports whether the status is a terminal state. A rental never
// leaves a terminal state; records are kept for audit, not deleted.
func (s RentalStatus) Terminal() bool {
	return s == RentalStatusReturned || s == RentalStatusForceClosed
}

// Rental is the authoritative record of one custody-plus-escrow engagement.
// Rentals are keyed by asset: at most one ACTIVE rental exists per asset.
//
// Fee and deposit fields are copied from the asset terms at creation time and
// never change afterwards. While status is ACTIVE the escrow account holds
// exactly RentalFeeCents + DepositCents attributable to this rental; every
// terminal transition disburses that amount in full.
type Rental struct {
	AssetID            int64        `json:"asset_id"`
	LenderID           int64        `json:"lender_id"`
	RenterID           int64        `json:"renter_id"`
	DurationDays       int64        `json:"duration_days"`
	RentalFeeCents     int64        `json:"rental_fee_cents"`
	DepositCents       int64        `json:"deposit_cents"`
	LateFeePerDayCents int64        `json:"late_fee_per_day_cents"`
	StartTime          time.Time    `json:"start_time"`
	EndTime            time.Time    `json:"end_time"`
	Status             RentalStatus `json:"status"`
	// Disbursement breakdown, populated on the terminal transition.
	LenderPayoutCents  int64      `json:"lender_payout_cents"`
	PlatformFeeCents   int64      `json:"platform_fee_cents"`
	DepositRefundCents int64      `json:"deposit_refund_cents"`
	LateFeeCents       int64      `json:"late_fee_cents"`
	SettledOn          *time.Time `json:"settled_on,omitempty"`
	CreatedOn          time.Time  `json:"created_on"`
	UpdatedOn          time.Time  `json:"updated_on"`
}

// Settlement is the fee breakdown for terminating a rental. Conservation
// invariant: LenderTotal + PlatformFee + DepositRefund equals the escrowed
// RentalFee + Deposit of the rental it was computed for.
type Settlement struct {
	RentalFeeCents     int64 `json:"rental_fee_cents"`
	PlatformFeeCents   int64 `json:"platform_fee_cents"`
	LenderRevenueCents int64 `json:"lender_revenue_cents"`
	DaysLate           int64 `json:"days_late"`
	LateFeeCents       int64 `json:"late_fee_cents"`
	DeductedFeeCents   int64 `json:"deducted_fee_cents"`
	LenderTotalCents   int64 `json:"lender_total_cents"`
	DepositRefundCents int64 `json:"deposit_refund_cents"`
}
