package domain

// RentalStarted is emitted after a successful StartRental, once escrow holds
// the full rental cost and custody has moved to the renter.
type RentalStarted struct {
	AssetID        int64 `json:"asset_id"`
	LenderID       int64 `json:"lender_id"`
	RenterID       int64 `json:"renter_id"`
	RentalFeeCents int64 `json:"rental_fee_cents"`
	DepositCents   int64 `json:"deposit_cents"`
	DurationDays   int64 `json:"duration_days"`
}

// RentalEnded is emitted by both the normal and the force-close path.
// LenderAmountCents includes late-fee compensation on the force-close path.
type RentalEnded struct {
	AssetID           int64 `json:"asset_id"`
	LenderID          int64 `json:"lender_id"`
	RenterID          int64 `json:"renter_id"`
	LenderAmountCents int64 `json:"lender_amount_cents"`
	PlatformFeeCents  int64 `json:"platform_fee_cents"`
	ForceClosed       bool  `json:"force_closed"`
}
