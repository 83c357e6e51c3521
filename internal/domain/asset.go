package domain

import "time"

// Asset is a physical item listed for rent. The lender keeps ownership of the
// listing; custody moves to the renter for the duration of an active rental.
type Asset struct {
	ID                 int64      `json:"id"`
	LenderID           int64      `json:"lender_id"`
	CustodyHolderID    int64      `json:"custody_holder_id"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	DailyFeeCents      int64      `json:"daily_fee_cents"`
	DepositCents       int64      `json:"deposit_cents"`
	LateFeePerDayCents int64      `json:"late_fee_per_day_cents"`
	Available          bool       `json:"available"`
	RenterID           *int64     `json:"renter_id,omitempty"`
	RentalEnd          *time.Time `json:"rental_end,omitempty"`
	// ApprovedOperator is the account allowed to move custody on the
	// lender's behalf (the settlement service's escrow account).
	ApprovedOperator *int64     `json:"approved_operator,omitempty"`
	CreatedOn        time.Time  `json:"created_on"`
	UpdatedOn        time.Time  `json:"updated_on"`
	DeletedOn        *time.Time `json:"deleted_on,omitempty"`
}

// AssetTerms is the read model the rental state machine consumes. It is a
// snapshot of the registry row at the moment a transition begins.
type AssetTerms struct {
	AssetID            int64
	LenderID           int64
	CustodyHolderID    int64
	DailyFeeCents      int64
	DepositCents       int64
	LateFeePerDayCents int64
	Available          bool
}
