package domain

import "errors"

// Validation errors: rejected before any state change, retryable with
// corrected input.
var (
	ErrInvalidDuration = errors.New("rental duration must be at least one day")
	ErrInvalidTerms    = errors.New("invalid asset terms")
	ErrInvalidFeeRate  = errors.New("platform fee percentage must be between 0 and 100")
	ErrSelfRental      = errors.New("cannot rent an asset you hold custody of")
)

// State-conflict errors: the caller's view of the world is stale; re-query
// and retry.
var (
	ErrAssetNotFound       = errors.New("asset not found")
	ErrAssetUnavailable    = errors.New("asset is not available for rent")
	ErrRentalNotFound      = errors.New("no rental recorded for asset")
	ErrRentalNotActive     = errors.New("rental is not active")
	ErrRentalNotExpired    = errors.New("rental period has not expired")
	ErrNotRenter           = errors.New("caller is not the renter of this asset")
	ErrNotLender           = errors.New("caller is not the lender of this asset")
	ErrNotAdmin            = errors.New("caller does not hold the administrator capability")
	ErrOperationInProgress = errors.New("another settlement operation is in progress for this asset")
)

// Collaborator failures: the whole transition aborts with no partial effect.
// The two ledger reasons are kept distinct so a caller can tell a balance
// problem from a missing approval.
var (
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrNotAuthorized     = errors.New("transfer not authorized")
	ErrCustodyTransfer   = errors.New("custody transfer refused")
)

// Arithmetic errors are fatal to the operation; amounts are never silently
// wrapped or truncated.
var ErrArithmeticOverflow = errors.New("fee computation overflows")

// Auth errors for the API surface.
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
