package loan

import "errors"

var (
	ErrNotFound = errors.New("loan not found")

	// Creation-time validation.
	ErrInvalidTerms           = errors.New("invalid loan terms")
	ErrInsufficientCollateral = errors.New("collateral value below required ratio")

	// State-machine guard failures.
	ErrInvalidTransition = errors.New("invalid loan state transition")
	ErrLoanNotListed     = errors.New("loan is not listed")
	ErrLoanNotFunded     = errors.New("loan is not funded")

	// Amount range failures.
	ErrAmountNotPositive      = errors.New("amount must be positive")
	ErrAmountExceedsRequested = errors.New("amount exceeds requested amount")
	ErrAmountExceedsOwed      = errors.New("amount exceeds remaining owed")

	// ErrStaleLoan: the version compare-and-set lost; the operation may be
	// retried against a fresh read. ErrConflict: the bounded retry ran out.
	ErrStaleLoan = errors.New("loan version is stale")
	ErrConflict  = errors.New("concurrent update conflict")
)
