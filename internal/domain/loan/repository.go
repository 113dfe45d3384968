package loan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row for the rest of the transaction on
	// dialects that support it.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	ListByStatus(ctx context.Context, status Status) ([]Loan, error)
	// ListByIdentity returns loans where identity is borrower or lender.
	ListByIdentity(ctx context.Context, identity string) ([]Loan, error)
	// ListFundedDueBefore feeds the default sweep.
	ListFundedDueBefore(ctx context.Context, cutoff time.Time, limit int) ([]Loan, error)
	// Save persists the aggregate with a compare-and-set on Version and
	// returns ErrStaleLoan when another writer got there first.
	Save(ctx context.Context, l *Loan) error
}
