package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	// Append inserts one event; entries are never updated or deleted.
	Append(ctx context.Context, e *Entry) error
	ListByLoanID(ctx context.Context, loanID uint64) ([]Entry, error)
	// SumByKind reconciles the sub-ledger against the loan aggregates.
	SumByKind(ctx context.Context, loanID uint64, kind Kind) (decimal.Decimal, error)
}
