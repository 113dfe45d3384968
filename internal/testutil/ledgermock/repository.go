package ledgermock

import (
	"context"
	"errors"

	domain "lendmarket-engine/internal/domain/ledger"

	"github.com/shopspring/decimal"
)

// Ensure compile-time compliance
var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("ledgermock: method not implemented")

type Repo struct {
	AppendFn       func(ctx context.Context, e *domain.Entry) error
	ListByLoanIDFn func(ctx context.Context, loanID uint64) ([]domain.Entry, error)
	SumByKindFn    func(ctx context.Context, loanID uint64, kind domain.Kind) (decimal.Decimal, error)
}

func (m *Repo) Append(ctx context.Context, e *domain.Entry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	return errUnimplemented
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID uint64) ([]domain.Entry, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, errUnimplemented
}

func (m *Repo) SumByKind(ctx context.Context, loanID uint64, kind domain.Kind) (decimal.Decimal, error) {
	if m.SumByKindFn != nil {
		return m.SumByKindFn(ctx, loanID, kind)
	}
	return decimal.Zero, errUnimplemented
}
