package loanmock

import (
	"context"
	"errors"
	"time"

	domain "lendmarket-engine/internal/domain/loan"
)

// Ensure compile-time compliance
var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("loanmock: method not implemented")

// Repo is a function-backed mock for domain.Repository. Fill in the fields a
// test needs; unfilled ones return errUnimplemented.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	ListByStatusFn         func(ctx context.Context, status domain.Status) ([]domain.Loan, error)
	ListByIdentityFn       func(ctx context.Context, identity string) ([]domain.Loan, error)
	ListFundedDueBeforeFn  func(ctx context.Context, cutoff time.Time, limit int) ([]domain.Loan, error)
	SaveFn                 func(ctx context.Context, l *domain.Loan) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return errUnimplemented
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Loan, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, status)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListByIdentity(ctx context.Context, identity string) ([]domain.Loan, error) {
	if m.ListByIdentityFn != nil {
		return m.ListByIdentityFn(ctx, identity)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListFundedDueBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.Loan, error) {
	if m.ListFundedDueBeforeFn != nil {
		return m.ListFundedDueBeforeFn(ctx, cutoff, limit)
	}
	return nil, errUnimplemented
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return errUnimplemented
}
