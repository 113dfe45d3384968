package uow

import (
	"context"

	"lendmarket-engine/internal/domain/ledger"
	"lendmarket-engine/internal/domain/loan"
)

type Repos struct {
	Loans  loan.Repository
	Ledger ledger.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in; all fund/repay
	// guard checks run against the locked row
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
