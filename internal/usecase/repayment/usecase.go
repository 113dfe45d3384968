package repayment

import (
	"context"
	"errors"
	"time"

	ledgerDomain "lendmarket-engine/internal/domain/ledger"
	domain "lendmarket-engine/internal/domain/loan"
	"lendmarket-engine/internal/domain/uow"
	loanuc "lendmarket-engine/internal/usecase/loan"
	"lendmarket-engine/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxConflictRetries = 3

type Usecase struct {
	uow uow.UnitOfWork
	now func() time.Time
}

func NewUsecase(tx uow.UnitOfWork) *Usecase {
	return &Usecase{uow: tx, now: time.Now}
}

type RepayInput struct {
	LoanID  string
	PayerID string
	Amount  decimal.Decimal
}

// Repay applies a payment to a funded loan. The over-repayment guard runs
// against the row read under the lock, so repaid_amount can never exceed the
// total owed; covering the balance settles the loan in the same commit.
func (u *Usecase) Repay(ctx context.Context, in RepayInput) (*loanuc.LoanDTO, error) {
	if in.PayerID == "" {
		return nil, errors.New("missing payer identity")
	}

	var (
		out *domain.Loan
		err error
	)
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		out, err = u.repayOnce(ctx, in)
		if !errors.Is(err, domain.ErrStaleLoan) {
			break
		}
	}
	if errors.Is(err, domain.ErrStaleLoan) {
		return nil, domain.ErrConflict
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return loanuc.ToDTO(out, u.now().UTC()), nil
}

func (u *Usecase) repayOnce(ctx context.Context, in RepayInput) (*domain.Loan, error) {
	now := u.now().UTC()
	var out *domain.Loan
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domain.Loan) error {
		if err := l.ApplyRepayment(in.Amount, now); err != nil {
			return err
		}
		entry := &ledgerDomain.Entry{
			EntryID: id.NewID32(),
			LoanID:  l.ID,
			Kind:    ledgerDomain.KindRepayment,
			ActorID: in.PayerID,
			Amount:  in.Amount,
		}
		if err := r.Ledger.Append(ctx, entry); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
