package funding

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

// maxConflictRetries bounds the automatic retry on an optimistic-concurrency
// loss; past it the caller gets ErrConflict and retries the whole operation.
const maxConflictRetries = 3

type Usecase struct {
	uow uow.UnitOfWork
	now func() time.Time
}

func NewUsecase(tx uow.UnitOfWork) *Usecase {
	return &Usecase{uow: tx, now: time.Now}
}

type FundInput struct {
	LoanID   string
	LenderID string
	Amount   decimal.Decimal
}

// Fund moves a listed loan to funded: state guard, ledger append, and
// aggregate save run in one transaction against the locked row, so two
// concurrent funders can never both succeed; the loser sees ErrLoanNotListed.
func (u *Usecase) Fund(ctx context.Context, in FundInput) (*loanuc.LoanDTO, error) {
	if in.LenderID == "" {
		return nil, errors.New("missing lender identity")
	}

	var (
		out *domain.Loan
		err error
	)
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		out, err = u.fundOnce(ctx, in)
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

func (u *Usecase) fundOnce(ctx context.Context, in FundInput) (*domain.Loan, error) {
	now := u.now().UTC()
	var out *domain.Loan
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domain.Loan) error {
		if err := l.MarkFunded(in.LenderID, in.Amount, now); err != nil {
			return err
		}
		entry := &ledgerDomain.Entry{
			EntryID: id.NewID32(),
			LoanID:  l.ID,
			Kind:    ledgerDomain.KindFunding,
			ActorID: in.LenderID,
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
