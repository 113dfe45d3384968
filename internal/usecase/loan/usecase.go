package loan

import (
	"context"
	"errors"
	"time"

	ledgerDomain "lendmarket-engine/internal/domain/ledger"
	domain "lendmarket-engine/internal/domain/loan"
	"lendmarket-engine/internal/domain/uow"
	"lendmarket-engine/pkg/id"

	"gorm.io/gorm"
)

// sweepBatchSize bounds one pass of the default sweep.
const sweepBatchSize = 100

type Usecase struct {
	repo   domain.Repository
	ledger ledgerDomain.Repository
	uow    uow.UnitOfWork
	now    func() time.Time
}

func NewUsecase(repo domain.Repository, ledger ledgerDomain.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: repo, ledger: ledger, uow: tx, now: time.Now}
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if in.BorrowerID == "" {
		return nil, errors.New("missing borrower identity")
	}
	terms := domain.CreateTerms{
		RequestedAmount:    in.RequestedAmount,
		InterestRate:       in.InterestRate,
		TermDays:           in.TermDays,
		Purpose:            in.Purpose,
		CollateralType:     domain.CollateralType(in.Collateral.Type),
		CollateralChain:    in.Collateral.Chain,
		CollateralContract: in.Collateral.Contract,
		CollateralTokenID:  in.Collateral.TokenID,
		CollateralValue:    in.Collateral.EstimatedValue,
	}
	if err := domain.ValidateCreation(terms); err != nil {
		return nil, err
	}

	now := u.now().UTC()
	l := &domain.Loan{
		LoanID:             id.NewID32(),
		BorrowerID:         in.BorrowerID,
		RequestedAmount:    terms.RequestedAmount,
		InterestRate:       terms.InterestRate,
		TermDays:           terms.TermDays,
		Purpose:            terms.Purpose,
		CollateralType:     terms.CollateralType,
		CollateralChain:    terms.CollateralChain,
		CollateralContract: terms.CollateralContract,
		CollateralTokenID:  terms.CollateralTokenID,
		CollateralValue:    terms.CollateralValue,
		RiskScore:          in.RiskScore,
		Status:             domain.StatusListed,
		ListedAt:           now,
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return ToDTO(l, now), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	l, err = u.promoteIfDefaulted(ctx, l)
	if err != nil {
		return nil, err
	}
	return ToDTO(l, u.now().UTC()), nil
}

// ListAvailable returns loans by status, defaulting to the open marketplace
// view (listed).
func (u *Usecase) ListAvailable(ctx context.Context, status domain.Status) ([]*LoanDTO, error) {
	if status == "" {
		status = domain.StatusListed
	}
	loans, err := u.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return u.toDTOs(ctx, loans)
}

// ListForIdentity returns every loan where identity is borrower or lender.
func (u *Usecase) ListForIdentity(ctx context.Context, identity string) ([]*LoanDTO, error) {
	loans, err := u.repo.ListByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}
	return u.toDTOs(ctx, loans)
}

func (u *Usecase) Ledger(ctx context.Context, loanID string) ([]LedgerEntryDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	entries, err := u.ledger.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	out := make([]LedgerEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, LedgerEntryDTO{
			EntryID:   e.EntryID,
			Kind:      string(e.Kind),
			ActorID:   e.ActorID,
			Amount:    e.Amount,
			CreatedAt: e.CreatedAt,
		})
	}
	return out, nil
}

// SweepDefaults promotes one batch of overdue funded loans to defaulted and
// reports how many moved. The read path already promotes lazily; the sweep
// only exists for deployments that want defaults recorded without traffic.
func (u *Usecase) SweepDefaults(ctx context.Context) (int, error) {
	due, err := u.repo.ListFundedDueBefore(ctx, u.now().UTC(), sweepBatchSize)
	if err != nil {
		return 0, err
	}
	promoted := 0
	for i := range due {
		l, err := u.promoteIfDefaulted(ctx, &due[i])
		if err != nil {
			return promoted, err
		}
		if l.Status == domain.StatusDefaulted {
			promoted++
		}
	}
	return promoted, nil
}

func (u *Usecase) toDTOs(ctx context.Context, loans []domain.Loan) ([]*LoanDTO, error) {
	now := u.now().UTC()
	out := make([]*LoanDTO, 0, len(loans))
	for i := range loans {
		l, err := u.promoteIfDefaulted(ctx, &loans[i])
		if err != nil {
			return nil, err
		}
		out = append(out, ToDTO(l, now))
	}
	return out, nil
}

// promoteIfDefaulted applies the lazy funded → defaulted transition. The
// guard is re-checked under the row lock: a repayment that settled the loan
// between our read and the lock wins, and the fresh row is returned as-is.
func (u *Usecase) promoteIfDefaulted(ctx context.Context, l *domain.Loan) (*domain.Loan, error) {
	now := u.now().UTC()
	if l.Status != domain.StatusFunded || !domain.IsOverdue(l, now) {
		return l, nil
	}

	var out *domain.Loan
	err := u.uow.WithinLoanTx(ctx, l.LoanID, func(r uow.Repos, fresh *domain.Loan) error {
		if fresh.Status == domain.StatusFunded && domain.IsOverdue(fresh, now) {
			if err := fresh.MarkDefaulted(now); err != nil {
				return err
			}
			if err := r.Loans.Save(ctx, fresh); err != nil {
				return err
			}
		}
		out = fresh
		return nil
	})
	if errors.Is(err, domain.ErrStaleLoan) {
		// Lost a race with a writer; serve whatever committed.
		cur, rerr := u.repo.GetByLoanID(ctx, l.LoanID)
		if rerr != nil {
			return nil, rerr
		}
		return cur, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
