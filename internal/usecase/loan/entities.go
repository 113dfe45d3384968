package loan

import (
	"time"

	domain "lendmarket-engine/internal/domain/loan"

	"github.com/shopspring/decimal"
)

type CollateralInput struct {
	Type           string          `json:"type"`
	Chain          string          `json:"chain"`
	Contract       string          `json:"contract"`
	TokenID        string          `json:"token_id"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
}

type CreateLoanInput struct {
	BorrowerID      string              `json:"borrower_id"`
	RequestedAmount decimal.Decimal     `json:"requested_amount"`
	InterestRate    decimal.Decimal     `json:"interest_rate"`
	TermDays        int                 `json:"term_days"`
	Purpose         string              `json:"purpose"`
	Collateral      CollateralInput     `json:"collateral"`
	RiskScore       decimal.NullDecimal `json:"risk_score"`
}

// LoanDTO carries every stored field plus the computed financial figures, so
// presentation layers never redo the math themselves.
type LoanDTO struct {
	LoanID     string  `json:"loan_id"`
	BorrowerID string  `json:"borrower_id"`
	LenderID   *string `json:"lender_id,omitempty"`

	RequestedAmount decimal.Decimal `json:"requested_amount"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	TermDays        int             `json:"term_days"`
	Purpose         string          `json:"purpose"`

	CollateralType     string          `json:"collateral_type"`
	CollateralChain    string          `json:"collateral_chain"`
	CollateralContract string          `json:"collateral_contract"`
	CollateralTokenID  string          `json:"collateral_token_id,omitempty"`
	CollateralValue    decimal.Decimal `json:"collateral_value"`

	FundedAmount *decimal.Decimal `json:"funded_amount,omitempty"`
	RepaidAmount decimal.Decimal  `json:"repaid_amount"`
	RiskScore    *decimal.Decimal `json:"risk_score,omitempty"`

	Status string `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	ListedAt    time.Time  `json:"listed_at"`
	FundedAt    *time.Time `json:"funded_at,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	RepaidAt    *time.Time `json:"repaid_at,omitempty"`
	DefaultedAt *time.Time `json:"defaulted_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`

	TotalOwed     decimal.Decimal `json:"total_owed"`
	RemainingOwed decimal.Decimal `json:"remaining_owed"`
	DaysUntilDue  int             `json:"days_until_due"`
	Overdue       bool            `json:"overdue"`
}

type LedgerEntryDTO struct {
	EntryID   string          `json:"entry_id"`
	Kind      string          `json:"kind"`
	ActorID   string          `json:"actor_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToDTO snapshots a loan together with its computed figures at now.
func ToDTO(l *domain.Loan, now time.Time) *LoanDTO {
	dto := &LoanDTO{
		LoanID:             l.LoanID,
		BorrowerID:         l.BorrowerID,
		LenderID:           l.LenderID,
		RequestedAmount:    l.RequestedAmount,
		InterestRate:       l.InterestRate,
		TermDays:           l.TermDays,
		Purpose:            l.Purpose,
		CollateralType:     string(l.CollateralType),
		CollateralChain:    l.CollateralChain,
		CollateralContract: l.CollateralContract,
		CollateralTokenID:  l.CollateralTokenID,
		CollateralValue:    l.CollateralValue,
		RepaidAmount:       l.RepaidAmount,
		Status:             string(l.Status),
		CreatedAt:          l.CreatedAt,
		ListedAt:           l.ListedAt,
		FundedAt:           l.FundedAt,
		DueAt:              l.DueAt,
		RepaidAt:           l.RepaidAt,
		DefaultedAt:        l.DefaultedAt,
		UpdatedAt:          l.UpdatedAt,
		TotalOwed:          domain.TotalOwed(l),
		RemainingOwed:      domain.RemainingOwed(l),
		DaysUntilDue:       domain.DaysUntilDue(l, now),
		Overdue:            domain.IsOverdue(l, now),
	}
	if l.FundedAmount.Valid {
		v := l.FundedAmount.Decimal
		dto.FundedAmount = &v
	}
	if l.RiskScore.Valid {
		v := l.RiskScore.Decimal
		dto.RiskScore = &v
	}
	return dto
}
