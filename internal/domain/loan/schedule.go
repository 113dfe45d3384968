package loan

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Pure schedule/interest calculators. Deterministic in (loan, now) and never
// mutate the loan; callers hand the resulting figures to presentation layers
// so no one recomputes financial math with ad-hoc arithmetic.

var (
	one         = decimal.NewFromInt(1)
	percentBase = decimal.NewFromInt(100)
)

// TotalOwed is principal plus simple (non-compounding) interest for the full
// term. Early repayment gets no discount. Zero until the loan is funded.
func TotalOwed(l *Loan) decimal.Decimal {
	if !l.FundedAmount.Valid {
		return decimal.Zero
	}
	factor := one.Add(l.InterestRate.Div(percentBase))
	return l.FundedAmount.Decimal.Mul(factor).Round(2)
}

// RemainingOwed is TotalOwed minus what has been repaid, floored at zero.
func RemainingOwed(l *Loan) decimal.Decimal {
	rem := TotalOwed(l).Sub(l.RepaidAmount)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// DaysUntilDue is ceil((dueAt - now) / 24h); negative means overdue by that
// many days. Zero when the loan has no due date yet.
func DaysUntilDue(l *Loan, now time.Time) int {
	if l.DueAt == nil {
		return 0
	}
	return int(math.Ceil(l.DueAt.Sub(now).Hours() / 24))
}

// IsOverdue reports a past due date with a positive remaining balance, the
// precondition for the defaulted transition.
func IsOverdue(l *Loan, now time.Time) bool {
	return l.DueAt != nil && now.After(*l.DueAt) && RemainingOwed(l).IsPositive()
}
