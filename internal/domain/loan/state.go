package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

// State machine: listed → funded → {repaid | defaulted}. Transitions are
// monotonic; every method below either applies its transition in full or
// returns a guard error leaving the loan untouched.

// MarkFunded moves listed → funded. First funder wins: the loan binds to this
// lender even when amount is below RequestedAmount, and the shortfall is
// never re-listed to other lenders.
func (l *Loan) MarkFunded(lenderID string, amount decimal.Decimal, now time.Time) error {
	if l.Status != StatusListed {
		return ErrLoanNotListed
	}
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if amount.GreaterThan(l.RequestedAmount) {
		return ErrAmountExceedsRequested
	}
	now = now.UTC()
	due := now.Add(time.Duration(l.TermDays) * 24 * time.Hour)
	l.LenderID = &lenderID
	l.FundedAmount = decimal.NewNullDecimal(amount)
	l.FundedAt = &now
	l.DueAt = &due
	l.Status = StatusFunded
	return nil
}

// ApplyRepayment adds a payment to the repayment aggregate and, when the
// total owed is covered, moves funded → repaid in the same mutation.
func (l *Loan) ApplyRepayment(amount decimal.Decimal, now time.Time) error {
	if l.Status != StatusFunded {
		return ErrLoanNotFunded
	}
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if amount.GreaterThan(RemainingOwed(l)) {
		return ErrAmountExceedsOwed
	}
	l.RepaidAmount = l.RepaidAmount.Add(amount)
	if l.RepaidAmount.GreaterThanOrEqual(TotalOwed(l)) {
		now = now.UTC()
		l.RepaidAt = &now
		l.Status = StatusRepaid
	}
	return nil
}

// MarkDefaulted moves funded → defaulted. Never driven by a user action: the
// read path and the optional sweep call it once a funded loan is overdue.
func (l *Loan) MarkDefaulted(now time.Time) error {
	if l.Status != StatusFunded || !IsOverdue(l, now) {
		return ErrInvalidTransition
	}
	now = now.UTC()
	l.DefaultedAt = &now
	l.Status = StatusDefaulted
	return nil
}
