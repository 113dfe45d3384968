package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindFunding   Kind = "funding"
	KindRepayment Kind = "repayment"
)

// Entry is one append-only funding or repayment event. A loan's aggregates
// are the running sums of its entries; keeping the events (not just the
// sums) is what makes reconciliation and audit possible.
type Entry struct {
	ID      uint64 `gorm:"primaryKey;column:id" json:"-"`
	EntryID string `gorm:"size:32;uniqueIndex:ux_ledger_entry_id" json:"entry_id"`
	// Numeric FK to loans.id.
	LoanID    uint64          `gorm:"not null;index:idx_ledger_loan" json:"-"`
	Kind      Kind            `gorm:"size:16;not null" json:"kind"`
	ActorID   string          `gorm:"size:64;not null" json:"actor_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "ledger_entries" }
