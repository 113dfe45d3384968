package mysql

import (
	"context"
	"testing"
	"time"

	ledgerDomain "lendmarket-engine/internal/domain/ledger"
	"lendmarket-engine/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ledgerSQLite struct {
	ID        uint64          `gorm:"primaryKey;column:id"`
	EntryID   string          `gorm:"size:32;column:entry_id"`
	LoanID    uint64          `gorm:"column:loan_id"`
	Kind      string          `gorm:"type:text;column:kind"`
	ActorID   string          `gorm:"size:64;column:actor_id"`
	Amount    decimal.Decimal `gorm:"column:amount"`
	CreatedAt time.Time       `gorm:"column:created_at"`
}

func (ledgerSQLite) TableName() string { return "ledger_entries" }

func openLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := openTestDB(t)
	if err := db.AutoMigrate(&ledgerSQLite{}); err != nil {
		t.Fatalf("auto-migrate ledger: %v", err)
	}
	return db
}

func entry(loanID uint64, kind ledgerDomain.Kind, actor, amount string) *ledgerDomain.Entry {
	return &ledgerDomain.Entry{
		EntryID: id.NewID32(),
		LoanID:  loanID,
		Kind:    kind,
		ActorID: actor,
		Amount:  dec(amount),
	}
}

func TestLedger_AppendAndList(t *testing.T) {
	db := openLedgerTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	if err := repo.Append(ctx, entry(1, ledgerDomain.KindFunding, "bob", "1000")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := repo.Append(ctx, entry(1, ledgerDomain.KindRepayment, "alice", "400")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := repo.Append(ctx, entry(2, ledgerDomain.KindFunding, "carol", "50")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := repo.ListByLoanID(ctx, 1)
	if err != nil {
		t.Fatalf("ListByLoanID: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	// Append order preserved.
	if got[0].Kind != ledgerDomain.KindFunding || got[1].Kind != ledgerDomain.KindRepayment {
		t.Fatalf("order = %s,%s", got[0].Kind, got[1].Kind)
	}
}

func TestLedger_SumByKind(t *testing.T) {
	db := openLedgerTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	for _, amt := range []string{"400", "250.50", "399.50"} {
		if err := repo.Append(ctx, entry(7, ledgerDomain.KindRepayment, "alice", amt)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := repo.Append(ctx, entry(7, ledgerDomain.KindFunding, "bob", "1000")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	repaid, err := repo.SumByKind(ctx, 7, ledgerDomain.KindRepayment)
	if err != nil {
		t.Fatalf("SumByKind: %v", err)
	}
	if !repaid.Equal(dec("1050")) {
		t.Errorf("repayment sum = %s, want 1050", repaid)
	}

	funded, err := repo.SumByKind(ctx, 7, ledgerDomain.KindFunding)
	if err != nil {
		t.Fatalf("SumByKind funding: %v", err)
	}
	if !funded.Equal(dec("1000")) {
		t.Errorf("funding sum = %s, want 1000", funded)
	}
}

func TestLedger_SumByKind_EmptyIsZero(t *testing.T) {
	db := openLedgerTestDB(t)
	repo := NewLedgerRepository(db)

	got, err := repo.SumByKind(context.Background(), 99, ledgerDomain.KindFunding)
	if err != nil {
		t.Fatalf("SumByKind: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("empty sum = %s, want 0", got)
	}
}
