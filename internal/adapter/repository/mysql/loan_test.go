package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "lendmarket-engine/internal/domain/loan"
	"lendmarket-engine/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schema only for tests (no ENUM) ---

type loanSQLite struct {
	ID         uint64  `gorm:"primaryKey;column:id"`
	LoanID     string  `gorm:"size:32;column:loan_id"`
	BorrowerID string  `gorm:"size:64;column:borrower_id"`
	LenderID   *string `gorm:"size:64;column:lender_id"`

	RequestedAmount decimal.Decimal `gorm:"column:requested_amount"`
	InterestRate    decimal.Decimal `gorm:"column:interest_rate"`
	TermDays        int             `gorm:"column:term_days"`
	Purpose         string          `gorm:"column:purpose"`

	CollateralType     string          `gorm:"column:collateral_type"`
	CollateralChain    string          `gorm:"column:collateral_chain"`
	CollateralContract string          `gorm:"column:collateral_contract"`
	CollateralTokenID  string          `gorm:"column:collateral_token_id"`
	CollateralValue    decimal.Decimal `gorm:"column:collateral_value"`

	FundedAmount decimal.NullDecimal `gorm:"column:funded_amount"`
	RepaidAmount decimal.Decimal     `gorm:"column:repaid_amount"`
	RiskScore    decimal.NullDecimal `gorm:"column:risk_score"`

	Status string `gorm:"type:text;column:status"` // ← no enum

	CreatedAt   time.Time  `gorm:"column:created_at"`
	ListedAt    time.Time  `gorm:"column:listed_at"`
	FundedAt    *time.Time `gorm:"column:funded_at"`
	DueAt       *time.Time `gorm:"column:due_at"`
	RepaidAt    *time.Time `gorm:"column:repaid_at"`
	DefaultedAt *time.Time `gorm:"column:defaulted_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`

	Version uint64 `gorm:"column:version;default:1"`
}

func (loanSQLite) TableName() string { return "loans" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the sqlite-safe schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&loanSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func makeLoan(loanID, borrowerID string) *domain.Loan {
	return &domain.Loan{
		LoanID:             loanID,
		BorrowerID:         borrowerID,
		RequestedAmount:    dec("1000.00"),
		InterestRate:       dec("5.00"),
		TermDays:           30,
		Purpose:            "working capital",
		CollateralType:     domain.CollateralNFT,
		CollateralChain:    "ethereum",
		CollateralContract: "0xabc",
		CollateralTokenID:  "7",
		CollateralValue:    dec("1600.00"),
		RepaidAmount:       decimal.Zero,
		Status:             domain.StatusListed,
		ListedAt:           time.Now().UTC(),
	}
}

func TestCreateAndGetByLoanID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	borrower := "alice"

	l := makeLoan(loanID, borrower)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}
	if l.Version != 1 {
		t.Fatalf("Create version = %d, want 1", l.Version)
	}

	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.LoanID != loanID || got.BorrowerID != borrower {
		t.Errorf("unexpected loan: %+v", got)
	}
	if !got.RequestedAmount.Equal(dec("1000")) {
		t.Errorf("requested amount round-trip = %s", got.RequestedAmount)
	}
}

func TestGetByLoanID_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	_, err := repo.GetByLoanID(ctx, "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want ErrRecordNotFound, got %v", err)
	}
}

func TestSave_PersistsMutation(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	l := makeLoan(loanID, "alice")
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	now := time.Now().UTC()
	if err := l.MarkFunded("bob", dec("1000"), now); err != nil {
		t.Fatalf("MarkFunded: %v", err)
	}
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if l.Version != 2 {
		t.Fatalf("Save version = %d, want 2", l.Version)
	}

	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.Status != domain.StatusFunded {
		t.Errorf("status = %s, want funded", got.Status)
	}
	if got.LenderID == nil || *got.LenderID != "bob" {
		t.Errorf("lender = %v", got.LenderID)
	}
	if !got.FundedAmount.Valid || !got.FundedAmount.Decimal.Equal(dec("1000")) {
		t.Errorf("funded amount = %+v", got.FundedAmount)
	}
	if got.DueAt == nil {
		t.Errorf("dueAt not persisted")
	}
}

func TestSave_StaleVersionRejected(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	if err := repo.Create(ctx, makeLoan(loanID, "alice")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Two readers hold the same snapshot.
	first, _ := repo.GetByLoanID(ctx, loanID)
	second, _ := repo.GetByLoanID(ctx, loanID)
	now := time.Now().UTC()

	if err := first.MarkFunded("bob", dec("1000"), now); err != nil {
		t.Fatalf("MarkFunded: %v", err)
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	if err := second.MarkFunded("carol", dec("500"), now); err != nil {
		t.Fatalf("MarkFunded second snapshot: %v", err)
	}
	if err := repo.Save(ctx, second); !errors.Is(err, domain.ErrStaleLoan) {
		t.Fatalf("stale save: want ErrStaleLoan, got %v", err)
	}

	// The winner's write stands.
	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.LenderID == nil || *got.LenderID != "bob" {
		t.Fatalf("loser overwrote winner: lender = %v", got.LenderID)
	}
}

func TestListByStatus(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Create(ctx, makeLoan(id.NewID32(), "alice")); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	funded := makeLoan(id.NewID32(), "dana")
	if err := repo.Create(ctx, funded); err != nil {
		t.Fatalf("Create funded: %v", err)
	}
	if err := funded.MarkFunded("bob", dec("1000"), time.Now().UTC()); err != nil {
		t.Fatalf("MarkFunded: %v", err)
	}
	if err := repo.Save(ctx, funded); err != nil {
		t.Fatalf("Save: %v", err)
	}

	listed, err := repo.ListByStatus(ctx, domain.StatusListed)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(listed) != 3 {
		t.Errorf("listed = %d, want 3", len(listed))
	}
	got, err := repo.ListByStatus(ctx, domain.StatusFunded)
	if err != nil {
		t.Fatalf("ListByStatus funded: %v", err)
	}
	if len(got) != 1 || got[0].LoanID != funded.LoanID {
		t.Errorf("funded list = %+v", got)
	}
}

func TestListByIdentity_BorrowerAndLender(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	mine := makeLoan(id.NewID32(), "alice")
	if err := repo.Create(ctx, mine); err != nil {
		t.Fatalf("Create: %v", err)
	}
	lent := makeLoan(id.NewID32(), "dana")
	if err := repo.Create(ctx, lent); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := lent.MarkFunded("alice", dec("1000"), time.Now().UTC()); err != nil {
		t.Fatalf("MarkFunded: %v", err)
	}
	if err := repo.Save(ctx, lent); err != nil {
		t.Fatalf("Save: %v", err)
	}
	other := makeLoan(id.NewID32(), "eve")
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.ListByIdentity(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByIdentity: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("alice loans = %d, want 2 (borrowed + lent)", len(got))
	}
}

func TestListFundedDueBefore(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	fundAt := time.Now().UTC().Add(-60 * 24 * time.Hour) // due date long past
	overdue := makeLoan(id.NewID32(), "alice")
	if err := repo.Create(ctx, overdue); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := overdue.MarkFunded("bob", dec("1000"), fundAt); err != nil {
		t.Fatalf("MarkFunded: %v", err)
	}
	if err := repo.Save(ctx, overdue); err != nil {
		t.Fatalf("Save: %v", err)
	}

	current := makeLoan(id.NewID32(), "dana")
	if err := repo.Create(ctx, current); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := current.MarkFunded("bob", dec("1000"), time.Now().UTC()); err != nil {
		t.Fatalf("MarkFunded: %v", err)
	}
	if err := repo.Save(ctx, current); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.ListFundedDueBefore(ctx, time.Now().UTC(), 10)
	if err != nil {
		t.Fatalf("ListFundedDueBefore: %v", err)
	}
	if len(got) != 1 || got[0].LoanID != overdue.LoanID {
		t.Fatalf("due list = %+v, want only the overdue loan", got)
	}
}
