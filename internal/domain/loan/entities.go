package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusListed    Status = "listed"
	StatusFunded    Status = "funded"
	StatusRepaid    Status = "repaid"
	StatusDefaulted Status = "defaulted"
)

type CollateralType string

const (
	CollateralNFT    CollateralType = "nft"
	CollateralCrypto CollateralType = "crypto"
)

type Loan struct {
	ID         uint64  `gorm:"primaryKey;column:id" json:"-"`
	LoanID     string  `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	BorrowerID string  `gorm:"size:64;index:idx_loans_borrower" json:"borrower_id"`
	LenderID   *string `gorm:"size:64;index:idx_loans_lender" json:"lender_id"`

	// Terms are fixed at creation; only the ledger aggregates below mutate afterwards.
	RequestedAmount decimal.Decimal `gorm:"type:decimal(18,2)" json:"requested_amount"`
	InterestRate    decimal.Decimal `gorm:"type:decimal(6,2)" json:"interest_rate"`
	TermDays        int             `json:"term_days"`
	Purpose         string          `gorm:"type:text" json:"purpose"`

	CollateralType     CollateralType `gorm:"size:16" json:"collateral_type"`
	CollateralChain    string         `gorm:"size:64" json:"collateral_chain"`
	CollateralContract string         `gorm:"size:128" json:"collateral_contract"`
	CollateralTokenID  string         `gorm:"size:128" json:"collateral_token_id"`
	// External appraisal; checked against RequestedAmount at creation, never re-verified.
	CollateralValue decimal.Decimal `gorm:"type:decimal(18,2)" json:"collateral_value"`

	FundedAmount decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"funded_amount"`
	RepaidAmount decimal.Decimal     `gorm:"type:decimal(18,2);default:0" json:"repaid_amount"`
	RiskScore    decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"risk_score"`

	Status Status `gorm:"type:enum('listed','funded','repaid','defaulted');default:'listed'" json:"status"`

	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ListedAt    time.Time  `json:"listed_at"`
	FundedAt    *time.Time `json:"funded_at"`
	DueAt       *time.Time `json:"due_at"`
	RepaidAt    *time.Time `json:"repaid_at"`
	DefaultedAt *time.Time `json:"defaulted_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Optimistic concurrency token; Save refuses a stale version.
	Version uint64 `gorm:"default:1" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Terminal reports whether the loan reached an end state. Terminal loans are
// kept forever for audit; there is no delete path.
func (l *Loan) Terminal() bool {
	return l.Status == StatusRepaid || l.Status == StatusDefaulted
}

// BelongsTo reports whether identity is this loan's borrower or lender.
func (l *Loan) BelongsTo(identity string) bool {
	if l.BorrowerID == identity {
		return true
	}
	return l.LenderID != nil && *l.LenderID == identity
}
