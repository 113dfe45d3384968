package mysql

import (
	"context"

	ledgerDomain "lendmarket-engine/internal/domain/ledger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Append(ctx context.Context, e *ledgerDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *LedgerRepository) ListByLoanID(ctx context.Context, loanID uint64) ([]ledgerDomain.Entry, error) {
	var out []ledgerDomain.Entry
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *LedgerRepository) SumByKind(ctx context.Context, loanID uint64, kind ledgerDomain.Kind) (decimal.Decimal, error) {
	var row struct {
		Total decimal.NullDecimal
	}
	res := r.db.WithContext(ctx).
		Model(&ledgerDomain.Entry{}).
		Select("SUM(amount) AS total").
		Where("loan_id = ? AND kind = ?", loanID, kind).
		Scan(&row)
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal, nil
}
