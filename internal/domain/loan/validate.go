package loan

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// minCollateralRatio is the required collateral-to-principal ratio at
// creation. The appraisal is an external input and is never re-checked after
// funding.
var minCollateralRatio = decimal.RequireFromString("1.5")

// CreateTerms is the validated shape of a borrower's loan request.
type CreateTerms struct {
	RequestedAmount    decimal.Decimal
	InterestRate       decimal.Decimal
	TermDays           int
	Purpose            string
	CollateralType     CollateralType
	CollateralChain    string
	CollateralContract string
	CollateralTokenID  string
	CollateralValue    decimal.Decimal
}

// ValidateCreation checks request-shape invariants and the collateral ratio.
// Pure: no side effects, the caller persists once validated. Any positive
// term is accepted; the UI's fixed term menu is policy, not enforced here.
func ValidateCreation(t CreateTerms) error {
	switch {
	case !t.RequestedAmount.IsPositive():
		return fmt.Errorf("%w: requested_amount must be positive", ErrInvalidTerms)
	case t.InterestRate.IsNegative():
		return fmt.Errorf("%w: interest_rate must not be negative", ErrInvalidTerms)
	case t.TermDays <= 0:
		return fmt.Errorf("%w: term_days must be positive", ErrInvalidTerms)
	case t.Purpose == "":
		return fmt.Errorf("%w: purpose must not be empty", ErrInvalidTerms)
	case t.CollateralType != CollateralNFT && t.CollateralType != CollateralCrypto:
		return fmt.Errorf("%w: collateral_type must be nft or crypto", ErrInvalidTerms)
	case !t.CollateralValue.IsPositive():
		return fmt.Errorf("%w: collateral estimated_value must be positive", ErrInvalidTerms)
	}
	if t.CollateralValue.LessThan(t.RequestedAmount.Mul(minCollateralRatio)) {
		return ErrInsufficientCollateral
	}
	return nil
}
