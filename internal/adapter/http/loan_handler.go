package http

import (
	"net/http"

	domain "lendmarket-engine/internal/domain/loan"
	loanuc "lendmarket-engine/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct{ uc *loanuc.Usecase }

func NewLoanHandler(uc *loanuc.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type collateralReq struct {
	Type           string  `json:"type" validate:"required,oneof=nft crypto"`
	Chain          string  `json:"chain" validate:"required"`
	Contract       string  `json:"contract" validate:"required"`
	TokenID        string  `json:"token_id"`
	EstimatedValue float64 `json:"estimated_value" validate:"required,gt=0,dec2"`
}

type createLoanReq struct {
	RequestedAmount float64       `json:"requested_amount" validate:"required,gt=0,dec2"`
	InterestRate    float64       `json:"interest_rate" validate:"gte=0,dec2"`
	TermDays        int           `json:"term_days" validate:"required,gt=0"`
	Purpose         string        `json:"purpose" validate:"required"`
	Collateral      collateralReq `json:"collateral" validate:"required"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	borrower, ok := identityFrom(c)
	if !ok {
		return missingIdentity(c)
	}

	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	in := loanuc.CreateLoanInput{
		BorrowerID:      borrower,
		RequestedAmount: decimal.NewFromFloat(req.RequestedAmount).Round(2),
		InterestRate:    decimal.NewFromFloat(req.InterestRate).Round(2),
		TermDays:        req.TermDays,
		Purpose:         req.Purpose,
		Collateral: loanuc.CollateralInput{
			Type:           req.Collateral.Type,
			Chain:          req.Collateral.Chain,
			Contract:       req.Collateral.Contract,
			TokenID:        req.Collateral.TokenID,
			EstimatedValue: decimal.NewFromFloat(req.Collateral.EstimatedValue).Round(2),
		},
	}
	dto, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ListAvailable serves the marketplace view; ?status= narrows to any
// lifecycle state, defaulting to listed.
func (h *LoanHandler) ListAvailable(c echo.Context) error {
	status := domain.Status(c.QueryParam("status"))
	switch status {
	case "", domain.StatusListed, domain.StatusFunded, domain.StatusRepaid, domain.StatusDefaulted:
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid status filter"})
	}
	dtos, err := h.uc.ListAvailable(c.Request().Context(), status)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *LoanHandler) ListMine(c echo.Context) error {
	identity, ok := identityFrom(c)
	if !ok {
		return missingIdentity(c)
	}
	dtos, err := h.uc.ListForIdentity(c.Request().Context(), identity)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *LoanHandler) GetLedger(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	entries, err := h.uc.Ledger(c.Request().Context(), loanID)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}
