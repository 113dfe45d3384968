package http

import (
	"net/http"

	fundinguc "lendmarket-engine/internal/usecase/funding"
	repaymentuc "lendmarket-engine/internal/usecase/repayment"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// TransactionHandler serves the money-moving endpoints (fund, repay).
type TransactionHandler struct {
	funding   *fundinguc.Usecase
	repayment *repaymentuc.Usecase
}

func NewTransactionHandler(f *fundinguc.Usecase, r *repaymentuc.Usecase) *TransactionHandler {
	return &TransactionHandler{funding: f, repayment: r}
}

type amountReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0,dec2"`
}

func (h *TransactionHandler) FundLoan(c echo.Context) error {
	lender, ok := identityFrom(c)
	if !ok {
		return missingIdentity(c)
	}
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}

	var req amountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	dto, err := h.funding.Fund(c.Request().Context(), fundinguc.FundInput{
		LoanID:   loanID,
		LenderID: lender,
		Amount:   decimal.NewFromFloat(req.Amount).Round(2),
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *TransactionHandler) RepayLoan(c echo.Context) error {
	payer, ok := identityFrom(c)
	if !ok {
		return missingIdentity(c)
	}
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}

	var req amountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	dto, err := h.repayment.Repay(c.Request().Context(), repaymentuc.RepayInput{
		LoanID:  loanID,
		PayerID: payer,
		Amount:  decimal.NewFromFloat(req.Amount).Round(2),
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
