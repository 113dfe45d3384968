package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	domain "lendmarket-engine/internal/domain/loan"

	"github.com/labstack/echo/v4"
)

// identityHeader carries the authenticated principal's handle, supplied by
// the external auth collaborator. The engine trusts it and never
// authenticates.
const identityHeader = "Ax-Identity"

func identityFrom(c echo.Context) (string, bool) {
	v := strings.TrimSpace(c.Request().Header.Get(identityHeader))
	if v == "" || !reHandle.MatchString(v) {
		return "", false
	}
	return v, true
}

func missingIdentity(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid " + identityHeader})
}

// writeDomainErr maps the engine's error taxonomy to HTTP statuses. Every
// rejected operation left the loan unchanged, so 409 callers can refresh and
// retry.
func writeDomainErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "loan not found"})
	case errors.Is(err, domain.ErrInvalidTerms),
		errors.Is(err, domain.ErrInsufficientCollateral),
		errors.Is(err, domain.ErrAmountNotPositive),
		errors.Is(err, domain.ErrAmountExceedsRequested),
		errors.Is(err, domain.ErrAmountExceedsOwed):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrLoanNotListed),
		errors.Is(err, domain.ErrLoanNotFunded),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		log.Printf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
