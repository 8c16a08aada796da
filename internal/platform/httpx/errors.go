package httpx

import (
	"errors"
	"net/http"

	"github.com/artha-erp/artha/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	var ruleErr *shared.BusinessRuleError
	var stockErr *shared.InsufficientStockError

	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrConflict):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.As(err, &ruleErr):
		Problem(w, http.StatusBadRequest, "Business Rule Violation", ruleErr.Rule)
	case errors.As(err, &stockErr):
		JSON(w, http.StatusBadRequest, ProblemDetail{
			Title:  "Insufficient Stock",
			Status: http.StatusBadRequest,
			Detail: stockErr.Error(),
			Errors: stockErr.Items,
		})
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
