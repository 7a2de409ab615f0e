package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/libris-backend/internal/domain"
)

// Stable machine-readable error codes of the API.
const (
	codeValidation          = "VALIDATION_ERROR"
	codeAuthMissing         = "AUTH_MISSING"
	codeAuthForbidden       = "AUTH_FORBIDDEN"
	codeNotFound            = "NOT_FOUND"
	codeAlreadyBorrowed     = "ALREADY_BORROWED"
	codeBookUnavailable     = "BOOK_UNAVAILABLE"
	codeLoanAlreadyReturned = "LOAN_ALREADY_RETURNED"
	codeBookHasLoans        = "BOOK_HAS_LOANS"
	codeConflict            = "CONFLICT"
	codeInternal            = "INTERNAL"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

// handleError maps a domain error to its HTTP status and stable code.
// The specific conflicts are matched before the ErrConflict they wrap.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, codeAuthMissing, "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, codeAuthForbidden, "permission denied")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyBorrowed):
		writeError(w, http.StatusConflict, codeAlreadyBorrowed, "borrower already holds an active loan for this book")
	case errors.Is(err, domain.ErrBookUnavailable):
		writeError(w, http.StatusConflict, codeBookUnavailable, "no copies available")
	case errors.Is(err, domain.ErrLoanAlreadyReturned):
		writeError(w, http.StatusConflict, codeLoanAlreadyReturned, "loan is already returned")
	case errors.Is(err, domain.ErrBookHasLoans):
		writeError(w, http.StatusConflict, codeBookHasLoans, "book is referenced by loans and cannot be deleted")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, codeConflict, "conflict")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}
