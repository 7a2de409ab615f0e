package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/libris-backend/internal/domain"
	"github.com/heartmarshall/libris-backend/internal/service/lending"
)

// lendingService defines the minimal interface needed by LoanHandler.
type lendingService interface {
	Checkout(ctx context.Context, input lending.CheckoutInput) (domain.Loan, error)
	Return(ctx context.Context, loanID uuid.UUID) (domain.Loan, error)
	GetLoan(ctx context.Context, loanID uuid.UUID) (domain.Loan, error)
	ListLoans(ctx context.Context, input lending.ListLoansInput) (*lending.ListLoansResult, error)
}

// LoanHandler serves the loan REST endpoints.
type LoanHandler struct {
	svc lendingService
	log *slog.Logger
}

// NewLoanHandler creates a LoanHandler.
func NewLoanHandler(svc lendingService, logger *slog.Logger) *LoanHandler {
	return &LoanHandler{svc: svc, log: logger.With("handler", "loans")}
}

type checkoutRequest struct {
	BookID         string  `json:"bookId"`
	BorrowerUserID *string `json:"borrowerUserId,omitempty"`
	BorrowerName   *string `json:"borrowerName,omitempty"`
}

type loanResponse struct {
	ID                string     `json:"id"`
	BookID            string     `json:"bookId"`
	BorrowerUserID    *string    `json:"borrowerUserId,omitempty"`
	BorrowerName      *string    `json:"borrowerName,omitempty"`
	Status            string     `json:"status"`
	BorrowedAt        time.Time  `json:"borrowedAt"`
	ReturnedAt        *time.Time `json:"returnedAt,omitempty"`
	ProcessedBy       string     `json:"processedBy"`
	BookTitle         string     `json:"bookTitle"`
	BookAuthor        string     `json:"bookAuthor"`
	BookCoverImageURL *string    `json:"bookCoverImageUrl,omitempty"`
}

type loanListResponse struct {
	Items       []loanResponse `json:"items"`
	HasNextPage bool           `json:"hasNextPage"`
	NextCursor  *string        `json:"nextCursor,omitempty"`
}

// Checkout handles POST /api/v1/loans.
func (h *LoanHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "bookId must be a valid UUID")
		return
	}

	loan, err := h.svc.Checkout(r.Context(), lending.CheckoutInput{
		BookID:         bookID,
		BorrowerUserID: req.BorrowerUserID,
		BorrowerName:   req.BorrowerName,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toLoanResponse(loan))
}

// Return handles POST /api/v1/loans/{id}/return.
func (h *LoanHandler) Return(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	loan, err := h.svc.Return(r.Context(), loanID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toLoanResponse(loan))
}

// Get handles GET /api/v1/loans/{id}.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	loan, err := h.svc.GetLoan(r.Context(), loanID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toLoanResponse(loan))
}

// List handles GET /api/v1/loans.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input := lending.ListLoansInput{
		BorrowerUserID: queryString(q.Get("borrowerUserId")),
		Cursor:         queryString(q.Get("cursor")),
	}
	if raw := q.Get("bookId"); raw != "" {
		bookID, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "bookId must be a valid UUID")
			return
		}
		input.BookID = &bookID
	}
	if raw := q.Get("status"); raw != "" {
		status := domain.LoanStatus(raw)
		input.Status = &status
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "limit must be an integer")
			return
		}
		input.Limit = limit
	}

	result, err := h.svc.ListLoans(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := loanListResponse{
		Items:       make([]loanResponse, 0, len(result.Loans)),
		HasNextPage: result.HasNextPage,
		NextCursor:  result.NextCursor,
	}
	for _, l := range result.Loans {
		resp.Items = append(resp.Items, toLoanResponse(l))
	}
	writeJSON(w, http.StatusOK, resp)
}

func toLoanResponse(l domain.Loan) loanResponse {
	borrowerUserID, borrowerName := l.Borrower.Columns()
	return loanResponse{
		ID:                l.ID.String(),
		BookID:            l.BookID.String(),
		BorrowerUserID:    borrowerUserID,
		BorrowerName:      borrowerName,
		Status:            string(l.Status),
		BorrowedAt:        l.BorrowedAt,
		ReturnedAt:        l.ReturnedAt,
		ProcessedBy:       l.ProcessedBy,
		BookTitle:         l.BookTitle,
		BookAuthor:        l.BookAuthor,
		BookCoverImageURL: l.BookCoverImageURL,
	}
}
