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
	"github.com/heartmarshall/libris-backend/internal/service/catalog"
)

// catalogService defines the minimal interface needed by BookHandler.
type catalogService interface {
	CreateBook(ctx context.Context, input catalog.CreateBookInput) (domain.Book, error)
	GetBook(ctx context.Context, bookID uuid.UUID) (domain.Book, error)
	ListBooks(ctx context.Context, input catalog.ListBooksInput) (*catalog.ListBooksResult, error)
	DeleteBook(ctx context.Context, bookID uuid.UUID) error
}

// BookHandler serves the book catalog REST endpoints.
type BookHandler struct {
	svc catalogService
	log *slog.Logger
}

// NewBookHandler creates a BookHandler.
func NewBookHandler(svc catalogService, logger *slog.Logger) *BookHandler {
	return &BookHandler{svc: svc, log: logger.With("handler", "books")}
}

type createBookRequest struct {
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Description     *string `json:"description,omitempty"`
	ISBN            *string `json:"isbn,omitempty"`
	PublishedYear   *int    `json:"publishedYear,omitempty"`
	AvailableCopies int     `json:"availableCopies"`
	CoverImageURL   *string `json:"coverImageUrl,omitempty"`
}

type bookResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Description     *string   `json:"description,omitempty"`
	ISBN            *string   `json:"isbn,omitempty"`
	PublishedYear   *int      `json:"publishedYear,omitempty"`
	AvailableCopies int       `json:"availableCopies"`
	CoverImageURL   *string   `json:"coverImageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type bookListResponse struct {
	Items       []bookResponse `json:"items"`
	HasNextPage bool           `json:"hasNextPage"`
	NextCursor  *string        `json:"nextCursor,omitempty"`
}

// Create handles POST /api/v1/books.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	created, err := h.svc.CreateBook(r.Context(), catalog.CreateBookInput{
		Title:           req.Title,
		Author:          req.Author,
		Description:     req.Description,
		ISBN:            req.ISBN,
		PublishedYear:   req.PublishedYear,
		AvailableCopies: req.AvailableCopies,
		CoverImageURL:   req.CoverImageURL,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBookResponse(created))
}

// Get handles GET /api/v1/books/{id}.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	book, err := h.svc.GetBook(r.Context(), bookID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookResponse(book))
}

// List handles GET /api/v1/books.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input := catalog.ListBooksInput{
		Query:         queryString(q.Get("query")),
		Author:        queryString(q.Get("author")),
		AvailableOnly: q.Get("availableOnly") == "true",
		Sort:          q.Get("sort"),
		Cursor:        queryString(q.Get("cursor")),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "limit must be an integer")
			return
		}
		input.Limit = limit
	}

	result, err := h.svc.ListBooks(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := bookListResponse{
		Items:       make([]bookResponse, 0, len(result.Books)),
		HasNextPage: result.HasNextPage,
		NextCursor:  result.NextCursor,
	}
	for _, b := range result.Books {
		resp.Items = append(resp.Items, toBookResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /api/v1/books/{id}.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteBook(r.Context(), bookID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toBookResponse(b domain.Book) bookResponse {
	return bookResponse{
		ID:              b.ID.String(),
		Title:           b.Title,
		Author:          b.Author,
		Description:     b.Description,
		ISBN:            b.ISBN,
		PublishedYear:   b.PublishedYear,
		AvailableCopies: b.AvailableCopies,
		CoverImageURL:   b.CoverImageURL,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// pathUUID parses the named path segment as a UUID, responding 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// queryString maps an absent query parameter to nil.
func queryString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
