package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/heartmarshall/libris-backend/internal/auth"
	"github.com/heartmarshall/libris-backend/pkg/ctxutil"
)

func TestWhoami_Librarian(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	ctx := ctxutil.WithActor(req.Context(), auth.NewActor("staff-1", auth.RoleLibrarian))
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	Whoami(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp whoamiResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.UserID != "staff-1" {
		t.Errorf("expected userId staff-1, got %q", resp.UserID)
	}
	want := []string{"manage_books", "manage_loans", "view_all_loans"}
	if !reflect.DeepEqual(resp.Permissions, want) {
		t.Errorf("expected permissions %v, got %v", want, resp.Permissions)
	}
}

func TestWhoami_RegularUserHasNoPermissions(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	ctx := ctxutil.WithActor(req.Context(), auth.NewActor("reader-1", auth.RoleUser))
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	Whoami(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp whoamiResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.UserID != "reader-1" {
		t.Errorf("expected userId reader-1, got %q", resp.UserID)
	}
	if len(resp.Permissions) != 0 {
		t.Errorf("expected no permissions, got %v", resp.Permissions)
	}
}

func TestWhoami_Anonymous(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	rec := httptest.NewRecorder()

	Whoami(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error.Code != codeAuthMissing {
		t.Errorf("expected code %s, got %s", codeAuthMissing, resp.Error.Code)
	}
}
