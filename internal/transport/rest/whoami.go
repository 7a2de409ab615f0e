package rest

import (
	"net/http"

	"github.com/heartmarshall/libris-backend/pkg/ctxutil"
)

type whoamiResponse struct {
	UserID      string   `json:"userId"`
	Permissions []string `json:"permissions"`
}

// Whoami handles GET /api/v1/whoami: it echoes the verified identity and
// the permissions derived from the caller's role. The role itself is not
// exposed.
func Whoami(w http.ResponseWriter, r *http.Request) {
	actor, ok := ctxutil.ActorFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeAuthMissing, "authentication required")
		return
	}

	perms := actor.Permissions()
	resp := whoamiResponse{
		UserID:      actor.ID,
		Permissions: make([]string, 0, len(perms)),
	}
	for _, p := range perms {
		resp.Permissions = append(resp.Permissions, string(p))
	}
	writeJSON(w, http.StatusOK, resp)
}
