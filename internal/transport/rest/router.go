package rest

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/libris-backend/internal/auth"
	"github.com/heartmarshall/libris-backend/internal/config"
	"github.com/heartmarshall/libris-backend/internal/transport/middleware"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (auth.Actor, error)
}

// RouterDeps bundles everything NewRouter needs.
type RouterDeps struct {
	Logger    *slog.Logger
	CORS      config.CORSConfig
	Validator tokenValidator
	Books     *BookHandler
	Loans     *LoanHandler
	Health    *HealthHandler

	// RateLimiter and RateLimitPerMinute enable per-IP limiting when both
	// are set; a nil limiter or zero limit turns it off.
	RateLimiter        *middleware.RateLimiter
	RateLimitPerMinute int
}

// NewRouter builds the HTTP handler tree. Every route goes through the
// same middleware chain; Auth passes unauthenticated requests through, so
// the health probes stay reachable without a token.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", deps.Health.Live)
	mux.HandleFunc("GET /readyz", deps.Health.Ready)
	mux.HandleFunc("GET /health", deps.Health.Health)

	mux.HandleFunc("POST /api/v1/books", deps.Books.Create)
	mux.HandleFunc("GET /api/v1/books", deps.Books.List)
	mux.HandleFunc("GET /api/v1/books/{id}", deps.Books.Get)
	mux.HandleFunc("DELETE /api/v1/books/{id}", deps.Books.Delete)

	mux.HandleFunc("GET /api/v1/whoami", Whoami)

	mux.HandleFunc("POST /api/v1/loans", deps.Loans.Checkout)
	mux.HandleFunc("GET /api/v1/loans", deps.Loans.List)
	mux.HandleFunc("GET /api/v1/loans/{id}", deps.Loans.Get)
	mux.HandleFunc("POST /api/v1/loans/{id}/return", deps.Loans.Return)

	mws := []middleware.Middleware{
		middleware.RequestID,
		middleware.Recovery(deps.Logger),
		middleware.Logger(deps.Logger),
		middleware.CORS(deps.CORS),
	}
	if deps.RateLimiter != nil && deps.RateLimitPerMinute > 0 {
		mws = append(mws, deps.RateLimiter.Limit(deps.RateLimitPerMinute))
	}
	mws = append(mws, middleware.Auth(deps.Validator))

	return middleware.Chain(mws...)(mux)
}
