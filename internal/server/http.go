// Package server assembles the HTTP router from the feature handlers.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	healthhandler "org-membership-service/internal/health/handler"
	identityhandler "org-membership-service/internal/identity/handler"
	membershiphandler "org-membership-service/internal/membership/handler"
	organizationhandler "org-membership-service/internal/organization/handler"
	"org-membership-service/internal/platform/apperr"
	"org-membership-service/internal/platform/httpx"
	"org-membership-service/internal/server/middleware"
	"org-membership-service/internal/telemetry/metrics"
	userhandler "org-membership-service/internal/user/handler"
)

var (
	errRouteNotFound    = apperr.New(apperr.KindNotFound, "Route not found")
	errMethodNotAllowed = apperr.New(apperr.KindMethodNotAllowed, "Method not allowed")
)

// Deps holds the services behind the HTTP handlers.
type Deps struct {
	Log         *zap.Logger
	Tokens      middleware.TokenVerifier
	Auth        identityhandler.AuthService
	Users       userhandler.UserService
	Orgs        organizationhandler.OrgService
	Memberships membershiphandler.MembershipService
	// HealthPinger is used by GET /health (e.g. *sql.DB). If nil, /health always reports ok.
	HealthPinger healthhandler.Pinger
	// Metrics records request metrics and serves GET /metrics. If nil, both are skipped.
	Metrics *metrics.Metrics
}

// NewRouter returns the full route tree:
//
//	GET  /health
//	GET  /metrics
//	POST /auth/register, /auth/login
//	GET  /api/users/{id}
//	GET  /api/organisations, /api/organisations/{orgId}
//	POST /api/organisations, /api/organisations/{orgId}/users
func NewRouter(deps Deps) http.Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(middleware.Recoverer(log))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, log, errRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, log, errMethodNotAllowed)
	})

	r.Get("/health", healthhandler.NewHandler(deps.HealthPinger, log).ServeHealth)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Mount("/auth", identityhandler.Routes(identityhandler.NewHandler(deps.Auth, log)))

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.RequireAuth(deps.Tokens, log))
		api.Mount("/users", userhandler.Routes(userhandler.NewHandler(deps.Users, log)))
		members := membershiphandler.NewHandler(deps.Memberships, log)
		api.Mount("/organisations", organizationhandler.Routes(
			organizationhandler.NewHandler(deps.Orgs, log),
			members.HandleAddMember,
		))
	})

	return r
}
