// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. They are split into domain-specific
// files (auth.go, planning.go, history.go, ...) but share the Server struct
// so they can reach its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smarttrip/tripplanner/internal/auth"
	"github.com/smarttrip/tripplanner/internal/domain"
)

// PlanningServicer defines the planning operation the handler depends on.
// Interfaces live here, in the consumer package, so handler tests can inject
// mocks without touching the generation provider or the database.
type PlanningServicer interface {
	Plan(ctx context.Context, userID uuid.UUID, req domain.TripRequest) (domain.HistoryRecord, error)
}

// UserServicer defines the account operations.
type UserServicer interface {
	Register(ctx context.Context, email, fullName, password string) (domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// HistoryServicer defines the history read operations.
type HistoryServicer interface {
	List(ctx context.Context, userID uuid.UUID, limit *int) ([]domain.HistoryRecord, error)
	Get(ctx context.Context, userID, id uuid.UUID) (domain.HistoryRecord, error)
}

// ExportServicer produces the flat history export.
type ExportServicer interface {
	Export(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps groups the Server's collaborators.
type Deps struct {
	Planning PlanningServicer
	Users    UserServicer
	History  HistoryServicer
	Export   ExportServicer
	Tokens   auth.TokenParser
	Store    Pinger
	Log      *slog.Logger
}

// Server serves every API endpoint.
type Server struct {
	planning PlanningServicer
	users    UserServicer
	history  HistoryServicer
	export   ExportServicer
	tokens   auth.TokenParser
	store    Pinger
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		planning: d.Planning,
		users:    d.Users,
		history:  d.History,
		export:   d.Export,
		tokens:   d.Tokens,
		store:    d.Store,
		log:      log,
	}
}

// Routes returns the router for all endpoints. Cross-cutting middleware
// (request IDs, logging, CORS, body limits) is applied by the caller.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.getHealth)
	r.Get("/readyz", s.getReady)
	r.Get("/openapi.yaml", s.getOpenAPI)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(s.tokens, s.denyUnauthorized))
			r.Post("/planning", s.plan)
			r.Get("/history", s.listHistory)
			r.Get("/history/export", s.exportHistory)
			r.Get("/history/{id}", s.getHistory)
		})
	})
	return r
}
