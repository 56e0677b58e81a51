// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/peloton/internal/app"
	"github.com/okian/peloton/internal/domain/archetype"
	"github.com/okian/peloton/internal/domain/filter"
	"github.com/okian/peloton/internal/domain/league"
	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/internal/domain/types"
	"github.com/okian/peloton/pkg/logger"
)

// Default server configuration constants.
const (
	defaultMaxLimit  = 100
	maxBodyBytes     = 1 << 20
	defaultPerMinute = 30
	defaultBurst     = 5
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	LeagueDependencies
	LeaderboardDependencies
	RankDependencies
	EvaluateDependencies
	ArchiveDependencies
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the league API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leagueHandler      *LeagueHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	evaluateHandler    *EvaluateHandler
	archiveHandler     *ArchiveHandler
	limiter            *RateLimiter
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := options{
		maxLimit:  defaultMaxLimit,
		perMinute: defaultPerMinute,
		burst:     defaultBurst,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Get().Named("api")
	}
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		leagueHandler:      NewLeagueHandler(deps, cfg.logger),
		leaderboardHandler: NewLeaderboardHandler(deps, cfg.maxLimit, cfg.logger),
		rankHandler:        NewRankHandler(deps, cfg.logger),
		evaluateHandler:    NewEvaluateHandler(deps, cfg.logger),
		archiveHandler:     NewArchiveHandler(deps, cfg.logger),
		limiter:            NewRateLimiter(cfg.perMinute, cfg.burst),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	handle := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}
	limited := func(pattern, endpoint string, h http.HandlerFunc) {
		handle(pattern, endpoint, s.limiter.Limit(h, endpoint))
	}

	handle("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	handle("GET /stats", "stats", s.statsHandler.HandleStats)

	handle("GET /api/summary", "summary", s.leagueHandler.HandleSummary)
	handle("GET /api/archetypes", "archetypes", s.evaluateHandler.HandleArchetypes)
	handle("POST /api/evaluate", "evaluate", s.evaluateHandler.HandleEvaluate)
	handle("POST /api/reload", "reload", s.evaluateHandler.HandleReload)

	handle("GET /api/riders", "riders", s.leagueHandler.HandleRiders)
	handle("GET /api/riders/{id}", "rider", s.leagueHandler.HandleRider)
	handle("GET /api/free-agents", "free_agents", s.leagueHandler.HandleFreeAgents)
	handle("GET /api/teams", "teams", s.leagueHandler.HandleTeams)
	handle("GET /api/teams/available", "teams_available", s.leagueHandler.HandleAvailableTeams)
	handle("GET /api/teams/{id}", "team", s.leagueHandler.HandleTeam)
	handle("GET /api/nations", "nations", s.leagueHandler.HandleNations)
	handle("GET /api/nations/{id}", "nation", s.leagueHandler.HandleNation)
	handle("GET /api/divisions", "divisions", s.leagueHandler.HandleDivisions)
	handle("GET /api/divisions/{id}", "division", s.leagueHandler.HandleDivision)
	handle("GET /api/races", "races", s.leagueHandler.HandleCalendar)
	handle("GET /api/races/{id}", "race", s.leagueHandler.HandleRace)
	handle("GET /api/dashboard/{team}", "dashboard", s.leagueHandler.HandleDashboard)

	handle("GET /api/leaderboard", "leaderboard", s.leaderboardHandler.HandleGetLeaderboard)
	handle("GET /api/rank/{id}", "rank", s.rankHandler.HandleGetRank)

	handle("GET /api/news", "news", s.archiveHandler.HandleListNews)
	limited("POST /api/news", "news", s.archiveHandler.HandlePublishNews)
	handle("GET /api/signups", "signups", s.archiveHandler.HandleListSignups)
	limited("POST /api/signups", "signups", s.archiveHandler.HandleSignup)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// statusOf translates upstream errors to an HTTP status and error code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, ErrBodyTooBig):
		return http.StatusRequestEntityTooLarge, "body_too_large"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, filter.ErrInvalidExpression),
		errors.Is(err, archetype.ErrUnknown),
		errors.Is(err, model.ErrInvalidArticle),
		errors.Is(err, model.ErrInvalidSignup),
		errors.Is(err, service.ErrInvalidLimit):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, league.ErrRiderNotFound),
		errors.Is(err, league.ErrTeamNotFound),
		errors.Is(err, league.ErrCountryNotFound),
		errors.Is(err, league.ErrDivisionNotFound),
		errors.Is(err, league.ErrRaceNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrTeamUnavailable):
		return http.StatusConflict, "conflict"
	case errors.Is(err, service.ErrNotLoaded),
		errors.Is(err, service.ErrNotStarted),
		errors.Is(err, service.ErrNoSource),
		errors.Is(err, service.ErrNoArchive):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// reporter writes error responses and logs the ones that are the server's
// fault.
type reporter struct {
	logger logger.Logger
}

func (rp reporter) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := statusOf(err)
	if rp.logger != nil && status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		rp.logger.Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	writeError(w, status, code, Wrap(op, err))
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return ErrBodyTooBig
		}
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}

// criteriaFrom reads the rider filter from the query string.
func criteriaFrom(r *http.Request) filter.Criteria {
	q := r.URL.Query()
	return filter.Criteria{
		Query:     q.Get("q"),
		Archetype: q.Get("type"),
		CountryID: q.Get("country"),
		TeamID:    q.Get("team"),
		Expr:      q.Get("expr"),
	}
}
