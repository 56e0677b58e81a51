package api

import (
	"net/http"

	"github.com/okian/peloton/internal/domain/filter"
	"github.com/okian/peloton/internal/domain/league"
	"github.com/okian/peloton/pkg/logger"
)

// LeagueDependencies are the read views over the evaluated league.
type LeagueDependencies interface {
	Summary() (league.Summary, error)
	Riders(c filter.Criteria) ([]league.RosterEntry, error)
	Rider(id string) (league.RiderDetail, error)
	FreeAgents(c filter.Criteria) ([]league.RosterEntry, error)
	Teams(query, divisionID string) ([]league.TeamCard, error)
	AvailableTeams() ([]league.TeamCard, error)
	Team(id string, c filter.Criteria) (league.TeamDetail, error)
	Nations() ([]league.NationStrength, error)
	Nation(id, query string) (league.NationDetail, error)
	Divisions() ([]league.DivisionView, error)
	Division(id, query string) (league.DivisionView, error)
	Calendar(query, divisionID string) ([]league.RaceView, error)
	Race(id string) (league.RaceView, error)
	Dashboard(teamID string) (league.Dashboard, error)
}

// LeagueHandler serves the league views.
type LeagueHandler struct {
	deps LeagueDependencies
	rep  reporter
}

// NewLeagueHandler creates a new league handler.
func NewLeagueHandler(deps LeagueDependencies, l logger.Logger) *LeagueHandler {
	return &LeagueHandler{deps: deps, rep: reporter{logger: l}}
}

// respond writes v, or the error of the call that produced it.
func respond[T any](h *LeagueHandler, w http.ResponseWriter, r *http.Request, op string, v T, err error) {
	if err != nil {
		h.rep.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleSummary handles GET /api/summary.
func (h *LeagueHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Summary()
	respond(h, w, r, "api.summary", v, err)
}

// HandleRiders handles GET /api/riders?q=&type=&country=&team=&expr=.
func (h *LeagueHandler) HandleRiders(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Riders(criteriaFrom(r))
	respond(h, w, r, "api.riders", v, err)
}

// HandleRider handles GET /api/riders/{id}.
func (h *LeagueHandler) HandleRider(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Rider(r.PathValue("id"))
	respond(h, w, r, "api.rider", v, err)
}

// HandleFreeAgents handles GET /api/free-agents?q=&type=&country=&expr=.
func (h *LeagueHandler) HandleFreeAgents(w http.ResponseWriter, r *http.Request) {
	c := criteriaFrom(r)
	c.TeamID = ""
	v, err := h.deps.FreeAgents(c)
	respond(h, w, r, "api.free_agents", v, err)
}

// HandleTeams handles GET /api/teams?q=&division=.
func (h *LeagueHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v, err := h.deps.Teams(q.Get("q"), q.Get("division"))
	respond(h, w, r, "api.teams", v, err)
}

// HandleAvailableTeams handles GET /api/teams/available.
func (h *LeagueHandler) HandleAvailableTeams(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.AvailableTeams()
	respond(h, w, r, "api.teams_available", v, err)
}

// HandleTeam handles GET /api/teams/{id}?q=&type=&expr=.
func (h *LeagueHandler) HandleTeam(w http.ResponseWriter, r *http.Request) {
	c := criteriaFrom(r)
	c.TeamID = ""
	v, err := h.deps.Team(r.PathValue("id"), c)
	respond(h, w, r, "api.team", v, err)
}

// HandleNations handles GET /api/nations.
func (h *LeagueHandler) HandleNations(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Nations()
	respond(h, w, r, "api.nations", v, err)
}

// HandleNation handles GET /api/nations/{id}?q=.
func (h *LeagueHandler) HandleNation(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Nation(r.PathValue("id"), r.URL.Query().Get("q"))
	respond(h, w, r, "api.nation", v, err)
}

// HandleDivisions handles GET /api/divisions.
func (h *LeagueHandler) HandleDivisions(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Divisions()
	respond(h, w, r, "api.divisions", v, err)
}

// HandleDivision handles GET /api/divisions/{id}?q=.
func (h *LeagueHandler) HandleDivision(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Division(r.PathValue("id"), r.URL.Query().Get("q"))
	respond(h, w, r, "api.division", v, err)
}

// HandleCalendar handles GET /api/races?q=&division=.
func (h *LeagueHandler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v, err := h.deps.Calendar(q.Get("q"), q.Get("division"))
	respond(h, w, r, "api.races", v, err)
}

// HandleRace handles GET /api/races/{id}.
func (h *LeagueHandler) HandleRace(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Race(r.PathValue("id"))
	respond(h, w, r, "api.race", v, err)
}

// HandleDashboard handles GET /api/dashboard/{team}.
func (h *LeagueHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Dashboard(r.PathValue("team"))
	respond(h, w, r, "api.dashboard", v, err)
}
