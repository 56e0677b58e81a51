package league

import (
	"fmt"
	"math"

	"github.com/okian/peloton/internal/domain/model"
)

const (
	dashboardTopRiders = 5
	dashboardRaces     = 3
)

// Dashboard is a manager's home page.
type Dashboard struct {
	Team       TeamCard      `json:"team"`
	RosterSize int           `json:"roster_size"`
	AvgOverall model.Number  `json:"avg_overall"`
	TopRider   *RosterEntry  `json:"top_rider,omitempty"`
	TopRiders  []RosterEntry `json:"top_riders"`
	FreeAgents int           `json:"free_agents"`
	NextRaces  []RaceView    `json:"next_races"`
	SeasonYear int           `json:"season"`
}

// Dashboard returns the home page of the manager of teamID.
func (b *Board) Dashboard(teamID string) (Dashboard, error) {
	t, ok := b.data.Team(teamID)
	if !ok {
		return Dashboard{}, fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
	}
	roster := b.riders(nil, func(r model.Rider) bool { return r.TeamID == t.ID })

	d := Dashboard{
		Team:       b.card(t, b.riderCounts()),
		RosterSize: len(roster),
		TopRiders:  roster[:min(dashboardTopRiders, len(roster))],
		NextRaces:  b.upcoming(dashboardRaces),
		SeasonYear: b.data.Season,
	}
	if len(roster) > 0 {
		top := roster[0]
		d.TopRider = &top
	}
	var m mean
	for _, e := range roster {
		if e.Overall.Rated {
			m.add(float64(e.Overall.Value))
		}
	}
	if v, ok := m.value(); ok {
		d.AvgOverall = model.Num(math.Round(v))
	}
	for _, r := range b.data.Riders {
		if r.IsFreeAgent() {
			d.FreeAgents++
		}
	}
	return d, nil
}
