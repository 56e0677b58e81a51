package league

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/peloton/internal/domain/filter"
	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/internal/domain/rating"
)

const captainCount = 3

// radarAxes are the team profile axes in drawing order.
var radarAxes = []struct {
	label string
	skill model.Skill
}{
	{"Flat", model.Flat},
	{"Mountain", model.Mountain},
	{"Hill", model.Hill},
	{"TT", model.TimeTrial},
	{"Sprint", model.Sprint},
	{"Cobbles", model.Cobbles},
}

// TeamCard is a team as shown in listings.
type TeamCard struct {
	model.Team
	DivisionName string `json:"division_name,omitempty"`
	CountryName  string `json:"country_name,omitempty"`
	Flag         string `json:"flag,omitempty"`
	RiderCount   int    `json:"rider_count"`
}

// TeamKPIs are the headline numbers of a team.
type TeamKPIs struct {
	Riders     int          `json:"riders"`
	AvgOverall model.Number `json:"avg_overall"`
	AvgAge     model.Number `json:"avg_age"`
	Budget     model.Number `json:"budget"`
}

// RadarAxis is one axis of the team profile. Average defaults to the bottom
// of the playable range when no rider has the skill.
type RadarAxis struct {
	Label      string  `json:"label"`
	Key        string  `json:"key"`
	Average    float64 `json:"average"`
	Normalized float64 `json:"normalized"`
}

// TeamDetail is the team page. Roster honors the filter; captains, KPIs and
// radar always cover the whole roster.
type TeamDetail struct {
	TeamCard
	KPIs     TeamKPIs      `json:"kpis"`
	Captains []RosterEntry `json:"captains"`
	Roster   []RosterEntry `json:"roster"`
	Radar    []RadarAxis   `json:"radar"`
}

func (b *Board) card(t model.Team, counts map[string]int) TeamCard {
	c := TeamCard{Team: t, RiderCount: counts[t.ID]}
	if d, ok := b.data.Division(t.DivisionID); ok {
		c.DivisionName = d.Name
	}
	if co, ok := b.data.Country(t.CountryID); ok {
		c.CountryName = co.Name
		c.Flag = co.Flag
	}
	return c
}

func (b *Board) riderCounts() map[string]int {
	counts := make(map[string]int, len(b.data.Teams))
	for _, r := range b.data.Riders {
		if r.TeamID != "" {
			counts[r.TeamID]++
		}
	}
	return counts
}

// matchesTeam searches name, id and sponsor.
func matchesTeam(t model.Team, query string) bool {
	return filter.Contains(strings.ToLower(strings.TrimSpace(query)), t.Name, t.ID, t.Sponsor)
}

// Teams lists teams in table order, optionally narrowed to a division and a
// search over name, id and sponsor.
func (b *Board) Teams(query, divisionID string) []TeamCard {
	counts := b.riderCounts()
	out := make([]TeamCard, 0, len(b.data.Teams))
	for _, t := range b.data.Teams {
		if divisionID != "" && t.DivisionID != divisionID {
			continue
		}
		if !matchesTeam(t, query) {
			continue
		}
		out = append(out, b.card(t, counts))
	}
	return out
}

// AvailableTeams lists unmanaged teams by name. These are the teams a new
// manager can sign up for.
func (b *Board) AvailableTeams() []TeamCard {
	counts := b.riderCounts()
	out := make([]TeamCard, 0)
	for _, t := range b.data.Teams {
		if t.Unmanaged() {
			out = append(out, b.card(t, counts))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].DisplayName()) < strings.ToLower(out[j].DisplayName())
	})
	return out
}

// Team returns the team page. The criteria narrow the listed roster only.
func (b *Board) Team(id string, c filter.Criteria) (TeamDetail, error) {
	t, ok := b.data.Team(id)
	if !ok {
		return TeamDetail{}, fmt.Errorf("%w: %s", ErrTeamNotFound, id)
	}
	m, err := c.Compile()
	if err != nil {
		return TeamDetail{}, err
	}
	onTeam := func(r model.Rider) bool { return r.TeamID == t.ID }

	full := b.riders(nil, onTeam)
	d := TeamDetail{
		TeamCard: b.card(t, b.riderCounts()),
		Roster:   b.riders(m, onTeam),
		Captains: full[:min(captainCount, len(full))],
		KPIs:     b.kpis(t, full),
		Radar:    b.radar(onTeam),
	}
	return d, nil
}

func (b *Board) kpis(t model.Team, roster []RosterEntry) TeamKPIs {
	k := TeamKPIs{Riders: len(roster), Budget: t.Budget}
	var overall, age mean
	for _, e := range roster {
		if e.Overall.Rated {
			overall.add(float64(e.Overall.Value))
		}
		if e.Age.Valid {
			age.add(e.Age.Value)
		}
	}
	if v, ok := overall.value(); ok {
		k.AvgOverall = model.Num(math.Round(v))
	}
	if v, ok := age.value(); ok {
		k.AvgAge = model.Num(math.Round(v*10) / 10)
	}
	return k
}

func (b *Board) radar(keep func(model.Rider) bool) []RadarAxis {
	out := make([]RadarAxis, 0, len(radarAxes))
	for _, ax := range radarAxes {
		var m mean
		for _, r := range b.data.Riders {
			if !keep(r) {
				continue
			}
			if v := r.Stats.Skill(ax.skill); v.Valid {
				m.add(v.Value)
			}
		}
		avg, ok := m.value()
		if !ok {
			avg = rating.PlayableMin
		}
		out = append(out, RadarAxis{
			Label:      ax.label,
			Key:        ax.skill.Key(),
			Average:    avg,
			Normalized: rating.Normalize(avg),
		})
	}
	return out
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) { m.sum += v; m.n++ }

func (m mean) value() (float64, bool) {
	if m.n == 0 {
		return 0, false
	}
	return m.sum / float64(m.n), true
}
