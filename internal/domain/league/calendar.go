package league

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/peloton/internal/domain/filter"
	"github.com/okian/peloton/internal/domain/model"
)

// unrankedDivision sorts divisions without a rank last.
const unrankedDivision = 999

// DivisionView is a division with its teams.
type DivisionView struct {
	model.Division
	TeamCount int        `json:"team_count"`
	Teams     []TeamCard `json:"teams,omitempty"`
}

// Divisions lists divisions by rank, then name.
func (b *Board) Divisions() []DivisionView {
	teams := make(map[string]int)
	for _, t := range b.data.Teams {
		teams[t.DivisionID]++
	}
	out := make([]DivisionView, 0, len(b.data.Divisions))
	for _, d := range b.data.Divisions {
		out = append(out, DivisionView{Division: d, TeamCount: teams[d.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Rank.Or(unrankedDivision), out[j].Rank.Or(unrankedDivision)
		if ri != rj {
			return ri < rj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Division returns a division page with its teams narrowed by query.
func (b *Board) Division(id, query string) (DivisionView, error) {
	d, ok := b.data.Division(id)
	if !ok {
		return DivisionView{}, fmt.Errorf("%w: %s", ErrDivisionNotFound, id)
	}
	v := DivisionView{Division: d, Teams: b.Teams(query, id)}
	for _, t := range b.data.Teams {
		if t.DivisionID == id {
			v.TeamCount++
		}
	}
	return v, nil
}

// RaceView is a race with its resolved names.
type RaceView struct {
	model.Race
	DateDisplay  string `json:"date_display"`
	CountryName  string `json:"country_name,omitempty"`
	Flag         string `json:"flag,omitempty"`
	DivisionName string `json:"division_name,omitempty"`
}

func (b *Board) raceView(r model.Race) RaceView {
	v := RaceView{Race: r, DateDisplay: "—"}
	if r.HasDate() {
		v.DateDisplay = r.Date[0:4] + "-" + r.Date[4:6] + "-" + r.Date[6:8]
	}
	if c, ok := b.data.Country(r.CountryID); ok {
		v.CountryName = c.Name
		v.Flag = c.Flag
	}
	if d, ok := b.data.Division(r.DivisionID); ok {
		v.DivisionName = d.Name
	}
	return v
}

// calendarOrder sorts races by numeric id when both ids are numeric and
// keeps table order otherwise.
func calendarOrder(races []model.Race) []model.Race {
	type indexed struct {
		race model.Race
		pos  int
		id   model.Number
	}
	xs := make([]indexed, len(races))
	for i, r := range races {
		xs[i] = indexed{race: r, pos: i, id: model.NumberFrom(r.ID)}
	}
	sort.SliceStable(xs, func(i, j int) bool {
		a, b := xs[i], xs[j]
		if a.id.Valid && b.id.Valid {
			return a.id.Value < b.id.Value
		}
		return a.pos < b.pos
	})
	out := make([]model.Race, len(xs))
	for i, x := range xs {
		out[i] = x.race
	}
	return out
}

// Calendar lists races in calendar order, narrowed by a search over name and
// id and by division.
func (b *Board) Calendar(query, divisionID string) []RaceView {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]RaceView, 0, len(b.data.Races))
	for _, r := range calendarOrder(b.data.Races) {
		if divisionID != "" && r.DivisionID != divisionID {
			continue
		}
		if !filter.Contains(q, r.Name, r.ID) {
			continue
		}
		out = append(out, b.raceView(r))
	}
	return out
}

// Race returns a race page.
func (b *Board) Race(id string) (RaceView, error) {
	r, ok := b.data.Race(id)
	if !ok {
		return RaceView{}, fmt.Errorf("%w: %s", ErrRaceNotFound, id)
	}
	return b.raceView(r), nil
}

// upcoming returns the first n dated races ordered by date.
func (b *Board) upcoming(n int) []RaceView {
	dated := make([]model.Race, 0, len(b.data.Races))
	for _, r := range b.data.Races {
		if r.HasDate() {
			dated = append(dated, r)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool { return dated[i].Date < dated[j].Date })
	out := make([]RaceView, 0, n)
	for _, r := range dated[:min(n, len(dated))] {
		out = append(out, b.raceView(r))
	}
	return out
}
