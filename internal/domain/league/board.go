package league

import (
	"sort"

	"github.com/okian/peloton/internal/domain/archetype"
	"github.com/okian/peloton/internal/domain/filter"
	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/internal/domain/rating"
	"github.com/okian/peloton/internal/domain/scoring"
)

// Board is an evaluated dataset: every rider paired with its rating and
// archetype. Views are computed on demand and never mutate the board.
type Board struct {
	data  *Dataset
	evals map[string]scoring.Evaluation
}

// NewBoard pairs a dataset with evaluations. Riders missing from evals are
// evaluated here.
func NewBoard(d *Dataset, evals map[string]scoring.Evaluation) *Board {
	if d == nil {
		d = &Dataset{Season: DefaultSeason}
		d.index()
	}
	b := &Board{data: d, evals: make(map[string]scoring.Evaluation, len(d.Riders))}
	for _, r := range d.Riders {
		if ev, ok := evals[r.ID]; ok {
			b.evals[r.ID] = ev
			continue
		}
		b.evals[r.ID] = scoring.Evaluate(r)
	}
	return b
}

// Evaluate builds a board by evaluating every rider sequentially.
func Evaluate(d *Dataset) *Board { return NewBoard(d, nil) }

// Dataset returns the underlying dataset.
func (b *Board) Dataset() *Dataset { return b.data }

// Evaluation returns the evaluation of a rider id.
func (b *Board) Evaluation(riderID string) (scoring.Evaluation, bool) {
	ev, ok := b.evals[riderID]
	return ev, ok
}

// Summary counts the league.
type Summary struct {
	Season    int `json:"season"`
	Teams     int `json:"teams"`
	Riders    int `json:"riders"`
	Divisions int `json:"divisions"`
	Races     int `json:"races"`
	Countries int `json:"countries"`
	Unrated   int `json:"unrated"`
}

// Summary returns the league totals.
func (b *Board) Summary() Summary {
	s := Summary{
		Season:    b.data.Season,
		Teams:     len(b.data.Teams),
		Riders:    len(b.data.Riders),
		Divisions: len(b.data.Divisions),
		Races:     len(b.data.Races),
		Countries: len(b.data.Countries),
	}
	for _, ev := range b.evals {
		if !ev.Overall.Rated {
			s.Unrated++
		}
	}
	return s
}

// ArchetypeCounts counts riders per archetype.
func (b *Board) ArchetypeCounts() map[archetype.Archetype]int {
	out := make(map[archetype.Archetype]int, len(archetype.All()))
	for _, a := range archetype.All() {
		out[a] = 0
	}
	for _, ev := range b.evals {
		out[ev.Archetype]++
	}
	return out
}

// RosterEntry is a rider as shown in listings.
type RosterEntry struct {
	RiderID     string              `json:"rider_id"`
	Name        string              `json:"name"`
	Initials    string              `json:"initials"`
	TeamID      string              `json:"team_id"`
	TeamName    string              `json:"team_name"`
	CountryID   string              `json:"country"`
	CountryName string              `json:"country_name,omitempty"`
	Flag        string              `json:"flag,omitempty"`
	Region      string              `json:"region"`
	Age         model.Number        `json:"age"`
	Portrait    string              `json:"portrait,omitempty"`
	Real        bool                `json:"real_rider"`
	Overall     rating.Overall      `json:"overall"`
	Level       rating.Level        `json:"level"`
	Archetype   archetype.Archetype `json:"type"`
	Classified  archetype.Archetype `json:"classified_type"`
	Pinned      bool                `json:"pinned,omitempty"`
}

func (b *Board) entry(r model.Rider) RosterEntry {
	ev := b.evals[r.ID]
	e := RosterEntry{
		RiderID:    r.ID,
		Name:       r.FullName(),
		Initials:   model.Initials(r.FullName()),
		TeamID:     r.TeamID,
		TeamName:   "Free Agent",
		CountryID:  r.CountryID,
		Region:     r.RegionName(),
		Age:        r.Age,
		Portrait:   r.Portrait,
		Real:       r.Real,
		Overall:    ev.Overall,
		Level:      rating.LevelOf(ev.Overall),
		Archetype:  ev.Archetype,
		Classified: ev.Classified,
		Pinned:     ev.Pinned(),
	}
	if t, ok := b.data.Team(r.TeamID); ok {
		e.TeamName = t.DisplayName()
	} else if r.TeamID != "" {
		e.TeamName = r.TeamID
	}
	if c, ok := b.data.Country(r.CountryID); ok {
		e.CountryName = c.Name
		e.Flag = c.Flag
	}
	return e
}

// sortByLevel orders entries by overall descending, unrated last. Equal
// ratings keep their table order.
func sortByLevel(entries []RosterEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Overall.SortKey() > entries[j].Overall.SortKey()
	})
}

// riders lists the riders accepted by keep and m, sorted by level.
func (b *Board) riders(m *filter.Matcher, keep func(model.Rider) bool) []RosterEntry {
	out := make([]RosterEntry, 0)
	for _, r := range b.data.Riders {
		if keep != nil && !keep(r) {
			continue
		}
		if m != nil && !m.Match(r, b.evals[r.ID]) {
			continue
		}
		out = append(out, b.entry(r))
	}
	sortByLevel(out)
	return out
}

// Riders lists every rider matching c.
func (b *Board) Riders(c filter.Criteria) ([]RosterEntry, error) {
	m, err := c.Compile()
	if err != nil {
		return nil, err
	}
	return b.riders(m, nil), nil
}

// FreeAgents lists riders without a team matching c.
func (b *Board) FreeAgents(c filter.Criteria) ([]RosterEntry, error) {
	m, err := c.Compile()
	if err != nil {
		return nil, err
	}
	return b.riders(m, model.Rider.IsFreeAgent), nil
}

// Top returns the n best rated riders.
func (b *Board) Top(n int) []RosterEntry {
	all := b.riders(nil, func(r model.Rider) bool { return b.evals[r.ID].Overall.Rated })
	if n >= 0 && n < len(all) {
		all = all[:n]
	}
	return all
}
