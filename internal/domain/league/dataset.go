// Package league assembles the typed league tables and derives every listing
// and detail view from them.
package league

import (
	"context"
	"time"

	"github.com/okian/peloton/internal/domain/dedupe"
	"github.com/okian/peloton/internal/domain/model"
)

// DefaultSeason is the season the league is played in.
const DefaultSeason = 1992

// Row is one record of a source table keyed by header name.
type Row = map[string]string

// Tables are the five source tables as delivered by the ingestion layer.
type Tables struct {
	Teams     []Row
	Riders    []Row
	Divisions []Row
	Races     []Row
	Countries []Row
}

// Report summarizes what Build dropped.
type Report struct {
	DuplicateRiders int `json:"duplicate_riders"`
	DuplicateTeams  int `json:"duplicate_teams"`
	MissingIDs      int `json:"missing_ids"`
}

// Dropped is the number of rows that did not make it into the dataset.
func (r Report) Dropped() int { return r.DuplicateRiders + r.DuplicateTeams + r.MissingIDs }

// Dataset is the typed, indexed league. It is immutable once built.
type Dataset struct {
	Season    int
	LoadedAt  time.Time
	Teams     []model.Team
	Riders    []model.Rider
	Divisions []model.Division
	Races     []model.Race
	Countries []model.Country

	teamIdx     map[string]int
	riderIdx    map[string]int
	divisionIdx map[string]int
	raceIdx     map[string]int
	countryIdx  map[string]int
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	season  int
	deduper dedupe.Deduper
	now     func() time.Time
}

// WithSeason sets the season year stamped on the dataset.
func WithSeason(year int) BuildOption {
	return func(c *buildConfig) {
		if year > 0 {
			c.season = year
		}
	}
}

// WithDeduper sets the tracker used to drop repeated rider and team ids.
func WithDeduper(d dedupe.Deduper) BuildOption {
	return func(c *buildConfig) {
		if d != nil {
			c.deduper = d
		}
	}
}

// WithClock overrides the load timestamp source.
func WithClock(now func() time.Time) BuildOption {
	return func(c *buildConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// Build coerces the raw tables into a Dataset. Riders and teams without an id
// are dropped, as are repeated ids after the first occurrence.
func Build(ctx context.Context, t *Tables, opts ...BuildOption) (*Dataset, Report) {
	cfg := buildConfig{season: DefaultSeason, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.deduper == nil {
		cfg.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
	}
	cfg.deduper.Reset()

	var rep Report
	d := &Dataset{Season: cfg.season, LoadedAt: cfg.now()}
	if t == nil {
		t = &Tables{}
	}

	for _, row := range t.Teams {
		team := model.TeamFromRow(row)
		switch {
		case team.ID == "":
			rep.MissingIDs++
		case cfg.deduper.SeenAndRecord(ctx, "team:"+team.ID):
			rep.DuplicateTeams++
		default:
			d.Teams = append(d.Teams, team)
		}
	}
	for _, row := range t.Riders {
		r := model.RiderFromRow(row)
		switch {
		case r.ID == "":
			rep.MissingIDs++
		case cfg.deduper.SeenAndRecord(ctx, "rider:"+r.ID):
			rep.DuplicateRiders++
		default:
			d.Riders = append(d.Riders, r)
		}
	}
	for _, row := range t.Divisions {
		d.Divisions = append(d.Divisions, model.DivisionFromRow(row))
	}
	for _, row := range t.Races {
		d.Races = append(d.Races, model.RaceFromRow(row))
	}
	for _, row := range t.Countries {
		d.Countries = append(d.Countries, model.CountryFromRow(row))
	}

	d.index()
	return d, rep
}

func (d *Dataset) index() {
	d.teamIdx = make(map[string]int, len(d.Teams))
	for i, t := range d.Teams {
		d.teamIdx[t.ID] = i
	}
	d.riderIdx = make(map[string]int, len(d.Riders))
	for i, r := range d.Riders {
		d.riderIdx[r.ID] = i
	}
	d.divisionIdx = firstIndex(len(d.Divisions), func(i int) string { return d.Divisions[i].ID })
	d.raceIdx = firstIndex(len(d.Races), func(i int) string { return d.Races[i].ID })
	d.countryIdx = firstIndex(len(d.Countries), func(i int) string { return d.Countries[i].ID })
}

// firstIndex maps each id to the position of its first occurrence.
func firstIndex(n int, id func(int) string) map[string]int {
	idx := make(map[string]int, n)
	for i := 0; i < n; i++ {
		if _, ok := idx[id(i)]; !ok {
			idx[id(i)] = i
		}
	}
	return idx
}

// Team looks up a team by id.
func (d *Dataset) Team(id string) (model.Team, bool) {
	i, ok := d.teamIdx[id]
	if !ok {
		return model.Team{}, false
	}
	return d.Teams[i], true
}

// Rider looks up a rider by id.
func (d *Dataset) Rider(id string) (model.Rider, bool) {
	i, ok := d.riderIdx[id]
	if !ok {
		return model.Rider{}, false
	}
	return d.Riders[i], true
}

// Division looks up a division by id.
func (d *Dataset) Division(id string) (model.Division, bool) {
	i, ok := d.divisionIdx[id]
	if !ok {
		return model.Division{}, false
	}
	return d.Divisions[i], true
}

// Race looks up a race by id.
func (d *Dataset) Race(id string) (model.Race, bool) {
	i, ok := d.raceIdx[id]
	if !ok {
		return model.Race{}, false
	}
	return d.Races[i], true
}

// Country looks up a country by id.
func (d *Dataset) Country(id string) (model.Country, bool) {
	i, ok := d.countryIdx[id]
	if !ok {
		return model.Country{}, false
	}
	return d.Countries[i], true
}
