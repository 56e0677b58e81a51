package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/okian/peloton/internal/adapters/csvtable"
	"github.com/okian/peloton/internal/domain/league"
)

// Table file names inside a data directory.
const (
	TeamsFile     = "teams.csv"
	RidersFile    = "riders.csv"
	DivisionsFile = "division.csv"
	RacesFile     = "races.csv"
	CountriesFile = "country.csv"
)

// Source delivers the five league tables.
type Source interface {
	Load(ctx context.Context) (*league.Tables, error)
}

// DirSource reads the tables from CSV files in a directory. Teams and riders
// are required; a missing division, race or country file loads as empty.
type DirSource struct {
	Dir string
}

// NewDirSource returns a source reading from dir.
func NewDirSource(dir string) *DirSource { return &DirSource{Dir: dir} }

// Load reads every table concurrently. The first failure cancels the rest.
func (s *DirSource) Load(ctx context.Context) (*league.Tables, error) {
	var t league.Tables
	files := []struct {
		name     string
		dst      *[]league.Row
		optional bool
	}{
		{TeamsFile, &t.Teams, false},
		{RidersFile, &t.Riders, false},
		{DivisionsFile, &t.Divisions, true},
		{RacesFile, &t.Races, true},
		{CountriesFile, &t.Countries, true},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range files {
		g.Go(func() error {
			rows, err := s.read(gctx, f.name)
			if err != nil {
				if f.optional && errors.Is(err, fs.ErrNotExist) {
					*f.dst = nil
					return nil
				}
				return fmt.Errorf("%w: %s: %w", ErrLoad, f.name, err)
			}
			*f.dst = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *DirSource) read(ctx context.Context, name string) ([]league.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csvtable.Parse(f)
}
