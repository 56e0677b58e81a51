package main

import (
	"context"
	"fmt"

	"github.com/okian/peloton/internal/adapters/repository"
	app "github.com/okian/peloton/internal/app"
	"github.com/okian/peloton/internal/domain/archetype"
	"github.com/okian/peloton/pkg/logger"
)

// localOptions configure an offline evaluation.
type localOptions struct {
	dataDir   string
	workers   int
	season    int
	overrides map[string]string
}

// startLocal evaluates dataDir with the same pipeline the server runs. The
// caller must Stop the returned service.
func startLocal(ctx context.Context, o localOptions) (*app.Service, error) {
	overrides := make(map[string]archetype.Archetype, len(o.overrides))
	for id, label := range o.overrides {
		a, err := archetype.Parse(label)
		if err != nil {
			return nil, fmt.Errorf("override %s: %w", id, err)
		}
		overrides[id] = a
	}
	opts := []app.Option{
		app.WithLogger(logger.Get().Named("local")),
		app.WithSource(repository.NewDirSource(o.dataDir)),
		app.WithArchetypeOverrides(overrides),
		app.WithMaxLeaderboardLimit(1 << 20),
	}
	if o.workers > 0 {
		opts = append(opts, app.WithWorkerCount(o.workers))
	}
	if o.season > 0 {
		opts = append(opts, app.WithSeason(o.season))
	}
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		svc.Stop()
		return nil, err
	}
	return svc, nil
}
