package verify

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/peloton/pkg/logger"
)

// Expected supplies the local leaderboard the server is checked against.
type Expected interface {
	TopN(ctx context.Context, n int) ([]Entry, error)
}

// Run fetches the server's top cfg.TopN and the rank of every locally
// expected rider, and reports where they disagree with local.
func Run(ctx context.Context, cfg Config, local Expected) (Report, error) {
	start := time.Now()
	log := logger.Get().Named("verify")

	if cfg.TopN < 1 {
		return Report{}, fmt.Errorf("%w: top must be positive", ErrInvalidConfig)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	log.Info(ctx, "starting verification",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("topN", cfg.TopN),
		logger.Int("workers", cfg.Workers))

	c := newClient(cfg.BaseURL, cfg.Timeout)
	if err := c.health(ctx); err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}

	want, err := local.TopN(ctx, cfg.TopN)
	if err != nil {
		return Report{}, fmt.Errorf("local evaluation: %w", err)
	}
	if len(want) == 0 {
		return Report{}, ErrNoExpected
	}

	got, err := c.leaderboard(ctx, cfg.TopN)
	if err != nil {
		return Report{}, fmt.Errorf("leaderboard retrieval failed: %w", err)
	}

	rep := Report{LeaderboardEntries: len(got)}
	rep.Mismatches = append(rep.Mismatches, compareLeaderboard(want, got)...)

	rankMismatches, failures, err := checkRanks(ctx, c, cfg, want)
	if err != nil {
		return Report{}, err
	}
	rep.RanksChecked = len(want) - failures
	rep.RankFailures = failures
	rep.Mismatches = append(rep.Mismatches, rankMismatches...)
	rep.Duration = time.Since(start)

	if cfg.Verbose {
		for _, m := range rep.Mismatches {
			log.Warn(ctx, "mismatch",
				logger.String("rider", m.RiderID),
				logger.String("source", m.Source),
				logger.String("field", m.Field),
				logger.String("want", m.Want),
				logger.String("got", m.Got))
		}
	}
	log.Info(ctx, "verification completed",
		logger.Int("leaderboardEntries", rep.LeaderboardEntries),
		logger.Int("ranksChecked", rep.RanksChecked),
		logger.Int("rankFailures", rep.RankFailures),
		logger.Int("mismatches", len(rep.Mismatches)),
		logger.String("duration", rep.Duration.String()))
	return rep, nil
}

// compareLeaderboard checks the server's list position by position.
func compareLeaderboard(want, got []Entry) []Mismatch {
	var out []Mismatch
	if len(want) != len(got) {
		out = append(out, Mismatch{
			Source: "leaderboard", Field: "length",
			Want: strconv.Itoa(len(want)), Got: strconv.Itoa(len(got)),
		})
	}
	for i := 0; i < len(want) && i < len(got); i++ {
		if want[i].RiderID != got[i].RiderID {
			out = append(out, Mismatch{
				RiderID: want[i].RiderID, Source: "leaderboard",
				Field: "position " + strconv.Itoa(i+1),
				Want:  want[i].RiderID, Got: got[i].RiderID,
			})
			continue
		}
		out = append(out, compareEntry("leaderboard", want[i], got[i])...)
	}
	return out
}

// compareEntry checks the fields both sides must agree on.
func compareEntry(source string, want, got Entry) []Mismatch {
	var out []Mismatch
	add := func(field, w, g string) {
		if w != g {
			out = append(out, Mismatch{RiderID: want.RiderID, Source: source, Field: field, Want: w, Got: g})
		}
	}
	add("rank", strconv.Itoa(want.Rank), strconv.Itoa(got.Rank))
	add("overall", strconv.Itoa(want.Overall), strconv.Itoa(got.Overall))
	add("type", want.Archetype, got.Archetype)
	return out
}

// checkRanks looks up every expected rider concurrently. Failed lookups are
// counted, not fatal, unless ctx ends.
func checkRanks(ctx context.Context, c *client, cfg Config, want []Entry) ([]Mismatch, int, error) {
	var (
		mu       sync.Mutex
		out      []Mismatch
		failures int
	)
	log := logger.Get().Named("verify")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, w := range want {
		g.Go(func() error {
			got, err := c.rank(gctx, w.RiderID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failures++
				log.Warn(gctx, "rank lookup failed", logger.String("rider", w.RiderID), logger.Error(err))
				return nil
			}
			out = append(out, compareEntry("rank", w, got)...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RiderID < out[j].RiderID })
	return out, failures, nil
}
