package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/peloton/internal/domain/league"
	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/pkg/logger"
	"github.com/okian/peloton/pkg/metrics"
)

// News lists the published articles, newest first.
func (s *Service) News(ctx context.Context) ([]model.Article, error) {
	if s.archive == nil {
		return nil, ErrNoArchive
	}
	return s.archive.Articles(ctx)
}

// PublishNews validates and stores an article. The id and timestamp are
// always assigned here.
func (s *Service) PublishNews(ctx context.Context, art model.Article) (model.Article, error) {
	if s.archive == nil {
		return model.Article{}, ErrNoArchive
	}
	if err := art.Validate(); err != nil {
		return model.Article{}, err
	}
	art.ID = ""
	art.PublishedAt = time.Now()

	out, err := s.archive.Publish(ctx, art)
	if err != nil {
		metrics.RecordArchiveWrite("news", "error")
		return model.Article{}, err
	}
	metrics.RecordArchiveWrite("news", "success")
	s.log().Info(ctx, "news published", logger.String("id", out.ID), logger.String("author", out.Author))
	return out, nil
}

// Signup registers a manager for an unmanaged team of the current season.
func (s *Service) Signup(ctx context.Context, su model.Signup) (model.Signup, error) {
	if s.archive == nil {
		return model.Signup{}, ErrNoArchive
	}
	if err := su.Validate(); err != nil {
		return model.Signup{}, err
	}
	b, err := s.Board()
	if err != nil {
		return model.Signup{}, err
	}
	team, ok := b.Dataset().Team(su.TeamID)
	if !ok {
		return model.Signup{}, fmt.Errorf("%w: %s", league.ErrTeamNotFound, su.TeamID)
	}
	if !team.Unmanaged() {
		return model.Signup{}, fmt.Errorf("%w: %s is managed by %s", ErrTeamUnavailable, team.ID, team.Manager)
	}
	su.Season = b.Dataset().Season
	su.SubmittedAt = time.Now()

	out, err := s.archive.AddSignup(ctx, su)
	if err != nil {
		metrics.RecordArchiveWrite("signup", "error")
		return model.Signup{}, err
	}
	metrics.RecordArchiveWrite("signup", "success")
	s.log().Info(ctx, "manager signed up", logger.String("team", out.TeamID), logger.Int("season", out.Season))
	return out, nil
}

// Signups lists every signup in submission order.
func (s *Service) Signups(ctx context.Context) ([]model.Signup, error) {
	if s.archive == nil {
		return nil, ErrNoArchive
	}
	return s.archive.Signups(ctx)
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Get().Named("service")
	}
	return s.logger
}
