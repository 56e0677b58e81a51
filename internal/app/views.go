package service

import (
	"github.com/okian/peloton/internal/domain/filter"
	"github.com/okian/peloton/internal/domain/league"
)

// The read operations below answer from the board published by the last
// successful reload.

// Summary returns the league totals.
func (s *Service) Summary() (league.Summary, error) {
	b, err := s.Board()
	if err != nil {
		return league.Summary{}, err
	}
	return b.Summary(), nil
}

// Riders lists the riders matching c.
func (s *Service) Riders(c filter.Criteria) ([]league.RosterEntry, error) {
	b, err := s.Board()
	if err != nil {
		return nil, err
	}
	return b.Riders(c)
}

// Rider returns the rider page.
func (s *Service) Rider(id string) (league.RiderDetail, error) {
	b, err := s.Board()
	if err != nil {
		return league.RiderDetail{}, err
	}
	return b.Rider(id)
}

// FreeAgents lists the riders without a team matching c.
func (s *Service) FreeAgents(c filter.Criteria) ([]league.RosterEntry, error) {
	b, err := s.Board()
	if err != nil {
		return nil, err
	}
	return b.FreeAgents(c)
}

// Teams lists the teams matching query, optionally within one division.
func (s *Service) Teams(query, divisionID string) ([]league.TeamCard, error) {
	b, err := s.Board()
	if err != nil {
		return nil, err
	}
	return b.Teams(query, divisionID), nil
}

// AvailableTeams lists the teams a new manager may sign up for.
func (s *Service) AvailableTeams() ([]league.TeamCard, error) {
	b, err := s.Board()
	if err != nil {
		return nil, err
	}
	return b.AvailableTeams(), nil
}

// Team returns the team page with its roster narrowed by c.
func (s *Service) Team(id string, c filter.Criteria) (league.TeamDetail, error) {
	b, err := s.Board()
	if err != nil {
		return league.TeamDetail{}, err
	}
	return b.Team(id, c)
}

// Nations returns the national rankings.
func (s *Service) Nations() ([]league.NationStrength, error) {
	b, err := s.Board()
	if err != nil {
		return nil, err
	}
	return b.Nations(), nil
}

// Nation returns a country page.
func (s *Service) Nation(id, query string) (league.NationDetail, error) {
	b, err := s.Board()
	if err != nil {
		return league.NationDetail{}, err
	}
	return b.Nation(id, query)
}

// Divisions lists the divisions.
func (s *Service) Divisions() ([]league.DivisionView, error) {
	b, err := s.Board()
	if err != nil {
		return nil, err
	}
	return b.Divisions(), nil
}

// Division returns a division page.
func (s *Service) Division(id, query string) (league.DivisionView, error) {
	b, err := s.Board()
	if err != nil {
		return league.DivisionView{}, err
	}
	return b.Division(id, query)
}

// Calendar lists the races in calendar order.
func (s *Service) Calendar(query, divisionID string) ([]league.RaceView, error) {
	b, err := s.Board()
	if err != nil {
		return nil, err
	}
	return b.Calendar(query, divisionID), nil
}

// Race returns a race page.
func (s *Service) Race(id string) (league.RaceView, error) {
	b, err := s.Board()
	if err != nil {
		return league.RaceView{}, err
	}
	return b.Race(id)
}

// Dashboard returns the home page of a team's manager.
func (s *Service) Dashboard(teamID string) (league.Dashboard, error) {
	b, err := s.Board()
	if err != nil {
		return league.Dashboard{}, err
	}
	return b.Dashboard(teamID)
}
