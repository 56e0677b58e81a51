// Package filter narrows rider listings by free-text search, archetype,
// country, team and an optional CEL expression.
package filter

import (
	"strings"

	"github.com/okian/peloton/internal/domain/archetype"
	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/internal/domain/scoring"
)

// Criteria is the user-facing filter. Empty fields and "all" match everything.
type Criteria struct {
	Query     string `json:"q,omitempty"`
	Archetype string `json:"type,omitempty"`
	CountryID string `json:"country,omitempty"`
	TeamID    string `json:"team,omitempty"`
	Expr      string `json:"expr,omitempty"`
}

// Matcher is a validated Criteria.
type Matcher struct {
	query     string
	archetype *archetype.Archetype
	country   string
	team      string
	expr      *Expression
}

// MatchAll matches every rider.
var MatchAll = &Matcher{}

// Compile validates c.
func (c Criteria) Compile() (*Matcher, error) {
	m := &Matcher{
		query:   strings.ToLower(strings.TrimSpace(c.Query)),
		country: wildcard(c.CountryID),
		team:    wildcard(c.TeamID),
	}
	if a := wildcard(c.Archetype); a != "" {
		v, err := archetype.Parse(a)
		if err != nil {
			return nil, err
		}
		m.archetype = &v
	}
	if src := strings.TrimSpace(c.Expr); src != "" {
		e, err := Compile(src)
		if err != nil {
			return nil, err
		}
		m.expr = e
	}
	return m, nil
}

func wildcard(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}

// Match reports whether the rider passes every filter.
func (m *Matcher) Match(r model.Rider, ev scoring.Evaluation) bool {
	if m.archetype != nil && ev.Archetype != *m.archetype {
		return false
	}
	if m.country != "" && !strings.EqualFold(r.CountryID, m.country) {
		return false
	}
	if m.team != "" && r.TeamID != m.team {
		return false
	}
	if m.query != "" && !Contains(m.query, r.FullName(), r.CountryID, r.RegionName()) {
		return false
	}
	if m.expr != nil && !m.expr.Match(r, ev) {
		return false
	}
	return true
}

// Contains reports whether any field contains the lower-case query,
// ignoring case.
func Contains(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}
