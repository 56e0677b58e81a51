package model

import "strings"

// Team is a row of the teams table.
type Team struct {
	ID              string `json:"team_id"`
	Name            string `json:"team_name"`
	DivisionID      string `json:"division_id"`
	CountryID       string `json:"country"`
	Sponsor         string `json:"sponsor"`
	Manager         string `json:"manager"`
	Jersey          string `json:"jersey,omitempty"`
	JerseyPrimary   string `json:"jersey_primary,omitempty"`
	JerseySecondary string `json:"jersey_secondary,omitempty"`
	Budget          Number `json:"budget"`
}

// TeamFromRow coerces a teams table row.
func TeamFromRow(row map[string]string) Team {
	return Team{
		ID:              strings.TrimSpace(row["team_id"]),
		Name:            row["team_name"],
		DivisionID:      strings.TrimSpace(row["division_id"]),
		CountryID:       strings.TrimSpace(row["country"]),
		Sponsor:         row["sponsor"],
		Manager:         row["manager"],
		Jersey:          strings.TrimSpace(row["jersey"]),
		JerseyPrimary:   strings.TrimSpace(row["jersey_primary"]),
		JerseySecondary: strings.TrimSpace(row["jersey_secondary"]),
		Budget:          NumberFrom(row["budget"]),
	}
}

// DisplayName returns the team name, falling back to the id.
func (t Team) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

// Unmanaged reports whether no human manager has claimed the team.
func (t Team) Unmanaged() bool {
	return strings.EqualFold(strings.TrimSpace(t.Manager), "unknown")
}

// Division is a row of the division table.
type Division struct {
	ID   string `json:"division_id"`
	Name string `json:"division_name"`
	Rank Number `json:"division_rank"`
}

// DivisionFromRow coerces a division table row.
func DivisionFromRow(row map[string]string) Division {
	return Division{
		ID:   strings.TrimSpace(row["division_id"]),
		Name: row["division_name"],
		Rank: NumberFrom(row["division_rank"]),
	}
}

// Race is a row of the races table.
type Race struct {
	ID         string `json:"race_id"`
	Name       string `json:"race_name"`
	CountryID  string `json:"country"`
	DivisionID string `json:"division_id"`
	Stages     Number `json:"stage_number"`
	Date       string `json:"race_date"`
}

// RaceFromRow coerces a races table row.
func RaceFromRow(row map[string]string) Race {
	return Race{
		ID:         strings.TrimSpace(row["race_id"]),
		Name:       row["race_name"],
		CountryID:  strings.TrimSpace(row["country"]),
		DivisionID: strings.TrimSpace(row["division_id"]),
		Stages:     NumberFrom(row["stage_number"]),
		Date:       strings.TrimSpace(row["race_date"]),
	}
}

// HasDate reports whether the race carries a YYYYMMDD date.
func (r Race) HasDate() bool { return len(r.Date) == 8 }

// Country is a row of the country table.
type Country struct {
	ID   string `json:"country_id"`
	Name string `json:"country_name"`
	Flag string `json:"flag,omitempty"`
}

// CountryFromRow coerces a country table row.
func CountryFromRow(row map[string]string) Country {
	return Country{
		ID:   strings.TrimSpace(row["country_id"]),
		Name: row["country_name"],
		Flag: strings.TrimSpace(row["flag"]),
	}
}
