package model

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Stat is one skill field of a rider: its key, the text as delivered and the
// parsed value.
type Stat struct {
	Key   string `json:"key"`
	Raw   string `json:"raw"`
	Value Number `json:"value"`
}

// Stats holds every skill field of a rider, sorted by key.
type Stats []Stat

// StatsFromAttributes collects the skill fields of an attribute set.
func StatsFromAttributes(attrs map[string]string) Stats {
	out := make(Stats, 0, len(attrs))
	for k, v := range attrs {
		if !IsStatKey(k) {
			continue
		}
		out = append(out, Stat{Key: k, Raw: v, Value: NumberFrom(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// StatsOf builds Stats from already numeric skill values.
func StatsOf(values map[Skill]float64) Stats {
	out := make(Stats, 0, len(values))
	for s, v := range values {
		if s.Key() == "" {
			continue
		}
		out = append(out, Stat{Key: s.Key(), Value: Num(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Get returns the parsed value of key.
func (s Stats) Get(key string) Number {
	i := sort.Search(len(s), func(i int) bool { return s[i].Key >= key })
	if i < len(s) && s[i].Key == key {
		return s[i].Value
	}
	return Number{}
}

// Skill returns the parsed value of a recognized skill.
func (s Stats) Skill(sk Skill) Number { return s.Get(sk.Key()) }

// Numeric returns the present values keyed by field name.
func (s Stats) Numeric() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, st := range s {
		if st.Value.Valid {
			out[st.Key] = st.Value.Value
		}
	}
	return out
}

// Rider is the typed record of one rider row.
type Rider struct {
	ID         string            `json:"rider_id"`
	FirstName  string            `json:"firstname"`
	LastName   string            `json:"lastname"`
	TeamID     string            `json:"team_id"`
	CountryID  string            `json:"country"`
	Region     string            `json:"region"`
	Birthday   string            `json:"birthday"`
	Portrait   string            `json:"portrait,omitempty"`
	Real       bool              `json:"real_rider"`
	Age        Number            `json:"age"`
	Height     Number            `json:"height"`
	Weight     Number            `json:"weight"`
	Stats      Stats             `json:"stats"`
	Attributes map[string]string `json:"-"`
}

// RiderFromRow coerces a riders table row.
func RiderFromRow(row map[string]string) Rider {
	return Rider{
		ID:         strings.TrimSpace(row["rider_id"]),
		FirstName:  row["firstname"],
		LastName:   row["lastname"],
		TeamID:     strings.TrimSpace(row["team_id"]),
		CountryID:  strings.TrimSpace(row["country"]),
		Region:     row["region"],
		Birthday:   row["birthday"],
		Portrait:   strings.TrimSpace(row["portrait"]),
		Real:       strings.TrimSpace(row["real_rider"]) == "1",
		Age:        NumberFrom(row["age"]),
		Height:     NumberFrom(row["height"]),
		Weight:     NumberFrom(row["weight"]),
		Stats:      StatsFromAttributes(row),
		Attributes: row,
	}
}

// FullName joins first and last name, falling back to the rider id.
func (r Rider) FullName() string {
	if n := strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName)); n != "" {
		return n
	}
	return r.ID
}

// IsFreeAgent reports whether the rider has no team.
func (r Rider) IsFreeAgent() bool { return r.TeamID == "" }

// RegionName returns the region, or "Unknown" when empty.
func (r Rider) RegionName() string {
	if s := strings.TrimSpace(r.Region); s != "" {
		return s
	}
	return "Unknown"
}

// BirthdayDisplay formats a YYYYMMDD birthday as DD-MM-YYYY, or "—".
func (r Rider) BirthdayDisplay() string {
	b := strings.TrimSpace(r.Birthday)
	if len(b) != 8 {
		return "—"
	}
	return b[6:8] + "-" + b[4:6] + "-" + b[0:4]
}

// Initials returns up to two uppercase initials of name, "?" when empty.
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) > 2 {
		words = words[:2]
	}
	var b strings.Builder
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}
