package league

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/peloton/internal/domain/filter"
	"github.com/okian/peloton/internal/domain/model"
)

// NationalTeamSize is the number of riders that make up a national team.
const NationalTeamSize = 8

// NationStrength is one row of the national rankings.
type NationStrength struct {
	Rank        int    `json:"rank"`
	CountryID   string `json:"country_id"`
	CountryName string `json:"country_name"`
	Flag        string `json:"flag,omitempty"`
	Riders      int    `json:"riders"`
	Strength    int    `json:"strength"`
}

// NationDetail is a country page: its national team and every rider.
type NationDetail struct {
	NationStrength
	NationalTeam []RosterEntry `json:"national_team"`
	Riders       []RosterEntry `json:"riders"`
}

// Nations ranks every country that has riders by the rounded mean overall of
// its best eight rated riders. Countries without rated riders score zero.
// Equal strengths keep first-seen order.
func (b *Board) Nations() []NationStrength {
	order := make([]string, 0)
	groups := make(map[string][]RosterEntry)
	for _, r := range b.data.Riders {
		cid := strings.TrimSpace(r.CountryID)
		if cid == "" {
			continue
		}
		if _, ok := groups[cid]; !ok {
			order = append(order, cid)
		}
		groups[cid] = append(groups[cid], b.entry(r))
	}

	out := make([]NationStrength, 0, len(order))
	for _, cid := range order {
		riders := groups[cid]
		sortByLevel(riders)
		out = append(out, b.nation(cid, riders))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Strength > out[j].Strength })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// nation summarizes a country from its riders sorted by level.
func (b *Board) nation(cid string, sorted []RosterEntry) NationStrength {
	n := NationStrength{CountryID: cid, CountryName: "Country " + cid, Riders: len(sorted)}
	if c, ok := b.data.Country(cid); ok {
		if c.Name != "" {
			n.CountryName = c.Name
		}
		n.Flag = c.Flag
	}
	var m mean
	for _, e := range sorted {
		if m.n == NationalTeamSize {
			break
		}
		if e.Overall.Rated {
			m.add(float64(e.Overall.Value))
		}
	}
	if v, ok := m.value(); ok {
		n.Strength = int(math.Round(v))
	}
	return n
}

// Nation returns a country page. The query narrows the rider table by name;
// the national team is always the top eight.
func (b *Board) Nation(countryID, query string) (NationDetail, error) {
	all := b.riders(nil, func(r model.Rider) bool { return r.CountryID == countryID })
	if _, ok := b.data.Country(countryID); !ok && len(all) == 0 {
		return NationDetail{}, fmt.Errorf("%w: %s", ErrCountryNotFound, countryID)
	}

	d := NationDetail{
		NationStrength: b.nation(countryID, all),
		NationalTeam:   all[:min(NationalTeamSize, len(all))],
		Riders:         make([]RosterEntry, 0, len(all)),
	}
	q := strings.ToLower(strings.TrimSpace(query))
	for _, e := range all {
		if filter.Contains(q, e.Name) {
			d.Riders = append(d.Riders, e)
		}
	}
	for _, n := range b.Nations() {
		if n.CountryID == countryID {
			d.Rank = n.Rank
			break
		}
	}
	return d, nil
}
