package league

import (
	"fmt"
	"sort"

	"github.com/okian/peloton/internal/domain/archetype"
	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/internal/domain/rating"
)

// StatView is one skill field on the rider page.
type StatView struct {
	Key   string       `json:"key"`
	Name  string       `json:"name"`
	Value model.Number `json:"value"`
	Tier  string       `json:"tier"`
	Meter int          `json:"meter"`
}

// RiderDetail is the rider page.
type RiderDetail struct {
	RosterEntry
	FirstName    string              `json:"firstname"`
	LastName     string              `json:"lastname"`
	Birthday     string              `json:"birthday"`
	Height       model.Number        `json:"height"`
	Weight       model.Number        `json:"weight"`
	FreeAgent    bool                `json:"free_agent"`
	DivisionID   string              `json:"division_id,omitempty"`
	DivisionName string              `json:"division_name,omitempty"`
	Stats        []StatView          `json:"stats"`
	Breakdown    archetype.Breakdown `json:"breakdown"`
}

// Rider returns the detail view of one rider.
func (b *Board) Rider(id string) (RiderDetail, error) {
	r, ok := b.data.Rider(id)
	if !ok {
		return RiderDetail{}, fmt.Errorf("%w: %s", ErrRiderNotFound, id)
	}
	d := RiderDetail{
		RosterEntry: b.entry(r),
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Birthday:    r.BirthdayDisplay(),
		Height:      r.Height,
		Weight:      r.Weight,
		FreeAgent:   r.IsFreeAgent(),
		Stats:       statViews(r.Stats),
		Breakdown:   archetype.Explain(r.Stats),
	}
	if t, ok := b.data.Team(r.TeamID); ok {
		d.DivisionID = t.DivisionID
		if div, ok := b.data.Division(t.DivisionID); ok {
			d.DivisionName = div.Name
		}
	}
	return d, nil
}

// statViews orders skill fields by value descending, non-numeric last.
func statViews(stats model.Stats) []StatView {
	out := make([]StatView, 0, len(stats))
	for _, st := range stats {
		out = append(out, StatView{
			Key:   st.Key,
			Name:  model.PrettyStatName(st.Key),
			Value: st.Value,
			Tier:  rating.StatTier(st.Value),
			Meter: rating.MeterPercent(st.Value),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value.Or(-1) > out[j].Value.Or(-1)
	})
	return out
}
