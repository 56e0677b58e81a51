// Package rating computes a rider's overall rating and the tier labels derived
// from it.
package rating

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/okian/peloton/internal/domain/model"
)

// Overall is a rider's overall rating. Riders without a single numeric skill
// field are unrated.
type Overall struct {
	Value int
	Rated bool
}

// Unrated is the rating of a rider with no numeric skill fields.
var Unrated = Overall{}

// Rated returns a present rating.
func Rated(v int) Overall { return Overall{Value: v, Rated: true} }

// Compute returns the mean of every numeric skill field rounded to the nearest
// integer, halves away from zero. Fields that do not parse are ignored.
func Compute(stats model.Stats) Overall {
	var (
		sum float64
		n   int
	)
	for _, st := range stats {
		if !st.Value.Valid {
			continue
		}
		sum += st.Value.Value
		n++
	}
	if n == 0 {
		return Unrated
	}
	return Rated(int(math.Round(sum / float64(n))))
}

// FromAttributes computes the overall rating of a raw attribute set.
func FromAttributes(attrs map[string]string) Overall {
	return Compute(model.StatsFromAttributes(attrs))
}

// SortKey orders unrated riders below every rated one.
func (o Overall) SortKey() int {
	if !o.Rated {
		return -1
	}
	return o.Value
}

func (o Overall) String() string {
	if !o.Rated {
		return "—"
	}
	return strconv.Itoa(o.Value)
}

// MarshalJSON encodes unrated as null.
func (o Overall) MarshalJSON() ([]byte, error) {
	if !o.Rated {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON accepts an integer or null.
func (o *Overall) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = Unrated
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = Rated(v)
	return nil
}
