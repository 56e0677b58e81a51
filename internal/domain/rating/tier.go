package rating

import (
	"math"

	"github.com/okian/peloton/internal/domain/model"
)

// Playable bounds of a skill value. Meters and radar axes are normalized on
// this range.
const (
	PlayableMin = 55.0
	PlayableMax = 86.0
)

// Level is the label and tone shown next to an overall rating.
type Level struct {
	Label string `json:"label"`
	Tone  string `json:"tone"`
}

// LevelOf maps an overall rating to its level label.
func LevelOf(o Overall) Level {
	if !o.Rated {
		return Level{Label: "Unranked", Tone: "muted"}
	}
	switch v := o.Value; {
	case v >= 80:
		return Level{Label: "Elite", Tone: "elite"}
	case v >= 75:
		return Level{Label: "A", Tone: "a"}
	case v >= 70:
		return Level{Label: "B", Tone: "b"}
	case v >= 65:
		return Level{Label: "C", Tone: "c"}
	default:
		return Level{Label: "D", Tone: "d"}
	}
}

// StatTier buckets a single skill value into tier1 (weakest) to tier5.
func StatTier(n model.Number) string {
	if !n.Valid {
		return "tier1"
	}
	switch v := n.Value; {
	case v >= 80:
		return "tier5"
	case v >= 75:
		return "tier4"
	case v >= 70:
		return "tier3"
	case v >= 65:
		return "tier2"
	default:
		return "tier1"
	}
}

// Normalize clamps v to the playable range and scales it to 0..1.
func Normalize(v float64) float64 {
	c := math.Min(PlayableMax, math.Max(PlayableMin, v))
	return (c - PlayableMin) / (PlayableMax - PlayableMin)
}

// MeterPercent is Normalize expressed as a whole percentage; absent values
// read as zero.
func MeterPercent(n model.Number) int {
	if !n.Valid {
		return 0
	}
	return int(math.Round(Normalize(n.Value) * 100))
}
