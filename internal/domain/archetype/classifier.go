package archetype

import (
	"math"

	"github.com/okian/peloton/internal/domain/model"
)

// Override thresholds.
const (
	stageRacerCoreMin   = 73.0
	stageRacerBonus     = 4.5
	classicsCobblesMin  = 78.0
	classicsCobblesLead = 4.0
	classicsBonus       = 4.0
)

// Cores are the composite sub-scores the archetype formulas are built on.
type Cores struct {
	Sprint    float64 `json:"sprint"`
	TimeTrial float64 `json:"time_trial"`
	Climb     float64 `json:"climb"`
	Baroudeur float64 `json:"baroudeur"`
}

// Score is the final score of one archetype.
type Score struct {
	Archetype Archetype `json:"archetype"`
	Score     float64   `json:"score"`
}

// Breakdown explains a classification.
type Breakdown struct {
	Cores           Cores     `json:"cores"`
	Scores          []Score   `json:"scores"`
	StageRacerBonus bool      `json:"stage_racer_bonus"`
	ClassicsBonus   bool      `json:"classics_bonus"`
	Winner          Archetype `json:"winner"`
}

// zeroFilled reads every recognized skill, absent fields as zero.
func zeroFilled(stats model.Stats) [13]float64 {
	var out [13]float64
	for _, sk := range model.Skills() {
		out[sk] = stats.Skill(sk).Or(0)
	}
	return out
}

// Classify returns the archetype with the highest score.
func Classify(stats model.Stats) Archetype {
	return Explain(stats).Winner
}

// ClassifyAttributes classifies a raw attribute set.
func ClassifyAttributes(attrs map[string]string) Archetype {
	return Classify(model.StatsFromAttributes(attrs))
}

// Explain scores every archetype and reports which overrides fired.
func Explain(stats model.Stats) Breakdown {
	s := zeroFilled(stats)
	var (
		sprint    = s[model.Sprint]
		acc       = s[model.Acceleration]
		tt        = s[model.TimeTrial]
		prologue  = s[model.Prologue]
		mountain  = s[model.Mountain]
		medium    = s[model.MediumMountain]
		hill      = s[model.Hill]
		flat      = s[model.Flat]
		endurance = s[model.Endurance]
		resist    = s[model.Resistance]
		recovery  = s[model.Recovery]
		cobbles   = s[model.Cobbles]
		fighter   = s[model.Fighter]
	)

	c := Cores{
		Sprint:    0.65*sprint + 0.35*acc,
		TimeTrial: 0.75*tt + 0.25*prologue,
		Climb:     0.75*mountain + 0.25*medium,
		Baroudeur: 0.40*flat + 0.30*endurance + 0.20*resist + 0.10*recovery,
	}

	var raw [count]float64
	raw[Sprinter] = c.Sprint + 0.10*flat - 0.05*c.Climb - 0.03*c.TimeTrial
	raw[NorthernClassics] = 0.70*cobbles + 0.20*flat + 0.10*resist + 0.05*fighter - 0.03*c.Climb
	raw[Climber] = c.Climb + 0.10*recovery + 0.05*resist - 0.06*c.TimeTrial - 0.04*c.Sprint
	raw[TimeTrialist] = c.TimeTrial + 0.10*flat + 0.05*resist - 0.06*c.Climb
	raw[StageRacer] = 0.55*c.TimeTrial + 0.55*c.Climb + 0.10*recovery + 0.05*resist - 0.02*c.Sprint
	raw[Puncher] = 0.70*hill + 0.15*acc + 0.10*resist + 0.05*sprint - 0.03*c.Climb - 0.02*c.TimeTrial
	raw[Baroudeur] = c.Baroudeur + 0.10*fighter + 0.08*acc - 0.03*c.TimeTrial - 0.02*c.Sprint

	b := Breakdown{Cores: c}
	if c.TimeTrial >= stageRacerCoreMin && c.Climb >= stageRacerCoreMin {
		raw[StageRacer] += stageRacerBonus
		b.StageRacerBonus = true
	}
	rival := math.Max(math.Max(sprint, mountain), math.Max(tt, hill))
	if cobbles >= classicsCobblesMin && cobbles >= rival+classicsCobblesLead {
		raw[NorthernClassics] += classicsBonus
		b.ClassicsBonus = true
	}

	b.Scores = make([]Score, 0, count)
	for a := Archetype(0); a < count; a++ {
		b.Scores = append(b.Scores, Score{Archetype: a, Score: raw[a]})
		// strictly greater keeps the earlier archetype on ties
		if raw[a] > raw[b.Winner] {
			b.Winner = a
		}
	}
	return b
}
