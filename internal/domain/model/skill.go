package model

import "strings"

// StatPrefix marks an attribute as a skill rating.
const StatPrefix = "stat_"

// Skill identifies one of the skill fields the classifier reads.
type Skill int

// Recognized skills.
const (
	Sprint Skill = iota
	Acceleration
	TimeTrial
	Prologue
	Mountain
	MediumMountain
	Hill
	Flat
	Endurance
	Resistance
	Recovery
	Cobbles
	Fighter

	skillCount
)

var skillKeys = [skillCount]string{
	Sprint:         "stat_sprint",
	Acceleration:   "stat_acceleration",
	TimeTrial:      "stat_timetrial",
	Prologue:       "stat_prologue",
	Mountain:       "stat_mountain",
	MediumMountain: "stat_medium_mountain",
	Hill:           "stat_hill",
	Flat:           "stat_flat",
	Endurance:      "stat_endurance",
	Resistance:     "stat_resistance",
	Recovery:       "stat_recovery",
	Cobbles:        "stat_cobbles",
	Fighter:        "stat_fighter",
}

// Skills lists the recognized skills in their fixed order.
func Skills() []Skill {
	out := make([]Skill, 0, skillCount)
	for s := Skill(0); s < skillCount; s++ {
		out = append(out, s)
	}
	return out
}

// Key returns the attribute key of the skill, e.g. "stat_sprint".
func (s Skill) Key() string {
	if s < 0 || s >= skillCount {
		return ""
	}
	return skillKeys[s]
}

func (s Skill) String() string {
	return strings.TrimPrefix(s.Key(), StatPrefix)
}

// SkillByName resolves "sprint" or "stat_sprint" to a Skill.
func SkillByName(name string) (Skill, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if !IsStatKey(key) {
		key = StatPrefix + key
	}
	for s, k := range skillKeys {
		if k == key {
			return Skill(s), true
		}
	}
	return 0, false
}

// IsStatKey reports whether key follows the skill field naming convention.
func IsStatKey(key string) bool {
	return strings.HasPrefix(key, StatPrefix)
}

// PrettyStatName turns "stat_medium_mountain" into "Medium Mountain".
func PrettyStatName(key string) string {
	words := strings.Fields(strings.ReplaceAll(strings.TrimPrefix(key, StatPrefix), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
