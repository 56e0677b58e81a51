// Package archetype assigns each rider exactly one of seven riding styles.
package archetype

import (
	"fmt"
	"strings"
)

// Archetype is a rider's primary riding style. The declaration order is
// significant: equal scores resolve to the earlier archetype.
type Archetype int

// Riding styles in declaration order.
const (
	Sprinter Archetype = iota
	NorthernClassics
	Climber
	TimeTrialist
	StageRacer
	Puncher
	Baroudeur

	count
)

var labels = [count]string{
	Sprinter:         "Sprinter",
	NorthernClassics: "Northern Classics",
	Climber:          "Climber",
	TimeTrialist:     "Time Trialist",
	StageRacer:       "Stage Racer",
	Puncher:          "Puncher",
	Baroudeur:        "Baroudeur",
}

// All returns every archetype in declaration order.
func All() []Archetype {
	out := make([]Archetype, 0, count)
	for a := Archetype(0); a < count; a++ {
		out = append(out, a)
	}
	return out
}

func (a Archetype) String() string {
	if a < 0 || a >= count {
		return fmt.Sprintf("Archetype(%d)", int(a))
	}
	return labels[a]
}

// Parse resolves a label, ignoring case and surrounding space.
func Parse(label string) (Archetype, error) {
	l := strings.TrimSpace(label)
	for i, name := range labels {
		if strings.EqualFold(name, l) {
			return Archetype(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknown, label)
}

// MarshalText encodes the label.
func (a Archetype) MarshalText() ([]byte, error) {
	if a < 0 || a >= count {
		return nil, fmt.Errorf("%w: %d", ErrUnknown, int(a))
	}
	return []byte(labels[a]), nil
}

// UnmarshalText decodes a label.
func (a *Archetype) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
