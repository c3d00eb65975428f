// Package chain plans ball-handling action chains: generators propose
// hypothetical actions with the state they lead to, and a best-first
// search picks the chain the field evaluator likes best.
package chain

import (
	"fmt"

	"github.com/Garsondee/Striker-Sense/internal/geom"
)

// Kind tags the action variant.
type Kind int

const (
	KindHold Kind = iota
	KindDribble
	KindPass
	KindCross
	KindShoot
	KindClear
)

func (k Kind) String() string {
	switch k {
	case KindHold:
		return "hold"
	case KindDribble:
		return "dribble"
	case KindPass:
		return "pass"
	case KindCross:
		return "cross"
	case KindShoot:
		return "shoot"
	case KindClear:
		return "clear"
	default:
		return "unknown"
	}
}

// KindFromString parses a kind name. ok is false for unknown names.
func KindFromString(s string) (Kind, bool) {
	for k := KindHold; k <= KindClear; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return KindHold, false
}

// Safety is the qualitative danger grade the evaluator turns into a
// penalty multiplier.
type Safety int

const (
	Safe Safety = iota
	MaybeDangerous
	Dangerous
)

func (s Safety) String() string {
	switch s {
	case Safe:
		return "safe"
	case MaybeDangerous:
		return "maybe_dangerous"
	case Dangerous:
		return "dangerous"
	default:
		return "unknown"
	}
}

// Action is one hypothetical cooperative action. It is a value and is
// never modified after a generator returns it.
type Action struct {
	Kind   Kind
	Actor  int // uniform number of the kicker or dribbler
	Target int // receiver uniform number, 0 when none

	TargetPoint  geom.Vec2
	FirstBallVel geom.Vec2

	KickCount int
	TurnCount int
	DashCount int

	// DurationSteps is the number of cycles until the resulting state.
	DurationSteps int
	Safety        Safety
	Description   string
}

func (a Action) String() string {
	s := fmt.Sprintf("%s #%d", a.Kind, a.Actor)
	if a.Target > 0 {
		s += fmt.Sprintf("->#%d", a.Target)
	}
	s += fmt.Sprintf(" (%.1f,%.1f) %dst", a.TargetPoint.X, a.TargetPoint.Y, a.DurationSteps)
	if a.Safety != Safe {
		s += " " + a.Safety.String()
	}
	if a.Description != "" {
		s += " " + a.Description
	}
	return s
}
