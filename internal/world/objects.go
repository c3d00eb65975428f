// Package world is the read-only snapshot the decision core consumes each
// cycle: ball, self, teammates and opponents with their staleness counts,
// the game time and the derived offside and defense lines.
package world

import (
	"fmt"
	"math"

	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/rcss"
)

// Side identifies which team a player belongs to.
type Side int

const (
	SideUnknown Side = iota
	SideOurs
	SideTheirs
)

func (s Side) String() string {
	switch s {
	case SideOurs:
		return "ours"
	case SideTheirs:
		return "theirs"
	default:
		return "unknown"
	}
}

// Opposite returns the other team. Unknown stays unknown.
func (s Side) Opposite() Side {
	switch s {
	case SideOurs:
		return SideTheirs
	case SideTheirs:
		return SideOurs
	}
	return SideUnknown
}

// PlayerID is a (side, uniform number) pair. Unum 0 means unidentified.
type PlayerID struct {
	Side Side
	Unum int
}

// NoPlayer is the zero PlayerID, used for "nobody holds the ball".
var NoPlayer = PlayerID{}

func (id PlayerID) String() string {
	switch id.Side {
	case SideOurs:
		return fmt.Sprintf("O%d", id.Unum)
	case SideTheirs:
		return fmt.Sprintf("T%d", id.Unum)
	}
	return "--"
}

// Valid reports whether id names a concrete player.
func (id PlayerID) Valid() bool { return id.Side != SideUnknown && id.Unum > 0 }

// Staleness thresholds. A count is cycles since the attribute was last
// sensed directly.
const (
	PosCountMax   = 30 // beyond this a position is no longer trusted at all
	GhostCountMax = 0  // any ghost report invalidates the position
)

// PlayerObject is one observed player.
type PlayerObject struct {
	Side   Side
	Unum   int
	Goalie bool
	TypeID int

	Pos  geom.Vec2
	Vel  geom.Vec2
	Body float64 // degrees

	PosCount   int
	VelCount   int
	BodyCount  int
	GhostCount int
	UnumCount  int

	// Stamina is only meaningful for self.
	Stamina rcss.StaminaModel
}

// ID returns the player's identity.
func (p *PlayerObject) ID() PlayerID { return PlayerID{Side: p.Side, Unum: p.Unum} }

// PosValid reports whether the position is fresh enough to reason about.
func (p *PlayerObject) PosValid() bool {
	if p == nil {
		return false
	}
	return p.PosCount <= PosCountMax && p.GhostCount <= GhostCountMax && p.Pos.IsFinite()
}

// Label formats the player the way logs and the viewer show it.
func (p *PlayerObject) Label() string { return p.ID().String() }

// BallObject is the observed ball.
type BallObject struct {
	Pos      geom.Vec2
	Vel      geom.Vec2
	PosCount int
	VelCount int
}

// PosValid reports whether the ball position is trusted.
func (b BallObject) PosValid() bool { return b.PosCount <= PosCountMax && b.Pos.IsFinite() }

// InertiaPoint is the ball position after c cycles of free decay.
func (b BallObject) InertiaPoint(sp *rcss.ServerParams, c int) geom.Vec2 {
	if c <= 0 {
		return b.Pos
	}
	speed := b.Vel.Len()
	if speed < 1e-12 {
		return b.Pos
	}
	return b.Pos.Add(b.Vel.WithLen(sp.BallInertiaTravel(speed, c)))
}

// VelAt is the ball velocity after c cycles of free decay.
func (b BallObject) VelAt(sp *rcss.ServerParams, c int) geom.Vec2 {
	if c <= 0 {
		return b.Vel
	}
	return b.Vel.Scale(math.Pow(sp.BallDecay, float64(c)))
}

// BallStep is one sample of a ball trajectory.
type BallStep struct {
	Cycle int
	Pos   geom.Vec2
	Vel   geom.Vec2
}

// Trajectory returns the ball's inertial sequence for cycles 0..n, stepping
// pos += vel then vel *= decay.
func (b BallObject) Trajectory(sp *rcss.ServerParams, n int) []BallStep {
	if n < 0 {
		n = 0
	}
	out := make([]BallStep, 0, n+1)
	pos, vel := b.Pos, b.Vel
	for c := 0; c <= n; c++ {
		out = append(out, BallStep{Cycle: c, Pos: pos, Vel: vel})
		pos = pos.Add(vel)
		vel = vel.Scale(sp.BallDecay)
	}
	return out
}
