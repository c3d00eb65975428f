// Package rcss carries the soccer server's physical constants: server
// parameters, heterogeneous player types, the stamina model and the tackle
// success model. Everything here is loaded once at match start and treated
// as immutable afterwards.
package rcss

import (
	"math"

	"github.com/Garsondee/Striker-Sense/internal/geom"
)

// Unreachable is the reach-cycle sentinel returned when no feasible
// movement gets a player to a target within the prediction horizon.
const Unreachable = 1000

// ServerParams mirrors the subset of rcssserver parameters the decision
// core depends on. Field names follow server.conf keys.
type ServerParams struct {
	PitchHalfLength      float64 `mapstructure:"pitchHalfLength"`
	PitchHalfWidth       float64 `mapstructure:"pitchHalfWidth"`
	GoalHalfWidth        float64 `mapstructure:"goalHalfWidth"`
	PenaltyAreaLength    float64 `mapstructure:"penaltyAreaLength"`
	PenaltyAreaHalfWidth float64 `mapstructure:"penaltyAreaHalfWidth"`

	BallSize     float64 `mapstructure:"ballSize"`
	BallDecay    float64 `mapstructure:"ballDecay"`
	BallSpeedMax float64 `mapstructure:"ballSpeedMax"`
	BallAccelMax float64 `mapstructure:"ballAccelMax"`

	MaxPower      float64 `mapstructure:"maxPower"`
	MaxDashPower  float64 `mapstructure:"maxDashPower"`
	MinDashPower  float64 `mapstructure:"minDashPower"`
	MaxMoment     float64 `mapstructure:"maxMoment"`
	DashAngleStep float64 `mapstructure:"dashAngleStep"`
	SideDashRate  float64 `mapstructure:"sideDashRate"`
	BackDashRate  float64 `mapstructure:"backDashRate"`

	StaminaMax      float64 `mapstructure:"staminaMax"`
	StaminaCapacity float64 `mapstructure:"staminaCapacity"` // negative = unlimited
	RecoverDecThr   float64 `mapstructure:"recoverDecThr"`
	RecoverDec      float64 `mapstructure:"recoverDec"`
	RecoverMin      float64 `mapstructure:"recoverMin"`
	EffortDecThr    float64 `mapstructure:"effortDecThr"`
	EffortDec       float64 `mapstructure:"effortDec"`
	EffortIncThr    float64 `mapstructure:"effortIncThr"`
	EffortInc       float64 `mapstructure:"effortInc"`

	TackleDist     float64 `mapstructure:"tackleDist"`
	TackleBackDist float64 `mapstructure:"tackleBackDist"`
	TackleWidth    float64 `mapstructure:"tackleWidth"`
	TackleExponent float64 `mapstructure:"tackleExponent"`

	CatchableAreaL float64 `mapstructure:"catchableAreaL"`
	CatchableAreaW float64 `mapstructure:"catchableAreaW"`
}

// DefaultServerParams returns rcssserver v15 defaults.
func DefaultServerParams() ServerParams {
	return ServerParams{
		PitchHalfLength:      52.5,
		PitchHalfWidth:       34.0,
		GoalHalfWidth:        7.01,
		PenaltyAreaLength:    16.5,
		PenaltyAreaHalfWidth: 20.16,

		BallSize:     0.085,
		BallDecay:    0.94,
		BallSpeedMax: 3.0,
		BallAccelMax: 2.7,

		MaxPower:      100,
		MaxDashPower:  100,
		MinDashPower:  -100,
		MaxMoment:     180,
		DashAngleStep: 45,
		SideDashRate:  0.4,
		BackDashRate:  0.6,

		StaminaMax:      8000,
		StaminaCapacity: 130600,
		RecoverDecThr:   0.3,
		RecoverDec:      0.002,
		RecoverMin:      0.5,
		EffortDecThr:    0.3,
		EffortDec:       0.005,
		EffortIncThr:    0.6,
		EffortInc:       0.01,

		TackleDist:     2.0,
		TackleBackDist: 0.0,
		TackleWidth:    1.25,
		TackleExponent: 6.0,

		CatchableAreaL: 1.2,
		CatchableAreaW: 1.0,
	}
}

// RecoverDecThrValue is the absolute stamina floor below which recovery
// starts to decay permanently.
func (sp *ServerParams) RecoverDecThrValue() float64 {
	return sp.RecoverDecThr * sp.StaminaMax
}

// TheirGoal is the centre of the goal we attack (always +x).
func (sp *ServerParams) TheirGoal() geom.Vec2 { return geom.V(sp.PitchHalfLength, 0) }

// OurGoal is the centre of the goal we defend.
func (sp *ServerParams) OurGoal() geom.Vec2 { return geom.V(-sp.PitchHalfLength, 0) }

// OurPenaltyArea is the penalty box in front of our goal.
func (sp *ServerParams) OurPenaltyArea() geom.Rect {
	return geom.Rect{
		Min: geom.V(-sp.PitchHalfLength, -sp.PenaltyAreaHalfWidth),
		Max: geom.V(-sp.PitchHalfLength+sp.PenaltyAreaLength, sp.PenaltyAreaHalfWidth),
	}
}

// TheirPenaltyArea is the penalty box in front of the opponent goal.
func (sp *ServerParams) TheirPenaltyArea() geom.Rect {
	return geom.Rect{
		Min: geom.V(sp.PitchHalfLength-sp.PenaltyAreaLength, -sp.PenaltyAreaHalfWidth),
		Max: geom.V(sp.PitchHalfLength, sp.PenaltyAreaHalfWidth),
	}
}

// InPitch reports whether p is inside the touch and goal lines, grown by margin.
func (sp *ServerParams) InPitch(p geom.Vec2, margin float64) bool {
	return math.Abs(p.X) <= sp.PitchHalfLength+margin && math.Abs(p.Y) <= sp.PitchHalfWidth+margin
}

// InTheirGoal reports whether the ball at p has crossed into the opponent goal mouth.
func (sp *ServerParams) InTheirGoal(p geom.Vec2) bool {
	return p.X > sp.PitchHalfLength-0.1 && math.Abs(p.Y) < sp.GoalHalfWidth+2.0
}

// InOurGoal reports whether the ball at p has crossed into our goal mouth.
func (sp *ServerParams) InOurGoal(p geom.Vec2) bool {
	return p.X < -(sp.PitchHalfLength-0.1) && math.Abs(p.Y) < sp.GoalHalfWidth+2.0
}

// CatchableArea is the goalie's catch reach for a default catch area stretch.
func (sp *ServerParams) CatchableArea() float64 {
	return math.Hypot(sp.CatchableAreaL, sp.CatchableAreaW*0.5)
}

// BallInertiaTravel is how far a ball moving at speed travels in n cycles.
func (sp *ServerParams) BallInertiaTravel(speed float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return speed * (1 - math.Pow(sp.BallDecay, float64(n))) / (1 - sp.BallDecay)
}

// FirstBallSpeed returns the initial speed that carries the ball dist
// metres in exactly n cycles.
func (sp *ServerParams) FirstBallSpeed(dist float64, n int) float64 {
	if n <= 0 {
		return math.Inf(1)
	}
	return dist * (1 - sp.BallDecay) / (1 - math.Pow(sp.BallDecay, float64(n)))
}

// BallMoveSteps returns the cycles the ball needs to travel dist when
// kicked at firstSpeed, or Unreachable when it stops short.
func (sp *ServerParams) BallMoveSteps(firstSpeed, dist float64) int {
	if dist <= 0 {
		return 0
	}
	if firstSpeed <= 0 {
		return Unreachable
	}
	rate := 1 - dist*(1-sp.BallDecay)/firstSpeed
	if rate <= 0 {
		return Unreachable
	}
	return int(math.Ceil(math.Log(rate) / math.Log(sp.BallDecay)))
}
