package chain

import (
	"math"

	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// HoldConfig grades holding by the nearest opponent distance.
type HoldConfig struct {
	DangerDist float64 `mapstructure:"dangerDist"`
	MaybeDist  float64 `mapstructure:"maybeDist"`
}

// DefaultHoldConfig returns the tuned defaults.
func DefaultHoldConfig() HoldConfig { return HoldConfig{DangerDist: 2.5, MaybeDist: 5.0} }

// HoldGenerator proposes keeping the ball for one cycle.
type HoldGenerator struct {
	cfg HoldConfig
}

// NewHoldGenerator builds a hold generator.
func NewHoldGenerator(cfg HoldConfig) *HoldGenerator { return &HoldGenerator{cfg: cfg} }

// Generate implements Generator.
func (g *HoldGenerator) Generate(st State, _ *world.Model, _ Path) []Pair {
	if !st.OurBall() {
		return nil
	}
	actor, ok := st.Player(st.Holder())
	if !ok {
		return nil
	}
	nearest := math.Inf(1)
	opps := st.Opponents()
	for i := range opps {
		if opps[i].PosValid() {
			nearest = math.Min(nearest, opps[i].Pos.Dist(actor.Pos))
		}
	}
	safety := Safe
	switch {
	case nearest < g.cfg.DangerDist:
		safety = Dangerous
	case nearest < g.cfg.MaybeDist:
		safety = MaybeDangerous
	}
	act := Action{
		Kind:          KindHold,
		Actor:         actor.Unum,
		TargetPoint:   st.Ball().Pos,
		DurationSteps: 1,
		Safety:        safety,
	}
	ball := world.BallObject{Pos: st.Ball().Pos, Vel: geom.Vec2{}}
	next := st.Next(1, ball, st.Holder())
	return []Pair{{Action: act, State: next}}
}
