package chain

import (
	"fmt"
	"math"

	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/predict"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// DribbleConfig controls the dribble fan.
type DribbleConfig struct {
	Directions   []float64 `mapstructure:"directions"`   // absolute directions, degrees
	DashCounts   []int     `mapstructure:"dashCounts"`   // dashes after the kick
	DangerMargin int       `mapstructure:"dangerMargin"` // opponent arrives within this many cycles: Dangerous
	MaybeMargin  int       `mapstructure:"maybeMargin"`  // within this many: MaybeDangerous
}

// DefaultDribbleConfig returns the tuned defaults.
func DefaultDribbleConfig() DribbleConfig {
	return DribbleConfig{
		Directions:   []float64{-90, -60, -30, 0, 30, 60, 90},
		DashCounts:   []int{2, 4, 6},
		DangerMargin: 2,
		MaybeMargin:  4,
	}
}

// DribbleGenerator proposes kick-and-chase dribbles: turn, kick the ball
// ahead, then dash to meet it.
type DribbleGenerator struct {
	pr  *predict.Predictor
	cfg DribbleConfig
}

// NewDribbleGenerator builds a dribble generator.
func NewDribbleGenerator(pr *predict.Predictor, cfg DribbleConfig) *DribbleGenerator {
	return &DribbleGenerator{pr: pr, cfg: cfg}
}

// Generate implements Generator.
func (g *DribbleGenerator) Generate(st State, _ *world.Model, _ Path) []Pair {
	if !st.OurBall() {
		return nil
	}
	actor, ok := st.Player(st.Holder())
	if !ok || !actor.PosValid() {
		return nil
	}
	pt := st.TypeOf(&actor)
	sp := st.Params()
	table := pt.DashDistanceTable()
	ballPos := st.Ball().Pos

	var out []Pair
	for _, dir := range g.cfg.Directions {
		for _, n := range g.cfg.DashCounts {
			if n <= 0 || n > len(table) {
				continue
			}
			dist := table[n-1]
			target := actor.Pos.Add(geom.Polar(dist, dir))
			if !sp.InPitch(target, -1.0) {
				continue
			}
			turn, _ := predict.TurnCycles(pt, actor.Vel.Len(), geom.AngleDiff(dir, actor.Body), dist, 0.5, false)
			if turn >= predict.Unreachable {
				continue
			}
			speed := sp.FirstBallSpeed(ballPos.Dist(target), n)
			if speed > sp.BallSpeedMax {
				continue
			}
			duration := turn + 1 + n
			safety, ok := g.grade(st, target, duration)
			if !ok {
				continue
			}
			vel := target.Sub(ballPos).WithLen(speed)
			act := Action{
				Kind:          KindDribble,
				Actor:         actor.Unum,
				TargetPoint:   target,
				FirstBallVel:  vel,
				KickCount:     1,
				TurnCount:     turn,
				DashCount:     n,
				DurationSteps: duration,
				Safety:        safety,
				Description:   fmt.Sprintf("dir %.0f x%d", dir, n),
			}
			ball := world.BallObject{Pos: target, Vel: world.BallObject{Vel: vel}.VelAt(sp, n)}
			next := st.Next(duration, ball, actor.ID(), Move{ID: actor.ID(), Pos: target, Body: dir})
			out = append(out, Pair{Action: act, State: next})
		}
	}
	return out
}

// grade compares the fastest opponent's arrival at target with the
// dribble's duration. ok is false when an opponent gets there first.
func (g *DribbleGenerator) grade(st State, target geom.Vec2, duration int) (Safety, bool) {
	fastest := math.MaxInt
	opps := st.Opponents()
	for i := range opps {
		o := &opps[i]
		if !o.PosValid() {
			continue
		}
		c := g.pr.ReachCycle(o, st.TypeOf(o), false, predict.PointTarget(target), predict.ReachOptions{})
		fastest = min(fastest, c)
	}
	margin := fastest - duration
	switch {
	case margin <= 0:
		return Dangerous, false
	case margin <= g.cfg.DangerMargin:
		return Dangerous, true
	case margin <= g.cfg.MaybeMargin:
		return MaybeDangerous, true
	}
	return Safe, true
}
