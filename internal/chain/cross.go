package chain

import (
	"fmt"

	"github.com/Garsondee/Striker-Sense/internal/predict"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// CrossConfig controls the cross generator.
type CrossConfig struct {
	MinBallX float64   `mapstructure:"minBallX"` // crosses start only beyond this x
	MaxDist  float64   `mapstructure:"maxDist"`
	Speeds   []float64 `mapstructure:"speeds"` // tried fastest first
}

// DefaultCrossConfig returns the tuned defaults.
func DefaultCrossConfig() CrossConfig {
	return CrossConfig{MinBallX: 20, MaxDist: 40, Speeds: []float64{3.0, 2.7, 2.4}}
}

// CrossGenerator sends the ball into the opponent penalty area toward a
// teammate who can get there, as long as no opponent reaches the ball on
// its way.
type CrossGenerator struct {
	pr  *predict.Predictor
	cfg CrossConfig
}

// NewCrossGenerator builds a cross generator.
func NewCrossGenerator(pr *predict.Predictor, cfg CrossConfig) *CrossGenerator {
	return &CrossGenerator{pr: pr, cfg: cfg}
}

// Generate implements Generator.
func (g *CrossGenerator) Generate(st State, _ *world.Model, _ Path) []Pair {
	if !st.OurBall() {
		return nil
	}
	from := st.Ball().Pos
	if from.X < g.cfg.MinBallX {
		return nil
	}
	sp := st.Params()
	box := sp.TheirPenaltyArea()
	kicker := st.Holder().Unum

	var out []Pair
	mates := st.Teammates()
	for i := range mates {
		recv := &mates[i]
		if recv.Unum == kicker || recv.Unum == 0 || !recv.PosValid() || !box.Contains(recv.Pos) {
			continue
		}
		if from.Dist(recv.Pos) > g.cfg.MaxDist {
			continue
		}
		pt := st.TypeOf(recv)
		for _, speed := range g.cfg.Speeds {
			if speed > sp.BallSpeedMax {
				continue
			}
			course := g.pr.Course(from, recv.Pos, speed, st.Opponents(), st.Types())
			if !course.Open || course.Steps >= predict.Unreachable {
				continue
			}
			recvSteps := g.pr.StepsTo(recv, pt, recv.Pos, 0)
			if recvSteps > course.Steps {
				continue
			}
			vel := recv.Pos.Sub(from).WithLen(speed)
			act := Action{
				Kind:          KindCross,
				Actor:         kicker,
				Target:        recv.Unum,
				TargetPoint:   recv.Pos,
				FirstBallVel:  vel,
				KickCount:     1,
				DurationSteps: course.Steps,
				Safety:        MaybeDangerous,
				Description:   fmt.Sprintf("cross %.1fm/s", speed),
			}
			ball := world.BallObject{Pos: recv.Pos, Vel: world.BallObject{Vel: vel}.VelAt(sp, course.Steps)}
			next := st.Next(course.Steps, ball, recv.ID(), Move{ID: recv.ID(), Pos: recv.Pos, Body: recv.Body})
			out = append(out, Pair{Action: act, State: next})
			break
		}
	}
	return out
}
