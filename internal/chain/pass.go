package chain

import (
	"fmt"

	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/predict"
	"github.com/Garsondee/Striker-Sense/internal/rcss"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// PassConfig controls which receive points the pass generator tries.
type PassConfig struct {
	LeadDists  []float64 `mapstructure:"leadDists"`  // metres ahead of the receiver; 0 is a direct pass
	LeadAngles []float64 `mapstructure:"leadAngles"` // absolute directions of leading passes
	MaxSteps   int       `mapstructure:"maxSteps"`   // longest ball travel considered
}

// DefaultPassConfig returns the tuned defaults.
func DefaultPassConfig() PassConfig {
	return PassConfig{
		LeadDists:  []float64{0, 3, 6},
		LeadAngles: []float64{-45, 0, 45},
		MaxSteps:   25,
	}
}

// PassGenerator proposes direct and leading passes to every teammate the
// PassChecker clears.
type PassGenerator struct {
	pr      *predict.Predictor
	checker *PassChecker
	cfg     PassConfig
}

// NewPassGenerator builds a pass generator.
func NewPassGenerator(pr *predict.Predictor, checker *PassChecker, cfg PassConfig) *PassGenerator {
	return &PassGenerator{pr: pr, checker: checker, cfg: cfg}
}

// Generate implements Generator.
func (g *PassGenerator) Generate(st State, _ *world.Model, _ Path) []Pair {
	if !st.OurBall() {
		return nil
	}
	passer := st.Holder().Unum
	from := st.Ball().Pos
	sp := st.Params()

	var out []Pair
	mates := st.Teammates()
	for i := range mates {
		recv := &mates[i]
		if recv.Unum == passer || recv.Unum == 0 || !recv.PosValid() {
			continue
		}
		pt := st.TypeOf(recv)
		for _, point := range g.receivePoints(recv.Pos) {
			recvSteps := g.pr.StepsTo(recv, pt, point, 0)
			if recvSteps >= predict.Unreachable {
				continue
			}
			steps, speed, ok := chooseBallSpeed(sp, from.Dist(point), recvSteps, g.cfg.MaxSteps)
			if !ok {
				continue
			}
			if g.checker.Check(st, passer, recv.Unum, point, speed, steps) <= 0 {
				continue
			}
			out = append(out, passPair(st, sp, passer, recv, point, speed, steps, recvSteps))
		}
	}
	return out
}

func (g *PassGenerator) receivePoints(recv geom.Vec2) []geom.Vec2 {
	pts := make([]geom.Vec2, 0, 1+len(g.cfg.LeadDists)*len(g.cfg.LeadAngles))
	for _, d := range g.cfg.LeadDists {
		if d <= 0 {
			pts = append(pts, recv)
			continue
		}
		for _, a := range g.cfg.LeadAngles {
			pts = append(pts, recv.Add(geom.Polar(d, a)))
		}
	}
	return pts
}

// chooseBallSpeed picks the slowest ball travel of at least minSteps
// cycles whose first speed stays under the server's ball speed cap.
func chooseBallSpeed(sp *rcss.ServerParams, dist float64, minSteps, maxSteps int) (int, float64, bool) {
	if minSteps < 1 {
		minSteps = 1
	}
	for n := minSteps; n <= maxSteps; n++ {
		speed := sp.FirstBallSpeed(dist, n)
		if speed <= sp.BallSpeedMax {
			return n, speed, true
		}
	}
	return 0, 0, false
}

func passPair(st State, sp *rcss.ServerParams, passer int, recv *world.PlayerObject, point geom.Vec2, speed float64, steps, recvSteps int) Pair {
	from := st.Ball().Pos
	vel := point.Sub(from).WithLen(speed)
	kind := "direct"
	if !point.Equals(recv.Pos) {
		kind = "lead"
	}
	act := Action{
		Kind:          KindPass,
		Actor:         passer,
		Target:        recv.Unum,
		TargetPoint:   point,
		FirstBallVel:  vel,
		KickCount:     1,
		DashCount:     recvSteps,
		DurationSteps: steps,
		Safety:        Safe,
		Description:   fmt.Sprintf("%s %.1fm/s", kind, speed),
	}
	ball := world.BallObject{Pos: point, Vel: world.BallObject{Vel: vel}.VelAt(sp, steps)}
	next := st.Next(steps, ball, recv.ID(), Move{ID: recv.ID(), Pos: point, Body: recv.Body})
	return Pair{Action: act, State: next}
}
