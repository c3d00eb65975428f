package predict

import (
	"math"

	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/rcss"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// Course is the outcome of simulating opponents against one kicked ball,
// a shot or a cross.
type Course struct {
	Target geom.Vec2
	Speed  float64
	Steps  int // cycles until the ball reaches Target

	Open       bool
	Blocker    world.PlayerID
	BlockCycle int

	// NearestOpp is the closest opponent distance to the ball line.
	NearestOpp float64
}

// GoalMouthTargets returns count points spread across the opponent goal
// mouth, kept margin metres inside each post, centre first then
// alternating outward.
func GoalMouthTargets(sp *rcss.ServerParams, count int, margin float64) []geom.Vec2 {
	if count <= 0 {
		return nil
	}
	half := sp.GoalHalfWidth - margin
	if half < 0 {
		half = 0
	}
	out := make([]geom.Vec2, 0, count)
	out = append(out, geom.V(sp.PitchHalfLength, 0))
	if count == 1 {
		return out
	}
	pairs := count / 2
	for i := 1; len(out) < count; i++ {
		y := half * float64(i) / float64(pairs)
		out = append(out, geom.V(sp.PitchHalfLength, y))
		if len(out) < count {
			out = append(out, geom.V(sp.PitchHalfLength, -y))
		}
	}
	return out
}

// Course simulates a ball kicked from `from` toward target at speed and
// checks, cycle by cycle, whether any opponent can reach it before it
// arrives. Goalies inside their penalty area use the catchable area.
func (pr *Predictor) Course(from, target geom.Vec2, speed float64, opps []world.PlayerObject, types *rcss.PlayerTypes) Course {
	dist := from.Dist(target)
	course := Course{
		Target:     target,
		Speed:      speed,
		Steps:      pr.sp.BallMoveSteps(speed, dist),
		NearestOpp: math.Inf(1),
	}
	if course.Steps >= Unreachable {
		return course
	}

	ball := world.BallObject{Pos: from, Vel: target.Sub(from).WithLen(speed)}
	traj := &courseTarget{steps: ball.Trajectory(pr.sp, course.Steps)}
	line := geom.Segment{A: from, B: target}

	course.Open = true
	course.BlockCycle = Unreachable
	for i := range opps {
		o := &opps[i]
		if !o.PosValid() {
			continue
		}
		if d := line.DistTo(o.Pos); d < course.NearestOpp {
			course.NearestOpp = d
		}
		pt := types.Get(o.TypeID)
		opts := ReachOptions{Tolerance: pt.KickableArea()}
		if o.Goalie && pr.sp.TheirPenaltyArea().Contains(o.Pos) {
			opts.Tolerance = pt.CatchableArea()
		}
		c := pr.ReachCycle(o, pt, false, traj, opts)
		if c <= course.Steps && c < course.BlockCycle {
			course.Open = false
			course.Blocker = o.ID()
			course.BlockCycle = c
		}
	}
	return course
}

// courseTarget is a kicked ball that stays playable until it arrives.
type courseTarget struct {
	steps []world.BallStep
}

func (s *courseTarget) At(c int) (geom.Vec2, bool) {
	if c < 0 || c >= len(s.steps) {
		return geom.Vec2{}, false
	}
	return s.steps[c].Pos, true
}
