package tackle

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/rcss"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

func newSim(t *testing.T) (*Simulator, *rcss.PlayerType) {
	t.Helper()
	sp := rcss.DefaultServerParams()
	return NewSimulator(&sp, DefaultConfig(), zerolog.Nop()), rcss.MustDefaultPlayerType(&sp)
}

func TestPlan_DashOntoStillBall(t *testing.T) {
	s, pt := newSim(t)
	self := &world.PlayerObject{Side: world.SideOurs, Unum: 4}
	ball := world.BallObject{Pos: geom.V(3, 0)}

	if p := s.Current(self, ball); p != 0 {
		t.Fatalf("current probability at 3 m = %v, want 0", p)
	}
	sol := s.Plan(self, pt, ball)
	if !sol.OK() {
		t.Fatal("no plan for a still ball 3 m ahead")
	}
	if sol.TurnCycles != 0 || sol.DashCycles != 3 || sol.BallCycle != 3 {
		t.Fatalf("plan = %+v, want 0 turns, 3 dashes at cycle 3", sol)
	}
	if sol.Probability < 0.95 || sol.Probability > 1 {
		t.Fatalf("probability = %v", sol.Probability)
	}
	if sol.DashPower != 100 {
		t.Fatalf("dash power = %v, want 100", sol.DashPower)
	}
}

func TestPlan_TurnsForBallBehind(t *testing.T) {
	s, pt := newSim(t)
	self := &world.PlayerObject{Side: world.SideOurs, Unum: 4}
	sol := s.Plan(self, pt, world.BallObject{Pos: geom.V(-2, 0)})
	if !sol.OK() {
		t.Fatal("no plan for a ball behind")
	}
	if sol.TurnCycles != 1 {
		t.Fatalf("turns = %d, want 1", sol.TurnCycles)
	}
	if sol.TurnMoment > -179 && sol.TurnMoment < 179 {
		t.Fatalf("first turn moment = %v, want a full half turn", sol.TurnMoment)
	}
	if sol.Probability < 0.95 {
		t.Fatalf("probability = %v", sol.Probability)
	}
}

func TestPlan_BackTackleWithoutDashing(t *testing.T) {
	sp := rcss.DefaultServerParams()
	sp.TackleDist = 0.5
	sp.TackleBackDist = 2.0
	s := NewSimulator(&sp, DefaultConfig(), zerolog.Nop())
	pt := rcss.MustDefaultPlayerType(&sp)

	// Facing away leaves the ball 1.2 m behind, inside the longer back reach.
	self := &world.PlayerObject{Side: world.SideOurs, Unum: 4, Body: 90}
	sol := s.Plan(self, pt, world.BallObject{Pos: geom.V(1.2, 0)})
	if !sol.OK() {
		t.Fatal("no plan")
	}
	if sol.BallCycle != 1 || sol.TurnCycles != 1 || sol.DashCycles != 0 {
		t.Fatalf("plan = %+v, want one turn away and no dash at cycle 1", sol)
	}
	if sol.TurnMoment < 89 || sol.TurnMoment > 91 {
		t.Fatalf("turn moment = %v, want 90", sol.TurnMoment)
	}
	if sol.Probability < 0.95 {
		t.Fatalf("probability = %v", sol.Probability)
	}
}

func TestPlan_NothingBetterThanNow(t *testing.T) {
	s, pt := newSim(t)
	self := &world.PlayerObject{Side: world.SideOurs, Unum: 4}
	ball := world.BallObject{Pos: geom.V(0.3, 0)}
	sol := s.Plan(self, pt, ball)
	if sol.Probability < s.Current(self, ball) {
		t.Fatalf("plan %v worse than tackling now %v", sol.Probability, s.Current(self, ball))
	}
	if sol.Probability > 1 {
		t.Fatalf("probability above 1: %v", sol.Probability)
	}
}

func TestPlan_InvalidSelf(t *testing.T) {
	s, pt := newSim(t)
	self := &world.PlayerObject{Side: world.SideOurs, Unum: 4, PosCount: 99}
	if sol := s.Plan(self, pt, world.BallObject{Pos: geom.V(1, 0)}); sol.OK() {
		t.Fatalf("stale self produced a plan: %+v", sol)
	}
}

func TestPlanBlock_StepsIntoShot(t *testing.T) {
	s, pt := newSim(t)
	self := &world.PlayerObject{Side: world.SideOurs, Unum: 2, Pos: geom.V(35, 0.8), Body: 180}
	sol := s.PlanBlock(self, pt, geom.V(20, 0), geom.V(52.5, 0), 3.0)
	if !sol.OK() {
		t.Fatal("no block on a shot passing 0.8 m away")
	}
	if sol.Probability <= 0.9 {
		t.Fatalf("block probability = %v", sol.Probability)
	}
	sp := rcss.DefaultServerParams()
	if n := sp.BallMoveSteps(3.0, 32.5); sol.BallCycle > n {
		t.Fatalf("block at cycle %d, after the ball arrives at %d", sol.BallCycle, n)
	}
}

func TestPlan_ProbabilityBounds(t *testing.T) {
	s, pt := newSim(t)
	for x := -4.0; x <= 4; x += 1.3 {
		for y := -3.0; y <= 3; y += 1.1 {
			self := &world.PlayerObject{Side: world.SideOurs, Unum: 4, Body: x * 20}
			ball := world.BallObject{Pos: geom.V(x, y), Vel: geom.V(-0.5, 0.2)}
			sol := s.Plan(self, pt, ball)
			if sol.Probability < 0 || sol.Probability > 1 {
				t.Fatalf("ball (%v,%v): probability %v", x, y, sol.Probability)
			}
		}
	}
}
