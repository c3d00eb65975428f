package chain

import (
	"math"
	"testing"

	"github.com/Garsondee/Striker-Sense/internal/world"
)

func TestShootGenerator_EmptyGoal(t *testing.T) {
	m := withBallAt(newWorld(), 40, 0)
	g := NewShootGenerator(newPredictor(m), DefaultShootConfig())
	pairs := g.Generate(NewRootState(m), m, nil)
	if len(pairs) != 1 {
		t.Fatalf("got %d shots, want 1", len(pairs))
	}
	a := pairs[0].Action
	if a.Kind != KindShoot || a.Actor != 7 {
		t.Fatalf("action = %v", a)
	}
	st := pairs[0].State
	if !st.Params().InTheirGoal(st.Ball().Pos) {
		t.Fatalf("shot should end in the goal, ball at %+v", st.Ball().Pos)
	}
	if st.Holder() != world.NoPlayer {
		t.Fatalf("holder after a shot = %v", st.Holder())
	}
}

func TestShootGenerator_TooFar(t *testing.T) {
	m := withBallAt(newWorld(), 0, 0)
	g := NewShootGenerator(newPredictor(m), DefaultShootConfig())
	if pairs := g.Generate(NewRootState(m), m, nil); len(pairs) != 0 {
		t.Fatalf("shot from halfway: %v", pairs[0].Action)
	}
}

func TestPassGenerator_ReachesFreeTeammate(t *testing.T) {
	m := withBallAt(newWorld(), 0, 0)
	m.Teammates = append(m.Teammates, mate(9, 15, 0))
	m.UpdateLines()
	pr := newPredictor(m)
	g := NewPassGenerator(pr, NewPassChecker(pr, DefaultPassCheckConfig()), DefaultPassConfig())

	pairs := g.Generate(NewRootState(m), m, nil)
	if len(pairs) == 0 {
		t.Fatal("no pass to a free teammate")
	}
	direct := false
	for _, p := range pairs {
		a := p.Action
		if a.Kind != KindPass || a.Target != 9 {
			t.Fatalf("unexpected action %v", a)
		}
		if a.FirstBallVel.Len() > p.State.Params().BallSpeedMax+1e-9 {
			t.Fatalf("ball speed %v above the cap", a.FirstBallVel.Len())
		}
		if p.State.Holder() != (world.PlayerID{Side: world.SideOurs, Unum: 9}) {
			t.Fatalf("holder = %v, want O9", p.State.Holder())
		}
		if !p.State.Ball().Pos.Equals(a.TargetPoint) {
			t.Fatalf("ball at %+v, want %+v", p.State.Ball().Pos, a.TargetPoint)
		}
		recv, _ := p.State.Teammate(9)
		if !recv.Pos.Equals(a.TargetPoint) {
			t.Fatalf("receiver left at %+v", recv.Pos)
		}
		if a.TargetPoint.X == 15 && a.TargetPoint.Y == 0 {
			direct = true
		}
	}
	if !direct {
		t.Fatal("direct pass missing")
	}
}

func TestPassGenerator_NotOurBall(t *testing.T) {
	m := newWorld()
	m.Teammates = []world.PlayerObject{mate(7, 0, 0), mate(9, 15, 0)}
	m.Opponents = []world.PlayerObject{opp(4, 0.5, 0.3)}
	m.Ball = world.BallObject{}
	m.Ball.Pos.X = 0.6
	m.UpdateLines()
	pr := newPredictor(m)
	g := NewPassGenerator(pr, NewPassChecker(pr, DefaultPassCheckConfig()), DefaultPassConfig())
	if pairs := g.Generate(NewRootState(m), m, nil); len(pairs) != 0 {
		t.Fatalf("passes generated while the opponent holds the ball: %d", len(pairs))
	}
}

func TestHoldGenerator_GradesPressure(t *testing.T) {
	cases := []struct {
		name string
		oppX float64
		want Safety
	}{
		{"tight", 2, Dangerous},
		{"near", 4, MaybeDangerous},
		{"free", 20, Safe},
	}
	for _, tc := range cases {
		m := withBallAt(newWorld(), 0, 0)
		m.Opponents = []world.PlayerObject{opp(5, tc.oppX, 0)}
		pairs := NewHoldGenerator(DefaultHoldConfig()).Generate(NewRootState(m), m, nil)
		if len(pairs) != 1 {
			t.Fatalf("%s: %d pairs", tc.name, len(pairs))
		}
		if got := pairs[0].Action.Safety; got != tc.want {
			t.Errorf("%s: safety = %v, want %v", tc.name, got, tc.want)
		}
		if pairs[0].State.Holder() != m.SelfID() {
			t.Errorf("%s: hold lost the ball", tc.name)
		}
	}
}

func TestDribbleGenerator_StaysInPitchAndAvoidsOpponents(t *testing.T) {
	m := withBallAt(newWorld(), 0, 0)
	pr := newPredictor(m)
	g := NewDribbleGenerator(pr, DefaultDribbleConfig())

	free := g.Generate(NewRootState(m), m, nil)
	if len(free) == 0 {
		t.Fatal("no dribble on an empty pitch")
	}
	sp := m.Params
	for _, p := range free {
		a := p.Action
		if a.Kind != KindDribble || a.Safety != Safe {
			t.Fatalf("unexpected dribble %v", a)
		}
		if !sp.InPitch(a.TargetPoint, 0) {
			t.Fatalf("dribble leaves the pitch: %+v", a.TargetPoint)
		}
		if a.DurationSteps != a.TurnCount+1+a.DashCount {
			t.Fatalf("duration %d != turn %d + kick + dash %d", a.DurationSteps, a.TurnCount, a.DashCount)
		}
		if p.State.Holder() != m.SelfID() {
			t.Fatalf("dribbler lost the ball: %v", p.State.Holder())
		}
	}

	// an opponent standing on the forward lane removes the forward dribbles
	m.Opponents = []world.PlayerObject{opp(4, 3, 0)}
	pressed := g.Generate(NewRootState(m), m, nil)
	for _, p := range pressed {
		if dir := p.Action.TargetPoint.Dir(); math.Abs(dir) < 1 && p.Action.DashCount >= 2 {
			t.Fatalf("forward dribble into an opponent survived: %v", p.Action)
		}
	}
	if len(pressed) >= len(free) {
		t.Fatalf("opponent pressure should prune dribbles: %d vs %d", len(pressed), len(free))
	}
}

func TestClearGenerator_FastestTeammateTakesIt(t *testing.T) {
	m := withBallAt(newWorld(), -40, 0)
	m.Teammates = append(m.Teammates, mate(9, -10, 0))
	m.UpdateLines()
	g := NewClearGenerator(newPredictor(m), DefaultClearConfig())
	pairs := g.Generate(NewRootState(m), m, nil)
	if len(pairs) != len(DefaultClearConfig().Directions) {
		t.Fatalf("got %d clears, want one per direction", len(pairs))
	}
	found := false
	for _, p := range pairs {
		if p.Action.Kind != KindClear {
			t.Fatalf("kind = %v", p.Action.Kind)
		}
		if math.Abs(p.Action.FirstBallVel.Y) > 1e-9 {
			continue
		}
		found = true
		if want := (world.PlayerID{Side: world.SideOurs, Unum: 9}); p.State.Holder() != want {
			t.Fatalf("straight clear holder = %v, want %v", p.State.Holder(), want)
		}
	}
	if !found {
		t.Fatal("straight clear missing")
	}
}

func TestClearGenerator_OnlyInOwnHalf(t *testing.T) {
	m := withBallAt(newWorld(), 10, 0)
	g := NewClearGenerator(newPredictor(m), DefaultClearConfig())
	if pairs := g.Generate(NewRootState(m), m, nil); len(pairs) != 0 {
		t.Fatalf("clear generated at x=10: %d", len(pairs))
	}
}

func TestCrossGenerator_FindsRunnerInTheBox(t *testing.T) {
	m := withBallAt(newWorld(), 30, 25)
	m.Teammates = append(m.Teammates, mate(9, 44, 3))
	m.UpdateLines()
	g := NewCrossGenerator(newPredictor(m), DefaultCrossConfig())
	pairs := g.Generate(NewRootState(m), m, nil)
	if len(pairs) != 1 {
		t.Fatalf("got %d crosses, want 1", len(pairs))
	}
	a := pairs[0].Action
	if a.Kind != KindCross || a.Target != 9 || a.Safety != MaybeDangerous {
		t.Fatalf("cross = %v", a)
	}
}

func TestDefaultGenerators_Order(t *testing.T) {
	m := newWorld()
	pr := newPredictor(m)
	reg := DefaultGenerators(pr, NewPassChecker(pr, DefaultPassCheckConfig()), DefaultGeneratorsConfig())
	want := []string{"shoot", "pass", "cross", "dribble", "hold", "clear"}
	got := reg.Names()
	if len(got) != len(want) {
		t.Fatalf("names = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("names = %v, want %v", got, want)
		}
	}
}
