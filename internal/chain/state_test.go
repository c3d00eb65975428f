package chain

import (
	"testing"

	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/predict"
	"github.com/Garsondee/Striker-Sense/internal/rcss"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// newWorld returns an empty model with self as our number 7.
func newWorld() *world.Model {
	sp := rcss.DefaultServerParams()
	m := world.NewModel(rcss.NewPlayerTypes(&sp))
	m.Self = 7
	return m
}

func mate(unum int, x, y float64) world.PlayerObject {
	return world.PlayerObject{Side: world.SideOurs, Unum: unum, Pos: geom.V(x, y)}
}

func opp(unum int, x, y float64) world.PlayerObject {
	return world.PlayerObject{Side: world.SideTheirs, Unum: unum, Pos: geom.V(x, y)}
}

// withBallAt gives self the ball half a metre in front of pos.
func withBallAt(m *world.Model, x, y float64) *world.Model {
	m.Teammates = append(m.Teammates, mate(m.Self, x, y))
	m.Ball = world.BallObject{Pos: geom.V(x+0.5, y)}
	m.UpdateLines()
	return m
}

func newPredictor(m *world.Model) *predict.Predictor {
	return predict.NewPredictor(m.Params, predict.DefaultConfig())
}

func TestNewRootState_FromModel(t *testing.T) {
	m := withBallAt(newWorld(), 0, 0)
	m.Teammates = append(m.Teammates, mate(9, 15, 0))
	m.Opponents = []world.PlayerObject{opp(1, 50, 0), opp(4, 30, 3)}
	m.UpdateLines()

	st := NewRootState(m)
	if st.Holder() != m.SelfID() {
		t.Fatalf("holder = %v, want self", st.Holder())
	}
	if !st.OurBall() {
		t.Fatal("OurBall should be true")
	}
	if len(st.Teammates()) != 2 || len(st.Opponents()) != 2 {
		t.Fatalf("teammates=%d opponents=%d", len(st.Teammates()), len(st.Opponents()))
	}
	if st.OffsideLineX() != 30 {
		t.Fatalf("offside line = %v, want 30", st.OffsideLineX())
	}
	if _, ok := st.Player(world.PlayerID{Side: world.SideTheirs, Unum: 4}); !ok {
		t.Fatal("T4 not found")
	}
	if _, ok := st.Teammate(4); ok {
		t.Fatal("O4 does not exist")
	}
}

func TestStateNext_CopyOnWrite(t *testing.T) {
	m := withBallAt(newWorld(), 0, 0)
	m.Teammates = append(m.Teammates, mate(9, 15, 0))
	m.Opponents = []world.PlayerObject{opp(3, 20, 5)}
	root := NewRootState(m)

	// nothing moves: the player slice is shared
	held := root.Next(1, root.Ball(), root.Holder())
	if &held.players[0] != &root.players[0] {
		t.Fatal("unchanged players should share the parent slice")
	}
	if held.Spent() != 1 {
		t.Fatalf("spent = %d, want 1", held.Spent())
	}

	recv := world.PlayerID{Side: world.SideOurs, Unum: 9}
	passed := root.Next(6, world.BallObject{Pos: geom.V(18, 0)}, recv, Move{ID: recv, Pos: geom.V(18, 0)})
	if &passed.players[0] == &root.players[0] {
		t.Fatal("moving a player must clone the slice")
	}
	p, _ := root.Teammate(9)
	if !p.Pos.Equals(geom.V(15, 0)) {
		t.Fatalf("parent mutated: O9 at %+v", p.Pos)
	}
	q, _ := passed.Teammate(9)
	if !q.Pos.Equals(geom.V(18, 0)) {
		t.Fatalf("child O9 at %+v, want (18,0)", q.Pos)
	}
	if passed.Holder() != recv || passed.Spent() != 6 {
		t.Fatalf("holder=%v spent=%d", passed.Holder(), passed.Spent())
	}
	if root.Holder() != m.SelfID() {
		t.Fatal("parent holder changed")
	}
}

func TestStateNext_InertiaAdvancesOthers(t *testing.T) {
	m := withBallAt(newWorld(), 0, 0)
	runner := opp(5, 10, 0)
	runner.Vel = geom.V(0.5, 0)
	m.Opponents = []world.PlayerObject{runner}
	root := NewRootState(m)

	next := root.Next(3, root.Ball(), root.Holder())
	o, _ := next.Player(runner.ID())
	if o.Pos.X <= 10 {
		t.Fatalf("moving opponent should coast forward, x = %v", o.Pos.X)
	}
	if o.Vel.Len() >= 0.5 {
		t.Fatalf("velocity should decay, got %v", o.Vel.Len())
	}
	if r, _ := root.Player(runner.ID()); r.Pos.X != 10 {
		t.Fatal("parent opponent moved")
	}
}

func TestPath_ExtendDoesNotAlias(t *testing.T) {
	m := withBallAt(newWorld(), 0, 0)
	root := NewRootState(m)
	a := Pair{Action: Action{Kind: KindHold}, State: root}
	b := Pair{Action: Action{Kind: KindPass}, State: root}
	c := Pair{Action: Action{Kind: KindShoot}, State: root}

	base := Path{}.Extend(a)
	left := base.Extend(b)
	right := base.Extend(c)
	if left[1].Action.Kind != KindPass || right[1].Action.Kind != KindShoot {
		t.Fatalf("siblings share storage: %v / %v", left[1].Action.Kind, right[1].Action.Kind)
	}
	if len(base) != 1 {
		t.Fatalf("base grew to %d", len(base))
	}
	if got, _ := left.First(); got.Kind != KindHold {
		t.Fatalf("first = %v", got.Kind)
	}
}

func TestLengthFilters(t *testing.T) {
	m := withBallAt(newWorld(), 0, 0)
	root := NewRootState(m)
	one := GeneratorFunc(func(st State, _ *world.Model, _ Path) []Pair {
		return []Pair{{Action: Action{Kind: KindHold}, State: st}}
	})
	long := Path{{State: root}, {State: root}}

	cases := []struct {
		name string
		g    Generator
		path Path
		want int
	}{
		{"max0 at root", MaxLength(0, one), nil, 1},
		{"max0 deeper", MaxLength(0, one), long[:1], 0},
		{"min2 short", MinLength(2, one), long[:1], 0},
		{"min2 long", MinLength(2, one), long, 1},
		{"range 1-1", RangeLength(1, 1, one), long[:1], 1},
		{"range 1-1 long", RangeLength(1, 1, one), long, 0},
	}
	for _, tc := range cases {
		if got := len(tc.g.Generate(root, m, tc.path)); got != tc.want {
			t.Errorf("%s: got %d pairs, want %d", tc.name, got, tc.want)
		}
	}
}
