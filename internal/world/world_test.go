package world

import (
	"math"
	"testing"

	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/rcss"
)

func newModel() *Model {
	sp := rcss.DefaultServerParams()
	return NewModel(rcss.NewPlayerTypes(&sp))
}

func TestTrajectory_DecayRoundTrip(t *testing.T) {
	m := newModel()
	m.Ball = BallObject{Pos: geom.V(0, 0), Vel: geom.V(2, 0.5)}
	traj := m.Ball.Trajectory(m.Params, 40)
	if len(traj) != 41 {
		t.Fatalf("len = %d, want 41", len(traj))
	}
	for c := 0; c+1 < len(traj); c++ {
		// re-derive velocity from consecutive positions
		derived := traj[c+1].Pos.Sub(traj[c].Pos)
		if derived.Dist(traj[c].Vel) > 1e-9 {
			t.Fatalf("c=%d: pos delta %+v != vel %+v", c, derived, traj[c].Vel)
		}
		want := traj[c].Vel.Scale(m.Params.BallDecay)
		if traj[c+1].Vel.Dist(want) > 1e-9 {
			t.Fatalf("c=%d: vel %+v, want %+v", c, traj[c+1].Vel, want)
		}
		if p := m.Ball.InertiaPoint(m.Params, c); p.Dist(traj[c].Pos) > 1e-9 {
			t.Fatalf("c=%d: closed form %+v vs iterated %+v", c, p, traj[c].Pos)
		}
	}
}

func TestTrajectory_ConcreteValues(t *testing.T) {
	m := newModel()
	m.Ball = BallObject{Vel: geom.V(2, 0)}
	want := []float64{0, 2, 3.88, 5.6472}
	traj := m.Ball.Trajectory(m.Params, 3)
	for i, x := range want {
		if math.Abs(traj[i].Pos.X-x) > 1e-9 {
			t.Fatalf("c=%d: x = %v, want %v", i, traj[i].Pos.X, x)
		}
	}
}

func TestUpdateLines(t *testing.T) {
	m := newModel()
	m.Ball.Pos = geom.V(5, 0)
	m.Opponents = []PlayerObject{
		{Side: SideTheirs, Unum: 1, Goalie: true, Pos: geom.V(50, 0)},
		{Side: SideTheirs, Unum: 2, Pos: geom.V(30, 5)},
		{Side: SideTheirs, Unum: 3, Pos: geom.V(20, -5)},
		{Side: SideTheirs, Unum: 4, Pos: geom.V(45, 0), PosCount: 99},
	}
	m.Teammates = []PlayerObject{
		{Side: SideOurs, Unum: 1, Goalie: true, Pos: geom.V(-50, 0)},
		{Side: SideOurs, Unum: 2, Pos: geom.V(-30, 0)},
		{Side: SideOurs, Unum: 9, Pos: geom.V(10, 0)},
	}
	m.UpdateLines()
	if m.TheirDefenseLineX != 30 {
		t.Fatalf("their defense line = %v, want 30 (stale opponent ignored)", m.TheirDefenseLineX)
	}
	if m.OffsideLineX != 30 {
		t.Fatalf("offside line = %v, want 30", m.OffsideLineX)
	}
	if m.OurDefenseLineX != -30 {
		t.Fatalf("our defense line = %v, want -30", m.OurDefenseLineX)
	}

	m.Ball.Pos = geom.V(40, 0)
	m.UpdateLines()
	if m.OffsideLineX != 40 {
		t.Fatalf("ball ahead of the line must set offside, got %v", m.OffsideLineX)
	}
}

func TestBallHolder(t *testing.T) {
	m := newModel()
	m.Self = 7
	m.Ball.Pos = geom.V(0, 0)
	m.Teammates = []PlayerObject{{Side: SideOurs, Unum: 7, Pos: geom.V(0.8, 0)}}
	m.Opponents = []PlayerObject{{Side: SideTheirs, Unum: 5, Pos: geom.V(-0.5, 0)}}
	if h := m.BallHolder(); h != (PlayerID{SideTheirs, 5}) {
		t.Fatalf("holder = %v, want T5", h)
	}
	m.Opponents[0].GhostCount = 1
	if h := m.BallHolder(); h != m.SelfID() {
		t.Fatalf("holder = %v, want self", h)
	}
	if m.Player(PlayerID{SideOurs, 0}) != nil {
		t.Fatal("unidentified ids must not resolve")
	}
}

func TestTheirDefenseLine_TooFewOpponents(t *testing.T) {
	m := newModel()
	m.Opponents = []PlayerObject{{Side: SideTheirs, Unum: 1, Goalie: true, Pos: geom.V(50, 0)}}
	m.UpdateLines()
	if m.OffsideLineX != m.Params.PitchHalfLength {
		t.Fatalf("offside line with one opponent = %v, want goal line", m.OffsideLineX)
	}
}
