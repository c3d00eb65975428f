package chain

import (
	"testing"

	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

func TestPassCheck_SelfPassRejected(t *testing.T) {
	m := withBallAt(newWorld(), 0, 0)
	chk := NewPassChecker(newPredictor(m), DefaultPassCheckConfig())
	st := NewRootState(m)
	if got := chk.Check(st, 7, 7, geom.V(10, 0), 2.5, 5); got != 0 {
		t.Fatalf("self pass scored %v, want 0", got)
	}
	if r := chk.Reason(st, 7, 7, geom.V(10, 0), 2.5, 5); r != PassSelf {
		t.Fatalf("reason = %v, want %v", r, PassSelf)
	}
}

func TestPassCheck_Distance(t *testing.T) {
	m := withBallAt(newWorld(), 0, 0)
	m.Teammates = append(m.Teammates, mate(9, 20.5, 0), mate(10, 36.5, 0))
	m.UpdateLines()
	pr := newPredictor(m)
	chk := NewPassChecker(pr, DefaultPassCheckConfig())
	st := NewRootState(m)
	sp := st.Params()

	near := geom.V(20.5, 0)
	steps := sp.BallMoveSteps(2.5, st.Ball().Pos.Dist(near))
	if r := chk.Reason(st, 7, 9, near, 2.5, steps); r != PassOK {
		t.Fatalf("20 m pass rejected: %v", r)
	}
	if chk.Check(st, 7, 9, near, 2.5, steps) != 1 {
		t.Fatal("20 m pass should score 1")
	}

	far := geom.V(36.5, 0)
	if r := chk.Reason(st, 7, 10, far, 3.0, 20); r != PassTooLong {
		t.Fatalf("36 m pass: reason = %v, want %v", r, PassTooLong)
	}
}

func TestPassCheck_Rules(t *testing.T) {
	m := withBallAt(newWorld(), 0, 0)
	m.Teammates = append(m.Teammates, mate(9, 28, 0), mate(5, 2, 2), mate(11, 5, 30))
	m.Opponents = []world.PlayerObject{opp(2, 30, 30), opp(6, 25, -30)}
	m.UpdateLines()
	chk := NewPassChecker(newPredictor(m), DefaultPassCheckConfig())
	st := NewRootState(m)

	cases := []struct {
		name     string
		receiver int
		point    geom.Vec2
		speed    float64
		want     PassRejection
	}{
		{"too slow", 11, geom.V(5, 30), 0.5, PassTooSlow},
		{"too short", 5, geom.V(2, 2), 2.0, PassTooShort},
		{"unknown receiver", 8, geom.V(10, 0), 2.5, PassUnknownPlayer},
		{"offside", 9, geom.V(28, 0), 2.5, PassOffside},
		{"out of pitch", 11, geom.V(5, 33.5), 2.5, PassOutOfPitch},
	}
	for _, tc := range cases {
		if got := chk.Reason(st, 7, tc.receiver, tc.point, tc.speed, 10); got != tc.want {
			t.Errorf("%s: reason = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestPassCheck_OwnPenaltyArea(t *testing.T) {
	m := withBallAt(newWorld(), -30, 0)
	m.Teammates = append(m.Teammates, mate(2, -45, 0))
	m.UpdateLines()
	chk := NewPassChecker(newPredictor(m), DefaultPassCheckConfig())
	if r := chk.Reason(NewRootState(m), 7, 2, geom.V(-45, 0), 2.5, 8); r != PassOwnPenaltyArea {
		t.Fatalf("reason = %v, want %v", r, PassOwnPenaltyArea)
	}
}

func TestPassCheck_OpponentInTheWay(t *testing.T) {
	m := withBallAt(newWorld(), 0, 0)
	m.Teammates = append(m.Teammates, mate(9, 20.5, 0))
	m.Opponents = []world.PlayerObject{opp(3, 10, 0.3)}
	m.UpdateLines()
	chk := NewPassChecker(newPredictor(m), DefaultPassCheckConfig())
	st := NewRootState(m)
	steps := st.Params().BallMoveSteps(2.5, 20)
	r := chk.Reason(st, 7, 9, geom.V(20.5, 0), 2.5, steps)
	if r != PassIntercepted && r != PassCorridorBlocked {
		t.Fatalf("reason = %v, want an interception or a blocked corridor", r)
	}
}

func TestPassCheck_CorridorScalesWithSpeed(t *testing.T) {
	m := withBallAt(newWorld(), 0, 0)
	m.Teammates = append(m.Teammates, mate(9, 30, 0))
	m.Opponents = []world.PlayerObject{opp(3, 12, 3.5)}
	m.UpdateLines()
	chk := NewPassChecker(newPredictor(m), DefaultPassCheckConfig())
	st := NewRootState(m)

	// A slower ball widens the corridor until it takes in the opponent.
	if r := chk.Reason(st, 7, 9, geom.V(30, 0), 3.0, 15); r != PassOK {
		t.Fatalf("fast pass: reason = %v, want %v", r, PassOK)
	}
	if r := chk.Reason(st, 7, 9, geom.V(30, 0), 2.0, 15); r != PassCorridorBlocked {
		t.Fatalf("slow pass: reason = %v, want %v", r, PassCorridorBlocked)
	}
}

func TestPassCheck_AngleThresholdFactors(t *testing.T) {
	cfg := DefaultPassCheckConfig()
	chk := NewPassChecker(nil, cfg)
	from := geom.V(0, 0)

	base := chk.angleThreshold(from, geom.V(20, 0), false, cfg.ReferenceSpeed)
	if base != cfg.BaseAngle {
		t.Fatalf("threshold at reference speed = %v, want %v", base, cfg.BaseAngle)
	}
	if slow := chk.angleThreshold(from, geom.V(20, 0), false, 0.5); slow != cfg.MaxAngle {
		t.Fatalf("slow ball threshold = %v, want clamp %v", slow, cfg.MaxAngle)
	}
	if back := chk.angleThreshold(from, geom.V(-20, 0), false, cfg.ReferenceSpeed); back >= base {
		t.Fatalf("back pass threshold %v should be below %v", back, base)
	}
	if goalie := chk.angleThreshold(from, geom.V(-20, 0), true, cfg.ReferenceSpeed); goalie >= base {
		t.Fatalf("goalie pass threshold %v should be below %v", goalie, base)
	}
	chance := chk.angleThreshold(geom.V(30, 0), geom.V(40, 0), false, cfg.ReferenceSpeed)
	if chance <= base {
		t.Fatalf("chance pass threshold %v should exceed %v", chance, base)
	}
}
