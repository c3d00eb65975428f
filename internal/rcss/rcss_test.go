package rcss

import (
	"math"
	"testing"

	"github.com/Garsondee/Striker-Sense/internal/geom"
)

func defaultType(t *testing.T) (*ServerParams, *PlayerType) {
	t.Helper()
	sp := DefaultServerParams()
	pt, err := NewPlayerType(&sp, DefaultPlayerTypeParams())
	if err != nil {
		t.Fatalf("default player type rejected: %v", err)
	}
	return &sp, pt
}

func TestDashTable_Monotonic(t *testing.T) {
	_, pt := defaultType(t)
	table := pt.DashDistanceTable()
	if len(table) != dashTableSize {
		t.Fatalf("table len = %d, want %d", len(table), dashTableSize)
	}
	for i := 1; i < len(table); i++ {
		if table[i] <= table[i-1] {
			t.Fatalf("table not strictly increasing at %d: %v <= %v", i, table[i], table[i-1])
		}
	}
	// type 0 accelerates by 0.6 per cycle: first step covers exactly 0.6 m
	if math.Abs(table[0]-0.6) > 1e-9 {
		t.Fatalf("first dash distance = %v, want 0.6", table[0])
	}
}

func TestCyclesToReachDistance(t *testing.T) {
	_, pt := defaultType(t)
	if c := pt.CyclesToReachDistance(0); c != 0 {
		t.Fatalf("zero distance = %d cycles, want 0", c)
	}
	if c := pt.CyclesToReachDistance(0.6); c != 1 {
		t.Fatalf("0.6m = %d cycles, want 1", c)
	}
	if c := pt.CyclesToReachDistance(0.61); c != 2 {
		t.Fatalf("0.61m = %d cycles, want 2", c)
	}
	prev := 0
	for d := 0.5; d < 80; d += 0.5 {
		c := pt.CyclesToReachDistance(d)
		if c < prev {
			t.Fatalf("cycles decreased at %.1fm: %d < %d", d, c, prev)
		}
		prev = c
	}
	if pt.BackCyclesToReachDistance(5) <= pt.CyclesToReachDistance(5) {
		t.Fatal("back dashes must be slower than forward dashes")
	}
}

func TestCyclesToReachDistance_BeyondTable(t *testing.T) {
	_, pt := defaultType(t)
	table := pt.DashDistanceTable()
	last := table[len(table)-1]
	c := pt.CyclesToReachDistance(last + 10.5)
	want := len(table) + int(math.Ceil(10.5/pt.RealSpeedMax()))
	if c != want {
		t.Fatalf("beyond table = %d, want %d", c, want)
	}
}

func TestEffectiveTurn(t *testing.T) {
	_, pt := defaultType(t)
	if got := pt.EffectiveTurn(180, 0); got != 180 {
		t.Fatalf("stationary turn = %v, want 180", got)
	}
	if got := pt.EffectiveTurn(180, 1.0); math.Abs(got-30) > 1e-9 {
		t.Fatalf("turn at speed 1 = %v, want 30", got)
	}
}

func TestDashRate(t *testing.T) {
	_, pt := defaultType(t)
	cases := map[float64]float64{
		0:   1.0,
		90:  0.4,
		-90: 0.4,
		180: 0.6,
		10:  1.0, // snaps to 0
		135: 0.5,
	}
	for dir, want := range cases {
		if got := pt.DashRate(dir); math.Abs(got-want) > 1e-9 {
			t.Errorf("DashRate(%v) = %v, want %v", dir, got, want)
		}
	}
}

func TestKickableArea(t *testing.T) {
	_, pt := defaultType(t)
	if math.Abs(pt.KickableArea()-1.085) > 1e-9 {
		t.Fatalf("kickable area = %v", pt.KickableArea())
	}
}

func TestInertiaPoint(t *testing.T) {
	_, pt := defaultType(t)
	p := pt.InertiaPoint(geom.V(0, 0), geom.V(1, 0), 100)
	if math.Abs(p.X-1/(1-pt.Decay)) > 1e-6 {
		t.Fatalf("inertia limit = %v, want %v", p.X, 1/(1-pt.Decay))
	}
	if q := pt.InertiaPoint(geom.V(3, 4), geom.V(1, 1), 0); !q.Equals(geom.V(3, 4)) {
		t.Fatalf("zero cycles moved the player: %+v", q)
	}
}

func TestPlayerTypes_SetRejectsInvalid(t *testing.T) {
	sp := DefaultServerParams()
	reg := NewPlayerTypes(&sp)
	good := DefaultPlayerTypeParams()
	good.ID = 3
	good.SpeedMax = 1.2
	if err := reg.Set(good); err != nil {
		t.Fatalf("valid type rejected: %v", err)
	}
	bad := good
	bad.Decay = 1.5
	if err := reg.Set(bad); err == nil {
		t.Fatal("expected decay 1.5 to be rejected")
	}
	if reg.Get(3).SpeedMax != 1.2 {
		t.Fatal("rejected update must leave the previous type in effect")
	}
	if reg.Get(17) != reg.Default() {
		t.Fatal("unknown ids fall back to the default type")
	}
}

func TestStamina_DashAndWait(t *testing.T) {
	_, pt := defaultType(t)
	m := FullStamina(pt)
	m.SimulateDash(pt, 100)
	// 8000 - 100 + 45 recovery
	if math.Abs(m.Stamina-7945) > 1e-9 {
		t.Fatalf("stamina after one dash = %v, want 7945", m.Stamina)
	}
	m.SimulateDash(pt, -50)
	if math.Abs(m.Stamina-(7945-100+45)) > 1e-9 {
		t.Fatalf("back dash must cost double, got %v", m.Stamina)
	}
	full := FullStamina(pt)
	full.SimulateWait(pt)
	if full.Stamina != pt.sp.StaminaMax {
		t.Fatalf("stamina overflowed max: %v", full.Stamina)
	}
}

func TestStamina_RecoveryDecays(t *testing.T) {
	_, pt := defaultType(t)
	m := FullStamina(pt)
	m.Stamina = pt.sp.RecoverDecThrValue() - 1
	before := m.Recovery
	m.SimulateWait(pt)
	if m.Recovery >= before {
		t.Fatalf("recovery should decay below the threshold: %v -> %v", before, m.Recovery)
	}
}

func TestSafetyDashPower(t *testing.T) {
	_, pt := defaultType(t)
	m := FullStamina(pt)
	if p := m.SafetyDashPower(pt, 100, 0); p != 100 {
		t.Fatalf("fresh player power = %v, want 100", p)
	}
	m.Stamina = pt.sp.RecoverDecThrValue() + 30
	if p := m.SafetyDashPower(pt, 100, 0); math.Abs(p-30) > 1e-9 {
		t.Fatalf("clamped power = %v, want 30", p)
	}
	if p := m.SafetyDashPower(pt, -100, 0); math.Abs(p+15) > 1e-9 {
		t.Fatalf("clamped back power = %v, want -15", p)
	}
	m.Stamina = 10
	if p := m.SafetyDashPower(pt, 100, 0); p != 0 {
		t.Fatalf("exhausted player power = %v, want 0", p)
	}
}

func TestTackleProbability_Bounds(t *testing.T) {
	sp := DefaultServerParams()
	for x := -3.0; x <= 3.0; x += 0.25 {
		for y := -2.0; y <= 2.0; y += 0.25 {
			p := sp.TackleProbability(geom.V(0, 0), 0, geom.V(x, y))
			if p < 0 || p > 1 {
				t.Fatalf("probability out of [0,1] at (%v,%v): %v", x, y, p)
			}
			if (x >= sp.TackleDist || math.Abs(y) >= sp.TackleWidth) && p != 0 {
				t.Fatalf("beyond ellipse at (%v,%v) must be 0, got %v", x, y, p)
			}
		}
	}
	if p := sp.TackleProbability(geom.V(0, 0), 0, geom.V(0.01, 0)); p < 0.99 {
		t.Fatalf("ball at the feet should be ~1, got %v", p)
	}
	// default back distance is 0: anything behind fails
	if p := sp.TackleProbability(geom.V(0, 0), 0, geom.V(-0.5, 0)); p != 0 {
		t.Fatalf("ball behind with zero back dist = %v, want 0", p)
	}
	// body rotation
	if p := sp.TackleProbability(geom.V(0, 0), 90, geom.V(0, 1)); p <= 0.9 {
		t.Fatalf("ball ahead of a player facing +y = %v", p)
	}
}

func TestBallHelpers(t *testing.T) {
	sp := DefaultServerParams()
	if d := sp.BallInertiaTravel(2, 1); math.Abs(d-2) > 1e-9 {
		t.Fatalf("one-cycle travel = %v", d)
	}
	s := sp.FirstBallSpeed(20, 10)
	if d := sp.BallInertiaTravel(s, 10); math.Abs(d-20) > 1e-9 {
		t.Fatalf("first speed round-trip = %v", d)
	}
	if n := sp.BallMoveSteps(s, 19.9); n != 10 {
		t.Fatalf("move steps = %d, want 10", n)
	}
	if n := sp.BallMoveSteps(0.5, 20); n != Unreachable {
		t.Fatalf("slow ball must stop short, got %d", n)
	}
}
