package viewer

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Striker-Sense/internal/config"
	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/sim"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

func newGame(t *testing.T, scenario string) *Game {
	t.Helper()
	g, err := New(Options{Scenario: scenario, Seed: 42, Config: config.Default(), Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestDecisionLog_Wraps(t *testing.T) {
	dl := NewDecisionLog()
	for i := 0; i < logMaxEntries+5; i++ {
		dl.Add(i, "O7", world.SideOurs, "hold")
	}
	got := dl.Recent()
	if len(got) != logMaxEntries {
		t.Fatalf("len = %d, want %d", len(got), logMaxEntries)
	}
	if got[0].Tick != 5 || got[len(got)-1].Tick != logMaxEntries+4 {
		t.Fatalf("oldest=%d newest=%d", got[0].Tick, got[len(got)-1].Tick)
	}
	dl.Clear()
	if len(dl.Recent()) != 0 {
		t.Fatal("Clear left entries behind")
	}
}

func TestNew_UnknownScenario(t *testing.T) {
	if _, err := New(Options{Scenario: "penalties", Config: config.Default(), Logger: zerolog.Nop()}); err == nil {
		t.Fatal("unknown scenario accepted")
	}
}

func TestScreenMapping_RoundTrip(t *testing.T) {
	g := newGame(t, "kickoff")

	cx, cy := g.toScreen(geom.Vec2{})
	if int(cx) != g.offX+g.fieldW/2 || int(cy) != g.offY+g.fieldH/2 {
		t.Fatalf("centre spot at (%v,%v), field %dx%d", cx, cy, g.fieldW, g.fieldH)
	}
	p := geom.V(-30, 12)
	sx, sy := g.toScreen(p)
	back := g.toWorld(int(sx), int(sy))
	if back.Dist(p) > 1/pitchScale {
		t.Fatalf("round trip %v -> %v", p, back)
	}
	w, h := g.Layout(0, 0)
	if w != g.fieldW+2*borderWidth+logPanelWidth || h != g.fieldH+2*borderWidth {
		t.Fatalf("layout %dx%d", w, h)
	}
}

func TestStep_FeedsDecisionLog(t *testing.T) {
	g := newGame(t, "counter-attack")
	for i := 0; i < 10; i++ {
		g.step()
	}
	if g.Match().CurrentTick() != 10 {
		t.Fatalf("tick = %d", g.Match().CurrentTick())
	}
	entries := g.decisions.Recent()
	if len(entries) == 0 {
		t.Fatal("no decision log entries after 10 ticks")
	}
	first := entries[0]
	if first.Tick != 1 || first.Label != "O7" || first.Side != world.SideOurs {
		t.Fatalf("first entry = %+v", first)
	}
	decided := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Message, "chain ") {
			t.Fatalf("chain decision copied twice: %+v", e)
		}
		if e.Label == "O7" && e.Tick == 1 && strings.Contains(e.Message, " s=") {
			decided++
		}
	}
	if decided != 1 {
		t.Fatalf("O7 has %d decisions at tick 1, want 1", decided)
	}
	if g.logged != len(g.Match().SimLog.Entries()) {
		t.Fatal("sync cursor behind the SimLog")
	}
}

func TestReset_RestoresScenario(t *testing.T) {
	g := newGame(t, "kickoff")
	for i := 0; i < 5; i++ {
		g.step()
	}
	if err := g.reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if g.Match().CurrentTick() != 0 || len(g.decisions.Recent()) != 0 || g.logged != 0 {
		t.Fatalf("reset left state: tick=%d log=%d", g.Match().CurrentTick(), len(g.decisions.Recent()))
	}
	if g.inspector.selected != (world.PlayerID{Side: world.SideOurs, Unum: 9}) {
		t.Fatalf("selected = %v", g.inspector.selected)
	}
}

func TestPickPlayer(t *testing.T) {
	snap := sim.MatchSnapshot{Players: []sim.PlayerSnapshot{
		{ID: world.PlayerID{Side: world.SideOurs, Unum: 7}, Pos: geom.V(0, 0)},
		{ID: world.PlayerID{Side: world.SideTheirs, Unum: 4}, Pos: geom.V(1.5, 0)},
	}}
	if id, ok := pickPlayer(snap, geom.V(1.0, 0), 2); !ok || id.Unum != 4 {
		t.Fatalf("picked %v %v, want T4", id, ok)
	}
	if id, ok := pickPlayer(snap, geom.V(0.2, 0.1), 2); !ok || id.Unum != 7 {
		t.Fatalf("picked %v %v, want O7", id, ok)
	}
	if _, ok := pickPlayer(snap, geom.V(20, 0), 2); ok {
		t.Fatal("picked a player 18 m away")
	}
}

func TestNextPlayer_Cycles(t *testing.T) {
	o7 := world.PlayerID{Side: world.SideOurs, Unum: 7}
	o2 := world.PlayerID{Side: world.SideOurs, Unum: 2}
	t4 := world.PlayerID{Side: world.SideTheirs, Unum: 4}
	snap := sim.MatchSnapshot{Players: []sim.PlayerSnapshot{{ID: t4}, {ID: o7}, {ID: o2}}}

	if got := nextPlayer(snap, o2); got != o7 {
		t.Fatalf("after O2 got %v", got)
	}
	if got := nextPlayer(snap, o7); got != t4 {
		t.Fatalf("after O7 got %v", got)
	}
	if got := nextPlayer(snap, t4); got != o2 {
		t.Fatalf("after T4 got %v", got)
	}
	if got := nextPlayer(snap, world.NoPlayer); got != o2 {
		t.Fatalf("from nobody got %v", got)
	}
}

func TestSpeedSteps(t *testing.T) {
	cases := []struct {
		cur, slower, faster float64
	}{
		{0, 0, 0.25},
		{1, 0.5, 2},
		{4, 2, 4},
		{0.75, 0.5, 1},
	}
	for _, c := range cases {
		if got := slower(c.cur); got != c.slower {
			t.Errorf("slower(%v) = %v, want %v", c.cur, got, c.slower)
		}
		if got := faster(c.cur); got != c.faster {
			t.Errorf("faster(%v) = %v, want %v", c.cur, got, c.faster)
		}
	}
	if speedString(0) != "PAUSED" || speedString(0.5) != "0.5x" {
		t.Fatal("speedString mismatch")
	}
}

func TestInspectorLines(t *testing.T) {
	g := newGame(t, "counter-attack")
	g.step()
	snap := g.Match().Snapshot()

	curated := strings.Join(g.inspectorLines(snap), "\n")
	for _, want := range []string{"[ ours O7 field ]", "-- INTERCEPT --", "-- LAST DECISION --"} {
		if !strings.Contains(curated, want) {
			t.Errorf("curated view missing %q:\n%s", want, curated)
		}
	}

	g.inspector.rawView = true
	raw := strings.Join(g.inspectorLines(snap), "\n")
	if !strings.Contains(raw, "-- all cycles --") || !strings.Contains(raw, "T2") {
		t.Errorf("raw view:\n%s", raw)
	}

	g.inspector.selected = world.PlayerID{Side: world.SideTheirs, Unum: 11}
	if lines := g.inspectorLines(snap); lines != nil {
		t.Errorf("absent player produced %d lines", len(lines))
	}
}

func TestCycleStringAndBar(t *testing.T) {
	if cycleString(3) != "3c" || cycleString(math.MaxInt32) != "--" {
		t.Fatal("cycleString mismatch")
	}
	if bar(0.5) != "#######......." || bar(-1) != ".............." || bar(2) != "##############" {
		t.Fatalf("bar(0.5) = %q", bar(0.5))
	}
}

func TestCopyReport(t *testing.T) {
	g := newGame(t, "defend")
	for i := 0; i < 8; i++ {
		g.step()
	}

	var copied string
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })
	writeClipboard = func(s string) error { copied = s; return nil }

	g.copyReport()
	if !strings.HasPrefix(copied, "--- StrikerSense debug report ---") {
		t.Fatalf("report = %q", copied)
	}
	for _, want := range []string{"scenario=defend seed=42", "tick_range=[0..8]", "== INSPECTOR ==", "== EVENTS ==", "Score: ours="} {
		if !strings.Contains(copied, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if g.status != "report copied (T=8)" {
		t.Errorf("status = %q", g.status)
	}

	writeClipboard = func(string) error { return errors.New("no clipboard utilities available") }
	g.copyReport()
	if g.status != "clipboard unavailable" {
		t.Errorf("status = %q", g.status)
	}
}

func TestDebugReport_Empty(t *testing.T) {
	g := newGame(t, "kickoff")
	report := debugReport(g.Match(), g.opts, nil, 0)
	if !strings.Contains(report, "(no events recorded yet)") || strings.Contains(report, "INSPECTOR") {
		t.Fatalf("report = %q", report)
	}
}
