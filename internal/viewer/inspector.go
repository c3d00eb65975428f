package viewer

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/predict"
	"github.com/Garsondee/Striker-Sense/internal/sim"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// Inspector panel sizing.
const (
	inspW     = 300
	inspPad   = 6
	inspLineH = 13
	pickRange = 2.0 // metres
)

// Inspector holds the selected player and view toggle state.
type Inspector struct {
	selected world.PlayerID
	rawView  bool
}

// handleInspectorClick selects the player under the cursor. Clicking
// empty grass keeps the current selection.
func (g *Game) handleInspectorClick(mx, my int) bool {
	if mx >= g.offX+g.fieldW {
		return false
	}
	id, ok := pickPlayer(g.ms.Snapshot(), g.toWorld(mx, my), pickRange)
	if ok {
		g.inspector.selected = id
	}
	return ok
}

// pickPlayer returns the player nearest to p within radius metres.
func pickPlayer(snap sim.MatchSnapshot, p geom.Vec2, radius float64) (world.PlayerID, bool) {
	best2 := math.MaxFloat64
	var hit world.PlayerID
	for _, pl := range snap.Players {
		d2 := pl.Pos.Dist2(p)
		if d2 < radius*radius && d2 < best2 {
			best2 = d2
			hit = pl.ID
		}
	}
	return hit, hit.Valid()
}

// nextPlayer cycles through the snapshot's players: ours first, then theirs.
func nextPlayer(snap sim.MatchSnapshot, cur world.PlayerID) world.PlayerID {
	ids := make([]world.PlayerID, 0, len(snap.Players))
	for _, p := range snap.Players {
		ids = append(ids, p.ID)
	}
	if len(ids) == 0 {
		return cur
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Side != ids[j].Side {
			return ids[i].Side < ids[j].Side
		}
		return ids[i].Unum < ids[j].Unum
	})
	for i, id := range ids {
		if id == cur {
			return ids[(i+1)%len(ids)]
		}
	}
	return ids[0]
}

// inspectorLines builds the panel text for the selected player.
func (g *Game) inspectorLines(snap sim.MatchSnapshot) []string {
	sel := g.inspector.selected
	var ps *sim.PlayerSnapshot
	for i := range snap.Players {
		if snap.Players[i].ID == sel {
			ps = &snap.Players[i]
		}
	}
	if ps == nil {
		return nil
	}
	table := g.ms.Table()

	role := "field"
	if ps.Goalie {
		role = "goalie"
	}
	lines := []string{fmt.Sprintf("[ %s %s %s ]", sel.Side, sel, role)}
	view := "CURATED"
	if g.inspector.rawView {
		view = "RAW"
	}
	lines = append(lines, fmt.Sprintf("view: %s  [I] toggle", view), "")

	if g.inspector.rawView {
		lines = append(lines,
			fmt.Sprintf("pos=(%.2f,%.2f) vel=(%.2f,%.2f)", ps.Pos.X, ps.Pos.Y, ps.Vel.X, ps.Vel.Y),
			fmt.Sprintf("body=%.1f stamina=%.0f", ps.Body, ps.Stamina),
			fmt.Sprintf("table t=%s self=%d", table.Time, table.SelfCycle),
			fmt.Sprintf("mate=%s@%s opp=%s@%s", table.Mate, cycleString(table.MateCycle), table.Opp, cycleString(table.OppCycle)),
			"-- all cycles --",
		)
		ids := make([]world.PlayerID, 0, len(table.Cycles))
		for id := range table.Cycles {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			if ids[i].Side != ids[j].Side {
				return ids[i].Side < ids[j].Side
			}
			return ids[i].Unum < ids[j].Unum
		})
		for _, id := range ids {
			lines = append(lines, fmt.Sprintf("  %-4s %s", id, cycleString(table.Cycles[id])))
		}
		return lines
	}

	lines = append(lines, "-- SITUATION --")
	lines = append(lines, fmt.Sprintf("pos: (%.1f,%.1f) speed %.2f", ps.Pos.X, ps.Pos.Y, ps.Vel.Len()))
	lines = append(lines, fmt.Sprintf("stamina: %s %.0f", bar(ps.Stamina/g.sp.StaminaMax), ps.Stamina))
	lines = append(lines, fmt.Sprintf("to ball: %.1fm", ps.Pos.Dist(snap.Ball.Pos)))
	switch {
	case snap.Holder == sel:
		lines = append(lines, "has the ball")
	case snap.Holder.Valid():
		lines = append(lines, fmt.Sprintf("ball held by %s", snap.Holder))
	default:
		lines = append(lines, "ball loose")
	}

	lines = append(lines, "", "-- INTERCEPT --")
	lines = append(lines, fmt.Sprintf("reach: %s", cycleString(table.Cycle(sel))))
	lines = append(lines, fmt.Sprintf("fastest side: %s", table.FastestSide()))
	lines = append(lines, fmt.Sprintf("best mate %s @ %s", table.Mate, cycleString(table.MateCycle)))
	lines = append(lines, fmt.Sprintf("best opp  %s @ %s", table.Opp, cycleString(table.OppCycle)))

	if d, ok := g.ms.LastDecision(); ok {
		lines = append(lines, "", "-- LAST DECISION --")
		lines = append(lines, fmt.Sprintf("T=%d %s %s", d.Cycle, d.Player, d.Kind))
		lines = append(lines, d.Action)
		if d.Kind == "tackle" {
			lines = append(lines, fmt.Sprintf("p=%.2f", d.Probability))
		} else {
			lines = append(lines, fmt.Sprintf("score=%.2f depth=%d", d.Score, d.Depth))
			lines = append(lines, fmt.Sprintf("evals=%d expanded=%d %s", d.Evaluations, d.Expanded, d.Elapsed))
		}
	}
	return lines
}

func cycleString(c int) string {
	if c >= predict.Unreachable {
		return "--"
	}
	return fmt.Sprintf("%dc", c)
}

func bar(v float64) string {
	filled := int(v * 14)
	if filled < 0 {
		filled = 0
	}
	if filled > 14 {
		filled = 14
	}
	b := ""
	for i := 0; i < filled; i++ {
		b += "#"
	}
	for i := filled; i < 14; i++ {
		b += "."
	}
	return b
}

// drawInspector renders the panel in the pitch's top right corner.
func (g *Game) drawInspector(screen *ebiten.Image, snap sim.MatchSnapshot) {
	lines := g.inspectorLines(snap)
	if len(lines) == 0 {
		return
	}
	w := float32(inspW)
	h := float32(len(lines)*inspLineH + 2*inspPad)
	x := float32(g.offX+g.fieldW) - w - 8
	y := float32(g.offY + 8)

	border := color.RGBA{R: 55, G: 80, B: 55, A: 255}
	vector.FillRect(screen, x, y, w, h, color.RGBA{R: 14, G: 16, B: 14, A: 230}, false)
	vector.StrokeRect(screen, x, y, w, h, 1.0, border, false)
	vector.StrokeLine(screen, x+1, y+1, x+w-1, y+1, 1.0, color.RGBA{R: 70, G: 110, B: 70, A: 60}, false)

	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, int(x)+inspPad, int(y)+inspPad+i*inspLineH)
	}
}
