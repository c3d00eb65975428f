// Package viewer draws a running match with ebiten: the pitch, both
// teams, the ball's predicted path, the decision log and an inspector
// for one player's intercept estimate.
package viewer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Striker-Sense/internal/config"
	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/rcss"
	"github.com/Garsondee/Striker-Sense/internal/sim"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// borderWidth is the pixel gap between the window edge and the pitch area.
const borderWidth = 24

// pitchScale is pixels per metre.
const pitchScale = 10.0

// runOff is the strip of grass drawn around the touch lines, in metres.
const runOff = 4.0

// ballPathSteps is how many predicted ball steps are drawn.
const ballPathSteps = 25

// speeds are the selectable simulation speeds in ticks per frame.
var speeds = []float64{0, 0.25, 0.5, 1, 2, 4}

// Options configure a viewer.
type Options struct {
	Scenario string
	Seed     int64
	Config   config.Config
	Logger   zerolog.Logger
}

// Game implements ebiten.Game around a sim.Match.
type Game struct {
	opts Options
	log  zerolog.Logger

	ms *sim.Match
	sp *rcss.ServerParams

	width      int
	height     int
	fieldW     int
	fieldH     int
	offX       int
	offY       int
	decisions  *DecisionLog
	inspector  Inspector
	showHUD    bool
	showPath   bool
	prevKeys   map[ebiten.Key]bool
	prevMouse  bool
	simSpeed   float64
	tickAccum  float64
	logged     int // SimLog entries already copied into the decision log
	status     string
	hudFace    text.Face
	hudScratch []string
}

// New builds a viewer around a fresh match of the given scenario.
func New(opts Options) (*Game, error) {
	g := &Game{
		opts:      opts,
		log:       opts.Logger,
		decisions: NewDecisionLog(),
		showHUD:   true,
		showPath:  true,
		prevKeys:  make(map[ebiten.Key]bool),
		simSpeed:  1,
		hudFace:   text.NewGoXFace(basicfont.Face7x13),
	}
	if err := g.reset(); err != nil {
		return nil, err
	}
	g.fieldW = int((2*g.sp.PitchHalfLength + 2*runOff) * pitchScale)
	g.fieldH = int((2*g.sp.PitchHalfWidth + 2*runOff) * pitchScale)
	g.offX = borderWidth
	g.offY = borderWidth
	g.width = borderWidth + g.fieldW + borderWidth + logPanelWidth
	g.height = borderWidth + g.fieldH + borderWidth
	return g, nil
}

// reset rebuilds the match from the scenario and seed.
func (g *Game) reset() error {
	scenario, err := sim.Scenario(g.opts.Scenario)
	if err != nil {
		return err
	}
	g.decisions.Clear()
	g.logged = 0
	opts := append(scenario,
		sim.WithSeed(g.opts.Seed),
		sim.WithConfig(g.opts.Config),
		sim.WithLogger(g.log),
		sim.WithDecisionHook(g.onDecision),
	)
	ms, err := sim.NewMatch(opts...)
	if err != nil {
		return err
	}
	g.ms = ms
	g.sp = ms.Core.Params()
	g.inspector.selected = world.PlayerID{Side: world.SideOurs, Unum: ms.Self}
	g.log.Info().Str("scenario", g.opts.Scenario).Int64("seed", g.opts.Seed).Msg("match ready")
	return nil
}

// Match exposes the running match.
func (g *Game) Match() *sim.Match { return g.ms }

func (g *Game) onDecision(d sim.Decision) {
	msg := fmt.Sprintf("%s s=%.1f", d.Action, d.Score)
	if d.Kind == "tackle" {
		msg = fmt.Sprintf("tackle p=%.2f", d.Probability)
	} else if d.Exhausted {
		msg += " (budget)"
	}
	g.decisions.Add(d.Cycle, d.Player.String(), d.Player.Side, msg)
}

func (g *Game) Update() error {
	g.handleInput()

	if g.simSpeed <= 0 {
		return nil
	}
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.step()
	}
	return nil
}

// step advances one tick and copies new match events into the log.
func (g *Game) step() {
	g.ms.Step()
	g.syncEvents()
}

func (g *Game) syncEvents() {
	entries := g.ms.SimLog.Entries()
	for _, e := range entries[g.logged:] {
		if e.Category == "decision" {
			continue // logged with search details by onDecision
		}
		g.decisions.Add(e.Tick, e.Player, parseSide(e.Side), e.Key+" "+e.Value)
	}
	g.logged = len(entries)
}

func parseSide(s string) world.Side {
	switch s {
	case "ours":
		return world.SideOurs
	case "theirs":
		return world.SideTheirs
	}
	return world.SideUnknown
}

// justPressed reports an edge-triggered key press and records the key.
func (g *Game) justPressed(cur map[ebiten.Key]bool, k ebiten.Key) bool {
	cur[k] = ebiten.IsKeyPressed(k)
	return cur[k] && !g.prevKeys[k]
}

func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}

	if g.justPressed(currentKeys, ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if g.justPressed(currentKeys, ebiten.KeyB) {
		g.showPath = !g.showPath
	}

	// P=pause/resume, ,=slower, .=faster, N=single step while paused.
	if g.justPressed(currentKeys, ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if g.justPressed(currentKeys, ebiten.KeyComma) {
		g.simSpeed = slower(g.simSpeed)
	}
	if g.justPressed(currentKeys, ebiten.KeyPeriod) {
		g.simSpeed = faster(g.simSpeed)
	}
	if g.justPressed(currentKeys, ebiten.KeyN) && g.simSpeed == 0 {
		g.step()
	}

	if g.justPressed(currentKeys, ebiten.KeyR) {
		if err := g.reset(); err != nil {
			g.log.Error().Err(err).Msg("resetting match")
			g.status = "reset failed: " + err.Error()
		} else {
			g.status = "match reset"
		}
	}
	if g.justPressed(currentKeys, ebiten.KeyC) {
		g.copyReport()
	}

	// Tab cycles the inspected player.
	if g.justPressed(currentKeys, ebiten.KeyTab) {
		g.inspector.selected = nextPlayer(g.ms.Snapshot(), g.inspector.selected)
	}
	if g.justPressed(currentKeys, ebiten.KeyI) {
		g.inspector.rawView = !g.inspector.rawView
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && !g.prevMouse {
		mx, my := ebiten.CursorPosition()
		g.handleInspectorClick(mx, my)
	}
	g.prevMouse = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	g.prevKeys = currentKeys
}

func slower(cur float64) float64 {
	for i := len(speeds) - 1; i > 0; i-- {
		if speeds[i] <= cur {
			if speeds[i] < cur {
				return speeds[i]
			}
			return speeds[i-1]
		}
	}
	return speeds[0]
}

func faster(cur float64) float64 {
	for _, s := range speeds {
		if s > cur {
			return s
		}
	}
	return speeds[len(speeds)-1]
}

// toScreen maps a pitch position in metres to window pixels.
func (g *Game) toScreen(p geom.Vec2) (float32, float32) {
	x := float64(g.offX) + (p.X+g.sp.PitchHalfLength+runOff)*pitchScale
	y := float64(g.offY) + (p.Y+g.sp.PitchHalfWidth+runOff)*pitchScale
	return float32(x), float32(y)
}

// toWorld is the inverse of toScreen.
func (g *Game) toWorld(sx, sy int) geom.Vec2 {
	return geom.V(
		(float64(sx-g.offX))/pitchScale-g.sp.PitchHalfLength-runOff,
		(float64(sy-g.offY))/pitchScale-g.sp.PitchHalfWidth-runOff,
	)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})

	snap := g.ms.Snapshot()
	g.drawPitch(screen)
	if g.showPath {
		g.drawBallPath(screen, snap.Ball)
	}
	g.drawPlayers(screen, snap)
	g.drawBall(screen, snap.Ball)

	logX := g.offX + g.fieldW + g.offX
	g.decisions.Draw(screen, logX, g.height)

	g.drawScoreboard(screen, snap)
	if g.showHUD {
		g.drawHUD(screen)
	}
	g.drawInspector(screen, snap)
}

func (g *Game) drawPitch(screen *ebiten.Image) {
	grass := color.RGBA{R: 38, G: 92, B: 44, A: 255}
	stripe := color.RGBA{R: 42, G: 100, B: 48, A: 255}
	line := color.RGBA{R: 220, G: 230, B: 220, A: 200}

	vector.FillRect(screen, float32(g.offX), float32(g.offY), float32(g.fieldW), float32(g.fieldH), grass, false)
	for i := 0; i < 12; i += 2 {
		w := float32(g.fieldW) / 12
		vector.FillRect(screen, float32(g.offX)+float32(i)*w, float32(g.offY), w, float32(g.fieldH), stripe, false)
	}

	hl, hw := g.sp.PitchHalfLength, g.sp.PitchHalfWidth
	x0, y0 := g.toScreen(geom.V(-hl, -hw))
	x1, y1 := g.toScreen(geom.V(hl, hw))
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 2, line, false)

	cx, cy := g.toScreen(geom.Vec2{})
	vector.StrokeLine(screen, cx, y0, cx, y1, 2, line, false)
	vector.StrokeCircle(screen, cx, cy, float32(9.15*pitchScale), 2, line, false)
	vector.FillCircle(screen, cx, cy, 3, line, false)

	// Penalty areas and goals.
	pl, pw := g.sp.PenaltyAreaLength, g.sp.PenaltyAreaHalfWidth
	for _, sign := range []float64{-1, 1} {
		ax, ay := g.toScreen(geom.V(sign*hl, -pw))
		bx, by := g.toScreen(geom.V(sign*(hl-pl), pw))
		if bx < ax {
			ax, bx = bx, ax
		}
		vector.StrokeRect(screen, ax, ay, bx-ax, by-ay, 2, line, false)

		gx, gy0 := g.toScreen(geom.V(sign*hl, -g.sp.GoalHalfWidth))
		_, gy1 := g.toScreen(geom.V(sign*hl, g.sp.GoalHalfWidth))
		depth := float32(2 * pitchScale)
		if sign < 0 {
			gx -= depth
		}
		vector.FillRect(screen, gx, gy0, depth, gy1-gy0, color.RGBA{R: 240, G: 240, B: 240, A: 90}, false)
	}
}

func (g *Game) drawBallPath(screen *ebiten.Image, ball world.BallObject) {
	steps := g.ms.Core.Predictor().BallTarget(ball).Steps()
	if len(steps) > ballPathSteps {
		steps = steps[:ballPathSteps]
	}
	for i := 1; i < len(steps); i++ {
		ax, ay := g.toScreen(steps[i-1].Pos)
		bx, by := g.toScreen(steps[i].Pos)
		alpha := uint8(220 - 7*i)
		vector.StrokeLine(screen, ax, ay, bx, by, 1.5, color.RGBA{R: 255, G: 230, B: 120, A: alpha}, false)
	}
}

func (g *Game) drawPlayers(screen *ebiten.Image, snap sim.MatchSnapshot) {
	const radius = 0.9 * pitchScale
	for _, p := range snap.Players {
		x, y := g.toScreen(p.Pos)
		col := sideColor(p.ID.Side)
		if p.Goalie {
			col = color.RGBA{R: col.R / 2, G: col.G/2 + 90, B: col.B / 2, A: 255}
		}
		vector.FillCircle(screen, x, y, radius, col, true)

		// Facing tick.
		dir := geom.Polar(radius*1.6/pitchScale, p.Body)
		hx, hy := g.toScreen(p.Pos.Add(dir))
		vector.StrokeLine(screen, x, y, hx, hy, 2, color.RGBA{R: 240, G: 240, B: 240, A: 220}, true)

		if p.ID == snap.Holder {
			vector.StrokeCircle(screen, x, y, radius+4, 2, color.RGBA{R: 255, G: 230, B: 120, A: 255}, true)
		}
		if p.ID == g.inspector.selected {
			vector.StrokeCircle(screen, x, y, radius+8, 1, color.RGBA{R: 255, G: 255, B: 255, A: 200}, true)
		}
		ebitenutil.DebugPrintAt(screen, p.ID.String(), int(x)-6, int(y)+int(radius)+2)

		// Stamina bar.
		frac := float32(p.Stamina / g.sp.StaminaMax)
		vector.FillRect(screen, x-radius, y-radius-6, 2*radius, 3, color.RGBA{R: 40, G: 40, B: 40, A: 200}, false)
		vector.FillRect(screen, x-radius, y-radius-6, 2*radius*frac, 3, color.RGBA{R: 120, G: 220, B: 120, A: 230}, false)
	}
}

func (g *Game) drawBall(screen *ebiten.Image, ball world.BallObject) {
	x, y := g.toScreen(ball.Pos)
	vector.FillCircle(screen, x, y, 4, color.RGBA{R: 250, G: 250, B: 250, A: 255}, true)
	vector.StrokeCircle(screen, x, y, 4, 1, color.RGBA{R: 20, G: 20, B: 20, A: 255}, true)
}

func (g *Game) drawScoreboard(screen *ebiten.Image, snap sim.MatchSnapshot) {
	line := fmt.Sprintf("%s  T=%04d  ours %d - %d theirs  speed %s",
		g.opts.Scenario, snap.Tick, snap.Score.Ours, snap.Score.Theirs, speedString(g.simSpeed))
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(g.offX+6), 4)
	op.ColorScale.ScaleWithColor(color.RGBA{R: 230, G: 240, B: 230, A: 255})
	text.Draw(screen, line, g.hudFace, op)
}

func speedString(s float64) string {
	if s == 0 {
		return "PAUSED"
	}
	return fmt.Sprintf("%gx", s)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := append(g.hudScratch[:0],
		"P=pause  ,/. speed  N=step",
		"R=reset  C=copy report",
		"Tab/click=inspect  I=raw view",
		"B=ball path  H=hide help",
	)
	if g.status != "" {
		lines = append(lines, g.status)
	}
	g.hudScratch = lines

	const lineH = 14
	const padX, padY = 6, 4
	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*7 + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	bx := float32(g.offX + 6)
	by := float32(g.offY+g.fieldH) - boxH - 6

	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 10, B: 6, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)

	for i, l := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(bx)+padX, float64(by)+padY+float64(i*lineH))
		op.ColorScale.ScaleWithColor(color.RGBA{R: 200, G: 230, B: 200, A: 255})
		text.Draw(screen, l, g.hudFace, op)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Size returns the window size the viewer lays out for.
func (g *Game) Size() (int, int) {
	return g.width, g.height
}
