package chain

import (
	"fmt"

	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/predict"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// ClearConfig controls the clear generator.
type ClearConfig struct {
	MaxBallX   float64   `mapstructure:"maxBallX"` // clears start only behind this x
	Directions []float64 `mapstructure:"directions"`
}

// DefaultClearConfig returns the tuned defaults.
func DefaultClearConfig() ClearConfig {
	return ClearConfig{MaxBallX: -10, Directions: []float64{-60, -45, -30, -15, 0, 15, 30, 45, 60}}
}

// ClearGenerator proposes full-power kicks upfield. The side whose player
// reaches the ball first takes it; a ball nobody reaches ends wherever it
// leaves play or stops.
type ClearGenerator struct {
	pr  *predict.Predictor
	cfg ClearConfig
}

// NewClearGenerator builds a clear generator.
func NewClearGenerator(pr *predict.Predictor, cfg ClearConfig) *ClearGenerator {
	return &ClearGenerator{pr: pr, cfg: cfg}
}

// Generate implements Generator.
func (g *ClearGenerator) Generate(st State, _ *world.Model, _ Path) []Pair {
	if !st.OurBall() {
		return nil
	}
	from := st.Ball().Pos
	if from.X > g.cfg.MaxBallX {
		return nil
	}
	sp := st.Params()
	kicker := st.Holder()
	maxCycle := g.pr.Config().MaxCycle

	var out []Pair
	for _, dir := range g.cfg.Directions {
		vel := geom.Polar(sp.BallSpeedMax, dir)
		kicked := world.BallObject{Pos: from, Vel: vel}
		target := predict.NewBallTarget(sp, kicked, maxCycle, 0)

		holder, cycle := g.fastest(st, kicker, target)
		if !holder.Valid() {
			// nobody gets there: the ball ends where it leaves play or stops
			cycle = maxCycle
			for c, step := range target.Steps() {
				if !sp.InPitch(step.Pos, 0) {
					cycle = c
					break
				}
			}
		}
		step := target.Steps()[cycle]
		act := Action{
			Kind:          KindClear,
			Actor:         kicker.Unum,
			TargetPoint:   step.Pos,
			FirstBallVel:  vel,
			KickCount:     1,
			DurationSteps: max(cycle, 1),
			Safety:        MaybeDangerous,
			Description:   fmt.Sprintf("dir %.0f to %s", dir, holder),
		}
		var moves []Move
		if holder.Valid() {
			if p, ok := st.Player(holder); ok {
				moves = append(moves, Move{ID: holder, Pos: step.Pos, Body: p.Body})
			}
		}
		next := st.Next(act.DurationSteps, world.BallObject{Pos: step.Pos, Vel: step.Vel}, holder, moves...)
		out = append(out, Pair{Action: act, State: next})
	}
	return out
}

// fastest returns the first player of either side to reach the kicked
// ball, ties going to our side. The kicker is not a candidate.
func (g *ClearGenerator) fastest(st State, kicker world.PlayerID, target predict.Target) (world.PlayerID, int) {
	best := world.NoPlayer
	bestCycle := predict.Unreachable
	visit := func(list []world.PlayerObject) {
		for i := range list {
			p := &list[i]
			if p.ID() == kicker || p.Unum == 0 || !p.PosValid() {
				continue
			}
			c := g.pr.ReachCycle(p, st.TypeOf(p), false, target, predict.ReachOptions{})
			if c < bestCycle {
				best, bestCycle = p.ID(), c
			}
		}
	}
	visit(st.Teammates())
	visit(st.Opponents())
	return best, bestCycle
}
