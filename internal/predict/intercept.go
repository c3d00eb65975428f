package predict

import (
	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/rcss"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// Config holds the predictor's tuned constants.
type Config struct {
	MaxCycle           int     `mapstructure:"maxCycle"`           // candidate cycles tried, 0..MaxCycle
	BodyCountThreshold int     `mapstructure:"bodyCountThreshold"` // others' body trusted up to this count
	VelCountThreshold  int     `mapstructure:"velCountThreshold"`  // velocity ignored beyond this count
	DefaultTurnCycles  int     `mapstructure:"defaultTurnCycles"`  // assumed turns when the body is stale
	PenaltyDistance    float64 `mapstructure:"penaltyDistance"`    // added to others' travel distance
	BallOutMargin      float64 `mapstructure:"ballOutMargin"`      // pitch margin before a ball counts as gone

	// OpponentObservationPenalty is credited to opponents in the table.
	OpponentObservationPenalty int `mapstructure:"opponentObservationPenalty"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		MaxCycle:                   30,
		BodyCountThreshold:         1,
		VelCountThreshold:          5,
		DefaultTurnCycles:          1,
		PenaltyDistance:            0.2,
		BallOutMargin:              1.0,
		OpponentObservationPenalty: 0,
	}
}

// Target is a possibly moving point to reach. At returns its position at
// cycle c; ok is false once the target is no longer playable.
type Target interface {
	At(c int) (pos geom.Vec2, ok bool)
}

// PointTarget is a fixed point that never leaves play.
type PointTarget geom.Vec2

// At implements Target.
func (p PointTarget) At(int) (geom.Vec2, bool) { return geom.Vec2(p), true }

// BallTarget is a ball following its inertial trajectory. Positions are
// precomputed once so many players can be tested against the same ball.
type BallTarget struct {
	steps  []world.BallStep
	sp     *rcss.ServerParams
	margin float64
}

// NewBallTarget samples ball over cycles 0..n. A sample outside the pitch
// grown by margin ends the target.
func NewBallTarget(sp *rcss.ServerParams, ball world.BallObject, n int, margin float64) *BallTarget {
	return &BallTarget{steps: ball.Trajectory(sp, n), sp: sp, margin: margin}
}

// At implements Target.
func (b *BallTarget) At(c int) (geom.Vec2, bool) {
	if c < 0 || c >= len(b.steps) {
		return geom.Vec2{}, false
	}
	pos := b.steps[c].Pos
	return pos, b.sp.InPitch(pos, b.margin)
}

// Steps exposes the sampled trajectory.
func (b *BallTarget) Steps() []world.BallStep { return b.steps }

// ReachOptions tune one reach query.
type ReachOptions struct {
	Tolerance          float64 // <= 0 means the player's kickable area
	ObservationPenalty int     // cycles credited to the player for stale observation
	WaitCycles         int     // cycles the player cannot move at the start
	SafeRecovery       bool    // throttle dashes to stay above the recovery floor
	AllowBackDash      bool
}

// Predictor computes reach cycles. It is stateless apart from its
// configuration and safe to share.
type Predictor struct {
	cfg Config
	sp  *rcss.ServerParams
}

// NewPredictor builds a predictor over the match constants.
func NewPredictor(sp *rcss.ServerParams, cfg Config) *Predictor {
	if cfg.MaxCycle <= 0 {
		cfg.MaxCycle = DefaultConfig().MaxCycle
	}
	return &Predictor{cfg: cfg, sp: sp}
}

// Config returns the predictor configuration.
func (pr *Predictor) Config() Config { return pr.cfg }

// Server returns the server parameters the predictor was built with.
func (pr *Predictor) Server() *rcss.ServerParams { return pr.sp }

// BallTarget samples the live ball for the configured cycle window.
func (pr *Predictor) BallTarget(ball world.BallObject) *BallTarget {
	return NewBallTarget(pr.sp, ball, pr.cfg.MaxCycle, pr.cfg.BallOutMargin)
}

// ReachCycle returns the first cycle c in 0..MaxCycle at which p can be
// within tolerance of target.At(c), or Unreachable. self selects the
// trusted treatment reserved for our own player: exact body angle, no
// penalty distance and stamina-aware dashing.
func (pr *Predictor) ReachCycle(p *world.PlayerObject, pt *rcss.PlayerType, self bool, target Target, opts ReachOptions) int {
	if !p.PosValid() || pt == nil {
		return Unreachable
	}
	tol := opts.Tolerance
	if tol <= 0 {
		tol = pt.KickableArea()
	}
	vel := p.Vel
	if p.VelCount > pr.cfg.VelCountThreshold {
		vel = geom.Vec2{}
	}

	for c := 0; c <= pr.cfg.MaxCycle; c++ {
		pos, ok := target.At(c)
		if !ok {
			return Unreachable
		}
		if pr.canReach(p, pt, self, vel, pos, tol, c, opts) {
			return c
		}
	}
	return Unreachable
}

// StepsTo is the turn plus dash count p needs for a fixed point, ignoring
// waiting and penalties. It is the building block the chain generators
// use to advance a receiver.
func (pr *Predictor) StepsTo(p *world.PlayerObject, pt *rcss.PlayerType, point geom.Vec2, tol float64) int {
	if !p.PosValid() {
		return Unreachable
	}
	mv := Motion{Pos: p.Pos, Speed: p.Vel.Len(), Body: p.Body}
	return EstimateReach(pt, mv, point, tol, false).Total()
}

func (pr *Predictor) canReach(p *world.PlayerObject, pt *rcss.PlayerType, self bool, vel, pos geom.Vec2, tol float64, c int, opts ReachOptions) bool {
	inertia := pt.InertiaPoint(p.Pos, vel, c)
	rel := pos.Sub(inertia)
	dist := rel.Len()

	moves := 0
	if dist > tol {
		if !self {
			// nothing to penalise inside tol
			dist += pr.cfg.PenaltyDistance
		}
		moves = pr.moveCycles(p, pt, self, vel.Len(), rel, dist, tol, opts)
		if moves >= Unreachable {
			return false
		}
	}
	moves -= opts.ObservationPenalty
	if moves < 0 {
		moves = 0
	}
	return opts.WaitCycles+moves <= c
}

func (pr *Predictor) moveCycles(p *world.PlayerObject, pt *rcss.PlayerType, self bool, speed float64, rel geom.Vec2, dist, tol float64, opts ReachOptions) int {
	var turn int
	back := false
	if self || p.BodyCount <= pr.cfg.BodyCountThreshold {
		diff := geom.AngleDiff(rel.Dir(), p.Body)
		if diff > TurnMargin(dist, tol) {
			turn, back = TurnCycles(pt, speed, diff, dist, tol, opts.AllowBackDash)
		}
	} else {
		turn = pr.cfg.DefaultTurnCycles
	}
	if turn >= Unreachable {
		return Unreachable
	}

	var dash int
	if self && opts.SafeRecovery && !back {
		st := p.Stamina
		if st.Effort <= 0 {
			st = rcss.FullStamina(pt)
		}
		dash, _ = StaminaDash(pt, 0, st, dist-tol, true)
	} else {
		dash = DashCycles(pt, dist-tol, back)
	}
	if dash >= Unreachable {
		return Unreachable
	}
	return turn + dash
}
