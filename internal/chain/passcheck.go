package chain

import (
	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/predict"
)

// PassCheckConfig holds the pass checker's tuned thresholds.
type PassCheckConfig struct {
	MinBallSpeed       float64 `mapstructure:"minBallSpeed"`
	NearDist           float64 `mapstructure:"nearDist"`
	FarDist            float64 `mapstructure:"farDist"`
	PitchMargin        float64 `mapstructure:"pitchMargin"`        // receive point must stay this far inside the lines
	ObservationPenalty int     `mapstructure:"observationPenalty"` // cycles credited to opponents
	CorridorExtra      float64 `mapstructure:"corridorExtra"`      // opponents this far beyond the receive point still count

	BaseAngle      float64 `mapstructure:"baseAngle"`      // degrees at ReferenceSpeed
	ReferenceSpeed float64 `mapstructure:"referenceSpeed"` // ball speed at which BaseAngle applies
	MinAngle       float64 `mapstructure:"minAngle"`
	MaxAngle       float64 `mapstructure:"maxAngle"`

	ChanceX          float64 `mapstructure:"chanceX"` // receive points beyond this x are chance passes
	ChanceFactor     float64 `mapstructure:"chanceFactor"`
	BackPassFactor   float64 `mapstructure:"backPassFactor"`
	GoaliePassFactor float64 `mapstructure:"goaliePassFactor"`
}

// DefaultPassCheckConfig returns the tuned defaults.
func DefaultPassCheckConfig() PassCheckConfig {
	return PassCheckConfig{
		MinBallSpeed:       1.0,
		NearDist:           4.0,
		FarDist:            35.0,
		PitchMargin:        1.0,
		ObservationPenalty: 2,
		CorridorExtra:      3.0,

		BaseAngle:      12.0,
		ReferenceSpeed: 2.5,
		MinAngle:       5.0,
		MaxAngle:       30.0,

		ChanceX:          36.0,
		ChanceFactor:     1.25,
		BackPassFactor:   0.8,
		GoaliePassFactor: 0.6,
	}
}

// PassRejection names the rule a pass failed. PassOK means it passed.
type PassRejection int

const (
	PassOK PassRejection = iota
	PassSelf
	PassTooSlow
	PassTooShort
	PassTooLong
	PassOffside
	PassOwnPenaltyArea
	PassOutOfPitch
	PassIntercepted
	PassCorridorBlocked
	PassUnknownPlayer
)

var passRejectionNames = [...]string{
	"ok", "self_pass", "too_slow", "too_short", "too_long", "offside",
	"own_penalty_area", "out_of_pitch", "intercepted", "corridor_blocked", "unknown_player",
}

func (r PassRejection) String() string {
	if int(r) < len(passRejectionNames) {
		return passRejectionNames[r]
	}
	return "unknown"
}

// PassChecker decides whether a pass is safe against the opponents of a
// predicted state.
type PassChecker struct {
	pr  *predict.Predictor
	cfg PassCheckConfig
}

// NewPassChecker builds a checker.
func NewPassChecker(pr *predict.Predictor, cfg PassCheckConfig) *PassChecker {
	return &PassChecker{pr: pr, cfg: cfg}
}

// Config returns the checker thresholds.
func (c *PassChecker) Config() PassCheckConfig { return c.cfg }

// Check returns the success estimate of passing from passer to receiver
// at receivePoint with the given first ball speed and ball travel steps.
// The estimate is 1 when every rule passes and 0 otherwise.
func (c *PassChecker) Check(st State, passer, receiver int, receivePoint geom.Vec2, firstBallSpeed float64, steps int) float64 {
	if c.Reason(st, passer, receiver, receivePoint, firstBallSpeed, steps) != PassOK {
		return 0
	}
	return 1
}

// Reason is Check with the failing rule reported.
func (c *PassChecker) Reason(st State, passer, receiver int, receivePoint geom.Vec2, firstBallSpeed float64, steps int) PassRejection {
	if passer == receiver {
		return PassSelf
	}
	if firstBallSpeed < c.cfg.MinBallSpeed {
		return PassTooSlow
	}
	from := st.Ball().Pos
	dist := from.Dist(receivePoint)
	if dist < c.cfg.NearDist {
		return PassTooShort
	}
	if dist > c.cfg.FarDist {
		return PassTooLong
	}

	recv, ok := st.Teammate(receiver)
	if !ok {
		return PassUnknownPlayer
	}
	if recv.Pos.X > st.OffsideLineX() {
		return PassOffside
	}
	sp := st.Params()
	if sp.OurPenaltyArea().Contains(receivePoint) {
		return PassOwnPenaltyArea
	}
	if !sp.InPitch(receivePoint, -c.cfg.PitchMargin) {
		return PassOutOfPitch
	}

	threshold := c.angleThreshold(from, receivePoint, recv.Goalie, firstBallSpeed)
	passDir := receivePoint.Sub(from).Dir()
	opps := st.Opponents()
	for i := range opps {
		o := &opps[i]
		if !o.PosValid() {
			continue
		}
		pt := st.TypeOf(o)
		reach := c.pr.ReachCycle(o, pt, false, predict.PointTarget(receivePoint), predict.ReachOptions{
			ObservationPenalty: c.cfg.ObservationPenalty,
		})
		if reach <= steps {
			return PassIntercepted
		}

		oppDist := o.Pos.Dist(from)
		if oppDist > dist+c.cfg.CorridorExtra || oppDist < 1e-6 {
			continue
		}
		hide := geom.AsinDeg(pt.KickableArea() / oppDist)
		clearance := geom.AngleDiff(o.Pos.Sub(from).Dir(), passDir) - hide
		if clearance < threshold {
			return PassCorridorBlocked
		}
	}
	return PassOK
}

// angleThreshold scales the base corridor angle inversely with the first
// ball speed, then applies the chance, back pass and goalie factors.
func (c *PassChecker) angleThreshold(from, to geom.Vec2, toGoalie bool, speed float64) float64 {
	th := c.cfg.BaseAngle * c.cfg.ReferenceSpeed / speed
	if th < c.cfg.MinAngle {
		th = c.cfg.MinAngle
	}
	if th > c.cfg.MaxAngle {
		th = c.cfg.MaxAngle
	}
	switch {
	case toGoalie:
		th *= c.cfg.GoaliePassFactor
	case to.X < from.X:
		th *= c.cfg.BackPassFactor
	case to.X > c.cfg.ChanceX:
		th *= c.cfg.ChanceFactor
	}
	return th
}
