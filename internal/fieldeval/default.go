// Package fieldeval scores action chains for the chain search engine.
package fieldeval

import (
	"math"

	"github.com/Garsondee/Striker-Sense/internal/chain"
	"github.com/Garsondee/Striker-Sense/internal/predict"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// Sentinel scores for decided outcomes.
const (
	Accept = 1e7
	Reject = -1e7
)

// Config holds the default evaluator's weights.
type Config struct {
	GoalRadius     float64 `mapstructure:"goalRadius"`     // proximity bonus range around either goal
	ShootBonus     float64 `mapstructure:"shootBonus"`     // scaled by the shot clearance value
	SelfShootBonus float64 `mapstructure:"selfShootBonus"` // extra when self ends up with the shot
	LostBallBase   float64 `mapstructure:"lostBallBase"`   // out of play or lost: LostBallBase + ball x

	DangerousFactor      float64 `mapstructure:"dangerousFactor"`
	MaybeDangerousFactor float64 `mapstructure:"maybeDangerousFactor"`
	DribbleFactor        float64 `mapstructure:"dribbleFactor"`

	Shot ShotConfig `mapstructure:"shot"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		GoalRadius:     40,
		ShootBonus:     100,
		SelfShootBonus: 20,
		LostBallBase:   -50,

		DangerousFactor:      0.7,
		MaybeDangerousFactor: 0.9,
		DribbleFactor:        0.95,

		Shot: DefaultShotConfig(),
	}
}

// Default is the standard field evaluator.
type Default struct {
	cfg  Config
	shot *ShotClearance
}

// NewDefault builds the default evaluator.
func NewDefault(pr *predict.Predictor, cfg Config) *Default {
	return &Default{cfg: cfg, shot: NewShotClearance(pr, cfg.Shot)}
}

// Config returns the evaluator weights.
func (d *Default) Config() Config { return d.cfg }

// Evaluate implements chain.Evaluator.
func (d *Default) Evaluate(root chain.State, path chain.Path) float64 {
	if len(path) == 0 {
		return Reject
	}
	st := path.Last(root)
	sp := st.Params()
	ball := st.Ball().Pos

	switch {
	case sp.InTheirGoal(ball):
		return Accept
	case sp.InOurGoal(ball):
		return Reject
	case !sp.InPitch(ball, 0), st.Holder().Side == world.SideTheirs:
		return d.cfg.LostBallBase + ball.X
	}

	v := d.basicValue(st) + d.shootBonus(st)
	first, _ := path.First()
	return scale(v, d.safetyFactor(first))
}

// basicValue rewards upfield positions, closeness to their goal and
// distance from ours.
func (d *Default) basicValue(st chain.State) float64 {
	sp := st.Params()
	ball := st.Ball().Pos
	v := ball.X
	v += math.Max(0, d.cfg.GoalRadius-ball.Dist(sp.TheirGoal()))
	v -= math.Max(0, d.cfg.GoalRadius-ball.Dist(sp.OurGoal()))
	return v
}

func (d *Default) shootBonus(st chain.State) float64 {
	clearance := d.shot.Value(st)
	if clearance <= 0 {
		return 0
	}
	bonus := d.cfg.ShootBonus * clearance
	if st.Holder() == (world.PlayerID{Side: world.SideOurs, Unum: st.SelfUnum()}) {
		bonus += d.cfg.SelfShootBonus
	}
	return bonus
}

func (d *Default) safetyFactor(first chain.Action) float64 {
	switch {
	case first.Safety == chain.Dangerous:
		return d.cfg.DangerousFactor
	case first.Safety == chain.MaybeDangerous:
		return d.cfg.MaybeDangerousFactor
	case first.Kind == chain.KindDribble:
		return d.cfg.DribbleFactor
	}
	return 1
}

// scale shrinks v toward minus infinity by factor m, so a penalty lowers
// negative scores too.
func scale(v, m float64) float64 {
	return v - math.Abs(v)*(1-m)
}
