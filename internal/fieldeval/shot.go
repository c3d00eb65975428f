package fieldeval

import (
	"math"

	"github.com/Garsondee/Striker-Sense/internal/chain"
	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/predict"
	"github.com/Garsondee/Striker-Sense/internal/rcss"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// ShotConfig tunes the shot-line clearance test.
type ShotConfig struct {
	MaxDist       float64 `mapstructure:"maxDist"`       // no shot beyond this distance to the goal centre
	Targets       int     `mapstructure:"targets"`       // goal-mouth fan size
	PostMargin    float64 `mapstructure:"postMargin"`    // metres kept inside each post
	SafeOppDist   float64 `mapstructure:"safeOppDist"`   // nearest opponent this far away gives full confidence
	MinConfidence float64 `mapstructure:"minConfidence"` // confidence with an opponent at the ball
}

// DefaultShotConfig returns the tuned defaults.
func DefaultShotConfig() ShotConfig {
	return ShotConfig{
		MaxDist:       20,
		Targets:       5,
		PostMargin:    0.5,
		SafeOppDist:   5,
		MinConfidence: 0.5,
	}
}

// ShotClearance answers whether a shot from a point would beat every
// opponent, simulating each one's pursuit of the kicked ball.
type ShotClearance struct {
	pr  *predict.Predictor
	cfg ShotConfig
}

// NewShotClearance builds a clearance test.
func NewShotClearance(pr *predict.Predictor, cfg ShotConfig) *ShotClearance {
	return &ShotClearance{pr: pr, cfg: cfg}
}

// Config returns the clearance configuration.
func (s *ShotClearance) Config() ShotConfig { return s.cfg }

// Value is the clearance of a shot from st's ball when we hold it, 0
// otherwise.
func (s *ShotClearance) Value(st chain.State) float64 {
	if !st.OurBall() {
		return 0
	}
	_, v := s.From(st.Ball().Pos, st.Opponents(), st.Types())
	return v
}

// From counts the open goal-mouth targets from a point and returns the
// value in [0, 1]: the open share scaled by a confidence that grows with
// the distance to the nearest opponent.
func (s *ShotClearance) From(from geom.Vec2, opps []world.PlayerObject, types *rcss.PlayerTypes) (open int, value float64) {
	sp := s.pr.Server()
	if from.Dist(sp.TheirGoal()) > s.cfg.MaxDist {
		return 0, 0
	}
	targets := predict.GoalMouthTargets(sp, s.cfg.Targets, s.cfg.PostMargin)
	if len(targets) == 0 {
		return 0, 0
	}
	for _, target := range targets {
		if s.pr.Course(from, target, sp.BallSpeedMax, opps, types).Open {
			open++
		}
	}
	if open == 0 {
		return 0, 0
	}
	return open, float64(open) / float64(len(targets)) * s.confidence(from, opps)
}

func (s *ShotClearance) confidence(from geom.Vec2, opps []world.PlayerObject) float64 {
	nearest := math.Inf(1)
	for i := range opps {
		if opps[i].PosValid() {
			nearest = math.Min(nearest, opps[i].Pos.Dist(from))
		}
	}
	if s.cfg.SafeOppDist <= 0 || nearest >= s.cfg.SafeOppDist {
		return 1
	}
	lo := s.cfg.MinConfidence
	return lo + (1-lo)*nearest/s.cfg.SafeOppDist
}
