package chain

import (
	"fmt"

	"github.com/Garsondee/Striker-Sense/internal/predict"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// ShootConfig controls the shoot generator.
type ShootConfig struct {
	MaxDist    float64 `mapstructure:"maxDist"`    // from the ball to the goal centre
	Targets    int     `mapstructure:"targets"`    // goal-mouth fan size
	PostMargin float64 `mapstructure:"postMargin"` // metres kept inside each post
}

// DefaultShootConfig returns the tuned defaults.
func DefaultShootConfig() ShootConfig {
	return ShootConfig{MaxDist: 25, Targets: 7, PostMargin: 0.7}
}

// ShootGenerator proposes at most one shot per state: the first open
// course across the goal-mouth fan, centre first.
type ShootGenerator struct {
	pr  *predict.Predictor
	cfg ShootConfig
}

// NewShootGenerator builds a shoot generator.
func NewShootGenerator(pr *predict.Predictor, cfg ShootConfig) *ShootGenerator {
	return &ShootGenerator{pr: pr, cfg: cfg}
}

// Generate implements Generator.
func (g *ShootGenerator) Generate(st State, _ *world.Model, _ Path) []Pair {
	if !st.OurBall() {
		return nil
	}
	sp := st.Params()
	from := st.Ball().Pos
	if from.Dist(sp.TheirGoal()) > g.cfg.MaxDist {
		return nil
	}
	for _, target := range predict.GoalMouthTargets(sp, g.cfg.Targets, g.cfg.PostMargin) {
		course := g.pr.Course(from, target, sp.BallSpeedMax, st.Opponents(), st.Types())
		if !course.Open {
			continue
		}
		vel := target.Sub(from).WithLen(sp.BallSpeedMax)
		act := Action{
			Kind:          KindShoot,
			Actor:         st.Holder().Unum,
			TargetPoint:   target,
			FirstBallVel:  vel,
			KickCount:     1,
			DurationSteps: course.Steps,
			Safety:        Safe,
			Description:   fmt.Sprintf("y %.1f", target.Y),
		}
		ball := world.BallObject{Pos: target, Vel: world.BallObject{Vel: vel}.VelAt(sp, course.Steps)}
		next := st.Next(course.Steps, ball, world.NoPlayer)
		return []Pair{{Action: act, State: next}}
	}
	return nil
}
