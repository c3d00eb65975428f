// Package predict answers "how many cycles until this player reaches that
// target" for self, teammates and opponents, and memoizes the per-cycle
// fastest-reach table.
package predict

import (
	"math"

	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/rcss"
)

// Unreachable is returned when no turn/dash sequence reaches the target
// inside the prediction horizon.
const Unreachable = rcss.Unreachable

// Horizon caps every per-cycle simulation loop in this package.
const Horizon = 100

const (
	minTurnMargin = 15.0 // degrees
	backDashRange = 5.0  // metres
)

// TurnMargin is the heading error accepted before dashing toward a target
// dist metres away with tolerance tol. Inside the tolerance no turn is needed.
func TurnMargin(dist, tol float64) float64 {
	if dist <= tol {
		return 180
	}
	return math.Max(minTurnMargin, geom.AsinDeg(tol/dist))
}

// TurnCycles simulates turning toward a target angleDiff degrees off the
// body. speed decays by the player decay after every turn. back reports
// that the target is approached by back dashes, in which case the turn is
// toward the reverse heading.
func TurnCycles(pt *rcss.PlayerType, speed, angleDiff, dist, tol float64, allowBack bool) (n int, back bool) {
	sp := pt.Server()
	diff := geom.AngleDiff(angleDiff, 0)
	margin := TurnMargin(dist, tol)

	if allowBack && dist < backDashRange && diff > 90 && sp.MinDashPower < 0 {
		diff = 180 - diff
		back = true
	}

	for diff > margin {
		diff -= pt.EffectiveTurn(sp.MaxMoment, speed)
		speed *= pt.Decay
		n++
		if n > Horizon {
			return Unreachable, back
		}
	}
	return n, back
}

// DashCycles is the number of full-power dashes from rest covering dist.
func DashCycles(pt *rcss.PlayerType, dist float64, back bool) int {
	if back {
		return pt.BackCyclesToReachDistance(dist)
	}
	return pt.CyclesToReachDistance(dist)
}

// Motion is the kinematic state a reach estimate starts from.
type Motion struct {
	Pos   geom.Vec2
	Speed float64
	Body  float64
}

// Estimate is the split of a reach estimate into its turn and dash parts.
type Estimate struct {
	Turn int
	Dash int
	Back bool
}

// Total is turn plus dash cycles, saturating at Unreachable.
func (e Estimate) Total() int {
	if e.Turn >= Unreachable || e.Dash >= Unreachable {
		return Unreachable
	}
	return e.Turn + e.Dash
}

// EstimateReach combines turn and dash cycles for a player in motion mv to
// get within tol of target. When the body already points inside the turn
// margin the turn simulation is skipped.
func EstimateReach(pt *rcss.PlayerType, mv Motion, target geom.Vec2, tol float64, allowBack bool) Estimate {
	rel := target.Sub(mv.Pos)
	dist := rel.Len()
	if dist <= tol {
		return Estimate{}
	}
	dashDist := dist - tol
	diff := geom.AngleDiff(rel.Dir(), mv.Body)

	if diff <= TurnMargin(dist, tol) {
		return Estimate{Dash: DashCycles(pt, dashDist, false)}
	}
	turn, back := TurnCycles(pt, mv.Speed, diff, dist, tol, allowBack)
	return Estimate{Turn: turn, Dash: DashCycles(pt, dashDist, back), Back: back}
}

// StaminaDash simulates dashing dist metres from an initial forward speed,
// choosing each cycle the strongest power the stamina supports. With
// safeRecovery the power is additionally clamped so stamina never drops
// under the recovery-decay floor. The returned model is the stamina after
// the run; the input model is not modified.
func StaminaDash(pt *rcss.PlayerType, speed float64, stamina rcss.StaminaModel, dist float64, safeRecovery bool) (int, rcss.StaminaModel) {
	sp := pt.Server()
	if dist <= 0 {
		return 0, stamina
	}
	traveled := 0.0
	for n := 1; n <= Horizon; n++ {
		power := stamina.AvailableDashPower(pt)
		if safeRecovery {
			power = stamina.SafetyDashPower(pt, power, 0)
		}
		power = math.Max(0, math.Min(power, sp.MaxDashPower))

		speed += power * pt.DashPowerRate * stamina.Effort
		if speed > pt.SpeedMax {
			speed = pt.SpeedMax
		}
		traveled += speed
		speed *= pt.Decay
		stamina.SimulateDash(pt, power)

		if traveled >= dist {
			return n, stamina
		}
	}
	return Unreachable, stamina
}
