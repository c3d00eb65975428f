package sim

import (
	"math"

	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/rcss"
)

// command is one player's body command for a tick. At most one of turn
// and dash is set; the zero command waits.
type command struct {
	turn float64 // moment
	dash float64 // power, negative backward
}

func fullStamina(ms *Match, p *Player) rcss.StaminaModel {
	return rcss.FullStamina(ms.Core.Types().Get(p.TypeID))
}

// goTo turns toward target when the body is more than turnThreshold off,
// otherwise dashes at full safe power. Inside tol it waits.
func (ms *Match) goTo(p *Player, target geom.Vec2, tol float64) command {
	rel := target.Sub(p.Pos)
	if rel.Len() <= tol {
		return command{}
	}
	pt := ms.Core.Types().Get(p.TypeID)
	diff := geom.NormalizeDeg(rel.Dir() - p.Body)
	if math.Abs(diff) > turnThreshold {
		sp := ms.Core.Params()
		moment := diff * (1 + pt.InertiaMoment*p.Vel.Len())
		return command{turn: math.Max(-sp.MaxMoment, math.Min(sp.MaxMoment, moment))}
	}
	return command{dash: ms.Core.Params().MaxDashPower}
}

// move applies cmd and advances p one cycle.
func (ms *Match) move(p *Player, cmd command) {
	pt := ms.Core.Types().Get(p.TypeID)
	switch {
	case cmd.turn != 0:
		p.Body = geom.NormalizeDeg(p.Body + pt.EffectiveTurn(cmd.turn, p.Vel.Len()))
		p.Stamina.SimulateWait(pt)
	case cmd.dash != 0:
		power := p.Stamina.SafetyDashPower(pt, cmd.dash, 0)
		dir, rate := p.Body, pt.DashRate(0)
		if power < 0 {
			dir, rate = p.Body+180, pt.DashRate(180)
		}
		p.Vel = p.Vel.Add(geom.Polar(math.Abs(power)*pt.DashPowerRate*p.Stamina.Effort*rate, dir))
		if p.Vel.Len() > pt.SpeedMax {
			p.Vel = p.Vel.WithLen(pt.SpeedMax)
		}
		p.Stamina.SimulateDash(pt, power)
	default:
		p.Stamina.SimulateWait(pt)
	}
	p.Pos = p.Pos.Add(p.Vel)
	p.Vel = p.Vel.Scale(pt.Decay)
}
