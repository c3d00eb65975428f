// Package tackle searches short turn-then-dash sequences that leave the
// player with a good tackle on a moving ball, for tackles and shot blocks.
package tackle

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/rcss"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// Config bounds the search.
type Config struct {
	MaxBallCycle  int     `mapstructure:"maxBallCycle"`  // furthest ball projection tried
	MaxTurns      int     `mapstructure:"maxTurns"`      // turn cycles before dashing
	EarlyExit     float64 `mapstructure:"earlyExit"`     // stop once a plan reaches this probability
	StaminaBuffer float64 `mapstructure:"staminaBuffer"` // dashes keep this much above the recovery floor
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{MaxBallCycle: 30, MaxTurns: 3, EarlyExit: 0.95, StaminaBuffer: 0}
}

// Solution is a tackle plan: TurnCycles turns, DashCycles dashes, then
// waiting until BallCycle, when the tackle is made. TurnMoment and
// DashPower are the first commands to send. A negative DashPower is a
// back dash.
type Solution struct {
	BallCycle   int
	TurnCycles  int
	DashCycles  int
	TurnMoment  float64
	DashPower   float64
	Probability float64

	ok bool
}

// OK reports whether the plan beats tackling right now.
func (s Solution) OK() bool { return s.ok }

// Simulator plans tackles. It is stateless apart from its configuration.
type Simulator struct {
	sp  *rcss.ServerParams
	cfg Config
	log zerolog.Logger
}

// NewSimulator builds a simulator.
func NewSimulator(sp *rcss.ServerParams, cfg Config, log zerolog.Logger) *Simulator {
	if cfg.MaxBallCycle <= 0 {
		cfg.MaxBallCycle = DefaultConfig().MaxBallCycle
	}
	return &Simulator{sp: sp, cfg: cfg, log: log}
}

// Config returns the simulator configuration.
func (s *Simulator) Config() Config { return s.cfg }

// Current is the tackle probability if self tackled this cycle.
func (s *Simulator) Current(self *world.PlayerObject, ball world.BallObject) float64 {
	return s.sp.TackleProbability(self.Pos, self.Body, ball.Pos)
}

// Plan searches ball cycles 1..MaxBallCycle for the sequence with the best
// tackle probability on ball's inertial path. The result is OK only when
// it beats tackling now and beats a single turn or a single dash.
func (s *Simulator) Plan(self *world.PlayerObject, pt *rcss.PlayerType, ball world.BallObject) Solution {
	return s.plan(self, pt, ball, s.cfg.MaxBallCycle)
}

// PlanBlock is Plan against a shot kicked from `from` toward target at
// speed. Only cycles before the ball arrives are considered.
func (s *Simulator) PlanBlock(self *world.PlayerObject, pt *rcss.PlayerType, from, target geom.Vec2, speed float64) Solution {
	shot := world.BallObject{Pos: from, Vel: target.Sub(from).WithLen(speed)}
	steps := s.sp.BallMoveSteps(speed, from.Dist(target))
	return s.plan(self, pt, shot, min(steps, s.cfg.MaxBallCycle))
}

func (s *Simulator) plan(self *world.PlayerObject, pt *rcss.PlayerType, ball world.BallObject, maxCycle int) Solution {
	if !self.PosValid() || pt == nil {
		return Solution{}
	}
	stamina := self.Stamina
	if stamina.Effort <= 0 {
		stamina = rcss.FullStamina(pt)
	}
	start := body{pos: self.Pos, vel: self.Vel, dir: self.Body, stamina: stamina}

	best := Solution{Probability: s.Current(self, ball)}
	for _, alt := range s.oneStep(start, pt, ball) {
		if alt.Probability > best.Probability {
			best = alt
		}
	}
	if best.Probability >= s.cfg.EarlyExit {
		return best
	}

	for c := 1; c <= maxCycle; c++ {
		ballPos := ball.InertiaPoint(s.sp, c)
		if !s.sp.InPitch(ballPos, 0) {
			break
		}
		for turns := 0; turns <= min(s.cfg.MaxTurns, c); turns++ {
			for _, back := range []bool{false, true} {
				if back && s.sp.MinDashPower >= 0 {
					continue
				}
				sol, found := s.try(start, pt, ballPos, c, turns, back, best.Probability)
				if !found {
					continue
				}
				best = sol
				if best.Probability >= s.cfg.EarlyExit {
					s.logPlan(best)
					return best
				}
			}
		}
	}
	if best.ok {
		s.logPlan(best)
	}
	return best
}

// oneStep evaluates a single turn at the ball and a single full dash, both
// scored against the ball one cycle ahead.
func (s *Simulator) oneStep(start body, pt *rcss.PlayerType, ball world.BallObject) []Solution {
	next := ball.InertiaPoint(s.sp, 1)

	turned := start
	moment := turned.turnToward(pt, next.Sub(turned.pos).Dir())
	turned.wait(pt)

	dashed := start
	power := dashed.dash(pt, s.sp.MaxDashPower, s.cfg.StaminaBuffer)

	return []Solution{
		{BallCycle: 1, TurnCycles: 1, TurnMoment: moment, ok: true,
			Probability: s.sp.TackleProbability(turned.pos, turned.dir, next)},
		{BallCycle: 1, DashCycles: 1, DashPower: power, ok: true,
			Probability: s.sp.TackleProbability(dashed.pos, dashed.dir, next)},
	}
}

// try runs turns turn cycles toward ballPos (away from it for a back
// dash), then for every dash count up to what is left of c dashes and
// coasts. It returns the best outcome above floor.
func (s *Simulator) try(start body, pt *rcss.PlayerType, ballPos geom.Vec2, c, turns int, back bool, floor float64) (Solution, bool) {
	b := start
	var firstMoment float64
	for i := 0; i < turns; i++ {
		face := ballPos.Sub(b.pos).Dir()
		if back {
			face += 180
		}
		m := b.turnToward(pt, face)
		if i == 0 {
			firstMoment = m
		}
		b.wait(pt)
	}

	power := s.sp.MaxDashPower
	if back {
		power = s.sp.MinDashPower
	}

	var best Solution
	found := false
	for dashes := 0; dashes <= c-turns; dashes++ {
		d := b
		var firstPower float64
		for i := 0; i < dashes; i++ {
			p := d.dash(pt, power, s.cfg.StaminaBuffer)
			if i == 0 {
				firstPower = p
			}
		}
		for i := dashes; i < c-turns; i++ {
			d.wait(pt)
		}
		prob := s.sp.TackleProbability(d.pos, d.dir, ballPos)
		if prob > floor {
			floor = prob
			best = Solution{
				BallCycle:   c,
				TurnCycles:  turns,
				DashCycles:  dashes,
				TurnMoment:  firstMoment,
				DashPower:   firstPower,
				Probability: prob,
				ok:          true,
			}
			found = true
		}
	}
	return best, found
}

func (s *Simulator) logPlan(sol Solution) {
	s.log.Debug().
		Int("ballCycle", sol.BallCycle).
		Int("turns", sol.TurnCycles).
		Int("dashes", sol.DashCycles).
		Float64("probability", sol.Probability).
		Msg("tackle plan")
}

// body is the simulated self.
type body struct {
	pos, vel geom.Vec2
	dir      float64
	stamina  rcss.StaminaModel
}

// turnToward turns as far as one cycle allows toward face and returns the
// moment commanded. Callers advance the cycle with wait.
func (b *body) turnToward(pt *rcss.PlayerType, face float64) float64 {
	sp := pt.Server()
	need := geom.NormalizeDeg(face - b.dir)
	speed := b.vel.Len()
	moment := need * (1 + pt.InertiaMoment*speed)
	moment = math.Max(-sp.MaxMoment, math.Min(sp.MaxMoment, moment))
	b.dir = geom.NormalizeDeg(b.dir + pt.EffectiveTurn(moment, speed))
	return moment
}

// wait advances one cycle without dashing.
func (b *body) wait(pt *rcss.PlayerType) {
	b.pos = b.pos.Add(b.vel)
	b.vel = b.vel.Scale(pt.Decay)
	b.stamina.SimulateWait(pt)
}

// dash dashes along the body direction (negative power backward) and
// advances one cycle. It returns the power actually used.
func (b *body) dash(pt *rcss.PlayerType, power, buffer float64) float64 {
	power = b.stamina.SafetyDashPower(pt, power, buffer)
	dir := b.dir
	rate := pt.DashRate(0)
	if power < 0 {
		dir += 180
		rate = pt.DashRate(180)
	}
	accel := math.Abs(power) * pt.DashPowerRate * b.stamina.Effort * rate
	b.vel = b.vel.Add(geom.Polar(accel, dir))
	if v := b.vel.Len(); v > pt.SpeedMax {
		b.vel = b.vel.WithLen(pt.SpeedMax)
	}
	b.pos = b.pos.Add(b.vel)
	b.vel = b.vel.Scale(pt.Decay)
	b.stamina.SimulateDash(pt, power)
	return power
}
