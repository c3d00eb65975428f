package predict

import (
	"github.com/rs/zerolog"

	"github.com/Garsondee/Striker-Sense/internal/world"
)

// Table is the per-cycle fastest-reach summary for the live ball.
type Table struct {
	Time world.GameTime

	SelfCycle int
	MateCycle int
	Mate      world.PlayerID
	OppCycle  int
	Opp       world.PlayerID

	// Cycles holds every identified player's reach cycle. Players without
	// a valid position are absent.
	Cycles map[world.PlayerID]int
}

// Cycle returns the reach cycle recorded for id, or Unreachable.
func (t *Table) Cycle(id world.PlayerID) int {
	if c, ok := t.Cycles[id]; ok {
		return c
	}
	return Unreachable
}

// FastestSide reports which team gets to the ball first. Ties go to us.
func (t *Table) FastestSide() world.Side {
	ours := min(t.SelfCycle, t.MateCycle)
	switch {
	case ours >= Unreachable && t.OppCycle >= Unreachable:
		return world.SideUnknown
	case ours <= t.OppCycle:
		return world.SideOurs
	default:
		return world.SideTheirs
	}
}

// Cache memoizes the Table for one game time. It is the only state that
// survives between decisions.
type Cache struct {
	pr    *Predictor
	log   zerolog.Logger
	table *Table

	computations int
}

// NewCache wraps pr. A zero logger is fine; pass zerolog.Nop() to silence.
func NewCache(pr *Predictor, log zerolog.Logger) *Cache {
	return &Cache{pr: pr, log: log}
}

// Predictor returns the underlying predictor.
func (c *Cache) Predictor() *Predictor { return c.pr }

// Invalidate drops the cached table unless it was built for now.
func (c *Cache) Invalidate(now world.GameTime) {
	if c.table != nil && c.table.Time != now {
		c.log.Debug().Str("from", c.table.Time.String()).Str("to", now.String()).Msg("intercept table invalidated")
		c.table = nil
	}
}

// Table returns the table for m.Time, computing it on first use in a cycle.
func (c *Cache) Table(m *world.Model) *Table {
	c.Invalidate(m.Time)
	if c.table == nil {
		c.table = c.compute(m)
		c.computations++
	}
	return c.table
}

// Computations counts how many tables have been built.
func (c *Cache) Computations() int { return c.computations }

func (c *Cache) compute(m *world.Model) *Table {
	cfg := c.pr.Config()
	t := &Table{
		Time:      m.Time,
		SelfCycle: Unreachable,
		MateCycle: Unreachable,
		OppCycle:  Unreachable,
		Cycles:    make(map[world.PlayerID]int, len(m.Teammates)+len(m.Opponents)),
	}
	if !m.Ball.PosValid() {
		c.log.Warn().Str("time", m.Time.String()).Msg("ball position invalid, table left unreachable")
		return t
	}
	ball := c.pr.BallTarget(m.Ball)

	for i := range m.Teammates {
		p := &m.Teammates[i]
		if !p.PosValid() {
			continue
		}
		self := p.Unum == m.Self
		cyc := c.pr.ReachCycle(p, m.TypeOf(p), self, ball, ReachOptions{SafeRecovery: self})
		if p.Unum > 0 {
			t.Cycles[p.ID()] = cyc
		}
		if self {
			t.SelfCycle = cyc
		} else if cyc < t.MateCycle {
			t.MateCycle = cyc
			t.Mate = p.ID()
		}
	}
	for i := range m.Opponents {
		p := &m.Opponents[i]
		if !p.PosValid() {
			continue
		}
		cyc := c.pr.ReachCycle(p, m.TypeOf(p), false, ball, ReachOptions{
			ObservationPenalty: cfg.OpponentObservationPenalty,
		})
		if p.Unum > 0 {
			t.Cycles[p.ID()] = cyc
		}
		if cyc < t.OppCycle {
			t.OppCycle = cyc
			t.Opp = p.ID()
		}
	}

	c.log.Debug().
		Str("time", m.Time.String()).
		Int("self", t.SelfCycle).
		Int("mate", t.MateCycle).
		Str("mateID", t.Mate.String()).
		Int("opp", t.OppCycle).
		Str("oppID", t.Opp.String()).
		Msg("intercept table")
	return t
}
