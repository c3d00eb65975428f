package world

import (
	"fmt"
	"math"
	"sort"

	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/rcss"
)

// GameTime is the server clock. Stopped counts cycles spent in a
// stopped-clock play mode at the same Cycle.
type GameTime struct {
	Cycle   int
	Stopped int
}

func (t GameTime) String() string { return fmt.Sprintf("%d,%d", t.Cycle, t.Stopped) }

// Before reports whether t is earlier than o.
func (t GameTime) Before(o GameTime) bool {
	if t.Cycle != o.Cycle {
		return t.Cycle < o.Cycle
	}
	return t.Stopped < o.Stopped
}

// Next returns the time one running cycle later.
func (t GameTime) Next() GameTime { return GameTime{Cycle: t.Cycle + 1} }

// Model is the per-cycle snapshot. Teammates includes self.
type Model struct {
	Time   GameTime
	Params *rcss.ServerParams
	Types  *rcss.PlayerTypes

	Self      int
	Ball      BallObject
	Teammates []PlayerObject
	Opponents []PlayerObject

	OffsideLineX      float64
	OurDefenseLineX   float64
	TheirDefenseLineX float64
}

// NewModel returns an empty snapshot bound to the match constants.
func NewModel(types *rcss.PlayerTypes) *Model {
	return &Model{Params: types.Server(), Types: types}
}

// SelfPlayer returns our own player object, or nil when it is missing.
func (m *Model) SelfPlayer() *PlayerObject {
	for i := range m.Teammates {
		if m.Teammates[i].Unum == m.Self {
			return &m.Teammates[i]
		}
	}
	return nil
}

// SelfID is self as a PlayerID.
func (m *Model) SelfID() PlayerID { return PlayerID{Side: SideOurs, Unum: m.Self} }

// Player looks up a player by id. Unidentified players cannot be looked up.
func (m *Model) Player(id PlayerID) *PlayerObject {
	if !id.Valid() {
		return nil
	}
	list := m.Teammates
	if id.Side == SideTheirs {
		list = m.Opponents
	}
	for i := range list {
		if list[i].Unum == id.Unum {
			return &list[i]
		}
	}
	return nil
}

// TypeOf resolves the heterogeneous type of p.
func (m *Model) TypeOf(p *PlayerObject) *rcss.PlayerType {
	if p == nil {
		return m.Types.Default()
	}
	return m.Types.Get(p.TypeID)
}

// Kickable reports whether p currently has the ball within kickable area.
func (m *Model) Kickable(p *PlayerObject) bool {
	if !p.PosValid() || !m.Ball.PosValid() {
		return false
	}
	return p.Pos.Dist(m.Ball.Pos) <= m.TypeOf(p).KickableArea()
}

// BallHolder returns the player closest to the ball among those who can
// kick it, or NoPlayer.
func (m *Model) BallHolder() PlayerID {
	best := NoPlayer
	bestDist := math.Inf(1)
	visit := func(list []PlayerObject) {
		for i := range list {
			p := &list[i]
			if !m.Kickable(p) {
				continue
			}
			if d := p.Pos.Dist(m.Ball.Pos); d < bestDist {
				bestDist = d
				best = p.ID()
			}
		}
	}
	visit(m.Teammates)
	visit(m.Opponents)
	return best
}

// OurGoalie returns our goalkeeper's uniform number, or 0.
func (m *Model) OurGoalie() int {
	for _, p := range m.Teammates {
		if p.Goalie {
			return p.Unum
		}
	}
	return 0
}

// UpdateLines derives the offside and defense lines from positions. The
// sensor layer may set them directly instead.
//
//	TheirDefenseLineX: second-deepest opponent x (goalie counted), the
//	                   goal line when fewer than two opponents are known.
//	OffsideLineX:      max(0, ball x, TheirDefenseLineX).
//	OurDefenseLineX:   deepest field player of ours (goalie excluded).
func (m *Model) UpdateLines() {
	m.TheirDefenseLineX = TheirDefenseLine(m.Opponents, m.Params)
	m.OffsideLineX = math.Max(0, math.Max(m.Ball.Pos.X, m.TheirDefenseLineX))
	m.OurDefenseLineX = OurDefenseLine(m.Teammates, m.Params)
}

// TheirDefenseLine returns the x of the second-deepest valid opponent.
func TheirDefenseLine(opps []PlayerObject, sp *rcss.ServerParams) float64 {
	xs := make([]float64, 0, len(opps))
	for i := range opps {
		if opps[i].PosValid() {
			xs = append(xs, opps[i].Pos.X)
		}
	}
	if len(xs) < 2 {
		if sp == nil {
			return 0
		}
		return sp.PitchHalfLength
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(xs)))
	return math.Max(0, xs[1])
}

// OurDefenseLine returns the x of our deepest valid field player.
func OurDefenseLine(mates []PlayerObject, sp *rcss.ServerParams) float64 {
	line := 0.0
	found := false
	for i := range mates {
		p := &mates[i]
		if p.Goalie || !p.PosValid() {
			continue
		}
		if !found || p.Pos.X < line {
			line = p.Pos.X
			found = true
		}
	}
	if !found && sp != nil {
		return -sp.PitchHalfLength
	}
	return line
}

// Each calls fn for every player (teammates first) in slice order.
func (m *Model) Each(fn func(*PlayerObject)) {
	for i := range m.Teammates {
		fn(&m.Teammates[i])
	}
	for i := range m.Opponents {
		fn(&m.Opponents[i])
	}
}

// NearestOpponent returns the valid opponent closest to p and its distance.
func (m *Model) NearestOpponent(p geom.Vec2) (*PlayerObject, float64) {
	var best *PlayerObject
	bestDist := math.Inf(1)
	for i := range m.Opponents {
		o := &m.Opponents[i]
		if !o.PosValid() {
			continue
		}
		if d := o.Pos.Dist(p); d < bestDist {
			best, bestDist = o, d
		}
	}
	return best, bestDist
}
