package chain

import (
	"math"
	"slices"

	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/rcss"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// State is one predicted game state, a search-tree node. A State is never
// modified once built; Next returns a new State and shares the player
// slice with its parent until a player actually changes.
type State struct {
	types *rcss.PlayerTypes

	ball    world.BallObject
	self    int
	players []world.PlayerObject // teammates first, then opponents
	mates   int
	holder  world.PlayerID
	spent   int

	offsideX  float64
	ourDefX   float64
	theirDefX float64
}

// NewRootState builds the depth-0 state from the live model. The holder is
// whoever can kick the ball now.
func NewRootState(m *world.Model) State {
	players := make([]world.PlayerObject, 0, len(m.Teammates)+len(m.Opponents))
	players = append(players, m.Teammates...)
	players = append(players, m.Opponents...)
	return State{
		types:     m.Types,
		ball:      m.Ball,
		self:      m.Self,
		players:   players,
		mates:     len(m.Teammates),
		holder:    m.BallHolder(),
		offsideX:  m.OffsideLineX,
		ourDefX:   m.OurDefenseLineX,
		theirDefX: m.TheirDefenseLineX,
	}
}

func (s State) Ball() world.BallObject          { return s.ball }
func (s State) Holder() world.PlayerID          { return s.holder }
func (s State) SelfUnum() int                   { return s.self }
func (s State) Spent() int                      { return s.spent }
func (s State) OffsideLineX() float64           { return s.offsideX }
func (s State) OurDefenseLineX() float64        { return s.ourDefX }
func (s State) TheirDefenseLineX() float64      { return s.theirDefX }
func (s State) Types() *rcss.PlayerTypes        { return s.types }
func (s State) Params() *rcss.ServerParams      { return s.types.Server() }
func (s State) Teammates() []world.PlayerObject { return s.players[:s.mates] }
func (s State) Opponents() []world.PlayerObject { return s.players[s.mates:] }

// OurBall reports whether one of our players holds the ball.
func (s State) OurBall() bool { return s.holder.Side == world.SideOurs && s.holder.Unum > 0 }

// Player returns a copy of the player with id.
func (s State) Player(id world.PlayerID) (world.PlayerObject, bool) {
	i := s.index(id)
	if i < 0 {
		return world.PlayerObject{}, false
	}
	return s.players[i], true
}

// Teammate is Player for one of ours.
func (s State) Teammate(unum int) (world.PlayerObject, bool) {
	return s.Player(world.PlayerID{Side: world.SideOurs, Unum: unum})
}

// TypeOf resolves the heterogeneous type of p.
func (s State) TypeOf(p *world.PlayerObject) *rcss.PlayerType {
	return s.types.Get(p.TypeID)
}

func (s State) index(id world.PlayerID) int {
	if !id.Valid() {
		return -1
	}
	lo, hi := 0, s.mates
	if id.Side == world.SideTheirs {
		lo, hi = s.mates, len(s.players)
	}
	for i := lo; i < hi; i++ {
		if s.players[i].Unum == id.Unum {
			return i
		}
	}
	return -1
}

// Move places one player at the end of an action.
type Move struct {
	ID   world.PlayerID
	Pos  geom.Vec2
	Body float64
}

// Next returns the state steps cycles later: the ball takes the given
// position and velocity, holder takes the ball, every player named in moves
// is placed where the action leaves it and every other player coasts by
// inertia. The parent is left untouched.
func (s State) Next(steps int, ball world.BallObject, holder world.PlayerID, moves ...Move) State {
	next := s
	next.ball = ball
	next.holder = holder
	next.spent = s.spent + steps

	cloned := false
	mutate := func() {
		if !cloned {
			next.players = slices.Clone(s.players)
			cloned = true
		}
	}

	if steps > 0 {
		for i := range s.players {
			p := &s.players[i]
			if p.Vel.Len2() < 1e-12 || moved(moves, p.ID()) {
				continue
			}
			mutate()
			pt := s.types.Get(p.TypeID)
			q := &next.players[i]
			q.Pos = pt.InertiaPoint(p.Pos, p.Vel, steps)
			q.Vel = p.Vel.Scale(math.Pow(pt.Decay, float64(steps)))
		}
	}
	for _, mv := range moves {
		i := s.index(mv.ID)
		if i < 0 {
			continue
		}
		mutate()
		q := &next.players[i]
		q.Pos = mv.Pos
		q.Vel = geom.Vec2{}
		q.Body = mv.Body
	}

	if cloned {
		sp := s.types.Server()
		next.theirDefX = world.TheirDefenseLine(next.Opponents(), sp)
		next.ourDefX = world.OurDefenseLine(next.Teammates(), sp)
	}
	next.offsideX = math.Max(0, math.Max(ball.Pos.X, next.theirDefX))
	return next
}

func moved(moves []Move, id world.PlayerID) bool {
	for _, mv := range moves {
		if mv.ID == id {
			return true
		}
	}
	return false
}

// Pair is one chain step: the action and the state it leads to.
type Pair struct {
	Action Action
	State  State
}

// Path is a chain, root to leaf.
type Path []Pair

// Last returns the final state of p, or root when p is empty.
func (p Path) Last(root State) State {
	if len(p) == 0 {
		return root
	}
	return p[len(p)-1].State
}

// First returns the first action and whether there is one.
func (p Path) First() (Action, bool) {
	if len(p) == 0 {
		return Action{}, false
	}
	return p[0].Action, true
}

// Extend returns a new path with pair appended. p is never modified.
func (p Path) Extend(pair Pair) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, pair)
}

// Actions lists the actions of the path in order.
func (p Path) Actions() []Action {
	out := make([]Action, len(p))
	for i, pr := range p {
		out[i] = pr.Action
	}
	return out
}
