// Package sim is a headless match harness that drives the decision core
// every cycle: chain search for the ball holder, tackle planning against
// an opponent holder, interception otherwise, and a simplified version of
// the soccer server's physics.
package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Striker-Sense/internal/chain"
	"github.com/Garsondee/Striker-Sense/internal/config"
	"github.com/Garsondee/Striker-Sense/internal/geom"
	"github.com/Garsondee/Striker-Sense/internal/predict"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// Tuning of the harness itself. The decision core's tuning lives in config.
const (
	tackleThreshold = 0.6  // tackle when the current probability reaches this
	tackleKickSpeed = 2.0  // ball speed after a won tackle
	turnThreshold   = 15.0 // degrees off before a mover turns instead of dashing
	homeShift       = 0.3  // formation slots follow the ball x by this share
	oppDribbleSpeed = 0.8
	oppShootDist    = 20.0
)

// Score counts goals.
type Score struct {
	Ours, Theirs int
}

// Player is one simulated player. Home is its formation slot.
type Player struct {
	world.PlayerObject
	Home geom.Vec2
}

// Decision is one choice made by our decision core during a cycle.
type Decision struct {
	Cycle  int
	Player world.PlayerID
	Kind   string // chain action kind, or "tackle"
	Action string

	Score       float64
	Depth       int
	Evaluations int
	Expanded    int
	Elapsed     time.Duration
	Exhausted   bool

	Ball        geom.Vec2
	Probability float64
	Chain       []string // labels of the chosen chain
}

// Match is a headless match between our decision core and a scripted
// opponent. Our team attacks toward +x.
type Match struct {
	Core   *Core
	Ball   world.BallObject
	Ours   []*Player
	Theirs []*Player
	Score  Score
	SimLog *SimLog

	// Self is the focus player: the intercept table and the viewer's
	// inspector follow it.
	Self int

	cfg   config.Config
	log   zerolog.Logger
	ctx   context.Context
	rng   *rand.Rand
	cache *predict.Cache
	hooks []func(Decision)

	tick   int
	holder world.PlayerID
	chaser world.PlayerID
	last   *Decision
	kick   *geom.Vec2 // first kick of the current tick
}

// optionKind controls the pass in which an option is applied.
type optionKind int

const (
	optInfra  optionKind = iota // seed, config, logger, verbose: applied first
	optPlayer                   // add players: applied after the core is built
	optLate                     // ball and per-player tweaks: applied last
)

// Option is a builder function applied to a Match during construction.
type Option struct {
	kind optionKind
	fn   func(*Match)
}

// WithSeed sets the RNG seed used for tackle outcomes.
func WithSeed(seed int64) Option {
	return Option{optInfra, func(ms *Match) {
		ms.rng = rand.New(rand.NewSource(seed))
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) Option {
	return Option{optInfra, func(ms *Match) {
		ms.SimLog = NewSimLog(v)
	}}
}

// WithConfig replaces the default configuration.
func WithConfig(cfg config.Config) Option {
	return Option{optInfra, func(ms *Match) {
		ms.cfg = cfg
	}}
}

// WithLogger sets the logger handed to the decision core.
func WithLogger(l zerolog.Logger) Option {
	return Option{optInfra, func(ms *Match) {
		ms.log = l
	}}
}

// WithContext bounds every chain search by ctx.
func WithContext(ctx context.Context) Option {
	return Option{optInfra, func(ms *Match) {
		ms.ctx = ctx
	}}
}

// WithDecisionHook registers fn to be called for every decision.
func WithDecisionHook(fn func(Decision)) Option {
	return Option{optInfra, func(ms *Match) {
		ms.hooks = append(ms.hooks, fn)
	}}
}

// WithSelf sets the focus player.
func WithSelf(unum int) Option {
	return Option{optInfra, func(ms *Match) {
		ms.Self = unum
	}}
}

// WithTeammate adds one of our field players with its home at (x,y).
func WithTeammate(unum int, x, y float64) Option {
	return Option{optPlayer, func(ms *Match) {
		ms.addPlayer(world.SideOurs, unum, x, y, false)
	}}
}

// WithGoalie adds our goalkeeper.
func WithGoalie(unum int, x, y float64) Option {
	return Option{optPlayer, func(ms *Match) {
		ms.addPlayer(world.SideOurs, unum, x, y, true)
	}}
}

// WithOpponent adds an opponent field player.
func WithOpponent(unum int, x, y float64) Option {
	return Option{optPlayer, func(ms *Match) {
		ms.addPlayer(world.SideTheirs, unum, x, y, false)
	}}
}

// WithOpponentGoalie adds the opponent goalkeeper.
func WithOpponentGoalie(unum int, x, y float64) Option {
	return Option{optPlayer, func(ms *Match) {
		ms.addPlayer(world.SideTheirs, unum, x, y, true)
	}}
}

// WithBall places the ball.
func WithBall(x, y, vx, vy float64) Option {
	return Option{optLate, func(ms *Match) {
		ms.Ball = world.BallObject{Pos: geom.V(x, y), Vel: geom.V(vx, vy)}
	}}
}

// WithPlayerType assigns a heterogeneous type to an existing player.
func WithPlayerType(side world.Side, unum, typeID int) Option {
	return Option{optLate, func(ms *Match) {
		if p := ms.Player(world.PlayerID{Side: side, Unum: unum}); p != nil {
			p.TypeID = typeID
			p.Stamina = fullStamina(ms, p)
		}
	}}
}

// NewMatch builds a match in ordered passes:
//  1. Infrastructure (seed, config, logger, verbose, hooks)
//  2. Decision core
//  3. Players
//  4. Ball and per-player tweaks
func NewMatch(opts ...Option) (*Match, error) {
	ms := &Match{
		SimLog: NewSimLog(false),
		cfg:    config.Default(),
		log:    zerolog.Nop(),
		ctx:    context.Background(),
		rng:    rand.New(rand.NewSource(1)),
	}
	for _, o := range opts {
		if o.kind == optInfra {
			o.fn(ms)
		}
	}
	core, err := NewCore(ms.cfg, ms.log)
	if err != nil {
		return nil, err
	}
	ms.Core = core
	ms.cache = predict.NewCache(core.Predictor(), ms.log)

	for _, o := range opts {
		if o.kind == optPlayer {
			o.fn(ms)
		}
	}
	for _, o := range opts {
		if o.kind == optLate {
			o.fn(ms)
		}
	}
	if len(ms.Ours) == 0 {
		return nil, fmt.Errorf("match needs at least one of our players")
	}
	if ms.Player(world.PlayerID{Side: world.SideOurs, Unum: ms.Self}) == nil {
		ms.Self = ms.Ours[0].Unum
	}
	return ms, nil
}

func (ms *Match) addPlayer(side world.Side, unum int, x, y float64, goalie bool) {
	body := 0.0
	if side == world.SideTheirs {
		body = 180
	}
	p := &Player{
		PlayerObject: world.PlayerObject{
			Side:   side,
			Unum:   unum,
			Goalie: goalie,
			Pos:    geom.V(x, y),
			Body:   body,
		},
		Home: geom.V(x, y),
	}
	p.Stamina = fullStamina(ms, p)
	if side == world.SideOurs {
		ms.Ours = append(ms.Ours, p)
	} else {
		ms.Theirs = append(ms.Theirs, p)
	}
}

// Player looks a player up by id.
func (ms *Match) Player(id world.PlayerID) *Player {
	list := ms.Ours
	if id.Side == world.SideTheirs {
		list = ms.Theirs
	}
	for _, p := range list {
		if p.Unum == id.Unum {
			return p
		}
	}
	return nil
}

// CurrentTick returns the current simulation tick.
func (ms *Match) CurrentTick() int {
	return ms.tick
}

// Holder returns who had the ball at the start of the last tick.
func (ms *Match) Holder() world.PlayerID {
	return ms.holder
}

// LastDecision returns the most recent decision, if any.
func (ms *Match) LastDecision() (Decision, bool) {
	if ms.last == nil {
		return Decision{}, false
	}
	return *ms.last, true
}

// Model builds the world as seen by our player self: complete, fresh
// observations of everyone.
func (ms *Match) Model(self int) *world.Model {
	m := world.NewModel(ms.Core.Types())
	m.Time = world.GameTime{Cycle: ms.tick}
	m.Self = self
	m.Ball = ms.Ball
	m.Teammates = make([]world.PlayerObject, len(ms.Ours))
	for i, p := range ms.Ours {
		m.Teammates[i] = p.PlayerObject
	}
	m.Opponents = make([]world.PlayerObject, len(ms.Theirs))
	for i, p := range ms.Theirs {
		m.Opponents[i] = p.PlayerObject
	}
	m.UpdateLines()
	return m
}

// Table returns the focus player's intercept table for the current tick.
func (ms *Match) Table() *predict.Table {
	return ms.cache.Table(ms.Model(ms.Self))
}

// Cache exposes the focus player's intercept cache.
func (ms *Match) Cache() *predict.Cache {
	return ms.cache
}

// RunTicks advances the match n ticks.
func (ms *Match) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ms.Step()
	}
}

// RunUntil advances the match up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ms *Match) RunUntil(predicate func(*Match) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ms.Step()
		if predicate(ms) {
			return ms.tick
		}
	}
	return -1
}

// Step runs one cycle: sense, decide for both teams, then move.
func (ms *Match) Step() {
	ms.tick++
	ms.kick = nil
	cmds := make(map[world.PlayerID]command, len(ms.Ours)+len(ms.Theirs))

	m := ms.Model(ms.Self)
	table := ms.cache.Table(m)
	holder := m.BallHolder()
	if holder != ms.holder {
		ms.SimLog.Add(ms.tick, holder.String(), holder.Side.String(), "ball", "possession",
			fmt.Sprintf("%s → %s", ms.holder, holder), 0)
		ms.holder = holder
	}

	switch holder.Side {
	case world.SideOurs:
		ms.attack(holder, cmds)
	case world.SideTheirs:
		ms.defend(table, cmds)
	default:
		ms.intercept(table, cmds)
	}
	ms.opponents(holder, cmds)
	ms.support(cmds)

	if ms.kick != nil {
		ms.Ball.Vel = *ms.kick
	}
	for _, p := range ms.Ours {
		ms.move(p, cmds[p.ID()])
	}
	for _, p := range ms.Theirs {
		ms.move(p, cmds[p.ID()])
	}
	ms.Ball.Pos = ms.Ball.Pos.Add(ms.Ball.Vel)
	ms.Ball.Vel = ms.Ball.Vel.Scale(ms.Core.Params().BallDecay)

	ms.checkBall()
	ms.logVerbose()
}

func chainLabels(p chain.Path) []string {
	labels := make([]string, 0, len(p))
	for _, a := range p.Actions() {
		labels = append(labels, a.String())
	}
	return labels
}

// attack runs the chain search for our ball holder and executes the first
// action of the best chain.
func (ms *Match) attack(holder world.PlayerID, cmds map[world.PlayerID]command) {
	res := ms.Core.Search(ms.ctx, ms.Model(holder.Unum))
	a, ok := res.Best()
	if !ok {
		ms.SimLog.Add(ms.tick, holder.String(), "ours", "decision", "none", "no candidate action", 0)
		cmds[holder] = command{}
		return
	}
	ms.record(Decision{
		Cycle:       ms.tick,
		Player:      holder,
		Kind:        a.Kind.String(),
		Action:      a.String(),
		Score:       res.Score,
		Depth:       len(res.Path),
		Evaluations: res.Evaluations,
		Expanded:    res.Expanded,
		Elapsed:     res.Elapsed,
		Exhausted:   res.Exhausted,
		Ball:        ms.Ball.Pos,
		Chain:       chainLabels(res.Path),
	})
	ms.SimLog.Add(ms.tick, holder.String(), "ours", "decision", "chain", a.String(), res.Score)

	// Holding stops the ball at the holder's feet.
	vel := a.FirstBallVel
	if limit := ms.Core.Params().BallSpeedMax; vel.Len() > limit {
		vel = vel.WithLen(limit)
	}
	ms.kickBall(vel)
	cmds[holder] = command{}
}

// defend sends our fastest player at an opponent holder: tackle when the
// odds are good enough, otherwise follow the tackle planner.
func (ms *Match) defend(table *predict.Table, cmds map[world.PlayerID]command) {
	id, _ := ms.fastestOurs(table)
	p := ms.Player(id)
	if p == nil {
		return
	}
	planner := ms.Core.Tackle()
	if prob := planner.Current(&p.PlayerObject, ms.Ball); prob >= tackleThreshold {
		won := ms.rng.Float64() < prob
		ms.SimLog.Add(ms.tick, id.String(), "ours", "tackle", "attempt", fmt.Sprintf("p=%.2f", prob), prob)
		ms.record(Decision{Cycle: ms.tick, Player: id, Kind: "tackle", Action: fmt.Sprintf("tackle p=%.2f", prob), Ball: ms.Ball.Pos, Probability: prob})
		if won {
			ms.SimLog.Add(ms.tick, id.String(), "ours", "tackle", "won", "", prob)
			goal := ms.Core.Params().TheirGoal()
			ms.kickBall(goal.Sub(ms.Ball.Pos).WithLen(tackleKickSpeed))
		}
		cmds[id] = command{}
		return
	}

	pt := ms.Core.Types().Get(p.TypeID)
	sol := planner.Plan(&p.PlayerObject, pt, ms.Ball)
	if !sol.OK() {
		cmds[id] = ms.goTo(p, ms.Ball.Pos, pt.KickableArea())
		return
	}
	ms.SimLog.AddVerbose(ms.tick, id.String(), "ours", "tackle", "plan",
		fmt.Sprintf("cycle=%d turns=%d dashes=%d p=%.2f", sol.BallCycle, sol.TurnCycles, sol.DashCycles, sol.Probability),
		sol.Probability)
	switch {
	case sol.TurnCycles > 0:
		cmds[id] = command{turn: sol.TurnMoment}
	case sol.DashCycles > 0:
		cmds[id] = command{dash: sol.DashPower}
	default:
		cmds[id] = command{}
	}
}

// intercept sends our fastest player to where it meets the loose ball.
func (ms *Match) intercept(table *predict.Table, cmds map[world.PlayerID]command) {
	id, cyc := ms.fastestOurs(table)
	p := ms.Player(id)
	if p == nil {
		return
	}
	if id != ms.chaser {
		ms.SimLog.Add(ms.tick, id.String(), "ours", "intercept", "chaser",
			fmt.Sprintf("reach in %d", cyc), float64(cyc))
		ms.chaser = id
	}
	target := ms.Ball.Pos
	if cyc < predict.Unreachable {
		target = ms.Ball.InertiaPoint(ms.Core.Params(), cyc)
	}
	pt := ms.Core.Types().Get(p.TypeID)
	cmds[id] = ms.goTo(p, target, pt.KickableArea()*0.5)
}

// opponents scripts the other team: the holder dribbles at our goal and
// shoots from close range, the nearest player chases, the goalie tracks
// the ball along its line and clears anything it gets.
func (ms *Match) opponents(holder world.PlayerID, cmds map[world.PlayerID]command) {
	sp := ms.Core.Params()
	ourGoal := sp.OurGoal()

	var chaser *Player
	best := math.Inf(1)
	for _, p := range ms.Theirs {
		if p.Goalie {
			continue
		}
		if d := p.Pos.Dist(ms.Ball.Pos); d < best {
			best, chaser = d, p
		}
	}

	for _, p := range ms.Theirs {
		id := p.ID()
		pt := ms.Core.Types().Get(p.TypeID)
		switch {
		case id == holder && p.Goalie:
			side := 1.0
			if ms.Ball.Pos.Y < 0 {
				side = -1
			}
			ms.kickBall(geom.V(0, side*20).Sub(ms.Ball.Pos).WithLen(sp.BallSpeedMax))
			cmds[id] = command{}
		case id == holder:
			if ms.Ball.Pos.Dist(ourGoal) < oppShootDist {
				aim := ourGoal.Add(geom.V(0, 3))
				if ms.tick%2 == 0 {
					aim = ourGoal.Add(geom.V(0, -3))
				}
				ms.kickBall(aim.Sub(ms.Ball.Pos).WithLen(sp.BallSpeedMax))
			} else {
				ms.kickBall(ourGoal.Sub(ms.Ball.Pos).WithLen(oppDribbleSpeed))
			}
			cmds[id] = command{}
		case p.Goalie:
			y := math.Max(-sp.GoalHalfWidth, math.Min(sp.GoalHalfWidth, ms.Ball.Pos.Y))
			cmds[id] = ms.goTo(p, geom.V(p.Home.X, y), 0.5)
		case p == chaser:
			cmds[id] = ms.goTo(p, ms.Ball.Pos, pt.KickableArea()*0.5)
		}
	}
}

// support moves everyone without an order back toward a home slot that
// follows the ball up and down the pitch.
func (ms *Match) support(cmds map[world.PlayerID]command) {
	sp := ms.Core.Params()
	limit := sp.PitchHalfLength - 2
	for _, list := range [][]*Player{ms.Ours, ms.Theirs} {
		for _, p := range list {
			if _, ok := cmds[p.ID()]; ok {
				continue
			}
			target := p.Home
			if !p.Goalie {
				target.X = math.Max(-limit, math.Min(limit, p.Home.X+ms.Ball.Pos.X*homeShift))
			}
			cmds[p.ID()] = ms.goTo(p, target, 1.0)
		}
	}
}

// kickBall records the tick's kick. Our team decides first, so an
// opponent kick in the same tick is ignored.
func (ms *Match) kickBall(vel geom.Vec2) {
	if ms.kick != nil {
		return
	}
	ms.kick = &vel
}

func (ms *Match) fastestOurs(table *predict.Table) (world.PlayerID, int) {
	id := world.NoPlayer
	best := math.MaxInt
	for _, p := range ms.Ours {
		if c := table.Cycle(p.ID()); c < best {
			best, id = c, p.ID()
		}
	}
	return id, best
}

func (ms *Match) record(d Decision) {
	ms.last = &d
	for _, fn := range ms.hooks {
		fn(d)
	}
}

// checkBall scores goals and restarts from the centre spot when the ball
// leaves the pitch.
func (ms *Match) checkBall() {
	sp := ms.Core.Params()
	pos := ms.Ball.Pos
	switch {
	case sp.InTheirGoal(pos):
		ms.Score.Ours++
		ms.SimLog.Add(ms.tick, "--", "--", "ball", "goal", "ours", float64(ms.Score.Ours))
	case sp.InOurGoal(pos):
		ms.Score.Theirs++
		ms.SimLog.Add(ms.tick, "--", "--", "ball", "goal", "theirs", float64(ms.Score.Theirs))
	case !sp.InPitch(pos, 0):
		ms.SimLog.Add(ms.tick, "--", "--", "ball", "out", fmt.Sprintf("(%.1f,%.1f)", pos.X, pos.Y), 0)
	default:
		return
	}
	ms.restart()
}

func (ms *Match) restart() {
	ms.Ball = world.BallObject{}
	for _, list := range [][]*Player{ms.Ours, ms.Theirs} {
		for _, p := range list {
			p.Pos = p.Home
			p.Vel = geom.Vec2{}
			p.Body = 0
			if p.Side == world.SideTheirs {
				p.Body = 180
			}
		}
	}
	ms.chaser = world.NoPlayer
}

func (ms *Match) logVerbose() {
	if !ms.SimLog.Verbose() {
		return
	}
	for _, list := range [][]*Player{ms.Ours, ms.Theirs} {
		for _, p := range list {
			label, side := p.Label(), p.Side.String()
			ms.SimLog.AddVerbose(ms.tick, label, side, "move", "position",
				fmt.Sprintf("(%.1f,%.1f) body=%.0f", p.Pos.X, p.Pos.Y, p.Body), 0)
			ms.SimLog.AddVerbose(ms.tick, label, side, "stamina", "level",
				fmt.Sprintf("%.0f", p.Stamina.Stamina), p.Stamina.Stamina)
		}
	}
	ms.SimLog.AddVerbose(ms.tick, "--", "--", "ball", "position",
		fmt.Sprintf("(%.1f,%.1f)", ms.Ball.Pos.X, ms.Ball.Pos.Y), ms.Ball.Vel.Len())
}

// MatchSnapshot is a lightweight copy of the match at a tick.
type MatchSnapshot struct {
	Tick    int
	Score   Score
	Ball    world.BallObject
	Holder  world.PlayerID
	Players []PlayerSnapshot
}

// PlayerSnapshot is a lightweight copy of a player's state.
type PlayerSnapshot struct {
	ID      world.PlayerID
	Goalie  bool
	Pos     geom.Vec2
	Vel     geom.Vec2
	Body    float64
	Stamina float64
}

// Snapshot returns the current state of the match.
func (ms *Match) Snapshot() MatchSnapshot {
	snap := MatchSnapshot{Tick: ms.tick, Score: ms.Score, Ball: ms.Ball, Holder: ms.holder}
	for _, list := range [][]*Player{ms.Ours, ms.Theirs} {
		for _, p := range list {
			snap.Players = append(snap.Players, PlayerSnapshot{
				ID:      p.ID(),
				Goalie:  p.Goalie,
				Pos:     p.Pos,
				Vel:     p.Vel,
				Body:    p.Body,
				Stamina: p.Stamina.Stamina,
			})
		}
	}
	return snap
}
