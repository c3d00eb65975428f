package chain

import (
	"container/heap"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Garsondee/Striker-Sense/internal/world"
)

// Evaluator scores a chain. root is the state the chain starts from.
type Evaluator interface {
	Evaluate(root State, path Path) float64
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(root State, path Path) float64

// Evaluate implements Evaluator.
func (f EvaluatorFunc) Evaluate(root State, path Path) float64 { return f(root, path) }

// Config bounds one search.
type Config struct {
	MaxDepth       int           `mapstructure:"maxDepth"`
	MaxEvaluations int           `mapstructure:"maxEvaluations"`
	BranchingCap   int           `mapstructure:"branchingCap"` // children kept per node, <= 0 keeps all
	TimeLimit      time.Duration `mapstructure:"timeLimit"`    // 0 disables the wall clock

	// FirstActionPenalty is subtracted from every chain whose first action
	// has the named kind ("hold", "pass", ...).
	FirstActionPenalty map[string]float64 `mapstructure:"firstActionPenalty"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		MaxDepth:       3,
		MaxEvaluations: 2000,
		BranchingCap:   8,
	}
}

// Result is the outcome of a search. An empty Path means no candidate
// action existed.
type Result struct {
	Path        Path
	Score       float64
	Evaluations int
	Expanded    int
	Elapsed     time.Duration
	Exhausted   bool // stopped by a budget, the clock or the context
}

// Best returns the first action of the chosen chain.
func (r Result) Best() (Action, bool) { return r.Path.First() }

// Engine runs best-first chain searches. An Engine holds no per-search
// state and may be reused across cycles.
type Engine struct {
	gen  Generator
	eval Evaluator
	cfg  Config
	log  zerolog.Logger
	now  func() time.Time

	evaluations metric.Int64Counter
	duration    metric.Float64Histogram
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithClock replaces time.Now, for tests of the time limit.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// NewEngine builds an engine. It fails only when the metric instruments
// cannot be created.
func NewEngine(gen Generator, eval Evaluator, cfg Config, opts ...Option) (*Engine, error) {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultConfig().MaxDepth
	}
	e := &Engine{gen: gen, eval: eval, cfg: cfg, log: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(e)
	}

	m := meter()
	var err error
	e.evaluations, err = m.Int64Counter(
		"chain.search.evaluations",
		metric.WithDescription("Chains scored by the search engine"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating evaluations counter: %w", err)
	}
	e.duration, err = m.Float64Histogram(
		"chain.search.duration",
		metric.WithDescription("Wall time of one search"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Search finds the best-valued chain reachable from the current world.
// It stops at the first of: no node left to expand, the evaluation
// budget, the time limit or ctx cancellation. The best chain found so far
// is always returned.
func (e *Engine) Search(ctx context.Context, w *world.Model) Result {
	start := e.now()
	root := NewRootState(w)
	s := &search{e: e, ctx: ctx, root: root, w: w, start: start}

	s.expand(nil, root)
	for s.open.Len() > 0 && !s.stopped() {
		n := heap.Pop(&s.open).(*node)
		if len(n.path) >= e.cfg.MaxDepth {
			continue
		}
		s.expand(n.path, n.path.Last(root))
	}

	res := Result{
		Path:        s.best,
		Score:       s.bestScore,
		Evaluations: s.evals,
		Expanded:    s.expanded,
		Elapsed:     e.now().Sub(start),
		Exhausted:   s.exhausted,
	}
	e.record(ctx, res)
	return res
}

func (e *Engine) record(ctx context.Context, res Result) {
	kind := "none"
	if a, ok := res.Best(); ok {
		kind = a.Kind.String()
	}
	attrs := metric.WithAttributes(attribute.String("kind", kind))
	e.evaluations.Add(ctx, int64(res.Evaluations), attrs)
	e.duration.Record(ctx, float64(res.Elapsed.Microseconds())/1000, attrs)

	ev := e.log.Debug().
		Int("evaluations", res.Evaluations).
		Int("expanded", res.Expanded).
		Dur("elapsed", res.Elapsed).
		Bool("exhausted", res.Exhausted)
	if a, ok := res.Best(); ok {
		ev = ev.Str("first", a.String()).Float64("score", res.Score).Int("depth", len(res.Path))
	}
	ev.Msg("chain search")
}

func (e *Engine) penalty(p Path) float64 {
	if len(e.cfg.FirstActionPenalty) == 0 {
		return 0
	}
	a, ok := p.First()
	if !ok {
		return 0
	}
	return e.cfg.FirstActionPenalty[a.Kind.String()]
}

// search is the state of one Search call.
type search struct {
	e     *Engine
	ctx   context.Context
	root  State
	w     *world.Model
	start time.Time

	open      openList
	seq       int
	evals     int
	expanded  int
	exhausted bool

	best      Path
	bestScore float64
}

func (s *search) stopped() bool {
	if s.exhausted {
		return true
	}
	cfg := s.e.cfg
	switch {
	case cfg.MaxEvaluations > 0 && s.evals >= cfg.MaxEvaluations:
	case cfg.TimeLimit > 0 && s.e.now().Sub(s.start) >= cfg.TimeLimit:
	case s.ctx.Err() != nil:
	default:
		return false
	}
	s.exhausted = true
	return true
}

// expand scores every child of st and queues the best BranchingCap of
// them. Children are scored in generator order so that, among equal
// scores, the earlier-found chain stays best.
func (s *search) expand(path Path, st State) {
	pairs := s.e.gen.Generate(st, s.w, path)
	s.expanded++

	children := make([]*node, 0, len(pairs))
	for _, pair := range pairs {
		if s.stopped() {
			break
		}
		p := path.Extend(pair)
		score := s.e.eval.Evaluate(s.root, p) - s.e.penalty(p)
		s.evals++
		if s.best == nil || score > s.bestScore {
			s.best, s.bestScore = p, score
		}
		children = append(children, &node{path: p, score: score})
	}

	slices.SortStableFunc(children, func(a, b *node) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return 0
	})
	if limit := s.e.cfg.BranchingCap; limit > 0 && len(children) > limit {
		children = children[:limit]
	}
	for _, c := range children {
		c.seq = s.seq
		s.seq++
		heap.Push(&s.open, c)
	}
}

type node struct {
	path  Path
	score float64
	seq   int
}

// openList is a max-heap on score; equal scores pop in insertion order.
type openList []*node

func (o openList) Len() int { return len(o) }
func (o openList) Less(i, j int) bool {
	if o[i].score != o[j].score {
		return o[i].score > o[j].score
	}
	return o[i].seq < o[j].seq
}
func (o openList) Swap(i, j int) { o[i], o[j] = o[j], o[i] }
func (o *openList) Push(x any)   { *o = append(*o, x.(*node)) }
func (o *openList) Pop() any {
	old := *o
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*o = old[:len(old)-1]
	return n
}
