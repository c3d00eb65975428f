package fieldeval

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Striker-Sense/internal/chain"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// Rule adjusts a chain's score when its condition holds:
// score = score*Multiplier + Bonus. A zero Multiplier leaves the score
// unscaled.
type Rule struct {
	Name       string  `mapstructure:"name"`
	When       string  `mapstructure:"when"` // expr source over RuleEnv
	Multiplier float64 `mapstructure:"multiplier"`
	Bonus      float64 `mapstructure:"bonus"`

	program *vm.Program
}

// RuleEnv is what rule conditions can see about a chain.
type RuleEnv struct {
	Score float64 // base evaluator score
	Depth int     // actions in the chain
	Spent int     // cycles the chain takes

	BallX, BallY float64
	GoalDist     float64 // ball to their goal centre
	OurBall      bool
	SelfHolds    bool

	OffsideLineX      float64
	TheirDefenseLineX float64

	FirstKind   string
	FirstSafety string
	LastKind    string

	Kinds []string // action kinds in chain order
}

// Count returns how many actions of kind the chain holds.
func (e RuleEnv) Count(kind string) int {
	n := 0
	for _, k := range e.Kinds {
		if strings.EqualFold(k, kind) {
			n++
		}
	}
	return n
}

// BeyondOffside reports whether the ball ends past the offside line.
func (e RuleEnv) BeyondOffside() bool { return e.BallX > e.OffsideLineX }

func newRuleEnv(root chain.State, path chain.Path, score float64) RuleEnv {
	st := path.Last(root)
	ball := st.Ball().Pos
	env := RuleEnv{
		Score:             score,
		Depth:             len(path),
		Spent:             st.Spent() - root.Spent(),
		BallX:             ball.X,
		BallY:             ball.Y,
		GoalDist:          ball.Dist(st.Params().TheirGoal()),
		OurBall:           st.OurBall(),
		SelfHolds:         st.Holder() == world.PlayerID{Side: world.SideOurs, Unum: st.SelfUnum()},
		OffsideLineX:      st.OffsideLineX(),
		TheirDefenseLineX: st.TheirDefenseLineX(),
		Kinds:             make([]string, len(path)),
	}
	for i, p := range path {
		env.Kinds[i] = p.Action.Kind.String()
	}
	if len(path) > 0 {
		env.FirstKind = path[0].Action.Kind.String()
		env.FirstSafety = path[0].Action.Safety.String()
		env.LastKind = path[len(path)-1].Action.Kind.String()
	}
	return env
}

// RuleEvaluator decorates another evaluator with configured rules, applied
// in order. Decided outcomes (Accept, Reject) pass through untouched.
type RuleEvaluator struct {
	base  chain.Evaluator
	rules []*Rule
	log   zerolog.Logger
}

// NewRuleEvaluator compiles every rule condition. It fails on the first
// condition that does not compile to a boolean.
func NewRuleEvaluator(base chain.Evaluator, rules []Rule, log zerolog.Logger) (*RuleEvaluator, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &RuleEvaluator{base: base, rules: compiled, log: log}, nil
}

func compileRules(rules []Rule) ([]*Rule, error) {
	out := make([]*Rule, 0, len(rules))
	for i := range rules {
		r := rules[i]
		prog, err := expr.Compile(r.When, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
		if r.Multiplier == 0 {
			r.Multiplier = 1
		}
		out = append(out, &r)
	}
	return out, nil
}

// Rules lists the rule names in application order.
func (e *RuleEvaluator) Rules() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

// Evaluate implements chain.Evaluator.
func (e *RuleEvaluator) Evaluate(root chain.State, path chain.Path) float64 {
	score := e.base.Evaluate(root, path)
	if len(e.rules) == 0 || score >= Accept || score <= Reject {
		return score
	}
	env := newRuleEnv(root, path, score)
	for _, r := range e.rules {
		result, err := vm.Run(r.program, env)
		if err != nil {
			e.log.Warn().Err(err).Str("rule", r.Name).Msg("rule condition error")
			continue
		}
		if match, ok := result.(bool); !ok || !match {
			continue
		}
		score = score*r.Multiplier + r.Bonus
		env.Score = score
	}
	return score
}
