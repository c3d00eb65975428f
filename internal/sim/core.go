package sim

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Striker-Sense/internal/chain"
	"github.com/Garsondee/Striker-Sense/internal/config"
	"github.com/Garsondee/Striker-Sense/internal/fieldeval"
	"github.com/Garsondee/Striker-Sense/internal/predict"
	"github.com/Garsondee/Striker-Sense/internal/rcss"
	"github.com/Garsondee/Striker-Sense/internal/tackle"
	"github.com/Garsondee/Striker-Sense/internal/world"
)

// Core is the decision core of one team, built from a configuration:
// predictor, pass checker, chain search and tackle planner.
type Core struct {
	cfg     config.Config
	sp      *rcss.ServerParams
	types   *rcss.PlayerTypes
	pr      *predict.Predictor
	checker *chain.PassChecker
	gens    *chain.Registry
	eval    chain.Evaluator
	engine  *chain.Engine
	tackle  *tackle.Simulator
	log     zerolog.Logger
}

// NewCore wires the decision core. Invalid player types are logged and
// skipped; bad rule conditions and metric setup failures are errors.
func NewCore(cfg config.Config, log zerolog.Logger) (*Core, error) {
	sp := cfg.Server
	types := rcss.NewPlayerTypes(&sp)
	for _, p := range cfg.PlayerTypes {
		if err := types.Set(p); err != nil {
			log.Warn().Err(err).Int("type", p.ID).Msg("player type dropped")
		}
	}

	pr := predict.NewPredictor(&sp, cfg.Predict)
	checker := chain.NewPassChecker(pr, cfg.Pass)
	gens := chain.DefaultGenerators(pr, checker, cfg.Generators)

	eval, err := fieldeval.New(cfg.Evaluator.Kind, pr, cfg.FieldEval, cfg.Evaluator.Rules, log)
	if err != nil {
		return nil, fmt.Errorf("building evaluator: %w", err)
	}
	engine, err := chain.NewEngine(gens, eval, cfg.Search, chain.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("building search engine: %w", err)
	}

	log.Debug().
		Str("evaluator", cfg.Evaluator.Kind).
		Strs("generators", gens.Names()).
		Int("maxDepth", cfg.Search.MaxDepth).
		Int("maxEvaluations", cfg.Search.MaxEvaluations).
		Msg("decision core ready")

	return &Core{
		cfg:     cfg,
		sp:      &sp,
		types:   types,
		pr:      pr,
		checker: checker,
		gens:    gens,
		eval:    eval,
		engine:  engine,
		tackle:  tackle.NewSimulator(&sp, cfg.Tackle, log),
		log:     log,
	}, nil
}

// Config returns the configuration the core was built from.
func (c *Core) Config() config.Config { return c.cfg }

// Params returns the server parameters in use.
func (c *Core) Params() *rcss.ServerParams { return c.sp }

// Types returns the player type registry.
func (c *Core) Types() *rcss.PlayerTypes { return c.types }

// Predictor returns the reachability predictor.
func (c *Core) Predictor() *predict.Predictor { return c.pr }

// PassChecker returns the pass feasibility checker.
func (c *Core) PassChecker() *chain.PassChecker { return c.checker }

// Tackle returns the tackle planner.
func (c *Core) Tackle() *tackle.Simulator { return c.tackle }

// Search runs one chain search from m's self.
func (c *Core) Search(ctx context.Context, m *world.Model) chain.Result {
	return c.engine.Search(ctx, m)
}
