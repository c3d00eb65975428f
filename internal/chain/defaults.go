package chain

import "github.com/Garsondee/Striker-Sense/internal/predict"

// GeneratorsConfig gathers the per-generator tuning.
type GeneratorsConfig struct {
	Pass    PassConfig    `mapstructure:"pass"`
	Cross   CrossConfig   `mapstructure:"cross"`
	Dribble DribbleConfig `mapstructure:"dribble"`
	Shoot   ShootConfig   `mapstructure:"shoot"`
	Hold    HoldConfig    `mapstructure:"hold"`
	Clear   ClearConfig   `mapstructure:"clear"`

	// MaxPassDepth is the longest chain a pass may extend.
	MaxPassDepth int `mapstructure:"maxPassDepth"`
}

// DefaultGeneratorsConfig returns the tuned defaults.
func DefaultGeneratorsConfig() GeneratorsConfig {
	return GeneratorsConfig{
		Pass:         DefaultPassConfig(),
		Cross:        DefaultCrossConfig(),
		Dribble:      DefaultDribbleConfig(),
		Shoot:        DefaultShootConfig(),
		Hold:         DefaultHoldConfig(),
		Clear:        DefaultClearConfig(),
		MaxPassDepth: 2,
	}
}

// DefaultGenerators wires the standard generator set. Registration order
// is the tie-break order: a shot beats an equally valued pass.
//
// Shots are tried at every depth. Holding, crossing and clearing only make
// sense as the first action of a chain.
func DefaultGenerators(pr *predict.Predictor, checker *PassChecker, cfg GeneratorsConfig) *Registry {
	return NewRegistry().
		Register("shoot", NewShootGenerator(pr, cfg.Shoot)).
		Register("pass", MaxLength(cfg.MaxPassDepth, NewPassGenerator(pr, checker, cfg.Pass))).
		Register("cross", MaxLength(0, NewCrossGenerator(pr, cfg.Cross))).
		Register("dribble", NewDribbleGenerator(pr, cfg.Dribble)).
		Register("hold", MaxLength(0, NewHoldGenerator(cfg.Hold))).
		Register("clear", MaxLength(0, NewClearGenerator(pr, cfg.Clear)))
}
