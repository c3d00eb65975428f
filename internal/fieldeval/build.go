package fieldeval

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Striker-Sense/internal/chain"
	"github.com/Garsondee/Striker-Sense/internal/predict"
)

// Evaluator kinds accepted by New.
const (
	KindDefault = "default"
	KindRules   = "rules"
)

// New returns the evaluator named by kind. "rules" wraps the default
// evaluator with rules; an empty kind means "default".
func New(kind string, pr *predict.Predictor, cfg Config, rules []Rule, log zerolog.Logger) (chain.Evaluator, error) {
	def := NewDefault(pr, cfg)
	switch kind {
	case "", KindDefault:
		return def, nil
	case KindRules:
		re, err := NewRuleEvaluator(def, rules, log)
		if err != nil {
			return nil, err
		}
		return re, nil
	}
	return nil, fmt.Errorf("unknown evaluator kind %q", kind)
}
