// Package config loads the decision core's tuning from a config file,
// falling back to the built-in defaults for every key the file omits.
package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"

	"github.com/Garsondee/Striker-Sense/internal/chain"
	"github.com/Garsondee/Striker-Sense/internal/fieldeval"
	"github.com/Garsondee/Striker-Sense/internal/predict"
	"github.com/Garsondee/Striker-Sense/internal/rcss"
	"github.com/Garsondee/Striker-Sense/internal/tackle"
)

// ConfigName is the file name searched for by Load, without extension.
// Any format viper understands (json, yaml, toml) is accepted.
const ConfigName = "striker-sense"

// EvaluatorConfig selects the field evaluator.
type EvaluatorConfig struct {
	Kind  string           `json:"kind" mapstructure:"kind"` // "default" or "rules"
	Rules []fieldeval.Rule `json:"rules" mapstructure:"rules"`
}

// Config is the full tuning of one agent.
type Config struct {
	LogLevel string `json:"logLevel" mapstructure:"logLevel"`

	Search     chain.Config           `json:"search" mapstructure:"search"`
	Evaluator  EvaluatorConfig        `json:"evaluator" mapstructure:"evaluator"`
	Pass       chain.PassCheckConfig  `json:"pass" mapstructure:"pass"`
	Generators chain.GeneratorsConfig `json:"generators" mapstructure:"generators"`
	FieldEval  fieldeval.Config       `json:"fieldeval" mapstructure:"fieldeval"`
	Predict    predict.Config         `json:"predict" mapstructure:"predict"`
	Tackle     tackle.Config          `json:"tackle" mapstructure:"tackle"`

	Server      rcss.ServerParams       `json:"server" mapstructure:"server"`
	PlayerTypes []rcss.PlayerTypeParams `json:"playerTypes" mapstructure:"playerTypes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:   "info",
		Search:     chain.DefaultConfig(),
		Evaluator:  EvaluatorConfig{Kind: fieldeval.KindDefault},
		Pass:       chain.DefaultPassCheckConfig(),
		Generators: chain.DefaultGeneratorsConfig(),
		FieldEval:  fieldeval.DefaultConfig(),
		Predict:    predict.DefaultConfig(),
		Tackle:     tackle.DefaultConfig(),
		Server:     rcss.DefaultServerParams(),
	}
}

// Load sets the defaults, then reads ConfigName from configDir. A missing
// file is not an error: the defaults are returned. A file that exists but
// cannot be parsed is.
func Load(configDir string) (Config, error) {
	setDefaults()

	viper.SetConfigName(ConfigName)
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return current()
}

// LoadFile is Load for an explicit file path. The format follows the
// extension. Unlike Load, the file must exist.
func LoadFile(path string) (Config, error) {
	setDefaults()

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return current()
}

func current() (Config, error) {
	cfg := Default()
	// Player type entries start from the default type so a file only needs
	// the fields that differ.
	if raw, ok := viper.Get("playerTypes").([]any); ok {
		cfg.PlayerTypes = make([]rcss.PlayerTypeParams, len(raw))
		for i := range cfg.PlayerTypes {
			cfg.PlayerTypes[i] = rcss.DefaultPlayerTypeParams()
		}
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects an unknown evaluator kind and bad player types. Rule
// conditions are checked when the evaluator is built.
func (c Config) Validate() error {
	switch c.Evaluator.Kind {
	case "", fieldeval.KindDefault, fieldeval.KindRules:
	default:
		return fmt.Errorf("unknown evaluator kind %q", c.Evaluator.Kind)
	}
	if c.Search.MaxDepth < 0 || c.Search.MaxEvaluations < 0 {
		return fmt.Errorf("search budgets must not be negative")
	}
	for _, p := range c.PlayerTypes {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// setDefaults registers a default for every leaf key of Default().
func setDefaults() {
	v := reflect.ValueOf(Default())
	setStructDefaults("", v)
}

func setStructDefaults(prefix string, v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Struct:
			setStructDefaults(key, fv)
			continue
		case reflect.Map, reflect.Slice:
			if fv.IsNil() {
				continue
			}
		}
		viper.SetDefault(key, fv.Interface())
	}
}

// GetString returns a raw string config value.
func GetString(key string) string {
	return viper.GetString(key)
}
