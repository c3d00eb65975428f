package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Striker-Sense/internal/fieldeval"
)

func TestLoad_NoFileGivesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, def.Search.MaxDepth, cfg.Search.MaxDepth)
	assert.Equal(t, def.Search.MaxEvaluations, cfg.Search.MaxEvaluations)
	assert.Equal(t, def.Pass.FarDist, cfg.Pass.FarDist)
	assert.Equal(t, def.Generators.Dribble.DashCounts, cfg.Generators.Dribble.DashCounts)
	assert.Equal(t, def.Server.BallDecay, cfg.Server.BallDecay)
	assert.Equal(t, fieldeval.KindDefault, cfg.Evaluator.Kind)
	assert.Empty(t, cfg.PlayerTypes)
	assert.Equal(t, "info", GetString("logLevel"))
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	body := `{
		"logLevel": "debug",
		"search": { "maxDepth": 4, "timeLimit": "15ms", "firstActionPenalty": { "hold": 2.5 } },
		"evaluator": {
			"kind": "rules",
			"rules": [ { "name": "prefer passes", "when": "FirstKind == \"pass\"", "bonus": 3 } ]
		},
		"generators": { "dribble": { "dashCounts": [3, 5] } },
		"server": { "ballDecay": 0.9 }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigName+".json"), []byte(body), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Search.MaxDepth)
	assert.Equal(t, 15*time.Millisecond, cfg.Search.TimeLimit)
	assert.Equal(t, 2.5, cfg.Search.FirstActionPenalty["hold"])
	assert.Equal(t, Default().Search.MaxEvaluations, cfg.Search.MaxEvaluations, "untouched keys keep defaults")

	assert.Equal(t, fieldeval.KindRules, cfg.Evaluator.Kind)
	require.Len(t, cfg.Evaluator.Rules, 1)
	assert.Equal(t, "prefer passes", cfg.Evaluator.Rules[0].Name)
	assert.Equal(t, 3.0, cfg.Evaluator.Rules[0].Bonus)

	assert.Equal(t, []int{3, 5}, cfg.Generators.Dribble.DashCounts)
	assert.Equal(t, 0.9, cfg.Server.BallDecay)
	assert.Equal(t, Default().Server.PitchHalfLength, cfg.Server.PitchHalfLength)
}

func TestLoadFile_YAMLPlayerTypes(t *testing.T) {
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "hetero.yaml")
	body := "playerTypes:\n  - id: 3\n    playerSpeedMax: 1.1\n    playerDecay: 0.45\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, cfg.PlayerTypes, 1)
	assert.Equal(t, 3, cfg.PlayerTypes[0].ID)
	assert.Equal(t, 1.1, cfg.PlayerTypes[0].SpeedMax)
	assert.Equal(t, 0.45, cfg.PlayerTypes[0].Decay)
}

func TestLoad_Malformed(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigName+".json"), []byte(`{"search": `), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	t.Cleanup(viper.Reset)

	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Evaluator.Kind = "neural"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Search.MaxEvaluations = -1
	assert.Error(t, cfg.Validate())
}
