package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var c Config
	c.ApplyDefaults()

	assert.Equal(t, ":8420", c.Server.Addr)
	assert.Equal(t, "file", c.Persistence.Backend)
	assert.Equal(t, "data", c.Persistence.DataDir)
	assert.Equal(t, 100*time.Millisecond, c.Loop.Tick())
	assert.Equal(t, time.Second, c.Loop.DeltaCap())
	assert.Equal(t, 10*time.Second, c.Loop.Autosave())
	assert.Equal(t, 1.15, c.Tuning.PriceGrowth)
	assert.Equal(t, 3*time.Second, c.Tuning.AutoClickInterval())
	assert.True(t, c.Tuning.GoldenEnabled)
}

func TestLoad_YAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: "1"
server:
  addr: ":9000"
persistence:
  backend: sqlite
  data_dir: /var/lib/cookies
loop:
  tick_ms: 50
  autosave_seconds: 30
tuning:
  price_growth: 1.2
  golden_enabled: false
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.Server.Addr)
	assert.Equal(t, "sqlite", c.Persistence.Backend)
	assert.Equal(t, "/var/lib/cookies", c.Persistence.DataDir)
	assert.Equal(t, 50, c.Loop.TickMillis)
	assert.Equal(t, 30, c.Loop.AutosaveSeconds)
	assert.Equal(t, 1.2, c.Tuning.PriceGrowth)

	// Explicit false must survive defaulting.
	assert.False(t, c.Tuning.GoldenEnabled)

	// Untouched knobs still pick up defaults.
	assert.Equal(t, 1000, c.Loop.DeltaCapMillis)
	assert.Equal(t, 3000, c.Tuning.AutoClickIntervalMillis)
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	c, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8420", c.Server.Addr)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestTuningPresets(t *testing.T) {
	def := Default()
	casual := Casual()
	hard := Hard()

	assert.Less(t, casual.PriceGrowth, def.PriceGrowth)
	assert.Greater(t, hard.PriceGrowth, def.PriceGrowth)
	assert.Greater(t, casual.GoldenSpawnChance, def.GoldenSpawnChance)
	assert.Less(t, hard.GoldenSpawnChance, def.GoldenSpawnChance)

	// Presets never bend the batching interval.
	assert.Equal(t, def.AutoClickIntervalMillis, casual.AutoClickIntervalMillis)
	assert.Equal(t, def.AutoClickIntervalMillis, hard.AutoClickIntervalMillis)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("COOKIE_ADDR", ":7777")
	t.Setenv("COOKIE_STORE_BACKEND", "sqlite")
	t.Setenv("COOKIE_TICK_MS", "250")
	t.Setenv("COOKIE_PRICE_GROWTH", "1.3")
	t.Setenv("COOKIE_AUTOSAVE_SECONDS", "not-a-number")

	var c Config
	c.ApplyDefaults()
	FromEnv(&c)

	assert.Equal(t, ":7777", c.Server.Addr)
	assert.Equal(t, "sqlite", c.Persistence.Backend)
	assert.Equal(t, 250, c.Loop.TickMillis)
	assert.Equal(t, 1.3, c.Tuning.PriceGrowth)
	assert.Equal(t, 10, c.Loop.AutosaveSeconds)
}

func TestFromEnv_DifficultyPreset(t *testing.T) {
	t.Setenv("COOKIE_PRICE_GROWTH", "1.5")
	t.Setenv("DIFFICULTY", "casual")

	var c Config
	c.ApplyDefaults()
	FromEnv(&c)

	assert.Equal(t, Casual().PriceGrowth, c.Tuning.PriceGrowth)
}
