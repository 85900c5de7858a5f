package config

import "time"

// Tuning holds gameplay balance configuration. The defaults reproduce the
// classic numbers; presets only bend the knobs that are safe to bend.
type Tuning struct {
	// Geometric price scaling: each purchase multiplies the next cost.
	PriceGrowth float64 `yaml:"price_growth" json:"price_growth"`

	// Auto-clicker batching
	AutoClickIntervalMillis int `yaml:"auto_click_interval_ms" json:"auto_click_interval_ms"`

	// Golden cookie
	GoldenSpawnChance   float64 `yaml:"golden_spawn_chance" json:"golden_spawn_chance"`
	GoldenBalanceShare  float64 `yaml:"golden_balance_share" json:"golden_balance_share"`
	GoldenRateSeconds   float64 `yaml:"golden_rate_seconds" json:"golden_rate_seconds"`
	GoldenEnabled       bool    `yaml:"golden_enabled" json:"golden_enabled"`
	goldenEnabledWasSet bool
}

func (t Tuning) AutoClickInterval() time.Duration {
	return time.Duration(t.AutoClickIntervalMillis) * time.Millisecond
}

func (t *Tuning) ApplyDefaults() {
	if t.PriceGrowth == 0 {
		t.PriceGrowth = 1.15
	}
	if t.AutoClickIntervalMillis == 0 {
		t.AutoClickIntervalMillis = 3000
	}
	if t.GoldenSpawnChance == 0 {
		t.GoldenSpawnChance = 0.0001
	}
	if t.GoldenBalanceShare == 0 {
		t.GoldenBalanceShare = 0.1
	}
	if t.GoldenRateSeconds == 0 {
		t.GoldenRateSeconds = 10
	}
	if !t.goldenEnabledWasSet {
		t.GoldenEnabled = true
	}
}

// UnmarshalYAML tracks whether golden_enabled was set explicitly so that
// ApplyDefaults can default it to true without clobbering "false".
func (t *Tuning) UnmarshalYAML(unmarshal func(any) error) error {
	type plain Tuning
	var p plain
	if err := unmarshal(&p); err != nil {
		return err
	}
	var probe struct {
		GoldenEnabled *bool `yaml:"golden_enabled"`
	}
	if err := unmarshal(&probe); err != nil {
		return err
	}
	*t = Tuning(p)
	t.goldenEnabledWasSet = probe.GoldenEnabled != nil
	return nil
}

// Default returns the standard tuning.
func Default() Tuning {
	var t Tuning
	t.ApplyDefaults()
	return t
}

// Casual returns gentler tuning for casual play.
func Casual() Tuning {
	t := Default()
	t.PriceGrowth = 1.12
	t.GoldenSpawnChance = 0.0005
	return t
}

// Hard returns harsher tuning for experienced players.
func Hard() Tuning {
	t := Default()
	t.PriceGrowth = 1.18
	t.GoldenSpawnChance = 0.00005
	return t
}
