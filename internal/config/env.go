package config

import (
	"os"
	"strconv"
)

// FromEnv applies environment-variable overrides on top of cfg.
// Unset or unparseable values leave the config untouched.
func FromEnv(cfg *Config) {
	if v := os.Getenv("COOKIE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("COOKIE_DATA_DIR"); v != "" {
		cfg.Persistence.DataDir = v
	}
	if v := os.Getenv("COOKIE_STORE_BACKEND"); v != "" {
		cfg.Persistence.Backend = v
	}
	if v := getEnvInt("COOKIE_TICK_MS"); v > 0 {
		cfg.Loop.TickMillis = v
	}
	if v := getEnvInt("COOKIE_DELTA_CAP_MS"); v > 0 {
		cfg.Loop.DeltaCapMillis = v
	}
	if v := getEnvInt("COOKIE_AUTOSAVE_SECONDS"); v > 0 {
		cfg.Loop.AutosaveSeconds = v
	}
	if v := getEnvFloat("COOKIE_PRICE_GROWTH"); v > 1 {
		cfg.Tuning.PriceGrowth = v
	}
	if v := getEnvInt("COOKIE_AUTO_CLICK_INTERVAL_MS"); v > 0 {
		cfg.Tuning.AutoClickIntervalMillis = v
	}

	// Preset modes win over individual knobs.
	switch os.Getenv("DIFFICULTY") {
	case "casual":
		cfg.Tuning = Casual()
	case "hard":
		cfg.Tuning = Hard()
	}
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}

func getEnvFloat(key string) float64 {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0
	}
	return num
}
