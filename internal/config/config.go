package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version     string      `yaml:"version" json:"version"`
	Server      Server      `yaml:"server" json:"server"`
	Persistence Persistence `yaml:"persistence" json:"persistence"`
	Loop        Loop        `yaml:"loop" json:"loop"`
	Tuning      Tuning      `yaml:"tuning" json:"tuning"`
}

type Server struct {
	Addr string `yaml:"addr" json:"addr"`
}

// Persistence selects the durable store for the save snapshot.
// Backend is "file" (JSON file under DataDir) or "sqlite".
type Persistence struct {
	Backend string `yaml:"backend" json:"backend"`
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

type Loop struct {
	TickMillis      int `yaml:"tick_ms" json:"tick_ms"`
	DeltaCapMillis  int `yaml:"delta_cap_ms" json:"delta_cap_ms"`
	AutosaveSeconds int `yaml:"autosave_seconds" json:"autosave_seconds"`
}

func (l Loop) Tick() time.Duration     { return time.Duration(l.TickMillis) * time.Millisecond }
func (l Loop) DeltaCap() time.Duration { return time.Duration(l.DeltaCapMillis) * time.Millisecond }
func (l Loop) Autosave() time.Duration { return time.Duration(l.AutosaveSeconds) * time.Second }

func (s *Server) ApplyDefaults() {
	if s.Addr == "" {
		s.Addr = ":8420"
	}
}

func (p *Persistence) ApplyDefaults() {
	if p.Backend == "" {
		p.Backend = "file"
	}
	if p.DataDir == "" {
		p.DataDir = "data"
	}
}

func (l *Loop) ApplyDefaults() {
	if l.TickMillis == 0 {
		l.TickMillis = 100
	}
	if l.DeltaCapMillis == 0 {
		l.DeltaCapMillis = 1000
	}
	if l.AutosaveSeconds == 0 {
		l.AutosaveSeconds = 10
	}
}

func (c *Config) ApplyDefaults() {
	c.Server.ApplyDefaults()
	c.Persistence.ApplyDefaults()
	c.Loop.ApplyDefaults()
	c.Tuning.ApplyDefaults()
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}

// LoadOrDefault loads path when it exists and falls back to all defaults
// otherwise, so the server can boot without a config file on disk.
func LoadOrDefault(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			var fresh Config
			fresh.ApplyDefaults()
			return &fresh, nil
		}
		return nil, err
	}
	return c, nil
}
