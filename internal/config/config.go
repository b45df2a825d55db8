package config

import (
	"fmt"
	"os"

	"github.com/san-kum/particlebox/internal/ensemble"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTicks     = 600
	DefaultParticles = 10
	DefaultFPS       = 60
	DefaultAddr      = "localhost:5000"
	DefaultDataDir   = ".particlebox"
)

type Config struct {
	Ensemble ensemble.Config `yaml:"ensemble"`
	Run      RunConfig       `yaml:"run"`
	Server   ServerConfig    `yaml:"server"`
}

type RunConfig struct {
	Particles int  `yaml:"particles"`
	Ticks     int  `yaml:"ticks"`
	FPS       int  `yaml:"fps"`
	Record    bool `yaml:"record"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	FPS  int    `yaml:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Ensemble: ensemble.DefaultConfig(),
		Run: RunConfig{
			Particles: DefaultParticles,
			Ticks:     DefaultTicks,
			FPS:       DefaultFPS,
			Record:    true,
		},
		Server: ServerConfig{
			Addr: DefaultAddr,
			FPS:  DefaultFPS,
		},
	}
}

// Load reads a YAML file on top of the defaults, so a file only needs the
// keys it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Ensemble.Validate(); err != nil {
		return err
	}
	if c.Run.Particles < 0 {
		return fmt.Errorf("run.particles must be non-negative, got %d", c.Run.Particles)
	}
	if c.Run.Ticks <= 0 {
		return fmt.Errorf("run.ticks must be positive, got %d", c.Run.Ticks)
	}
	if c.Run.FPS <= 0 || c.Server.FPS <= 0 {
		return fmt.Errorf("fps must be positive")
	}
	return nil
}
