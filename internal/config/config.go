package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/engine"
	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/storage"
)

// Environment variables that override the file.
const (
	EnvUser     = "LIGHTWALKER_USER"
	EnvSession  = "LIGHTWALKER_SESSION"
	EnvLogLevel = "LIGHTWALKER_LOG_LEVEL"
	EnvConfig   = "LIGHTWALKER_CONFIG"
)

type Config struct {
	Owner    OwnerConfig    `yaml:"owner"`
	Database DatabaseConfig `yaml:"database"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Logging  LoggingConfig  `yaml:"logging"`

	// RoleModels are the attributes the user selected, with their weights.
	RoleModels []AttributeWeight `yaml:"role_models"`
}

// OwnerConfig identifies whose schedule is shown. A user id wins over a
// session id; with neither set the system defaults are used.
type OwnerConfig struct {
	UserID    string `yaml:"user_id"`
	SessionID string `yaml:"session_id"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // empty means ~/.lightwalker.db
}

type ScheduleConfig struct {
	NextCount int `yaml:"next_count"`
	WeekDays  int `yaml:"week_days"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

type AttributeWeight struct {
	Attribute string  `yaml:"attribute"`
	RoleModel string  `yaml:"role_model"`
	Weight    float64 `yaml:"weight"`
}

func DefaultConfig() *Config {
	return &Config{
		Owner: OwnerConfig{SessionID: "local"},
		Schedule: ScheduleConfig{
			NextCount: engine.DefaultNextCount,
			WeekDays:  7,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		RoleModels: []AttributeWeight{
			{Attribute: "Equanimity", RoleModel: engine.RoleModelMarcus, Weight: 0.6},
			{Attribute: "Self-Discipline", RoleModel: engine.RoleModelMarcus, Weight: 0.4},
			{Attribute: "Perseverance", RoleModel: engine.RoleModelCurie, Weight: 0.5},
			{Attribute: "Curiosity", RoleModel: engine.RoleModelLeonardo, Weight: 0.5},
			{Attribute: "Courage", RoleModel: engine.RoleModelAngelou, Weight: 0.3},
		},
	}
}

// DefaultPath returns $LIGHTWALKER_CONFIG or ~/.lightwalker.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".lightwalker.yaml"), nil
}

// Load reads path over the defaults. A missing file is not an error.
// Environment overrides are applied either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvUser); v != "" {
		c.Owner.UserID = v
	}
	if v := os.Getenv(EnvSession); v != "" {
		c.Owner.SessionID = v
	}
	if v := os.Getenv(storage.EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the values a command depends on.
func (c *Config) Validate() error {
	if c.Schedule.NextCount < 0 {
		return fmt.Errorf("schedule.next_count must not be negative")
	}
	if c.Schedule.WeekDays < 0 || c.Schedule.WeekDays > 31 {
		return fmt.Errorf("schedule.week_days must be between 0 and 31")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	for i, rm := range c.RoleModels {
		if strings.TrimSpace(rm.Attribute) == "" {
			return fmt.Errorf("role_models[%d]: attribute is required", i)
		}
		if rm.Weight < 0 || rm.Weight > 1 {
			return fmt.Errorf("role_models[%d]: weight %.2f outside 0-1", i, rm.Weight)
		}
	}
	return nil
}

// OwnerIdentity returns the owner the commands act for.
func (c *Config) OwnerIdentity() engine.Owner {
	return engine.Owner{
		UserID:    strings.TrimSpace(c.Owner.UserID),
		SessionID: strings.TrimSpace(c.Owner.SessionID),
	}
}

// DBPath returns the configured database path or the storage default.
func (c *Config) DBPath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	return storage.ResolveDBPath()
}

func (c *Config) Weights() []engine.WeightedAttribute {
	out := make([]engine.WeightedAttribute, len(c.RoleModels))
	for i, rm := range c.RoleModels {
		out[i] = engine.WeightedAttribute{Attribute: rm.Attribute, RoleModel: rm.RoleModel, Weight: rm.Weight}
	}
	return out
}
