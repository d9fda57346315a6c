// Package config loads MENACE settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"menace/menace"
	"menace/store"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for a config file.
const DefaultPath = "menace.yaml"

// Config contains all MENACE settings.
type Config struct {
	// Learning holds the matchbox hyperparameters.
	Learning LearningConfig `yaml:"learning"`

	// Store selects where the table is persisted.
	Store StoreConfig `yaml:"store"`

	// Logging configures the zerolog output.
	Logging LoggingConfig `yaml:"logging"`

	// Training configures self-play runs.
	Training TrainingConfig `yaml:"training"`
}

type LearningConfig struct {
	// InitialCount is the bead count of every set in a new matchbox.
	InitialCount int `yaml:"initial_count"`

	// MinCount is the floor for bead counts after an adjustment.
	MinCount int `yaml:"min_count"`

	Rewards RewardsConfig `yaml:"rewards"`

	// Seed fixes the bead draws. Zero means seed from the clock.
	Seed uint64 `yaml:"seed"`
}

type RewardsConfig struct {
	Win  int `yaml:"win"`
	Draw int `yaml:"draw"`
	Lose int `yaml:"lose"`
}

type StoreConfig struct {
	// Backend is "json" (default) or "sqlite".
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type LoggingConfig struct {
	// Level is one of "debug", "info" (default), "warn" or "error".
	Level string `yaml:"level"`
}

type TrainingConfig struct {
	// Games is the number of games per training run.
	Games int `yaml:"games"`

	// Window is the number of games averaged for each point of the chart.
	Window int `yaml:"window"`

	// Output is the directory for run records. Empty disables them.
	Output string `yaml:"output"`

	// Timeout bounds a whole run. Zero means no limit.
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns a Config with the standard MENACE settings.
func Default() *Config {
	return &Config{
		Learning: LearningConfig{
			InitialCount: menace.InitialCount,
			MinCount:     menace.MinCount,
			Rewards: RewardsConfig{
				Win:  menace.DefaultRewards.Win,
				Draw: menace.DefaultRewards.Draw,
				Lose: menace.DefaultRewards.Lose,
			},
		},
		Store: StoreConfig{
			Backend: store.BackendJSON,
			Path:    "menace.json",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Training: TrainingConfig{
			Games:  1000,
			Window: 50,
		},
	}
}

// Load reads path over the defaults, then applies environment overrides
// (including any found in a .env file). A missing file is not an error.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		fileConfig, err := LoadFromFile(path)
		switch {
		case err == nil:
			config = fileConfig
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Variables already set in the environment win over .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return config, nil
}

func applyEnvOverrides(c *Config) error {
	ints := map[string]*int{
		"MENACE_INITIAL_COUNT": &c.Learning.InitialCount,
		"MENACE_MIN_COUNT":     &c.Learning.MinCount,
		"MENACE_REWARD_WIN":    &c.Learning.Rewards.Win,
		"MENACE_REWARD_DRAW":   &c.Learning.Rewards.Draw,
		"MENACE_REWARD_LOSE":   &c.Learning.Rewards.Lose,
		"MENACE_GAMES":         &c.Training.Games,
	}
	for name, field := range ints {
		if v := os.Getenv(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", name, err)
			}
			*field = n
		}
	}

	if v := os.Getenv("MENACE_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MENACE_SEED: %w", err)
		}
		c.Learning.Seed = seed
	}
	if v := os.Getenv("MENACE_STORE_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("MENACE_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("MENACE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Learning.InitialCount <= 0 {
		return fmt.Errorf("initial_count must be positive, got %d", c.Learning.InitialCount)
	}
	if c.Learning.InitialCount > menace.MaxCount {
		return fmt.Errorf("initial_count must be at most %d, got %d", menace.MaxCount, c.Learning.InitialCount)
	}
	if c.Learning.MinCount < 0 || c.Learning.MinCount > menace.MaxCount {
		return fmt.Errorf("min_count must be between 0 and %d, got %d", menace.MaxCount, c.Learning.MinCount)
	}
	if c.Rewards() == (menace.Rewards{}) {
		return fmt.Errorf("rewards must not all be zero")
	}

	validBackends := map[string]bool{store.BackendJSON: true, store.BackendSQLite: true}
	if !validBackends[c.Store.Backend] {
		return fmt.Errorf("invalid store backend: %s (valid: json, sqlite)", c.Store.Backend)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store path must be set")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}

	if c.Training.Games < 0 {
		return fmt.Errorf("games must be non-negative, got %d", c.Training.Games)
	}
	if c.Training.Window <= 0 {
		return fmt.Errorf("window must be positive, got %d", c.Training.Window)
	}
	return nil
}

// Rewards converts the reward settings for the learner.
func (c *Config) Rewards() menace.Rewards {
	return menace.Rewards{
		Win:  c.Learning.Rewards.Win,
		Draw: c.Learning.Rewards.Draw,
		Lose: c.Learning.Rewards.Lose,
	}
}

// Options converts the learning settings into learner options.
func (c *Config) Options() []menace.Option {
	options := []menace.Option{
		menace.WithInitialCount(c.Learning.InitialCount),
		menace.WithMinCount(c.Learning.MinCount),
	}
	if c.Learning.Seed != 0 {
		options = append(options, menace.WithSeed(c.Learning.Seed))
	}
	return options
}
