// Package config loads and validates the YAML configuration that wires the
// engine together.
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/aurora-lab/aurora-trading/internal/exchange"
	"github.com/aurora-lab/aurora-trading/internal/filter"
	"github.com/aurora-lab/aurora-trading/internal/risk"
	"github.com/aurora-lab/aurora-trading/internal/session"
	"github.com/aurora-lab/aurora-trading/internal/strategy"
	"github.com/aurora-lab/aurora-trading/internal/types"
	"github.com/aurora-lab/aurora-trading/pkg/errors"
)

// EngineConfig holds the controller's runtime parameters.
type EngineConfig struct {
	UserID string `yaml:"user_id" validate:"required"`
	Symbol string `yaml:"symbol" validate:"required"`
	// BaseAsset and QuoteAsset split the symbol for balance checks
	BaseAsset  string `yaml:"base_asset" validate:"required"`
	QuoteAsset string `yaml:"quote_asset" validate:"required"`
	Strategy   string `yaml:"strategy" validate:"required"`

	PollInterval time.Duration `yaml:"poll_interval"`
	CycleTimeout time.Duration `yaml:"cycle_timeout"`
	KlineLimit   int           `yaml:"kline_limit" validate:"gte=0"`
	// Intervals is the ordered kline interval preference list
	Intervals []types.Interval `yaml:"intervals"`
	// Paper routes orders to the in-memory exchange
	Paper bool `yaml:"paper"`
	// EventBuffer sizes the async event sink
	EventBuffer int `yaml:"event_buffer" validate:"gte=0"`
}

// Config is the full configuration tree.
type Config struct {
	Engine   EngineConfig            `yaml:"engine"`
	Exchange exchange.BinanceConfig  `yaml:"exchange"`
	Strategy strategy.Config         `yaml:"strategy"`
	Filter   filter.Config           `yaml:"filter"`
	Sessions []session.Window        `yaml:"sessions"`
	Box      session.BoxConfig       `yaml:"box"`
	Risk     risk.Limits             `yaml:"risk"`
	Executor exchange.ExecutorConfig `yaml:"executor"`
}

// Default returns the stock configuration, missing only the required
// engine identity fields.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			PollInterval: 30 * time.Second,
			CycleTimeout: 20 * time.Second,
			KlineLimit:   100,
			Intervals:    exchange.DefaultIntervalPreference(),
			EventBuffer:  64,
		},
		Strategy: strategy.DefaultConfig(),
		Filter:   filter.DefaultConfig(),
		Sessions: session.DefaultWindows(),
		Box:      session.DefaultBoxConfig(),
		Risk:     risk.DefaultLimits(),
		Executor: exchange.DefaultExecutorConfig(),
	}
}

// Parse unmarshals YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	config := Default()

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Load reads and parses the config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	return Parse(data)
}

func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Engine.PollInterval <= 0 {
		c.Engine.PollInterval = defaults.Engine.PollInterval
	}

	if c.Engine.CycleTimeout <= 0 {
		c.Engine.CycleTimeout = defaults.Engine.CycleTimeout
	}

	if c.Engine.KlineLimit <= 0 {
		c.Engine.KlineLimit = defaults.Engine.KlineLimit
	}

	if len(c.Engine.Intervals) == 0 {
		c.Engine.Intervals = defaults.Engine.Intervals
	}

	if c.Engine.EventBuffer <= 0 {
		c.Engine.EventBuffer = defaults.Engine.EventBuffer
	}

	if len(c.Sessions) == 0 {
		c.Sessions = defaults.Sessions
	}
}

// Validate checks the whole tree: struct tags, session windows, and the
// strategy name.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if _, err := strategy.ParseID(c.Engine.Strategy); err != nil {
		return err
	}

	for _, w := range c.Sessions {
		if err := w.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Loader re-reads the config file on demand, keeping the last good copy.
type Loader struct {
	path    string
	current Config
}

// NewLoader loads the file once and keeps it for reloads.
func NewLoader(path string) (*Loader, error) {
	config, err := Load(path)
	if err != nil {
		return nil, err
	}

	return &Loader{path: path, current: config}, nil
}

// Current returns the last successfully loaded config.
func (l *Loader) Current() Config {
	return l.current
}

// Reload re-reads the file. On failure the previous config is kept and the
// error reports why.
func (l *Loader) Reload() (Config, error) {
	config, err := Load(l.path)
	if err != nil {
		return l.current, errors.Wrap(errors.ErrCodeReloadFailed, "config reload failed, keeping previous", err)
	}

	l.current = config

	return config, nil
}
