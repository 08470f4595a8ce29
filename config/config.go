package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/astarviz/grid"
)

// ErrInvalidConfig indicates a configuration that failed validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the root of the YAML document.
type Config struct {
	Grid   GridConfig   `yaml:"grid"`
	Search SearchConfig `yaml:"search"`
	TUI    TUIConfig    `yaml:"tui"`
	Serve  ServeConfig  `yaml:"serve"`
	Log    LogConfig    `yaml:"log"`
}

// GridConfig drives random scenario generation.
type GridConfig struct {
	Size     int     `yaml:"size" validate:"gte=2,lte=1000"`
	Density  float64 `yaml:"density" validate:"gte=0,lte=1"`
	Clusters int     `yaml:"clusters" validate:"gte=0"`
	Seed     int64   `yaml:"seed"`
	// Scenario, when set, is loaded instead of generating a grid.
	Scenario string `yaml:"scenario,omitempty"`
}

// SearchConfig bounds a single run. Zero disables a limit.
type SearchConfig struct {
	Timeout  time.Duration `yaml:"timeout" validate:"gte=0"`
	MaxSteps int           `yaml:"max_steps" validate:"gte=0"`
}

// TUIConfig paces the interactive animation.
type TUIConfig struct {
	Delay time.Duration `yaml:"delay" validate:"gte=0"`
}

// ServeConfig configures the streaming server.
type ServeConfig struct {
	Addr    string `yaml:"addr" validate:"required,hostname_port"`
	Watch   bool   `yaml:"watch"`
	Metrics bool   `yaml:"metrics"`
	// StepDelay paces streamed searches so browsers can animate them.
	StepDelay time.Duration `yaml:"step_delay" validate:"gte=0"`
	// WriteTimeout bounds each websocket write.
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gt=0"`
}

// LogConfig selects the logrus level and formatter.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Grid: GridConfig{
			Size:    grid.DefaultSize,
			Density: 0.3,
			Seed:    1,
		},
		TUI: TUIConfig{
			Delay: 15 * time.Millisecond,
		},
		Serve: ServeConfig{
			Addr:         ":8080",
			Metrics:      true,
			WriteTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

var validate = validator.New()

// Validate checks every field constraint of c.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// Decode overlays the YAML in r on Default and validates the result.
// Unknown keys are rejected. An empty document yields Default.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads path with Decode. An empty path returns Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to path as YAML.
func Save(path string, c Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encoding: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
