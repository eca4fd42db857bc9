package arbor

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig holds the window and loop settings used by NewApp and Run.
type RunConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// TPS is the fixed tick rate; each tick advances the frame context by 1/TPS.
	TPS int `yaml:"tps"`
	// MultiTouch reconciles every pointer instead of only the primary one.
	MultiTouch bool `yaml:"multiTouch"`
	// ClearColor fills the screen before each render. Transparent skips the fill.
	ClearColor Color `yaml:"clearColor"`
	// Debug turns on pass timing logs and tree sanity checks.
	Debug bool `yaml:"debug"`
	// ShowCollider overlays node bounds while rendering.
	ShowCollider  bool   `yaml:"showCollider"`
	ScreenshotDir string `yaml:"screenshotDir"`
}

// DefaultRunConfig returns a 640x960 portrait window ticking at 60 TPS with
// multi-touch on.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Title:         "arbor",
		Width:         640,
		Height:        960,
		TPS:           60,
		MultiTouch:    true,
		ScreenshotDir: "screenshots",
	}
}

// LoadRunConfig decodes a YAML document over DefaultRunConfig, so omitted
// keys keep their defaults.
func LoadRunConfig(data []byte) (RunConfig, error) {
	cfg := DefaultRunConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("parse run config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return RunConfig{}, fmt.Errorf("parse run config: %w", err)
	}
	return cfg, nil
}

// LoadRunConfigFile reads and decodes a YAML run config file.
func LoadRunConfigFile(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("read run config: %w", err)
	}
	return LoadRunConfig(data)
}

func (c RunConfig) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if c.TPS <= 0 {
		return errors.New("tps must be positive")
	}
	return nil
}
