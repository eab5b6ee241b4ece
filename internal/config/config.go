// Package config loads daemon configuration from a YAML file, environment
// variables, and flag overrides, in that order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ayusman/banyan/internal/detector"
	"github.com/ayusman/banyan/internal/phase"
)

// Config is the daemon configuration.
type Config struct {
	ListenAddr      string  `mapstructure:"listen_addr"`
	DataDir         string  `mapstructure:"data_dir"`
	StaticDir       string  `mapstructure:"static_dir"`
	CameraID        int     `mapstructure:"camera_id"`
	ControlHand     string  `mapstructure:"control_hand"`
	EntityCount     int     `mapstructure:"entity_count"`
	LayoutSeed      int64   `mapstructure:"layout_seed"`
	MotionThreshold float64 `mapstructure:"motion_threshold"`

	// Transition durations in milliseconds; zero means the default.
	SpreadMs   int `mapstructure:"spread_ms"`
	CollapseMs int `mapstructure:"collapse_ms"`
	FocusMs    int `mapstructure:"focus_ms"`
}

// Load reads the configuration. When path is empty, a banyan.yaml in the
// working directory or ~/.banyan is used if present; a missing file is not
// an error. Environment variables use the BANYAN_ prefix.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("camera_id", 0)
	v.SetDefault("control_hand", detector.HandednessRight)
	v.SetDefault("entity_count", 24)
	v.SetDefault("layout_seed", 0)
	v.SetDefault("motion_threshold", 1.0)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("banyan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.banyan")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("BANYAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// PhaseConfig converts the configured durations into the phase machine's
// timings, falling back to the defaults for zero values.
func (c *Config) PhaseConfig() phase.Config {
	pc := phase.DefaultConfig()
	if c.SpreadMs > 0 {
		pc.SpreadDuration = time.Duration(c.SpreadMs) * time.Millisecond
	}
	if c.CollapseMs > 0 {
		pc.CollapseDuration = time.Duration(c.CollapseMs) * time.Millisecond
	}
	if c.FocusMs > 0 {
		pc.FocusDuration = time.Duration(c.FocusMs) * time.Millisecond
	}
	return pc
}
