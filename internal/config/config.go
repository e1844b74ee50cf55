// Package config loads the daemon configuration from an optional YAML file
// with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/headtilt/internal/gesture"
)

// ErrBadPort is returned when no valid UDP listen port was supplied. The
// port is the one piece of configuration the daemon cannot run without.
var ErrBadPort = errors.New("config: missing or invalid listen port")

// Config is the top-level daemon configuration.
type Config struct {
	// Port is the UDP port the sensor stream arrives on. Supplied in the
	// file or through the PORT environment variable; required.
	Port       int              `yaml:"port"`
	DBPath     string           `yaml:"db_path"`
	Server     ServerConfig     `yaml:"server"`
	Niri       NiriConfig       `yaml:"niri"`
	Dispatch   DispatchConfig   `yaml:"dispatch"`
	Classifier ClassifierConfig `yaml:"classifier"`
}

// ServerConfig configures the HTTP status server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// NiriConfig configures the compositor control channel. When ExecCommand is
// set it replaces the niri socket with an external command invocation.
type NiriConfig struct {
	Socket      string   `yaml:"socket"`
	ExecCommand []string `yaml:"exec_command"`
}

// DispatchConfig configures the dispatcher debounce.
type DispatchConfig struct {
	MinIntervalMs    int `yaml:"min_interval_ms"`
	RepeatIntervalMs int `yaml:"repeat_interval_ms"`
}

// ClassifierConfig exposes the engine thresholds. Zero values fall back to
// the engine defaults, so a file only needs to name what it changes.
type ClassifierConfig struct {
	YawRate        float64 `yaml:"yaw_rate"`
	PitchUpRate    float64 `yaml:"pitch_up_rate"`
	PitchDownRate  float64 `yaml:"pitch_down_rate"`
	MonitorYawRate float64 `yaml:"monitor_yaw_rate"`
	MonitorMinYaw  float64 `yaml:"monitor_min_yaw"`
	IdleWindowMs   int     `yaml:"idle_window_ms"`
	WarmUp         int     `yaml:"warm_up"`
	Capacity       int     `yaml:"capacity"`
	MaxDeltaMs     int     `yaml:"max_delta_ms"`
}

// Engine converts the file representation into the classifier configuration.
func (c ClassifierConfig) Engine() gesture.Config {
	return gesture.Config{
		YawRate:        c.YawRate,
		PitchUpRate:    c.PitchUpRate,
		PitchDownRate:  c.PitchDownRate,
		MonitorYawRate: c.MonitorYawRate,
		MonitorMinYaw:  c.MonitorMinYaw,
		IdleWindow:     time.Duration(c.IdleWindowMs) * time.Millisecond,
		WarmUp:         c.WarmUp,
		Capacity:       c.Capacity,
		MaxDelta:       time.Duration(c.MaxDeltaMs) * time.Millisecond,
	}
}

// Default returns the configuration used when no file is present. The port
// deliberately stays unset; it must be supplied externally.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8743"},
	}
}

// Load reads the configuration file at path, if it exists, applies
// environment overrides and validates the result. An empty path skips the
// file and relies on defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, ErrBadPort
	}
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PORT=%q", ErrBadPort, v)
		}
		cfg.Port = port
	}
	if v := os.Getenv("HEADTILT_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("HEADTILT_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	return nil
}
