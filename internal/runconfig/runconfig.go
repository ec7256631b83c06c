// Package runconfig holds the renderer's YAML-overridable tunables.
// Every field defaults to its production constant; a config file may
// override them, and CLI flags always take precedence over whatever the
// config file sets.
package runconfig

import (
	"fmt"
	"math"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ConfigError wraps a failure to load or parse a config file with the
// offending path.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("runconfig: %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Config holds renderer tunables that are otherwise fixed constants, but
// which are worth experimenting with between runs. cmd/pwos applies
// RRProb, LiveProgress and LiveAddr; BoundaryEpsilon and
// MinGridRMultiplier are loaded but no integrator reads them, so the
// epsilon shell stays 1e-2 and minGridR stays sqrt(2) times the cell
// length.
//
// The yaml tags are lower-case because viper lower-cases every key it
// reads, and Load decodes viper's settings map through these tags.
type Config struct {
	RRProb             float64 `mapstructure:"rrProb" yaml:"rrprob"`
	BoundaryEpsilon    float64 `mapstructure:"boundaryEpsilon" yaml:"boundaryepsilon"`
	MinGridRMultiplier float64 `mapstructure:"minGridRMultiplier" yaml:"mingridrmultiplier"`
	LiveProgress       bool    `mapstructure:"liveProgress" yaml:"liveprogress"`
	LiveAddr           string  `mapstructure:"liveAddr" yaml:"liveaddr"`
}

// Default returns the tunables at their production constant values.
func Default() Config {
	return Config{
		RRProb:             0.99,
		BoundaryEpsilon:    1e-2,
		MinGridRMultiplier: math.Sqrt2,
		LiveProgress:       false,
		LiveAddr:           ":8080",
	}
}

// Load reads a YAML config file at path, starting from Default() and
// overriding only the keys the file sets. viper locates and parses the
// file into a raw map, which is re-marshaled and decoded into Config via
// yaml.v3 so that keys absent from the file leave Default()'s values
// untouched.
func Load(path string) (Config, error) {
	cfg := Default()

	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	if err := vp.ReadInConfig(); err != nil {
		return cfg, &ConfigError{Path: path, Err: err}
	}

	raw, err := yaml.Marshal(vp.AllSettings())
	if err != nil {
		return cfg, &ConfigError{Path: path, Err: err}
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, &ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}
