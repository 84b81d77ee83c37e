// Package config loads the optional grib.yaml file that tunes a run's
// stack capacity, GC trigger, and enabled native packages — the knobs
// the evaluator leaves to the embedder rather than hard-coding.
package config

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/cwbudde/grib/internal/eval"
)

// Config is the on-disk shape of grib.yaml.
type Config struct {
	Stack struct {
		Capacity int `yaml:"capacity"`
	} `yaml:"stack"`
	GC struct {
		AllocationThreshold int `yaml:"allocationThreshold"`
	} `yaml:"gc"`
	Natives []string `yaml:"natives"`
}

// Default returns the configuration used when no grib.yaml is present:
// the evaluator's own defaults plus all three native packages enabled.
func Default() Config {
	var c Config
	c.Stack.Capacity = 65536
	c.GC.AllocationThreshold = 4096
	c.Natives = []string{"console", "fmt", "math"}
	return c
}

// Load reads and parses path, falling back to Default for any field
// left zero in the file (a partial grib.yaml only overrides what it
// names).
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Stack.Capacity <= 0 {
		cfg.Stack.Capacity = Default().Stack.Capacity
	}
	if cfg.GC.AllocationThreshold <= 0 {
		cfg.GC.AllocationThreshold = Default().GC.AllocationThreshold
	}
	if len(cfg.Natives) == 0 {
		cfg.Natives = Default().Natives
	}
	return cfg, nil
}

// NativeEnabled reports whether pkg is listed in c.Natives.
func (c Config) NativeEnabled(pkg string) bool {
	for _, n := range c.Natives {
		if n == pkg {
			return true
		}
	}
	return false
}

// EvalConfig adapts c to the eval package's Config shape.
func (c Config) EvalConfig(trace bool) eval.Config {
	return eval.Config{
		StackCapacity: c.Stack.Capacity,
		GCThreshold:   c.GC.AllocationThreshold,
		TraceCalls:    trace,
	}
}
