package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/grib/internal/config"
)

func TestDefaultEnablesAllNatives(t *testing.T) {
	c := config.Default()
	for _, pkg := range []string{"console", "fmt", "math"} {
		if !c.NativeEnabled(pkg) {
			t.Errorf("Default() should enable %q", pkg)
		}
	}
	if c.NativeEnabled("nope") {
		t.Error("Default() should not enable an unknown package")
	}
}

func TestLoadOverridesOnlyNamedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grib.yaml")
	if err := os.WriteFile(path, []byte("natives: [console]\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.NativeEnabled("console") || c.NativeEnabled("fmt") {
		t.Errorf("expected only console enabled, got %v", c.Natives)
	}
	if c.Stack.Capacity != config.Default().Stack.Capacity {
		t.Errorf("Stack.Capacity = %d, want default %d", c.Stack.Capacity, config.Default().Stack.Capacity)
	}
}

func TestEvalConfigCarriesTraceFlag(t *testing.T) {
	c := config.Default()
	ec := c.EvalConfig(true)
	if !ec.TraceCalls {
		t.Error("EvalConfig(true).TraceCalls = false, want true")
	}
	if ec.StackCapacity != c.Stack.Capacity {
		t.Errorf("StackCapacity = %d, want %d", ec.StackCapacity, c.Stack.Capacity)
	}
}
