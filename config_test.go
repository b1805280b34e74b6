package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
[bus]
side = "arm7"
sim = true

[position]
settle = "250us"

[log]
modules = ["sim", "cli"]
`)

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	want := defaultConfig
	want.Bus.Side = "arm7"
	want.Bus.Sim = true
	want.Position.Settle = duration{250 * time.Microsecond}
	want.Log.Modules = []string{"sim", "cli"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	got, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(defaultConfig, got); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "[bus]\nspeed = 3\n"},
		{"invalid side", "[bus]\nside = \"sh4\"\n"},
		{"invalid duration", "[position]\nsettle = \"soon\"\n"},
		{"null interval", "[position]\ninterval = \"0s\"\n"},
		{"syntax", "[bus\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfigFile(t, tt.content)); err == nil {
				t.Errorf("LoadConfig() succeeded, want an error")
			}
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Errorf("LoadConfig() succeeded, want an error")
		}
	})
}

func TestWriteConfig(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteConfig(&buf, defaultConfig); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`side = "g2"`, `settle = "1ms"`, `interval = "100ms"`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("config output lacks %q:\n%s", want, buf.String())
		}
	}
}

func TestPhysAddr(t *testing.T) {
	tests := []struct {
		bus  BusConfig
		want int64
	}{
		{BusConfig{Side: "g2"}, 0x00700000},
		{BusConfig{Side: "arm7"}, 0x00800000},
		{BusConfig{Side: "g2", Phys: 0x10000000}, 0x10000000},
	}
	for _, tt := range tests {
		if got := tt.bus.physAddr(); got != tt.want {
			t.Errorf("%+v.physAddr() = %#x, want %#x", tt.bus, got, tt.want)
		}
	}
}
