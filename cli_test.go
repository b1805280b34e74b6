package main

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"aica/log"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		args  []string
		mode  mode
		check func(t *testing.T, cli CLI)
	}{
		{
			args: []string{"regs", "--json"},
			mode: regsMode,
			check: func(t *testing.T, cli CLI) {
				if !cli.Regs.JSON {
					t.Errorf("json flag not set")
				}
			},
		},
		{
			args: []string{"decode", "play-control", "0x4280"},
			mode: decodeMode,
			check: func(t *testing.T, cli CLI) {
				if cli.Decode.Register != "play-control" || cli.Decode.Value != 0x4280 {
					t.Errorf("decode = %+v", cli.Decode)
				}
			},
		},
		{
			args: []string{"encode", "pitch", "octave=2", "fns=0x100"},
			mode: encodeMode,
			check: func(t *testing.T, cli CLI) {
				if diff := cmp.Diff([]string{"octave=2", "fns=0x100"}, cli.Encode.Fields); diff != "" {
					t.Errorf("encode fields (-want +got):\n%s", diff)
				}
			},
		},
		{
			args: []string{"--sim", "--side", "arm7", "peek", "pitch", "--channel", "12"},
			mode: peekMode,
			check: func(t *testing.T, cli CLI) {
				if !cli.Sim || cli.Side != "arm7" || cli.Peek.Index != 12 {
					t.Errorf("cli = %+v", cli)
				}
			},
		},
		{
			args: []string{"poke", "master-volume", "0b1010", "-f", "volume"},
			mode: pokeMode,
			check: func(t *testing.T, cli CLI) {
				if cli.Poke.Value != 10 || cli.Poke.Field != "volume" {
					t.Errorf("poke = %+v", cli.Poke)
				}
			},
		},
		{
			args: []string{"position", "63"},
			mode: positionMode,
		},
		{
			args: []string{"watch", "1", "2", "-n", "5", "--interval", "20ms"},
			mode: watchMode,
			check: func(t *testing.T, cli CLI) {
				want := Watch{Channels: []int{1, 2}, Count: 5, Interval: 20 * time.Millisecond}
				if diff := cmp.Diff(want, cli.Watch); diff != "" {
					t.Errorf("watch (-want +got):\n%s", diff)
				}
			},
		},
		{
			args: []string{"config", "--config", "/tmp/aicareg.toml"},
			mode: configMode,
			check: func(t *testing.T, cli CLI) {
				if cli.ConfigFile != "/tmp/aicareg.toml" {
					t.Errorf("config file = %q", cli.ConfigFile)
				}
			},
		},
		{
			args: []string{"version"},
			mode: versionMode,
		},
	}
	for _, tt := range tests {
		cli, err := parseArgs(tt.args)
		if err != nil {
			t.Errorf("parseArgs(%q): %v", tt.args, err)
			continue
		}
		if cli.mode != tt.mode {
			t.Errorf("parseArgs(%q) mode = %d, want %d", tt.args, cli.mode, tt.mode)
		}
		if tt.check != nil {
			tt.check(t, cli)
		}
	}
}

func TestParseArgsErrors(t *testing.T) {
	for _, args := range [][]string{
		{"decode", "pitch", "0xzz"},
		{"decode", "pitch", "0x100000000"},
		{"--log", "sound", "regs"},
		{"frobnicate"},
	} {
		if _, err := parseArgs(args); err == nil {
			t.Errorf("parseArgs(%q) succeeded, want an error", args)
		}
	}
}

func TestLogModules(t *testing.T) {
	t.Cleanup(func() { log.DisableDebugModules(log.ModuleMaskAll) })

	cli, err := parseArgs([]string{"--log", "sim,cli", "regs"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(logModules{"sim", "cli"}, cli.Log); diff != "" {
		t.Errorf("log modules (-want +got):\n%s", diff)
	}

	cfg := defaultConfig
	cfg.Log.Modules = []string{"mmio"}
	if err := setupLogs(cli.applyTo(cfg).Log.Modules); err != nil {
		t.Fatal(err)
	}
	if !log.ModSim.Enabled(log.DebugLevel) || !log.ModCLI.Enabled(log.DebugLevel) {
		t.Errorf("sim and cli debug logs should be enabled")
	}
	if log.ModMMIO.Enabled(log.DebugLevel) {
		t.Errorf("--log should replace the modules of the configuration")
	}

	// --log no wins over the configuration file.
	cli, err = parseArgs([]string{"--log", "no", "regs"})
	if err != nil {
		t.Fatal(err)
	}
	cfg.Log.Modules = []string{"all"}
	if err := setupLogs(cli.applyTo(cfg).Log.Modules); err != nil {
		t.Fatal(err)
	}
	if log.ModSim.Enabled(log.DebugLevel) || log.ModMMIO.Enabled(log.DebugLevel) {
		t.Errorf("--log no should disable debug logs")
	}

	// Without --log, the configuration applies.
	cli, err = parseArgs([]string{"regs"})
	if err != nil {
		t.Fatal(err)
	}
	if err := setupLogs(cli.applyTo(cfg).Log.Modules); err != nil {
		t.Fatal(err)
	}
	if !log.ModMMIO.Enabled(log.DebugLevel) {
		t.Errorf("configuration modules should be enabled without --log")
	}
}

func TestApplyTo(t *testing.T) {
	cli := CLI{Side: "arm7", DevMem: "/dev/fake", Sim: true, Log: logModules{"hwio"}}
	got := cli.applyTo(defaultConfig)

	want := defaultConfig
	want.Bus = BusConfig{Side: "arm7", DevMem: "/dev/fake", Sim: true}
	want.Log.Modules = []string{"hwio"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("applyTo() mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(defaultConfig, CLI{}.applyTo(defaultConfig)); diff != "" {
		t.Errorf("empty flags changed the configuration:\n%s", diff)
	}
}
