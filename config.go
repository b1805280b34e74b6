package main

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"

	"aica/hw/aica"
	"aica/log"
)

type Config struct {
	Bus      BusConfig      `toml:"bus"`
	Position PositionConfig `toml:"position"`
	Log      LogConfig      `toml:"log"`
}

type BusConfig struct {
	Side   string `toml:"side"`   // "g2" (host CPU) or "arm7" (sound CPU)
	DevMem string `toml:"devmem"` // physical memory device
	Phys   int64  `toml:"phys"`   // physical address of the register space, derived from the side if 0
	Sim    bool   `toml:"sim"`    // use a simulated chip
}

type PositionConfig struct {
	// Delay between a channel info request and the play position read.
	Settle duration `toml:"settle"`
	// Poll period of the watch command.
	Interval duration `toml:"interval"`
}

type LogConfig struct {
	Modules []string `toml:"modules"`
}

// duration is a time.Duration read from and written to TOML as a string
// such as "250us".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

var defaultConfig = Config{
	Bus: BusConfig{
		Side:   "g2",
		DevMem: "/dev/mem",
	},
	Position: PositionConfig{
		Settle:   duration{time.Millisecond},
		Interval: duration{100 * time.Millisecond},
	},
}

const cfgFilename = "config.toml"

// defaultConfigPath returns the configuration file in the user config
// directory, or "" if there is none.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		log.ModCLI.Warnf("no user configuration directory: %v", err)
		return ""
	}
	return filepath.Join(dir, "aicareg", cfgFilename)
}

// LoadConfig reads the configuration at path over the defaults. An empty
// path selects the user configuration file, which may be missing.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig
	optional := path == ""
	if optional {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return defaultConfig, nil
		}
		return Config{}, errors.Wrapf(err, "load config %s", path)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, errors.Errorf("config %s: unknown key %s", path, undec[0])
	}
	if err := cfg.validate(); err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	log.ModCLI.WithField("path", path).Debugf("configuration loaded")
	return cfg, nil
}

func (cfg Config) validate() error {
	if _, ok := sideBase(cfg.Bus.Side); !ok {
		return errors.Errorf("invalid bus side %q", cfg.Bus.Side)
	}
	if cfg.Position.Settle.Duration < 0 || cfg.Position.Interval.Duration <= 0 {
		return errors.New("position durations must be positive")
	}
	return nil
}

// WriteConfig encodes cfg as TOML.
func WriteConfig(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

func sideBase(side string) (uint32, bool) {
	switch side {
	case "g2":
		return aica.G2Base, true
	case "arm7":
		return aica.ARM7Base, true
	}
	return 0, false
}

// physAddr returns the physical address of the register space as seen from
// the configured side. G2 addresses are in the SH4 uncached P2 segment.
func (b BusConfig) physAddr() int64 {
	if b.Phys != 0 {
		return b.Phys
	}
	base, _ := sideBase(b.Side)
	return int64(base & 0x1fffffff)
}
