package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/go-faster/errors"

	"aica/log"
)

type mode byte

const (
	regsMode     mode = iota // List registers
	decodeMode               // Decode a register word
	encodeMode               // Encode field values
	peekMode                 // Read a register
	pokeMode                 // Write a register
	positionMode             // Read the play position of a channel
	watchMode                // Poll play positions
	configMode               // Show effective configuration
	versionMode              // Show aicareg version
)

type (
	CLI struct {
		Regs     Regs       `cmd:"" help:"List registers and their fields."`
		Decode   Decode     `cmd:"" help:"Split a register value into its fields."`
		Encode   Encode     `cmd:"" help:"Build a register value from field values."`
		Peek     Peek       `cmd:"" help:"Read a register."`
		Poke     Poke       `cmd:"" help:"Write a register."`
		Position Position   `cmd:"" help:"Read the play position of a channel."`
		Watch    Watch      `cmd:"" help:"Poll the play position of channels until interrupted."`
		Config   ShowConfig `cmd:"" help:"Show the effective configuration."`
		Version  Version    `cmd:"" help:"Show aicareg version."`

		ConfigFile string     `name:"config" help:"${config_help}" type:"path" placeholder:"FILE"`
		Log        logModules `help:"${log_help}" placeholder:"mod0,mod1,..."`
		Side       string     `help:"${side_help}" placeholder:"g2|arm7"`
		DevMem     string     `name:"devmem" help:"Physical memory device." type:"path" placeholder:"PATH"`
		Sim        bool       `help:"Use a simulated chip instead of the hardware."`

		mode mode
	}

	Regs struct {
		JSON bool `name:"json" help:"Output JSON."`
	}

	Decode struct {
		Register string `arg:"" help:"${register_help}"`
		Value    word   `arg:"" help:"Register value."`
		JSON     bool   `name:"json" help:"Output JSON."`
	}

	Encode struct {
		Register string   `arg:"" help:"${register_help}"`
		Fields   []string `arg:"" optional:"" help:"Field values, unset fields are zero." placeholder:"FIELD=VALUE"`
	}

	Peek struct {
		Register string `arg:"" help:"${register_help}"`
		Index    int    `short:"i" aliases:"channel,step" help:"${index_help}" default:"0"`
		JSON     bool   `name:"json" help:"Output JSON."`
	}

	Poke struct {
		Register string `arg:"" help:"${register_help}"`
		Value    word   `arg:"" help:"Register value, or field value with --field."`
		Index    int    `short:"i" aliases:"channel,step" help:"${index_help}" default:"0"`
		Field    string `short:"f" help:"Only update this field."`
	}

	Position struct {
		Channel int `arg:"" help:"Sample channel (0-63)."`
	}

	Watch struct {
		Channels []int         `arg:"" help:"Sample channels (0-63)."`
		Count    int           `short:"n" help:"Stop after this many polls (0: until interrupted)." default:"0"`
		Interval time.Duration `help:"Poll period (default: position.interval from the configuration)."`
	}

	ShowConfig struct{}
	Version    struct{}
)

var vars = kong.Vars{
	"config_help":   "Configuration file (default: aicareg/config.toml in the user config directory).",
	"log_help":      "Enable logging for specified modules.",
	"side_help":     "Bus side the registers are accessed from: g2 (host) or arm7 (sound CPU).",
	"register_help": "Register name, see 'aicareg regs'.",
	"index_help":    "Channel, mixer lane or DSP step of the register.",
}

func parseArgs(args []string) (CLI, error) {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("aicareg"),
		kong.Description("Dreamcast AICA register tool."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return CLI{}, err
	}
	if ctx.Error != nil {
		return CLI{}, ctx.Error
	}

	cmd, _, _ := strings.Cut(ctx.Command(), " ")
	switch cmd {
	case "regs":
		cfg.mode = regsMode
	case "decode":
		cfg.mode = decodeMode
	case "encode":
		cfg.mode = encodeMode
	case "peek":
		cfg.mode = peekMode
	case "poke":
		cfg.mode = pokeMode
	case "position":
		cfg.mode = positionMode
	case "watch":
		cfg.mode = watchMode
	case "config":
		cfg.mode = configMode
	case "version":
		cfg.mode = versionMode
	default:
		return CLI{}, errors.Errorf("unexpected command %q", ctx.Command())
	}
	return cfg, nil
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if ctx.Command() == "" {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

// logModules is the list of modules given to --log. It replaces the modules
// of the configuration file.
type logModules []string

// Decode decodes and checks a comma-separated list of module names.
//
// Implements kong.MapperValue interface.
func (lm *logModules) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	s, ok := tok.Value.(string)
	if !ok {
		return errors.Errorf("expected module list, got %v", tok.Value)
	}
	if _, err := log.ParseModuleMask(s); err != nil {
		return err
	}
	*lm = strings.Split(s, ",")
	return nil
}

// word is a 32-bit register value, in any notation accepted by Go integer
// literals.
type word uint32

// Implements kong.MapperValue interface.
func (w *word) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	s, ok := tok.Value.(string)
	if !ok {
		return errors.Errorf("expected register value, got %v", tok.Value)
	}
	v, err := parseWord(s)
	if err != nil {
		return err
	}
	*w = word(v)
	return nil
}

func parseWord(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid value %q", s)
	}
	return uint32(v), nil
}

func check(err error) {
	if err != nil {
		fatalf("%s", err)
	}
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
