package main

import (
	"fmt"
	"os"
	"strings"

	"aica/log"
)

var version = "devel"

func main() {
	cli, err := parseArgs(os.Args[1:])
	checkf(err, "failed to parse command line")

	cfg, err := LoadConfig(cli.ConfigFile)
	checkf(err, "failed to load configuration")
	cfg = cli.applyTo(cfg)
	checkf(cfg.validate(), "invalid configuration")

	checkf(setupLogs(cfg.Log.Modules), "invalid configuration")
	log.ModCLI.Infof("bus side %s, simulated %t", cfg.Bus.Side, cfg.Bus.Sim)

	switch cli.mode {
	case versionMode:
		fmt.Println("aicareg", version)
	case configMode:
		check(WriteConfig(os.Stdout, cfg))
	case regsMode:
		if cli.Regs.JSON {
			check(listRegsJSON(os.Stdout))
		} else {
			check(listRegs(os.Stdout))
		}
	case decodeMode:
		check(decode(os.Stdout, cli.Decode.Register, uint32(cli.Decode.Value), cli.Decode.JSON))
	case encodeMode:
		check(encode(os.Stdout, cli.Encode.Register, cli.Encode.Fields))
	default:
		s, err := openSession(cfg, os.Stdout)
		checkf(err, "failed to access AICA registers")
		err = s.run(cli)
		if cerr := s.Close(); cerr != nil {
			log.ModCLI.Errorf("failed to release registers: %v", cerr)
		}
		check(err)
	}
}

// applyTo overrides configuration settings with command line flags.
func (cli CLI) applyTo(cfg Config) Config {
	if cli.Side != "" {
		cfg.Bus.Side = cli.Side
	}
	if cli.DevMem != "" {
		cfg.Bus.DevMem = cli.DevMem
	}
	if cli.Sim {
		cfg.Bus.Sim = true
	}
	if cli.Log != nil {
		cfg.Log.Modules = cli.Log
	}
	return cfg
}

// setupLogs enables debug logs for the given modules only.
func setupLogs(modules []string) error {
	mask, err := log.ParseModuleMask(strings.Join(modules, ","))
	if err != nil {
		return err
	}
	log.DisableDebugModules(log.ModuleMaskAll)
	log.EnableDebugModules(mask)
	return nil
}
