package main

import (
	"flag"
	"fmt"
	"os"
)

// CLIConfig holds command-line configuration for the dataflow command.
type CLIConfig struct {
	ConfigPath        string
	RuntimeConfigPath string
	BaseDir           string
	LogLevel          string
	LogFormat         string
	ShowVersion       bool
	ShowHelp          bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("DATAFLOW_CONFIG", ""),
		"Path to a dataflow configuration file to load at startup (env: DATAFLOW_CONFIG)")

	flag.StringVar(&cfg.RuntimeConfigPath, "runtime-config",
		getEnv("DATAFLOW_RUNTIME_CONFIG", ""),
		"Path to a YAML runtime config overriding queue/rate-limit defaults (env: DATAFLOW_RUNTIME_CONFIG)")

	flag.StringVar(&cfg.BaseDir, "base-dir",
		getEnv("DATAFLOW_BASE_DIR", "."),
		"Directory config_files/ is created under (env: DATAFLOW_BASE_DIR)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("DATAFLOW_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: DATAFLOW_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("DATAFLOW_LOG_FORMAT", "text"),
		"Log format: json, text (env: DATAFLOW_LOG_FORMAT)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")

	flag.Usage = printDetailedHelp
	flag.Parse()

	return cfg
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - a terminal front end for the flowmesh dataflow engine

Usage: %s [options]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Once running, type "help" at the prompt for the REPL command set.

Examples:
  # Load a config at startup and drive it interactively
  %s --config=configs/sum-chain.cfg

Version: %s
`, os.Args[0], Version)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
