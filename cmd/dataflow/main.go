// Package main implements the dataflow command: a terminal front end for
// the flowmesh dataflow engine, standing in for the out-of-scope HTTP
// transport. It loads a configuration and lets an operator publish values,
// inspect topic state, and inspect the topic/agent graph from a REPL.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/c360/flowmesh/runtime"
)

const (
	Version = "0.1.0"
	appName = "dataflow"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\n", r)
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("dataflow failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil
	}

	slog.SetDefault(setupLogger(cliCfg.LogLevel, cliCfg.LogFormat))

	rtCfg := runtime.DefaultConfig()
	if cliCfg.RuntimeConfigPath != "" {
		loaded, err := runtime.LoadConfigFile(cliCfg.RuntimeConfigPath)
		if err != nil {
			return fmt.Errorf("load runtime config: %w", err)
		}
		rtCfg = loaded
	}

	rt := runtime.New(runtime.WithBaseDir(cliCfg.BaseDir), runtime.WithConfig(rtCfg))
	defer func() {
		if err := rt.Close(); err != nil {
			slog.Warn("dataflow: close failed", "error", err)
		}
	}()

	if cliCfg.ConfigPath != "" {
		if err := rt.LoadConfig(cliCfg.ConfigPath); err != nil {
			return fmt.Errorf("load dataflow config %q: %w", cliCfg.ConfigPath, err)
		}
		slog.Info("dataflow configuration loaded", "path", cliCfg.ConfigPath)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	repl := newREPL(rt, bufio.NewReader(os.Stdin), os.Stdout)
	return repl.Run(ctx)
}
