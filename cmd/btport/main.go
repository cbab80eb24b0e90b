package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joeycumines/btport/internal/btcore"
	"github.com/joeycumines/btport/internal/command"
	"github.com/joeycumines/btport/internal/config"
	"github.com/joeycumines/btport/internal/nodes"
	"github.com/joeycumines/btport/internal/script"
)

const version = "0.1.0"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("btport", flag.ContinueOnError)
	global.SetOutput(stderr)
	logLevel := global.String("log-level", "", "Log level: DEBUG, INFO, WARN, ERROR (default from config)")
	configPath := global.String("config", "", "Config file (default $"+config.EnvConfigPath+" or ~/.btport/config)")
	showHelp := false
	if err := global.Parse(args); errors.Is(err, flag.ErrHelp) {
		showHelp = true
	} else if err != nil {
		return err
	}

	path := *configPath
	if path == "" {
		// Without a home directory the config stays in memory.
		path, _ = config.GetConfigPath()
	}
	cfg := config.NewConfig()
	if path != "" {
		loaded, err := config.LoadFromPath(path)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Warning: ignoring config: %v\n", err)
		} else {
			cfg = loaded
		}
	}

	if err := command.ConfigureLogging(stderr, *logLevel, cfg); err != nil {
		return err
	}

	schema := config.DefaultSchema()
	cacheSize, err := config.Typed[int](schema, cfg, "script.cache-size")
	if err != nil {
		slog.Warn("using default script cache size", slog.String("component", "main"), slog.Any("error", err))
		cacheSize = script.DefaultCacheSize
	}
	script.SetCacheSize(cacheSize)

	strict, err := config.Typed[bool](schema, cfg, "strict")
	if err != nil {
		slog.Warn("using strict manifests", slog.String("component", "main"), slog.Any("error", err))
		strict = true
	}
	manifests := btcore.NewManifestRegistry(btcore.WithStrict(strict))
	if err := nodes.Register(manifests); err != nil {
		return fmt.Errorf("registering built-in nodes: %w", err)
	}
	converters := btcore.DefaultConverters()

	registry := command.NewRegistry()
	helpCmd := command.NewHelpCommand(registry)
	registry.Register(helpCmd)
	registry.Register(command.NewVersionCommand(version))
	registry.Register(command.NewConfigCommand(cfg, path))
	registry.Register(command.NewConvertCommand(cfg, converters))
	registry.Register(command.NewTypesCommand(converters))
	registry.Register(command.NewPortsCommand(manifests))
	registry.Register(command.NewStatusCommand(cfg))
	registry.Register(command.NewCheckCommand(cfg, manifests))
	registry.Register(command.NewEvalCommand(converters, manifests))

	rest := global.Args()
	if showHelp || len(rest) == 0 {
		return helpCmd.Execute(nil, stdout, stderr)
	}

	cmdName := rest[0]

	cmd, err := registry.Get(cmdName)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", cmdName)
		_, _ = fmt.Fprintln(stderr, "Use 'btport help' to see available commands.")
		return err
	}

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: btport %s\n", cmd.Usage())
		_, _ = fmt.Fprintf(stderr, "\n%s\n\n", cmd.Description())
		_, _ = fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}
	cmd.SetupFlags(fs)
	if err := fs.Parse(rest[1:]); err != nil {
		return err
	}

	return cmd.Execute(fs.Args(), stdout, stderr)
}
