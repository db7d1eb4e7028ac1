package main

import (
	"fmt"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/divvun/divvun-worker-grammar/internal/config"
	derrors "github.com/divvun/divvun-worker-grammar/internal/errors"
	"github.com/divvun/divvun-worker-grammar/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:""`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct {
		Bundle   string `arg:"" optional:"" help:"Path to the grammar bundle (.drb)" type:"path"`
		Language string `short:"l" env:"DEFAULT_LANGUAGE" help:"Default localization language"`
		Host     string `env:"HOST" help:"Listen address"`
		Port     int    `short:"p" env:"PORT" help:"Listen port"`
		Watch    bool   `short:"w" help:"Reload the bundle when it changes on disk"`
	} `cmd:"" help:"Run the grammar checker HTTP service"`

	Check struct {
		Bundle   string   `arg:"" help:"Path to the grammar bundle (.drb)" type:"path"`
		Text     string   `arg:"" optional:"" help:"Text to check (reads stdin when omitted)"`
		ExitZero bool     `help:"Exit 0 even when errors are found"`
		JSON     bool     `help:"Print the raw JSON response"`
		Encoding string   `help:"Offset encoding: utf-16 or utf-8" default:"utf-16"`
		Ignore   []string `short:"i" help:"Error codes or tags to suppress"`
		Locale   []string `help:"Preferred locales for error messages"`
	} `cmd:"" help:"Check a text once and print the findings"`

	Inspect struct {
		Bundle string `arg:"" help:"Path to the grammar bundle (.drb)" type:"path"`
	} `cmd:"" help:"Print bundle metadata, rules and locales"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("divvun-worker-grammar"),
		kong.Description("HTTP worker exposing Divvun grammar checking"))

	cfg, err := loadConfig()
	adapter := derrors.NewCLIErrorAdapter(CLI.Verbose, slog.Default())
	if err != nil {
		adapter.HandleError(err)
	}

	slog.SetDefault(config.NewLogger(cfg.Logging, CLI.Verbose))

	switch ctx.Command() {
	case "serve", "serve <bundle>":
		adapter.HandleError(runServe(cfg))
	case "check <bundle>", "check <bundle> <text>":
		adapter.HandleError(runCheck())
	case "inspect <bundle>":
		adapter.HandleError(runInspect(CLI.Inspect.Bundle))
	case "version":
		fmt.Printf("divvun-worker-grammar %s (commit %s, built %s)\n",
			version.Version, version.GitCommit, version.BuildTime)
	}
}

// loadConfig reads the configuration file when one is given and folds the
// serve command's flags on top.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if CLI.Config != "" {
		loaded, err := config.Load(CLI.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	if CLI.Serve.Bundle != "" {
		cfg.Bundle.Path = CLI.Serve.Bundle
	}
	if CLI.Serve.Language != "" {
		cfg.Bundle.Language = CLI.Serve.Language
	}
	if CLI.Serve.Watch {
		cfg.Bundle.Watch = true
	}
	if CLI.Serve.Host != "" {
		cfg.Server.Host = CLI.Serve.Host
	}
	if CLI.Serve.Port != 0 {
		cfg.Server.Port = CLI.Serve.Port
	}
	return cfg, nil
}
