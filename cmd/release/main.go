// Command release runs the project's release tasks: cross compilation for
// Linux and container image build and push.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/divvun/divvun-worker-grammar/internal/release"
)

var CLI struct {
	Dist    string `help:"Output directory for release binaries" default:"dist"`
	Image   string `help:"Container image reference" default:"ghcr.io/divvun/divvun-worker-grammar:latest"`
	Version string `help:"Version stamped into release binaries" default:"dev"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	BuildLinux  struct{} `cmd:"" name:"build-linux" help:"Cross compile a static linux/amd64 release binary"`
	BuildDocker struct{} `cmd:"" name:"build-docker" help:"Build the container image"`
	PushDocker  struct{} `cmd:"" name:"push-docker" help:"Push the container image to its registry"`
	Docker      struct{} `cmd:"" help:"Build and push the container image"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("release"),
		kong.Description("Release tasks for divvun-worker-grammar"))

	level := slog.LevelInfo
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner := release.NewRunner(release.Options{
		DistDir: CLI.Dist,
		Image:   CLI.Image,
		Version: CLI.Version,
	})

	var err error
	switch kctx.Command() {
	case "build-linux":
		err = runner.BuildLinux(ctx)
	case "build-docker":
		err = runner.BuildDocker(ctx)
	case "push-docker":
		err = runner.PushDocker(ctx)
	case "docker":
		err = runner.Docker(ctx)
	}
	if err != nil {
		slog.Error("Release task failed", "error", err)
		// surface the wrapped tool's own exit code when it has one
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}
