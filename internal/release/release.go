// Package release implements the project's release tasks: cross compiling the
// worker for Linux and building and pushing its container image.
package release

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultImage is the container image the worker is published as.
const DefaultImage = "ghcr.io/divvun/divvun-worker-grammar:latest"

// Options configure where artifacts land and which image tag is used.
type Options struct {
	// DistDir receives the cross compiled binary. Defaults to ./dist.
	DistDir string
	// Image is the container image reference. Defaults to DefaultImage.
	Image string
	// Version is stamped into the binary. Defaults to "dev".
	Version string
	// Stdout and Stderr receive subprocess output. Default to the process streams.
	Stdout io.Writer
	Stderr io.Writer

	// runCommand overrides subprocess execution in tests.
	runCommand func(ctx context.Context, cmd *exec.Cmd) error
}

func (o *Options) applyDefaults() {
	if o.DistDir == "" {
		o.DistDir = "dist"
	}
	if o.Image == "" {
		o.Image = DefaultImage
	}
	if o.Version == "" {
		o.Version = "dev"
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.runCommand == nil {
		o.runCommand = func(_ context.Context, cmd *exec.Cmd) error {
			return cmd.Run()
		}
	}
}

// Runner executes release tasks against the current working tree.
type Runner struct {
	opts Options
}

// NewRunner creates a release task runner.
func NewRunner(opts Options) *Runner {
	opts.applyDefaults()
	return &Runner{opts: opts}
}

// BuildLinux cross compiles a static linux/amd64 release binary into DistDir.
func (r *Runner) BuildLinux(ctx context.Context) error {
	out := filepath.Join(r.opts.DistDir, "divvun-worker-grammar")
	if err := os.MkdirAll(r.opts.DistDir, 0o755); err != nil {
		return fmt.Errorf("creating dist dir: %w", err)
	}

	args := BuildLinuxArgs(out, r.opts.Version)
	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Env = append(os.Environ(),
		"GOOS=linux",
		"GOARCH=amd64",
		"CGO_ENABLED=0",
	)
	cmd.Stdout = r.opts.Stdout
	cmd.Stderr = r.opts.Stderr

	slog.Info("Cross compiling release binary", "output", out, "version", r.opts.Version)
	if err := r.opts.runCommand(ctx, cmd); err != nil {
		return fmt.Errorf("go build failed: %w", err)
	}
	return nil
}

// BuildLinuxArgs returns the go build argument list for the linux release binary.
func BuildLinuxArgs(output, version string) []string {
	ldflags := strings.Join([]string{
		"-s", "-w",
		fmt.Sprintf("-X github.com/divvun/divvun-worker-grammar/internal/version.Version=%s", version),
		fmt.Sprintf("-X github.com/divvun/divvun-worker-grammar/internal/version.BuildTime=%s",
			time.Now().UTC().Format("2006-01-02T15:04:05Z")),
	}, " ")
	return []string{
		"build",
		"-trimpath",
		"-ldflags", ldflags,
		"-o", output,
		"./cmd/divvun-worker-grammar",
	}
}

// BuildDocker builds the container image from the repository root.
func (r *Runner) BuildDocker(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "docker", "build", "-t", r.opts.Image, ".")
	cmd.Stdout = r.opts.Stdout
	cmd.Stderr = r.opts.Stderr

	slog.Info("Building container image", "image", r.opts.Image)
	if err := r.opts.runCommand(ctx, cmd); err != nil {
		return fmt.Errorf("docker build failed: %w", err)
	}
	return nil
}

// PushDocker pushes the container image to its registry.
func (r *Runner) PushDocker(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "docker", "push", r.opts.Image)
	cmd.Stdout = r.opts.Stdout
	cmd.Stderr = r.opts.Stderr

	slog.Info("Pushing container image", "image", r.opts.Image)
	if err := r.opts.runCommand(ctx, cmd); err != nil {
		return fmt.Errorf("docker push failed: %w", err)
	}
	return nil
}

// Docker builds and then pushes the image, stopping at the first failure.
func (r *Runner) Docker(ctx context.Context) error {
	if err := r.BuildDocker(ctx); err != nil {
		return err
	}
	return r.PushDocker(ctx)
}
