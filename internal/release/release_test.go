package release

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingRunner(t *testing.T, calls *[][]string, fail map[string]error) *Runner {
	t.Helper()
	return NewRunner(Options{
		DistDir: t.TempDir(),
		runCommand: func(_ context.Context, cmd *exec.Cmd) error {
			*calls = append(*calls, cmd.Args)
			if fail != nil {
				for prefix, err := range fail {
					if strings.HasPrefix(strings.Join(cmd.Args, " "), prefix) {
						return err
					}
				}
			}
			return nil
		},
	})
}

func TestBuildLinuxArgs(t *testing.T) {
	args := BuildLinuxArgs("dist/divvun-worker-grammar", "1.2.3")

	assert.Equal(t, "build", args[0])
	assert.Contains(t, args, "-trimpath")
	assert.Contains(t, args, "./cmd/divvun-worker-grammar")

	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-s -w")
	assert.Contains(t, joined, "version.Version=1.2.3")
}

func TestBuildLinuxEnvironment(t *testing.T) {
	var calls [][]string
	var env []string
	r := NewRunner(Options{
		DistDir: t.TempDir(),
		runCommand: func(_ context.Context, cmd *exec.Cmd) error {
			calls = append(calls, cmd.Args)
			env = cmd.Env
			return nil
		},
	})

	require.NoError(t, r.BuildLinux(context.Background()))
	require.Len(t, calls, 1)
	assert.Equal(t, "go", calls[0][0])
	assert.Contains(t, env, "GOOS=linux")
	assert.Contains(t, env, "GOARCH=amd64")
	assert.Contains(t, env, "CGO_ENABLED=0")
}

func TestDockerTasksUseImage(t *testing.T) {
	var calls [][]string
	r := recordingRunner(t, &calls, nil)

	require.NoError(t, r.BuildDocker(context.Background()))
	require.NoError(t, r.PushDocker(context.Background()))

	require.Len(t, calls, 2)
	assert.Equal(t, []string{"docker", "build", "-t", DefaultImage, "."}, calls[0])
	assert.Equal(t, []string{"docker", "push", DefaultImage}, calls[1])
}

func TestDockerStopsOnBuildFailure(t *testing.T) {
	var calls [][]string
	boom := errors.New("build exploded")
	r := recordingRunner(t, &calls, map[string]error{"docker build": boom})

	err := r.Docker(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	// push must not run after a failed build
	require.Len(t, calls, 1)
}

func TestCustomImage(t *testing.T) {
	var calls [][]string
	r := NewRunner(Options{
		Image: "ghcr.io/divvun/divvun-worker-grammar:v2",
		runCommand: func(_ context.Context, cmd *exec.Cmd) error {
			calls = append(calls, cmd.Args)
			return nil
		},
	})

	require.NoError(t, r.BuildDocker(context.Background()))
	assert.Equal(t, "ghcr.io/divvun/divvun-worker-grammar:v2", calls[0][3])
}
