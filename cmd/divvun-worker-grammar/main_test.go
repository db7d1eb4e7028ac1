package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helpers "github.com/divvun/divvun-worker-grammar/internal/testutil/testutils"
)

func resetCLI() {
	CLI.Config = ""
	CLI.Serve.Bundle = ""
	CLI.Serve.Language = ""
	CLI.Serve.Host = ""
	CLI.Serve.Port = 0
	CLI.Serve.Watch = false
}

func TestLoadConfigDefaults(t *testing.T) {
	resetCLI()
	t.Cleanup(resetCLI)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 4000, cfg.Server.Port)
}

func TestLoadConfigServeFlagsOverrideFile(t *testing.T) {
	resetCLI()
	t.Cleanup(resetCLI)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: 0.0.0.0
  port: 5000
bundle:
  path: /srv/bundles/se.drb
`), 0o644))

	CLI.Config = path
	CLI.Serve.Port = 6000
	CLI.Serve.Language = "se"

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 6000, cfg.Server.Port)
	assert.Equal(t, "/srv/bundles/se.drb", cfg.Bundle.Path)
	assert.Equal(t, "se", cfg.Bundle.Language)
}

func TestRunInspectMissingBundle(t *testing.T) {
	err := runInspect(filepath.Join(t.TempDir(), "missing.drb"))
	require.Error(t, err)
}

func TestRunInspectValidBundle(t *testing.T) {
	path := helpers.WriteBundle(t, helpers.DefaultBundleFixture())
	require.NoError(t, runInspect(path))
}
