package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, 32*1024, cfg.Limits.MaxTextLen)
	assert.Equal(t, 30*time.Second, cfg.Limits.RequestTimeout)
	assert.Equal(t, "divvun.grammar.checks", cfg.Events.Subject)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 0.0.0.0
  port: 8080
  admin_port: 9090
bundle:
  path: ./se.drb
  language: se
  watch: true
limits:
  max_text_len: 1024
logging:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.AdminPort)
	assert.Equal(t, "se", cfg.Bundle.Language)
	assert.True(t, cfg.Bundle.Watch)
	assert.Equal(t, 1024, cfg.Limits.MaxTextLen)
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat(cfg.Logging.Format))
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_NATS_URL", "nats://queue:4222")
	path := writeConfig(t, `
events:
  enabled: true
  nats_url: ${TEST_NATS_URL}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nats://queue:4222", cfg.Events.NATSURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsPortClash(t *testing.T) {
	cfg := Default()
	cfg.Server.AdminPort = cfg.Server.Port
	assert.Error(t, cfg.Validate())
}

func TestValidateEventsRequireURL(t *testing.T) {
	cfg := Default()
	cfg.Events.Enabled = true
	cfg.Events.NATSURL = ""
	assert.Error(t, cfg.Validate())
}

func TestNormalizeLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, NormalizeLogLevel("DEBUG"))
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel("warning"))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("bogus"))
}
