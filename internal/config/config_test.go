package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikey/phishguard/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	classifier, err := cfg.GetClassifier()
	require.NoError(t, err)
	assert.Equal(t, "http", classifier.Provider)
	assert.Equal(t, "http://localhost:5000", classifier.Endpoint)
	assert.Equal(t, 30*time.Second, classifier.Timeout)
	assert.Zero(t, classifier.RateLimit)

	assert.Equal(t, core.DefaultSettings(), cfg.GetDefaultSettings())
	assert.Equal(t, "sqlite", cfg.GetState().Type)
	assert.Equal(t, "/warning", cfg.GetServer().WarningPage)
	assert.Equal(t, 1024, cfg.GetServer().MaxEvents)
	assert.False(t, cfg.GetSMTP().Enabled)
	assert.Equal(t, "info", cfg.GetLogging().Level)
	assert.Equal(t, 2048, cfg.GetOpenAI().MaxURLSize)
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phishguard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
classifier:
  endpoint: http://analyzer.internal:5000
  timeout: 5s
  rate_limit: 2.5
protection:
  sensitivity: high
  auto_block: true
state:
  type: memory
notify:
  smtp:
    enabled: true
    to: [sec@example.org]
`), 0o600))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)

	classifier, err := cfg.GetClassifier()
	require.NoError(t, err)
	assert.Equal(t, "http://analyzer.internal:5000", classifier.Endpoint)
	assert.Equal(t, 5*time.Second, classifier.Timeout)
	assert.Equal(t, 2.5, classifier.RateLimit)

	settings := cfg.GetDefaultSettings()
	assert.Equal(t, core.SensitivityHigh, settings.Sensitivity)
	assert.True(t, settings.AutoBlock)
	assert.True(t, settings.Enabled)

	assert.Equal(t, "memory", cfg.GetState().Type)
	assert.Equal(t, []string{"sec@example.org"}, cfg.GetSMTP().To)
}

func TestNewFromFileMissing(t *testing.T) {
	_, err := NewFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PHISHGUARD_SERVER_LISTEN_ADDRESS", "0.0.0.0:9999")
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9999", cfg.GetServer().ListenAddress)
}

func TestInvalidTimeout(t *testing.T) {
	v := NewEmptyViper()
	v.Set("classifier.timeout", "soon")
	_, err := NewFromViper(v).GetClassifier()
	assert.Error(t, err)
}
