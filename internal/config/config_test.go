package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/releasepub/internal/foundation/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "releasepub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "publish_release: true\nconfig:\n  api_key: K\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Disabled)
	assert.True(t, cfg.PublishRelease)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultProjectRoot, cfg.ProjectRoot)
	assert.Equal(t, "K", cfg.Client.APIKey)
	assert.Equal(t, DefaultEnvironment, cfg.Client.Environment)
	assert.Equal(t, DefaultAppVersion, cfg.Client.AppVersion)
	assert.Equal(t, []string{}, cfg.Client.NotifyReleaseStages)
	assert.Equal(t, DefaultEndpoint, cfg.Upload.Endpoint)
	assert.Equal(t, DefaultHostVersion, cfg.Host.FrameworkVersion)
	assert.Equal(t, LogLevelInfo, cfg.Monitoring.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Monitoring.Logging.Format)
}

func TestLoadFullConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TEST_BUGSNAG_KEY", "secret")
	path := writeConfig(t, `
publish_release: true
base_url: https://cdn.example.com
project_root: /root
config:
  api_key: ${TEST_BUGSNAG_KEY}
  notify_release_stages: [Staging, production, PRODUCTION, " "]
  environment: Production
  app_version: 1.2.3
upload:
  endpoint: https://upload.example.com/
  idle_timeout: 45s
  code_bundle_id: bundle-7
host:
  framework_version: 2
monitoring:
  logging:
    level: DEBUG
    format: json
  metrics:
    textfile: /tmp/releasepub.prom
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Client.APIKey)
	assert.Equal(t, "https://cdn.example.com", cfg.BaseURL)
	assert.Equal(t, "/root", cfg.ProjectRoot)
	assert.Equal(t, []string{"staging", "production"}, cfg.Client.NotifyReleaseStages)
	assert.True(t, cfg.Client.ShouldNotify())
	assert.Equal(t, "1.2.3", cfg.Client.AppVersion)
	assert.Equal(t, "https://upload.example.com", cfg.Upload.Endpoint)
	assert.Equal(t, 45*time.Second, cfg.Upload.IdleTimeout)
	assert.Equal(t, "bundle-7", cfg.Upload.CodeBundleID)
	assert.Equal(t, 2, cfg.Host.FrameworkVersion)
	assert.Equal(t, LogLevelDebug, cfg.Monitoring.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Monitoring.Logging.Format)
	assert.Equal(t, "/tmp/releasepub.prom", cfg.Monitoring.Metrics.Textfile)
}

func TestLoadDetectAppVersionSkipsDefaultVersion(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "upload:\n  detect_app_version: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Client.AppVersion)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "config: [unterminated\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestDisableEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvDisable, "true")
	path := writeConfig(t, "disabled: false\npublish_release: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Disabled)
}

func TestDisableEnvFalseKeepsFileValue(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvDisable, "false")
	path := writeConfig(t, "disabled: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Disabled)
}

func TestEnvFileIsLoaded(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RELEASEPUB_TEST_ENVFILE_KEY=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("RELEASEPUB_TEST_ENVFILE_KEY") })
	path := writeConfig(t, "config:\n  api_key: ${RELEASEPUB_TEST_ENVFILE_KEY}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Client.APIKey)
}

func TestValidationErrors(t *testing.T) {
	cases := map[string]string{
		"negative timeout": "upload:\n  idle_timeout: -1s\n",
		"bad endpoint":     "upload:\n  endpoint: ftp://upload.example.com\n",
		"relative base":    "base_url: /assets\n",
		"unknown host":     "host:\n  framework_version: 4\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(content))
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation), "got %v", err)
		})
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "releasepub.yaml")
	require.NoError(t, Init(path, false))

	err := Init(path, false)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	require.NoError(t, Init(path, true))

	t.Setenv("BUGSNAG_API_KEY", "example")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.True(t, cfg.PublishRelease)
	assert.Equal(t, "example", cfg.Client.APIKey)
}

func TestShouldNotify(t *testing.T) {
	c := ClientConfig{NotifyReleaseStages: NormalizeReleaseStages([]string{"staging"}), Environment: "production"}
	assert.False(t, c.ShouldNotify())
	c.Environment = "STAGING"
	assert.True(t, c.ShouldNotify())
	assert.True(t, ClientConfig{Environment: "dev"}.ShouldNotify())
}

func TestNormalizeLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel(" Warning "))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("loud"))
	assert.Equal(t, LogLevelError.SlogLevel().String(), "ERROR")
}
