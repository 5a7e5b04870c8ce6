package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/releasepub/internal/foundation/errors"
)

// DefaultPath is the configuration file used when -c is not given.
const DefaultPath = "releasepub.yaml"

// Config represents the publisher configuration.
type Config struct {
	Disabled       bool             `yaml:"disabled"`
	PublishRelease bool             `yaml:"publish_release"`
	BaseURL        string           `yaml:"base_url"`
	ProjectRoot    string           `yaml:"project_root"`
	Client         ClientConfig     `yaml:"config"`
	Upload         UploadConfig     `yaml:"upload"`
	Host           HostConfig       `yaml:"host"`
	Monitoring     MonitoringConfig `yaml:"monitoring"`
}

// ClientConfig is the notifier configuration exposed to the application at
// runtime. The API key doubles as the upload credential.
type ClientConfig struct {
	APIKey              string   `yaml:"api_key" json:"apiKey"`
	NotifyReleaseStages []string `yaml:"notify_release_stages" json:"notifyReleaseStages"`
	Environment         string   `yaml:"environment" json:"environment,omitempty"`
	AppVersion          string   `yaml:"app_version" json:"appVersion,omitempty"`
}

// UploadConfig holds passthrough options for the source map upload calls.
type UploadConfig struct {
	Endpoint         string        `yaml:"endpoint"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	DetectAppVersion bool          `yaml:"detect_app_version"`
	CodeBundleID     string        `yaml:"code_bundle_id"`
}

// HostConfig selects the host adapter.
type HostConfig struct {
	FrameworkVersion int `yaml:"framework_version"`
}

// MonitoringConfig represents logging and metrics configuration.
type MonitoringConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig enables the Prometheus textfile written after each publish attempt.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Load reads, expands, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			WithContext("path", path).
			Build()
	}
	return Parse(data)
}

// Parse decodes YAML content with ${VAR} expansion and applies env
// overrides and defaults before validating.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}
	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).
			WithContext("path", path).
			Build()
	}
	if err := os.WriteFile(path, []byte(exampleConfig), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).
			Build()
	}
	return nil
}

const exampleConfig = `# releasepub configuration
disabled: false
publish_release: true
base_url: https://cdn.example.com
project_root: /app

config:
  api_key: ${BUGSNAG_API_KEY}
  notify_release_stages: [staging, production]
  environment: production
  app_version: 1.0.0

upload:
  endpoint: https://upload.bugsnag.com
  idle_timeout: 0s
  detect_app_version: false

host:
  framework_version: 3

monitoring:
  logging:
    level: info
    format: text
  metrics:
    textfile: ""
`
