package config

import "strings"

const (
	DefaultBaseURL     = "http://localhost:3000"
	DefaultProjectRoot = "/"
	DefaultEnvironment = "production"
	DefaultAppVersion  = "1.0.0"
	DefaultEndpoint    = "https://upload.bugsnag.com"
	DefaultHostVersion = 3
)

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(cfg.ProjectRoot) == "" {
		cfg.ProjectRoot = DefaultProjectRoot
	}
	if cfg.Client.Environment == "" {
		cfg.Client.Environment = DefaultEnvironment
	}
	// A fixed default would always win over detection.
	if cfg.Client.AppVersion == "" && !cfg.Upload.DetectAppVersion {
		cfg.Client.AppVersion = DefaultAppVersion
	}
	cfg.Client.APIKey = strings.TrimSpace(cfg.Client.APIKey)
	cfg.Client.NotifyReleaseStages = NormalizeReleaseStages(cfg.Client.NotifyReleaseStages)
	if cfg.Client.NotifyReleaseStages == nil {
		cfg.Client.NotifyReleaseStages = []string{}
	}

	if cfg.Upload.Endpoint == "" {
		cfg.Upload.Endpoint = DefaultEndpoint
	}
	cfg.Upload.Endpoint = strings.TrimRight(cfg.Upload.Endpoint, "/")

	if cfg.Host.FrameworkVersion == 0 {
		cfg.Host.FrameworkVersion = DefaultHostVersion
	}

	cfg.Monitoring.Logging.Level = NormalizeLogLevel(string(cfg.Monitoring.Logging.Level))
	cfg.Monitoring.Logging.Format = NormalizeLogFormat(string(cfg.Monitoring.Logging.Format))
}
