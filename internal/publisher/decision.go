package publisher

import (
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/releasepub/internal/config"
	"git.home.luguber.info/inful/releasepub/internal/upload"
)

// Options is the publisher's view of the configuration.
type Options struct {
	Disabled       bool
	PublishRelease bool
	BaseURL        string
	ProjectRoot    string
	Client         config.ClientConfig
	Upload         config.UploadConfig
}

// OptionsFromConfig copies the fields the publisher needs out of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Disabled:       cfg.Disabled,
		PublishRelease: cfg.PublishRelease,
		BaseURL:        cfg.BaseURL,
		ProjectRoot:    cfg.ProjectRoot,
		Client:         cfg.Client,
		Upload:         cfg.Upload,
	}
}

// BuildContext describes the build that just finished.
type BuildContext struct {
	IsDevBuild      bool
	ServerOutputDir string
}

// Decision holds the inputs of the publish gate.
type Decision struct {
	Disabled       bool `yaml:"disabled" json:"disabled"`
	PublishRelease bool `yaml:"publish_release" json:"publishRelease"`
	IsDevBuild     bool `yaml:"is_dev_build" json:"isDevBuild"`
}

// Decide derives the gate for one build.
func Decide(opts Options, bc BuildContext) Decision {
	return Decision{Disabled: opts.Disabled, PublishRelease: opts.PublishRelease, IsDevBuild: bc.IsDevBuild}
}

// ShouldPublish reports whether source maps are uploaded for the build.
func (d Decision) ShouldPublish() bool {
	return !d.Disabled && d.PublishRelease && !d.IsDevBuild
}

// ClientDirectory derives the public bundle directory from the server one by
// replacing the first "server" with "public". A path without "server" is
// returned unchanged.
func ClientDirectory(serverDir string) string {
	return strings.Replace(serverDir, "server", "public", 1)
}

// Targets builds the server and client upload targets for one build.
func Targets(opts Options, bc BuildContext, appVersion string, logger *slog.Logger) (server, client upload.Target) {
	if logger == nil {
		logger = slog.Default()
	}
	server = upload.Target{
		Kind:         upload.KindServer,
		APIKey:       opts.Client.APIKey,
		AppVersion:   appVersion,
		Directory:    bc.ServerOutputDir,
		ProjectRoot:  opts.ProjectRoot,
		Overwrite:    true,
		Endpoint:     opts.Upload.Endpoint,
		CodeBundleID: opts.Upload.CodeBundleID,
		IdleTimeout:  opts.Upload.IdleTimeout,
		Logger:       logger,
	}
	client = upload.Target{
		Kind:         upload.KindClient,
		APIKey:       opts.Client.APIKey,
		AppVersion:   appVersion,
		Directory:    ClientDirectory(bc.ServerOutputDir),
		BaseURL:      opts.BaseURL,
		Overwrite:    true,
		Endpoint:     opts.Upload.Endpoint,
		CodeBundleID: opts.Upload.CodeBundleID,
		IdleTimeout:  opts.Upload.IdleTimeout,
		Logger:       logger,
	}
	return server, client
}
