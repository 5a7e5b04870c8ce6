package publisher

import (
	"context"

	"git.home.luguber.info/inful/releasepub/internal/host"
	"git.home.luguber.info/inful/releasepub/internal/upload"
)

// Plan describes what a build would do without uploading anything. Notify
// reports whether the runtime client reports errors in the configured
// environment.
type Plan struct {
	Decision Decision     `yaml:"decision" json:"decision"`
	Publish  bool         `yaml:"publish" json:"publish"`
	Notify   bool         `yaml:"notify" json:"notify"`
	Host     host.State   `yaml:"host" json:"host"`
	Targets  []TargetPlan `yaml:"targets,omitempty" json:"targets,omitempty"`
}

// TargetPlan is an upload target with the API key redacted.
type TargetPlan struct {
	Kind        upload.Kind `yaml:"kind" json:"kind"`
	Directory   string      `yaml:"directory" json:"directory"`
	ProjectRoot string      `yaml:"project_root,omitempty" json:"projectRoot,omitempty"`
	BaseURL     string      `yaml:"base_url,omitempty" json:"baseUrl,omitempty"`
	AppVersion  string      `yaml:"app_version,omitempty" json:"appVersion,omitempty"`
	Endpoint    string      `yaml:"endpoint" json:"endpoint"`
	Overwrite   bool        `yaml:"overwrite" json:"overwrite"`
	APIKeySet   bool        `yaml:"api_key_set" json:"apiKeySet"`
}

func planTarget(t upload.Target) TargetPlan {
	return TargetPlan{
		Kind:        t.Kind,
		Directory:   t.Directory,
		ProjectRoot: t.ProjectRoot,
		BaseURL:     t.BaseURL,
		AppVersion:  t.AppVersion,
		Endpoint:    t.Endpoint,
		Overwrite:   t.Overwrite,
		APIKeySet:   t.APIKey != "",
	}
}

// Plan runs Setup against h and reports the resulting host state together
// with the targets a build-done event would upload.
func (p *Publisher) Plan(opts Options, h host.Host) Plan {
	d := p.Setup(opts, h)
	plan := Plan{Decision: d, Publish: d.ShouldPublish(), Notify: opts.Client.ShouldNotify(), Host: h.State()}
	if !plan.Publish {
		return plan
	}
	bc := BuildContext{IsDevBuild: h.IsDev(), ServerOutputDir: h.ServerDir()}
	server, client := Targets(opts, bc, p.resolveAppVersion(context.Background(), opts), p.logger)
	plan.Targets = []TargetPlan{planTarget(server), planTarget(client)}
	return plan
}
