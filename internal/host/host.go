// Package host models the web framework build the publisher plugs into.
//
// The framework's major version decides where the public runtime config
// lives. Instead of branching on the version at every call site, Select
// picks an adapter once at startup and the publisher only talks to the Host
// interface.
package host

import (
	"context"
	"fmt"
	"sync"

	"git.home.luguber.info/inful/releasepub/internal/config"
	ferrors "git.home.luguber.info/inful/releasepub/internal/foundation/errors"
)

// Hook runs when the build has finished.
type Hook func(ctx context.Context) error

// SourcemapOptions toggles source map emission per build output.
type SourcemapOptions struct {
	Server bool `yaml:"server" json:"server"`
	Client bool `yaml:"client" json:"client"`
}

// Import is an auto-import registered with the host.
type Import struct {
	Name string `yaml:"name" json:"name"`
	From string `yaml:"from" json:"from"`
}

// Host is the surface of the build the publisher may touch.
type Host interface {
	Name() string
	ExposeRuntimeConfig(cfg config.ClientConfig)
	AddPlugin(path string)
	AddImport(imp Import)
	ExtendOptimizeDeps(pkgs ...string)
	EnableSourcemaps(opts SourcemapOptions)
	IsDev() bool
	ServerDir() string
	OnBuildDone(hook Hook)
	// BuildDone fires the registered hooks once, in registration order,
	// stopping at the first error.
	BuildDone(ctx context.Context) error
	State() State
}

// Options describe the build being hosted.
type Options struct {
	Dev       bool
	ServerDir string
}

// State is a snapshot of every mutation applied to the host.
type State struct {
	Adapter          string               `yaml:"adapter" json:"adapter"`
	RuntimeConfigKey string               `yaml:"runtime_config_key,omitempty" json:"runtimeConfigKey,omitempty"`
	RuntimeConfig    *config.ClientConfig `yaml:"runtime_config,omitempty" json:"runtimeConfig,omitempty"`
	Plugins          []string             `yaml:"plugins,omitempty" json:"plugins,omitempty"`
	Imports          []Import             `yaml:"imports,omitempty" json:"imports,omitempty"`
	OptimizeDeps     []string             `yaml:"optimize_deps,omitempty" json:"optimizeDeps,omitempty"`
	Sourcemap        *SourcemapOptions    `yaml:"sourcemap,omitempty" json:"sourcemap,omitempty"`
	BuildDoneHooks   int                  `yaml:"build_done_hooks" json:"buildDoneHooks"`
}

// Mutated reports whether anything was registered or changed.
func (s State) Mutated() bool {
	return s.RuntimeConfig != nil || len(s.Plugins) > 0 || len(s.Imports) > 0 ||
		len(s.OptimizeDeps) > 0 || s.Sourcemap != nil || s.BuildDoneHooks > 0
}

// Select returns the adapter for a framework major version.
func Select(major int, opts Options) (Host, error) {
	switch major {
	case 3:
		return newProject("nitro", "runtimeConfig.public.bugsnag", opts), nil
	case 2:
		return newProject("legacy", "publicRuntimeConfig.bugsnag", opts), nil
	default:
		return nil, ferrors.ValidationError(fmt.Sprintf("no host adapter for framework version %d", major)).
			WithContext("framework_version", major).
			Build()
	}
}

// project is the in-process Host shared by both adapters; they differ only
// in where the public runtime config is exposed.
type project struct {
	mu        sync.Mutex
	opts      Options
	state     State
	hooks     []Hook
	buildDone bool
}

func newProject(name, runtimeKey string, opts Options) *project {
	return &project{opts: opts, state: State{Adapter: name, RuntimeConfigKey: runtimeKey}}
}

func (p *project) Name() string { return p.state.Adapter }

func (p *project) ExposeRuntimeConfig(cfg config.ClientConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := cfg
	c.NotifyReleaseStages = append([]string(nil), cfg.NotifyReleaseStages...)
	p.state.RuntimeConfig = &c
}

func (p *project) AddPlugin(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Plugins = append(p.state.Plugins, path)
}

func (p *project) AddImport(imp Import) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Imports = append(p.state.Imports, imp)
}

func (p *project) ExtendOptimizeDeps(pkgs ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.OptimizeDeps = append(p.state.OptimizeDeps, pkgs...)
}

func (p *project) EnableSourcemaps(opts SourcemapOptions) {
	p.mu.Lock()
	defer p.mu.Unlock()
	o := opts
	p.state.Sourcemap = &o
}

func (p *project) IsDev() bool       { return p.opts.Dev }
func (p *project) ServerDir() string { return p.opts.ServerDir }

func (p *project) OnBuildDone(hook Hook) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hooks = append(p.hooks, hook)
	p.state.BuildDoneHooks = len(p.hooks)
}

func (p *project) BuildDone(ctx context.Context) error {
	p.mu.Lock()
	if p.buildDone {
		p.mu.Unlock()
		return ferrors.NewError(ferrors.CategoryHost, "build-done event already fired").Build()
	}
	p.buildDone = true
	hooks := append([]Hook(nil), p.hooks...)
	p.mu.Unlock()

	for _, h := range hooks {
		if err := h(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (p *project) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	s.Plugins = append([]string(nil), p.state.Plugins...)
	s.Imports = append([]Import(nil), p.state.Imports...)
	s.OptimizeDeps = append([]string(nil), p.state.OptimizeDeps...)
	return s
}
