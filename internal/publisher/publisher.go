// Package publisher publishes a release's source maps after a production build.
package publisher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	ferrors "git.home.luguber.info/inful/releasepub/internal/foundation/errors"
	"git.home.luguber.info/inful/releasepub/internal/git"
	"git.home.luguber.info/inful/releasepub/internal/host"
	"git.home.luguber.info/inful/releasepub/internal/logfields"
	"git.home.luguber.info/inful/releasepub/internal/metrics"
	"git.home.luguber.info/inful/releasepub/internal/observability"
	"git.home.luguber.info/inful/releasepub/internal/upload"
)

const (
	StartNotice    = "Source map upload to Bugsnag started"
	CompleteNotice = "Source map upload to Bugsnag completed"

	PluginPath     = "runtime/plugin"
	ComposableName = "useBugsnag"
	ComposablePath = "runtime/composables/useBugsnag"
)

// OptimizeDeps are the client packages pre-bundled by the dev server.
var OptimizeDeps = []string{"@bugsnag/plugin-vue", "@bugsnag/js"}

// Publisher registers the monitoring integration with a host and uploads
// source maps when a qualifying build finishes.
type Publisher struct {
	server        upload.Uploader
	client        upload.Uploader
	recorder      metrics.Recorder
	logger        *slog.Logger
	notices       io.Writer
	detectVersion func(dir string) (string, error)
	newID         func() string
}

// Option configures a Publisher.
type Option func(*Publisher)

func WithRecorder(r metrics.Recorder) Option {
	return func(p *Publisher) {
		if r != nil {
			p.recorder = r
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithNotices sets where the start/completion notices are printed.
func WithNotices(w io.Writer) Option {
	return func(p *Publisher) { p.notices = w }
}

// WithVersionDetector replaces git-based app version detection.
func WithVersionDetector(fn func(dir string) (string, error)) Option {
	return func(p *Publisher) { p.detectVersion = fn }
}

// New creates a Publisher uploading server bundles with server and public
// bundles with client.
func New(server, client upload.Uploader, opts ...Option) *Publisher {
	p := &Publisher{
		server:        server,
		client:        client,
		recorder:      metrics.NoopRecorder{},
		logger:        slog.Default(),
		notices:       os.Stdout,
		detectVersion: git.DetectVersion,
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Setup wires the integration into h. A disabled configuration leaves h
// untouched. The build-done hook is only registered for production builds
// with release publishing enabled.
func (p *Publisher) Setup(opts Options, h host.Host) Decision {
	d := Decide(opts, BuildContext{IsDevBuild: h.IsDev(), ServerOutputDir: h.ServerDir()})
	if opts.Disabled {
		p.logger.Debug("Monitoring integration disabled")
		return d
	}

	h.ExposeRuntimeConfig(opts.Client)
	h.AddPlugin(PluginPath)
	h.AddImport(host.Import{Name: ComposableName, From: ComposablePath})
	h.ExtendOptimizeDeps(OptimizeDeps...)

	if !d.ShouldPublish() {
		p.logger.Debug("Source map publishing skipped",
			slog.Bool("publish_release", d.PublishRelease),
			slog.Bool("dev", d.IsDevBuild))
		return d
	}

	h.EnableSourcemaps(host.SourcemapOptions{Server: true, Client: true})
	h.OnBuildDone(func(ctx context.Context) error {
		ctx = observability.WithHost(ctx, h.Name())
		return p.OnBuildComplete(ctx, opts, BuildContext{IsDevBuild: h.IsDev(), ServerOutputDir: h.ServerDir()})
	})
	return d
}

// OnBuildComplete publishes the source maps of a finished build. It returns
// nil without uploading when the build does not qualify. Upload failures are
// returned as-is; nothing on disk is rolled back.
func (p *Publisher) OnBuildComplete(ctx context.Context, opts Options, bc BuildContext) error {
	d := Decide(opts, bc)
	if !d.ShouldPublish() {
		p.recorder.IncPublishOutcome(metrics.OutcomeSkipped)
		return nil
	}
	if strings.TrimSpace(opts.Client.APIKey) == "" {
		p.recorder.IncPublishOutcome(metrics.OutcomeFailed)
		return ferrors.ConfigError("api key is empty; set config.api_key to publish source maps").Build()
	}

	ctx = observability.WithPublishID(ctx, p.newID())
	appVersion := p.resolveAppVersion(ctx, opts)
	server, client := Targets(opts, bc, appVersion, p.logger)

	fmt.Fprintln(p.notices, StartNotice)
	p.logger.DebugContext(ctx, "Publishing source maps",
		logfields.AppVersion(appVersion),
		slog.String("server_directory", server.Directory),
		slog.String("client_directory", client.Directory))

	start := time.Now()
	if err := p.uploadAll(ctx, job{p.server, server}, job{p.client, client}); err != nil {
		p.recorder.IncPublishOutcome(metrics.OutcomeFailed)
		attrs := []any{logfields.Error(err)}
		if kind, ok := upload.TargetOf(err); ok {
			attrs = append(attrs, logfields.Target(string(kind)))
		}
		if c, ok := ferrors.AsClassified(err); ok {
			if dir, ok := c.Context().GetString("directory"); ok {
				attrs = append(attrs, logfields.Directory(dir))
			}
		}
		p.logger.ErrorContext(ctx, "Source map upload failed", attrs...)
		return err
	}

	p.recorder.IncPublishOutcome(metrics.OutcomePublished)
	fmt.Fprintln(p.notices, CompleteNotice)
	p.logger.DebugContext(ctx, "Source maps published", logfields.Duration(time.Since(start)))
	return nil
}

func (p *Publisher) resolveAppVersion(ctx context.Context, opts Options) string {
	if opts.Client.AppVersion != "" || !opts.Upload.DetectAppVersion {
		return opts.Client.AppVersion
	}
	v, err := p.detectVersion(opts.ProjectRoot)
	if err != nil {
		p.logger.WarnContext(ctx, "App version detection failed, uploading without version", logfields.Error(err))
		return ""
	}
	return v
}

type job struct {
	uploader upload.Uploader
	target   upload.Target
}

// uploadAll runs every job concurrently. It returns as soon as one fails;
// the remaining uploads are neither cancelled nor awaited.
func (p *Publisher) uploadAll(ctx context.Context, jobs ...job) error {
	var g errgroup.Group
	failed := make(chan error, len(jobs))

	for _, j := range jobs {
		g.Go(func() error {
			kind := string(j.target.Kind)
			start := time.Now()
			res, err := j.uploader.UploadMultiple(ctx, j.target)
			p.recorder.ObserveUploadDuration(kind, time.Since(start))
			if err != nil {
				p.recorder.IncUploadResult(kind, metrics.ResultFailed)
				failed <- err
				return err
			}
			p.recorder.IncUploadResult(kind, metrics.ResultSuccess)
			p.recorder.AddSourceMaps(kind, res.Uploaded)
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-failed:
		return err
	case err := <-done:
		return err
	}
}
