package commands

import (
	"log/slog"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/releasepub/internal/config"
	ferrors "git.home.luguber.info/inful/releasepub/internal/foundation/errors"
	"git.home.luguber.info/inful/releasepub/internal/host"
	"git.home.luguber.info/inful/releasepub/internal/logfields"
	"git.home.luguber.info/inful/releasepub/internal/metrics"
	"git.home.luguber.info/inful/releasepub/internal/publisher"
	"git.home.luguber.info/inful/releasepub/internal/upload"
)

// session holds everything one command invocation needs.
type session struct {
	cfg       *config.Config
	opts      publisher.Options
	logger    *slog.Logger
	recorder  metrics.Recorder
	prom      *metrics.PrometheusRecorder
	publisher *publisher.Publisher
	serverDir string
}

func newSession(g *Global, root *CLI, output string) (*session, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	logger := configureLogging(g.err(), cfg, root.Verbose)

	serverDir, err := filepath.Abs(filepath.Join(output, "server"))
	if err != nil {
		return nil, ferrors.FileSystemError("failed to resolve build output directory").
			WithCause(err).WithContext("path", output).Build()
	}

	s := &session{
		cfg:       cfg,
		opts:      publisher.OptionsFromConfig(cfg),
		logger:    logger,
		recorder:  metrics.NoopRecorder{},
		serverDir: serverDir,
	}
	if cfg.Monitoring.Metrics.Textfile != "" {
		s.prom = metrics.NewPrometheusRecorder(prom.NewRegistry())
		s.recorder = s.prom
	}

	client := upload.NewClient(nil)
	s.publisher = publisher.New(
		upload.NewNodeUploader(client),
		upload.NewBrowserUploader(client),
		publisher.WithRecorder(s.recorder),
		publisher.WithLogger(logger),
		publisher.WithNotices(g.out()),
	)
	return s, nil
}

// newHost creates a fresh host adapter for one build.
func (s *session) newHost(dev bool) (host.Host, error) {
	h, err := host.Select(s.cfg.Host.FrameworkVersion, host.Options{Dev: dev, ServerDir: s.serverDir})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Selected host adapter", logfields.Host(h.Name()))
	return h, nil
}

// flushMetrics writes the metrics textfile when one is configured. Failures
// are logged only.
func (s *session) flushMetrics() {
	if s.prom == nil {
		return
	}
	path := s.cfg.Monitoring.Metrics.Textfile
	if err := s.prom.WriteTextfile(path); err != nil {
		s.logger.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
	}
}
