package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/releasepub/internal/logfields"
	"git.home.luguber.info/inful/releasepub/internal/metrics"
)

// PublishCmd implements the 'publish' command.
type PublishCmd struct {
	Output string `short:"o" help:"Build output root containing server/ and public/" default:".output"`
	Dev    bool   `help:"Treat the build as a development build"`
}

func (p *PublishCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := newSession(g, root, p.Output)
	if err != nil {
		return err
	}
	return s.build(ctx, p.Dev)
}

// build runs one build-finished event against a fresh host.
func (s *session) build(ctx context.Context, dev bool) error {
	defer s.flushMetrics()

	h, err := s.newHost(dev)
	if err != nil {
		return err
	}
	d := s.publisher.Setup(s.opts, h)
	if !d.ShouldPublish() {
		s.recorder.IncPublishOutcome(metrics.OutcomeSkipped)
		s.logger.Info("Source map publishing skipped",
			"disabled", d.Disabled,
			"publish_release", d.PublishRelease,
			"dev", d.IsDevBuild)
	}
	state := h.State()
	s.logger.Debug("Host configured",
		logfields.Host(state.Adapter),
		logfields.Count(state.BuildDoneHooks),
		"plugins", state.Plugins,
		"optimize_deps", state.OptimizeDeps)

	return h.BuildDone(ctx)
}
