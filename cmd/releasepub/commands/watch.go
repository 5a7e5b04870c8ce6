package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/releasepub/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Output   string        `short:"o" help:"Build output root to watch" default:".output"`
	Marker   string        `help:"File written when the server build is complete" default:"nitro.json"`
	Debounce time.Duration `help:"Quiet period after the marker is written" default:"2s"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := newSession(g, root, w.Output)
	if err != nil {
		return err
	}

	watcher := watch.New(w.Output,
		func(ctx context.Context) error { return s.build(ctx, false) },
		watch.WithMarker(w.Marker),
		watch.WithDebounce(w.Debounce),
		watch.WithLogger(s.logger))
	if err := watcher.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	s.logger.Info("Shutdown signal received, stopping watcher...")
	if err := watcher.Stop(); err != nil {
		s.logger.Warn("Failed to close file watcher", "error", err)
	}
	<-watcher.Done()
	return nil
}
