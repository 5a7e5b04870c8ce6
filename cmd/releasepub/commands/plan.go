package commands

import (
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/releasepub/internal/foundation/errors"
)

// PlanCmd implements the 'plan' command.
type PlanCmd struct {
	Output string `short:"o" help:"Build output root containing server/ and public/" default:".output"`
	Dev    bool   `help:"Treat the build as a development build"`
}

func (p *PlanCmd) Run(g *Global, root *CLI) error {
	s, err := newSession(g, root, p.Output)
	if err != nil {
		return err
	}
	h, err := s.newHost(p.Dev)
	if err != nil {
		return err
	}
	plan := s.publisher.Plan(s.opts, h)

	enc := yaml.NewEncoder(g.out())
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return ferrors.InternalError("failed to encode plan").WithCause(err).Build()
	}
	return enc.Close()
}
