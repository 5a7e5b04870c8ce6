package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/releasepub/cmd/releasepub/commands"
	ferrors "git.home.luguber.info/inful/releasepub/internal/foundation/errors"
	"git.home.luguber.info/inful/releasepub/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser, err := kong.New(cli,
		kong.Name("releasepub"),
		kong.Description("Register error monitoring with a web build and publish its source maps."),
		commands.Vars(version.String()),
		kong.UsageOnError(),
	)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := kctx.Run(&commands.Global{Logger: slog.Default(), Out: os.Stdout, Err: os.Stderr}, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
