package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/gitbatch/cmd/gitbatch/commands"
	"git.home.luguber.info/inful/gitbatch/internal/version"
)

func main() {
	var cli commands.CLI
	kong.Parse(&cli,
		kong.Name("gitbatch"),
		kong.Description(commands.Description),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	// Cancelling the context lets the current clone's scoped directory be removed.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Stderr)
	stop()
	os.Exit(code)
}
