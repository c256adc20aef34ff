package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/wikiforge/wiki-api/internal/cmd/base"
	"github.com/wikiforge/wiki-api/internal/cmd/commands/server"
	"github.com/wikiforge/wiki-api/internal/cmd/commands/version"
)

// Commands maps subcommand names to their factories.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	Commands = map[string]cli.CommandFactory{
		"server": func() (cli.Command, error) {
			return &server.Command{Command: base.NewCommand(ui, log)}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: base.NewCommand(ui, log)}, nil
		},
	}
}
