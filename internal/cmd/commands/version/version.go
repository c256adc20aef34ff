package version

import (
	"github.com/wikiforge/wiki-api/internal/cmd/base"
	"github.com/wikiforge/wiki-api/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return "Usage: wiki-api version"
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Version)
	return 0
}
