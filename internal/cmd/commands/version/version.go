package version

import (
	"github.com/hashicorp-forge/wsmanager/internal/cmd/base"
	"github.com/hashicorp-forge/wsmanager/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the wsmanager version"
}

func (c *Command) Help() string {
	return `Usage: wsmanager version

  Print the version of wsmanager.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output("wsmanager " + version.HumanVersion())
	return 0
}
