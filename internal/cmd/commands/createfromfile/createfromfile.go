package createfromfile

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/wsmanager/internal/cmd/base"
)

type Command struct {
	*base.Command

	flagService base.ServiceFlags
}

func (c *Command) Synopsis() string {
	return "Create workspaces from a JSON file"
}

func (c *Command) Help() string {
	return `Usage: wsmanager create-from-file [options] <file>

  Create workspaces from a JSON file holding either a single definition
  object or an array of them. Definitions are created in order and the
  command stops at the first failure.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("create-from-file", flag.ContinueOnError))
	base.AddServiceFlags(f, &c.flagService)
	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() != 1 {
		ui.Error("expected exactly one argument: <file>")
		return 1
	}

	svc, err := c.NewService(&c.flagService)
	if err != nil {
		ui.Error(fmt.Sprintf("error configuring client: %v", err))
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	created, err := svc.Manager.CreateFromFile(ctx, f.Arg(0))

	ui.Output(fmt.Sprintf("Created %d workspaces:", len(created)))
	for _, w := range created {
		ui.Output(fmt.Sprintf("- %s", w))
	}

	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	return 0
}
