package deleteworkspace

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
	return "Delete a workspace"
}

func (c *Command) Help() string {
	return `Usage: wsmanager delete [options] <slug>

  Delete a workspace from the service.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("delete", flag.ContinueOnError))
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
		ui.Error("expected exactly one argument: <slug>")
		return 1
	}
	slug := f.Arg(0)

	svc, err := c.NewService(&c.flagService)
	if err != nil {
		ui.Error(fmt.Sprintf("error configuring client: %v", err))
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	if _, err := svc.Workspace(ctx, slug); err != nil {
		ui.Error(err.Error())
		return 1
	}

	deleted, err := svc.Manager.DeleteWorkspace(ctx, slug)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	if !deleted {
		ui.Error(fmt.Sprintf("service did not confirm deletion of workspace %q", slug))
		return 1
	}

	ui.Output(fmt.Sprintf("Workspace %q deleted.", slug))
	return 0
}
