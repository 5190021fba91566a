package export

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
	return "Save all workspaces to a JSON file"
}

func (c *Command) Help() string {
	return `Usage: wsmanager export [options] <file>

  Load every workspace from the service and save their definitions as a
  JSON array. The file can be given back to create-from-file.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("export", flag.ContinueOnError))
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

	loaded, err := svc.Manager.LoadWorkspaces(ctx)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	if err := svc.Manager.SaveToFile(f.Arg(0)); err != nil {
		ui.Error(err.Error())
		return 1
	}

	ui.Output(fmt.Sprintf("Exported %d workspaces to %s.", len(loaded), f.Arg(0)))
	return 0
}
