package create

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/wsmanager/internal/cmd/base"
	"github.com/hashicorp-forge/wsmanager/pkg/workspace"
)

type Command struct {
	*base.Command

	flagService base.ServiceFlags
}

func (c *Command) Synopsis() string {
	return "Create a workspace from a JSON definition"
}

func (c *Command) Help() string {
	return `Usage: wsmanager create [options] <json>

  Create a workspace from a JSON object in the definition format, for
  example:

    wsmanager create '{"workspace_name":"Support","custom_prompt":"Be brief."}'

  Only workspace_name and custom_prompt are required. The created workspace
  is printed along with its full definition.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("create", flag.ContinueOnError))
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
		ui.Error("expected exactly one argument: <json>")
		return 1
	}

	svc, err := c.NewService(&c.flagService)
	if err != nil {
		ui.Error(fmt.Sprintf("error configuring client: %v", err))
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	w, err := svc.Manager.CreateWorkspaceFromJSON(ctx, []byte(f.Arg(0)))
	if err != nil {
		ui.Error(fmt.Sprintf("error creating workspace: %v", err))
		return 1
	}

	ui.Output(fmt.Sprintf("Workspace created: %s", w))
	if err := c.Print(base.FormatJSON, workspace.ToExternal(w.Config())); err != nil {
		ui.Error(err.Error())
		return 1
	}
	return 0
}
