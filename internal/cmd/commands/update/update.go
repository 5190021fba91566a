package update

import (
	"encoding/json"
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
	return "Update the settings of a workspace"
}

func (c *Command) Help() string {
	return `Usage: wsmanager update [options] <slug> <json>

  Update a workspace. The JSON object uses the definition format; fields it
  leaves out keep their current values, for example:

    wsmanager update support '{"temperature":0.2,"chat_mode":"query"}'` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("update", flag.ContinueOnError))
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
	if f.NArg() != 2 {
		ui.Error("expected exactly two arguments: <slug> <json>")
		return 1
	}

	var changes map[string]any
	if err := json.Unmarshal([]byte(f.Arg(1)), &changes); err != nil {
		ui.Error(fmt.Sprintf("error parsing settings: invalid JSON: %v", err))
		return 1
	}

	svc, err := c.NewService(&c.flagService)
	if err != nil {
		ui.Error(fmt.Sprintf("error configuring client: %v", err))
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	w, err := svc.Workspace(ctx, f.Arg(0))
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	cfg, err := merge(w.Config(), changes)
	if err != nil {
		ui.Error(fmt.Sprintf("error updating workspace: %v", err))
		return 1
	}
	w.SetConfig(cfg)

	if _, err := w.Update(ctx); err != nil {
		ui.Error(err.Error())
		return 1
	}

	ui.Output(fmt.Sprintf("Workspace updated: %s", w))
	if err := c.Print(base.FormatJSON, workspace.ToExternal(w.Config())); err != nil {
		ui.Error(err.Error())
		return 1
	}
	return 0
}

// merge overlays changes onto the definition of cfg and maps the result.
func merge(cfg workspace.Config, changes map[string]any) (workspace.Config, error) {
	data, err := json.Marshal(workspace.ToExternal(cfg))
	if err != nil {
		return workspace.Config{}, err
	}

	var def map[string]any
	if err := json.Unmarshal(data, &def); err != nil {
		return workspace.Config{}, err
	}
	for k, v := range changes {
		def[k] = v
	}

	return workspace.FromExternalMap(def)
}
