package createfromroles

import (
	"flag"
	"fmt"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/hashicorp-forge/wsmanager/internal/cmd/base"
	"github.com/hashicorp-forge/wsmanager/pkg/roles"
)

type Command struct {
	*base.Command

	flagService base.ServiceFlags
	flagDir     string
	flagRate    float64
}

func (c *Command) Synopsis() string {
	return "Create workspaces from every JSON file in a roles directory"
}

func (c *Command) Help() string {
	return `Usage: wsmanager create-from-roles [options]

  Create one workspace per *.json file in the roles directory. A file that
  fails is reported and skipped; the command exits non-zero if any file
  failed.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("create-from-roles", flag.ContinueOnError))
	base.AddServiceFlags(f, &c.flagService)

	f.StringVar(
		&c.flagDir, "dir", "",
		"Roles directory. Defaults to the configured roles dir, or \"roles\".",
	)
	f.Float64Var(
		&c.flagRate, "rate", 0,
		"Maximum workspaces created per second. Zero means no limit.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() != 0 {
		ui.Error("this command takes no arguments")
		return 1
	}
	if c.flagRate < 0 {
		ui.Error("rate must not be negative")
		return 1
	}

	svc, err := c.NewService(&c.flagService)
	if err != nil {
		ui.Error(fmt.Sprintf("error configuring client: %v", err))
		return 1
	}

	loader := &roles.Loader{
		Dir:     svc.Config.RolesDir,
		Manager: svc.Manager,
		Logger:  c.Log,
		OnResult: func(r roles.Result) {
			name := filepath.Base(r.File)
			if r.Err != nil {
				ui.Error(fmt.Sprintf("Error creating workspace from %s: %v", name, r.Err))
				return
			}
			ui.Output(fmt.Sprintf("Created workspace from %s: %s", name, r.Workspace))
		},
	}
	if c.flagDir != "" {
		loader.Dir = c.flagDir
	}

	limit := svc.Config.RolesRate
	if c.flagRate > 0 {
		limit = c.flagRate
	}
	if limit > 0 {
		loader.Limiter = rate.NewLimiter(rate.Limit(limit), 1)
	}

	ctx, cancel := c.Context()
	defer cancel()

	created, err := loader.CreateAll(ctx)
	if created == nil {
		ui.Error(fmt.Sprintf("error loading role files: %v", err))
		return 1
	}
	if len(created) == 0 && err == nil {
		ui.Output(fmt.Sprintf("No role files found in %s.", loader.Dir))
		return 0
	}

	ui.Output(fmt.Sprintf("\nCreated %d workspaces from role files.", len(created)))
	if err != nil {
		c.Log.Debug("role loading finished with errors", "error", err)
		return 1
	}
	return 0
}
