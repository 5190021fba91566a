package list

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/wsmanager/internal/cmd/base"
)

type Command struct {
	*base.Command

	flagService base.ServiceFlags
	flagFormat  string
}

func (c *Command) Synopsis() string {
	return "List workspaces"
}

func (c *Command) Help() string {
	return `Usage: wsmanager list [options]

  List the workspaces on the service.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("list", flag.ContinueOnError))
	base.AddServiceFlags(f, &c.flagService)

	f.StringVar(
		&c.flagFormat, "format", base.FormatTable,
		"Output format (table, json, yaml).",
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
	if err := base.CheckFormat(c.flagFormat); err != nil {
		ui.Error(err.Error())
		return 1
	}

	svc, err := c.NewService(&c.flagService)
	if err != nil {
		ui.Error(fmt.Sprintf("error configuring client: %v", err))
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	records, err := svc.Manager.ListWorkspaces(ctx)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	if c.flagFormat != base.FormatTable {
		if err := c.Print(c.flagFormat, records); err != nil {
			ui.Error(err.Error())
			return 1
		}
		return 0
	}

	ui.Output(fmt.Sprintf("Found %d workspaces:", len(records)))
	if len(records) == 0 {
		return 0
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			base.Value(r["name"]),
			base.Value(r["slug"]),
			base.Value(r["chatMode"]),
			base.Timestamp(r["createdAt"]),
		})
	}
	c.Table([]string{"NAME", "SLUG", "MODE", "CREATED"}, rows)
	return 0
}
