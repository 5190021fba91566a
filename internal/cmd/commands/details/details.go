package details

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
	return "Show the details of a workspace"
}

func (c *Command) Help() string {
	return `Usage: wsmanager details [options] <slug>

  Show the details the service reports for a workspace.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("details", flag.ContinueOnError))
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
	if f.NArg() != 1 {
		ui.Error("expected exactly one argument: <slug>")
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

	w, err := svc.Workspace(ctx, f.Arg(0))
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	resp, err := w.Details(ctx)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	if c.flagFormat != base.FormatTable {
		if err := c.Print(c.flagFormat, resp); err != nil {
			ui.Error(err.Error())
			return 1
		}
		return 0
	}

	// The service returns the record either bare or as a one-element list.
	record, _ := resp["workspace"].(map[string]any)
	if list, ok := resp["workspace"].([]any); ok && len(list) > 0 {
		record, _ = list[0].(map[string]any)
	}
	if record == nil {
		record = resp
	}

	rows := make([][]string, 0, len(record))
	for _, key := range base.SortedKeys(record) {
		value := base.Value(record[key])
		if key == "createdAt" || key == "lastUpdatedAt" {
			value = base.Timestamp(record[key])
		}
		rows = append(rows, []string{base.Label(key), value})
	}
	c.Table([]string{"FIELD", "VALUE"}, rows)
	return 0
}
