package search

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/wsmanager/internal/cmd/base"
	"github.com/hashicorp-forge/wsmanager/pkg/workspace"
)

const maxTextWidth = 80

type Command struct {
	*base.Command

	flagService        base.ServiceFlags
	flagFormat         string
	flagTopN           int
	flagScoreThreshold float64
}

func (c *Command) Synopsis() string {
	return "Search the documents of a workspace"
}

func (c *Command) Help() string {
	return `Usage: wsmanager search [options] <slug> <query>

  Run a vector similarity search over the documents embedded in a
  workspace. Unset options fall back to the workspace settings.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("search", flag.ContinueOnError))
	base.AddServiceFlags(f, &c.flagService)

	f.StringVar(
		&c.flagFormat, "format", base.FormatTable,
		"Output format (table, json, yaml).",
	)
	f.IntVar(
		&c.flagTopN, "top-n", 0,
		"Maximum number of results.",
	)
	f.Float64Var(
		&c.flagScoreThreshold, "score-threshold", 0,
		"Minimum similarity score of a result.",
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
	if f.NArg() != 2 {
		ui.Error("expected exactly two arguments: <slug> <query>")
		return 1
	}
	if err := base.CheckFormat(c.flagFormat); err != nil {
		ui.Error(err.Error())
		return 1
	}

	var opts []workspace.SearchOption
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "top-n":
			opts = append(opts, workspace.WithTopN(c.flagTopN))
		case "score-threshold":
			opts = append(opts, workspace.WithScoreThreshold(c.flagScoreThreshold))
		}
	})

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

	resp, err := w.VectorSearch(ctx, f.Arg(1), opts...)
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

	results, _ := resp["results"].([]any)
	ui.Output(fmt.Sprintf("Found %d results:", len(results)))
	if len(results) == 0 {
		return 0
	}

	rows := make([][]string, 0, len(results))
	for _, item := range results {
		result, _ := item.(map[string]any)
		metadata, _ := result["metadata"].(map[string]any)
		rows = append(rows, []string{
			base.Value(result["score"]),
			base.Value(metadata["title"]),
			shorten(base.Value(result["text"])),
		})
	}
	c.Table([]string{"SCORE", "TITLE", "TEXT"}, rows)
	return 0
}

func shorten(s string) string {
	r := []rune(s)
	if len(r) <= maxTextWidth {
		return s
	}
	return string(r[:maxTextWidth-3]) + "..."
}
