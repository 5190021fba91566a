package open

import (
	"flag"
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/browser"

	"github.com/hashicorp-forge/wsmanager/internal/cmd/base"
)

type Command struct {
	*base.Command

	// OpenURL opens a URL. Defaults to the system browser.
	OpenURL func(string) error

	flagService base.ServiceFlags
	flagPrint   bool
}

func (c *Command) Synopsis() string {
	return "Open a workspace in the web UI"
}

func (c *Command) Help() string {
	return `Usage: wsmanager open [options] <slug>

  Open a workspace in the service's web UI using the default browser.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("open", flag.ContinueOnError))
	base.AddServiceFlags(f, &c.flagService)

	f.BoolVar(
		&c.flagPrint, "print", false,
		"Print the URL instead of opening it.",
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

	target := strings.TrimRight(svc.Config.WebBaseURL(), "/") + "/workspace/" + url.PathEscape(w.Slug())
	if c.flagPrint {
		ui.Output(target)
		return 0
	}

	openURL := c.OpenURL
	if openURL == nil {
		openURL = browser.OpenURL
	}

	ui.Info(fmt.Sprintf("Opening %s", target))
	if err := openURL(target); err != nil {
		ui.Error(fmt.Sprintf("error opening browser: %v", err))
		return 1
	}
	return 0
}
