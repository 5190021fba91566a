// Package base holds what every wsmanager subcommand shares: the logger and
// UI, flag handling, service setup and output formatting.
package base

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
)

// Command is embedded by every subcommand.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui
}

// Context returns a context that is cancelled on interrupt.
func (c *Command) Context() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// Writer returns the writer behind the UI's standard output, or nil if the
// UI does not expose one. It is used for output that must not be split
// into lines, such as streamed replies.
func (c *Command) Writer() io.Writer {
	switch ui := c.UI.(type) {
	case *cli.BasicUi:
		return ui.Writer
	case *cli.MockUi:
		if ui.OutputWriter != nil {
			return ui.OutputWriter
		}
	}
	return nil
}
