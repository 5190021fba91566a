package cmd

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/wsmanager/internal/cmd/base"
	"github.com/hashicorp-forge/wsmanager/internal/cmd/commands/chat"
	"github.com/hashicorp-forge/wsmanager/internal/cmd/commands/create"
	"github.com/hashicorp-forge/wsmanager/internal/cmd/commands/createfromfile"
	"github.com/hashicorp-forge/wsmanager/internal/cmd/commands/createfromroles"
	"github.com/hashicorp-forge/wsmanager/internal/cmd/commands/deleteworkspace"
	"github.com/hashicorp-forge/wsmanager/internal/cmd/commands/details"
	"github.com/hashicorp-forge/wsmanager/internal/cmd/commands/export"
	"github.com/hashicorp-forge/wsmanager/internal/cmd/commands/list"
	"github.com/hashicorp-forge/wsmanager/internal/cmd/commands/open"
	"github.com/hashicorp-forge/wsmanager/internal/cmd/commands/search"
	"github.com/hashicorp-forge/wsmanager/internal/cmd/commands/update"
	"github.com/hashicorp-forge/wsmanager/internal/cmd/commands/version"
)

// Commands is the mapping of all available wsmanager commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := &base.Command{
		Log: log,
		UI:  ui,
	}

	Commands = map[string]cli.CommandFactory{
		"chat": func() (cli.Command, error) {
			return &chat.Command{Command: b}, nil
		},
		"create": func() (cli.Command, error) {
			return &create.Command{Command: b}, nil
		},
		"create-from-file": func() (cli.Command, error) {
			return &createfromfile.Command{Command: b}, nil
		},
		"create-from-roles": func() (cli.Command, error) {
			return &createfromroles.Command{Command: b}, nil
		},
		"delete": func() (cli.Command, error) {
			return &deleteworkspace.Command{Command: b}, nil
		},
		"details": func() (cli.Command, error) {
			return &details.Command{Command: b}, nil
		},
		"export": func() (cli.Command, error) {
			return &export.Command{Command: b}, nil
		},
		"list": func() (cli.Command, error) {
			return &list.Command{Command: b}, nil
		},
		"open": func() (cli.Command, error) {
			return &open.Command{Command: b}, nil
		},
		"search": func() (cli.Command, error) {
			return &search.Command{Command: b}, nil
		},
		"update": func() (cli.Command, error) {
			return &update.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}

func helpWriter(ui cli.Ui) io.Writer {
	switch ui := ui.(type) {
	case *cli.BasicUi:
		return ui.ErrorWriter
	case *cli.MockUi:
		return ui.ErrorWriter
	}
	return os.Stderr
}
