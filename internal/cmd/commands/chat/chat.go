package chat

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/hashicorp-forge/wsmanager/internal/cmd/base"
	"github.com/hashicorp-forge/wsmanager/pkg/api"
	"github.com/hashicorp-forge/wsmanager/pkg/workspace"
)

type Command struct {
	*base.Command

	flagService    base.ServiceFlags
	flagSession    string
	flagNewSession bool
	flagStream     bool
}

func (c *Command) Synopsis() string {
	return "Send a chat message to a workspace"
}

func (c *Command) Help() string {
	return `Usage: wsmanager chat [options] <slug> <message>

  Send a message to a workspace and print the reply. With -stream the reply
  is printed as it arrives.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("chat", flag.ContinueOnError))
	base.AddServiceFlags(f, &c.flagService)

	f.StringVar(
		&c.flagSession, "session", "",
		"Session ID that groups messages into one conversation.",
	)
	f.BoolVar(
		&c.flagNewSession, "new-session", false,
		"Start a new session with a generated ID and print it.",
	)
	f.BoolVar(
		&c.flagStream, "stream", false,
		"Stream the reply.",
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
		ui.Error("expected exactly two arguments: <slug> <message>")
		return 1
	}
	if c.flagSession != "" && c.flagNewSession {
		ui.Error("-session and -new-session cannot be used together")
		return 1
	}

	session := c.flagSession
	if c.flagNewSession {
		session = uuid.NewString()
		ui.Info(fmt.Sprintf("Session: %s", session))
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

	message := f.Arg(1)
	opts := []workspace.ChatOption{workspace.WithSessionID(session)}

	if c.flagStream {
		stream, err := w.StreamChat(ctx, message, opts...)
		if err != nil {
			ui.Error(err.Error())
			return 1
		}
		if err := c.printStream(stream); err != nil {
			ui.Error(err.Error())
			return 1
		}
		return 0
	}

	resp, err := w.Chat(ctx, message, opts...)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	if msg, ok := chunkError(resp); ok {
		ui.Error(msg)
		return 1
	}

	text, ok := resp["textResponse"].(string)
	if !ok {
		if err := c.Print(base.FormatJSON, resp); err != nil {
			ui.Error(err.Error())
			return 1
		}
		return 0
	}
	ui.Output(text)
	printSources(c, resp)
	return 0
}

// printStream writes response text as each chunk arrives. Without a direct
// writer the text is collected and written once the stream ends.
func (c *Command) printStream(stream *api.Stream) error {
	var collected strings.Builder
	out := c.Writer()
	if out == nil {
		out = &collected
	}

	var last api.JSON
	for chunk, err := range stream.All() {
		if err != nil {
			return err
		}
		if msg, ok := chunkError(chunk); ok {
			return fmt.Errorf("stream error: %s", msg)
		}
		if text, ok := chunk["textResponse"].(string); ok {
			io.WriteString(out, text)
		}
		last = chunk
	}

	if out == &collected {
		c.UI.Output(collected.String())
	} else {
		io.WriteString(out, "\n")
	}
	if last != nil {
		printSources(c, last)
	}
	return nil
}

// chunkError returns the error the service reported in a response, if any.
func chunkError(chunk api.JSON) (string, bool) {
	switch e := chunk["error"].(type) {
	case string:
		if e != "" {
			return e, true
		}
	case bool:
		if e {
			return "the service reported an error", true
		}
	}
	return "", false
}

func printSources(c *Command, resp api.JSON) {
	sources, _ := resp["sources"].([]any)
	if len(sources) == 0 {
		return
	}
	titles := make([]string, 0, len(sources))
	for _, s := range sources {
		src, _ := s.(map[string]any)
		if title, ok := src["title"].(string); ok && title != "" {
			titles = append(titles, title)
		}
	}
	if len(titles) > 0 {
		c.UI.Info(fmt.Sprintf("Sources: %s", strings.Join(titles, ", ")))
	}
}
