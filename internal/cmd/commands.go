package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/kart-io/feishukit/internal/cmd/base"
	"github.com/kart-io/feishukit/internal/cmd/commands/contact"
	"github.com/kart-io/feishukit/internal/cmd/commands/im"
	"github.com/kart-io/feishukit/internal/cmd/commands/task"
	"github.com/kart-io/feishukit/internal/version"
)

// commands returns the command factories of the CLI.
func commands(log hclog.Logger, ui cli.Ui) map[string]cli.CommandFactory {
	b := func() *base.Command { return base.NewCommand(log, ui) }

	all := map[string]cli.CommandFactory{
		"chats": func() (cli.Command, error) {
			return &im.ChatsCommand{Command: b()}, nil
		},
		"members": func() (cli.Command, error) {
			return &im.MembersCommand{Command: b()}, nil
		},
		"send": func() (cli.Command, error) {
			return &im.SendCommand{Command: b()}, nil
		},
		"send-chat": func() (cli.Command, error) {
			return &im.SendChatCommand{Command: b()}, nil
		},
		"batch-send": func() (cli.Command, error) {
			return &im.BatchSendCommand{Command: b()}, nil
		},
		"upload-image": func() (cli.Command, error) {
			return &im.UploadImageCommand{Command: b()}, nil
		},
		"resolve": func() (cli.Command, error) {
			return &contact.ResolveCommand{Command: b()}, nil
		},
		"mentions": func() (cli.Command, error) {
			return &contact.MentionsCommand{Command: b()}, nil
		},
		"task": func() (cli.Command, error) {
			return &task.Command{Command: b()}, nil
		},
		"task create": func() (cli.Command, error) {
			return &task.CreateCommand{Command: b()}, nil
		},
		"task update": func() (cli.Command, error) {
			return &task.UpdateCommand{Command: b()}, nil
		},
		"version": func() (cli.Command, error) {
			return &versionCommand{ui: ui}, nil
		},
	}

	for name, c := range task.IDCommands(b) {
		all["task "+name] = func() (cli.Command, error) { return c, nil }
	}
	return all
}

type versionCommand struct {
	ui cli.Ui
}

func (c *versionCommand) Synopsis() string { return "Print the version" }

func (c *versionCommand) Help() string { return "Usage: feishuctl version" }

func (c *versionCommand) Run([]string) int {
	c.ui.Output(version.Version)
	return 0
}
