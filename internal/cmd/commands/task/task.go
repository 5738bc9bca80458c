package task

import (
	"context"
	"flag"

	"github.com/mitchellh/cli"

	"github.com/kart-io/feishukit/internal/cmd/base"
	"github.com/kart-io/feishukit/pkg/platforms/feishu"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Create and manage tasks"
}

func (c *Command) Help() string {
	return `Usage: feishuctl task <subcommand> [options]

  This command groups subcommands for the task API.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

// fields holds the task attributes shared by create and update.
type fields struct {
	summary     string
	description string
	extra       string
	due         string
	timezone    string
	allDay      bool
	originName  string
	originURL   string
	originTitle string
}

func (f *fields) register(fs *base.FlagSet) {
	fs.StringVar(&f.summary, "summary", "", "Task title.")
	fs.StringVar(&f.description, "description", "", "Task description.")
	fs.StringVar(&f.extra, "extra", "", "Opaque data attached to the task.")
	fs.StringVar(&f.due, "due", "", "Deadline as a unix timestamp in seconds.")
	fs.StringVar(&f.timezone, "timezone", "", "Deadline timezone, e.g. Asia/Shanghai.")
	fs.BoolVar(&f.allDay, "all-day", false, "Deadline is a whole day.")
	fs.StringVar(&f.originName, "origin-name", "", `Source system name as i18n JSON, e.g. {"en_us":"CI"}.`)
	fs.StringVar(&f.originURL, "origin-url", "", "Link back to the source system.")
	fs.StringVar(&f.originTitle, "origin-title", "", "Title of the origin link.")
}

func (f *fields) dueDate() *feishu.Due {
	if f.due == "" {
		return nil
	}
	return &feishu.Due{Time: f.due, Timezone: f.timezone, IsAllDay: f.allDay}
}

func (f *fields) origin() *feishu.Origin {
	if f.originName == "" {
		return nil
	}
	o := &feishu.Origin{PlatformI18nName: f.originName}
	if f.originURL != "" {
		o.Href = &feishu.Href{URL: f.originURL, Title: f.originTitle}
	}
	return o
}

type CreateCommand struct {
	*base.Command

	fields
	flagCanEdit       bool
	flagCollaborators string
}

func (c *CreateCommand) Synopsis() string {
	return "Create a task"
}

func (c *CreateCommand) Help() string {
	return `Usage: feishuctl task create -summary 'Fix the build' [-collaborators ou_1,ou_2]

  Creates a task and optionally attaches collaborators. Prints the task id
  and the response of the last request.` + c.Flags().Help()
}

func (c *CreateCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("task create", flag.ContinueOnError))
	c.ClientFlags(f)
	c.register(f)
	f.BoolVar(&c.flagCanEdit, "can-edit", false, "Allow the task to be edited in the client.")
	f.StringVar(&c.flagCollaborators, "collaborators", "", "Comma separated open ids to attach.")
	return f
}

func (c *CreateCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return c.Errorf("error parsing flags: %v", err)
	}
	if c.summary == "" {
		return c.Errorf("summary flag is required")
	}

	t := feishu.TaskSpec{
		Summary:     c.summary,
		Description: c.description,
		Extra:       c.extra,
		Due:         c.dueDate(),
		Origin:      c.origin(),
		CanEdit:     c.flagCanEdit,
	}
	if ids := base.SplitList(c.flagCollaborators); len(ids) > 0 {
		t.Collaborators = &feishu.Collaborators{IDList: ids}
	}

	ctx := context.Background()
	client, cleanup, err := c.Client(ctx)
	if err != nil {
		return c.Errorf("%v", err)
	}
	defer cleanup()

	created, err := client.CreateTask(ctx, t)
	if err != nil {
		return c.Errorf("error creating task: %v", err)
	}
	code := c.Output(map[string]any{
		"task_id":  created.TaskID,
		"response": created.Last(),
	})
	if code == 0 && !created.Last().OK() {
		return 1
	}
	return code
}

type UpdateCommand struct {
	*base.Command

	fields
	flagID      string
	flagFields  string
	flagCanEdit string
}

func (c *UpdateCommand) Synopsis() string {
	return "Update fields of a task"
}

func (c *UpdateCommand) Help() string {
	return `Usage: feishuctl task update -id t_xxx -fields summary -summary 'New title'

  Only the attributes listed in -fields are changed.` + c.Flags().Help()
}

func (c *UpdateCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("task update", flag.ContinueOnError))
	c.ClientFlags(f)
	c.register(f)
	f.StringVar(&c.flagID, "id", "", "(Required) Task id.")
	f.StringVar(&c.flagFields, "fields", "", "(Required) Comma separated attributes to update.")
	f.StringVar(&c.flagCanEdit, "can-edit", "", "Set editability: true or false.")
	return f
}

func (c *UpdateCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return c.Errorf("error parsing flags: %v", err)
	}
	updateFields := base.SplitList(c.flagFields)
	if c.flagID == "" || len(updateFields) == 0 {
		return c.Errorf("id and fields flags are required")
	}

	task := feishu.Task{
		Summary:     c.summary,
		Description: c.description,
		Extra:       c.extra,
		Due:         c.dueDate(),
		Origin:      c.origin(),
	}
	switch c.flagCanEdit {
	case "":
	case "true", "false":
		canEdit := c.flagCanEdit == "true"
		task.CanEdit = &canEdit
	default:
		return c.Errorf("can-edit must be true or false")
	}

	ctx := context.Background()
	client, cleanup, err := c.Client(ctx)
	if err != nil {
		return c.Errorf("%v", err)
	}
	defer cleanup()

	env, err := client.UpdateTask(ctx, c.flagID, updateFields, task)
	if err != nil {
		return c.Errorf("error updating task: %v", err)
	}
	return c.OutputEnvelope(env)
}

// CallFunc sends one request about the task id.
type CallFunc func(ctx context.Context, client *feishu.Client, id string, ids []string) (*feishu.Envelope, error)

type IDCommand struct {
	*base.Command

	Name        string
	Description string
	// WithIDs adds the -ids flag for collaborator changes.
	WithIDs bool
	Call    CallFunc

	flagID  string
	flagIDs string
}

func (c *IDCommand) Synopsis() string {
	return c.Description
}

func (c *IDCommand) Help() string {
	usage := "Usage: feishuctl task " + c.Name + " -id t_xxx"
	if c.WithIDs {
		usage += " -ids ou_1,ou_2"
	}
	return usage + "\n\n  " + c.Description + "." + c.Flags().Help()
}

func (c *IDCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("task "+c.Name, flag.ContinueOnError))
	c.ClientFlags(f)
	f.StringVar(&c.flagID, "id", "", "(Required) Task id.")
	if c.WithIDs {
		f.StringVar(&c.flagIDs, "ids", "", "(Required) Comma separated collaborator open ids.")
	}
	return f
}

func (c *IDCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return c.Errorf("error parsing flags: %v", err)
	}
	if c.flagID == "" {
		return c.Errorf("id flag is required")
	}
	ids := base.SplitList(c.flagIDs)
	if c.WithIDs && len(ids) == 0 {
		return c.Errorf("ids flag is required")
	}

	ctx := context.Background()
	client, cleanup, err := c.Client(ctx)
	if err != nil {
		return c.Errorf("%v", err)
	}
	defer cleanup()

	env, err := c.Call(ctx, client, c.flagID, ids)
	if err != nil {
		return c.Errorf("error running task %s: %v", c.Name, err)
	}
	return c.OutputEnvelope(env)
}

// IDCommands returns the single-request task subcommands keyed by name.
func IDCommands(b func() *base.Command) map[string]*IDCommand {
	return map[string]*IDCommand{
		"complete": {
			Command: b(), Name: "complete", Description: "Mark a task complete",
			Call: func(ctx context.Context, c *feishu.Client, id string, _ []string) (*feishu.Envelope, error) {
				return c.CompleteTask(ctx, id)
			},
		},
		"uncomplete": {
			Command: b(), Name: "uncomplete", Description: "Reopen a completed task",
			Call: func(ctx context.Context, c *feishu.Client, id string, _ []string) (*feishu.Envelope, error) {
				return c.UncompleteTask(ctx, id)
			},
		},
		"delete": {
			Command: b(), Name: "delete", Description: "Delete a task",
			Call: func(ctx context.Context, c *feishu.Client, id string, _ []string) (*feishu.Envelope, error) {
				return c.DeleteTask(ctx, id)
			},
		},
		"collaborators": {
			Command: b(), Name: "collaborators", Description: "List the collaborators of a task",
			Call: func(ctx context.Context, c *feishu.Client, id string, _ []string) (*feishu.Envelope, error) {
				return c.GetTaskCollaborators(ctx, id)
			},
		},
		"add-collaborators": {
			Command: b(), Name: "add-collaborators", Description: "Attach collaborators to a task", WithIDs: true,
			Call: func(ctx context.Context, c *feishu.Client, id string, ids []string) (*feishu.Envelope, error) {
				return c.AddTaskCollaborators(ctx, id, feishu.Collaborators{IDList: ids})
			},
		},
		"remove-collaborators": {
			Command: b(), Name: "remove-collaborators", Description: "Detach collaborators from a task", WithIDs: true,
			Call: func(ctx context.Context, c *feishu.Client, id string, ids []string) (*feishu.Envelope, error) {
				return c.RemoveTaskCollaborators(ctx, id, feishu.Collaborators{IDList: ids})
			},
		},
	}
}
