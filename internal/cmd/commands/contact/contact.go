package contact

import (
	"context"
	"flag"

	"github.com/kart-io/feishukit/internal/cmd/base"
	"github.com/kart-io/feishukit/pkg/platforms/feishu"
)

type ResolveCommand struct {
	*base.Command

	flagEmails string
	flagIDType string
}

func (c *ResolveCommand) Synopsis() string {
	return "Resolve emails to user ids"
}

func (c *ResolveCommand) Help() string {
	return `Usage: feishuctl resolve -emails a@example.com,b@example.com

  Prints one {email, user_id} entry per email. Emails without an account
  have no user_id.` + c.Flags().Help()
}

func (c *ResolveCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("resolve", flag.ContinueOnError))
	c.ClientFlags(f)
	f.StringVar(&c.flagEmails, "emails", "", "(Required) Comma separated emails.")
	f.StringVar(&c.flagIDType, "id-type", feishu.IDTypeOpenID, "Id type to return: open_id, union_id or user_id.")
	return f
}

func (c *ResolveCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return c.Errorf("error parsing flags: %v", err)
	}
	emails := base.SplitList(c.flagEmails)
	if len(emails) == 0 {
		return c.Errorf("emails flag is required")
	}

	ctx := context.Background()
	client, cleanup, err := c.Client(ctx)
	if err != nil {
		return c.Errorf("%v", err)
	}
	defer cleanup()

	res, err := client.ResolveUserIDs(ctx, emails, feishu.WithUserIDType(c.flagIDType))
	if err != nil {
		return c.Errorf("error resolving emails: %v", err)
	}
	return base.OutputResult(c.Command, res)
}

type MentionsCommand struct {
	*base.Command

	flagEmails string
}

func (c *MentionsCommand) Synopsis() string {
	return "Render @-mentions for a list of emails"
}

func (c *MentionsCommand) Help() string {
	return `Usage: feishuctl mentions -emails a@example.com,b@example.com

  Prints the mention markup for the given emails. Emails without an
  account are rendered as the part before the @.` + c.Flags().Help()
}

func (c *MentionsCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("mentions", flag.ContinueOnError))
	c.ClientFlags(f)
	f.StringVar(&c.flagEmails, "emails", "", "(Required) Comma separated emails.")
	return f
}

func (c *MentionsCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return c.Errorf("error parsing flags: %v", err)
	}
	emails := base.SplitList(c.flagEmails)
	if len(emails) == 0 {
		return c.Errorf("emails flag is required")
	}

	ctx := context.Background()
	client, cleanup, err := c.Client(ctx)
	if err != nil {
		return c.Errorf("%v", err)
	}
	defer cleanup()

	s, err := client.FormatEmailsAsMentions(ctx, emails)
	if err != nil {
		return c.Errorf("error formatting mentions: %v", err)
	}
	c.UI.Output(s)
	return 0
}
