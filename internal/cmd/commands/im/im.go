package im

import (
	"context"
	"flag"
	"os"

	"github.com/kart-io/feishukit/internal/cmd/base"
	"github.com/kart-io/feishukit/pkg/platforms/feishu"
)

type ChatsCommand struct {
	*base.Command
}

func (c *ChatsCommand) Synopsis() string {
	return "List the chats the bot belongs to"
}

func (c *ChatsCommand) Help() string {
	return `Usage: feishuctl chats

  Prints the first page of chats the bot is a member of.` + c.Flags().Help()
}

func (c *ChatsCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("chats", flag.ContinueOnError))
	c.ClientFlags(f)
	return f
}

func (c *ChatsCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return c.Errorf("error parsing flags: %v", err)
	}

	ctx := context.Background()
	client, cleanup, err := c.Client(ctx)
	if err != nil {
		return c.Errorf("%v", err)
	}
	defer cleanup()

	res, err := client.ListRobotChats(ctx)
	if err != nil {
		return c.Errorf("error listing chats: %v", err)
	}
	return base.OutputResult(c.Command, res)
}

type MembersCommand struct {
	*base.Command

	flagChat    string
	flagEmails  string
	flagNames   string
	flagOpenIDs string
}

func (c *MembersCommand) Synopsis() string {
	return "List the members of a chat"
}

func (c *MembersCommand) Help() string {
	return `Usage: feishuctl members -chat oc_xxx [-names a,b] [-emails x@example.com]

  Reads every page of the chat's member list, then keeps the members
  matching all given filters.` + c.Flags().Help()
}

func (c *MembersCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("members", flag.ContinueOnError))
	c.ClientFlags(f)
	f.StringVar(&c.flagChat, "chat", "", "(Required) Chat id.")
	f.StringVar(&c.flagEmails, "emails", "", "Keep members with these emails. Replaces -open-ids.")
	f.StringVar(&c.flagNames, "names", "", "Keep members with these display names.")
	f.StringVar(&c.flagOpenIDs, "open-ids", "", "Keep members with these open ids.")
	return f
}

func (c *MembersCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return c.Errorf("error parsing flags: %v", err)
	}
	if c.flagChat == "" {
		return c.Errorf("chat flag is required")
	}

	ctx := context.Background()
	client, cleanup, err := c.Client(ctx)
	if err != nil {
		return c.Errorf("%v", err)
	}
	defer cleanup()

	members, err := client.ListChatMembers(ctx, c.flagChat, feishu.MemberFilter{
		Emails:  base.SplitList(c.flagEmails),
		Names:   base.SplitList(c.flagNames),
		OpenIDs: base.SplitList(c.flagOpenIDs),
	})
	if err != nil {
		return c.Errorf("error listing members: %v", err)
	}
	if members == nil {
		members = []feishu.ChatMember{}
	}
	return c.Output(members)
}

type SendCommand struct {
	*base.Command

	flagTo      string
	flagIDType  string
	flagMsgType string
	flagContent string
}

func (c *SendCommand) Synopsis() string {
	return "Send a message to a user"
}

func (c *SendCommand) Help() string {
	return `Usage: feishuctl send -to ou_xxx -content 'hello'

  Content that is a JSON object is sent as is; anything else is wrapped
  as {"text": ...}.` + c.Flags().Help()
}

func (c *SendCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("send", flag.ContinueOnError))
	c.ClientFlags(f)
	f.StringVar(&c.flagTo, "to", "", "(Required) Receiver id.")
	f.StringVar(&c.flagIDType, "id-type", feishu.IDTypeOpenID, "How -to is interpreted: open_id, user_id, union_id, email or chat_id.")
	f.StringVar(&c.flagMsgType, "msg-type", feishu.MsgTypeText, "Message type.")
	f.StringVar(&c.flagContent, "content", "", "(Required) Message content.")
	return f
}

func (c *SendCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return c.Errorf("error parsing flags: %v", err)
	}
	if c.flagTo == "" || c.flagContent == "" {
		return c.Errorf("to and content flags are required")
	}

	ctx := context.Background()
	client, cleanup, err := c.Client(ctx)
	if err != nil {
		return c.Errorf("%v", err)
	}
	defer cleanup()

	env, err := client.SendMessage(ctx, c.flagTo, base.ParseContent(c.flagContent),
		feishu.WithReceiveIDType(c.flagIDType), feishu.WithMsgType(c.flagMsgType))
	if err != nil {
		return c.Errorf("error sending message: %v", err)
	}
	return c.OutputEnvelope(env)
}

type SendChatCommand struct {
	*base.Command

	flagChat    string
	flagMsgType string
	flagContent string
}

func (c *SendChatCommand) Synopsis() string {
	return "Send a message to a group chat"
}

func (c *SendChatCommand) Help() string {
	return `Usage: feishuctl send-chat -chat oc_xxx -content 'hello'` + c.Flags().Help()
}

func (c *SendChatCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("send-chat", flag.ContinueOnError))
	c.ClientFlags(f)
	f.StringVar(&c.flagChat, "chat", "", "(Required) Chat id.")
	f.StringVar(&c.flagMsgType, "msg-type", feishu.MsgTypeText, "Message type.")
	f.StringVar(&c.flagContent, "content", "", "(Required) Message content.")
	return f
}

func (c *SendChatCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return c.Errorf("error parsing flags: %v", err)
	}
	if c.flagChat == "" || c.flagContent == "" {
		return c.Errorf("chat and content flags are required")
	}

	ctx := context.Background()
	client, cleanup, err := c.Client(ctx)
	if err != nil {
		return c.Errorf("%v", err)
	}
	defer cleanup()

	env, err := client.SendMessageToChat(ctx, c.flagChat, base.ParseContent(c.flagContent),
		feishu.WithMsgType(c.flagMsgType))
	if err != nil {
		return c.Errorf("error sending message: %v", err)
	}
	return c.OutputEnvelope(env)
}

type BatchSendCommand struct {
	*base.Command

	flagOpenIDs string
	flagMsgType string
	flagContent string
}

func (c *BatchSendCommand) Synopsis() string {
	return "Send one message to many users"
}

func (c *BatchSendCommand) Help() string {
	return `Usage: feishuctl batch-send -open-ids ou_1,ou_2 -content '{"text":"hi"}'

  Prints the batch message id. With -msg-type interactive the content is
  sent as a card.` + c.Flags().Help()
}

func (c *BatchSendCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("batch-send", flag.ContinueOnError))
	c.ClientFlags(f)
	f.StringVar(&c.flagOpenIDs, "open-ids", "", "(Required) Comma separated open ids.")
	f.StringVar(&c.flagMsgType, "msg-type", feishu.MsgTypeText, "Message type.")
	f.StringVar(&c.flagContent, "content", "", "(Required) Message content.")
	return f
}

func (c *BatchSendCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return c.Errorf("error parsing flags: %v", err)
	}
	openIDs := base.SplitList(c.flagOpenIDs)
	if len(openIDs) == 0 || c.flagContent == "" {
		return c.Errorf("open-ids and content flags are required")
	}

	ctx := context.Background()
	client, cleanup, err := c.Client(ctx)
	if err != nil {
		return c.Errorf("%v", err)
	}
	defer cleanup()

	res, err := client.BatchSendMessage(ctx, openIDs, base.ParseContent(c.flagContent),
		feishu.WithMsgType(c.flagMsgType))
	if err != nil {
		return c.Errorf("error sending batch: %v", err)
	}
	return base.OutputResult(c.Command, res)
}

type UploadImageCommand struct {
	*base.Command

	flagFile string
}

func (c *UploadImageCommand) Synopsis() string {
	return "Upload an image for use in messages"
}

func (c *UploadImageCommand) Help() string {
	return `Usage: feishuctl upload-image -file chart.png

  Prints the image key.` + c.Flags().Help()
}

func (c *UploadImageCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("upload-image", flag.ContinueOnError))
	c.ClientFlags(f)
	f.StringVar(&c.flagFile, "file", "", "(Required) Path to the image.")
	return f
}

func (c *UploadImageCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return c.Errorf("error parsing flags: %v", err)
	}
	if c.flagFile == "" {
		return c.Errorf("file flag is required")
	}

	file, err := os.Open(c.flagFile)
	if err != nil {
		return c.Errorf("error opening image: %v", err)
	}
	defer file.Close()

	ctx := context.Background()
	client, cleanup, err := c.Client(ctx)
	if err != nil {
		return c.Errorf("%v", err)
	}
	defer cleanup()

	res, err := client.UploadImage(ctx, file)
	if err != nil {
		return c.Errorf("error uploading image: %v", err)
	}
	return base.OutputResult(c.Command, res)
}
