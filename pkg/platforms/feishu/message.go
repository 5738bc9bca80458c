package feishu

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/kart-io/feishukit/pkg/errors"
	"github.com/kart-io/feishukit/pkg/transport"
)

// MessageOption customizes SendMessage and BatchSendMessage.
type MessageOption func(*messageOptions)

type messageOptions struct {
	receiveIDType string
	msgType       string
}

func newMessageOptions(opts []MessageOption) messageOptions {
	o := messageOptions{receiveIDType: IDTypeOpenID, msgType: MsgTypeText}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithReceiveIDType sets how the receive id is interpreted. Default open_id.
func WithReceiveIDType(idType string) MessageOption {
	return func(o *messageOptions) { o.receiveIDType = idType }
}

// WithMsgType sets the message type. Default text.
func WithMsgType(msgType string) MessageOption {
	return func(o *messageOptions) { o.msgType = msgType }
}

// TextContent builds the content of a text message.
func TextContent(text string) map[string]string {
	return map[string]string{"text": text}
}

// ImageContent builds the content of an image message.
func ImageContent(imageKey string) map[string]string {
	return map[string]string{"image_key": imageKey}
}

type outboundMessage struct {
	ReceiveID     string `json:"receive_id"`
	ReceiveIDType string `json:"receive_id_type,omitempty"`
	Content       string `json:"content"`
	MsgType       string `json:"msg_type"`
}

// SendMessage sends content to one receiver. Content is JSON encoded and
// carried as a string, as the messaging API expects.
func (c *Client) SendMessage(ctx context.Context, receiveID string, content any, opts ...MessageOption) (*Envelope, error) {
	o := newMessageOptions(opts)
	return c.sendMessage(ctx, "im.messages.create", receiveID, content, o, false)
}

// SendMessageToChat sends content to a group chat by chat id.
func (c *Client) SendMessageToChat(ctx context.Context, chatID string, content any, opts ...MessageOption) (*Envelope, error) {
	o := newMessageOptions(opts)
	o.receiveIDType = IDTypeChatID
	return c.sendMessage(ctx, "im.messages.create_chat", chatID, content, o, true)
}

func (c *Client) sendMessage(ctx context.Context, op, receiveID string, content any, o messageOptions, echoType bool) (*Envelope, error) {
	if err := required(op, "receive id", receiveID); err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(content)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrEncodeFailed, "encode message content").WithOperation(op)
	}

	msg := outboundMessage{
		ReceiveID: receiveID,
		Content:   string(encoded),
		MsgType:   o.msgType,
	}
	if echoType {
		msg.ReceiveIDType = o.receiveIDType
	}

	return c.do(ctx, &transport.Request{
		Operation: op,
		Method:    http.MethodPost,
		Path:      "/im/v1/messages",
		Params:    url.Values{"receive_id_type": {o.receiveIDType}},
		Body:      msg,
	})
}

// UploadImage uploads an image for use in messages and returns its key.
func (c *Client) UploadImage(ctx context.Context, image io.Reader) (Result[string], error) {
	const op = "im.images.create"
	if image == nil {
		return Result[string]{}, errors.New(errors.ErrInvalidArgument, "image is required").WithOperation(op)
	}

	env, err := c.do(ctx, &transport.Request{
		Operation: op,
		Method:    http.MethodPost,
		Path:      "/im/v1/images",
		Body:      transport.NewForm().AddField("image_type", "message").AddFile("image", image),
	})
	if err != nil {
		return Result[string]{}, err
	}
	return unwrapString(env, op, "image_key")
}

// BatchSendMessage sends content to many users at once and returns the
// batch message id. Interactive cards travel under "card", everything else
// under "content"; neither is string encoded.
func (c *Client) BatchSendMessage(ctx context.Context, openIDs []string, content any, opts ...MessageOption) (Result[string], error) {
	const op = "message.batch_send"
	o := newMessageOptions(opts)

	body := map[string]any{
		"msg_type": o.msgType,
		"open_ids": nonNil(openIDs),
	}
	if o.msgType == MsgTypeInteractive {
		body["card"] = content
	} else {
		body["content"] = content
	}

	env, err := c.do(ctx, &transport.Request{
		Operation: op,
		Method:    http.MethodPost,
		Path:      "/message/v4/batch_send/",
		Body:      body,
	})
	if err != nil {
		return Result[string]{}, err
	}
	return unwrapString(env, op, "message_id")
}

// unwrapString extracts data[key] from a successful envelope.
func unwrapString(env *Envelope, op, key string) (Result[string], error) {
	if !env.OK() {
		return absent[string](env), nil
	}

	var data map[string]json.RawMessage
	if err := env.Decode(&data); err != nil {
		return Result[string]{}, wrapShape(err, op)
	}
	raw, ok := data[key]
	if !ok {
		return Result[string]{}, errors.Newf(errors.ErrMalformedEnvelope, "response has no data.%s", key).WithOperation(op)
	}

	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return Result[string]{}, errors.Wrapf(err, errors.ErrMalformedEnvelope, "data.%s is not a string", key).WithOperation(op)
	}
	return present(v, env), nil
}
