package feishu

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/feishukit/pkg/errors"
	"github.com/kart-io/feishukit/pkg/transport"
)

func TestSendMessage(t *testing.T) {
	c, fake := newTestClient(t, `{"code":0,"data":{"message_id":"om_1"}}`)

	env, err := c.SendMessage(context.Background(), "ou_1", TextContent("hi"))
	require.NoError(t, err)
	assert.True(t, env.OK())

	req := fake.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/im/v1/messages", req.Path)
	assert.Equal(t, "open_id", req.Params.Get("receive_id_type"))

	body := bodyJSON(t, req)
	assert.Equal(t, "ou_1", body["receive_id"])
	assert.Equal(t, "text", body["msg_type"])
	assert.Equal(t, `{"text":"hi"}`, body["content"])
	assert.NotContains(t, body, "receive_id_type")
}

func TestSendMessage_Options(t *testing.T) {
	c, fake := newTestClient(t, `{"code":0}`)

	_, err := c.SendMessage(context.Background(), "a@x.com", ImageContent("img_1"),
		WithReceiveIDType(IDTypeEmail), WithMsgType(MsgTypeImage))
	require.NoError(t, err)

	req := fake.last()
	assert.Equal(t, "email", req.Params.Get("receive_id_type"))
	body := bodyJSON(t, req)
	assert.Equal(t, "image", body["msg_type"])
	assert.Equal(t, `{"image_key":"img_1"}`, body["content"])
}

func TestSendMessage_ApplicationFailureReturnsEnvelope(t *testing.T) {
	c, _ := newTestClient(t, `{"code":230002,"msg":"bot is not in the chat"}`)

	env, err := c.SendMessage(context.Background(), "ou_1", TextContent("hi"))
	require.NoError(t, err)
	assert.Equal(t, 230002, env.Code)
	assert.Equal(t, "bot is not in the chat", env.Msg)
}

func TestSendMessage_RequiresReceiver(t *testing.T) {
	c, fake := newTestClient(t)

	_, err := c.SendMessage(context.Background(), "", TextContent("hi"))
	assert.Equal(t, errors.ErrInvalidArgument, errors.GetErrorCode(err))
	assert.Empty(t, fake.requests)
}

func TestSendMessage_UnencodableContent(t *testing.T) {
	c, fake := newTestClient(t)

	_, err := c.SendMessage(context.Background(), "ou_1", map[string]any{"bad": make(chan int)})
	assert.Equal(t, errors.ErrEncodeFailed, errors.GetErrorCode(err))
	assert.Empty(t, fake.requests)
}

func TestSendMessageToChat(t *testing.T) {
	c, fake := newTestClient(t, `{"code":0}`)

	_, err := c.SendMessageToChat(context.Background(), "oc_1", TextContent("hello"), WithReceiveIDType(IDTypeOpenID))
	require.NoError(t, err)

	req := fake.last()
	assert.Equal(t, "chat_id", req.Params.Get("receive_id_type"))
	body := bodyJSON(t, req)
	assert.Equal(t, "oc_1", body["receive_id"])
	assert.Equal(t, "chat_id", body["receive_id_type"])
	assert.Equal(t, `{"text":"hello"}`, body["content"])
}

func TestUploadImage(t *testing.T) {
	c, fake := newTestClient(t, `{"code":0,"data":{"image_key":"img_v2_1"}}`)

	res, err := c.UploadImage(context.Background(), bytes.NewReader([]byte("\x89PNG")))
	require.NoError(t, err)
	key, ok := res.Get()
	require.True(t, ok)
	assert.Equal(t, "img_v2_1", key)

	req := fake.last()
	assert.Equal(t, "/im/v1/images", req.Path)
	form, isForm := req.Body.(*transport.Form)
	require.True(t, isForm)

	imageType, _ := form.Field("image_type")
	assert.Equal(t, "message", imageType)
	require.Len(t, form.Files, 1)
	assert.Equal(t, "image", form.Files[0].Name)
	data, err := io.ReadAll(form.Files[0].Reader)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data))
}

func TestUploadImage_Failure(t *testing.T) {
	c, _ := newTestClient(t, `{"code":234001,"msg":"invalid image"}`)

	res, err := c.UploadImage(context.Background(), bytes.NewReader(nil))
	require.NoError(t, err)
	assert.False(t, res.OK())
}

func TestUploadImage_NilReader(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.UploadImage(context.Background(), nil)
	assert.Equal(t, errors.ErrInvalidArgument, errors.GetErrorCode(err))
}

func TestBatchSendMessage(t *testing.T) {
	card := map[string]any{"elements": []any{map[string]any{"tag": "div"}}}

	tests := []struct {
		name    string
		content any
		opts    []MessageOption
		key     string
		absent  string
	}{
		{"text goes under content", TextContent("hi"), nil, "content", "card"},
		{"interactive goes under card", card, []MessageOption{WithMsgType(MsgTypeInteractive)}, "card", "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, fake := newTestClient(t, `{"code":0,"data":{"message_id":"bm_1"}}`)

			res, err := c.BatchSendMessage(context.Background(), []string{"ou_1", "ou_2"}, tt.content, tt.opts...)
			require.NoError(t, err)
			id, ok := res.Get()
			require.True(t, ok)
			assert.Equal(t, "bm_1", id)

			req := fake.last()
			assert.Equal(t, "/message/v4/batch_send/", req.Path)
			body := bodyJSON(t, req)
			assert.Equal(t, []any{"ou_1", "ou_2"}, body["open_ids"])
			assert.Contains(t, body, tt.key)
			assert.NotContains(t, body, tt.absent)
			// Content is sent as an object, not a JSON string.
			assert.IsType(t, map[string]any{}, body[tt.key])
		})
	}
}

func TestBatchSendMessage_Failure(t *testing.T) {
	c, _ := newTestClient(t, `{"code":9499,"msg":"bad request"}`)

	res, err := c.BatchSendMessage(context.Background(), []string{"ou_1"}, TextContent("hi"))
	require.NoError(t, err)
	_, ok := res.Get()
	assert.False(t, ok)
}
