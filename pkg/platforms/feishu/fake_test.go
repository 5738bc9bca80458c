package feishu

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kart-io/feishukit/pkg/transport"
)

// fakeRequester replays scripted envelopes and records every request.
type fakeRequester struct {
	mu        sync.Mutex
	t         *testing.T
	responses []string
	err       error
	requests  []*transport.Request
}

func newFake(t *testing.T, responses ...string) *fakeRequester {
	return &fakeRequester{t: t, responses: responses}
}

func (f *fakeRequester) Request(_ context.Context, req *transport.Request) (*transport.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	require.NotEmpty(f.t, f.responses, "unexpected request %s %s", req.Method, req.Path)

	body := f.responses[0]
	f.responses = f.responses[1:]
	var env transport.Envelope
	require.NoError(f.t, json.Unmarshal([]byte(body), &env))
	return &env, nil
}

func (f *fakeRequester) last() *transport.Request {
	f.t.Helper()
	require.NotEmpty(f.t, f.requests)
	return f.requests[len(f.requests)-1]
}

// bodyJSON round-trips a request body to a generic map for assertions.
func bodyJSON(t *testing.T, req *transport.Request) map[string]any {
	t.Helper()
	data, err := json.Marshal(req.Body)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func newTestClient(t *testing.T, responses ...string) (*Client, *fakeRequester) {
	t.Helper()
	fake := newFake(t, responses...)
	c, err := NewWithRequester(fake)
	require.NoError(t, err)
	return c, fake
}
