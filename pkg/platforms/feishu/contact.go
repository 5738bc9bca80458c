package feishu

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/kart-io/feishukit/pkg/errors"
	"github.com/kart-io/feishukit/pkg/transport"
)

// ResolveOption customizes ResolveUserIDs.
type ResolveOption func(*resolveOptions)

type resolveOptions struct {
	userIDType string
}

// WithUserIDType selects the id type returned by ResolveUserIDs. The
// default is open_id.
func WithUserIDType(idType string) ResolveOption {
	return func(o *resolveOptions) { o.userIDType = idType }
}

// ResolveUserIDs maps emails to platform user ids. The result holds one
// entry per email the platform reported on, in response order; emails with
// no account carry an empty id.
func (c *Client) ResolveUserIDs(ctx context.Context, emails []string, opts ...ResolveOption) (Result[UserIDs], error) {
	o := resolveOptions{userIDType: IDTypeOpenID}
	for _, opt := range opts {
		opt(&o)
	}

	env, err := c.do(ctx, &transport.Request{
		Operation: "contact.users.batch_get_id",
		Method:    http.MethodPost,
		Path:      "/contact/v3/users/batch_get_id",
		Params:    url.Values{"user_id_type": {o.userIDType}},
		Body:      map[string]any{"emails": nonNil(emails)},
	})
	if err != nil {
		return Result[UserIDs]{}, err
	}
	if !env.OK() {
		return absent[UserIDs](env), nil
	}

	var data struct {
		UserList *UserIDs `json:"user_list"`
	}
	if err := env.Decode(&data); err != nil {
		return Result[UserIDs]{}, wrapShape(err, "contact.users.batch_get_id")
	}
	if data.UserList == nil {
		return Result[UserIDs]{}, errors.New(errors.ErrMalformedEnvelope, "response has no data.user_list").
			WithOperation("contact.users.batch_get_id")
	}
	return present(*data.UserList, env), nil
}

// FormatEmailsAsMentions renders an @-mention for every email. Resolved
// emails become <at email=...></at> tags; unknown ones fall back to the
// local part of the address. Mentions are concatenated without separators
// in resolution order. An application failure yields an empty string.
func (c *Client) FormatEmailsAsMentions(ctx context.Context, emails []string) (string, error) {
	res, err := c.ResolveUserIDs(ctx, emails)
	if err != nil {
		return "", err
	}
	ids, ok := res.Get()
	if !ok {
		return "", nil
	}

	var b strings.Builder
	for _, u := range ids {
		if u.Found() {
			b.WriteString("<at email=")
			b.WriteString(u.Email)
			b.WriteString("></at>")
			continue
		}
		local, _, _ := strings.Cut(u.Email, "@")
		b.WriteString(local)
	}
	return b.String(), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func wrapShape(err error, op string) *errors.Error {
	if e, ok := errors.AsError(err); ok {
		return e.WithOperation(op)
	}
	return errors.Wrap(err, errors.ErrMalformedEnvelope, "unexpected response shape").WithOperation(op)
}
