package feishu

import (
	"context"
	"net/http"
	"net/url"
	"slices"

	"github.com/kart-io/feishukit/pkg/errors"
	"github.com/kart-io/feishukit/pkg/transport"
)

// ListRobotChats returns the chats the bot is a member of. Only the first
// page is read.
func (c *Client) ListRobotChats(ctx context.Context) (Result[[]Chat], error) {
	const op = "im.chats.list"

	env, err := c.do(ctx, &transport.Request{
		Operation: op,
		Method:    http.MethodGet,
		Path:      "/im/v1/chats",
	})
	if err != nil {
		return Result[[]Chat]{}, err
	}
	if !env.OK() {
		return absent[[]Chat](env), nil
	}

	items, err := decodeItems[Chat](env, op)
	if err != nil {
		return Result[[]Chat]{}, err
	}
	return present(items, env), nil
}

// ListChatMembers returns every member of a chat, following page tokens
// until the platform reports no more pages. Pages answered with a non-zero
// code contribute nothing.
//
// The filter is applied locally after all pages are read. When Emails is
// set the emails are resolved first and the resolved ids replace OpenIDs.
// Emails without an account, or missing from the resolution response, are
// skipped rather than failing the call and so match no member.
func (c *Client) ListChatMembers(ctx context.Context, chatID string, filter MemberFilter) ([]ChatMember, error) {
	const op = "im.chat.members.get"
	if err := required(op, "chat id", chatID); err != nil {
		return nil, err
	}

	openIDs := filter.OpenIDs
	byID := len(openIDs) > 0
	if len(filter.Emails) > 0 {
		res, err := c.ResolveUserIDs(ctx, filter.Emails)
		if err != nil {
			return nil, err
		}
		ids, ok := res.Get()
		if !ok {
			return nil, errors.New(errors.ErrUnresolvedUsers, "could not resolve member emails").
				WithOperation(op).WithAPICode(res.Code())
		}
		openIDs = openIDs[:0:0]
		for _, email := range filter.Emails {
			if id, found := ids.Lookup(email); found {
				openIDs = append(openIDs, id)
			}
		}
		byID = true
	}

	path := "/im/v1/chats/" + url.PathEscape(chatID) + "/members"
	var members []ChatMember
	pageToken := ""
	for page := 1; ; page++ {
		params := url.Values{"member_id_type": {IDTypeOpenID}}
		if pageToken != "" {
			params.Set("page_token", pageToken)
		}

		env, err := c.do(ctx, &transport.Request{
			Operation: op,
			Method:    http.MethodGet,
			Path:      path,
			Params:    params,
		})
		if err != nil {
			return nil, err
		}
		if env.OK() {
			items, err := decodeItems[ChatMember](env, op)
			if err != nil {
				return nil, err
			}
			members = append(members, items...)
		}

		hasMore, next := env.Page()
		if !hasMore {
			break
		}
		if next == "" {
			c.logger.Warn("Pagination stopped: has_more without page_token", "chat_id", chatID, "page", page)
			break
		}
		pageToken = next
	}

	if len(filter.Names) > 0 {
		members = slices.DeleteFunc(members, func(m ChatMember) bool {
			return !slices.Contains(filter.Names, m.Name)
		})
	}
	if byID {
		members = slices.DeleteFunc(members, func(m ChatMember) bool {
			return !slices.Contains(openIDs, m.MemberID)
		})
	}
	return members, nil
}

func decodeItems[T any](env *Envelope, op string) ([]T, error) {
	var data struct {
		Items *[]T `json:"items"`
	}
	if err := env.Decode(&data); err != nil {
		return nil, wrapShape(err, op)
	}
	if data.Items == nil {
		return nil, errors.New(errors.ErrMalformedEnvelope, "response has no data.items").WithOperation(op)
	}
	return *data.Items, nil
}
