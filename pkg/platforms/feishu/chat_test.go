package feishu

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/feishukit/pkg/errors"
)

func TestListRobotChats(t *testing.T) {
	c, fake := newTestClient(t, `{"code":0,"data":{"items":[
		{"chat_id":"oc_1","name":"ops","owner_id":"ou_9","external":false},
		{"chat_id":"oc_2","name":"dev"}
	],"has_more":true,"page_token":"next"}}`)

	res, err := c.ListRobotChats(context.Background())
	require.NoError(t, err)
	chats, ok := res.Get()
	require.True(t, ok)
	require.Len(t, chats, 2)
	assert.Equal(t, "oc_1", chats[0].ChatID)
	assert.Equal(t, "ou_9", chats[0].OwnerID)
	assert.Equal(t, "dev", chats[1].Name)

	// A single page is read even when more are available.
	assert.Len(t, fake.requests, 1)
	assert.Equal(t, http.MethodGet, fake.last().Method)
	assert.Equal(t, "/im/v1/chats", fake.last().Path)
}

func TestListRobotChats_Failure(t *testing.T) {
	c, _ := newTestClient(t, `{"code":99991672,"msg":"no permission"}`)

	res, err := c.ListRobotChats(context.Background())
	require.NoError(t, err)
	assert.False(t, res.OK())
}

const (
	membersPage1 = `{"code":0,"has_more":true,"page_token":"t1","data":{"items":[
		{"member_id_type":"open_id","member_id":"ou_1","name":"m1"},
		{"member_id_type":"open_id","member_id":"ou_2","name":"m2"}
	]}}`
	membersPage2 = `{"code":0,"has_more":false,"data":{"items":[
		{"member_id_type":"open_id","member_id":"ou_3","name":"m3"}
	]}}`
)

func names(members []ChatMember) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.Name)
	}
	return out
}

func TestListChatMembers_Pagination(t *testing.T) {
	c, fake := newTestClient(t, membersPage1, membersPage2)

	members, err := c.ListChatMembers(context.Background(), "oc_1", MemberFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2", "m3"}, names(members))

	require.Len(t, fake.requests, 2)
	first, second := fake.requests[0], fake.requests[1]
	assert.Equal(t, "/im/v1/chats/oc_1/members", first.Path)
	assert.Equal(t, "open_id", first.Params.Get("member_id_type"))
	assert.False(t, first.Params.Has("page_token"))
	assert.Equal(t, "t1", second.Params.Get("page_token"))
	assert.Equal(t, "open_id", second.Params.Get("member_id_type"))
}

func TestListChatMembers_CursorInData(t *testing.T) {
	c, fake := newTestClient(t,
		`{"code":0,"data":{"items":[{"member_id":"ou_1","name":"m1"}],"has_more":true,"page_token":"d1"}}`,
		`{"code":0,"data":{"items":[{"member_id":"ou_2","name":"m2"}],"has_more":false}}`,
	)

	members, err := c.ListChatMembers(context.Background(), "oc_1", MemberFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, names(members))
	assert.Equal(t, "d1", fake.requests[1].Params.Get("page_token"))
}

func TestListChatMembers_FailedPageContributesNothing(t *testing.T) {
	c, _ := newTestClient(t,
		membersPage1,
		`{"code":1500,"msg":"busy","has_more":true,"page_token":"t2"}`,
		membersPage2,
	)

	members, err := c.ListChatMembers(context.Background(), "oc_1", MemberFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2", "m3"}, names(members))
}

func TestListChatMembers_StopsWithoutToken(t *testing.T) {
	c, fake := newTestClient(t, `{"code":0,"has_more":true,"data":{"items":[{"member_id":"ou_1","name":"m1"}]}}`)

	members, err := c.ListChatMembers(context.Background(), "oc_1", MemberFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, names(members))
	assert.Len(t, fake.requests, 1)
}

func TestListChatMembers_EscapesChatID(t *testing.T) {
	c, fake := newTestClient(t, `{"code":0,"data":{"items":[]}}`)

	_, err := c.ListChatMembers(context.Background(), "oc/../x", MemberFilter{})
	require.NoError(t, err)
	assert.Equal(t, "/im/v1/chats/oc%2F..%2Fx/members", fake.last().Path)
}

func TestListChatMembers_Filters(t *testing.T) {
	tests := []struct {
		name   string
		filter MemberFilter
		want   []string
	}{
		{"names", MemberFilter{Names: []string{"m2"}}, []string{"m2"}},
		{"open ids", MemberFilter{OpenIDs: []string{"ou_1", "ou_3"}}, []string{"m1", "m3"}},
		{"names and ids", MemberFilter{Names: []string{"m1", "m2"}, OpenIDs: []string{"ou_2"}}, []string{"m2"}},
		{"no match", MemberFilter{Names: []string{"nobody"}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, membersPage1, membersPage2)
			members, err := c.ListChatMembers(context.Background(), "oc_1", tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(members))
		})
	}
}

func TestListChatMembers_EmailFilter(t *testing.T) {
	c, fake := newTestClient(t,
		`{"code":0,"data":{"user_list":[{"email":"a@x.com","user_id":"ou_3"},{"email":"b@x.com"}]}}`,
		membersPage1, membersPage2,
	)

	members, err := c.ListChatMembers(context.Background(), "oc_1", MemberFilter{
		Emails:  []string{"a@x.com", "b@x.com"},
		OpenIDs: []string{"ou_1"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"m3"}, names(members))
	assert.Equal(t, "/contact/v3/users/batch_get_id", fake.requests[0].Path)
}

func TestListChatMembers_UnknownEmailsMatchNothing(t *testing.T) {
	c, _ := newTestClient(t,
		`{"code":0,"data":{"user_list":[{"email":"b@x.com"}]}}`,
		membersPage1, membersPage2,
	)

	members, err := c.ListChatMembers(context.Background(), "oc_1", MemberFilter{Emails: []string{"b@x.com"}})
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestListChatMembers_EmailMissingFromResponse(t *testing.T) {
	c, fake := newTestClient(t,
		`{"code":0,"data":{"user_list":[{"email":"a@x.com","user_id":"ou_3"}]}}`,
		membersPage1, membersPage2,
	)

	members, err := c.ListChatMembers(context.Background(), "oc_1", MemberFilter{
		Emails: []string{"a@x.com", "gone@x.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"m3"}, names(members))
	assert.Len(t, fake.requests, 3)
}

func TestListChatMembers_UnresolvedEmails(t *testing.T) {
	c, fake := newTestClient(t, `{"code":99991663,"msg":"invalid token"}`)

	_, err := c.ListChatMembers(context.Background(), "oc_1", MemberFilter{Emails: []string{"a@x.com"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnresolved))
	assert.Len(t, fake.requests, 1)
}

func TestListChatMembers_RequiresChatID(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.ListChatMembers(context.Background(), "", MemberFilter{})
	assert.Equal(t, errors.ErrInvalidArgument, errors.GetErrorCode(err))
}
