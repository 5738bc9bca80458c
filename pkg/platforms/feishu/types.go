package feishu

import "github.com/kart-io/feishukit/pkg/transport"

// Envelope is the raw response wrapper returned by pass-through methods.
type Envelope = transport.Envelope

// ID types accepted by the contact and messaging APIs.
const (
	IDTypeOpenID  = "open_id"
	IDTypeUnionID = "union_id"
	IDTypeUserID  = "user_id"
	IDTypeChatID  = "chat_id"
	IDTypeEmail   = "email"
)

// Message types.
const (
	MsgTypeText        = "text"
	MsgTypePost        = "post"
	MsgTypeImage       = "image"
	MsgTypeInteractive = "interactive"
	MsgTypeShareChat   = "share_chat"
)

// UserIdentity pairs an email with the id it resolved to. An empty OpenID
// means the email has no account on the platform.
type UserIdentity struct {
	Email  string `json:"email"`
	OpenID string `json:"user_id,omitempty"`
}

// Found reports whether the email resolved to an account.
func (u UserIdentity) Found() bool {
	return u.OpenID != ""
}

// UserIDs is a resolution result in response order.
type UserIDs []UserIdentity

// Lookup returns the id for email.
func (ids UserIDs) Lookup(email string) (string, bool) {
	for _, u := range ids {
		if u.Email == email {
			return u.OpenID, u.Found()
		}
	}
	return "", false
}

// Map returns email → id for resolved emails only. Emails without an
// account are absent; see Unresolved.
func (ids UserIDs) Map() map[string]string {
	m := make(map[string]string, len(ids))
	for _, u := range ids {
		if u.Found() {
			m[u.Email] = u.OpenID
		}
	}
	return m
}

// Unresolved returns the emails without an account, in response order.
func (ids UserIDs) Unresolved() []string {
	var out []string
	for _, u := range ids {
		if !u.Found() {
			out = append(out, u.Email)
		}
	}
	return out
}

// Chat is a group chat the bot belongs to.
type Chat struct {
	ChatID      string `json:"chat_id"`
	Avatar      string `json:"avatar,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OwnerID     string `json:"owner_id,omitempty"`
	OwnerIDType string `json:"owner_id_type,omitempty"`
	External    bool   `json:"external,omitempty"`
	TenantKey   string `json:"tenant_key,omitempty"`
	ChatStatus  string `json:"chat_status,omitempty"`
}

// ChatMember is one member of a chat.
type ChatMember struct {
	MemberIDType string `json:"member_id_type"`
	MemberID     string `json:"member_id"`
	Name         string `json:"name"`
	TenantKey    string `json:"tenant_key,omitempty"`
}

// MemberFilter narrows ListChatMembers locally. Empty fields do not filter.
type MemberFilter struct {
	// Emails are resolved to open ids, which then replace OpenIDs.
	Emails  []string
	Names   []string
	OpenIDs []string
}

// Due is a task deadline. Time is a unix timestamp in seconds.
type Due struct {
	Time     string `json:"time"`
	Timezone string `json:"timezone,omitempty"`
	IsAllDay bool   `json:"is_all_day,omitempty"`
}

// Href is a link back to the system a task came from.
type Href struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// Origin describes where a task was created.
type Origin struct {
	// PlatformI18nName is a JSON string such as {"zh_cn":"…","en_us":"…"}.
	PlatformI18nName string `json:"platform_i18n_name"`
	Href             *Href  `json:"href,omitempty"`
}

// Task is the task object used by UpdateTask.
type Task struct {
	ID          string  `json:"id,omitempty"`
	Summary     string  `json:"summary,omitempty"`
	Description string  `json:"description,omitempty"`
	Extra       string  `json:"extra,omitempty"`
	Due         *Due    `json:"due,omitempty"`
	Origin      *Origin `json:"origin,omitempty"`
	CanEdit     *bool   `json:"can_edit,omitempty"`
}

// Collaborators references users attached to a task.
type Collaborators struct {
	ID     string   `json:"id,omitempty"`
	IDList []string `json:"id_list,omitempty"`
}

// Empty reports whether no collaborator is named.
func (c Collaborators) Empty() bool {
	return c.ID == "" && len(c.IDList) == 0
}

// TaskSpec holds the inputs of CreateTask. Zero-valued optional fields are
// left out of the request body.
type TaskSpec struct {
	Summary       string
	Description   string
	Extra         string
	Due           *Due
	Origin        *Origin
	CanEdit       bool
	Collaborators *Collaborators
}

// TaskCreation reports both exchanges of CreateTask.
type TaskCreation struct {
	TaskID       string
	Creation     *Envelope
	Collaborator *Envelope
}

// Last returns the envelope of the last request performed: the
// collaborator attach when one happened, otherwise the creation.
func (t *TaskCreation) Last() *Envelope {
	if t.Collaborator != nil {
		return t.Collaborator
	}
	return t.Creation
}
