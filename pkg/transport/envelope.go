// Package transport defines the contract between the Feishu façade and the
// authenticated HTTP layer, and the wire envelope every response shares.
package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/url"

	"github.com/kart-io/feishukit/pkg/errors"
)

// APIPrefix is prepended to every request path.
const APIPrefix = "/open-apis"

// Envelope is the {code, msg, data, ...} wrapper all API responses share.
// Code 0 means success; anything else is an application failure.
type Envelope struct {
	Code      int             `json:"code"`
	Msg       string          `json:"msg,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	HasMore   bool            `json:"has_more,omitempty"`
	PageToken string          `json:"page_token,omitempty"`
}

// OK reports whether the envelope signals success.
func (e *Envelope) OK() bool {
	return e != nil && e.Code == 0
}

// Decode unmarshals data into v.
func (e *Envelope) Decode(v any) error {
	if e == nil || len(e.Data) == 0 || string(e.Data) == "null" {
		return errors.New(errors.ErrMalformedEnvelope, "envelope has no data")
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return errors.Wrap(err, errors.ErrMalformedEnvelope, "decode envelope data")
	}
	return nil
}

// Page returns the cursor of a paginated response. The top-level fields win;
// otherwise data.has_more and data.page_token are consulted.
func (e *Envelope) Page() (hasMore bool, pageToken string) {
	if e == nil {
		return false, ""
	}
	if e.HasMore || e.PageToken != "" {
		return e.HasMore, e.PageToken
	}
	var inner struct {
		HasMore   bool   `json:"has_more"`
		PageToken string `json:"page_token"`
	}
	if len(e.Data) > 0 && json.Unmarshal(e.Data, &inner) == nil {
		return inner.HasMore, inner.PageToken
	}
	return false, ""
}

// Request describes one HTTP exchange.
type Request struct {
	// Operation names the call for logs and spans, e.g. "im.messages.create".
	Operation string
	Method    string
	// Path is relative to APIPrefix, e.g. "/im/v1/chats".
	Path    string
	Params  url.Values
	Body    any
	Headers map[string]string
}

// Requester performs authenticated requests and returns the parsed envelope.
// Transport failures are returned as errors; application failures come back
// as envelopes with a non-zero code.
type Requester interface {
	Request(ctx context.Context, req *Request) (*Envelope, error)
}

// RequesterFunc adapts a function to Requester.
type RequesterFunc func(ctx context.Context, req *Request) (*Envelope, error)

// Request calls f.
func (f RequesterFunc) Request(ctx context.Context, req *Request) (*Envelope, error) {
	return f(ctx, req)
}

// Form is a multipart body. Encoding is left to the Requester.
type Form struct {
	Fields []FormField
	Files  []FormFile
}

// FormField is a plain multipart value.
type FormField struct {
	Name  string
	Value string
}

// FormFile is a multipart file part read from Reader.
type FormFile struct {
	Name   string
	Reader io.Reader
}

// NewForm creates an empty multipart body.
func NewForm() *Form {
	return &Form{}
}

// AddField appends a plain field.
func (f *Form) AddField(name, value string) *Form {
	f.Fields = append(f.Fields, FormField{Name: name, Value: value})
	return f
}

// AddFile appends a file part.
func (f *Form) AddFile(name string, r io.Reader) *Form {
	f.Files = append(f.Files, FormFile{Name: name, Reader: r})
	return f
}

// Field returns the value of the first field called name.
func (f *Form) Field(name string) (string, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}
