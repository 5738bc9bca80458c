package feishu

import "github.com/kart-io/feishukit/pkg/transport"

// Result is the outcome of an unwrapping call: either a value, or absence
// when the platform answered with a non-zero code. Raw always holds the
// envelope the value was taken from.
type Result[T any] struct {
	Value T
	Raw   *transport.Envelope
	ok    bool
}

func present[T any](v T, raw *transport.Envelope) Result[T] {
	return Result[T]{Value: v, Raw: raw, ok: true}
}

func absent[T any](raw *transport.Envelope) Result[T] {
	return Result[T]{Raw: raw}
}

// OK reports whether a value is present.
func (r Result[T]) OK() bool {
	return r.ok
}

// Get returns the value and whether it is present.
func (r Result[T]) Get() (T, bool) {
	return r.Value, r.ok
}

// Code is the envelope code, or -1 when there is no envelope.
func (r Result[T]) Code() int {
	if r.Raw == nil {
		return -1
	}
	return r.Raw.Code
}
