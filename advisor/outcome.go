package advisor

import "fmt"

// Outcome is the tagged envelope every core operation returns. There is no
// partial or successful-with-warnings state: a call either fully succeeds,
// possibly with many silently-repaired fields, or fails with a reason.
type Outcome[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Succeed wraps a normalized result in a success envelope.
func Succeed[T any](data T) Outcome[T] {
	return Outcome[T]{Success: true, Data: data}
}

// Fail builds a failure envelope from a printf-style reason.
func Fail[T any](format string, args ...any) Outcome[T] {
	return Outcome[T]{Success: false, Error: fmt.Sprintf(format, args...)}
}
