package btcore

import (
	"errors"
	"fmt"
)

// Expected holds either a value or an error. It is returned where a failure
// depends on data rather than on the program, so callers must look at it:
//
//	res := info.ParseString(attr)
//	if !res.HasValue() {
//		return fmt.Errorf("port %s: %s", name, res.Message())
//	}
//	use(res.Value())
//
// The zero Expected holds the zero value of T.
type Expected[T any] struct {
	value T
	err   error
}

// Result is an Expected for operations with nothing to return.
type Result = Expected[struct{}]

// Ok returns an Expected holding v.
func Ok[T any](v T) Expected[T] { return Expected[T]{value: v} }

// Unexpected returns an Expected holding the error message msg.
func Unexpected[T any](msg string) Expected[T] {
	return Expected[T]{err: errors.New(msg)}
}

// Errorf is Unexpected with formatting; %w is supported.
func Errorf[T any](format string, args ...any) Expected[T] {
	return Expected[T]{err: fmt.Errorf(format, args...)}
}

// FromPair converts a conventional (value, error) pair.
func FromPair[T any](v T, err error) Expected[T] {
	if err != nil {
		return Expected[T]{err: err}
	}
	return Expected[T]{value: v}
}

// OK returns a successful Result.
func OK() Result { return Result{} }

// Failed returns a failed Result with a formatted message.
func Failed(format string, args ...any) Result { return Errorf[struct{}](format, args...) }

// HasValue reports success.
func (e Expected[T]) HasValue() bool { return e.err == nil }

// Value returns the held value. It panics with a *LogicError if e holds an
// error.
func (e Expected[T]) Value() T {
	if e.err != nil {
		panic(&LogicError{Msg: "btcore: Value called on a failed Expected: " + e.err.Error(), Err: e.err})
	}
	return e.value
}

// ValueOr returns the held value, or def if e holds an error.
func (e Expected[T]) ValueOr(def T) T {
	if e.err != nil {
		return def
	}
	return e.value
}

// Message returns the error message, or "" on success.
func (e Expected[T]) Message() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

// Err returns the error, or nil on success.
func (e Expected[T]) Err() error { return e.err }

// Unwrap returns the conventional (value, error) pair.
func (e Expected[T]) Unwrap() (T, error) { return e.value, e.err }
