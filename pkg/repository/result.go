package repository

import "fmt"

// MessageEntityNotFound is the failure message every lookup of a missing
// row reports, regardless of entity type.
const MessageEntityNotFound = "Entity not found"

// Result is the outcome of a store operation. Storage faults never escape
// this layer as errors; they land here as Success=false with the underlying
// driver text in Message.
type Result[T any] struct {
	Success bool
	Message string
	Data    T
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// OkEmpty reports success without a payload, e.g. after a delete.
func OkEmpty[T any]() Result[T] {
	return Result[T]{Success: true}
}

func Fail[T any](message string) Result[T] {
	return Result[T]{Message: message}
}

func Failf[T any](format string, args ...any) Result[T] {
	return Result[T]{Message: fmt.Sprintf(format, args...)}
}

// NotFound reports whether the result is the missing-row failure.
func (r Result[T]) NotFound() bool {
	return !r.Success && r.Message == MessageEntityNotFound
}
