package truntime

import (
	"errors"
	"fmt"
)

// ErrLoopBreak is the signal a break expression produces. Only for and while
// intercept it; anything else passes it up unchanged.
var ErrLoopBreak = errors.New("break")

type UnboundNameError struct {
	Kind string // variable, function or type
	Name string
}

func (e *UnboundNameError) Error() string {
	return fmt.Sprintf("unbound %s %s", e.Kind, e.Name)
}

type TypeMismatchError struct {
	Context string
	Want    string
	Got     string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch in %s: want %s, got %s", e.Context, e.Want, e.Got)
}

type ArityMismatchError struct {
	Func string
	Want int
	Got  int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("function %s takes %d argument(s), got %d", e.Func, e.Want, e.Got)
}

type IndexOutOfBoundsError struct {
	Index int64
	Len   int
}

func (e *IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}

type UnknownFieldError struct {
	Type  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("type %s has no field %s", e.Type, e.Field)
}

type BreakOutsideLoopError struct{}

func (e *BreakOutsideLoopError) Error() string {
	return "break outside loop"
}

type DivisionByZeroError struct{}

func (e *DivisionByZeroError) Error() string {
	return "division by zero"
}

// RuntimeError covers the remaining failures: nil record access, negative
// array sizes, call depth exhaustion.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string {
	return e.Msg
}

func runtimeErrorf(format string, args ...any) error {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...)}
}
