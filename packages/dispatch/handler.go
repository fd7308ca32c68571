package dispatch

import (
	"fmt"

	"github.com/abdul-hamid-achik/diplomat/packages/handler"
)

// Callback is an invocable outcome handler. args holds the extra arguments
// bound at registration, with the classifier appended last.
type Callback func(args ...any) (any, error)

type kind int

const (
	kindNone kind = iota
	kindFunc
	kindValue
)

// Handler is either an invocable callback or a literal value.
type Handler struct {
	kind  kind
	fn    Callback
	value any
}

// Func wraps an invocable callback.
func Func(fn Callback) Handler {
	if fn == nil {
		return Handler{}
	}
	return Handler{kind: kindFunc, fn: fn}
}

// Value wraps a literal returned as-is when the slot resolves.
func Value(v any) Handler {
	return Handler{kind: kindValue, value: v}
}

// OnClassifier adapts a callback that only needs the classifier.
func OnClassifier(fn func(c handler.Classifier) (any, error)) Handler {
	return Func(func(args ...any) (any, error) {
		c, err := ClassifierArg(args)
		if err != nil {
			return nil, err
		}
		return fn(c)
	})
}

// IsSet reports whether the handler holds a callback or a value.
func (h Handler) IsSet() bool {
	return h.kind != kindNone
}

// Invocable reports whether the handler is a callback.
func (h Handler) Invocable() bool {
	return h.kind == kindFunc
}

// Resolve calls the callback with extra followed by c, or returns the literal.
func (h Handler) Resolve(c handler.Classifier, extra []any) (any, error) {
	switch h.kind {
	case kindFunc:
		args := make([]any, 0, len(extra)+1)
		args = append(args, extra...)
		args = append(args, c)
		return h.fn(args...)
	case kindValue:
		return h.value, nil
	default:
		return nil, fmt.Errorf("dispatch: resolving an empty handler")
	}
}

// ClassifierArg returns the classifier a Callback received as its last argument.
func ClassifierArg(args []any) (handler.Classifier, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("dispatch: callback received no arguments")
	}
	c, ok := args[len(args)-1].(handler.Classifier)
	if !ok {
		return nil, fmt.Errorf("dispatch: last argument is %T, not a classifier", args[len(args)-1])
	}
	return c, nil
}
