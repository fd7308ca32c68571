package dispatch

import (
	"github.com/abdul-hamid-achik/diplomat/packages/handler"
)

// Slot names which registration resolved a dispatch.
type Slot int

const (
	SlotNone Slot = iota
	SlotSelf
	SlotError
	SlotFailure
	SlotSuccess
	SlotAny
)

func (s Slot) String() string {
	switch s {
	case SlotSelf:
		return "self"
	case SlotError:
		return "error"
	case SlotFailure:
		return "failure"
	case SlotSuccess:
		return "success"
	case SlotAny:
		return "any"
	default:
		return "none"
	}
}

type registration struct {
	handler Handler
	extra   []any
}

func (r registration) set() bool {
	return r.handler.IsSet()
}

// Registry holds the outcome registrations of one client. It is not safe for
// concurrent use.
type Registry struct {
	anySlot registration
	errSlot registration
	failed  registration
	success registration
	reset   bool
}

// NewRegistry returns an empty registry that resets after each dispatch.
func NewRegistry() *Registry {
	return &Registry{reset: true}
}

func (r *Registry) OnAny(h Handler, extra ...any) *Registry {
	r.anySlot = registration{handler: h, extra: extra}
	return r
}

func (r *Registry) OnError(h Handler, extra ...any) *Registry {
	r.errSlot = registration{handler: h, extra: extra}
	return r
}

func (r *Registry) OnFailure(h Handler, extra ...any) *Registry {
	r.failed = registration{handler: h, extra: extra}
	return r
}

func (r *Registry) OnSuccess(h Handler, extra ...any) *Registry {
	r.success = registration{handler: h, extra: extra}
	return r
}

// ResetAfterDispatch controls whether a resolved registration clears all
// slots. Enabled by default.
func (r *Registry) ResetAfterDispatch(reset bool) *Registry {
	r.reset = reset
	return r
}

// Resets reports whether slots are cleared after a dispatch.
func (r *Registry) Resets() bool {
	return r.reset
}

// Reset clears all four slots.
func (r *Registry) Reset() {
	r.anySlot = registration{}
	r.errSlot = registration{}
	r.failed = registration{}
	r.success = registration{}
}

// Empty reports whether no slot is set.
func (r *Registry) Empty() bool {
	return !r.anySlot.set() && !r.errSlot.set() && !r.failed.set() && !r.success.set()
}

// Decision is the result of a dispatch.
type Decision struct {
	Slot   Slot
	Result any
}

// Dispatched reports whether a handler was resolved.
func (d Decision) Dispatched() bool {
	return d.Slot != SlotNone
}

// Dispatch resolves at most one handler for c. When nothing applies the
// returned Decision has SlotNone and the registry is left untouched.
// Errors returned by callbacks and self-handling methods propagate as-is.
func (r *Registry) Dispatch(c handler.Classifier) (Decision, error) {
	if sh, ok := c.(handler.SelfHandling); ok {
		if d, ok, err := dispatchSelf(c, sh); ok {
			return d, err
		}
	}

	var (
		slot Slot
		reg  registration
	)
	switch {
	case r.errSlot.set() && c.WasErrored():
		slot, reg = SlotError, r.errSlot
	case r.failed.set() && c.WasFailed():
		slot, reg = SlotFailure, r.failed
	case r.success.set() && c.WasSuccessful():
		slot, reg = SlotSuccess, r.success
	case r.anySlot.set():
		slot, reg = SlotAny, r.anySlot
	default:
		return Decision{Slot: SlotNone}, nil
	}

	if r.reset {
		r.Reset()
	}

	result, err := reg.handler.Resolve(c, reg.extra)
	return Decision{Slot: slot, Result: result}, err
}

func dispatchSelf(c handler.Classifier, sh handler.SelfHandling) (Decision, bool, error) {
	var (
		result any
		err    error
	)
	switch {
	case c.WasErrored():
		result, err = sh.OnError()
	case c.WasFailed():
		result, err = sh.OnFailure()
	case c.WasSuccessful():
		result, err = sh.OnSuccess()
	default:
		return Decision{}, false, nil
	}
	return Decision{Slot: SlotSelf, Result: result}, true, err
}
