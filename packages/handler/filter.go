package handler

// Action tells the chain driver what to do after a filter ran.
type Action int

const (
	ActionContinue Action = iota
	ActionSkip
	ActionAbort
)

func (a Action) String() string {
	switch a {
	case ActionContinue:
		return "continue"
	case ActionSkip:
		return "skip"
	case ActionAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single filter step.
type Result struct {
	Action Action
	Value  any
	Count  int
}

// Continue replaces the current value with v.
func Continue(v any) Result {
	return Result{Action: ActionContinue, Value: v}
}

// SkipNext leaves the current value untouched and skips the next n filters.
func SkipNext(n int) Result {
	return Result{Action: ActionSkip, Count: n}
}

// Abort leaves the current value untouched and stops the chain.
func Abort() Result {
	return Result{Action: ActionAbort}
}

// FilterFunc transforms a response value. args are the values bound when the
// filter was registered. A non-nil error is fatal to the request cycle.
type FilterFunc func(value any, args ...any) (Result, error)

// Map adapts a plain transformation into a FilterFunc that always continues.
func Map(fn func(value any, args ...any) any) FilterFunc {
	return func(value any, args ...any) (Result, error) {
		return Continue(fn(value, args...)), nil
	}
}

// Filter is a registered filter together with its bound arguments.
type Filter struct {
	Func FilterFunc
	Args []any
}

// RunFilters applies filters to raw in registration order and returns the
// final value.
func RunFilters(raw any, filters []Filter) (any, error) {
	current := raw
	skip := 0

	for i, f := range filters {
		if skip > 0 {
			skip--
			continue
		}

		res, err := f.Func(current, f.Args...)
		if err != nil {
			return current, &FilterError{Index: i, Err: err}
		}

		switch res.Action {
		case ActionContinue:
			current = res.Value
		case ActionSkip:
			if res.Count > 0 {
				skip = res.Count
			}
		case ActionAbort:
			return current, nil
		}
	}

	return current, nil
}
