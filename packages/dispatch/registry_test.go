package dispatch

import (
	"errors"
	"testing"

	"github.com/abdul-hamid-achik/diplomat/packages/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bodyClassifier labels responses by their body: "Error", "Failed" or anything else.
type bodyClassifier struct {
	handler.State
}

func (c *bodyClassifier) WasErrored() bool    { return c.RawResponse() == "Error" }
func (c *bodyClassifier) WasFailed() bool     { return c.RawResponse() == "Failed" }
func (c *bodyClassifier) WasSuccessful() bool { return !c.WasErrored() && !c.WasFailed() }

type selfHandler struct {
	bodyClassifier
}

func (s *selfHandler) OnError() (any, error)   { return "WasErrored", nil }
func (s *selfHandler) OnFailure() (any, error) { return "WasFailed", nil }
func (s *selfHandler) OnSuccess() (any, error) { return "WasSuccessful", nil }

func classified(t *testing.T, c handler.Classifier, body string) handler.Classifier {
	t.Helper()
	require.NoError(t, c.Initialize(handler.Raw{Body: body, StatusCode: 200}))
	return c
}

func registerAll(r *Registry) *Registry {
	return r.OnError(Value("E")).OnFailure(Value("F")).OnSuccess(Value("S")).OnAny(Value("A"))
}

func TestDispatch_SpecificSlots(t *testing.T) {
	tests := []struct {
		body string
		want any
		slot Slot
	}{
		{"Error", "E", SlotError},
		{"Failed", "F", SlotFailure},
		{"Successful", "S", SlotSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			r := registerAll(NewRegistry())
			d, err := r.Dispatch(classified(t, &bodyClassifier{}, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.slot, d.Slot)
			assert.Equal(t, tt.want, d.Result)
		})
	}
}

func TestDispatch_AnyIsFallback(t *testing.T) {
	r := NewRegistry().OnSuccess(Value("S")).OnAny(Value("A"))
	d, err := r.Dispatch(classified(t, &bodyClassifier{}, "Successful"))
	require.NoError(t, err)
	assert.Equal(t, "S", d.Result)

	r = NewRegistry().OnAny(Value("A")).OnSuccess(Value("S"))
	d, err = r.Dispatch(classified(t, &bodyClassifier{}, "Error"))
	require.NoError(t, err)
	assert.Equal(t, SlotAny, d.Slot)
	assert.Equal(t, "A", d.Result)
}

func TestDispatch_OnlyAny(t *testing.T) {
	for _, body := range []string{"Error", "Failed", "Successful"} {
		r := NewRegistry().OnAny(Value("A"))
		d, err := r.Dispatch(classified(t, &bodyClassifier{}, body))
		require.NoError(t, err)
		assert.Equal(t, "A", d.Result, body)
	}
}

func TestDispatch_NothingApplies(t *testing.T) {
	r := NewRegistry().OnSuccess(Value("S"))
	d, err := r.Dispatch(classified(t, &bodyClassifier{}, "Error"))
	require.NoError(t, err)
	assert.False(t, d.Dispatched())
	assert.Nil(t, d.Result)
	assert.False(t, r.Empty(), "fallthrough must not reset")
}

func TestDispatch_LastWriterWins(t *testing.T) {
	r := NewRegistry().OnSuccess(Value("first")).OnSuccess(Value("second"))
	d, err := r.Dispatch(classified(t, &bodyClassifier{}, "ok"))
	require.NoError(t, err)
	assert.Equal(t, "second", d.Result)
}

func TestDispatch_ArgumentOrder(t *testing.T) {
	c := classified(t, &bodyClassifier{}, "ok")

	var got []any
	r := NewRegistry().OnSuccess(Func(func(args ...any) (any, error) {
		got = args
		return "done", nil
	}), "extra1", 2)

	d, err := r.Dispatch(c)
	require.NoError(t, err)
	assert.Equal(t, "done", d.Result)
	require.Len(t, got, 3)
	assert.Equal(t, "extra1", got[0])
	assert.Equal(t, 2, got[1])
	assert.Same(t, c, got[2])
}

func TestDispatch_OnClassifier(t *testing.T) {
	r := NewRegistry().OnFailure(OnClassifier(func(c handler.Classifier) (any, error) {
		return c.RawResponse()[:1], nil
	}), "ignored")

	d, err := r.Dispatch(classified(t, &bodyClassifier{}, "Failed"))
	require.NoError(t, err)
	assert.Equal(t, "F", d.Result)
}

func TestDispatch_CallbackErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry().OnError(Func(func(...any) (any, error) { return nil, boom }))

	d, err := r.Dispatch(classified(t, &bodyClassifier{}, "Error"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, SlotError, d.Slot)
}

func TestDispatch_ResetAfterDispatch(t *testing.T) {
	r := registerAll(NewRegistry())
	c := classified(t, &bodyClassifier{}, "ok")

	d, err := r.Dispatch(c)
	require.NoError(t, err)
	assert.Equal(t, "S", d.Result)
	assert.True(t, r.Empty())

	d, err = r.Dispatch(c)
	require.NoError(t, err)
	assert.False(t, d.Dispatched())
}

func TestDispatch_KeepRegistrations(t *testing.T) {
	r := registerAll(NewRegistry()).ResetAfterDispatch(false)
	c := classified(t, &bodyClassifier{}, "ok")

	for i := 0; i < 3; i++ {
		d, err := r.Dispatch(c)
		require.NoError(t, err)
		assert.Equal(t, "S", d.Result)
	}
	assert.False(t, r.Resets())
}

func TestDispatch_SelfHandlingBypassesSlots(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"Error", "WasErrored"},
		{"Failed", "WasFailed"},
		{"Successful", "WasSuccessful"},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			r := registerAll(NewRegistry())
			d, err := r.Dispatch(classified(t, &selfHandler{}, tt.body))
			require.NoError(t, err)
			assert.Equal(t, SlotSelf, d.Slot)
			assert.Equal(t, tt.want, d.Result)
			assert.False(t, r.Empty(), "self handling must not consume registrations")
		})
	}
}

func TestHandler_Variants(t *testing.T) {
	assert.False(t, Handler{}.IsSet())
	assert.False(t, Func(nil).IsSet())
	assert.True(t, Value(nil).IsSet())
	assert.False(t, Value("x").Invocable())
	assert.True(t, Func(func(...any) (any, error) { return nil, nil }).Invocable())

	_, err := Handler{}.Resolve(nil, nil)
	assert.Error(t, err)
}

func TestClassifierArg(t *testing.T) {
	_, err := ClassifierArg(nil)
	assert.Error(t, err)

	_, err = ClassifierArg([]any{"not a classifier"})
	assert.Error(t, err)

	c := &bodyClassifier{}
	got, err := ClassifierArg([]any{1, c})
	require.NoError(t, err)
	assert.Same(t, c, got)
}
