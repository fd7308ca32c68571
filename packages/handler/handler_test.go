package handler

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textClassifier labels responses by the filtered body itself.
type textClassifier struct {
	State
}

func (c *textClassifier) WasErrored() bool {
	return c.FilteredResponse() == "Error"
}

func (c *textClassifier) WasFailed() bool {
	return c.FilteredResponse() == "Failed"
}

func (c *textClassifier) WasSuccessful() bool {
	return !c.WasErrored() && !c.WasFailed()
}

func raw(body string, code int) Raw {
	return Raw{Body: body, StatusCode: code}
}

func increment(value any, _ ...any) any {
	n, _ := strconv.Atoi(value.(string))
	return strconv.Itoa(n + 1)
}

func assertExclusive(t *testing.T, c Classifier) {
	t.Helper()
	count := 0
	for _, b := range []bool{c.WasErrored(), c.WasFailed(), c.WasSuccessful()} {
		if b {
			count++
		}
	}
	assert.LessOrEqual(t, count, 1, "more than one outcome reported")
}

func TestTextClassifier_Outcomes(t *testing.T) {
	tests := []struct {
		body    string
		code    int
		outcome Outcome
	}{
		{"Error", 500, OutcomeErrored},
		{"Failed", 422, OutcomeFailed},
		{"Successful", 200, OutcomeSuccessful},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			c := &textClassifier{}
			require.NoError(t, c.Initialize(raw(tt.body, tt.code)))
			assert.Equal(t, tt.outcome, Classify(c))
			assertExclusive(t, c)
		})
	}
}

func TestInitialize_EmptyChainKeepsRaw(t *testing.T) {
	c := &textClassifier{}
	require.NoError(t, c.Initialize(raw("payload", 200)))

	assert.Equal(t, "payload", c.RawResponse())
	assert.Equal(t, "payload", c.FilteredResponse())
	assert.True(t, c.Untouched())
}

func TestInitialize_FilterManipulatesRaw(t *testing.T) {
	c := &textClassifier{}
	c.Filter(Map(func(v any, _ ...any) any { return v.(string) + "Received" }))

	require.NoError(t, c.Initialize(raw("Successful", 200)))
	assert.Equal(t, "Successful", c.RawResponse())
	assert.Equal(t, "SuccessfulReceived", c.FilteredResponse())
}

func TestInitialize_ChainOrder(t *testing.T) {
	c := &textClassifier{}
	c.Filter(Map(func(v any, _ ...any) any { return v.(string) + "A" })).
		Filter(Map(func(v any, _ ...any) any { return "B" + v.(string) }))

	require.NoError(t, c.Initialize(raw("Successful", 200)))
	assert.Equal(t, "BSuccessfulA", c.FilteredResponse())
}

func TestInitialize_ChainChangesType(t *testing.T) {
	c := &textClassifier{}
	c.Filter(Map(func(v any, _ ...any) any { return []string{v.(string)} })).
		Filter(Map(func(v any, _ ...any) any { return append(v.([]string), "Response") }))

	require.NoError(t, c.Initialize(raw("Successful", 200)))
	assert.Equal(t, []string{"Successful", "Response"}, c.FilteredResponse())
}

func TestInitialize_BoundArgs(t *testing.T) {
	c := &textClassifier{}
	c.Filter(Map(func(v any, args ...any) any {
		return args[0].(string) + v.(string) + args[1].(string)
	}), "<", ">")

	require.NoError(t, c.Initialize(raw("x", 200)))
	assert.Equal(t, "<x>", c.FilteredResponse())
}

func TestInitialize_Abort(t *testing.T) {
	c := &textClassifier{}
	c.Filter(func(any, ...any) (Result, error) { return Abort(), nil }).
		Filter(Map(func(any, ...any) any { return "Error" }))

	require.NoError(t, c.Initialize(raw("Successful", 200)))
	assert.True(t, c.WasSuccessful())
	assert.Equal(t, "Successful", c.FilteredResponse())
}

func TestInitialize_SkipNext(t *testing.T) {
	c := &textClassifier{}
	c.Filter(Map(increment)).
		Filter(func(any, ...any) (Result, error) { return SkipNext(2), nil }).
		Filter(Map(increment)).
		Filter(Map(increment)).
		Filter(Map(increment))

	require.NoError(t, c.Initialize(raw("1", 200)))
	assert.Equal(t, "3", c.FilteredResponse())
}

func TestInitialize_SkipPastEnd(t *testing.T) {
	c := &textClassifier{}
	c.Filter(func(any, ...any) (Result, error) { return SkipNext(10), nil }).
		Filter(Map(increment))

	require.NoError(t, c.Initialize(raw("1", 200)))
	assert.Equal(t, "1", c.FilteredResponse())
}

func TestInitialize_FilterFaultPropagates(t *testing.T) {
	boom := errors.New("boom")
	ran := false

	c := &textClassifier{}
	c.Filter(Map(increment)).
		Filter(func(any, ...any) (Result, error) { return Result{}, boom }).
		Filter(Map(func(v any, _ ...any) any { ran = true; return v }))

	err := c.Initialize(raw("1", 200))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var fe *FilterError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 1, fe.Index)
	assert.False(t, ran)
	assert.Equal(t, "2", c.FilteredResponse())
}

func TestInitialize_ResetsBetweenCycles(t *testing.T) {
	c := &textClassifier{}
	c.Filter(Map(increment))

	require.NoError(t, c.Initialize(Raw{
		Body:       "1",
		StatusCode: 200,
		Headers:    map[string]string{"X-First": "yes"},
	}))
	assert.Equal(t, "2", c.FilteredResponse())

	require.NoError(t, c.Initialize(raw("10", 201)))
	assert.Equal(t, "10", c.RawResponse())
	assert.Equal(t, "11", c.FilteredResponse())
	assert.Equal(t, 201, c.Code())
	assert.Empty(t, c.Headers())
}

func TestState_Accessors(t *testing.T) {
	c := NewStatus()
	require.NoError(t, c.Initialize(Raw{
		Body:       "ok",
		Proto:      "HTTP/1.1 200 OK",
		Headers:    map[string]string{"Content-Type": "text/plain"},
		StatusCode: 200,
		Info:       Info{Method: "GET", URL: "https://example.com/"},
		Call:       `curl "https://example.com/"`,
	}))

	assert.Equal(t, "HTTP/1.1 200 OK", c.Proto())
	assert.Equal(t, "text/plain", c.Header("content-type"))
	assert.Equal(t, "", c.Header("X-Missing"))
	assert.Equal(t, "GET", c.Info().Method)
	assert.Equal(t, `curl "https://example.com/"`, c.Call())
}

func TestResultConstructors(t *testing.T) {
	assert.Equal(t, Result{Action: ActionContinue, Value: 1}, Continue(1))
	assert.Equal(t, Result{Action: ActionSkip, Count: 3}, SkipNext(3))
	assert.Equal(t, Result{Action: ActionAbort}, Abort())
	assert.Equal(t, "skip", ActionSkip.String())
}
