package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFilter(t *testing.T) {
	res, err := JSON(`{"test":"123"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"test": "123"}, res.Value)

	res, err = JSON("not json")
	require.NoError(t, err)
	assert.Equal(t, "not json", res.Value)

	res, err = JSON(true)
	require.NoError(t, err)
	assert.Equal(t, true, res.Value)

	res, err = JSON(nil)
	require.NoError(t, err)
	assert.Nil(t, res.Value)
}

func TestJSONAsFilter(t *testing.T) {
	type quote struct {
		Symbol string  `json:"Symbol"`
		Price  float64 `json:"LastPrice"`
	}

	res, err := JSONAs[quote]()(`{"Symbol":"AAPL","LastPrice":101.5}`)
	require.NoError(t, err)
	q, ok := res.Value.(*quote)
	require.True(t, ok)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, 101.5, q.Price)

	res, err = JSONAs[quote]()(`nope`)
	require.NoError(t, err)
	assert.Equal(t, "nope", res.Value)
}

func TestXMLFilter(t *testing.T) {
	res, err := XML(`<root id="7"><child>hi</child></root>`)
	require.NoError(t, err)
	node := res.Value.(*XMLNode)
	v, ok := node.Attr("id")
	assert.True(t, ok)
	assert.Equal(t, "7", v)
	assert.True(t, node.Has("child"))
	assert.False(t, node.Has("missing"))

	res, err = XML("text")
	require.NoError(t, err)
	assert.Equal(t, "text", res.Value)
}

func TestSelectFilter(t *testing.T) {
	res, err := Select(`{"data":{"items":[1,2]}}`, "data.items")
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2)}, res.Value)

	res, err = Select(`{"data":{}}`, "data.items")
	require.NoError(t, err)
	assert.Equal(t, `{"data":{}}`, res.Value)

	res, err = Select(map[string]any{"quote": map[string]any{"Symbol": "AAPL"}}, "quote.Symbol")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", res.Value)

	_, err = Select(`{}`)
	assert.Error(t, err)

	_, err = Select(`{}`, 42)
	assert.Error(t, err)
}

const personSchema = `{
	"type": "object",
	"required": ["id"],
	"properties": {"id": {"type": "integer"}}
}`

func TestSchemaFilter(t *testing.T) {
	res, err := Schema(`{"id":1}`, personSchema)
	require.NoError(t, err)
	assert.Equal(t, ActionContinue, res.Action)

	res, err = Schema(`{"name":"x"}`, personSchema)
	require.NoError(t, err)
	assert.Equal(t, ActionAbort, res.Action)

	res, err = Schema(`not json`, personSchema)
	require.NoError(t, err)
	assert.Equal(t, ActionAbort, res.Action)

	res, err = Schema(map[string]any{"id": 3}, personSchema)
	require.NoError(t, err)
	assert.Equal(t, ActionContinue, res.Action)
}

func TestSchemaFilter_GatesDecodeClassifier(t *testing.T) {
	c := &DecodeClassifier{Marker: DefaultMarker}
	c.Filter(Schema, personSchema).Filter(JSON)

	require.NoError(t, c.Initialize(raw(`{"id":1}`, 200)))
	assert.True(t, c.WasSuccessful())

	require.NoError(t, c.Initialize(raw(`{"id":"one"}`, 200)))
	assert.True(t, c.WasErrored())
}

func TestTrimSpace(t *testing.T) {
	res, err := TrimSpace("  hi \n")
	require.NoError(t, err)
	assert.Equal(t, "hi", res.Value)
}
