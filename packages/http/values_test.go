package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValues_Flatten(t *testing.T) {
	v := Values{
		"name":   "diplomat",
		"active": true,
		"count":  3,
		"skip":   nil,
		"user": map[string]any{
			"email": "a@b.c",
			"roles": []string{"admin", "dev"},
		},
		"tags": []any{"x", map[string]any{"deep": 1}},
	}

	flat := v.Flatten()
	assert.Equal(t, "diplomat", flat.Get("name"))
	assert.Equal(t, "1", flat.Get("active"))
	assert.Equal(t, "3", flat.Get("count"))
	assert.Equal(t, "a@b.c", flat.Get("user[email]"))
	assert.Equal(t, "admin", flat.Get("user[roles][0]"))
	assert.Equal(t, "dev", flat.Get("user[roles][1]"))
	assert.Equal(t, "x", flat.Get("tags[0]"))
	assert.Equal(t, "1", flat.Get("tags[1][deep]"))
	assert.NotContains(t, flat, "skip")
}

func TestValues_EncodeAndFields(t *testing.T) {
	v := Values{"b": "2", "a": "1"}
	assert.Equal(t, "a=1&b=2", v.Encode())
	assert.Equal(t, []Field{{"a", "1"}, {"b", "2"}}, v.Fields())

	var empty Values
	assert.Equal(t, "", empty.Encode())
	assert.Empty(t, empty.Fields())
}
