package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/diplomat/packages/http"
)

func TestParseHeaders(t *testing.T) {
	headers, err := parseHeaders([]string{"Accept: application/json", "X-Empty:", "X-Colon: a:b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Accept":  "application/json",
		"X-Empty": "",
		"X-Colon": "a:b",
	}, headers)

	_, err = parseHeaders([]string{"no colon"})
	assert.Error(t, err)
	_, err = parseHeaders([]string{": value"})
	assert.Error(t, err)
}

func TestParseData(t *testing.T) {
	data, err := parseData([]string{
		"q=go",
		"user[name]=ada",
		"user[langs][]=go",
		"user[langs][]=c",
		"tag=a",
		"tag=b",
		"empty=",
	})
	require.NoError(t, err)
	assert.Equal(t, http.Values{
		"q": "go",
		"user": map[string]any{
			"name":  "ada",
			"langs": []any{"go", "c"},
		},
		"tag":   []any{"a", "b"},
		"empty": "",
	}, data)

	assert.Equal(t,
		"empty=&q=go&tag%5B0%5D=a&tag%5B1%5D=b&user%5Blangs%5D%5B0%5D=go&user%5Blangs%5D%5B1%5D=c&user%5Bname%5D=ada",
		data.Encode())
}

func TestParseData_Invalid(t *testing.T) {
	for _, arg := range []string{
		"novalue",
		"=x",
		"[a]=x",
		"a[b=x",
		"a[b]c=x",
		"a[][b]=x",
	} {
		_, err := parseData([]string{arg})
		assert.Error(t, err, arg)
	}

	_, err := parseData([]string{"a=x", "a[b]=y"})
	assert.Error(t, err)
	_, err = parseData([]string{"a[b]=y", "a=x"})
	assert.Error(t, err)
}

func TestParseFiles(t *testing.T) {
	files, err := parseFiles([]string{
		"avatar=@me.png;type=image/png;filename=avatar.png",
		"doc=@notes.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, http.Files{
		"avatar": {Path: "me.png", MimeType: "image/png", PostName: "avatar.png"},
		"doc":    {Path: "notes.txt"},
	}, files)

	for _, arg := range []string{"avatar=me.png", "=@x", "a=@", "a=@x;size=3"} {
		_, err := parseFiles([]string{arg})
		assert.Error(t, err, arg)
	}
}

func TestParseTimeout(t *testing.T) {
	d, err := parseTimeout("1500ms")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), d.Milliseconds())

	_, err = parseTimeout("soon")
	assert.Error(t, err)
	_, err = parseTimeout("0s")
	assert.Error(t, err)
}
