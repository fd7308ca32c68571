package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDestination(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "https://example.com"},
		{"example.com:8080", "https://example.com:8080"},
		{"example.com:8080/api/v1", "https://example.com:8080/api/v1"},
		{"http://localhost:8888", "http://localhost:8888"},
		{"https://example.com/api/", "https://example.com/api"},
		{"  example.com  ", "https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDestination(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDestination_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "/just/a/path", "ftp://example.com", "https://"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDestination(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDestination)
		})
	}
}

func TestJoinPage(t *testing.T) {
	assert.Equal(t, "https://x.io/a", joinPage("https://x.io", "/a"))
	assert.Equal(t, "https://x.io/a", joinPage("https://x.io", "a"))
	assert.Equal(t, "https://x.io", joinPage("https://x.io", ""))
	assert.Equal(t, "https://x.io?q=1", joinPage("https://x.io", "?q=1"))
}
