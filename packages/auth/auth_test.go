package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasic(t *testing.T) {
	got, err := Basic("ada", "s3cret").Authorization(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Basic YWRhOnMzY3JldA==", got)
}

func TestParseUser(t *testing.T) {
	b, err := ParseUser("ada:pa:ss")
	require.NoError(t, err)
	assert.Equal(t, "ada", b.Username)
	assert.Equal(t, "pa:ss", b.Password)

	b, err = ParseUser("ada")
	require.NoError(t, err)
	assert.Empty(t, b.Password)

	_, err = ParseUser(":x")
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	got, err := BearerToken("abc").Authorization(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", got)

	_, err = BearerToken("").Authorization(context.Background())
	assert.Error(t, err)
}
