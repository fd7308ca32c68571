package oauth2

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if !assert.NoError(t, r.ParseForm()) {
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid_client","error_description":"bad credentials"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.PostForm.Get("grant_type") {
		case "client_credentials":
			w.Write([]byte(`{"access_token":"cc-token","token_type":"bearer","expires_in":3600,"scope":"` + r.PostForm.Get("scope") + `"}`))
		case "password":
			w.Write([]byte(`{"access_token":"pw-` + r.PostForm.Get("username") + `","token_type":"Bearer"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProvider_ClientCredentials(t *testing.T) {
	var calls int32
	srv := tokenServer(t, &calls)

	p, err := NewProvider(&Config{
		TokenURL:     srv.URL,
		ClientID:     "client",
		ClientSecret: "secret",
		Scopes:       []string{"read", "write"},
	}, nil)
	require.NoError(t, err)

	token, err := p.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cc-token", token.AccessToken)
	assert.Equal(t, "read write", token.Scope)
	assert.False(t, token.IsExpired())

	header, err := p.Authorization(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer cc-token", header)

	// the second call is served from the cache
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	p.Invalidate()
	_, err = p.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestProvider_Password(t *testing.T) {
	var calls int32
	srv := tokenServer(t, &calls)

	p, err := NewProvider(&Config{
		TokenURL:     srv.URL,
		ClientID:     "client",
		ClientSecret: "secret",
		GrantType:    Password,
		Username:     "ada",
		Password:     "pw",
	}, srv.Client())
	require.NoError(t, err)

	header, err := p.Authorization(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer pw-ada", header)
}

func TestProvider_Errors(t *testing.T) {
	var calls int32
	srv := tokenServer(t, &calls)

	p, err := NewProvider(&Config{TokenURL: srv.URL, ClientID: "client", ClientSecret: "wrong"}, nil)
	require.NoError(t, err)
	_, err = p.GetToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_client - bad credentials")

	_, err = NewProvider(&Config{}, nil)
	assert.ErrorIs(t, err, ErrNoTokenURL)

	_, err = NewProvider(&Config{TokenURL: srv.URL, GrantType: "implicit"}, nil)
	assert.Error(t, err)
}

func TestToken_IsExpired(t *testing.T) {
	assert.False(t, (&Token{}).IsExpired())
	assert.True(t, (&Token{ExpiresAt: time.Now().Add(10 * time.Second)}).IsExpired())
	assert.False(t, (&Token{ExpiresAt: time.Now().Add(time.Hour)}).IsExpired())
}
