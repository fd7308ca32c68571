// Package oauth2 authorizes requests with tokens from an OAuth2 token endpoint.
package oauth2

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// GrantType represents the OAuth2 grant type
type GrantType string

const (
	// ClientCredentials is the client_credentials grant type
	ClientCredentials GrantType = "client_credentials"
	// Password is the password (resource owner) grant type
	Password GrantType = "password"
)

// ErrNoTokenURL is returned when a provider has nowhere to ask for tokens.
var ErrNoTokenURL = errors.New("oauth2: token URL is required")

// Config holds OAuth2 configuration
type Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	Username     string // For password grant
	Password     string // For password grant
	GrantType    GrantType
}

// Token represents an OAuth2 access token
type Token struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	ExpiresAt    time.Time `json:"-"`
}

// IsExpired checks if the token is expired
func (t *Token) IsExpired() bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	// 30 seconds of clock skew
	return time.Now().Add(30 * time.Second).After(t.ExpiresAt)
}

// Provider handles OAuth2 token acquisition. It is safe for concurrent use;
// callers that find the token expired wait for a single refresh.
type Provider struct {
	config     *Config
	httpClient *http.Client

	mu    sync.Mutex
	token *Token
}

// NewProvider creates a new OAuth2 provider. A nil httpClient gets a client
// with a 30 second timeout.
func NewProvider(config *Config, httpClient *http.Client) (*Provider, error) {
	if config == nil || config.TokenURL == "" {
		return nil, ErrNoTokenURL
	}
	switch config.GrantType {
	case "":
		config.GrantType = ClientCredentials
	case ClientCredentials, Password:
	default:
		return nil, fmt.Errorf("unsupported OAuth2 grant type: %s", config.GrantType)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Provider{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// Authorization returns a bearer header for a valid access token.
func (p *Provider) Authorization(ctx context.Context) (string, error) {
	token, err := p.GetToken(ctx)
	if err != nil {
		return "", err
	}
	tokenType := token.TokenType
	if tokenType == "" || strings.EqualFold(tokenType, "bearer") {
		tokenType = "Bearer"
	}
	return tokenType + " " + token.AccessToken, nil
}

// GetToken retrieves a valid access token, fetching a new one if necessary
func (p *Provider) GetToken(ctx context.Context) (*Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != nil && !p.token.IsExpired() {
		return p.token, nil
	}

	token, err := p.fetchToken(ctx)
	if err != nil {
		p.token = nil
		return nil, err
	}

	p.token = token
	return token, nil
}

// Invalidate drops the cached token so the next call fetches a new one.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	p.token = nil
	p.mu.Unlock()
}

func (p *Provider) fetchToken(ctx context.Context) (*Token, error) {
	data := url.Values{}
	data.Set("grant_type", string(p.config.GrantType))
	if p.config.GrantType == Password {
		data.Set("username", p.config.Username)
		data.Set("password", p.config.Password)
	}
	if len(p.config.Scopes) > 0 {
		data.Set("scope", strings.Join(p.config.Scopes, " "))
	}

	return p.doTokenRequest(ctx, data)
}

func (p *Provider) doTokenRequest(ctx context.Context, data url.Values) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	// client authentication
	if p.config.ClientID != "" && p.config.ClientSecret != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(p.config.ClientID + ":" + p.config.ClientSecret))
		req.Header.Set("Authorization", "Basic "+auth)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return nil, fmt.Errorf("token request failed: %s - %s", errResp.Error, errResp.ErrorDescription)
		}
		return nil, fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var token Token
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response has no access_token")
	}

	if token.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	return &token, nil
}
