// Package auth supplies Authorization header values for outgoing requests.
package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// Authorizer produces the Authorization header for a request.
type Authorizer interface {
	Authorization(ctx context.Context) (string, error)
}

// BasicAuth is HTTP basic authentication.
type BasicAuth struct {
	Username string
	Password string
}

// Basic returns an Authorizer for HTTP basic authentication.
func Basic(username, password string) *BasicAuth {
	return &BasicAuth{Username: username, Password: password}
}

// ParseUser parses curl style "user:password" credentials. A missing
// password is empty.
func ParseUser(user string) (*BasicAuth, error) {
	name, password, _ := strings.Cut(user, ":")
	if name == "" {
		return nil, fmt.Errorf("invalid credentials %q (expected user:password)", user)
	}
	return Basic(name, password), nil
}

func (b *BasicAuth) Authorization(context.Context) (string, error) {
	encoded := base64.StdEncoding.EncodeToString([]byte(b.Username + ":" + b.Password))
	return "Basic " + encoded, nil
}

// BearerToken is a static bearer token.
type BearerToken string

func (t BearerToken) Authorization(context.Context) (string, error) {
	if t == "" {
		return "", fmt.Errorf("empty bearer token")
	}
	return "Bearer " + string(t), nil
}
