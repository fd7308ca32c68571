package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/diplomat/packages/auth"
	"github.com/abdul-hamid-achik/diplomat/packages/auth/oauth2"
	"github.com/abdul-hamid-achik/diplomat/packages/handler"
	"github.com/abdul-hamid-achik/diplomat/packages/http"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DIPLOMAT_"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the diplomat configuration
type Config struct {
	Destination   string            `json:"destination,omitempty" yaml:"destination,omitempty" env:"DESTINATION"`
	Classifier    string            `json:"classifier,omitempty" yaml:"classifier,omitempty" env:"CLASSIFIER"`
	Marker        string            `json:"marker,omitempty" yaml:"marker,omitempty" env:"MARKER"`
	Timeout       int               `json:"timeout,omitempty" yaml:"timeout,omitempty" env:"TIMEOUT"` // milliseconds
	Insecure      *bool             `json:"insecure,omitempty" yaml:"insecure,omitempty" env:"INSECURE"`
	UserAgent     string            `json:"userAgent,omitempty" yaml:"userAgent,omitempty" env:"USER_AGENT"`
	Headers       map[string]string `json:"headers,omitempty" yaml:"headers,omitempty" env:"HEADERS"`
	ResetHandlers *bool             `json:"resetHandlers,omitempty" yaml:"resetHandlers,omitempty" env:"RESET_HANDLERS"`
	Multipart     *bool             `json:"multipart,omitempty" yaml:"multipart,omitempty" env:"MULTIPART"`
	RateLimit     float64           `json:"rateLimit,omitempty" yaml:"rateLimit,omitempty" env:"RATE_LIMIT"` // requests per second
	History       string            `json:"history,omitempty" yaml:"history,omitempty" env:"HISTORY"`       // sqlite database path
	Verbose       *bool             `json:"verbose,omitempty" yaml:"verbose,omitempty" env:"VERBOSE"`
	NoColor       *bool             `json:"noColor,omitempty" yaml:"noColor,omitempty" env:"NO_COLOR"`
	User          string            `json:"user,omitempty" yaml:"user,omitempty" env:"USER"`   // basic auth, user:password
	Token         string            `json:"token,omitempty" yaml:"token,omitempty" env:"TOKEN"` // bearer token
	OAuth2        OAuth2Config      `json:"oauth2,omitempty" yaml:"oauth2,omitempty" envPrefix:"OAUTH2_"`
}

// OAuth2Config configures tokens from an OAuth2 token endpoint
type OAuth2Config struct {
	TokenURL     string   `json:"tokenUrl,omitempty" yaml:"tokenUrl,omitempty" env:"TOKEN_URL"`
	ClientID     string   `json:"clientId,omitempty" yaml:"clientId,omitempty" env:"CLIENT_ID"`
	ClientSecret string   `json:"clientSecret,omitempty" yaml:"clientSecret,omitempty" env:"CLIENT_SECRET"`
	Scopes       []string `json:"scopes,omitempty" yaml:"scopes,omitempty" env:"SCOPES"`
	GrantType    string   `json:"grantType,omitempty" yaml:"grantType,omitempty" env:"GRANT_TYPE"`
	Username     string   `json:"username,omitempty" yaml:"username,omitempty" env:"USERNAME"`
	Password     string   `json:"password,omitempty" yaml:"password,omitempty" env:"PASSWORD"`
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetInsecure returns the insecure setting, defaulting to false
func (c *Config) GetInsecure() bool {
	return getBool(c.Insecure, false)
}

// GetResetHandlers returns the reset handlers setting, defaulting to true
func (c *Config) GetResetHandlers() bool {
	return getBool(c.ResetHandlers, true)
}

// GetMultipart returns the multipart setting, defaulting to false
func (c *Config) GetMultipart() bool {
	return getBool(c.Multipart, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// TimeoutDuration returns the timeout as a duration
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".diplomat.json",
	"diplomat.json",
	".diplomat.yaml",
	".diplomat.yml",
	"diplomat.yaml",
	"diplomat.yml",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return config, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadDotEnv loads a .env file into the process environment. Variables that
// are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// FromEnv reads DIPLOMAT_* variables into a config holding only the values
// that were set.
func FromEnv() (*Config, error) {
	overrides := &Config{}
	if err := env.ParseWithOptions(overrides, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return overrides, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Destination != "" {
		result.Destination = other.Destination
	}
	if other.Classifier != "" {
		result.Classifier = other.Classifier
	}
	if other.Marker != "" {
		result.Marker = other.Marker
	}
	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.UserAgent != "" {
		result.UserAgent = other.UserAgent
	}
	if other.RateLimit > 0 {
		result.RateLimit = other.RateLimit
	}
	if other.History != "" {
		result.History = other.History
	}
	if other.User != "" {
		result.User = other.User
	}
	if other.Token != "" {
		result.Token = other.Token
	}
	if other.OAuth2.TokenURL != "" {
		result.OAuth2 = other.OAuth2
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Insecure != nil {
		result.Insecure = other.Insecure
	}
	if other.ResetHandlers != nil {
		result.ResetHandlers = other.ResetHandlers
	}
	if other.Multipart != nil {
		result.Multipart = other.Multipart
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	// Merge headers
	if len(other.Headers) > 0 {
		merged := make(map[string]string, len(result.Headers)+len(other.Headers))
		for k, v := range result.Headers {
			merged[k] = v
		}
		for k, v := range other.Headers {
			merged[k] = v
		}
		result.Headers = merged
	}

	return &result
}

// Validate reports configuration errors before any request is attempted.
// An empty destination is allowed; callers may supply it later.
func (c *Config) Validate() error {
	var errs []error

	if _, err := handler.ByName(c.Classifier, c.Marker); err != nil {
		errs = append(errs, err)
	}
	if c.Destination != "" {
		if _, err := http.ParseDestination(c.Destination); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %d", c.Timeout))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rateLimit must not be negative, got %g", c.RateLimit))
	}
	if _, err := c.Authorizer(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// NewClassifier builds the configured classifier.
func (c *Config) NewClassifier() (handler.Classifier, error) {
	return handler.ByName(c.Classifier, c.Marker)
}

// Authorizer builds the configured request authorization. OAuth2 wins over
// a bearer token, which wins over basic credentials. It returns nil when
// nothing is configured.
func (c *Config) Authorizer() (auth.Authorizer, error) {
	switch {
	case c.OAuth2.TokenURL != "":
		provider, err := oauth2.NewProvider(&oauth2.Config{
			TokenURL:     c.OAuth2.TokenURL,
			ClientID:     c.OAuth2.ClientID,
			ClientSecret: c.OAuth2.ClientSecret,
			Scopes:       c.OAuth2.Scopes,
			GrantType:    oauth2.GrantType(c.OAuth2.GrantType),
			Username:     c.OAuth2.Username,
			Password:     c.OAuth2.Password,
		}, nil)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case c.Token != "":
		return auth.BearerToken(c.Token), nil
	case c.User != "":
		basic, err := auth.ParseUser(c.User)
		if err != nil {
			return nil, err
		}
		return basic, nil
	}
	return nil, nil
}

// ClientOptions translates the configuration into client options.
func (c *Config) ClientOptions() ([]http.ClientOption, error) {
	opts := []http.ClientOption{
		http.WithInsecure(c.GetInsecure()),
		http.WithMultipart(c.GetMultipart()),
	}
	if c.Timeout > 0 {
		opts = append(opts, http.WithTimeout(c.TimeoutDuration()))
	}
	if c.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(c.UserAgent))
	}
	if len(c.Headers) > 0 {
		opts = append(opts, http.WithHeaders(c.Headers))
	}
	if c.RateLimit > 0 {
		opts = append(opts, http.WithRateLimit(c.RateLimit))
	}

	authorizer, err := c.Authorizer()
	if err != nil {
		return nil, err
	}
	if authorizer != nil {
		opts = append(opts, http.WithAuth(authorizer))
	}
	return opts, nil
}

// SaveConfig saves the configuration to a file, as YAML when the extension says so
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
