// Package config handles configuration loading and management for diplomat.
//
// It provides functionality for:
//   - Loading configuration from .diplomat.json, .diplomat.yaml or .diplomat.yml files
//   - Default configuration values
//   - .env files and DIPLOMAT_* environment overrides
//   - Turning a configuration into a classifier and client options
package config
