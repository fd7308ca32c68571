// Package output provides formatters for displaying classified responses.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//
// Each formatter implements the Formatter interface.
package output
