// Package cmd implements the diplomat CLI commands using Cobra.
//
// Available commands:
//   - get, head, delete, options, post, put, patch, trace: Send a request
//     and print the classified response
//   - history: List recently recorded calls
//   - init: Create a .diplomat.yaml configuration file
//   - version: Show diplomat version information
//
// The exit status reflects the outcome: 0 successful, 1 failed, 2 errored.
package cmd
