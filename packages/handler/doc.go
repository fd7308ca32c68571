// Package handler classifies HTTP responses.
//
// A classifier is initialized once per request cycle with the raw response.
// Initialization runs the registered filters over the raw body, in order,
// and stores the result as the filtered response. The classifier then
// reports at most one of errored, failed or successful.
//
// Filters steer the chain through their Result:
//   - Continue replaces the current value and moves on
//   - SkipNext keeps the current value and skips the next n filters
//   - Abort keeps the current value and stops the chain
//
// A State must not be shared between concurrent requests. Sequential reuse
// is fine: every Initialize call starts from a clean slate.
package handler
