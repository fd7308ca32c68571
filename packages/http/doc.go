// Package http issues requests and routes each response through a classifier
// and the client's outcome callbacks.
//
// A Client is bound to a destination (scheme, host, optional port and base
// path) and a handler.Classifier. Each request method:
//   - builds the wire request, including form data, query strings and
//     multipart file uploads
//   - records a curl equivalent of the call
//   - initializes the classifier with the response
//   - dispatches to the registered callbacks
//
// Transport failures are not returned as errors. They reach the classifier as
// a zero status code with the error text as the body.
package http
