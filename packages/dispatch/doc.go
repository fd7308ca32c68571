// Package dispatch picks and runs the callback for a classified response.
//
// A Registry holds four slots: error, failure, success and any. After a
// response is classified, Dispatch resolves at most one of them:
//
//  1. a classifier implementing handler.SelfHandling handles itself
//  2. the error slot, if the response was errored
//  3. the failure slot, if the response failed
//  4. the success slot, if the response was successful
//  5. the any slot, as a catch-all
//
// A slot holds either a callback or a literal value. Callbacks receive the
// slot's extra arguments followed by the classifier; literal values are
// returned as they are.
package dispatch
