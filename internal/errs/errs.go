// Package errs defines the error shapes returned to API clients.
//
// HTTPError is the single JSON error body produced by the global error
// handler; FieldError carries per-field validation failures; Action hints
// what a client should do next (e.g. redirect to login).
package errs
