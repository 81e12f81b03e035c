// Package errs defines the error shapes the API returns to clients.
//
// Every failed request is answered with an HTTPError serialized as JSON, so
// clients always get a body with at least a message and a machine-readable
// code, plus per-field errors when input validation failed.
package errs
