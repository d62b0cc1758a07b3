// Package errs defines the error shapes returned to API clients.
//
// Every error that leaves a handler ends up as an HTTPError, so clients always
// get the same JSON body: a machine-friendly code, a human message, the status
// and optional field-level errors.
package errs
