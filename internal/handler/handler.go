// Package handler is the first layer after the router.
//
// It binds requests, validates them through the validation package, calls
// the service layer and maps results to HTTP responses. Error responses are
// left to the global error handler installed by the router.
package handler
