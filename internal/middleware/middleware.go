// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as
// request ids, request logging, CORS, body limits, rate limiting,
// tracing and panic recovery.
package middleware
