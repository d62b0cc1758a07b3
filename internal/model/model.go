// Package model holds the request and response payloads of the HTTP API.
//
// Request types implement validation.Validatable so the handler pipeline
// can bind and validate them before any business logic runs.
package model
