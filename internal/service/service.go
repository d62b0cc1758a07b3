// Package service contains the business logic.
//
// It sits between the handler layer and the pure cpf package. It receives
// validated requests from handlers, runs the checks and records what
// happened in logs and metrics.
package service
