package model

import (
	"encoding/json"

	"github.com/deppfellow/cpf-validator/internal/validation"
)

// ValidateCPFRequest is the body of POST /api/v1/cpf/validate.
//
// CPF is kept raw so a field of the wrong JSON type does not fail the bind:
// absent, null, numbers, booleans, arrays and objects all read as "".
type ValidateCPFRequest struct {
	CPF json.RawMessage `json:"cpf"`
}

// Validate accepts any body shape: a missing or malformed CPF is a verdict,
// not a request error.
func (r *ValidateCPFRequest) Validate() error {
	return nil
}

// Candidate returns the CPF string, or "" when the field is absent or is
// not a JSON string.
func (r *ValidateCPFRequest) Candidate() string {
	if r == nil || len(r.CPF) == 0 {
		return ""
	}

	var candidate string
	if err := json.Unmarshal(r.CPF, &candidate); err != nil {
		return ""
	}
	return candidate
}

// ValidateCPFResponse is returned for a valid CPF.
type ValidateCPFResponse struct {
	Message string `json:"message"`
	CPF     string `json:"cpf"`
}

// ValidateBatchRequest is the body of POST /api/v1/cpf/validate/batch.
type ValidateBatchRequest struct {
	CPFs []string `json:"cpfs" validate:"required,min=1,max=100"`
}

func (r *ValidateBatchRequest) Validate() error {
	return validation.Struct(r)
}

// BatchItem is the verdict for one entry of a batch, in request order.
type BatchItem struct {
	Valid bool `json:"valid"`

	// CPF is the formatted number when valid, empty otherwise.
	CPF string `json:"cpf,omitempty"`
}

// ValidateBatchResponse is returned for every well-formed batch request.
type ValidateBatchResponse struct {
	Results    []BatchItem `json:"results"`
	ValidCount int         `json:"valid_count"`
}

// FormatCPFRequest is bound from the path of GET /api/v1/cpf/:cpf.
type FormatCPFRequest struct {
	CPF string `param:"cpf" validate:"required,cpf"`
}

func (r *FormatCPFRequest) Validate() error {
	return validation.Struct(r)
}

// FormatCPFResponse carries the canonical forms of a valid CPF.
type FormatCPFResponse struct {
	CPF    string `json:"cpf"`
	Digits string `json:"digits"`
}
