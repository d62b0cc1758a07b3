package handler

import (
	"errors"
	"fmt"

	"github.com/deppfellow/cpf-validator/internal/cpf"
	"github.com/deppfellow/cpf-validator/internal/errs"
	"github.com/deppfellow/cpf-validator/internal/model"
	"github.com/deppfellow/cpf-validator/internal/server"
	"github.com/deppfellow/cpf-validator/internal/service"
	"github.com/labstack/echo/v4"
)

// MessageValidCPF is the message returned with a valid CPF.
const MessageValidCPF = "CPF is valid."

// CPFHandler serves the CPF validation endpoints.
type CPFHandler struct {
	Handler
	cpfService *service.CPFService
}

func NewCPFHandler(s *server.Server, cpfService *service.CPFService) *CPFHandler {
	return &CPFHandler{
		Handler:    NewHandler(s),
		cpfService: cpfService,
	}
}

// Validate checks a single CPF.
//
// An absent, null or empty cpf field is validated as "" and rejected like
// any other invalid input.
func (h *CPFHandler) Validate(c echo.Context, req *model.ValidateCPFRequest) (*model.ValidateCPFResponse, error) {
	result := h.cpfService.Validate(c.Request().Context(), req.Candidate())
	if !result.Valid {
		return nil, errs.NewInvalidCPFError()
	}

	return &model.ValidateCPFResponse{
		Message: MessageValidCPF,
		CPF:     result.Formatted,
	}, nil
}

// ValidateBatch checks up to service.MaxBatchSize CPFs in one request.
// Invalid entries do not fail the request; they are reported per item.
func (h *CPFHandler) ValidateBatch(c echo.Context, req *model.ValidateBatchRequest) (*model.ValidateBatchResponse, error) {
	results, err := h.cpfService.ValidateBatch(c.Request().Context(), req.CPFs)
	if errors.Is(err, service.ErrBatchTooLarge) {
		return nil, errs.NewBadRequestError("Validation failed", true, nil, []errs.FieldError{{
			Field: "cpfs",
			Error: fmt.Sprintf("must not contain more than %d items", service.MaxBatchSize),
		}}, nil)
	}
	if err != nil {
		return nil, err
	}

	res := &model.ValidateBatchResponse{
		Results: make([]model.BatchItem, len(results)),
	}
	for i, r := range results {
		res.Results[i] = model.BatchItem{Valid: r.Valid, CPF: r.Formatted}
		if r.Valid {
			res.ValidCount++
		}
	}

	return res, nil
}

// Format returns the punctuated and digits-only forms of the CPF in the
// path. The `cpf` validator tag on the request rejects invalid input first.
func (h *CPFHandler) Format(c echo.Context, req *model.FormatCPFRequest) (*model.FormatCPFResponse, error) {
	formatted, ok := cpf.Format(req.CPF)
	if !ok {
		return nil, errs.NewInvalidCPFError()
	}

	return &model.FormatCPFResponse{
		CPF:    formatted,
		Digits: cpf.Normalize(req.CPF),
	}, nil
}
