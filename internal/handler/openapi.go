package handler

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/deppfellow/cpf-validator/internal/server"
	"github.com/labstack/echo/v4"
)

// OpenAPIHandler serves the API documentation UI.
//
// The page is a static HTML file that loads its renderer from a CDN and
// reads /static/openapi.json.
type OpenAPIHandler struct {
	Handler
	assets fs.FS
	page   string
}

// NewOpenAPIHandler serves page from assets.
func NewOpenAPIHandler(s *server.Server, assets fs.FS, page string) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		assets:  assets,
		page:    page,
	}
}

// ServeOpenAPIUI serves the docs page with caching disabled.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := fs.ReadFile(h.assets, h.page)

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	if err := c.HTMLBlob(http.StatusOK, templateBytes); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
