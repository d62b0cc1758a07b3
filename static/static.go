// Package static embeds the API documentation assets served under /static
// and /docs, so the binary does not depend on its working directory.
package static

import "embed"

// FS holds openapi.html and openapi.json.
//
//go:embed openapi.html openapi.json
var FS embed.FS

// OpenAPIUI is the file name of the documentation page inside FS.
const OpenAPIUI = "openapi.html"
