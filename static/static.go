// Package static embeds the API documentation assets.
package static

import "embed"

// FS holds openapi.html and openapi.json at its root.
//
//go:embed openapi.html openapi.json
var FS embed.FS
