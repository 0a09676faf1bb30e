// Package docs embeds the hand maintained OpenAPI document of the API
package docs

import _ "embed"

// OpenAPI is the raw document; swaggerkit.Doc fills in the shared parts
//
//go:embed openapi.json
var OpenAPI []byte
