package swaggerkit

import (
	"net/http"
	"strings"

	"ballotaudit/internal/modkit/httpkit"

	httpSwagger "github.com/swaggo/http-swagger"
)

// DocsPath is where the UI lives unless Mount is told otherwise
const DocsPath = "/api/docs"

// Mount serves the rendered doc at <base>/doc.json and the UI under <base>/.
// Nothing is mounted when enabled is false
func Mount(r httpkit.Router, enabled bool, base string, doc []byte) {
	if !enabled {
		return
	}
	base = "/" + strings.Trim(base, "/")
	if base == "/" {
		base = DocsPath
	}
	docURL := base + "/doc.json"

	r.Get(base, http.RedirectHandler(base+"/", http.StatusPermanentRedirect).ServeHTTP)
	r.Get(docURL, serveDocJSON(doc))
	r.Handle(base+"/*", httpSwagger.Handler(
		httpSwagger.URL(docURL),
		httpSwagger.InstanceName("ballotaudit"),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DeepLinking(true),
	))
}
