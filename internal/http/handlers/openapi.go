package handlers

import (
	_ "embed"
	"net/http"
)

// apiDocument is the OpenAPI 3 description of the public and admin routes.
//
//go:embed openapi.json
var apiDocument []byte

// docsPage renders apiDocument with Redoc. Question bodies and answers are
// Arabic by default, so the page keeps right-to-left text readable.
const docsPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Muin Q&amp;A API</title>
  <style>
    html, body { margin: 0; }
    redoc { display: block; min-height: 100vh; }
    [dir="rtl"] { unicode-bidi: plaintext; }
  </style>
</head>
<body>
  <noscript>The reference needs JavaScript. The raw document is at /v1/openapi.json.</noscript>
  <redoc spec-url="/v1/openapi.json" hide-download-button required-props-first></redoc>
  <script src="https://cdn.jsdelivr.net/npm/redoc@2.2.0/bundles/redoc.standalone.js"></script>
</body>
</html>`

// OpenAPIJSON serves the embedded API document.
func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(apiDocument)
}

// OpenAPIDocs serves the browsable API reference.
func (a *App) OpenAPIDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(docsPage))
}
