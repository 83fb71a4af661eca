package v1

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed openapi.json
var openAPIDocument []byte

// swaggerUIPage loads Swagger UI from a CDN and points it at /v3/api-docs.
const swaggerUIPage = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
  <meta charset="utf-8">
  <title>Aposta Apoio API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => { window.ui = SwaggerUIBundle({ url: "/v3/api-docs", dom_id: "#swagger-ui" }); };
  </script>
</body>
</html>`

// APIDocs serves the OpenAPI 3 document.
func (h *Handler) APIDocs(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", openAPIDocument)
}

// SwaggerUI serves an HTML page rendering APIDocs.
func (h *Handler) SwaggerUI(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerUIPage))
}
