package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// Summary handles GET /dashboard/resumo.
func (h *Handler) Summary(c *gin.Context) {
	ctx, span := startSpan(c, "http.dashboard.summary")
	defer span.End()

	summary, err := h.dashboard.Summary(ctx)
	if err != nil {
		fail(ctx, c, span, err, "Dashboard summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ExternalTime handles GET /externo/tempo. It always answers 200; the
// service falls back to the local clock when the time API fails.
func (h *Handler) ExternalTime(c *gin.Context) {
	ctx, span := startSpan(c, "http.external.time")
	defer span.End()

	now := h.externalTime.Current(ctx)
	span.SetAttributes(attribute.String("timezone", now.Timezone))
	c.JSON(http.StatusOK, now)
}
