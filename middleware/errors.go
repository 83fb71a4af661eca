package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
)

// NewErrorResponse builds the standard error body for status.
func NewErrorResponse(status int, message string, fields []domain.FieldError) domain.ErrorResponse {
	return domain.ErrorResponse{
		Timestamp: time.Now().Format(domain.DateTimeLayout),
		Status:    status,
		Erro:      http.StatusText(status),
		Mensagem:  message,
		Erros:     fields,
	}
}

// AbortWithError stops the chain and writes the standard error body.
func AbortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, NewErrorResponse(status, message, nil))
}

// Recovery converts panics into a generic 500 without leaking details.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		zerolog.Ctx(c.Request.Context()).Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		AbortWithError(c, http.StatusInternalServerError, "Erro interno")
	})
}
