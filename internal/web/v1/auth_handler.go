package v1

import (
	"net/http"

	pkgzerolog "github.com/duynhne/pkg/logger/zerolog"
	"github.com/gin-gonic/gin"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
)

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := startSpan(c, "http.auth.login")
	defer span.End()

	var req domain.LoginRequest
	if !bind(c, span, &req) {
		return
	}

	resp, err := h.auth.Login(ctx, req)
	if err != nil {
		fail(ctx, c, span, err, "Login")
		return
	}

	logger := pkgzerolog.FromContext(ctx)
	logger.Info().Str("login", req.Login).Msg("Login successful")
	c.JSON(http.StatusOK, resp)
}

// Register handles POST /auth/registro.
func (h *Handler) Register(c *gin.Context) {
	ctx, span := startSpan(c, "http.auth.register")
	defer span.End()

	var req domain.RegisterRequest
	if !bind(c, span, &req) {
		return
	}

	user, err := h.auth.Register(ctx, req)
	if err != nil {
		fail(ctx, c, span, err, "Registration")
		return
	}

	logger := pkgzerolog.FromContext(ctx)
	logger.Info().
		Int64("user_id", user.ID).
		Str("login", req.Login).
		Msg("Registration successful")
	c.JSON(http.StatusCreated, user)
}
