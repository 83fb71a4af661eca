package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	pkgzerolog "github.com/duynhne/pkg/logger/zerolog"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	logicv1 "github.com/duynhne/aposta-apoio-service/internal/logic/v1"
	"github.com/duynhne/aposta-apoio-service/middleware"
)

var errInvalidID = errors.New("invalid path id")

// Services are the business services the HTTP layer delegates to.
type Services struct {
	Auth          *logicv1.AuthService
	Users         *logicv1.UserService
	Professionals *logicv1.ProfessionalService
	Sessions      *logicv1.SessionService
	Dashboard     *logicv1.DashboardService
	ExternalTime  *logicv1.ExternalTimeService
}

// Handler groups HTTP handlers for the API v1.
// Dependencies are injected via the constructor, no global state.
type Handler struct {
	auth          *logicv1.AuthService
	users         *logicv1.UserService
	professionals *logicv1.ProfessionalService
	sessions      *logicv1.SessionService
	dashboard     *logicv1.DashboardService
	externalTime  *logicv1.ExternalTimeService
}

// NewHandler creates a new Handler with the given services.
func NewHandler(s Services) *Handler {
	useJSONFieldNames()
	return &Handler{
		auth:          s.Auth,
		users:         s.Users,
		professionals: s.Professionals,
		sessions:      s.Sessions,
		dashboard:     s.Dashboard,
		externalTime:  s.ExternalTime,
	}
}

// RegisterRoutes registers every API v1 route on r. authLimit runs before
// the public /auth endpoints only. Everything outside /auth and the API
// docs requires a principal bound by middleware.Authenticate.
func (h *Handler) RegisterRoutes(r gin.IRouter, authLimit ...gin.HandlerFunc) {
	auth := r.Group("/auth", authLimit...)
	auth.POST("/login", h.Login)
	auth.POST("/registro", h.Register)

	r.GET("/v3/api-docs", h.APIDocs)
	r.GET("/swagger-ui.html", h.SwaggerUI)
	r.GET("/swagger-ui/index.html", h.SwaggerUI)

	protected := r.Group("", middleware.RequireAuthenticated())

	users := protected.Group("/usuarios")
	users.POST("", h.CreateUser)
	users.GET("", h.ListUsers)
	users.GET("/:id", h.GetUser)
	users.PUT("/:id", h.UpdateUser)
	users.DELETE("/:id", h.DeleteUser)

	professionals := protected.Group("/profissionais")
	professionals.POST("", h.CreateProfessional)
	professionals.GET("", h.ListProfessionals)
	professionals.GET("/:id", h.GetProfessional)
	professionals.PUT("/:id", h.UpdateProfessional)
	professionals.DELETE("/:id", h.DeleteProfessional)

	sessions := protected.Group("/sessoes")
	sessions.POST("", h.CreateSession)
	sessions.GET("", h.ListSessions)
	sessions.GET("/:id", h.GetSession)
	sessions.PUT("/:id", h.UpdateSession)
	sessions.DELETE("/:id", h.DeleteSession)

	protected.GET("/dashboard/resumo", h.Summary)
	protected.GET("/externo/tempo", h.ExternalTime)
}

// NotFound answers paths no route matches. Mount it behind
// middleware.RequireAuthenticated so anonymous callers get 401/403 first.
func (h *Handler) NotFound(c *gin.Context) {
	middleware.AbortWithError(c, http.StatusNotFound, "Recurso não encontrado")
}

func startSpan(c *gin.Context, name string) (context.Context, trace.Span) {
	return middleware.StartSpan(c.Request.Context(), name, trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
}

// bind decodes and validates the JSON body into dst, answering 400 on failure.
func bind(c *gin.Context, span trace.Span, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		logger := pkgzerolog.FromContext(c.Request.Context())
		logger.Warn().Err(err).Msg("Invalid request")
		abortWithBindingError(c, err)
		return false
	}
	span.SetAttributes(attribute.Bool("request.valid", true))
	return true
}

// fail logs err and writes the response the error table selects for it.
func fail(ctx context.Context, c *gin.Context, span trace.Span, err error, action string) {
	span.RecordError(err)

	status, _ := errorResponse(err)
	logger := pkgzerolog.FromContext(ctx)
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Int("status", status).Msg(action + " failed")

	abortWithError(c, err)
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id %q: %w", raw, errInvalidID)
	}
	return id, nil
}

func created(c *gin.Context, collection string, id int64, body any) {
	c.Header("Location", collection+"/"+strconv.FormatInt(id, 10))
	c.JSON(http.StatusCreated, body)
}
