package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(headers map[string]string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		for k, v := range headers {
			c.Request.Header.Set(k, v)
		}
		return c
	}

	id := GetTraceID(newCtx(map[string]string{
		TraceParentHeader: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
	}))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", id)

	id = GetTraceID(newCtx(map[string]string{TraceIDHeader: "abc"}))
	assert.Equal(t, "abc", id)

	id = GetTraceID(newCtx(map[string]string{TraceParentHeader: "garbage"}))
	assert.Len(t, id, 32)
}

func TestLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	r := gin.New()
	r.Use(LoggingMiddleware())
	r.GET("/sessoes/:id", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside handler")
		c.Status(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/sessoes/9", nil)
	req.Header.Set(TraceIDHeader, "trace-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "trace-123", w.Header().Get(TraceIDHeader))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inner, access map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inner))
	require.NoError(t, json.Unmarshal(lines[1], &access))

	assert.Equal(t, "trace-123", inner["trace_id"])
	assert.Equal(t, "error", access["level"])
	assert.Equal(t, "/sessoes/:id", access["route"])
	assert.EqualValues(t, http.StatusNotFound, access["status"])
}

func TestLoggingMiddleware_RecoveredPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	r := gin.New()
	r.Use(LoggingMiddleware())
	r.Use(Recovery())
	r.GET("/boom", func(*gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(TraceIDHeader, "trace-456")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var recovered, access map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &recovered))
	require.NoError(t, json.Unmarshal(lines[1], &access))

	assert.Equal(t, "Recovered from panic", recovered["message"])
	assert.Equal(t, "trace-456", recovered["trace_id"])
	assert.Equal(t, "trace-456", access["trace_id"])
	assert.EqualValues(t, http.StatusInternalServerError, access["status"])
}
