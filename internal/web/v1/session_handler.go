package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
)

// CreateSession handles POST /sessoes.
func (h *Handler) CreateSession(c *gin.Context) {
	ctx, span := startSpan(c, "http.sessions.create")
	defer span.End()

	var dto domain.SessionDTO
	if !bind(c, span, &dto) {
		return
	}

	s, err := h.sessions.Create(ctx, dto)
	if err != nil {
		fail(ctx, c, span, err, "Create session")
		return
	}
	created(c, "/sessoes", s.ID, s)
}

// ListSessions handles GET /sessoes?page=&size=&sort=.
func (h *Handler) ListSessions(c *gin.Context) {
	ctx, span := startSpan(c, "http.sessions.list")
	defer span.End()

	req, err := parsePageRequest(c, domain.SessionSortFields)
	if err != nil {
		fail(ctx, c, span, err, "List sessions")
		return
	}

	page, err := h.sessions.ListPage(ctx, req)
	if err != nil {
		fail(ctx, c, span, err, "List sessions")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetSession handles GET /sessoes/:id.
func (h *Handler) GetSession(c *gin.Context) {
	ctx, span := startSpan(c, "http.sessions.get")
	defer span.End()

	id, err := pathID(c)
	if err != nil {
		fail(ctx, c, span, err, "Get session")
		return
	}

	s, err := h.sessions.Get(ctx, id)
	if err != nil {
		fail(ctx, c, span, err, "Get session")
		return
	}
	c.JSON(http.StatusOK, s)
}

// UpdateSession handles PUT /sessoes/:id.
func (h *Handler) UpdateSession(c *gin.Context) {
	ctx, span := startSpan(c, "http.sessions.update")
	defer span.End()

	id, err := pathID(c)
	if err != nil {
		fail(ctx, c, span, err, "Update session")
		return
	}

	var dto domain.SessionDTO
	if !bind(c, span, &dto) {
		return
	}

	s, err := h.sessions.Update(ctx, id, dto)
	if err != nil {
		fail(ctx, c, span, err, "Update session")
		return
	}
	c.JSON(http.StatusOK, s)
}

// DeleteSession handles DELETE /sessoes/:id.
func (h *Handler) DeleteSession(c *gin.Context) {
	ctx, span := startSpan(c, "http.sessions.delete")
	defer span.End()

	id, err := pathID(c)
	if err != nil {
		fail(ctx, c, span, err, "Delete session")
		return
	}

	if err := h.sessions.Delete(ctx, id); err != nil {
		fail(ctx, c, span, err, "Delete session")
		return
	}
	c.Status(http.StatusNoContent)
}
