package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
)

// CreateUser handles POST /usuarios.
func (h *Handler) CreateUser(c *gin.Context) {
	ctx, span := startSpan(c, "http.users.create")
	defer span.End()

	var dto domain.UserDTO
	if !bind(c, span, &dto) {
		return
	}

	user, err := h.users.Create(ctx, dto)
	if err != nil {
		fail(ctx, c, span, err, "Create user")
		return
	}
	created(c, "/usuarios", user.ID, user)
}

// ListUsers handles GET /usuarios. It returns a plain array ordered by id
// unless page or size is given, in which case it returns a page object.
func (h *Handler) ListUsers(c *gin.Context) {
	ctx, span := startSpan(c, "http.users.list")
	defer span.End()

	if !wantsPage(c) {
		users, err := h.users.List(ctx)
		if err != nil {
			fail(ctx, c, span, err, "List users")
			return
		}
		c.JSON(http.StatusOK, users)
		return
	}

	req, err := parsePageRequest(c, domain.UserSortFields)
	if err != nil {
		fail(ctx, c, span, err, "List users")
		return
	}

	page, err := h.users.ListPage(ctx, req)
	if err != nil {
		fail(ctx, c, span, err, "List users")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetUser handles GET /usuarios/:id.
func (h *Handler) GetUser(c *gin.Context) {
	ctx, span := startSpan(c, "http.users.get")
	defer span.End()

	id, err := pathID(c)
	if err != nil {
		fail(ctx, c, span, err, "Get user")
		return
	}

	user, err := h.users.Get(ctx, id)
	if err != nil {
		fail(ctx, c, span, err, "Get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser handles PUT /usuarios/:id.
func (h *Handler) UpdateUser(c *gin.Context) {
	ctx, span := startSpan(c, "http.users.update")
	defer span.End()

	id, err := pathID(c)
	if err != nil {
		fail(ctx, c, span, err, "Update user")
		return
	}

	var dto domain.UserDTO
	if !bind(c, span, &dto) {
		return
	}

	user, err := h.users.Update(ctx, id, dto)
	if err != nil {
		fail(ctx, c, span, err, "Update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /usuarios/:id.
func (h *Handler) DeleteUser(c *gin.Context) {
	ctx, span := startSpan(c, "http.users.delete")
	defer span.End()

	id, err := pathID(c)
	if err != nil {
		fail(ctx, c, span, err, "Delete user")
		return
	}

	if err := h.users.Delete(ctx, id); err != nil {
		fail(ctx, c, span, err, "Delete user")
		return
	}
	c.Status(http.StatusNoContent)
}
