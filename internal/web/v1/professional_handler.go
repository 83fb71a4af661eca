package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
)

// CreateProfessional handles POST /profissionais.
func (h *Handler) CreateProfessional(c *gin.Context) {
	ctx, span := startSpan(c, "http.professionals.create")
	defer span.End()

	var dto domain.ProfessionalDTO
	if !bind(c, span, &dto) {
		return
	}

	p, err := h.professionals.Create(ctx, dto)
	if err != nil {
		fail(ctx, c, span, err, "Create professional")
		return
	}
	created(c, "/profissionais", p.ID, p)
}

// ListProfessionals handles GET /profissionais?page=&size=&sort=.
func (h *Handler) ListProfessionals(c *gin.Context) {
	ctx, span := startSpan(c, "http.professionals.list")
	defer span.End()

	req, err := parsePageRequest(c, domain.ProfessionalSortFields)
	if err != nil {
		fail(ctx, c, span, err, "List professionals")
		return
	}

	page, err := h.professionals.ListPage(ctx, req)
	if err != nil {
		fail(ctx, c, span, err, "List professionals")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetProfessional handles GET /profissionais/:id.
func (h *Handler) GetProfessional(c *gin.Context) {
	ctx, span := startSpan(c, "http.professionals.get")
	defer span.End()

	id, err := pathID(c)
	if err != nil {
		fail(ctx, c, span, err, "Get professional")
		return
	}

	p, err := h.professionals.Get(ctx, id)
	if err != nil {
		fail(ctx, c, span, err, "Get professional")
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateProfessional handles PUT /profissionais/:id.
func (h *Handler) UpdateProfessional(c *gin.Context) {
	ctx, span := startSpan(c, "http.professionals.update")
	defer span.End()

	id, err := pathID(c)
	if err != nil {
		fail(ctx, c, span, err, "Update professional")
		return
	}

	var dto domain.ProfessionalDTO
	if !bind(c, span, &dto) {
		return
	}

	p, err := h.professionals.Update(ctx, id, dto)
	if err != nil {
		fail(ctx, c, span, err, "Update professional")
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteProfessional handles DELETE /profissionais/:id.
func (h *Handler) DeleteProfessional(c *gin.Context) {
	ctx, span := startSpan(c, "http.professionals.delete")
	defer span.End()

	id, err := pathID(c)
	if err != nil {
		fail(ctx, c, span, err, "Delete professional")
		return
	}

	if err := h.professionals.Delete(ctx, id); err != nil {
		fail(ctx, c, span, err, "Delete professional")
		return
	}
	c.Status(http.StatusNoContent)
}
