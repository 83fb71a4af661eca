package v1

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
)

var errInvalidPageParam = errors.New("invalid pagination parameter")

// wantsPage reports whether the caller asked for a page object explicitly.
func wantsPage(c *gin.Context) bool {
	_, page := c.GetQuery("page")
	_, size := c.GetQuery("size")
	return page || size
}

// parsePageRequest reads page (zero-based), size and any number of
// sort=campo[,asc|desc] parameters. Size is clamped to MaxPageSize and sort
// fields must be in allowed.
func parsePageRequest(c *gin.Context, allowed []string) (domain.PageRequest, error) {
	req := domain.PageRequest{Size: domain.DefaultPageSize}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return req, fmt.Errorf("page %q: %w", raw, errInvalidPageParam)
		}
		req.Page = page
	}

	if raw := c.Query("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return req, fmt.Errorf("size %q: %w", raw, errInvalidPageParam)
		}
		req.Size = min(size, domain.MaxPageSize)
	}

	if req.Page > math.MaxInt/req.Size {
		return req, fmt.Errorf("page %d of size %d: %w", req.Page, req.Size, errInvalidPageParam)
	}

	for _, raw := range c.QueryArray("sort") {
		order, err := parseSort(raw, allowed)
		if err != nil {
			return req, err
		}
		req.Sort = append(req.Sort, order)
	}
	return req, nil
}

func parseSort(raw string, allowed []string) (domain.SortOrder, error) {
	field, dir, _ := strings.Cut(raw, ",")
	field = strings.TrimSpace(field)
	if !slices.Contains(allowed, field) {
		return domain.SortOrder{}, fmt.Errorf("sort %q: %w", field, domain.ErrInvalidSort)
	}

	order := domain.SortOrder{Field: field}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
	case "desc":
		order.Desc = true
	default:
		return domain.SortOrder{}, fmt.Errorf("sort direction %q: %w", dir, domain.ErrInvalidSort)
	}
	return order, nil
}
