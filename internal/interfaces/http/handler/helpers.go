package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inventra/backend/internal/domain/shared"
	"github.com/inventra/backend/internal/interfaces/http/dto"
	"github.com/inventra/backend/internal/infrastructure/persistence"
)

// parseDateTime parses a datetime string in the formats clients send
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}

// bindListFilter binds common pagination/sort query parameters into a
// repository filter, validating the sort field against the whitelist.
func bindListFilter(c *gin.Context, sortFields map[string]bool) (shared.Filter, error) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		return shared.Filter{}, err
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.OrderBy = persistence.ValidateSortField(req.OrderBy, sortFields, "created_at")
	filter.OrderDir = persistence.ValidateSortOrder(req.OrderDir)
	filter.Search = req.Search
	return filter, nil
}
