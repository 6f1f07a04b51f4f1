package util

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest carries 0-based page/size plus an optional "field,direction"
// sort spec. Endpoints with a fixed ordering ignore Sort entirely.
type PageRequest struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

func (p PageRequest) Offset() uint64 {
	return uint64(p.Page * p.Size)
}

func (p PageRequest) Limit() uint64 {
	return uint64(p.Size)
}

func ParsePageRequest(c *gin.Context) PageRequest {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	if page < 0 {
		page = 0
	}

	if size <= 0 {
		size = DefaultPageSize
	}

	if size > MaxPageSize {
		size = MaxPageSize
	}

	req := PageRequest{Page: page, Size: size}

	if sort := c.Query("sort"); sort != "" {
		parts := strings.SplitN(sort, ",", 2)
		req.SortBy = strings.TrimSpace(parts[0])

		if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[1]), "desc") {
			req.SortDir = "DESC"
		} else {
			req.SortDir = "ASC"
		}
	}

	return req
}

// OrderClause resolves the sort spec against a whitelist of sortable
// columns, falling back to the given default ordering. The whitelist keeps
// client input out of the generated SQL.
func (p PageRequest) OrderClause(allowed map[string]string, fallback string) string {
	if p.SortBy == "" {
		return fallback
	}

	column, ok := allowed[p.SortBy]

	if !ok {
		return fallback
	}

	return column + " " + p.SortDir
}
