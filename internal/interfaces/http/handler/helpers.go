package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/shared"
	"github.com/kartikpareekak-cloud/shopbackend/internal/interfaces/http/dto"
)

// bindListRequest binds query parameters into a ListRequest with defaults
func bindListRequest(c *gin.Context) (dto.ListRequest, error) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, err
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}
	return req, nil
}

// toFilter converts a ListRequest into a repository filter
func toFilter(req dto.ListRequest) shared.Filter {
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if req.Search != "" {
		filter.Filters["search"] = req.Search
	}
	if req.Category != "" {
		filter.Filters["category"] = req.Category
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	return filter
}
