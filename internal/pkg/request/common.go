package request

import "github.com/nekogravitycat/car-rental-bff/internal/pkg/pagination"

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
// Backend identifiers are opaque strings, so only presence is enforced.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required"`
}

// ByCodeRequest is used by the cascading address endpoints keyed by numeric code.
type ByCodeRequest struct {
	Code int `uri:"code" binding:"required,min=1"`
}

// ListParams holds the shared paging and sorting query parameters.
type ListParams struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// Normalize fills the paging defaults.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = pagination.DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = pagination.DefaultPageSize
	}
}
