package http

import (
	"time"

	"github.com/nekogravitycat/car-rental-bff/internal/account"
	"github.com/nekogravitycat/car-rental-bff/internal/admin"
	carHttp "github.com/nekogravitycat/car-rental-bff/internal/car/http"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/request"
)

// ListAccountsRequest defines query parameters for the accounts screen.
type ListAccountsRequest struct {
	request.ListParams
	Query    string `form:"q"`
	Role     string `form:"role"`
	IsActive *bool  `form:"is_active"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=created_at email full_name"`
}

func (r ListAccountsRequest) ToFilter() account.Filter {
	return account.Filter{
		Query:     r.Query,
		Role:      r.Role,
		IsActive:  r.IsActive,
		Page:      r.Page,
		PageSize:  r.PageSize,
		SortBy:    r.SortBy,
		SortOrder: r.SortOrder,
	}
}

// ToggleStatusRequest asks for an account to be activated or deactivated.
type ToggleStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type CarRowResponse struct {
	carHttp.CarResponse
	Busy bool `json:"busy"`
}

func NewCarRowListResponse(rows []admin.CarRow) []CarRowResponse {
	items := make([]CarRowResponse, len(rows))
	for i, r := range rows {
		items[i] = CarRowResponse{CarResponse: carHttp.NewCarResponse(r.Car), Busy: r.Busy}
	}
	return items
}

type AccountRowResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	Busy      bool      `json:"busy"`
}

func NewAccountRowListResponse(rows []admin.AccountRow) []AccountRowResponse {
	items := make([]AccountRowResponse, len(rows))
	for i, r := range rows {
		items[i] = AccountRowResponse{
			ID:        r.ID,
			Email:     r.Email,
			FullName:  r.FullName,
			Phone:     r.Phone,
			Role:      r.Role,
			IsActive:  r.IsActive,
			CreatedAt: r.CreatedAt,
			Busy:      r.Busy,
		}
	}
	return items
}
