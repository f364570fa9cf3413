package account

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/car-rental-bff/internal/pkg/apperror"
)

var (
	ErrNotFound       = apperror.New(http.StatusNotFound, "account not found")
	ErrInvalidSortKey = apperror.New(http.StatusBadRequest, "invalid sort key")
)

// Account is a platform user as listed on the admin screen.
type Account struct {
	ID        string
	Email     string
	FullName  string
	Phone     string
	Role      string
	IsActive  bool
	CreatedAt time.Time
}

// Filter defines options for listing accounts.
type Filter struct {
	Query    string // Matches email or full name, case-insensitive
	Role     string
	IsActive *bool // Use pointer to distinguish between false and nil (not set)

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
