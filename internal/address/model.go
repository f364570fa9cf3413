package address

import (
	"net/http"

	"github.com/nekogravitycat/car-rental-bff/internal/pkg/apperror"
)

var ErrNotFound = apperror.New(http.StatusNotFound, "administrative division not found")

// Division is one level of the province, district and ward cascade.
type Division struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}
