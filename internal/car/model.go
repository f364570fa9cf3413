package car

import (
	"net/http"
	"slices"
	"time"

	"github.com/nekogravitycat/car-rental-bff/internal/pkg/apperror"
)

var (
	ErrNotFound       = apperror.New(http.StatusNotFound, "car not found")
	ErrNotOwner       = apperror.New(http.StatusForbidden, "forbidden: car belongs to another owner")
	ErrEmptyName      = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidPrice   = apperror.New(http.StatusBadRequest, "price_per_day must be positive")
	ErrNothingToApply = apperror.New(http.StatusBadRequest, "no fields to update")
	ErrBusy           = apperror.New(http.StatusConflict, "another change to this car is still pending")
)

// Status is the verification state assigned by the backend.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

// FeatureAirConditioning is the feature flag behind the air conditioning filter.
const FeatureAirConditioning = "air_conditioning"

// Car is a listed rental vehicle as last seen from the backend.
type Car struct {
	ID                  string
	OwnerID             string
	Name                string
	Brand               string
	Model               string
	CarType             string
	FuelType            string
	Transmission        string
	Seats               int
	Year                int
	PricePerDay         int
	Features            []string
	Location            string
	InstantConfirmation bool
	FreeCancellation    bool
	UnlimitedMileage    bool
	Luxury              bool
	Status              Status
	Rating              float64
	CreatedAt           time.Time
}

func (c Car) HasFeature(f string) bool {
	return slices.Contains(c.Features, f)
}

// EditRequest is an owner's partial update. Nil fields are left untouched.
type EditRequest struct {
	Name                *string
	PricePerDay         *int
	Location            *string
	Features            []string
	InstantConfirmation *bool
	FreeCancellation    *bool
	UnlimitedMileage    *bool
}
