package booking

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/car-rental-bff/internal/pkg/apperror"
)

var (
	ErrNoWizard          = apperror.New(http.StatusNotFound, "no booking in progress")
	ErrInvalidTransition = apperror.New(http.StatusConflict, "action not allowed at this booking step")
	ErrInvalidDraft      = apperror.New(http.StatusUnprocessableEntity, "booking details are invalid")
	ErrUnknownEvent      = apperror.New(http.StatusBadRequest, "unknown booking event")
	ErrBusy              = apperror.New(http.StatusConflict, "booking is already being submitted")
)

// Location is a three-level administrative address.
type Location struct {
	Province string `json:"province"`
	District string `json:"district"`
	Ward     string `json:"ward"`
}

// Flatten renders "ward, district, province", skipping empty parts.
func (l Location) Flatten() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Ward, l.District, l.Province} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Draft is the booking form as the user fills it in.
type Draft struct {
	CarID           string     `json:"car_id"`
	PickupDate      *time.Time `json:"pickup_date,omitempty"`
	ReturnDate      *time.Time `json:"return_date,omitempty"`
	PickupLocation  Location   `json:"pickup_location"`
	DropoffLocation Location   `json:"dropoff_location"`
}

// Patch is a partial edit of a draft. Nil fields are left untouched.
type Patch struct {
	PickupDate      *time.Time
	ReturnDate      *time.Time
	PickupLocation  *Location
	DropoffLocation *Location
}

// Apply returns d with p applied.
func (p Patch) Apply(d Draft) Draft {
	if p.PickupDate != nil {
		t := *p.PickupDate
		d.PickupDate = &t
	}
	if p.ReturnDate != nil {
		t := *p.ReturnDate
		d.ReturnDate = &t
	}
	if p.PickupLocation != nil {
		d.PickupLocation = *p.PickupLocation
	}
	if p.DropoffLocation != nil {
		d.DropoffLocation = *p.DropoffLocation
	}
	return d
}

// FieldError names one violated field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every violated field of a draft.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "invalid booking draft: " + strings.Join(msgs, "; ")
}

// Validate checks every rule and reports all violations together.
func Validate(d Draft) error {
	var fields []FieldError

	if d.PickupDate == nil {
		fields = append(fields, FieldError{Field: "pickup_date", Message: "pickup date is required"})
	}
	if d.ReturnDate == nil {
		fields = append(fields, FieldError{Field: "return_date", Message: "return date is required"})
	}
	if d.PickupDate != nil && d.ReturnDate != nil && !d.ReturnDate.After(*d.PickupDate) {
		fields = append(fields, FieldError{Field: "return_date", Message: "return date must be after pickup date"})
	}
	if strings.TrimSpace(d.PickupLocation.Province) == "" {
		fields = append(fields, FieldError{Field: "pickup_location.province", Message: "pickup province is required"})
	}
	if strings.TrimSpace(d.DropoffLocation.Province) == "" {
		fields = append(fields, FieldError{Field: "dropoff_location.province", Message: "dropoff province is required"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Payload is the normalized booking request sent to the backend.
type Payload struct {
	CarID           string `json:"carId"`
	PickupDate      string `json:"pickupDate"`
	ReturnDate      string `json:"returnDate"`
	PickupLocation  string `json:"pickupLocation"`
	DropoffLocation string `json:"dropoffLocation"`
}

// NewPayload normalizes a validated draft.
func NewPayload(d Draft) Payload {
	p := Payload{
		CarID:           d.CarID,
		PickupLocation:  d.PickupLocation.Flatten(),
		DropoffLocation: d.DropoffLocation.Flatten(),
	}
	if d.PickupDate != nil {
		p.PickupDate = d.PickupDate.UTC().Format(time.RFC3339)
	}
	if d.ReturnDate != nil {
		p.ReturnDate = d.ReturnDate.UTC().Format(time.RFC3339)
	}
	return p
}

// PriceEstimate is a display-only quote; the backend computes the real price.
type PriceEstimate struct {
	Days        int `json:"days"`
	NightlyRate int `json:"nightly_rate"`
	Subtotal    int `json:"subtotal"`
	ServiceFee  int `json:"service_fee"`
	Total       int `json:"total"`
}

// Estimate charges one nightly rate per started 24 hours, at least one day.
func Estimate(d Draft, nightlyRate, serviceFee int) PriceEstimate {
	days := 1
	if d.PickupDate != nil && d.ReturnDate != nil {
		hours := d.ReturnDate.Sub(*d.PickupDate).Hours()
		days = max(1, int(math.Ceil(hours/24)))
	}
	subtotal := days * nightlyRate
	return PriceEstimate{
		Days:        days,
		NightlyRate: nightlyRate,
		Subtotal:    subtotal,
		ServiceFee:  serviceFee,
		Total:       subtotal + serviceFee,
	}
}

// Booking is a submitted booking as acknowledged by the backend.
type Booking struct {
	ID         string
	CarID      string
	Status     string
	TotalPrice int
	CreatedAt  time.Time
}
