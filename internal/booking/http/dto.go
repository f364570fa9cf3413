package http

import (
	"time"

	"github.com/nekogravitycat/car-rental-bff/internal/booking"
)

type StartRequest struct {
	CarID string `json:"car_id" binding:"required"`
}

type LocationBody struct {
	Province string `json:"province" binding:"max=100"`
	District string `json:"district" binding:"max=100"`
	Ward     string `json:"ward" binding:"max=100"`
}

// EditDraftRequest patches the draft. Omitted fields are left untouched.
type EditDraftRequest struct {
	PickupDate      *time.Time    `json:"pickup_date"`
	ReturnDate      *time.Time    `json:"return_date"`
	PickupLocation  *LocationBody `json:"pickup_location"`
	DropoffLocation *LocationBody `json:"dropoff_location"`
}

func (r EditDraftRequest) ToPatch() booking.Patch {
	p := booking.Patch{
		PickupDate: r.PickupDate,
		ReturnDate: r.ReturnDate,
	}
	if r.PickupLocation != nil {
		loc := booking.Location(*r.PickupLocation)
		p.PickupLocation = &loc
	}
	if r.DropoffLocation != nil {
		loc := booking.Location(*r.DropoffLocation)
		p.DropoffLocation = &loc
	}
	return p
}

type DraftResponse struct {
	CarID           string           `json:"car_id"`
	PickupDate      *time.Time       `json:"pickup_date"`
	ReturnDate      *time.Time       `json:"return_date"`
	PickupLocation  booking.Location `json:"pickup_location"`
	DropoffLocation booking.Location `json:"dropoff_location"`
}

type WizardResponse struct {
	Step     booking.Step           `json:"step"`
	Draft    DraftResponse          `json:"draft"`
	Errors   []booking.FieldError   `json:"errors"`
	Payload  *booking.Payload       `json:"payload,omitempty"`
	Estimate *booking.PriceEstimate `json:"estimate,omitempty"`
}

func NewWizardResponse(w booking.Wizard) WizardResponse {
	d := w.CurrentDraft()
	resp := WizardResponse{
		Step: w.Step(),
		Draft: DraftResponse{
			CarID:           d.CarID,
			PickupDate:      d.PickupDate,
			ReturnDate:      d.ReturnDate,
			PickupLocation:  d.PickupLocation,
			DropoffLocation: d.DropoffLocation,
		},
		Errors: []booking.FieldError{},
	}

	switch s := w.(type) {
	case booking.CollectingDetails:
		if len(s.Errors) > 0 {
			resp.Errors = s.Errors
		}
	case booking.Confirmed:
		resp.Payload = &s.Payload
		resp.Estimate = &s.Estimate
	}
	return resp
}

type BookingResponse struct {
	ID         string    `json:"id"`
	CarID      string    `json:"car_id"`
	Status     string    `json:"status"`
	TotalPrice int       `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		CarID:      b.CarID,
		Status:     b.Status,
		TotalPrice: b.TotalPrice,
		CreatedAt:  b.CreatedAt,
	}
}
