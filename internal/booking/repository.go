package booking

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nekogravitycat/car-rental-bff/internal/backend"
)

type Repository interface {
	Submit(ctx context.Context, p Payload) (*Booking, error)
}

type remoteRepository struct {
	client *backend.Client
}

func NewRemoteRepository(client *backend.Client) Repository {
	return &remoteRepository{client: client}
}

type bookingRecord struct {
	ID         string    `json:"id"`
	CarID      string    `json:"carId"`
	Status     string    `json:"status"`
	TotalPrice int       `json:"totalPrice"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (r *remoteRepository) Submit(ctx context.Context, p Payload) (*Booking, error) {
	var rec bookingRecord
	if err := r.client.Do(ctx, http.MethodPost, "bookings", nil, p, &rec); err != nil {
		return nil, fmt.Errorf("submit booking failed: %w", err)
	}
	return &Booking{
		ID:         rec.ID,
		CarID:      rec.CarID,
		Status:     rec.Status,
		TotalPrice: rec.TotalPrice,
		CreatedAt:  rec.CreatedAt,
	}, nil
}
