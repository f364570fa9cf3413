package car

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nekogravitycat/car-rental-bff/internal/backend"
)

type Repository interface {
	ListPage(ctx context.Context, pageNumber, pageSize int) (backend.Paged[*Car], error)
	Verify(ctx context.Context, id string) (*Car, error)
	Edit(ctx context.Context, id string, req EditRequest) (*Car, error)
}

type remoteRepository struct {
	client *backend.Client
}

func NewRemoteRepository(client *backend.Client) Repository {
	return &remoteRepository{client: client}
}

// carRecord is the backend's wire shape of a car.
type carRecord struct {
	ID                  string    `json:"id"`
	OwnerID             string    `json:"ownerId"`
	Name                string    `json:"name"`
	Brand               string    `json:"brand"`
	Model               string    `json:"model"`
	CarType             string    `json:"carType"`
	FuelType            string    `json:"fuelType"`
	Transmission        string    `json:"transmission"`
	Seats               int       `json:"seats"`
	Year                int       `json:"year"`
	PricePerDay         int       `json:"pricePerDay"`
	Features            []string  `json:"features"`
	Location            string    `json:"location"`
	InstantConfirmation bool      `json:"instantConfirmation"`
	FreeCancellation    bool      `json:"freeCancellation"`
	UnlimitedMileage    bool      `json:"unlimitedMileage"`
	Luxury              bool      `json:"luxury"`
	Status              string    `json:"status"`
	Rating              float64   `json:"rating"`
	CreatedAt           time.Time `json:"createdAt"`
}

func (r carRecord) toDomain() *Car {
	return &Car{
		ID:                  r.ID,
		OwnerID:             r.OwnerID,
		Name:                r.Name,
		Brand:               r.Brand,
		Model:               r.Model,
		CarType:             r.CarType,
		FuelType:            r.FuelType,
		Transmission:        r.Transmission,
		Seats:               r.Seats,
		Year:                r.Year,
		PricePerDay:         r.PricePerDay,
		Features:            r.Features,
		Location:            r.Location,
		InstantConfirmation: r.InstantConfirmation,
		FreeCancellation:    r.FreeCancellation,
		UnlimitedMileage:    r.UnlimitedMileage,
		Luxury:              r.Luxury,
		Status:              Status(r.Status),
		Rating:              r.Rating,
		CreatedAt:           r.CreatedAt,
	}
}

func (r *remoteRepository) ListPage(ctx context.Context, pageNumber, pageSize int) (backend.Paged[*Car], error) {
	var page backend.Paged[carRecord]
	if err := r.client.Do(ctx, http.MethodGet, "cars", backend.PageQuery(pageNumber, pageSize), nil, &page); err != nil {
		return backend.Paged[*Car]{}, fmt.Errorf("list cars failed: %w", err)
	}

	cars := make([]*Car, len(page.Data))
	for i, rec := range page.Data {
		cars[i] = rec.toDomain()
	}
	return backend.Paged[*Car]{Data: cars, Pagination: page.Pagination}, nil
}

func (r *remoteRepository) Verify(ctx context.Context, id string) (*Car, error) {
	body := map[string]string{"carId": id}

	var rec carRecord
	if err := r.client.Do(ctx, http.MethodPost, "car/verify-car", nil, body, &rec); err != nil {
		return nil, mapNotFound(fmt.Errorf("verify car failed: %w", err))
	}
	return rec.toDomain(), nil
}

// editBody only carries the fields being changed. Features is a pointer so an
// empty list is still sent and clears them.
type editBody struct {
	Name                *string   `json:"name,omitempty"`
	PricePerDay         *int      `json:"pricePerDay,omitempty"`
	Location            *string   `json:"location,omitempty"`
	Features            *[]string `json:"features,omitempty"`
	InstantConfirmation *bool     `json:"instantConfirmation,omitempty"`
	FreeCancellation    *bool     `json:"freeCancellation,omitempty"`
	UnlimitedMileage    *bool     `json:"unlimitedMileage,omitempty"`
}

func (r *remoteRepository) Edit(ctx context.Context, id string, req EditRequest) (*Car, error) {
	body := editBody{
		Name:                req.Name,
		PricePerDay:         req.PricePerDay,
		Location:            req.Location,
		InstantConfirmation: req.InstantConfirmation,
		FreeCancellation:    req.FreeCancellation,
		UnlimitedMileage:    req.UnlimitedMileage,
	}
	if req.Features != nil {
		body.Features = &req.Features
	}

	var rec carRecord
	if err := r.client.Do(ctx, http.MethodPatch, "car/edit-car/"+url.PathEscape(id), nil, body, &rec); err != nil {
		return nil, mapNotFound(fmt.Errorf("edit car failed: %w", err))
	}
	return rec.toDomain(), nil
}

func mapNotFound(err error) error {
	var beErr *backend.Error
	if errors.As(err, &beErr) && beErr.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return err
}
