package address

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nekogravitycat/car-rental-bff/internal/backend"
)

// Repository reads the administrative divisions from the backend.
type Repository interface {
	Provinces(ctx context.Context) ([]Division, error)
	Districts(ctx context.Context, provinceCode int) ([]Division, error)
	Wards(ctx context.Context, districtCode int) ([]Division, error)
}

type remoteRepository struct {
	client *backend.Client
}

func NewRemoteRepository(client *backend.Client) Repository {
	return &remoteRepository{client: client}
}

func (r *remoteRepository) Provinces(ctx context.Context) ([]Division, error) {
	return r.list(ctx, "provinces")
}

func (r *remoteRepository) Districts(ctx context.Context, provinceCode int) ([]Division, error) {
	return r.list(ctx, fmt.Sprintf("provinces/%d/districts", provinceCode))
}

func (r *remoteRepository) Wards(ctx context.Context, districtCode int) ([]Division, error) {
	return r.list(ctx, fmt.Sprintf("districts/%d/wards", districtCode))
}

func (r *remoteRepository) list(ctx context.Context, path string) ([]Division, error) {
	var out []Division
	if err := r.client.Do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		var beErr *backend.Error
		if errors.As(err, &beErr) && beErr.Status == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("list %s failed: %w", path, err)
	}
	if out == nil {
		out = []Division{}
	}
	return out, nil
}
