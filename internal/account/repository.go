package account

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nekogravitycat/car-rental-bff/internal/backend"
)

type Repository interface {
	ListPage(ctx context.Context, pageNumber, pageSize int) (backend.Paged[*Account], error)
	// ToggleStatus sets the active flag and returns the value the backend stored.
	ToggleStatus(ctx context.Context, id string, isActive bool) (bool, error)
}

type remoteRepository struct {
	client *backend.Client
}

func NewRemoteRepository(client *backend.Client) Repository {
	return &remoteRepository{client: client}
}

type accountRecord struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *remoteRepository) ListPage(ctx context.Context, pageNumber, pageSize int) (backend.Paged[*Account], error) {
	var page backend.Paged[accountRecord]
	if err := r.client.Do(ctx, http.MethodGet, "accounts", backend.PageQuery(pageNumber, pageSize), nil, &page); err != nil {
		return backend.Paged[*Account]{}, fmt.Errorf("list accounts failed: %w", err)
	}

	accounts := make([]*Account, len(page.Data))
	for i, rec := range page.Data {
		accounts[i] = &Account{
			ID:        rec.ID,
			Email:     rec.Email,
			FullName:  rec.FullName,
			Phone:     rec.Phone,
			Role:      rec.Role,
			IsActive:  rec.IsActive,
			CreatedAt: rec.CreatedAt,
		}
	}
	return backend.Paged[*Account]{Data: accounts, Pagination: page.Pagination}, nil
}

func (r *remoteRepository) ToggleStatus(ctx context.Context, id string, isActive bool) (bool, error) {
	body := struct {
		AccountID string `json:"accountId"`
		IsActive  bool   `json:"isActive"`
	}{AccountID: id, IsActive: isActive}

	var out struct {
		IsActive bool `json:"isActive"`
	}
	if err := r.client.Do(ctx, http.MethodPost, "account/toggle-status", nil, body, &out); err != nil {
		var beErr *backend.Error
		if errors.As(err, &beErr) && beErr.Status == http.StatusNotFound {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("toggle account status failed: %w", err)
	}
	return out.IsActive, nil
}
