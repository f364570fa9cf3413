package car

import (
	"context"
	"strings"
	"time"

	"github.com/nekogravitycat/car-rental-bff/internal/listing"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/inflight"
	"github.com/nekogravitycat/car-rental-bff/internal/search"
)

type Service interface {
	Search(ctx context.Context, state search.State) (listing.Page[Car], error)
	GetByID(ctx context.Context, id string) (Car, error)
	ListByOwner(ctx context.Context, ownerID string, state search.State) (listing.Page[Car], error)
	ListPending(ctx context.Context, pageNumber, pageSize int) (listing.Page[Car], error)
	Verify(ctx context.Context, id string) (Car, error)
	Edit(ctx context.Context, ownerID, id string, req EditRequest) (Car, error)
	Refresh(ctx context.Context) error
}

type service struct {
	repo    Repository
	catalog *Catalog
	limits  search.Limits
	busy    *inflight.Set
	timeout time.Duration
}

// NewService creates the car service. busy is shared with the admin screens
// so an owner edit and an approval of the same car never overlap. timeout
// bounds an edit that outlives its request.
func NewService(repo Repository, catalog *Catalog, limits search.Limits, busy *inflight.Set, timeout time.Duration) Service {
	return &service{
		repo:    repo,
		catalog: catalog,
		limits:  limits,
		busy:    busy,
		timeout: timeout,
	}
}

// ensureLoaded fills an empty catalog on first use.
func (s *service) ensureLoaded(ctx context.Context) error {
	if s.catalog.Loaded() {
		return nil
	}
	return s.catalog.Refresh(ctx)
}

func (s *service) Search(ctx context.Context, state search.State) (listing.Page[Car], error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return listing.Page[Car]{}, err
	}
	return s.run(s.catalog.All(), state)
}

func (s *service) GetByID(ctx context.Context, id string) (Car, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return Car{}, err
	}
	car, ok := s.catalog.Get(id)
	if !ok {
		return Car{}, ErrNotFound
	}
	return car, nil
}

// ListByOwner applies the search state to the owner's cars only.
func (s *service) ListByOwner(ctx context.Context, ownerID string, state search.State) (listing.Page[Car], error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return listing.Page[Car]{}, err
	}
	owned := listing.Filter(s.catalog.All(), func(c Car) bool { return c.OwnerID == ownerID })
	return s.run(owned, state)
}

// ListPending returns the verification queue, oldest first.
func (s *service) ListPending(ctx context.Context, pageNumber, pageSize int) (listing.Page[Car], error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return listing.Page[Car]{}, err
	}
	return listing.Run(s.catalog.All(), listing.Query[Car]{
		Predicates: []listing.Predicate[Car]{func(c Car) bool { return c.Status == StatusPending }},
		Compare:    func(a, b Car) int { return a.CreatedAt.Compare(b.CreatedAt) },
		Direction:  listing.Ascending,
		Page:       pageNumber,
		PageSize:   pageSize,
	}), nil
}

// Verify approves a car on the backend and reconciles the returned car.
// Nothing is cached when the call fails.
func (s *service) Verify(ctx context.Context, id string) (Car, error) {
	car, err := s.repo.Verify(ctx, id)
	if err != nil {
		return Car{}, err
	}
	s.catalog.Upsert(*car)
	return *car, nil
}

// Edit saves an owner's changes. A second edit of the same car while one is
// pending gets ErrBusy, and a client disconnect does not abort the save.
func (s *service) Edit(ctx context.Context, ownerID, id string, req EditRequest) (Car, error) {
	if req.Name == nil && req.PricePerDay == nil && req.Location == nil && req.Features == nil &&
		req.InstantConfirmation == nil && req.FreeCancellation == nil && req.UnlimitedMileage == nil {
		return Car{}, ErrNothingToApply
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return Car{}, ErrEmptyName
	}
	if req.PricePerDay != nil && *req.PricePerDay <= 0 {
		return Car{}, ErrInvalidPrice
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return Car{}, err
	}
	if existing.OwnerID != ownerID {
		return Car{}, ErrNotOwner
	}

	key := inflight.CarKey(id)
	if !s.busy.TryAcquire(key) {
		return Car{}, ErrBusy
	}
	defer s.busy.Release(key)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	car, err := s.repo.Edit(ctx, id, req)
	if err != nil {
		return Car{}, err
	}
	s.catalog.Upsert(*car)
	return *car, nil
}

func (s *service) Refresh(ctx context.Context) error {
	return s.catalog.Refresh(ctx)
}

func (s *service) run(cars []Car, state search.State) (listing.Page[Car], error) {
	q, err := Query(state, s.limits)
	if err != nil {
		return listing.Page[Car]{}, err
	}
	return listing.Run(cars, q), nil
}
