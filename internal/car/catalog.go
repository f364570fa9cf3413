package car

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nekogravitycat/car-rental-bff/internal/backend"
)

// Catalog is the in-memory snapshot of every car the backend lists.
// Reads are served from the snapshot; Upsert reconciles one server response.
type Catalog struct {
	repo     Repository
	pageSize int

	mu          sync.RWMutex
	cars        []Car
	index       map[string]int
	refreshedAt time.Time
}

func NewCatalog(repo Repository, pageSize int) *Catalog {
	return &Catalog{
		repo:     repo,
		pageSize: pageSize,
		index:    make(map[string]int),
	}
}

// Refresh replaces the snapshot with a full fetch. On error the previous
// snapshot is kept.
func (c *Catalog) Refresh(ctx context.Context) error {
	all, err := backend.FetchAll[*Car](ctx, c.pageSize, c.repo.ListPage)
	if err != nil {
		return fmt.Errorf("refresh car catalog: %w", err)
	}

	cars := make([]Car, 0, len(all))
	index := make(map[string]int, len(all))
	for _, car := range all {
		if car == nil {
			continue
		}
		if i, ok := index[car.ID]; ok {
			cars[i] = *car
			continue
		}
		index[car.ID] = len(cars)
		cars = append(cars, *car)
	}

	c.mu.Lock()
	c.cars = cars
	c.index = index
	c.refreshedAt = time.Now()
	c.mu.Unlock()
	return nil
}

// Loaded reports whether at least one refresh has succeeded.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.refreshedAt.IsZero()
}

func (c *Catalog) Get(id string) (Car, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return Car{}, false
	}
	return c.cars[i], true
}

// All returns a copy of the snapshot in backend order.
func (c *Catalog) All() []Car {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Car, len(c.cars))
	copy(out, c.cars)
	return out
}

// Upsert stores car, replacing the entry with the same ID.
func (c *Catalog) Upsert(car Car) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.index[car.ID]; ok {
		c.cars[i] = car
		return
	}
	c.index[car.ID] = len(c.cars)
	c.cars = append(c.cars, car)
}
