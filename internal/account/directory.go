package account

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nekogravitycat/car-rental-bff/internal/backend"
	"github.com/nekogravitycat/car-rental-bff/internal/listing"
)

// Directory is the cached account list behind the admin accounts screen.
type Directory struct {
	repo     Repository
	pageSize int

	mu          sync.RWMutex
	accounts    []Account
	index       map[string]int
	refreshedAt time.Time
}

func NewDirectory(repo Repository, pageSize int) *Directory {
	return &Directory{
		repo:     repo,
		pageSize: pageSize,
		index:    make(map[string]int),
	}
}

// Refresh reloads every account. On error the previous list is kept.
func (d *Directory) Refresh(ctx context.Context) error {
	all, err := backend.FetchAll[*Account](ctx, d.pageSize, d.repo.ListPage)
	if err != nil {
		return fmt.Errorf("refresh account directory: %w", err)
	}

	accounts := make([]Account, 0, len(all))
	index := make(map[string]int, len(all))
	for _, a := range all {
		if a == nil {
			continue
		}
		if _, dup := index[a.ID]; dup {
			continue
		}
		index[a.ID] = len(accounts)
		accounts = append(accounts, *a)
	}

	d.mu.Lock()
	d.accounts = accounts
	d.index = index
	d.refreshedAt = time.Now()
	d.mu.Unlock()
	return nil
}

func (d *Directory) loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return !d.refreshedAt.IsZero()
}

func (d *Directory) ensureLoaded(ctx context.Context) error {
	if d.loaded() {
		return nil
	}
	return d.Refresh(ctx)
}

func (d *Directory) Get(ctx context.Context, id string) (Account, error) {
	if err := d.ensureLoaded(ctx); err != nil {
		return Account{}, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	i, ok := d.index[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return d.accounts[i], nil
}

// SetActive records the active flag confirmed by the backend.
// Unknown IDs are ignored; the next refresh picks them up.
func (d *Directory) SetActive(id string, isActive bool) (Account, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i, ok := d.index[id]
	if !ok {
		return Account{}, false
	}
	d.accounts[i].IsActive = isActive
	return d.accounts[i], true
}

// ToggleStatus asks the backend to change the flag and reconciles the answer.
// Nothing is cached when the call fails.
func (d *Directory) ToggleStatus(ctx context.Context, id string, isActive bool) (Account, error) {
	stored, err := d.repo.ToggleStatus(ctx, id, isActive)
	if err != nil {
		return Account{}, err
	}
	a, _ := d.SetActive(id, stored)
	return a, nil
}

// List filters, sorts and paginates the cached accounts.
func (d *Directory) List(ctx context.Context, f Filter) (listing.Page[Account], error) {
	compare, err := comparator(f.SortBy)
	if err != nil {
		return listing.Page[Account]{}, err
	}
	if err := d.ensureLoaded(ctx); err != nil {
		return listing.Page[Account]{}, err
	}

	d.mu.RLock()
	items := make([]Account, len(d.accounts))
	copy(items, d.accounts)
	d.mu.RUnlock()

	return listing.Run(items, listing.Query[Account]{
		Predicates: predicates(f),
		Compare:    compare,
		Direction:  listing.ParseDirection(f.SortOrder),
		Page:       f.Page,
		PageSize:   f.PageSize,
	}), nil
}

func predicates(f Filter) []listing.Predicate[Account] {
	var preds []listing.Predicate[Account]

	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		preds = append(preds, func(a Account) bool {
			return strings.Contains(strings.ToLower(a.Email), q) ||
				strings.Contains(strings.ToLower(a.FullName), q)
		})
	}
	if f.Role != "" {
		preds = append(preds, func(a Account) bool { return strings.EqualFold(a.Role, f.Role) })
	}
	if f.IsActive != nil {
		want := *f.IsActive
		preds = append(preds, func(a Account) bool { return a.IsActive == want })
	}
	return preds
}

func comparator(sortBy string) (listing.Compare[Account], error) {
	switch sortBy {
	case "", "created_at":
		return func(a, b Account) int { return a.CreatedAt.Compare(b.CreatedAt) }, nil
	case "email":
		return func(a, b Account) int { return strings.Compare(strings.ToLower(a.Email), strings.ToLower(b.Email)) }, nil
	case "full_name":
		return func(a, b Account) int { return strings.Compare(strings.ToLower(a.FullName), strings.ToLower(b.FullName)) }, nil
	}
	return nil, ErrInvalidSortKey
}
