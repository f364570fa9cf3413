// Package listing implements the in-memory filter, sort and paginate
// pipeline shared by the car catalog, owner dashboard and admin screens.
package listing

import (
	"slices"
	"strings"

	"github.com/nekogravitycat/car-rental-bff/internal/pkg/pagination"
)

// Direction is the comparator multiplier.
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// ParseDirection maps "asc"/"desc" (any case) to a Direction; anything else is ascending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, "desc") {
		return Descending
	}
	return Ascending
}

// Predicate reports whether an item passes one filter dimension.
type Predicate[T any] func(T) bool

// Compare follows the cmp.Compare convention.
type Compare[T any] func(a, b T) int

// Query describes one pipeline run.
type Query[T any] struct {
	Predicates []Predicate[T]
	Compare    Compare[T] // nil keeps the input order
	Direction  Direction
	Page       int
	PageSize   int
}

// Page is the paginated view.
type Page[T any] struct {
	Items      []T
	Pagination pagination.Metadata
}

// Filter keeps the items matching every predicate, in their original order.
// Nil predicates are skipped. The input slice is never modified.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchAll(item, preds) {
			out = append(out, item)
		}
	}
	return out
}

func matchAll[T any](item T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if p != nil && !p(item) {
			return false
		}
	}
	return true
}

// Sort returns a stably sorted copy. Equal items keep their relative order
// in both directions.
func Sort[T any](items []T, cmp Compare[T], dir Direction) []T {
	out := slices.Clone(items)
	if cmp == nil {
		return out
	}
	if dir != Descending {
		dir = Ascending
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return int(dir) * cmp(a, b)
	})
	return out
}

// Slice returns the raw page window; pages past the end are empty.
func Slice[T any](items []T, pageNumber, pageSize int) []T {
	start, end := pagination.Window(pageNumber, pageSize, len(items))
	return items[start:end]
}

// Paginate clamps pageNumber to the last valid page before slicing.
func Paginate[T any](items []T, pageNumber, pageSize int) Page[T] {
	meta := pagination.New(pageNumber, pageSize, len(items))
	start, end := meta.Bounds()

	return Page[T]{
		Items:      items[start:end],
		Pagination: meta,
	}
}

// Run composes Filter, Sort and Paginate.
func Run[T any](items []T, q Query[T]) Page[T] {
	filtered := Filter(items, q.Predicates...)
	sorted := Sort(filtered, q.Compare, q.Direction)
	return Paginate(sorted, q.Page, q.PageSize)
}

// AnyOf builds an OR-within-dimension predicate over a multi-select value.
// An empty selection passes everything.
func AnyOf[T any, V comparable](selected []V, key func(T) V) Predicate[T] {
	if len(selected) == 0 {
		return nil
	}
	set := make(map[V]struct{}, len(selected))
	for _, v := range selected {
		set[v] = struct{}{}
	}
	return func(item T) bool {
		_, ok := set[key(item)]
		return ok
	}
}
