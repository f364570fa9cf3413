package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// Pagination is the backend's paging metadata.
type Pagination struct {
	PageNumber      int  `json:"pageNumber"`
	PageSize        int  `json:"pageSize"`
	TotalRecords    int  `json:"totalRecords"`
	TotalPages      int  `json:"totalPages"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	HasNextPage     bool `json:"hasNextPage"`
}

// Paged is the `{ data: [...], pagination: {...} }` list shape.
type Paged[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// PageQuery encodes paging parameters the way the backend expects them.
func PageQuery(pageNumber, pageSize int) url.Values {
	q := url.Values{}
	q.Set("pageNumber", strconv.Itoa(pageNumber))
	q.Set("pageSize", strconv.Itoa(pageSize))
	return q
}

// PageFetcher loads one page of a backend list.
type PageFetcher[T any] func(ctx context.Context, pageNumber, pageSize int) (Paged[T], error)

// maxConcurrentPages bounds the fan-out of FetchAll.
const maxConcurrentPages = 4

// FetchAll loads every page of a list. The first page is fetched alone to
// learn the page count; the remaining pages are fetched concurrently and
// reassembled in page order. Any failing page fails the whole call.
func FetchAll[T any](ctx context.Context, pageSize int, fetch PageFetcher[T]) ([]T, error) {
	first, err := fetch(ctx, 1, pageSize)
	if err != nil {
		return nil, err
	}
	if first.Pagination.TotalPages <= 1 {
		return first.Data, nil
	}

	pages := make([][]T, first.Pagination.TotalPages)
	pages[0] = first.Data

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPages)
	for i := 1; i < len(pages); i++ {
		g.Go(func() error {
			p, err := fetch(gctx, i+1, pageSize)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			pages[i] = p.Data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]T, 0, first.Pagination.TotalRecords)
	for _, p := range pages {
		out = append(out, p...)
	}
	return out, nil
}
