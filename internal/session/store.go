// Package session keeps per-session UI state (search state, booking
// wizard, toasts) in an in-memory badger instance with per-entry TTLs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

var ErrNotFound = errors.New("session entry not found")

const maxConflictRetries = 5

// Store wraps the badger DB holding session entries.
type Store struct {
	db *badger.DB
}

func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

// Bucket is a typed, JSON-encoded view over one key prefix of the store.
// Every write refreshes the entry's TTL, so idle entries expire on their own.
type Bucket[T any] struct {
	store  *Store
	prefix string
	ttl    time.Duration
}

// NewBucket creates a bucket. A zero ttl keeps entries until deleted.
func NewBucket[T any](store *Store, prefix string, ttl time.Duration) *Bucket[T] {
	return &Bucket[T]{store: store, prefix: prefix, ttl: ttl}
}

func (b *Bucket[T]) key(id string) []byte {
	return []byte(b.prefix + ":" + id)
}

// Load returns the entry for id, or ErrNotFound.
func (b *Bucket[T]) Load(ctx context.Context, id string) (T, error) {
	var v T
	if err := ctx.Err(); err != nil {
		return v, err
	}

	err := b.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.key(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &v)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return v, ErrNotFound
	}
	if err != nil {
		return v, fmt.Errorf("load %s session entry: %w", b.prefix, err)
	}
	return v, nil
}

// Save overwrites the entry for id.
func (b *Bucket[T]) Save(ctx context.Context, id string, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s session entry: %w", b.prefix, err)
	}

	err = b.store.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(b.entry(id, data))
	})
	if err != nil {
		return fmt.Errorf("save %s session entry: %w", b.prefix, err)
	}
	return nil
}

// Delete removes the entry for id. Deleting a missing entry is a no-op.
func (b *Bucket[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.store.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(b.key(id))
	})
	if err != nil {
		return fmt.Errorf("delete %s session entry: %w", b.prefix, err)
	}
	return nil
}

// Mutate runs a read-modify-write of the entry for id in one transaction.
// fn receives the current value (zero value when absent) and whether it existed.
// If fn returns an error nothing is written. Write conflicts are retried.
func (b *Bucket[T]) Mutate(ctx context.Context, id string, fn func(v *T, found bool) error) (T, error) {
	var result T

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		err := b.store.db.Update(func(txn *badger.Txn) error {
			var v T
			found := true

			item, err := txn.Get(b.key(id))
			switch {
			case errors.Is(err, badger.ErrKeyNotFound):
				found = false
			case err != nil:
				return err
			default:
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &v)
				}); err != nil {
					return err
				}
			}

			if err := fn(&v, found); err != nil {
				return err
			}

			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			if err := txn.SetEntry(b.entry(id, data)); err != nil {
				return err
			}

			result = v
			return nil
		})

		if errors.Is(err, badger.ErrConflict) && attempt < maxConflictRetries {
			continue
		}
		if err != nil {
			var zero T
			return zero, err
		}
		return result, nil
	}
}

func (b *Bucket[T]) entry(id string, data []byte) *badger.Entry {
	e := badger.NewEntry(b.key(id), data)
	if b.ttl > 0 {
		e = e.WithTTL(b.ttl)
	}
	return e
}
