package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/car-rental-bff/internal/session"
)

// maxQueued caps a session's queue; the oldest toasts are dropped first.
const maxQueued = 20

type Service interface {
	Push(ctx context.Context, sessionID string, kind Kind, title, message string) (Notification, error)
	Drain(ctx context.Context, sessionID string) ([]Notification, error)
}

type service struct {
	queues *session.Bucket[[]Notification]
	now    func() time.Time
}

// NewService stores each session's queue with the given TTL, so toasts
// nobody collects disappear on their own.
func NewService(store *session.Store, ttl time.Duration) Service {
	return &service{
		queues: session.NewBucket[[]Notification](store, "toast", ttl),
		now:    time.Now,
	}
}

func (s *service) Push(ctx context.Context, sessionID string, kind Kind, title, message string) (Notification, error) {
	n := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}

	_, err := s.queues.Mutate(ctx, sessionID, func(q *[]Notification, _ bool) error {
		*q = append(*q, n)
		if len(*q) > maxQueued {
			*q = (*q)[len(*q)-maxQueued:]
		}
		return nil
	})
	if err != nil {
		return Notification{}, err
	}
	return n, nil
}

// Drain returns the queued toasts in push order and clears the queue.
func (s *service) Drain(ctx context.Context, sessionID string) ([]Notification, error) {
	var drained []Notification
	_, err := s.queues.Mutate(ctx, sessionID, func(q *[]Notification, _ bool) error {
		drained = *q
		*q = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	if drained == nil {
		drained = []Notification{}
	}
	return drained, nil
}
