package search

import (
	"context"
	"errors"

	"github.com/nekogravitycat/car-rental-bff/internal/session"
)

// Service keeps one search State per session.
type Service interface {
	Get(ctx context.Context, sessionID string) (State, error)
	Dispatch(ctx context.Context, sessionID string, action Action) (State, error)
	Limits() Limits
}

type service struct {
	states *session.Bucket[State]
	limits Limits
}

func NewService(states *session.Bucket[State], limits Limits) Service {
	return &service{
		states: states,
		limits: limits,
	}
}

// Get returns the session's state, or the initial state for a new session.
func (s *service) Get(ctx context.Context, sessionID string) (State, error) {
	st, err := s.states.Load(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return NewState(s.limits), nil
	}
	if err != nil {
		return State{}, err
	}
	return st, nil
}

// Dispatch reduces action over the stored state and saves the result.
// A rejected action leaves the stored state untouched.
func (s *service) Dispatch(ctx context.Context, sessionID string, action Action) (State, error) {
	return s.states.Mutate(ctx, sessionID, func(st *State, found bool) error {
		if !found {
			*st = NewState(s.limits)
		}
		next, err := Reduce(*st, action, s.limits)
		if err != nil {
			return err
		}
		*st = next
		return nil
	})
}

func (s *service) Limits() Limits {
	return s.limits
}
