package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/car-rental-bff/internal/car"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/inflight"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/logger"
	"github.com/nekogravitycat/car-rental-bff/internal/session"
)

type Service interface {
	Start(ctx context.Context, sessionID, carID string) (Wizard, error)
	Get(ctx context.Context, sessionID string) (Wizard, error)
	Edit(ctx context.Context, sessionID string, patch Patch) (Wizard, error)
	Next(ctx context.Context, sessionID string) (Wizard, error)
	Back(ctx context.Context, sessionID string) (Wizard, error)
	Reset(ctx context.Context, sessionID string) (Wizard, error)
	Discard(ctx context.Context, sessionID string) error
	Submit(ctx context.Context, sessionID string) (*Booking, error)
}

type service struct {
	repo       Repository
	carService car.Service
	wizards    *session.Bucket[record]
	busy       *inflight.Set
	serviceFee int
	timeout    time.Duration
}

// NewService creates the wizard service. timeout bounds a submission that
// outlives its request.
func NewService(repo Repository, carService car.Service, wizards *session.Bucket[record], busy *inflight.Set, serviceFee int, timeout time.Duration) Service {
	return &service{
		repo:       repo,
		carService: carService,
		wizards:    wizards,
		busy:       busy,
		serviceFee: serviceFee,
		timeout:    timeout,
	}
}

// NewBucket creates the session bucket holding wizards. Idle wizards expire
// after ttl, which discards abandoned drafts.
func NewBucket(store *session.Store, ttl time.Duration) *session.Bucket[record] {
	return session.NewBucket[record](store, "booking", ttl)
}

// Start begins a booking for carID, replacing any wizard in progress.
func (s *service) Start(ctx context.Context, sessionID, carID string) (Wizard, error) {
	if _, err := s.carService.GetByID(ctx, carID); err != nil {
		return nil, err
	}

	w := Start(carID)
	if err := s.wizards.Save(ctx, sessionID, toRecord(w)); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (Wizard, error) {
	rec, err := s.wizards.Load(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrNoWizard
	}
	if err != nil {
		return nil, err
	}
	return rec.wizard(), nil
}

func (s *service) Edit(ctx context.Context, sessionID string, patch Patch) (Wizard, error) {
	return s.apply(ctx, sessionID, EditDetails{Patch: patch})
}

// Next moves to Validating and resolves it in the same step.
func (s *service) Next(ctx context.Context, sessionID string) (Wizard, error) {
	current, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c, err := s.carService.GetByID(ctx, current.CurrentDraft().CarID)
	if err != nil {
		return nil, err
	}

	return s.apply(ctx, sessionID, Next{}, RunValidation{NightlyRate: c.PricePerDay, ServiceFee: s.serviceFee})
}

func (s *service) Back(ctx context.Context, sessionID string) (Wizard, error) {
	return s.apply(ctx, sessionID, Back{})
}

func (s *service) Reset(ctx context.Context, sessionID string) (Wizard, error) {
	return s.apply(ctx, sessionID, Reset{})
}

func (s *service) Discard(ctx context.Context, sessionID string) error {
	return s.wizards.Delete(ctx, sessionID)
}

// Submit sends a confirmed booking to the backend. The draft is discarded on
// success and kept on failure so the user can retry. A submission in flight
// is not cancelled when the client goes away. Only one submission per session
// runs at a time; the wizard is read after the flag is held, so a late
// duplicate finds it already discarded.
func (s *service) Submit(ctx context.Context, sessionID string) (*Booking, error) {
	key := inflight.BookingKey(sessionID)
	if !s.busy.TryAcquire(key) {
		return nil, ErrBusy
	}
	defer s.busy.Release(key)

	w, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	confirmed, ok := w.(Confirmed)
	if !ok {
		return nil, ErrInvalidTransition
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	b, err := s.repo.Submit(ctx, confirmed.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn("booking submission failed",
			zap.String("car_id", confirmed.Payload.CarID),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.wizards.Delete(ctx, sessionID); err != nil {
		logger.FromContext(ctx).Warn("discard submitted booking draft", zap.Error(err))
	}
	return b, nil
}

// apply runs events in order inside one read-modify-write. If any event is
// rejected the stored wizard is left unchanged.
func (s *service) apply(ctx context.Context, sessionID string, events ...Event) (Wizard, error) {
	rec, err := s.wizards.Mutate(ctx, sessionID, func(r *record, found bool) error {
		if !found {
			return ErrNoWizard
		}
		w := r.wizard()
		for _, e := range events {
			next, err := Transition(w, e)
			if err != nil {
				return err
			}
			w = next
		}
		*r = toRecord(w)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec.wizard(), nil
}
