package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/car-rental-bff/internal/account"
	"github.com/nekogravitycat/car-rental-bff/internal/backend"
	"github.com/nekogravitycat/car-rental-bff/internal/car"
	"github.com/nekogravitycat/car-rental-bff/internal/listing"
	"github.com/nekogravitycat/car-rental-bff/internal/notification"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/inflight"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/logger"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/metrics"
)

type Service interface {
	ListCars(ctx context.Context, pageNumber, pageSize int) (listing.Page[CarRow], error)
	ListAccounts(ctx context.Context, filter account.Filter) (listing.Page[AccountRow], error)

	RequestApproveCar(ctx context.Context, sessionID, carID string) (Dialog, error)
	RequestToggleAccount(ctx context.Context, sessionID, accountID string, isActive bool) (Dialog, error)
	Confirm(ctx context.Context, sessionID, dialogID string) (Outcome, error)
	Cancel(ctx context.Context, sessionID, dialogID string) error
}

type service struct {
	cars          car.Service
	accounts      *account.Directory
	notifications notification.Service
	dialogs       *Dialogs
	busy          *inflight.Set
	metrics       *metrics.Metrics
	timeout       time.Duration
}

func NewService(
	cars car.Service,
	accounts *account.Directory,
	notifications notification.Service,
	dialogs *Dialogs,
	busy *inflight.Set,
	m *metrics.Metrics,
	timeout time.Duration,
) Service {
	return &service{
		cars:          cars,
		accounts:      accounts,
		notifications: notifications,
		dialogs:       dialogs,
		busy:          busy,
		metrics:       m,
		timeout:       timeout,
	}
}

// ListCars returns the verification queue with busy flags.
func (s *service) ListCars(ctx context.Context, pageNumber, pageSize int) (listing.Page[CarRow], error) {
	page, err := s.cars.ListPending(ctx, pageNumber, pageSize)
	if err != nil {
		return listing.Page[CarRow]{}, err
	}

	rows := make([]CarRow, len(page.Items))
	for i, c := range page.Items {
		rows[i] = CarRow{Car: c, Busy: s.busy.Busy(inflight.CarKey(c.ID))}
	}
	return listing.Page[CarRow]{Items: rows, Pagination: page.Pagination}, nil
}

func (s *service) ListAccounts(ctx context.Context, filter account.Filter) (listing.Page[AccountRow], error) {
	page, err := s.accounts.List(ctx, filter)
	if err != nil {
		return listing.Page[AccountRow]{}, err
	}

	rows := make([]AccountRow, len(page.Items))
	for i, a := range page.Items {
		rows[i] = AccountRow{Account: a, Busy: s.busy.Busy(inflight.AccountKey(a.ID))}
	}
	return listing.Page[AccountRow]{Items: rows, Pagination: page.Pagination}, nil
}

func (s *service) RequestApproveCar(ctx context.Context, sessionID, carID string) (Dialog, error) {
	c, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		return Dialog{}, err
	}
	if c.Status == car.StatusVerified {
		return Dialog{}, ErrNoChange
	}
	if s.busy.Busy(inflight.CarKey(carID)) {
		return Dialog{}, ErrBusy
	}

	d := Dialog{
		Title:       "Approve car",
		Description: fmt.Sprintf("Approve %q? It becomes visible to renters right away.", c.Name),
		Action:      ActionApproveCar,
		Variant:     VariantDefault,
		EntityID:    carID,
	}
	return s.dialogs.Open(sessionID, d, func(ctx context.Context) (string, error) {
		verified, err := s.cars.Verify(ctx, carID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s is now verified", verified.Name), nil
	}), nil
}

func (s *service) RequestToggleAccount(ctx context.Context, sessionID, accountID string, isActive bool) (Dialog, error) {
	a, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return Dialog{}, err
	}
	if a.IsActive == isActive {
		return Dialog{}, ErrNoChange
	}
	if s.busy.Busy(inflight.AccountKey(accountID)) {
		return Dialog{}, ErrBusy
	}

	d := Dialog{
		Title:       "Activate account",
		Description: fmt.Sprintf("Activate %s? The user can sign in again.", a.Email),
		Action:      ActionActivateAccount,
		Variant:     VariantDefault,
		EntityID:    accountID,
	}
	verb := "activated"
	if !isActive {
		d.Title = "Deactivate account"
		d.Description = fmt.Sprintf("Deactivate %s? The user will no longer be able to sign in.", a.Email)
		d.Action = ActionDeactivateAccount
		d.Variant = VariantDestructive
		verb = "deactivated"
	}

	return s.dialogs.Open(sessionID, d, func(ctx context.Context) (string, error) {
		updated, err := s.accounts.ToggleStatus(ctx, accountID, isActive)
		if err != nil {
			return "", err
		}
		if updated.Email == "" {
			updated.Email = a.Email
		}
		return fmt.Sprintf("%s has been %s", updated.Email, verb), nil
	}), nil
}

// Confirm runs the dialog's mutation. The dialog is closed whatever the
// outcome; the cache only changes when the backend accepted the change.
func (s *service) Confirm(ctx context.Context, sessionID, dialogID string) (Outcome, error) {
	d, ok := s.dialogs.Get(sessionID, dialogID)
	if !ok {
		return Outcome{}, ErrDialogNotFound
	}

	key := d.busyKey()
	if !s.busy.TryAcquire(key) {
		return Outcome{}, ErrBusy
	}
	defer s.busy.Release(key)

	d, commit, ok := s.dialogs.Take(sessionID, dialogID)
	if !ok {
		return Outcome{}, ErrDialogNotFound
	}

	// The mutation outlives the request: a client that disconnects does not abort it.
	detached := context.WithoutCancel(ctx)
	commitCtx, cancel := context.WithTimeout(detached, s.timeout)
	defer cancel()

	done := s.metrics.MutationStarted(string(d.Action))
	msg, err := commit(commitCtx)
	done(err)

	log := logger.FromContext(ctx).With(
		zap.String("action", string(d.Action)),
		zap.String("entity_id", d.EntityID),
	)
	if err != nil {
		log.Warn("admin mutation failed", zap.Error(err))
		s.notify(detached, sessionID, notification.KindError, d.Title+" failed", failureMessage(err))
		return Outcome{}, err
	}

	log.Info("admin mutation succeeded")
	s.notify(detached, sessionID, notification.KindSuccess, d.Title, msg)
	return Outcome{Dialog: d, Message: msg}, nil
}

func (s *service) Cancel(_ context.Context, sessionID, dialogID string) error {
	if _, ok := s.dialogs.Cancel(sessionID, dialogID); !ok {
		return ErrDialogNotFound
	}
	return nil
}

func (s *service) notify(ctx context.Context, sessionID string, kind notification.Kind, title, message string) {
	if _, err := s.notifications.Push(ctx, sessionID, kind, title, message); err != nil {
		logger.FromContext(ctx).Error("failed to queue notification", zap.Error(err))
	}
}

func failureMessage(err error) string {
	var beErr *backend.Error
	if errors.As(err, &beErr) {
		return beErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "the server took too long to respond"
	}
	return "something went wrong, please try again"
}
