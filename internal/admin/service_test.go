package admin

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/car-rental-bff/internal/account"
	"github.com/nekogravitycat/car-rental-bff/internal/backend"
	"github.com/nekogravitycat/car-rental-bff/internal/car"
	"github.com/nekogravitycat/car-rental-bff/internal/db"
	"github.com/nekogravitycat/car-rental-bff/internal/notification"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/inflight"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/metrics"
	"github.com/nekogravitycat/car-rental-bff/internal/search"
	"github.com/nekogravitycat/car-rental-bff/internal/session"
)

var t0 = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

type carRepo struct {
	mu        sync.Mutex
	verifyErr error
	started   chan struct{}
	gate      chan struct{}
	verified  []string
}

func (r *carRepo) ListPage(_ context.Context, _, pageSize int) (backend.Paged[*car.Car], error) {
	return backend.Paged[*car.Car]{
		Data: []*car.Car{
			{ID: "car-1", Name: "VinFast VF8", Status: car.StatusPending, CreatedAt: t0.Add(time.Hour)},
			{ID: "car-2", Name: "Toyota Vios", Status: car.StatusVerified, CreatedAt: t0},
			{ID: "car-3", Name: "Kia Morning", Status: car.StatusPending, CreatedAt: t0},
		},
		Pagination: backend.Pagination{PageNumber: 1, PageSize: pageSize, TotalRecords: 3, TotalPages: 1},
	}, nil
}

func (r *carRepo) Verify(_ context.Context, id string) (*car.Car, error) {
	if r.started != nil {
		r.started <- struct{}{}
	}
	if r.gate != nil {
		<-r.gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.verifyErr != nil {
		return nil, r.verifyErr
	}
	r.verified = append(r.verified, id)
	return &car.Car{ID: id, Name: "VinFast VF8", Status: car.StatusVerified, CreatedAt: t0.Add(time.Hour)}, nil
}

func (r *carRepo) Edit(context.Context, string, car.EditRequest) (*car.Car, error) {
	return nil, car.ErrNotFound
}

type accountRepo struct {
	toggleErr error
}

func (r *accountRepo) ListPage(_ context.Context, _, pageSize int) (backend.Paged[*account.Account], error) {
	return backend.Paged[*account.Account]{
		Data: []*account.Account{
			{ID: "acc-1", Email: "lan@rent.test", IsActive: true, CreatedAt: t0},
			{ID: "acc-2", Email: "minh@rent.test", IsActive: false, CreatedAt: t0.Add(time.Hour)},
		},
		Pagination: backend.Pagination{PageNumber: 1, PageSize: pageSize, TotalRecords: 2, TotalPages: 1},
	}, nil
}

func (r *accountRepo) ToggleStatus(_ context.Context, _ string, isActive bool) (bool, error) {
	if r.toggleErr != nil {
		return false, r.toggleErr
	}
	return isActive, nil
}

type fixture struct {
	svc      Service
	cars     car.Service
	carRepo  *carRepo
	accounts *account.Directory
	accRepo  *accountRepo
	toasts   notification.Service
	busy     *inflight.Set
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	bdb, err := db.OpenSessionDB(zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bdb.Close() })

	f := &fixture{
		carRepo: &carRepo{},
		accRepo: &accountRepo{},
		busy:    inflight.NewSet(),
	}
	f.cars = car.NewService(f.carRepo, car.NewCatalog(f.carRepo, 10), search.DefaultLimits(), f.busy, time.Second)
	f.accounts = account.NewDirectory(f.accRepo, 10)
	f.toasts = notification.NewService(session.NewStore(bdb), time.Minute)
	f.svc = NewService(f.cars, f.accounts, f.toasts, NewDialogs(time.Minute), f.busy, metrics.New(), time.Second)
	return f
}

func TestApproveCar(t *testing.T) {
	ctx := context.Background()

	t.Run("Confirmed approval reconciles the catalog", func(t *testing.T) {
		f := newFixture(t)
		d, err := f.svc.RequestApproveCar(ctx, "user:admin", "car-1")
		require.NoError(t, err)
		assert.True(t, d.IsOpen)
		assert.Equal(t, ActionApproveCar, d.Action)
		assert.Empty(t, f.carRepo.verified, "opening a dialog sends nothing")

		out, err := f.svc.Confirm(ctx, "user:admin", d.ID)
		require.NoError(t, err)
		assert.False(t, out.Dialog.IsOpen)
		assert.Equal(t, "VinFast VF8 is now verified", out.Message)

		c, err := f.cars.GetByID(ctx, "car-1")
		require.NoError(t, err)
		assert.Equal(t, car.StatusVerified, c.Status)

		toasts, err := f.toasts.Drain(ctx, "user:admin")
		require.NoError(t, err)
		require.Len(t, toasts, 1)
		assert.Equal(t, notification.KindSuccess, toasts[0].Kind)

		_, err = f.svc.Confirm(ctx, "user:admin", d.ID)
		assert.ErrorIs(t, err, ErrDialogNotFound, "a dialog runs once")
	})

	t.Run("Backend failure leaves the car pending", func(t *testing.T) {
		f := newFixture(t)
		f.carRepo.verifyErr = &backend.Error{Status: 500, Path: "car/verify-car", Message: "verification service unavailable"}

		d, err := f.svc.RequestApproveCar(ctx, "user:admin", "car-1")
		require.NoError(t, err)

		_, err = f.svc.Confirm(ctx, "user:admin", d.ID)
		require.Error(t, err)

		c, err := f.cars.GetByID(ctx, "car-1")
		require.NoError(t, err)
		assert.Equal(t, car.StatusPending, c.Status)

		toasts, err := f.toasts.Drain(ctx, "user:admin")
		require.NoError(t, err)
		require.Len(t, toasts, 1)
		assert.Equal(t, notification.KindError, toasts[0].Kind)
		assert.Equal(t, "verification service unavailable", toasts[0].Message)

		assert.False(t, f.busy.Busy(inflight.CarKey("car-1")))
		page, err := f.svc.ListCars(ctx, 1, 10)
		require.NoError(t, err)
		for _, row := range page.Items {
			assert.False(t, row.Busy)
		}
	})

	t.Run("Already verified cars need no dialog", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.RequestApproveCar(ctx, "user:admin", "car-2")
		assert.ErrorIs(t, err, ErrNoChange)
	})

	t.Run("Unknown car", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.RequestApproveCar(ctx, "user:admin", "car-404")
		assert.ErrorIs(t, err, car.ErrNotFound)
	})

	t.Run("Dialogs belong to their session", func(t *testing.T) {
		f := newFixture(t)
		d, err := f.svc.RequestApproveCar(ctx, "user:admin", "car-1")
		require.NoError(t, err)

		_, err = f.svc.Confirm(ctx, "user:other", d.ID)
		assert.ErrorIs(t, err, ErrDialogNotFound)
	})

	t.Run("Cancel closes without calling the backend", func(t *testing.T) {
		f := newFixture(t)
		d, err := f.svc.RequestApproveCar(ctx, "user:admin", "car-1")
		require.NoError(t, err)

		require.NoError(t, f.svc.Cancel(ctx, "user:admin", d.ID))
		assert.ErrorIs(t, f.svc.Cancel(ctx, "user:admin", d.ID), ErrDialogNotFound)
		_, err = f.svc.Confirm(ctx, "user:admin", d.ID)
		assert.ErrorIs(t, err, ErrDialogNotFound)
		assert.Empty(t, f.carRepo.verified)
	})
}

func TestConfirmBusyFlags(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.carRepo.started = make(chan struct{}, 2)
	f.carRepo.gate = make(chan struct{})

	first, err := f.svc.RequestApproveCar(ctx, "user:admin", "car-1")
	require.NoError(t, err)
	second, err := f.svc.RequestApproveCar(ctx, "user:admin2", "car-1")
	require.NoError(t, err)
	other, err := f.svc.RequestApproveCar(ctx, "user:admin", "car-3")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := f.svc.Confirm(ctx, "user:admin", first.ID)
		assert.NoError(t, err)
	}()
	<-f.carRepo.started

	page, err := f.svc.ListCars(ctx, 1, 10)
	require.NoError(t, err)
	busy := map[string]bool{}
	for _, row := range page.Items {
		busy[row.ID] = row.Busy
	}
	assert.True(t, busy["car-1"])
	assert.False(t, busy["car-3"])

	_, err = f.svc.Confirm(ctx, "user:admin2", second.ID)
	assert.ErrorIs(t, err, ErrBusy, "duplicate submission for the same car")

	_, err = f.svc.RequestApproveCar(ctx, "user:admin2", "car-1")
	assert.ErrorIs(t, err, ErrBusy)

	go func() {
		defer wg.Done()
		_, err := f.svc.Confirm(ctx, "user:admin", other.ID)
		assert.NoError(t, err, "a different car is independent")
	}()
	<-f.carRepo.started

	close(f.carRepo.gate)
	wg.Wait()
	assert.False(t, f.busy.Busy(inflight.CarKey("car-1")))
	assert.False(t, f.busy.Busy(inflight.CarKey("car-3")))
}

func TestToggleAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("Deactivate is destructive and reconciles", func(t *testing.T) {
		f := newFixture(t)
		d, err := f.svc.RequestToggleAccount(ctx, "user:admin", "acc-1", false)
		require.NoError(t, err)
		assert.Equal(t, ActionDeactivateAccount, d.Action)
		assert.Equal(t, VariantDestructive, d.Variant)

		out, err := f.svc.Confirm(ctx, "user:admin", d.ID)
		require.NoError(t, err)
		assert.Equal(t, "lan@rent.test has been deactivated", out.Message)

		a, err := f.accounts.Get(ctx, "acc-1")
		require.NoError(t, err)
		assert.False(t, a.IsActive)
	})

	t.Run("Requesting the current state is rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.RequestToggleAccount(ctx, "user:admin", "acc-2", false)
		assert.ErrorIs(t, err, ErrNoChange)
	})

	t.Run("Failure keeps the old flag and queues a toast", func(t *testing.T) {
		f := newFixture(t)
		f.accRepo.toggleErr = &backend.Error{Status: 502, Path: "account/toggle-status", Message: "bad gateway"}

		d, err := f.svc.RequestToggleAccount(ctx, "user:admin", "acc-2", true)
		require.NoError(t, err)
		assert.Equal(t, ActionActivateAccount, d.Action)

		_, err = f.svc.Confirm(ctx, "user:admin", d.ID)
		require.Error(t, err)

		page, err := f.svc.ListAccounts(ctx, account.Filter{})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.False(t, page.Items[1].IsActive)
		assert.False(t, page.Items[1].Busy)

		toasts, err := f.toasts.Drain(ctx, "user:admin")
		require.NoError(t, err)
		require.Len(t, toasts, 1)
		assert.Equal(t, "Activate account failed", toasts[0].Title)
	})
}

func TestDialogsExpire(t *testing.T) {
	now := t0
	r := NewDialogs(time.Minute)
	r.now = func() time.Time { return now }

	d := r.Open("s1", Dialog{Action: ActionApproveCar, EntityID: "car-1"}, nil)
	r.Open("s2", Dialog{Action: ActionApproveCar, EntityID: "car-2"}, nil)

	got, ok := r.Get("s1", d.ID)
	require.True(t, ok)
	assert.True(t, got.IsOpen)

	now = now.Add(2 * time.Minute)
	_, ok = r.Get("s1", d.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 0, r.Sweep())
}
