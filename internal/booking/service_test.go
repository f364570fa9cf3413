package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/car-rental-bff/internal/backend"
	"github.com/nekogravitycat/car-rental-bff/internal/car"
	"github.com/nekogravitycat/car-rental-bff/internal/db"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/inflight"
	"github.com/nekogravitycat/car-rental-bff/internal/search"
	"github.com/nekogravitycat/car-rental-bff/internal/session"
)

type carRepo struct{}

func (carRepo) ListPage(_ context.Context, _, pageSize int) (backend.Paged[*car.Car], error) {
	return backend.Paged[*car.Car]{
		Data:       []*car.Car{{ID: "car-1", PricePerDay: 800_000}},
		Pagination: backend.Pagination{PageNumber: 1, PageSize: pageSize, TotalRecords: 1, TotalPages: 1},
	}, nil
}

func (carRepo) Verify(context.Context, string) (*car.Car, error) { return nil, car.ErrNotFound }

func (carRepo) Edit(context.Context, string, car.EditRequest) (*car.Car, error) {
	return nil, car.ErrNotFound
}

type fakeRepository struct {
	mu        sync.Mutex
	err       error
	submitted []Payload

	// started and gate hold a submission open when set.
	started chan struct{}
	gate    chan struct{}
}

func (f *fakeRepository) Submit(ctx context.Context, p Payload) (*Booking, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.submitted = append(f.submitted, p)
	return &Booking{ID: "bk-1", CarID: p.CarID, Status: "pending"}, nil
}

func newTestService(t *testing.T) (Service, *fakeRepository) {
	t.Helper()
	bdb, err := db.OpenSessionDB(zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bdb.Close() })

	cars := car.NewService(carRepo{}, car.NewCatalog(carRepo{}, 10), search.DefaultLimits(), inflight.NewSet(), time.Second)
	repo := &fakeRepository{}
	svc := NewService(repo, cars, NewBucket(session.NewStore(bdb), time.Hour), inflight.NewSet(), 50_000, time.Second)
	return svc, repo
}

func fillDraft(t *testing.T, svc Service, sid string) {
	t.Helper()
	_, err := svc.Edit(context.Background(), sid, Patch{
		PickupDate:      ptr(pickup),
		ReturnDate:      ptr(pickup.Add(72 * time.Hour)),
		PickupLocation:  &Location{Province: "Khanh Hoa", District: "Nha Trang"},
		DropoffLocation: &Location{Province: "Khanh Hoa"},
	})
	require.NoError(t, err)
}

func TestServiceWizard(t *testing.T) {
	ctx := context.Background()

	t.Run("No wizard before start", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Get(ctx, "anon:1")
		assert.ErrorIs(t, err, ErrNoWizard)
		_, err = svc.Edit(ctx, "anon:1", Patch{})
		assert.ErrorIs(t, err, ErrNoWizard)
	})

	t.Run("Start needs a known car", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Start(ctx, "anon:1", "car-404")
		assert.ErrorIs(t, err, car.ErrNotFound)
	})

	t.Run("Next with an empty draft stays on the form", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Start(ctx, "anon:1", "car-1")
		require.NoError(t, err)

		w, err := svc.Next(ctx, "anon:1")
		require.NoError(t, err)
		form, ok := w.(CollectingDetails)
		require.True(t, ok)
		assert.Len(t, form.Errors, 4)

		stored, err := svc.Get(ctx, "anon:1")
		require.NoError(t, err)
		assert.Equal(t, form, stored)
	})

	t.Run("Confirm, submit and discard", func(t *testing.T) {
		svc, repo := newTestService(t)
		_, err := svc.Start(ctx, "user:7", "car-1")
		require.NoError(t, err)
		fillDraft(t, svc, "user:7")

		w, err := svc.Next(ctx, "user:7")
		require.NoError(t, err)
		confirmed, ok := w.(Confirmed)
		require.True(t, ok)
		assert.Equal(t, 3, confirmed.Estimate.Days)
		assert.Equal(t, 3*800_000+50_000, confirmed.Estimate.Total)

		b, err := svc.Submit(ctx, "user:7")
		require.NoError(t, err)
		assert.Equal(t, "bk-1", b.ID)
		require.Len(t, repo.submitted, 1)
		assert.Equal(t, "Nha Trang, Khanh Hoa", repo.submitted[0].PickupLocation)

		_, err = svc.Get(ctx, "user:7")
		assert.ErrorIs(t, err, ErrNoWizard)
	})

	t.Run("Submit before confirmation is rejected", func(t *testing.T) {
		svc, repo := newTestService(t)
		_, err := svc.Start(ctx, "user:7", "car-1")
		require.NoError(t, err)

		_, err = svc.Submit(ctx, "user:7")
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Empty(t, repo.submitted)
	})

	t.Run("Failed submission keeps the draft", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.err = &backend.Error{Status: 503, Path: "bookings", Message: "down"}
		_, err := svc.Start(ctx, "user:7", "car-1")
		require.NoError(t, err)
		fillDraft(t, svc, "user:7")
		_, err = svc.Next(ctx, "user:7")
		require.NoError(t, err)

		_, err = svc.Submit(ctx, "user:7")
		assert.Error(t, err)

		w, err := svc.Get(ctx, "user:7")
		require.NoError(t, err)
		assert.Equal(t, StepConfirmed, w.Step())
	})

	t.Run("Back and reset", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Start(ctx, "anon:2", "car-1")
		require.NoError(t, err)
		fillDraft(t, svc, "anon:2")
		_, err = svc.Next(ctx, "anon:2")
		require.NoError(t, err)

		w, err := svc.Back(ctx, "anon:2")
		require.NoError(t, err)
		assert.Equal(t, StepCollectingDetails, w.Step())

		_, err = svc.Back(ctx, "anon:2")
		assert.ErrorIs(t, err, ErrInvalidTransition)

		w, err = svc.Reset(ctx, "anon:2")
		require.NoError(t, err)
		assert.Equal(t, Start("car-1"), w)

		require.NoError(t, svc.Discard(ctx, "anon:2"))
		require.NoError(t, svc.Discard(ctx, "anon:2"))
	})
}

func TestSubmitOncePerSession(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	repo.started = make(chan struct{}, 2)
	repo.gate = make(chan struct{})

	_, err := svc.Start(ctx, "user:9", "car-1")
	require.NoError(t, err)
	fillDraft(t, svc, "user:9")
	_, err = svc.Next(ctx, "user:9")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Submit(ctx, "user:9")
		assert.NoError(t, err)
	}()
	<-repo.started

	_, err = svc.Submit(ctx, "user:9")
	assert.ErrorIs(t, err, ErrBusy, "a second submit while the first is pending is rejected")

	close(repo.gate)
	wg.Wait()

	_, err = svc.Submit(ctx, "user:9")
	assert.ErrorIs(t, err, ErrNoWizard, "the draft is gone once it was submitted")
	assert.Len(t, repo.submitted, 1)
}
