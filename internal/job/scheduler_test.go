package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSchedulerAddRejectsBadSpec(t *testing.T) {
	s := NewScheduler(zap.NewNop(), time.Second)
	err := s.Add("every five minutes", "catalog", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestSchedulerRunOnce(t *testing.T) {
	s := NewScheduler(zap.NewNop(), time.Second)

	var order []string
	require.NoError(t, s.Add("@every 1h", "catalog", func(context.Context) error {
		order = append(order, "catalog")
		return errors.New("backend down")
	}))
	require.NoError(t, s.Add("@every 1h", "accounts", func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		order = append(order, "accounts")
		return nil
	}))

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"catalog", "accounts"}, order, "a failing job does not stop the rest")
}

func TestSchedulerRunsOnSchedule(t *testing.T) {
	s := NewScheduler(zap.NewNop(), time.Second)

	var runs atomic.Int32
	done := make(chan struct{}, 1)
	require.NoError(t, s.Add("@every 1s", "sweep", func(context.Context) error {
		if runs.Add(1) == 1 {
			done <- struct{}{}
		}
		return nil
	}))

	s.Start()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
