package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestPool_RunsEveryJob(t *testing.T) {
	var ran int32
	jobs := make([]Job, 25)
	for i := range jobs {
		jobs[i] = Job{Name: fmt.Sprintf("job-%d", i), Run: func(ctx context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		}}
	}

	require.NoError(t, NewPool(4).Run(context.Background(), jobs))
	assert.Equal(t, int32(25), atomic.LoadInt32(&ran))
}

func TestPool_CombinesErrors(t *testing.T) {
	boom := errors.New("boom")
	jobs := []Job{
		{Name: "ok", Run: func(context.Context) error { return nil }},
		{Name: "first", Run: func(context.Context) error { return boom }},
		{Name: "second", Run: func(context.Context) error { return boom }},
	}

	err := NewPool(2).Run(context.Background(), jobs)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorIs(t, err, boom)
}

func TestPool_RecoversPanics(t *testing.T) {
	jobs := []Job{{Name: "bad", Run: func(context.Context) error { panic("nil map") }}}

	err := NewPool(1).Run(context.Background(), jobs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad panicked")
}

func TestPool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int32
	jobs := []Job{
		{Name: "a", Run: func(context.Context) error { atomic.AddInt32(&ran, 1); return nil }},
		{Name: "b", Run: func(context.Context) error { atomic.AddInt32(&ran, 1); return nil }},
	}

	err := NewPool(0).Run(ctx, jobs)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, atomic.LoadInt32(&ran))
}

func TestPool_NoJobs(t *testing.T) {
	assert.NoError(t, NewPool(3).Run(context.Background(), nil))
}
