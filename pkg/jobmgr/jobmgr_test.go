package jobmgr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type reports struct {
	mu  sync.Mutex
	got []string
}

func (r *reports) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, s)
}

func (r *reports) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}

func blockUntilDone(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestStartAsyncAndStop(t *testing.T) {
	defer goleak.VerifyNone(t)
	r := &reports{}
	jm := NewManager(context.Background(), r.add)

	require.NoError(t, jm.StartAsync("watch", blockUntilDone))
	require.NoError(t, jm.StartAsync("metrics", blockUntilDone))
	assert.ErrorIs(t, jm.StartAsync("watch", blockUntilDone), ErrRunning)
	assert.Equal(t, []string{"metrics", "watch"}, jm.List())
	assert.Equal(t, "Running jobs: metrics, watch", jm.Status())

	require.NoError(t, jm.Stop("watch"))
	assert.ErrorIs(t, jm.Stop("watch"), ErrNotRunning)
	assert.Equal(t, []string{"metrics"}, jm.List())

	jm.StopAll()
	assert.Equal(t, "No jobs are running.", jm.Status())
	assert.ErrorIs(t, jm.StartAsync("late", blockUntilDone), ErrClosed)
	assert.Contains(t, r.all(), "done:watch")
	assert.Contains(t, r.all(), "done:metrics")
}

func TestJobErrorsAreReported(t *testing.T) {
	defer goleak.VerifyNone(t)
	r := &reports{}
	jm := NewManager(context.Background(), r.add)

	err := jm.StartSync("once", func(context.Context) error { return errors.New("bind failed") })
	assert.EqualError(t, err, "bind failed")
	assert.Equal(t, []string{"running:once", "error:once:bind failed"}, r.all())
}

func TestParentCancellationStopsJobs(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx, cancel := context.WithCancel(context.Background())
	jm := NewManager(ctx, nil)
	require.NoError(t, jm.StartAsync("watch", blockUntilDone))

	cancel()
	assert.Eventually(t, func() bool { return len(jm.List()) == 0 }, time.Second, 10*time.Millisecond)
	jm.StopAll()
}
