package ice

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestContextRunStop(t *testing.T) {
	ctx, err := New(DefaultOptions())
	require.NoError(t, err)
	defer ctx.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		require.NoError(t, ctx.Run())
	}()

	// Give the worker a moment to enter its wait call before stopping it.
	time.Sleep(10 * time.Millisecond)
	stoppedWithNoWorkers := ctx.Stop()
	require.False(t, stoppedWithNoWorkers)

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestContextStopWithNoWorkersReportsTrue(t *testing.T) {
	ctx, err := New(DefaultOptions())
	require.NoError(t, err)
	defer ctx.Close()

	require.True(t, ctx.Stop())
}

func TestContextMultipleWorkersAllExitOnStop(t *testing.T) {
	ctx, err := New(DefaultOptions())
	require.NoError(t, err)
	defer ctx.Close()

	const workers = 4
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			require.NoError(t, ctx.Run())
		}()
	}

	time.Sleep(10 * time.Millisecond)
	ctx.Stop()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("not all workers exited after Stop")
	}
}
