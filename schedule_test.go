package ice

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScheduleResumesOnWorker(t *testing.T) {
	ctx, err := New(DefaultOptions())
	require.NoError(t, err)
	defer ctx.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx.Run()
	}()
	time.Sleep(10 * time.Millisecond)

	resumed := make(chan struct{})
	go func() {
		Schedule(ctx)
		close(resumed)
	}()

	select {
	case <-resumed:
	case <-time.After(2 * time.Second):
		t.Fatal("Schedule never resumed")
	}

	ctx.Stop()
	wg.Wait()
}

func TestScheduleMultipleCallersAllResume(t *testing.T) {
	ctx, err := New(DefaultOptions())
	require.NoError(t, err)
	defer ctx.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			ctx.Run()
		}()
	}
	time.Sleep(10 * time.Millisecond)

	const callers = 8
	var resumed sync.WaitGroup
	resumed.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer resumed.Done()
			Schedule(ctx)
		}()
	}

	done := make(chan struct{})
	go func() { resumed.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("not every Schedule call resumed")
	}

	ctx.Stop()
	wg.Wait()
}
