package ice

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/ehrlich-b/go-ice/internal/logging"
	"github.com/ehrlich-b/go-ice/internal/mux"
)

const (
	stopRequestedFlag    uint64 = 1
	threadCountIncrement uint64 = 2
)

// Context owns one platform multiplexor handle and the cooperative
// stop/worker-count state machine every worker goroutine calling Run
// participates in. A Context is not copyable; always hold it behind a
// pointer.
type Context struct {
	mux  mux.Multiplexor
	opts Options

	state atomic.Uint64

	parkedMu sync.Mutex
	parked   map[event]*parkedEntry

	closeOnce sync.Once
}

// New creates a Context backed by the platform's native multiplexor
// (epoll on Linux by default, or an alternate io_uring backend when built
// with -tags ice_iouring; kqueue on BSD/Darwin; an I/O completion port on
// Windows).
func New(opts Options) (*Context, error) {
	opts = opts.withDefaults()
	m, err := newMultiplexor(opts)
	if err != nil {
		return nil, WrapError("context.new", err)
	}
	return &Context{
		mux:    m,
		opts:   opts,
		parked: make(map[event]*parkedEntry),
	}, nil
}

// Mux exposes the platform backend to the tcp_*.go and udp_*.go operation
// files in this package. Not part of the stable public surface.
func (c *Context) Mux() mux.Multiplexor { return c.mux }

func (c *Context) logger() *logging.Logger { return c.opts.Logger }

func (c *Context) observer() Observer { return c.opts.Observer }

// Run enters the Context's polling loop on the calling goroutine and does
// not return until Stop is called (or the multiplexor reports a fatal
// error). Call it from as many goroutines as desired to form a worker
// pool; each pins its own OS thread for the duration, matching the
// teacher's per-queue ioLoop shape.
func (c *Context) Run() error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	c.state.Add(threadCountIncrement)
	defer c.state.Add(^(threadCountIncrement - 1))

	ptrs := make([]uintptr, c.opts.EventBufferSize)
	c.logger().Debug("context: worker entering poll loop")
	for {
		n, err := c.mux.Wait(ptrs)
		if err != nil {
			c.logger().Error("context: poll wait failed", "error", err)
			c.Interrupt()
			return WrapError("context.run", err)
		}
		if n == 0 {
			if c.state.Load()&stopRequestedFlag != 0 {
				break
			}
			continue
		}
		for i := 0; i < n; i++ {
			c.wake(ptrs[i])
		}
	}
	c.logger().Debug("context: worker leaving poll loop")
	c.Interrupt()
	return nil
}

// Stop requests every worker currently inside Run to exit after its
// current wait returns. It reports whether no worker was active at the
// moment of the call (mirroring the original's thread_count == 0 return).
func (c *Context) Stop() bool {
	prev := c.setStopRequested()
	threadCount := prev / threadCountIncrement
	c.Interrupt()
	return threadCount == 0
}

// setStopRequested atomically sets the stop-requested bit and returns the
// state word as it was immediately before the set, the same
// fetch-then-or the original expresses with a single atomic instruction.
func (c *Context) setStopRequested() uint64 {
	for {
		cur := c.state.Load()
		if cur&stopRequestedFlag != 0 {
			return cur
		}
		if c.state.CompareAndSwap(cur, cur|stopRequestedFlag) {
			return cur
		}
	}
}

// Interrupt posts one pointer-less wake without requesting a stop; the
// worker that receives it loops back into the wait call unless Stop was
// also called. A worker leaving Run calls Interrupt again, which is how a
// Stop reaches every worker in turn.
func (c *Context) Interrupt() {
	c.mux.Notify(0)
}

// Close releases the Context's underlying kernel handle(s). Call it only
// after every Run call has returned.
func (c *Context) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.mux.Close()
	})
	return err
}
