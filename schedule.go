package ice

// scheduleEvent yields the calling goroutine back onto one of the
// Context's workers. Unlike every other operation it never completes
// synchronously: ready always reports false, so every call to Schedule
// performs exactly one suspend/resume round-trip.
type scheduleEvent struct {
	ctx *Context
}

func (e *scheduleEvent) ready() bool { return false }

// suspend posts a wake carrying this event's token instead of arming a
// file descriptor; the worker that observes it resumes this event inline,
// mirroring the original's schedule::suspend, which reuses the same
// completion-post / epoll-rearm / kevent-trigger path Context.Interrupt
// uses for a plain wake, just carrying a real event pointer instead of a
// null one.
func (e *scheduleEvent) suspend(token uintptr) bool {
	e.ctx.mux.Notify(token)
	return true
}

func (e *scheduleEvent) resume() bool { return true }

// Schedule yields the calling goroutine, handing it back to one of ctx's
// workers. There is no guarantee it resumes on the same worker it
// suspended from; this package always takes the uniform wake-and-resume
// path (see DESIGN.md's Open Question notes on the original's
// current-worker fast path).
func Schedule(ctx *Context) {
	ctx.await(&scheduleEvent{ctx: ctx})
}
