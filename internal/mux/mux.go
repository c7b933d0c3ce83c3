// Package mux provides the thin, family-specific kernel I/O selection
// wrapper the runtime's Context is built on: create, wait, wake, arm,
// disarm. One of three kernel primitives backs it on any given platform —
// epoll readiness, kqueue readiness, or an IOCP completion port — plus an
// optional io_uring completion backend on Linux.
package mux

import "errors"

// ErrUnsupported is returned by IOCP's Arm/Disarm, which never register
// readiness interest, and by IOURing when no submission queue entry can be
// obtained.
var ErrUnsupported = errors.New("mux: operation unsupported on this backend")

// Kind identifies which kernel primitive a Multiplexor is built on.
type Kind int

const (
	KindReadinessEpoll Kind = iota
	KindReadinessKqueue
	KindCompletionIOCP
	KindCompletionIOURing
)

func (k Kind) String() string {
	switch k {
	case KindReadinessEpoll:
		return "epoll"
	case KindReadinessKqueue:
		return "kqueue"
	case KindCompletionIOCP:
		return "iocp"
	case KindCompletionIOURing:
		return "io_uring"
	default:
		return "unknown"
	}
}

// Multiplexor is the common surface every backend satisfies. Readiness
// backends (epoll, kqueue) implement Arm/Disarm against the fd directly;
// IOURing also implements them meaningfully (IORING_OP_POLL_ADD/REMOVE),
// since the unix op event files call Arm/Disarm regardless of which Linux
// backend is active. Only IOCP returns ErrUnsupported from Arm/Disarm: its
// operations submit completions directly through Notify instead.
type Multiplexor interface {
	// Kind reports which kernel primitive backs this Multiplexor.
	Kind() Kind

	// Wait blocks until at least one entry is ready (or the Multiplexor is
	// woken) and fills ptrs with the opaque event pointers observed,
	// returning how many were written. A woken call with nothing to report
	// returns (0, nil): the caller checks its own stop condition.
	Wait(ptrs []uintptr) (int, error)

	// Notify posts a wake carrying ptr (0 for a pure interrupt, non-zero to
	// have a worker resume the event at ptr inline).
	Notify(ptr uintptr) error

	// Arm registers one-shot interest in fd for op, tagging the
	// registration with ptr. IOCP returns ErrUnsupported.
	Arm(fd int, op Op, ptr uintptr) error

	// Disarm removes any registered interest in fd. IOCP returns
	// ErrUnsupported.
	Disarm(fd int) error

	// Close releases the underlying kernel handle(s).
	Close() error
}

// Op identifies the direction of readiness interest requested via Arm.
type Op uint8

const (
	OpRead Op = iota
	OpWrite
)
