//go:build linux && ice_iouring

// This file is only built with -tags ice_iouring. It swaps the default
// epoll readiness backend for a giouring-backed completion multiplexor.
// TCP/UDP/SSH operations still submit through the shared unix syscall path
// (see tcp_*_unix.go etc.) armed via Arm/Disarm, which this backend now
// serves with a real IORING_OP_POLL_ADD/POLL_REMOVE submission rather than
// falling back to epoll; the wait loop itself drains CQEs instead of
// calling epoll_wait, and the wake path posts a no-op SQE instead of
// writing an eventfd.
package mux

import (
	"sync"

	"github.com/pawelgaczynski/giouring"
	"golang.org/x/sys/unix"
)

// IOURing is an alternate Linux completion backend built on
// github.com/pawelgaczynski/giouring, grounded on the ring lifecycle
// (CreateRing / GetSQE / SubmitAndWait / PeekBatchCQE / CQAdvance)
// demonstrated for a similar event-loop shape elsewhere in the ecosystem.
type IOURing struct {
	ring *giouring.Ring

	mu    sync.Mutex
	armed map[int]uint64 // fd -> the poll SQE's user_data, needed by Disarm
}

// NewIOURing creates a ring-backed backend with the given submission queue
// depth.
func NewIOURing(entries uint32) (*IOURing, error) {
	ring, err := giouring.CreateRing(entries)
	if err != nil {
		return nil, err
	}
	return &IOURing{ring: ring, armed: make(map[int]uint64)}, nil
}

func (r *IOURing) Kind() Kind { return KindCompletionIOURing }

func (r *IOURing) Wait(ptrs []uintptr) (int, error) {
	cqes := make([]*giouring.CompletionQueueEvent, len(ptrs))
	for {
		if _, err := r.ring.SubmitAndWait(1); err != nil {
			return 0, err
		}
		n := r.ring.PeekBatchCQE(cqes)
		if n == 0 {
			continue
		}
		count := 0
		for i := uint32(0); i < n; i++ {
			cqe := cqes[i]
			if cqe.UserData != 0 {
				ptrs[count] = uintptr(cqe.UserData)
				count++
			}
		}
		r.ring.CQAdvance(n)
		return count, nil
	}
}

// Notify submits a no-op SQE carrying ptr as its user data, waking one
// blocked SubmitAndWait call.
func (r *IOURing) Notify(ptr uintptr) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sqe := r.getSQELocked()
	if sqe == nil {
		return ErrUnsupported
	}
	sqe.PrepareNop()
	sqe.UserData = uint64(ptr)
	_, err := r.ring.Submit()
	return err
}

// Arm submits an IORING_OP_POLL_ADD for fd, tagged with ptr, so the next
// Wait reports ptr once fd becomes readable/writable. One-shot: the poll
// request is consumed by its completion, matching the epoll backend's
// EPOLLONESHOT registration.
func (r *IOURing) Arm(fd int, op Op, ptr uintptr) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sqe := r.getSQELocked()
	if sqe == nil {
		return ErrUnsupported
	}
	mask := uint32(unix.POLLIN)
	if op == OpWrite {
		mask = uint32(unix.POLLOUT)
	}
	sqe.PreparePollAdd(int32(fd), mask)
	sqe.UserData = uint64(ptr)
	r.armed[fd] = uint64(ptr)
	_, err := r.ring.Submit()
	return err
}

// Disarm submits an IORING_OP_POLL_REMOVE against the armed poll request's
// user_data, if one is still outstanding for fd.
func (r *IOURing) Disarm(fd int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.armed[fd]
	if !ok {
		return nil
	}
	delete(r.armed, fd)
	sqe := r.getSQELocked()
	if sqe == nil {
		return ErrUnsupported
	}
	sqe.PreparePollRemove(target)
	_, err := r.ring.Submit()
	return err
}

// getSQELocked returns a free submission queue entry, submitting the
// current batch once to free one up if the queue is full. Caller holds mu.
func (r *IOURing) getSQELocked() *giouring.SubmissionQueueEntry {
	sqe := r.ring.GetSQE()
	if sqe != nil {
		return sqe
	}
	if _, err := r.ring.Submit(); err != nil {
		return nil
	}
	return r.ring.GetSQE()
}

func (r *IOURing) Close() error {
	r.ring.QueueExit()
	return nil
}

var _ Multiplexor = (*IOURing)(nil)
