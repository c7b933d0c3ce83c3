//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package mux

import (
	"sync"

	"golang.org/x/sys/unix"
)

// Kqueue is the BSD/Darwin readiness backend: one-shot EVFILT_READ /
// EVFILT_WRITE registrations carrying the event pointer as udata, plus a
// single EVFILT_USER registration used purely to wake blocked callers,
// mirroring the original's kqueue() + EV_SET(..., EVFILT_USER, EV_ADD |
// EV_CLEAR, ...) pairing. EVFILT_USER only ever carries the most recently
// triggered udata, so concurrent Notify callers (Schedule in particular)
// queue their tokens here instead of relying on the kernel to remember more
// than one.
type Kqueue struct {
	kq int

	mu      sync.Mutex
	pending []uintptr
}

// NewKqueue creates a Kqueue backend.
func NewKqueue() (*Kqueue, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	k := &Kqueue{kq: kq}
	ev := unix.Kevent_t{}
	unix.SetKevent(&ev, 0, unix.EVFILT_USER, unix.EV_ADD|unix.EV_CLEAR)
	if _, err := unix.Kevent(kq, []unix.Kevent_t{ev}, nil, nil); err != nil {
		unix.Close(kq)
		return nil, err
	}
	return k, nil
}

func (k *Kqueue) Kind() Kind { return KindReadinessKqueue }

func (k *Kqueue) Wait(ptrs []uintptr) (int, error) {
	raw := make([]unix.Kevent_t, len(ptrs))
	for {
		n, err := unix.Kevent(k.kq, nil, raw, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		count := 0
		userFired := false
		for i := 0; i < n; i++ {
			ev := raw[i]
			if ev.Filter == unix.EVFILT_USER {
				userFired = true
				continue
			}
			ptrs[count] = udataPtr(ev.Udata)
			count++
		}
		if userFired {
			// The EVFILT_USER trigger itself only ever carries the last
			// Notify call's udata, so every token actually delivered came
			// through the pending queue instead; drain as many as fit and
			// re-trigger to pick up the rest on the next Wait.
			k.mu.Lock()
			for count < len(ptrs) && len(k.pending) > 0 {
				ptr := k.pending[0]
				k.pending = k.pending[1:]
				if ptr != 0 {
					ptrs[count] = ptr
					count++
				}
			}
			leftover := len(k.pending) > 0
			k.mu.Unlock()
			if leftover {
				ev := unix.Kevent_t{}
				unix.SetKevent(&ev, 0, unix.EVFILT_USER, 0)
				ev.Fflags = unix.NOTE_TRIGGER
				unix.Kevent(k.kq, []unix.Kevent_t{ev}, nil, nil)
			}
		}
		return count, nil
	}
}

func (k *Kqueue) Notify(ptr uintptr) error {
	k.mu.Lock()
	k.pending = append(k.pending, ptr)
	k.mu.Unlock()
	ev := unix.Kevent_t{}
	unix.SetKevent(&ev, 0, unix.EVFILT_USER, 0)
	ev.Fflags = unix.NOTE_TRIGGER
	_, err := unix.Kevent(k.kq, []unix.Kevent_t{ev}, nil, nil)
	return err
}

func (k *Kqueue) Arm(fd int, op Op, ptr uintptr) error {
	filter := int16(unix.EVFILT_READ)
	if op == OpWrite {
		filter = unix.EVFILT_WRITE
	}
	ev := unix.Kevent_t{}
	unix.SetKevent(&ev, fd, int(filter), unix.EV_ADD|unix.EV_ONESHOT)
	ev.Udata = udataOf(ptr)
	_, err := unix.Kevent(k.kq, []unix.Kevent_t{ev}, nil, nil)
	return err
}

func (k *Kqueue) Disarm(fd int) error {
	for _, filter := range []int16{unix.EVFILT_READ, unix.EVFILT_WRITE} {
		ev := unix.Kevent_t{}
		unix.SetKevent(&ev, fd, int(filter), unix.EV_DELETE)
		unix.Kevent(k.kq, []unix.Kevent_t{ev}, nil, nil)
	}
	return nil
}

func (k *Kqueue) Close() error {
	return unix.Close(k.kq)
}

var _ Multiplexor = (*Kqueue)(nil)
