//go:build linux

package mux

import (
	"sync"

	"golang.org/x/sys/unix"
)

// Epoll is the default Linux backend: one-shot EPOLLIN/EPOLLOUT
// registration per operation, plus a dedicated eventfd used purely as the
// wake/interrupt channel, mirroring the original's
// epoll_create1 + eventfd(EFD_NONBLOCK) + EPOLL_CTL_ADD(wake, EPOLLONESHOT)
// pairing.
type Epoll struct {
	epfd int
	wake int

	mu      sync.Mutex
	pending []uintptr
}

// NewEpoll creates an Epoll backend.
func NewEpoll() (*Epoll, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, err
	}
	wake, err := unix.Eventfd(0, unix.EFD_NONBLOCK)
	if err != nil {
		unix.Close(epfd)
		return nil, err
	}
	e := &Epoll{epfd: epfd, wake: wake}
	ev := unix.EpollEvent{Events: unix.EPOLLIN | unix.EPOLLONESHOT, Fd: int32(wake)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wake, &ev); err != nil {
		unix.Close(wake)
		unix.Close(epfd)
		return nil, err
	}
	return e, nil
}

func (e *Epoll) Kind() Kind { return KindReadinessEpoll }

func (e *Epoll) Wait(ptrs []uintptr) (int, error) {
	raw := make([]unix.EpollEvent, len(ptrs))
	for {
		n, err := unix.EpollWait(e.epfd, raw, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		count := 0
		wakeFired := false
		for i := 0; i < n; i++ {
			ev := raw[i]
			if int(ev.Fd) == e.wake {
				wakeFired = true
				continue
			}
			ptrs[count] = epollEventPtr(ev)
			count++
		}
		if wakeFired {
			var buf [8]byte
			unix.Read(e.wake, buf[:])
			// Every concurrent Notify call queued its own token; drain as
			// many as fit in ptrs and leave the rest pending for the next
			// Wait rather than delivering only the most recent one.
			e.mu.Lock()
			for count < len(ptrs) && len(e.pending) > 0 {
				ptr := e.pending[0]
				e.pending = e.pending[1:]
				if ptr != 0 {
					ptrs[count] = ptr
					count++
				}
			}
			leftover := len(e.pending) > 0
			e.mu.Unlock()
			if leftover {
				var one [8]byte
				one[0] = 1
				unix.Write(e.wake, one[:])
				ev := unix.EpollEvent{Events: unix.EPOLLIN | unix.EPOLLONESHOT, Fd: int32(e.wake)}
				unix.EpollCtl(e.epfd, unix.EPOLL_CTL_MOD, e.wake, &ev)
			}
		}
		return count, nil
	}
}

func (e *Epoll) Notify(ptr uintptr) error {
	e.mu.Lock()
	e.pending = append(e.pending, ptr)
	e.mu.Unlock()
	var one [8]byte
	one[0] = 1
	_, err := unix.Write(e.wake, one[:])
	// Re-arm the dedicated wake registration for the next interrupt.
	ev := unix.EpollEvent{Events: unix.EPOLLIN | unix.EPOLLONESHOT, Fd: int32(e.wake)}
	unix.EpollCtl(e.epfd, unix.EPOLL_CTL_MOD, e.wake, &ev)
	return err
}

func (e *Epoll) Arm(fd int, op Op, ptr uintptr) error {
	events := uint32(unix.EPOLLONESHOT)
	if op == OpRead {
		events |= unix.EPOLLIN
	} else {
		events |= unix.EPOLLOUT
	}
	ev := unix.EpollEvent{Events: events}
	setEpollEventPtr(&ev, ptr)
	if err := unix.EpollCtl(e.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err == unix.EEXIST {
		return unix.EpollCtl(e.epfd, unix.EPOLL_CTL_MOD, fd, &ev)
	} else if err != nil {
		return err
	}
	return nil
}

func (e *Epoll) Disarm(fd int) error {
	return unix.EpollCtl(e.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

func (e *Epoll) Close() error {
	unix.Close(e.wake)
	return unix.Close(e.epfd)
}

var _ Multiplexor = (*Epoll)(nil)
