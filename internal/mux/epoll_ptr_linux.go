//go:build linux

package mux

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// epoll_event's data union is 8 bytes; golang.org/x/sys/unix exposes it as
// adjacent Fd/Pad int32 fields. Treating their combined 8 bytes as a
// uintptr is the same trick used by Go's own runtime netpoller to stash an
// opaque pointer in epoll_data_t.
func setEpollEventPtr(ev *unix.EpollEvent, ptr uintptr) {
	*(*uintptr)(unsafe.Pointer(&ev.Fd)) = ptr
}

func epollEventPtr(ev unix.EpollEvent) uintptr {
	return *(*uintptr)(unsafe.Pointer(&ev.Fd))
}
