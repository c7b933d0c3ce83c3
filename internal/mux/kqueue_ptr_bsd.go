//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package mux

import "unsafe"

// udataOf packs an opaque pointer into the type unix.Kevent_t.Udata expects
// on this platform (*byte).
func udataOf(ptr uintptr) *byte {
	return (*byte)(unsafe.Pointer(ptr))
}

func udataPtr(p *byte) uintptr {
	return uintptr(unsafe.Pointer(p))
}
