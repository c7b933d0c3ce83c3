//go:build windows

package mux

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func unsafePointer(o *windows.Overlapped) uintptr {
	return uintptr(unsafe.Pointer(o))
}

func overlappedFromPtr(ptr uintptr) *windows.Overlapped {
	return (*windows.Overlapped)(unsafe.Pointer(ptr))
}
