//go:build windows

package mux

import "golang.org/x/sys/windows"

// IOCP is the Windows completion backend, mirroring the original's
// CreateIoCompletionPort(INVALID_HANDLE_VALUE, ...) + GetQueuedCompletionStatus
// pairing. Associate can register a socket handle with the port, but the
// TCP/UDP op event files do not call it: they post their own completions through
// Notify from a polling goroutine rather than submitting real overlapped
// WSARecv/WSASend/AcceptEx/ConnectEx requests — see DESIGN.md's Open
// Question on the Windows backend. Arm/Disarm are unsupported here: there's
// no separate readiness registration step either way.
type IOCP struct {
	port windows.Handle
}

// NewIOCP creates an IOCP backend.
func NewIOCP() (*IOCP, error) {
	port, err := windows.CreateIoCompletionPort(windows.InvalidHandle, 0, 0, 0)
	if err != nil {
		return nil, err
	}
	return &IOCP{port: port}, nil
}

func (i *IOCP) Kind() Kind { return KindCompletionIOCP }

// Port returns the underlying completion port handle. No code in this
// module calls it.
func (i *IOCP) Port() windows.Handle { return i.port }

// Associate registers a socket handle with the port; must be called
// exactly once per socket, before its first overlapped operation.
func (i *IOCP) Associate(fd windows.Handle) error {
	_, err := windows.CreateIoCompletionPort(fd, i.port, 0, 0)
	return err
}

func (i *IOCP) Wait(ptrs []uintptr) (int, error) {
	count := 0
	for count == 0 {
		var bytes uint32
		var key uintptr
		var overlapped *windows.Overlapped
		err := windows.GetQueuedCompletionStatus(i.port, &bytes, &key, &overlapped, windows.INFINITE)
		if err != nil && overlapped == nil {
			return 0, err
		}
		if overlapped == nil {
			// A pure wake: report nothing, caller checks its own stop flag.
			return 0, nil
		}
		ptrs[0] = uintptr(unsafePointer(overlapped))
		count = 1
	}
	return count, nil
}

func (i *IOCP) Notify(ptr uintptr) error {
	return windows.PostQueuedCompletionStatus(i.port, 0, 0, overlappedFromPtr(ptr))
}

func (i *IOCP) Arm(fd int, op Op, ptr uintptr) error {
	return ErrUnsupported
}

func (i *IOCP) Disarm(fd int) error {
	return ErrUnsupported
}

func (i *IOCP) Close() error {
	return windows.CloseHandle(i.port)
}

var _ Multiplexor = (*IOCP)(nil)
