//go:build windows

package ice

import (
	"syscall"
	"time"
)

// pollBackoff sleeps a short, escalating interval between retries of a
// non-blocking syscall that returned a would-block errno. It exists so the
// goroutines the Windows event files spawn to stand in for a missing
// overlapped-I/O completion wait on the kernel instead of spinning a CPU
// core; attempt is the number of prior retries this call has already made.
func pollBackoff(attempt int) {
	switch {
	case attempt < 50:
		time.Sleep(100 * time.Microsecond)
	case attempt < 500:
		time.Sleep(time.Millisecond)
	default:
		time.Sleep(10 * time.Millisecond)
	}
}

// backoffSendOne advances one send's worth of buf[*offset:] into fd,
// waiting out EWOULDBLOCK with pollBackoff rather than spinning. It reports
// forward progress by mutating *offset and stops at the first real error,
// same division of labor as the readiness backends' trySend: one event
// file suspend/resume round makes one attempt, and the caller's resume
// decides whether another round is needed.
func backoffSendOne(fd int, buf []byte, offset *int, errno *syscall.Errno) {
	attempt := 0
	for {
		n, e := rawSend(fd, buf[*offset:])
		if e == 0 {
			*offset += n
			return
		}
		if isTemporary(e) {
			pollBackoff(attempt)
			attempt++
			continue
		}
		*errno = e
		return
	}
}

// backoffSendToOne is backoffSendOne's datagram counterpart: one sendto
// call per round, advancing *offset on success.
func backoffSendToOne(fd int, buf []byte, remote Endpoint, offset *int, errno *syscall.Errno) {
	attempt := 0
	for {
		n, e := rawSendTo(fd, buf[*offset:], remote)
		if e == 0 {
			*offset += n
			return
		}
		if isTemporary(e) {
			pollBackoff(attempt)
			attempt++
			continue
		}
		*errno = e
		return
	}
}
