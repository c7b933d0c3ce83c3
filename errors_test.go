package ice

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNativeError(t *testing.T) {
	err := NewNativeError("recv", syscall.ECONNRESET)
	require.Equal(t, "recv", err.Op)
	require.Equal(t, DomainNative, err.Domain)
	require.Equal(t, CodeReset, err.Code)
	require.Equal(t, syscall.ECONNRESET, err.Errno)
}

func TestWrapErrorPreservesDomain(t *testing.T) {
	inner := NewNativeError("accept", syscall.EAGAIN)
	wrapped := WrapError("tcp.accept", inner)

	require.Equal(t, "tcp.accept", wrapped.Op)
	require.Equal(t, DomainNative, wrapped.Domain)
	require.Equal(t, CodeWouldBlock, wrapped.Code)
	require.True(t, IsErrno(wrapped, syscall.EAGAIN))
}

func TestWrapErrorFromBareErrno(t *testing.T) {
	err := WrapError("connect", syscall.ECONNREFUSED)
	require.True(t, IsCode(err, CodeRefused))
	require.True(t, errors.Is(err, err))
}

func TestIsCodeAndIsErrno(t *testing.T) {
	err := NewNativeError("send", syscall.EPIPE)
	require.True(t, IsCode(err, CodeIOError))
	require.False(t, IsCode(err, CodeRefused))
	require.False(t, IsCode(nil, CodeIOError))
	require.False(t, IsErrno(nil, syscall.EPIPE))
}

func TestRuntimeSentinels(t *testing.T) {
	require.True(t, errors.Is(ErrEOF, ErrEOF))
	require.False(t, errors.Is(ErrEOF, ErrVersion))
	require.Equal(t, DomainRuntime, ErrEOF.Domain)
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewSystemError("ssh.recv", CodeIOError, cause)
	require.ErrorIs(t, err, cause)
}
