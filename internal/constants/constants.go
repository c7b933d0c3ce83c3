package constants

// Default configuration constants.
const (
	// DefaultEventBufferSize is the default number of completion/readiness
	// entries a single Context.Run call waits for at a time. Reused from
	// the teacher's queue-depth default since it plays the same role here:
	// a plausible per-wait batch size, not a protocol-mandated number.
	DefaultEventBufferSize = 128

	// DefaultSSHStagingBufferSize is the size of the scratch buffer the SSH
	// transport adapter stages bytes into on completion platforms, capped
	// to match the runtime's own default I/O chunk size.
	DefaultSSHStagingBufferSize = 4096
)

// DefaultRecvBufferSize is a default receive buffer size. No code in this
// module references it.
const DefaultRecvBufferSize = 64 * 1024
