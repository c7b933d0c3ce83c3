package ice

import "github.com/ehrlich-b/go-ice/internal/constants"

// Re-exported package-level defaults.
const (
	DefaultEventBufferSize     = constants.DefaultEventBufferSize
	DefaultSSHStagingBufferSize = constants.DefaultSSHStagingBufferSize
)
