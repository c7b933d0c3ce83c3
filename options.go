package ice

import "github.com/ehrlich-b/go-ice/internal/logging"

// Options configures a Context. New fills any unset field (zero or
// negative EventBufferSize, nil Logger, nil Observer) with its default, so
// the zero value is usable; DefaultOptions returns the defaults explicitly.
type Options struct {
	// EventBufferSize is how many completion/readiness entries a single
	// poll iteration inside Run waits for at once.
	EventBufferSize int

	// Logger receives worker lifecycle and failure diagnostics. Defaults
	// to the package's shared default logger.
	Logger *logging.Logger

	// Observer receives per-operation metrics. Defaults to NoOpObserver.
	Observer Observer
}

// DefaultOptions returns an Options populated with the runtime's defaults.
func DefaultOptions() Options {
	return Options{
		EventBufferSize: DefaultEventBufferSize,
		Logger:          logging.Default(),
		Observer:        NoOpObserver{},
	}
}

func (o Options) withDefaults() Options {
	if o.EventBufferSize <= 0 {
		o.EventBufferSize = DefaultEventBufferSize
	}
	if o.Logger == nil {
		o.Logger = logging.Default()
	}
	if o.Observer == nil {
		o.Observer = NoOpObserver{}
	}
	return o
}
