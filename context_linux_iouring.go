//go:build linux && ice_iouring

package ice

import "github.com/ehrlich-b/go-ice/internal/mux"

func newMultiplexor(opts Options) (mux.Multiplexor, error) {
	return mux.NewIOURing(uint32(opts.EventBufferSize))
}
