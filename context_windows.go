//go:build windows

package ice

import "github.com/ehrlich-b/go-ice/internal/mux"

func newMultiplexor(opts Options) (mux.Multiplexor, error) {
	return mux.NewIOCP()
}
