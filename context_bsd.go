//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package ice

import "github.com/ehrlich-b/go-ice/internal/mux"

func newMultiplexor(opts Options) (mux.Multiplexor, error) {
	return mux.NewKqueue()
}
