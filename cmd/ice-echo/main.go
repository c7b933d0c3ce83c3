// Command ice-echo runs a TCP echo server on top of a Context, exercising
// Listen/Accept/Recv/Send across as many worker goroutines as requested.
package main

import (
	"flag"
	"net/netip"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ehrlich-b/go-ice"
	"github.com/ehrlich-b/go-ice/internal/logging"
)

func main() {
	var (
		addr    = flag.String("addr", "127.0.0.1", "address to listen on")
		port    = flag.Uint("port", 9191, "port to listen on")
		workers = flag.Int("workers", 1, "number of Context worker goroutines")
		verbose = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	opts := ice.DefaultOptions()
	opts.Logger = logger

	ctx, err := ice.New(opts)
	if err != nil {
		logger.Error("failed to create context", "error", err)
		os.Exit(1)
	}
	defer ctx.Close()

	local := netip.MustParseAddr(*addr)
	listener, err := ice.ListenTCP(ctx, ice.NewEndpoint(local, uint16(*port)), 0)
	if err != nil {
		logger.Error("failed to listen", "error", err)
		os.Exit(1)
	}
	defer listener.Close()

	boundAddr, _ := listener.Addr()
	logger.Info("ice-echo listening", "addr", boundAddr.String())

	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ctx.Run(); err != nil {
				logger.Error("worker exited", "error", err)
			}
		}()
	}

	go acceptLoop(ctx, listener, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")
	ctx.Stop()
	wg.Wait()
}

func acceptLoop(ctx *ice.Context, listener *ice.TCPListener, logger *logging.Logger) {
	for {
		conn, remote, err := listener.Accept()
		if err != nil {
			logger.Error("accept failed", "error", err)
			return
		}
		logger.Debug("accepted connection", "remote", remote.String())
		go serve(conn, logger)
	}
}

func serve(conn *ice.TCPConn, logger *logging.Logger) {
	defer conn.Close()
	buf := make([]byte, 4096)
	for {
		n, err := conn.Recv(buf)
		if err != nil {
			return
		}
		if n == 0 {
			return
		}
		if err := conn.Send(buf[:n]); err != nil {
			logger.Debug("send failed", "error", err)
			return
		}
	}
}
