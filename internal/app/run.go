package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
)

// Run serves HTTP until SIGINT or SIGTERM, then drains the server
func (a *App) Run() error {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Server running on: http://%s\n", a.server.Addr)
	if a.domain != "" {
		fmt.Printf("Website available at: https://%s\n", a.domain)
	}

	return a.serve(ctx, stop)
}

// serve listens until the context is done or the listener fails.
// onStop runs right after the context is done so a second signal
// kills the process instead of waiting for the drain.
func (a *App) serve(ctx context.Context, onStop func()) error {

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- a.server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		// Never got to shut down, release the connections anyway
		if cleanupErr := a.cleanup(); cleanupErr != nil {
			log.Printf("Error during cleanup: %v", cleanupErr)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		if onStop != nil {
			onStop()
		}
		log.Println("Shutting down gracefully, press Ctrl+C again to force...")
	}

	err := a.shutdown()

	// ListenAndServe returns ErrServerClosed once Shutdown is called
	if listenErr := <-serveErr; listenErr != nil && !errors.Is(listenErr, http.ErrServerClosed) {
		err = errors.Join(err, listenErr)
	}

	if err == nil {
		log.Println("Graceful shutdown complete.")
	}

	return err
}
