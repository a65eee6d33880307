package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// Time the requests in flight get to finish
const drainTimeout = 5 * time.Second

// shutdown stops accepting requests, waits for the ones in flight
// and closes the Redis connections
func (a *App) shutdown() error {

	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server forced to shutdown; %w", err))
	}

	log.Println("Closing Redis connections...")
	if err := a.cleanup(); err != nil {
		errs = append(errs, fmt.Errorf("cleanup failed; %w", err))
	}

	return errors.Join(errs...)
}
