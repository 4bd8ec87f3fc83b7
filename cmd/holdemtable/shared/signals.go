package shared

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

// ShutdownContext returns a context cancelled on an interrupt or terminate
// signal. The triggering signal is logged so headless runs record why they
// stopped.
func ShutdownContext(logger zerolog.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer cancel()
		select {
		case sig := <-sigs:
			logger.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		case <-ctx.Done():
		}
	}()

	return ctx
}
