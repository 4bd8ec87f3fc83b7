package shared

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestShutdownContextCancelsOnSignal(t *testing.T) {
	ctx := ShutdownContext(zerolog.Nop())

	select {
	case <-ctx.Done():
		t.Fatal("context done before any signal was sent")
	default:
	}

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for cancellation")
	}
}
