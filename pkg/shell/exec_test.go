package shell

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a posix shell")
	}
	out, err := Run(context.Background(), "sh", "-c", "echo hello")
	require.NoError(t, err)
	require.Equal(t, "hello\n", out)

	_, err = Run(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
	var verbose ExitErrorVerbose
	require.ErrorAs(t, err, &verbose)
	require.Equal(t, "broken", verbose.Error())
	require.Equal(t, 3, verbose.ExitCode())
}

func TestRunCancelled(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a posix shell")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, "sh", "-c", "sleep 5")
	require.ErrorIs(t, err, context.Canceled)
}

func TestArgs(t *testing.T) {
	require.Equal(t, []string{"data=/tmp/out/data.yaml", "epochs=50"}, Args("data", "/tmp/out/data.yaml", "epochs", "50"))
	require.Empty(t, Args())
}
