package shell

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// We prefer to return stderr over the process exit code
type ExitErrorVerbose struct {
	E exec.ExitError
}

func (e ExitErrorVerbose) Error() string {
	if len(e.E.Stderr) != 0 {
		return strings.TrimSpace(string(e.E.Stderr))
	}
	return e.E.Error()
}

func (e ExitErrorVerbose) ExitCode() int {
	return e.E.ExitCode()
}

// Run executes name with args, and returns stdout.
// If the process is killed because ctx expires, the context error is returned.
func Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", ExitErrorVerbose{*exitErr}
		}
		return "", err
	}
	return string(out), nil
}

// Args formats key=value arguments in the order given, which is how the yolo CLI expects them
func Args(kv ...string) []string {
	args := make([]string, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		args = append(args, kv[i]+"="+kv[i+1])
	}
	return args
}
