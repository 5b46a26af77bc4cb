package compositor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// stderrTail is how much of the tool's stderr is kept for error messages.
const stderrTail = 4 << 10

// findBinary resolves a tool by name on PATH, or checks that an explicit
// path exists.
func findBinary(name string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
		return name, nil
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found on PATH: %w", name, err)
	}
	return path, nil
}

// run executes the tool and waits for it. Stdout is discarded; the tail of
// stderr is included in the error when the tool fails. A non-zero exit is
// returned as a retryable error since the usual cause is memory pressure.
func run(ctx context.Context, binary string, args, env []string) error {
	path, err := findBinary(binary)
	if err != nil {
		return err
	}

	stderr := &tailBuffer{max: stderrTail}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Env = env
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err = formatError(binary, args, stderr, err)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Retryable(err)
		}
		return err
	}
	return nil
}

// formatError produces an error message for a failed tool run, preferring
// the tool's own stderr over the generic exec error. Only the subcommand is
// shown since image lists run into thousands of arguments.
func formatError(binary string, args []string, stderr *tailBuffer, err error) error {
	command := binary
	if len(args) > 0 {
		command += " " + args[0]
	}
	if text := strings.TrimSpace(stderr.String()); text != "" {
		return fmt.Errorf("%s: %w: %s", command, err, text)
	}
	return fmt.Errorf("%s: %w", command, err)
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.max; over > 0 {
		b.buf = b.buf[over:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string { return string(b.buf) }
