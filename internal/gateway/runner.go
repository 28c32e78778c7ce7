// Package gateway wraps the OS utilities and the companion CLI that the
// dashboard shells out to. Every argument that reaches a command line has
// passed validate.go first.
package gateway

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go-workspace-dashboard/internal/metrics"
)

// ErrTimeout is returned when a command outlives its per-call timeout.
var ErrTimeout = errors.New("command timed out")

const (
	maxOutputBytes  = 2 << 20
	followWaitDelay = 2 * time.Second
)

// Runner executes external commands without a shell.
type Runner interface {
	// Run executes name with args and returns stdout.
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error)
	// Follow streams stdout lines until ctx is cancelled or the command
	// exits. The channel is closed once the process has been reaped.
	Follow(ctx context.Context, name string, args ...string) (<-chan string, error)
}

type ExecRunner struct {
	logger     *slog.Logger
	maxTimeout time.Duration
}

var _ Runner = (*ExecRunner)(nil)

// NewExecRunner caps every per-call timeout at maxTimeout. A non-positive
// maxTimeout leaves per-call timeouts as given.
func NewExecRunner(logger *slog.Logger, maxTimeout time.Duration) *ExecRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRunner{logger: logger, maxTimeout: maxTimeout}
}

func (r *ExecRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	if r.maxTimeout > 0 && (timeout <= 0 || timeout > r.maxTimeout) {
		timeout = r.maxTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Stdout = &limitedBuffer{buf: &stdout, max: maxOutputBytes}
	cmd.Stderr = &limitedBuffer{buf: &stderr, max: 64 << 10}

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)
	label := filepath.Base(name)

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		metrics.RecordCommand(label, "timeout", elapsed)
		r.logger.Warn("command timed out", "command", label, "timeout", timeout)
		return nil, fmt.Errorf("%s: %w", label, ErrTimeout)
	case err != nil:
		metrics.RecordCommand(label, "error", elapsed)
		r.logger.Debug("command failed", "command", label, "error", err, "stderr", strings.TrimSpace(stderr.String()))
		return stdout.Bytes(), fmt.Errorf("%s: %w", label, err)
	}

	metrics.RecordCommand(label, "success", elapsed)
	return stdout.Bytes(), nil
}

func (r *ExecRunner) Follow(ctx context.Context, name string, args ...string) (<-chan string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = followWaitDelay

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", filepath.Base(name), err)
	}

	lines := make(chan string, 64)
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 64<<10), 1<<20)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				break
			}
		}

		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			r.logger.Debug("follow command exited", "command", filepath.Base(name), "error", err)
		}
	}()

	return lines, nil
}

// limitedBuffer drops output beyond max bytes instead of growing without bound.
type limitedBuffer struct {
	buf *bytes.Buffer
	max int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := b.max - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

// splitLines returns the non-blank lines of out.
func splitLines(out []byte) []string {
	raw := strings.Split(string(out), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, strings.TrimRight(line, "\r"))
	}
	return lines
}
