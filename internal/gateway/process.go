package gateway

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go-workspace-dashboard/internal/event"
	"go-workspace-dashboard/internal/model"
	"go-workspace-dashboard/pkg/apierror"
)

const (
	psTimeout       = 5 * time.Second
	maxProcessRows  = 20
	maxCommandChars = 80
)

type ProcessGateway struct {
	runner      Runner
	serviceUser string
	critical    []string
	bus         event.Bus
	logger      *slog.Logger
}

func NewProcessGateway(runner Runner, serviceUser string, critical []string, bus event.Bus, logger *slog.Logger) *ProcessGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessGateway{runner: runner, serviceUser: serviceUser, critical: critical, bus: bus, logger: logger}
}

// ListProcesses returns the service user's processes, highest CPU first.
func (g *ProcessGateway) ListProcesses(ctx context.Context) ([]model.Process, error) {
	out, err := g.runner.Run(ctx, psTimeout, "ps", "-u", g.serviceUser, "-o", "pid,pcpu,pmem,etime,args", "--sort=-pcpu")
	if err != nil && len(out) == 0 {
		return nil, apierror.CommandFailed("Failed to fetch processes", err)
	}

	return parseProcesses(out), nil
}

func parseProcesses(out []byte) []model.Process {
	lines := splitLines(out)
	if len(lines) > 0 {
		lines = lines[1:]
	}

	processes := make([]model.Process, 0, maxProcessRows)
	for i, line := range lines {
		if i >= maxProcessRows-1 {
			break
		}

		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}

		cmd := strings.Join(fields[4:], " ")
		if strings.HasPrefix(cmd, "ps -u") {
			continue
		}
		if len(cmd) > maxCommandChars {
			cmd = cmd[:maxCommandChars]
		}

		processes = append(processes, model.Process{
			PID:     fields[0],
			CPU:     fields[1] + "%",
			Mem:     fields[2] + "%",
			Time:    fields[3],
			Command: cmd,
		})
	}

	return processes
}

// KillProcess signals pid after checking that it belongs to the service user
// and is not a critical process. No signal is sent when either check fails.
func (g *ProcessGateway) KillProcess(ctx context.Context, pid int, signal string) error {
	if pid <= 0 {
		return apierror.InvalidInput("Invalid PID", "")
	}

	sig, err := NormalizeSignal(signal)
	if err != nil {
		return err
	}

	pidArg := strconv.Itoa(pid)

	owner, err := g.runner.Run(ctx, psTimeout, "ps", "-o", "user=", "-p", pidArg)
	if err != nil {
		g.logger.Warn("process owner lookup failed", "pid", pid, "error", err)
		return apierror.Forbidden("Cannot verify process owner", "")
	}
	if strings.TrimSpace(string(owner)) != g.serviceUser {
		return apierror.Forbidden("Can only kill "+g.serviceUser+" processes", "")
	}

	args, err := g.runner.Run(ctx, psTimeout, "ps", "-o", "args=", "-p", pidArg)
	if err != nil {
		g.logger.Warn("process command lookup failed", "pid", pid, "error", err)
		return apierror.Forbidden("Cannot verify process command", "")
	}
	cmdline := strings.TrimSpace(string(args))
	if cmdline == "" {
		return apierror.Forbidden("Cannot verify process command", "")
	}
	for _, pattern := range g.critical {
		if pattern != "" && strings.Contains(cmdline, pattern) {
			return apierror.Forbidden("Cannot kill critical system process", "")
		}
	}

	if _, err := g.runner.Run(ctx, psTimeout, "kill", "-s", sig, pidArg); err != nil {
		return apierror.CommandFailed("Failed to kill process", err)
	}

	g.logger.Info("process signalled", "pid", pid, "signal", sig)
	event.Publish(g.bus, event.TypeProcessKilled, map[string]any{"pid": pid, "signal": sig})
	return nil
}
