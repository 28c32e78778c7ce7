package gateway

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"go-workspace-dashboard/internal/model"
	"go-workspace-dashboard/pkg/apierror"
)

const (
	journalTimeout = 10 * time.Second
	activityLines  = 100
	fileLogsHeader = "--- File Logs (clawdbot logs) ---"
)

// LogGateway reads the gateway unit's journal and the CLI's file logs.
type LogGateway struct {
	runner Runner
	binary string
	unit   string
	logger *slog.Logger
}

func NewLogGateway(runner Runner, binary string, unit string, logger *slog.Logger) *LogGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogGateway{runner: runner, binary: binary, unit: unit, logger: logger}
}

func (g *LogGateway) journalArgs(lines int) []string {
	return []string{"--user", "-u", g.unit, "--no-pager", "-n", strconv.Itoa(lines)}
}

// Activity returns the last hundred journal lines of the gateway unit.
func (g *LogGateway) Activity(ctx context.Context) (model.ActivityData, error) {
	out, err := g.runner.Run(ctx, journalTimeout, "journalctl", g.journalArgs(activityLines)...)
	if err != nil {
		return model.ActivityData{}, apierror.CommandFailed("Failed to fetch logs", err)
	}

	return model.ActivityData{Lines: splitLines(out), Timestamp: now()}, nil
}

// Logs merges journal and file logs by source. A failing source contributes
// no lines rather than failing the request.
func (g *LogGateway) Logs(ctx context.Context, source string, limit int) (model.LogsData, error) {
	source, err := ValidateLogSource(source)
	if err != nil {
		return model.LogsData{}, err
	}
	limit = ClampLogLimit(limit)

	logs := make([]string, 0, limit)

	if source == LogSourceJournal || source == LogSourceAll {
		out, err := g.runner.Run(ctx, journalTimeout, "journalctl", g.journalArgs(limit)...)
		if err != nil {
			g.logger.Debug("journal logs unavailable", "error", err)
		} else {
			logs = append(logs, splitLines(out)...)
		}
	}

	if source == LogSourceFile || source == LogSourceAll {
		out, err := g.runner.Run(ctx, journalTimeout, g.binary, "logs", "--plain", "--limit", strconv.Itoa(limit))
		var fileLogs []string
		if err != nil {
			g.logger.Debug("file logs unavailable", "error", err)
		} else {
			fileLogs = tail(splitLines(out), limit)
		}

		if source == LogSourceAll && len(fileLogs) > 0 {
			logs = append(logs, "", fileLogsHeader, "")
		}
		logs = append(logs, fileLogs...)
	}

	return model.LogsData{Logs: logs, Source: source, Timestamp: now()}, nil
}

// Follow tails the journal. The journalctl process ends when ctx is done.
func (g *LogGateway) Follow(ctx context.Context, lines int) (<-chan string, error) {
	args := append(g.journalArgs(ClampLogLimit(lines)), "-f")
	ch, err := g.runner.Follow(ctx, "journalctl", args...)
	if err != nil {
		return nil, apierror.CommandFailed("Failed to stream logs", err)
	}
	return ch, nil
}

func tail(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}

func now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
