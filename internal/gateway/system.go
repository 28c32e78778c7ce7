package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/procfs"

	"go-workspace-dashboard/internal/model"
	"go-workspace-dashboard/pkg/apierror"
)

const (
	cpuSampleInterval = 500 * time.Millisecond
	dfTimeout         = 5 * time.Second
	bytesPerGiB       = 1 << 30
	probeCount        = 4
)

// SystemGateway reports host CPU, memory, disk and uptime.
type SystemGateway struct {
	runner    Runner
	procRoot  string
	interval  time.Duration
	logger    *slog.Logger
	now       func() time.Time
	betweenFn func(ctx context.Context) error
}

// NewSystemGateway reads kernel statistics from procRoot, normally /proc.
func NewSystemGateway(runner Runner, procRoot string, logger *slog.Logger) *SystemGateway {
	if procRoot == "" {
		procRoot = procfs.DefaultMountPoint
	}
	if logger == nil {
		logger = slog.Default()
	}

	g := &SystemGateway{runner: runner, procRoot: procRoot, interval: cpuSampleInterval, logger: logger, now: time.Now}
	g.betweenFn = g.sleep
	return g
}

func (g *SystemGateway) sleep(ctx context.Context) error {
	timer := time.NewTimer(g.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Stats collects every probe. A failing probe reports zeros; the call only
// fails when all of them fail.
func (g *SystemGateway) Stats(ctx context.Context) (model.SystemStats, error) {
	var stats model.SystemStats
	var errs []error
	failed := 0

	fs, err := procfs.NewFS(g.procRoot)
	if err != nil {
		errs = append(errs, fmt.Errorf("procfs: %w", err))
		failed += 3
	} else {
		if stats.CPU, err = g.cpuPercent(ctx, fs); err != nil {
			errs = append(errs, fmt.Errorf("cpu: %w", err))
			failed++
		}
		if stats.RAM, err = memoryUsage(fs); err != nil {
			errs = append(errs, fmt.Errorf("memory: %w", err))
			failed++
		}
		if stats.Uptime, err = g.uptime(fs); err != nil {
			errs = append(errs, fmt.Errorf("uptime: %w", err))
			failed++
		}
	}

	if stats.Disk, err = g.diskUsage(ctx); err != nil {
		errs = append(errs, fmt.Errorf("disk: %w", err))
		failed++
	}

	if failed == probeCount {
		return model.SystemStats{}, apierror.Wrap(errors.Join(errs...), apierror.CodeInternalError, "Failed to get system stats", http.StatusInternalServerError)
	}
	for _, e := range errs {
		g.logger.Debug("system probe failed", "error", e)
	}

	return stats, nil
}

// cpuPercent compares two /proc/stat samples: busy is user+system, total
// adds idle.
func (g *SystemGateway) cpuPercent(ctx context.Context, fs procfs.FS) (float64, error) {
	first, err := fs.Stat()
	if err != nil {
		return 0, err
	}

	if err := g.betweenFn(ctx); err != nil {
		return 0, err
	}

	second, err := fs.Stat()
	if err != nil {
		return 0, err
	}

	busy := (second.CPUTotal.User + second.CPUTotal.System) - (first.CPUTotal.User + first.CPUTotal.System)
	total := busy + (second.CPUTotal.Idle - first.CPUTotal.Idle)
	if total <= 0 {
		return 0, nil
	}

	return round1(busy / total * 100), nil
}

func memoryUsage(fs procfs.FS) (model.Usage, error) {
	info, err := fs.Meminfo()
	if err != nil {
		return model.Usage{}, err
	}
	if info.MemTotal == nil || *info.MemTotal == 0 {
		return model.Usage{}, errors.New("meminfo has no MemTotal")
	}

	totalKB := *info.MemTotal
	var freeKB uint64
	switch {
	case info.MemAvailable != nil:
		freeKB = *info.MemAvailable
	case info.MemFree != nil:
		freeKB = *info.MemFree
	}

	total := float64(totalKB) * 1024
	used := total - float64(freeKB)*1024
	return usage(used, total), nil
}

func (g *SystemGateway) uptime(fs procfs.FS) (float64, error) {
	stat, err := fs.Stat()
	if err != nil {
		return 0, err
	}
	if stat.BootTime == 0 {
		return 0, errors.New("boot time unavailable")
	}

	return math.Max(0, float64(g.now().Unix()-int64(stat.BootTime))), nil
}

func (g *SystemGateway) diskUsage(ctx context.Context) (model.Usage, error) {
	out, err := g.runner.Run(ctx, dfTimeout, "df", "-B1", "/")
	if err != nil {
		return model.Usage{}, err
	}

	lines := splitLines(out)
	if len(lines) < 2 {
		return model.Usage{}, errors.New("unexpected df output")
	}

	fields := strings.Fields(lines[len(lines)-1])
	if len(fields) < 3 {
		return model.Usage{}, errors.New("unexpected df output")
	}

	total, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return model.Usage{}, err
	}
	used, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return model.Usage{}, err
	}

	return usage(used, total), nil
}

func usage(usedBytes float64, totalBytes float64) model.Usage {
	u := model.Usage{
		Used:  round1(usedBytes / bytesPerGiB),
		Total: round1(totalBytes / bytesPerGiB),
	}
	if totalBytes > 0 {
		u.Percent = round1(usedBytes / totalBytes * 100)
	}
	return u
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
