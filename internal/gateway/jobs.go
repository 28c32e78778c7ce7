package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go-workspace-dashboard/internal/event"
	"go-workspace-dashboard/internal/model"
	"go-workspace-dashboard/pkg/apierror"
)

const (
	cronListTimeout   = 10 * time.Second
	cronRunTimeout    = 15 * time.Second
	cronToggleTimeout = 10 * time.Second
)

// JobGateway drives the companion CLI's cron subcommands.
type JobGateway struct {
	runner Runner
	binary string
	bus    event.Bus
	logger *slog.Logger
}

func NewJobGateway(runner Runner, binary string, bus event.Bus, logger *slog.Logger) *JobGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobGateway{runner: runner, binary: binary, bus: bus, logger: logger}
}

type rawJob struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Enabled       *bool               `json:"enabled"`
	Schedule      *model.CronSchedule `json:"schedule"`
	State         *model.CronState    `json:"state"`
	Payload       json.RawMessage     `json:"payload"`
	AgentID       string              `json:"agentId"`
	SessionTarget string              `json:"sessionTarget"`
}

type rawJobList struct {
	Jobs []rawJob `json:"jobs"`
}

func (g *JobGateway) ListJobs(ctx context.Context) ([]model.CronJob, error) {
	out, err := g.runner.Run(ctx, cronListTimeout, g.binary, "cron", "list", "--all", "--json")
	if err != nil {
		return nil, apierror.CommandFailed("Failed to list cron jobs", err)
	}

	jobs, err := parseJobs(out)
	if err != nil {
		return nil, apierror.CommandFailed("Failed to list cron jobs", err)
	}

	return jobs, nil
}

func parseJobs(out []byte) ([]model.CronJob, error) {
	var list rawJobList
	if err := json.Unmarshal(out, &list); err != nil {
		return nil, fmt.Errorf("decode cron list: %w", err)
	}

	jobs := make([]model.CronJob, 0, len(list.Jobs))
	for _, raw := range list.Jobs {
		job := model.CronJob{
			ID:       raw.ID,
			Name:     raw.Name,
			Schedule: "N/A",
			Status:   "idle",
			Enabled:  raw.Enabled == nil || *raw.Enabled,
			Details: model.CronJobDetails{
				AgentID:       raw.AgentID,
				SessionTarget: raw.SessionTarget,
				Payload:       raw.Payload,
				Schedule:      raw.Schedule,
				State:         raw.State,
			},
		}
		if job.Name == "" {
			job.Name = raw.ID
		}

		if raw.Schedule != nil && raw.Schedule.Expr != "" {
			job.Schedule = raw.Schedule.Expr
			if raw.Schedule.TZ != "" {
				job.Schedule += " (" + raw.Schedule.TZ + ")"
			}
		}

		if raw.State != nil {
			job.LastRun = formatMillis(raw.State.LastRunAtMs)
			job.NextRun = formatMillis(raw.State.NextRunAtMs)
			if raw.State.LastStatus != "" {
				job.Status = raw.State.LastStatus
			}
		}

		jobs = append(jobs, job)
	}

	return jobs, nil
}

func formatMillis(ms *int64) *string {
	if ms == nil || *ms == 0 {
		return nil
	}
	s := time.UnixMilli(*ms).UTC().Format("2006-01-02T15:04:05.000Z07:00")
	return &s
}

// RunJob forces an immediate run of the job.
func (g *JobGateway) RunJob(ctx context.Context, id string) error {
	if err := ValidateJobID(id); err != nil {
		return err
	}

	if _, err := g.runner.Run(ctx, cronRunTimeout, g.binary, "cron", "run", id, "--force"); err != nil {
		return apierror.CommandFailed("Failed to run cron job", err)
	}

	g.logger.Info("cron job triggered", "job_id", id)
	event.Publish(g.bus, event.TypeJobRun, map[string]any{"id": id})
	return nil
}

// SetEnabled enables or disables the job and returns the CLI verb used.
func (g *JobGateway) SetEnabled(ctx context.Context, id string, enabled bool) (string, error) {
	if err := ValidateJobID(id); err != nil {
		return "", err
	}

	action := "disable"
	if enabled {
		action = "enable"
	}

	if _, err := g.runner.Run(ctx, cronToggleTimeout, g.binary, "cron", action, id); err != nil {
		return "", apierror.CommandFailed("Failed to toggle cron job", err)
	}

	g.logger.Info("cron job toggled", "job_id", id, "action", action)
	event.Publish(g.bus, event.TypeJobToggled, map[string]any{"id": id, "action": action})
	return action, nil
}
