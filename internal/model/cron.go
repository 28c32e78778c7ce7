package model

import "encoding/json"

type CronSchedule struct {
	Kind string `json:"kind,omitempty"`
	Expr string `json:"expr,omitempty"`
	TZ   string `json:"tz,omitempty"`
}

type CronState struct {
	LastRunAtMs  *int64 `json:"lastRunAtMs,omitempty"`
	LastStatus   string `json:"lastStatus,omitempty"`
	NextRunAtMs  *int64 `json:"nextRunAtMs,omitempty"`
	LastDuration *int64 `json:"lastDurationMs,omitempty"`
}

type CronJobDetails struct {
	AgentID       string          `json:"agentId,omitempty"`
	SessionTarget string          `json:"sessionTarget,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	Schedule      *CronSchedule   `json:"schedule,omitempty"`
	State         *CronState      `json:"state,omitempty"`
}

// CronJob is the dashboard view of a job owned by the companion CLI.
type CronJob struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Schedule string         `json:"schedule"`
	LastRun  *string        `json:"lastRun"`
	NextRun  *string        `json:"nextRun"`
	Status   string         `json:"status"`
	Enabled  bool           `json:"enabled"`
	Details  CronJobDetails `json:"details"`
}
