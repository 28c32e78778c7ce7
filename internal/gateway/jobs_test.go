package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-workspace-dashboard/pkg/apierror"
)

const jobID = "3f2c9a10-8b7d-4e5f-9a1b-2c3d4e5f6a7b"

const cronListJSON = `{
  "jobs": [
    {
      "id": "3f2c9a10-8b7d-4e5f-9a1b-2c3d4e5f6a7b",
      "name": "morning-brief",
      "enabled": false,
      "schedule": {"kind": "cron", "expr": "0 7 * * *", "tz": "Europe/Berlin"},
      "state": {"lastRunAtMs": 1700000000000, "lastStatus": "ok", "nextRunAtMs": 1700086400000},
      "payload": {"kind": "agentTurn", "message": "brief"},
      "agentId": "main",
      "sessionTarget": "isolated"
    },
    {"id": "0b7e6f1c-1111-4222-8333-944445555666"}
  ]
}`

func TestJobGateway_ListJobs(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, cronListTimeout, "clawdbot", []string{"cron", "list", "--all", "--json"}).
		Return([]byte(cronListJSON), nil)

	jobs, err := NewJobGateway(runner, "clawdbot", nil, nil).ListJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	first := jobs[0]
	assert.Equal(t, "morning-brief", first.Name)
	assert.Equal(t, "0 7 * * * (Europe/Berlin)", first.Schedule)
	assert.False(t, first.Enabled)
	assert.Equal(t, "ok", first.Status)
	require.NotNil(t, first.LastRun)
	assert.Equal(t, "2023-11-14T22:13:20.000Z", *first.LastRun)
	require.NotNil(t, first.NextRun)
	assert.Equal(t, "main", first.Details.AgentID)
	assert.JSONEq(t, `{"kind":"agentTurn","message":"brief"}`, string(first.Details.Payload))

	second := jobs[1]
	assert.Equal(t, second.ID, second.Name)
	assert.Equal(t, "N/A", second.Schedule)
	assert.Equal(t, "idle", second.Status)
	assert.True(t, second.Enabled)
	assert.Nil(t, second.LastRun)
}

func TestJobGateway_ListJobsBadOutput(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, cronListTimeout, "clawdbot", mock.Anything).Return([]byte("Error: gateway offline"), nil)

	_, err := NewJobGateway(runner, "clawdbot", nil, nil).ListJobs(context.Background())
	assert.True(t, apierror.HasCode(err, apierror.CodeCommandFailed))
}

func TestJobGateway_RunJob(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, cronRunTimeout, "clawdbot", []string{"cron", "run", jobID, "--force"}).Return([]byte{}, nil)

	gw := NewJobGateway(runner, "clawdbot", nil, nil)
	require.NoError(t, gw.RunJob(context.Background(), jobID))
	runner.AssertExpectations(t)
}

func TestJobGateway_RejectsInvalidIDBeforeRunning(t *testing.T) {
	runner := new(MockRunner)
	gw := NewJobGateway(runner, "clawdbot", nil, nil)

	err := gw.RunJob(context.Background(), "not-a-uuid; rm -rf /")
	assert.True(t, apierror.HasCode(err, apierror.CodeInvalidInput))

	_, err = gw.SetEnabled(context.Background(), "--all", true)
	assert.True(t, apierror.HasCode(err, apierror.CodeInvalidInput))

	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestJobGateway_SetEnabled(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, cronToggleTimeout, "clawdbot", []string{"cron", "enable", jobID}).Return([]byte{}, nil)
	runner.On("Run", mock.Anything, cronToggleTimeout, "clawdbot", []string{"cron", "disable", jobID}).Return([]byte{}, nil)

	gw := NewJobGateway(runner, "clawdbot", nil, nil)

	action, err := gw.SetEnabled(context.Background(), jobID, true)
	require.NoError(t, err)
	assert.Equal(t, "enable", action)

	action, err = gw.SetEnabled(context.Background(), jobID, false)
	require.NoError(t, err)
	assert.Equal(t, "disable", action)

	runner.AssertExpectations(t)
}
