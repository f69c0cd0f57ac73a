package dao

import (
	"context"
	"testing"

	"flowline/internal/common"
	"flowline/internal/server/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLifecycle(t *testing.T) {
	setupTestDB(t)
	d := NewRunDao()
	ctx := context.Background()

	run, err := d.CreateRun(ctx, "wf-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusRunning, run.Status)
	assert.NotEmpty(t, run.ID)

	require.NoError(t, d.FinishRun(ctx, run.ID, model.StatusSuccess))

	got, err := d.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, got.Status)
	require.NotNil(t, got.FinishedAt)
}

func TestFinishRunIsAppendOnly(t *testing.T) {
	setupTestDB(t)
	d := NewRunDao()
	ctx := context.Background()

	run, err := d.CreateRun(ctx, "wf-1", "user-1")
	require.NoError(t, err)
	require.NoError(t, d.FinishRun(ctx, run.ID, model.StatusFailed))

	// already terminal, a second transition must not overwrite it
	err = d.FinishRun(ctx, run.ID, model.StatusSuccess)
	assert.Equal(t, common.RunNotExists, errCode(t, err))

	got, err := d.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, got.Status)
}

func TestFinishRunUnknownID(t *testing.T) {
	setupTestDB(t)
	d := NewRunDao()
	err := d.FinishRun(context.Background(), "nope", model.StatusSuccess)
	assert.Equal(t, common.RunNotExists, errCode(t, err))
}

func TestNodeRunLifecycle(t *testing.T) {
	setupTestDB(t)
	d := NewRunDao()
	ctx := context.Background()

	run, err := d.CreateRun(ctx, "wf-1", "user-1")
	require.NoError(t, err)

	nodeRunID, err := d.StartNodeRun(ctx, run.ID, "node-a")
	require.NoError(t, err)
	require.NoError(t, d.FinishNodeRun(ctx, nodeRunID, model.StatusSuccess, "message 1 sent", ""))

	err = d.FinishNodeRun(ctx, nodeRunID, model.StatusFailed, "", "late failure")
	assert.Equal(t, common.RunNotExists, errCode(t, err))

	nodeRuns, err := d.GetNodeRuns(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, nodeRuns, 1)
	assert.Equal(t, model.StatusSuccess, nodeRuns[0].Status)
	assert.Equal(t, "message 1 sent", nodeRuns[0].Result)
	assert.Empty(t, nodeRuns[0].Error)
}

func TestNodeRunUniquePerRunAndNode(t *testing.T) {
	setupTestDB(t)
	d := NewRunDao()
	ctx := context.Background()

	run, err := d.CreateRun(ctx, "wf-1", "user-1")
	require.NoError(t, err)

	_, err = d.StartNodeRun(ctx, run.ID, "node-a")
	require.NoError(t, err)
	_, err = d.StartNodeRun(ctx, run.ID, "node-a")
	assert.Error(t, err)
}

func TestGetNodeRunsOrderedByStart(t *testing.T) {
	setupTestDB(t)
	d := NewRunDao()
	ctx := context.Background()

	run, err := d.CreateRun(ctx, "wf-1", "user-1")
	require.NoError(t, err)

	for _, nodeID := range []string{"t", "a", "b"} {
		_, err := d.StartNodeRun(ctx, run.ID, nodeID)
		require.NoError(t, err)
	}

	nodeRuns, err := d.GetNodeRuns(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, nodeRuns, 3)
	assert.Equal(t, "t", nodeRuns[0].NodeID)
	assert.Equal(t, "a", nodeRuns[1].NodeID)
	assert.Equal(t, "b", nodeRuns[2].NodeID)
}

func TestListRunsByWorkflow(t *testing.T) {
	setupTestDB(t)
	d := NewRunDao()
	ctx := context.Background()

	_, err := d.CreateRun(ctx, "wf-1", "user-1")
	require.NoError(t, err)
	_, err = d.CreateRun(ctx, "wf-1", "user-1")
	require.NoError(t, err)
	_, err = d.CreateRun(ctx, "wf-2", "user-1")
	require.NoError(t, err)

	runs, err := d.ListRunsByWorkflow(ctx, "wf-1")
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestGetRunNotFound(t *testing.T) {
	setupTestDB(t)
	d := NewRunDao()
	_, err := d.GetRun(context.Background(), "nope")
	assert.Equal(t, common.RunNotExists, errCode(t, err))
}
