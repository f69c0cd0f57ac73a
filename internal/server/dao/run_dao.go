package dao

import (
	"context"
	"errors"
	"time"

	"flowline/internal/common"
	"flowline/internal/server/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RunDao is the run recorder: it owns every WorkflowRun and NodeRun state
// transition. Transitions are append-only; a terminal status is written once.
type RunDao interface {
	CreateRun(ctx context.Context, workflowID, userID string) (*model.WorkflowRun, error)
	FinishRun(ctx context.Context, runID, status string) error
	StartNodeRun(ctx context.Context, runID, nodeID string) (string, error)
	FinishNodeRun(ctx context.Context, nodeRunID, status, result, errMsg string) error
	GetRun(ctx context.Context, runID string) (*model.WorkflowRun, error)
	GetNodeRuns(ctx context.Context, runID string) ([]*model.NodeRun, error)
	ListRunsByWorkflow(ctx context.Context, workflowID string) ([]*model.WorkflowRun, error)
}

type runDAO struct {
}

func NewRunDao() RunDao {
	return &runDAO{}
}

func (d *runDAO) CreateRun(ctx context.Context, workflowID, userID string) (*model.WorkflowRun, error) {
	run := &model.WorkflowRun{
		ID:         uuid.NewString(),
		WorkflowID: workflowID,
		UserID:     userID,
		Status:     model.StatusRunning,
		StartedAt:  time.Now(),
	}
	if err := db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (d *runDAO) FinishRun(ctx context.Context, runID, status string) error {
	now := time.Now()
	res := db.WithContext(ctx).Model(&model.WorkflowRun{}).
		Where("id = ? AND status = ?", runID, model.StatusRunning).
		Updates(map[string]any{"status": status, "finished_at": &now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.NewErrNo(common.RunNotExists)
	}
	return nil
}

func (d *runDAO) StartNodeRun(ctx context.Context, runID, nodeID string) (string, error) {
	nodeRun := &model.NodeRun{
		ID:        uuid.NewString(),
		RunID:     runID,
		NodeID:    nodeID,
		Status:    model.StatusRunning,
		StartedAt: time.Now(),
	}
	if err := db.WithContext(ctx).Create(nodeRun).Error; err != nil {
		return "", err
	}
	return nodeRun.ID, nil
}

func (d *runDAO) FinishNodeRun(ctx context.Context, nodeRunID, status, result, errMsg string) error {
	now := time.Now()
	res := db.WithContext(ctx).Model(&model.NodeRun{}).
		Where("id = ? AND status = ?", nodeRunID, model.StatusRunning).
		Updates(map[string]any{
			"status":      status,
			"result":      result,
			"error":       errMsg,
			"finished_at": &now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.NewErrNo(common.RunNotExists)
	}
	return nil
}

func (d *runDAO) GetRun(ctx context.Context, runID string) (*model.WorkflowRun, error) {
	var run model.WorkflowRun
	if err := db.WithContext(ctx).Where("id = ?", runID).Take(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewErrNo(common.RunNotExists)
		}
		return nil, err
	}
	return &run, nil
}

func (d *runDAO) GetNodeRuns(ctx context.Context, runID string) ([]*model.NodeRun, error) {
	var nodeRuns []*model.NodeRun
	err := db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("started_at").
		Find(&nodeRuns).Error
	if err != nil {
		return nil, err
	}
	return nodeRuns, nil
}

func (d *runDAO) ListRunsByWorkflow(ctx context.Context, workflowID string) ([]*model.WorkflowRun, error) {
	var runs []*model.WorkflowRun
	err := db.WithContext(ctx).
		Where("workflow_id = ?", workflowID).
		Order("started_at DESC").
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
