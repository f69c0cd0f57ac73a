package dao

import (
	"context"
	"errors"

	"flowline/internal/common"
	"flowline/internal/server/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkflowDao interface {
	Create(ctx context.Context, workflow *model.Workflow) error
	Update(ctx context.Context, workflow *model.Workflow) error
	Delete(ctx context.Context, id, userID string) error
	SetEnabled(ctx context.Context, id, userID string, enabled bool) error
	// GetGraph loads a workflow with its nodes and connections.
	GetGraph(ctx context.Context, id string) (*model.Workflow, error)
	GetByIDForUser(ctx context.Context, id, userID string) (*model.Workflow, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Workflow, error)
	ListEnabled(ctx context.Context) ([]*model.Workflow, error)
}

type workflowDAO struct {
}

func NewWorkflowDao() WorkflowDao {
	return &workflowDAO{}
}

func (d *workflowDAO) Create(ctx context.Context, workflow *model.Workflow) error {
	if workflow.ID == "" {
		workflow.ID = uuid.NewString()
	}
	for i := range workflow.Nodes {
		if workflow.Nodes[i].ID == "" {
			workflow.Nodes[i].ID = uuid.NewString()
		}
		workflow.Nodes[i].WorkflowID = workflow.ID
	}
	for i := range workflow.Connections {
		if workflow.Connections[i].ID == "" {
			workflow.Connections[i].ID = uuid.NewString()
		}
		workflow.Connections[i].WorkflowID = workflow.ID
	}
	return db.WithContext(ctx).Create(workflow).Error
}

// Update replaces the workflow definition: title, flag, nodes and
// connections are rewritten in one transaction so a run loading the graph
// never sees half of each.
func (d *workflowDAO) Update(ctx context.Context, workflow *model.Workflow) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Workflow
		if err := tx.Where("id = ? AND user_id = ?", workflow.ID, workflow.UserID).Take(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.NewErrNo(common.WorkflowNotExists)
			}
			return err
		}

		if err := tx.Where("workflow_id = ?", workflow.ID).Delete(&model.Node{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workflow_id = ?", workflow.ID).Delete(&model.Connection{}).Error; err != nil {
			return err
		}

		existing.Title = workflow.Title
		existing.Enabled = workflow.Enabled
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		for i := range workflow.Nodes {
			if workflow.Nodes[i].ID == "" {
				workflow.Nodes[i].ID = uuid.NewString()
			}
			workflow.Nodes[i].WorkflowID = workflow.ID
		}
		for i := range workflow.Connections {
			if workflow.Connections[i].ID == "" {
				workflow.Connections[i].ID = uuid.NewString()
			}
			workflow.Connections[i].WorkflowID = workflow.ID
		}
		if len(workflow.Nodes) > 0 {
			if err := tx.Create(&workflow.Nodes).Error; err != nil {
				return err
			}
		}
		if len(workflow.Connections) > 0 {
			if err := tx.Create(&workflow.Connections).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *workflowDAO) Delete(ctx context.Context, id, userID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var workflow model.Workflow
		if err := tx.Where("id = ? AND user_id = ?", id, userID).Take(&workflow).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.NewErrNo(common.WorkflowNotExists)
			}
			return err
		}
		if err := tx.Where("workflow_id = ?", id).Delete(&model.Node{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workflow_id = ?", id).Delete(&model.Connection{}).Error; err != nil {
			return err
		}
		return tx.Delete(&workflow).Error
	})
}

func (d *workflowDAO) SetEnabled(ctx context.Context, id, userID string, enabled bool) error {
	res := db.WithContext(ctx).Model(&model.Workflow{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("enabled", enabled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.NewErrNo(common.WorkflowNotExists)
	}
	return nil
}

func (d *workflowDAO) GetGraph(ctx context.Context, id string) (*model.Workflow, error) {
	var workflow model.Workflow
	err := db.WithContext(ctx).
		Preload("Nodes").
		Preload("Connections").
		Where("id = ?", id).
		Take(&workflow).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewErrNo(common.WorkflowNotExists)
		}
		return nil, err
	}
	return &workflow, nil
}

func (d *workflowDAO) GetByIDForUser(ctx context.Context, id, userID string) (*model.Workflow, error) {
	var workflow model.Workflow
	err := db.WithContext(ctx).
		Preload("Nodes").
		Preload("Connections").
		Where("id = ? AND user_id = ?", id, userID).
		Take(&workflow).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewErrNo(common.WorkflowNotExists)
		}
		return nil, err
	}
	return &workflow, nil
}

func (d *workflowDAO) ListByUser(ctx context.Context, userID string) ([]*model.Workflow, error) {
	var workflows []*model.Workflow
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Find(&workflows).Error; err != nil {
		return nil, err
	}
	return workflows, nil
}

func (d *workflowDAO) ListEnabled(ctx context.Context) ([]*model.Workflow, error) {
	var workflows []*model.Workflow
	err := db.WithContext(ctx).
		Preload("Nodes").
		Where("enabled = ?", true).
		Find(&workflows).Error
	if err != nil {
		return nil, err
	}
	return workflows, nil
}
