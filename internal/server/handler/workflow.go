package handler

import (
	"encoding/json"
	"strings"

	"flowline/internal/common"
	"flowline/internal/engine"
	"flowline/internal/server/dao"
	"flowline/internal/server/middleware"
	"flowline/internal/server/model"
	"flowline/internal/server/scheduler"
	"flowline/pkg/api"
	"flowline/pkg/queue"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

func CreateWorkflow(c *gin.Context) {
	var def api.WorkflowDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		common.Error(c, common.NewErrNo(common.RequestInvalid))
		return
	}

	workflow, err := definitionToModel(&def, middleware.UserID(c))
	if err != nil {
		common.Error(c, err)
		return
	}
	if err := dao.NewWorkflowDao().Create(c, workflow); err != nil {
		common.Error(c, err)
		return
	}
	if err := scheduler.GetSchedulerService().UpsertWorkflowSchedule(workflow); err != nil {
		common.Error(c, common.NewErrNo(common.ScheduleInvalid))
		return
	}
	common.Success(c, api.WorkflowSummary{
		ID:        workflow.ID,
		Title:     workflow.Title,
		Enabled:   workflow.Enabled,
		CreatedAt: workflow.CreatedAt.Format("2006-01-02 15:04:05"),
	})
}

func UpdateWorkflow(c *gin.Context) {
	var def api.WorkflowDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		common.Error(c, common.NewErrNo(common.RequestInvalid))
		return
	}

	workflow, err := definitionToModel(&def, middleware.UserID(c))
	if err != nil {
		common.Error(c, err)
		return
	}
	workflow.ID = c.Param("id")
	if err := dao.NewWorkflowDao().Update(c, workflow); err != nil {
		common.Error(c, err)
		return
	}
	if err := scheduler.GetSchedulerService().UpsertWorkflowSchedule(workflow); err != nil {
		common.Error(c, common.NewErrNo(common.ScheduleInvalid))
		return
	}
	common.Success(c, nil)
}

func DeleteWorkflow(c *gin.Context) {
	id := c.Param("id")
	if err := dao.NewWorkflowDao().Delete(c, id, middleware.UserID(c)); err != nil {
		common.Error(c, err)
		return
	}
	scheduler.GetSchedulerService().RemoveWorkflowSchedule(id)
	common.Success(c, nil)
}

func SetWorkflowEnabled(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		workflowDao := dao.NewWorkflowDao()
		if err := workflowDao.SetEnabled(c, id, middleware.UserID(c), enabled); err != nil {
			common.Error(c, err)
			return
		}
		if enabled {
			workflow, err := workflowDao.GetByIDForUser(c, id, middleware.UserID(c))
			if err == nil {
				scheduler.GetSchedulerService().UpsertWorkflowSchedule(workflow)
			}
		} else {
			scheduler.GetSchedulerService().RemoveWorkflowSchedule(id)
		}
		common.Success(c, nil)
	}
}

func ListWorkflows(c *gin.Context) {
	workflows, err := dao.NewWorkflowDao().ListByUser(c, middleware.UserID(c))
	if err != nil {
		common.Error(c, err)
		return
	}
	summaries := make([]api.WorkflowSummary, 0, len(workflows))
	for _, workflow := range workflows {
		summaries = append(summaries, api.WorkflowSummary{
			ID:        workflow.ID,
			Title:     workflow.Title,
			Enabled:   workflow.Enabled,
			CreatedAt: workflow.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	common.Success(c, summaries)
}

func GetWorkflow(c *gin.Context) {
	workflow, err := dao.NewWorkflowDao().GetByIDForUser(c, c.Param("id"), middleware.UserID(c))
	if err != nil {
		common.Error(c, err)
		return
	}
	common.Success(c, modelToDefinition(workflow))
}

// TriggerWorkflow enqueues one manual execution of the caller's workflow.
func TriggerWorkflow(c *gin.Context) {
	var req api.TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, common.NewErrNo(common.RequestInvalid))
		return
	}

	userID := middleware.UserID(c)
	workflow, err := dao.NewWorkflowDao().GetByIDForUser(c, req.WorkflowID, userID)
	if err != nil {
		common.Error(c, err)
		return
	}
	if !workflow.Enabled {
		common.Error(c, common.NewErrNo(common.WorkflowDisabled))
		return
	}

	job := queue.ExecuteJob{WorkflowID: workflow.ID, UserID: userID}
	if err := runQueue.EnqueueExecution(c, job); err != nil {
		common.Error(c, common.NewErrNo(common.EnqueueFail))
		return
	}
	common.Success(c, nil)
}

// definitionToModel converts a submitted definition into storable models and
// rejects invalid graphs before anything is written.
func definitionToModel(def *api.WorkflowDefinition, userID string) (*model.Workflow, error) {
	if def.Title == "" || len(def.Nodes) == 0 {
		return nil, common.NewErrNo(common.DefinitionInvalid)
	}

	workflow := &model.Workflow{
		Title:   def.Title,
		Enabled: true,
		UserID:  userID,
	}
	if def.Enabled != nil {
		workflow.Enabled = *def.Enabled
	}

	for _, nodeDef := range def.Nodes {
		if nodeDef.ID == "" {
			return nil, common.NewErrNo(common.DefinitionInvalid)
		}
		node := model.Node{
			ID:             nodeDef.ID,
			Kind:           strings.ToLower(nodeDef.Kind),
			TriggerType:    strings.ToLower(nodeDef.TriggerType),
			ActionPlatform: strings.ToLower(nodeDef.ActionPlatform),
		}
		if node.Kind == model.NodeKindTrigger {
			switch node.TriggerType {
			case model.TriggerManual, model.TriggerWebhook:
			case model.TriggerCron:
				expr, _ := nodeDef.Config["cron"].(string)
				if _, err := cron.ParseStandard(expr); err != nil {
					return nil, common.NewErrNo(common.ScheduleInvalid)
				}
			default:
				return nil, common.NewErrNo(common.DefinitionInvalid)
			}
		}
		if nodeDef.Config != nil {
			raw, err := json.Marshal(nodeDef.Config)
			if err != nil {
				return nil, common.NewErrNo(common.DefinitionInvalid)
			}
			node.Config = string(raw)
		}
		workflow.Nodes = append(workflow.Nodes, node)
	}

	for _, connDef := range def.Connections {
		workflow.Connections = append(workflow.Connections, model.Connection{
			SourceNodeID: connDef.Source,
			TargetNodeID: connDef.Target,
		})
	}

	if err := engine.Validate(workflow); err != nil {
		return nil, common.NewErrNo(common.GraphInvalid)
	}
	return workflow, nil
}

func modelToDefinition(workflow *model.Workflow) *api.WorkflowDefinition {
	def := &api.WorkflowDefinition{
		Title:   workflow.Title,
		Enabled: &workflow.Enabled,
	}
	for i := range workflow.Nodes {
		node := &workflow.Nodes[i]
		config, _ := node.Data()
		def.Nodes = append(def.Nodes, api.NodeDef{
			ID:             node.ID,
			Kind:           node.Kind,
			TriggerType:    node.TriggerType,
			ActionPlatform: node.ActionPlatform,
			Config:         config,
		})
	}
	for _, conn := range workflow.Connections {
		def.Connections = append(def.Connections, api.ConnectionDef{
			Source: conn.SourceNodeID,
			Target: conn.TargetNodeID,
		})
	}
	return def
}
