package handler

import (
	"time"

	"flowline/internal/common"
	"flowline/internal/server/dao"
	"flowline/internal/server/middleware"
	"flowline/internal/server/model"
	"flowline/pkg/api"

	"github.com/gin-gonic/gin"
)

func ListWorkflowRuns(c *gin.Context) {
	workflowID := c.Param("id")
	if _, err := dao.NewWorkflowDao().GetByIDForUser(c, workflowID, middleware.UserID(c)); err != nil {
		common.Error(c, err)
		return
	}

	runs, err := dao.NewRunDao().ListRunsByWorkflow(c, workflowID)
	if err != nil {
		common.Error(c, common.NewErrNo(common.GetHistoryFail))
		return
	}

	briefs := make([]api.RunBrief, 0, len(runs))
	for _, run := range runs {
		briefs = append(briefs, runToBrief(run))
	}
	common.Success(c, briefs)
}

func GetRunDetail(c *gin.Context) {
	runDao := dao.NewRunDao()
	run, err := runDao.GetRun(c, c.Param("id"))
	if err != nil {
		common.Error(c, err)
		return
	}
	if run.UserID != middleware.UserID(c) {
		common.Error(c, common.NewErrNo(common.RunNotExists))
		return
	}

	nodeRuns, err := runDao.GetNodeRuns(c, run.ID)
	if err != nil {
		common.Error(c, common.NewErrNo(common.GetHistoryFail))
		return
	}

	detail := api.RunDetail{RunBrief: runToBrief(run)}
	for _, nodeRun := range nodeRuns {
		nodeDetail := api.NodeRunDetail{
			NodeID:    nodeRun.NodeID,
			Status:    nodeRun.Status,
			Result:    nodeRun.Result,
			Error:     nodeRun.Error,
			StartedAt: formatTime(nodeRun.StartedAt),
		}
		if nodeRun.FinishedAt != nil {
			nodeDetail.FinishedAt = formatTime(*nodeRun.FinishedAt)
		}
		detail.NodeRuns = append(detail.NodeRuns, nodeDetail)
	}
	common.Success(c, detail)
}

func runToBrief(run *model.WorkflowRun) api.RunBrief {
	brief := api.RunBrief{
		ID:         run.ID,
		WorkflowID: run.WorkflowID,
		Status:     run.Status,
		StartedAt:  formatTime(run.StartedAt),
	}
	if run.FinishedAt != nil {
		brief.FinishedAt = formatTime(*run.FinishedAt)
	}
	return brief
}

func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
