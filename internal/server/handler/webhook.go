package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"flowline/internal/common"
	"flowline/internal/server/dao"
	"flowline/internal/server/model"
	"flowline/pkg/queue"

	"github.com/gin-gonic/gin"
)

const timestampMaxAge = 300 // seconds

// Webhook accepts an external trigger call for a workflow. The request is
// authenticated by a sha256 signature over timestamp, body and shared
// secret; the workflow must carry a webhook trigger node.
func Webhook(c *gin.Context) {
	timestampStr := c.GetHeader("X-Webhook-Timestamp")
	signature := c.GetHeader("X-Webhook-Signature")
	if timestampStr == "" || signature == "" {
		common.Error(c, common.NewErrNo(common.RequestInvalid))
		return
	}

	timestamp, err := strconv.ParseInt(timestampStr, 10, 64)
	if err != nil {
		common.Error(c, common.NewErrNo(common.RequestInvalid))
		return
	}
	now := time.Now().Unix()
	if now-timestamp > timestampMaxAge || timestamp > now {
		common.Error(c, common.NewErrNo(common.RequestInvalid))
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		common.Error(c, common.NewErrNo(common.RequestInvalid))
		return
	}

	if webhookSignature(timestampStr, body, common.GetConfig().WebhookSecret) != signature {
		common.Error(c, common.NewErrNo(common.RequestInvalid))
		return
	}

	workflowID := c.Param("id")
	workflow, err := dao.NewWorkflowDao().GetGraph(c, workflowID)
	if err != nil {
		common.Error(c, common.NewErrNo(common.WorkflowNotExists))
		return
	}
	if !hasWebhookTrigger(workflow) {
		common.Error(c, common.NewErrNo(common.WebhookInvalid))
		return
	}
	if !workflow.Enabled {
		common.Error(c, common.NewErrNo(common.WorkflowDisabled))
		return
	}

	job := queue.ExecuteJob{WorkflowID: workflow.ID, UserID: workflow.UserID}
	if err := runQueue.EnqueueExecution(c, job); err != nil {
		common.Error(c, common.NewErrNo(common.EnqueueFail))
		return
	}
	common.Success(c, nil)
}

func webhookSignature(timestampStr string, body []byte, secret string) string {
	base := fmt.Sprintf("%s.%s.%s", timestampStr, string(body), secret)
	hash := sha256.Sum256([]byte(base))
	return hex.EncodeToString(hash[:])
}

func hasWebhookTrigger(workflow *model.Workflow) bool {
	for i := range workflow.Nodes {
		node := &workflow.Nodes[i]
		if node.Kind == model.NodeKindTrigger && node.TriggerType == model.TriggerWebhook {
			return true
		}
	}
	return false
}
