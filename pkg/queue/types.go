package queue

const TypeWorkflowExecute = "workflow:execute"

// ExecuteJob is the payload enqueued by the API/webhook layer and consumed
// by the worker pool.
type ExecuteJob struct {
	WorkflowID string `json:"workflowId"`
	UserID     string `json:"userId"`
}
