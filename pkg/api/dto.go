package api

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type TriggerRequest struct {
	WorkflowID string `json:"workflowId" binding:"required"`
}

type CredentialRequest struct {
	Platform string         `json:"platform" binding:"required"`
	Data     map[string]any `json:"data" binding:"required"`
}

type CredentialSummary struct {
	Platform  string `json:"platform"`
	UpdatedAt string `json:"updatedAt"`
}

type WorkflowSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Enabled   bool   `json:"enabled"`
	CreatedAt string `json:"createdAt"`
}

type RunBrief struct {
	ID         string `json:"id"`
	WorkflowID string `json:"workflowId"`
	Status     string `json:"status"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

type NodeRunDetail struct {
	NodeID     string `json:"nodeId"`
	Status     string `json:"status"`
	Result     string `json:"result,omitempty"`
	Error      string `json:"error,omitempty"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

type RunDetail struct {
	RunBrief
	NodeRuns []NodeRunDetail `json:"nodeRuns"`
}
