package events

import "context"

// Event types published on a workflow's channel. The strings are a contract
// with the live-update relay and must not change.
const (
	TypeTriggerExecuted = "TRIGGER_EXECUTED"
	TypeNodeExecuted    = "NODE_EXECUTED"
	TypeError           = "ERROR"
	TypeCompleted       = "COMPLETED"
)

// Event is the envelope published for run progress. Message and NodeID are
// encoded as JSON null when absent.
type Event struct {
	Type    string  `json:"type"`
	Message *string `json:"message"`
	NodeID  *string `json:"nodeId"`
}

// Publisher publishes events onto a per-workflow channel. Implementations
// must be safe for concurrent use by independent runs.
type Publisher interface {
	Publish(ctx context.Context, workflowID string, event Event) error
}

// Channel returns the pub/sub channel name for a workflow.
func Channel(workflowID string) string {
	return "workflow:" + workflowID
}

func NodeEvent(eventType, nodeID, message string) Event {
	return Event{
		Type:    eventType,
		Message: &message,
		NodeID:  &nodeID,
	}
}

func CompletedEvent() Event {
	return Event{Type: TypeCompleted}
}
