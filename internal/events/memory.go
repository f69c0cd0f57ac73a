package events

import (
	"context"
	"sync"
)

// MemoryPublisher collects events in memory, keyed by workflow. Used by tests
// and single-process setups without Redis.
type MemoryPublisher struct {
	mu     sync.Mutex
	events map[string][]Event
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{events: make(map[string][]Event)}
}

func (p *MemoryPublisher) Publish(_ context.Context, workflowID string, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events[workflowID] = append(p.events[workflowID], event)
	return nil
}

// Events returns the events published for a workflow, in publish order.
func (p *MemoryPublisher) Events(workflowID string) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events[workflowID]))
	copy(out, p.events[workflowID])
	return out
}
