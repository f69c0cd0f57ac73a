package engine

import (
	"context"
	"fmt"
	"time"

	"flowline/internal/actions"
	"flowline/internal/events"
	"flowline/internal/server/model"

	"go.uber.org/zap"
)

// Recorder persists node-level run state. dao.RunDao satisfies it; tests use
// an in-memory fake. A Recorder error is fatal to the run: the engine cannot
// leave recorded state inconsistent with what actually executed.
type Recorder interface {
	StartNodeRun(ctx context.Context, runID, nodeID string) (string, error)
	FinishNodeRun(ctx context.Context, nodeRunID, status, result, errMsg string) error
}

type NodeResult struct {
	Status  string
	Message string
}

type RunOutcome struct {
	Status      string
	NodeResults map[string]NodeResult
}

// Engine executes one workflow graph per Run call. A single goroutine drains
// the ready queue, so per-run state needs no locking; parallelism exists only
// across runs.
type Engine struct {
	recorder    Recorder
	publisher   events.Publisher
	registry    *actions.Registry
	logger      *zap.Logger
	nodeTimeout time.Duration
}

func New(recorder Recorder, publisher events.Publisher, registry *actions.Registry, logger *zap.Logger, nodeTimeout time.Duration) *Engine {
	return &Engine{
		recorder:    recorder,
		publisher:   publisher,
		registry:    registry,
		logger:      logger,
		nodeTimeout: nodeTimeout,
	}
}

// Run walks the workflow graph in dependency order, executing each reachable
// node at most once. A node becomes ready when all of its parents have
// succeeded; ready nodes execute in the order their dependencies were
// satisfied. The first failed node fails the run and abandons the remaining
// ready queue. Node-level failures never surface as errors; only an invalid
// graph or a Recorder failure does.
func (e *Engine) Run(ctx context.Context, wf *model.Workflow, runID, userID string) (*RunOutcome, error) {
	g, err := buildGraph(wf)
	if err != nil {
		return nil, err
	}

	outcome := &RunOutcome{
		Status:      model.StatusSuccess,
		NodeResults: make(map[string]NodeResult),
	}
	executed := make(map[string]bool)
	queued := map[string]bool{g.trigger.ID: true}
	ready := []string{g.trigger.ID}

	for len(ready) > 0 {
		nodeID := ready[0]
		ready = ready[1:]
		if executed[nodeID] {
			// should not happen, queued nodes are deduplicated
			continue
		}
		node := g.nodes[nodeID]

		nodeRunID, err := e.recorder.StartNodeRun(ctx, runID, nodeID)
		if err != nil {
			return nil, fmt.Errorf("record node run for %s: %w", nodeID, err)
		}

		res := e.dispatch(ctx, node, userID)

		status := model.StatusSuccess
		result, errMsg := res.Message, ""
		if !res.Success {
			status = model.StatusFailed
			result, errMsg = "", res.Message
		}
		if err := e.recorder.FinishNodeRun(ctx, nodeRunID, status, result, errMsg); err != nil {
			return nil, fmt.Errorf("record node run outcome for %s: %w", nodeID, err)
		}
		executed[nodeID] = true
		outcome.NodeResults[nodeID] = NodeResult{Status: status, Message: res.Message}

		if !res.Success {
			// fail-fast: abandon everything still queued, including
			// branches independent of the failed node
			outcome.Status = model.StatusFailed
			e.publish(ctx, wf.ID, events.NodeEvent(events.TypeError, nodeID, res.Message))
			e.logger.Warn("node failed, abandoning run",
				zap.String("runId", runID),
				zap.String("nodeId", nodeID),
				zap.String("error", res.Message))
			break
		}

		eventType := events.TypeNodeExecuted
		if node.Kind == model.NodeKindTrigger {
			eventType = events.TypeTriggerExecuted
		}
		e.publish(ctx, wf.ID, events.NodeEvent(eventType, nodeID, res.Message))

		for _, targetID := range g.outgoing[nodeID] {
			if queued[targetID] || executed[targetID] {
				continue
			}
			if parentsSatisfied(g.incoming[targetID], executed) {
				queued[targetID] = true
				ready = append(ready, targetID)
			}
		}
	}

	return outcome, nil
}

// dispatch runs one node. Trigger nodes succeed trivially; action nodes go
// through the registry. Unknown platforms and kinds are failures, not panics.
func (e *Engine) dispatch(ctx context.Context, node *model.Node, userID string) actions.Result {
	switch node.Kind {
	case model.NodeKindTrigger:
		return actions.Result{Success: true, Message: "triggered"}
	case model.NodeKindAction:
		handler, ok := e.registry.Get(node.ActionPlatform)
		if !ok {
			return actions.Result{Success: false, Message: fmt.Sprintf("unknown action platform: %s", node.ActionPlatform)}
		}
		if e.nodeTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, e.nodeTimeout)
			defer cancel()
		}
		return handler.Execute(ctx, node, userID)
	default:
		return actions.Result{Success: false, Message: fmt.Sprintf("unknown node kind: %s", node.Kind)}
	}
}

func parentsSatisfied(parents []string, executed map[string]bool) bool {
	for _, parentID := range parents {
		if !executed[parentID] {
			return false
		}
	}
	return true
}

// publish is best-effort: a dropped event must not change the run outcome.
func (e *Engine) publish(ctx context.Context, workflowID string, event events.Event) {
	if err := e.publisher.Publish(ctx, workflowID, event); err != nil {
		e.logger.Warn("publish event failed",
			zap.String("workflowId", workflowID),
			zap.String("type", event.Type),
			zap.Error(err))
	}
}
