package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"flowline/internal/engine"
	"flowline/internal/events"
	"flowline/internal/server/model"
	"flowline/pkg/queue"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// WorkflowLoader loads a workflow graph for execution. dao.WorkflowDao
// satisfies it.
type WorkflowLoader interface {
	GetGraph(ctx context.Context, id string) (*model.Workflow, error)
}

// RunStore creates and finalizes WorkflowRun records. dao.RunDao satisfies
// it.
type RunStore interface {
	CreateRun(ctx context.Context, workflowID, userID string) (*model.WorkflowRun, error)
	FinishRun(ctx context.Context, runID, status string) error
}

// Worker consumes execution jobs with a fixed concurrency bound. Each job is
// one workflow run processed end-to-end by a single goroutine.
type Worker struct {
	redisOpt    asynq.RedisClientOpt
	concurrency int
	workflows   WorkflowLoader
	runs        RunStore
	engine      *engine.Engine
	publisher   events.Publisher
	logger      *zap.Logger
}

func New(redisOpt asynq.RedisClientOpt, concurrency int, workflows WorkflowLoader, runs RunStore, eng *engine.Engine, publisher events.Publisher, logger *zap.Logger) *Worker {
	return &Worker{
		redisOpt:    redisOpt,
		concurrency: concurrency,
		workflows:   workflows,
		runs:        runs,
		engine:      eng,
		publisher:   publisher,
		logger:      logger,
	}
}

// Run blocks serving the queue until the process is signalled.
func (w *Worker) Run() error {
	srv := asynq.NewServer(w.redisOpt, asynq.Config{Concurrency: w.concurrency})
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TypeWorkflowExecute, w.HandleExecute)
	return srv.Run(mux)
}

// HandleExecute is the asynq entrypoint for one job. Failures are logged and
// swallowed: a job that cannot produce a run is a no-op, not a retry, and
// must never take the pool down.
func (w *Worker) HandleExecute(ctx context.Context, t *asynq.Task) error {
	var job queue.ExecuteJob
	if err := json.Unmarshal(t.Payload(), &job); err != nil {
		w.logger.Error("undecodable execution job", zap.Error(err))
		return fmt.Errorf("decode job: %v: %w", err, asynq.SkipRetry)
	}

	runID, err := w.Process(ctx, job)
	if err != nil {
		w.logger.Error("workflow run aborted",
			zap.String("workflowId", job.WorkflowID),
			zap.Error(err))
		return nil
	}
	if runID == nil {
		return nil
	}
	w.logger.Info("workflow run finished",
		zap.String("workflowId", job.WorkflowID),
		zap.String("runId", *runID))
	return nil
}

// Process executes one job. A nil run ID with a nil error means nothing ran:
// the workflow was missing, disabled, or had no trigger node.
func (w *Worker) Process(ctx context.Context, job queue.ExecuteJob) (*string, error) {
	wf, err := w.workflows.GetGraph(ctx, job.WorkflowID)
	if err != nil {
		// missing workflow is a no-op by contract, not a failure
		w.logger.Warn("workflow not runnable",
			zap.String("workflowId", job.WorkflowID),
			zap.Error(err))
		return nil, nil
	}
	if !wf.Enabled {
		w.logger.Warn("workflow disabled, skipping",
			zap.String("workflowId", job.WorkflowID))
		return nil, nil
	}
	if !hasTrigger(wf) {
		w.logger.Warn("workflow has no trigger node, skipping",
			zap.String("workflowId", job.WorkflowID))
		return nil, nil
	}

	run, err := w.runs.CreateRun(ctx, wf.ID, job.UserID)
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	outcome, err := w.engine.Run(ctx, wf, run.ID, job.UserID)
	if err != nil {
		// invalid graph or persistence failure mid-walk: close out the
		// run as failed so it does not dangle in running state
		if finishErr := w.runs.FinishRun(ctx, run.ID, model.StatusFailed); finishErr != nil {
			w.logger.Error("finalize aborted run failed",
				zap.String("runId", run.ID),
				zap.Error(finishErr))
		}
		w.publishCompleted(ctx, wf.ID)
		return &run.ID, err
	}

	if err := w.runs.FinishRun(ctx, run.ID, outcome.Status); err != nil {
		return &run.ID, fmt.Errorf("finalize run: %w", err)
	}
	w.publishCompleted(ctx, wf.ID)
	return &run.ID, nil
}

func (w *Worker) publishCompleted(ctx context.Context, workflowID string) {
	if err := w.publisher.Publish(ctx, workflowID, events.CompletedEvent()); err != nil {
		w.logger.Warn("publish COMPLETED failed",
			zap.String("workflowId", workflowID),
			zap.Error(err))
	}
}

func hasTrigger(wf *model.Workflow) bool {
	for i := range wf.Nodes {
		if wf.Nodes[i].Kind == model.NodeKindTrigger {
			return true
		}
	}
	return false
}
