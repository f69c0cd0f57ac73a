package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"flowline/internal/actions"
	"flowline/internal/common"
	"flowline/internal/engine"
	"flowline/internal/events"
	"flowline/internal/server/model"
	"flowline/pkg/queue"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLoader struct {
	workflow *model.Workflow
	err      error
}

func (l *fakeLoader) GetGraph(context.Context, string) (*model.Workflow, error) {
	return l.workflow, l.err
}

// fakeRunStore keeps WorkflowRun and NodeRun state in memory and doubles as
// the engine's recorder.
type fakeRunStore struct {
	mu       sync.Mutex
	runs     map[string]string // run ID -> status
	nodeRuns []*model.NodeRun
}

func newFakeRunStore() *fakeRunStore {
	return &fakeRunStore{runs: make(map[string]string)}
}

func (s *fakeRunStore) CreateRun(_ context.Context, workflowID, userID string) (*model.WorkflowRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := &model.WorkflowRun{ID: "run-1", WorkflowID: workflowID, UserID: userID, Status: model.StatusRunning}
	s.runs[run.ID] = run.Status
	return run, nil
}

func (s *fakeRunStore) FinishRun(_ context.Context, runID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[runID]; !ok {
		return common.NewErrNo(common.RunNotExists)
	}
	s.runs[runID] = status
	return nil
}

func (s *fakeRunStore) StartNodeRun(_ context.Context, runID, nodeID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nodeRun := &model.NodeRun{ID: nodeID + "-run", RunID: runID, NodeID: nodeID, Status: model.StatusRunning}
	s.nodeRuns = append(s.nodeRuns, nodeRun)
	return nodeRun.ID, nil
}

func (s *fakeRunStore) FinishNodeRun(_ context.Context, nodeRunID, status, result, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, nodeRun := range s.nodeRuns {
		if nodeRun.ID == nodeRunID {
			nodeRun.Status = status
			nodeRun.Result = result
			nodeRun.Error = errMsg
			return nil
		}
	}
	return errors.New("node run not found")
}

type handlerFunc func(ctx context.Context, node *model.Node, userID string) actions.Result

func (f handlerFunc) Execute(ctx context.Context, node *model.Node, userID string) actions.Result {
	return f(ctx, node, userID)
}

type emptyStore struct{}

func (emptyStore) Find(context.Context, string, string) (map[string]any, error) {
	return nil, actions.ErrCredentialsNotFound
}

func testWorkflow(enabled bool, extraNode *model.Node) *model.Workflow {
	wf := &model.Workflow{
		ID:      "wf-1",
		Title:   "test",
		Enabled: enabled,
		UserID:  "user-1",
		Nodes: []model.Node{
			{ID: "t", Kind: model.NodeKindTrigger, TriggerType: model.TriggerManual},
		},
	}
	if extraNode != nil {
		wf.Nodes = append(wf.Nodes, *extraNode)
		wf.Connections = []model.Connection{{WorkflowID: wf.ID, SourceNodeID: "t", TargetNodeID: extraNode.ID}}
	}
	return wf
}

func newTestWorker(loader *fakeLoader, store *fakeRunStore, publisher events.Publisher, fail bool) *Worker {
	registry := actions.NewRegistry(emptyStore{})
	registry.Register("test", handlerFunc(func(context.Context, *model.Node, string) actions.Result {
		if fail {
			return actions.Result{Success: false, Message: "boom"}
		}
		return actions.Result{Success: true, Message: "done"}
	}))
	eng := engine.New(store, publisher, registry, zap.NewNop(), 0)
	return New(asynq.RedisClientOpt{}, 1, loader, store, eng, publisher, zap.NewNop())
}

func TestProcessMissingWorkflowIsSilentNoOp(t *testing.T) {
	store := newFakeRunStore()
	publisher := events.NewMemoryPublisher()
	w := newTestWorker(&fakeLoader{err: common.NewErrNo(common.WorkflowNotExists)}, store, publisher, false)

	runID, err := w.Process(context.Background(), queue.ExecuteJob{WorkflowID: "missing", UserID: "user-1"})
	require.NoError(t, err)
	assert.Nil(t, runID)
	assert.Empty(t, store.runs)
	assert.Empty(t, publisher.Events("missing"))
}

func TestProcessNoTriggerIsSilentNoOp(t *testing.T) {
	wf := testWorkflow(true, nil)
	wf.Nodes = []model.Node{{ID: "a", Kind: model.NodeKindAction, ActionPlatform: "test"}}
	wf.Connections = nil
	store := newFakeRunStore()
	publisher := events.NewMemoryPublisher()
	w := newTestWorker(&fakeLoader{workflow: wf}, store, publisher, false)

	runID, err := w.Process(context.Background(), queue.ExecuteJob{WorkflowID: wf.ID, UserID: "user-1"})
	require.NoError(t, err)
	assert.Nil(t, runID)
	assert.Empty(t, store.runs)
	assert.Empty(t, publisher.Events(wf.ID))
}

func TestProcessDisabledWorkflowSkipped(t *testing.T) {
	store := newFakeRunStore()
	w := newTestWorker(&fakeLoader{workflow: testWorkflow(false, nil)}, store, events.NewMemoryPublisher(), false)

	runID, err := w.Process(context.Background(), queue.ExecuteJob{WorkflowID: "wf-1", UserID: "user-1"})
	require.NoError(t, err)
	assert.Nil(t, runID)
	assert.Empty(t, store.runs)
}

func TestProcessSuccessfulRun(t *testing.T) {
	node := &model.Node{ID: "a", Kind: model.NodeKindAction, ActionPlatform: "test"}
	store := newFakeRunStore()
	publisher := events.NewMemoryPublisher()
	w := newTestWorker(&fakeLoader{workflow: testWorkflow(true, node)}, store, publisher, false)

	runID, err := w.Process(context.Background(), queue.ExecuteJob{WorkflowID: "wf-1", UserID: "user-1"})
	require.NoError(t, err)
	require.NotNil(t, runID)
	assert.Equal(t, model.StatusSuccess, store.runs[*runID])

	evts := publisher.Events("wf-1")
	require.Len(t, evts, 3)
	assert.Equal(t, events.TypeTriggerExecuted, evts[0].Type)
	assert.Equal(t, events.TypeNodeExecuted, evts[1].Type)
	assert.Equal(t, events.TypeCompleted, evts[2].Type)
}

func TestProcessFailedRun(t *testing.T) {
	node := &model.Node{ID: "a", Kind: model.NodeKindAction, ActionPlatform: "test"}
	store := newFakeRunStore()
	publisher := events.NewMemoryPublisher()
	w := newTestWorker(&fakeLoader{workflow: testWorkflow(true, node)}, store, publisher, true)

	runID, err := w.Process(context.Background(), queue.ExecuteJob{WorkflowID: "wf-1", UserID: "user-1"})
	require.NoError(t, err)
	require.NotNil(t, runID)
	assert.Equal(t, model.StatusFailed, store.runs[*runID])

	evts := publisher.Events("wf-1")
	require.Len(t, evts, 3)
	assert.Equal(t, events.TypeTriggerExecuted, evts[0].Type)
	assert.Equal(t, events.TypeError, evts[1].Type)
	require.NotNil(t, evts[1].Message)
	assert.Equal(t, "boom", *evts[1].Message)
	assert.Equal(t, events.TypeCompleted, evts[2].Type)
}

func TestHandleExecuteRejectsBadPayload(t *testing.T) {
	store := newFakeRunStore()
	w := newTestWorker(&fakeLoader{}, store, events.NewMemoryPublisher(), false)

	err := w.HandleExecute(context.Background(), asynq.NewTask(queue.TypeWorkflowExecute, []byte("{not json")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
