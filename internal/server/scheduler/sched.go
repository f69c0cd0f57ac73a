package scheduler

import (
	"context"
	"sync"

	"flowline/internal/common"
	"flowline/internal/server/dao"
	"flowline/internal/server/model"
	"flowline/pkg/queue"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

var schedulerService *SchedulerService
var once sync.Once

// GetSchedulerService returns the process-wide cron scheduler, creating it
// on first use from the configured Redis connection.
func GetSchedulerService() *SchedulerService {
	once.Do(func() {
		cfg := common.GetConfig()
		scheduler := asynq.NewScheduler(
			asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword},
			nil,
		)
		schedulerService = newSchedulerService(scheduler, common.GetLogger())
	})
	return schedulerService
}

// SchedulerService keeps one asynq cron entry per enabled workflow whose
// trigger is cron-typed.
type SchedulerService struct {
	scheduler     *asynq.Scheduler
	logger        *zap.Logger
	mu            sync.Mutex
	scheduledJobs map[string]string // workflow ID -> scheduler entry ID
}

func newSchedulerService(scheduler *asynq.Scheduler, logger *zap.Logger) *SchedulerService {
	return &SchedulerService{
		scheduler:     scheduler,
		logger:        logger,
		scheduledJobs: make(map[string]string),
	}
}

func (s *SchedulerService) Start() error {
	s.logger.Info("starting cron scheduler")
	return s.scheduler.Start()
}

// UpsertWorkflowSchedule registers or replaces the cron entry for a
// workflow. Workflows without a cron trigger, or disabled ones, end up with
// no entry.
func (s *SchedulerService) UpsertWorkflowSchedule(workflow *model.Workflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.unregisterLocked(workflow.ID)

	if !workflow.Enabled {
		return nil
	}
	expr := cronExpr(workflow)
	if expr == "" {
		return nil
	}

	task, err := queue.NewExecuteTask(queue.ExecuteJob{
		WorkflowID: workflow.ID,
		UserID:     workflow.UserID,
	})
	if err != nil {
		return err
	}
	entryID, err := s.scheduler.Register(expr, task)
	if err != nil {
		s.logger.Error("schedule workflow failed",
			zap.String("workflowId", workflow.ID),
			zap.Error(err))
		return err
	}
	s.scheduledJobs[workflow.ID] = entryID
	s.logger.Info("scheduled workflow",
		zap.String("workflowId", workflow.ID),
		zap.String("entryId", entryID),
		zap.String("cron", expr))
	return nil
}

func (s *SchedulerService) RemoveWorkflowSchedule(workflowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unregisterLocked(workflowID)
}

func (s *SchedulerService) unregisterLocked(workflowID string) {
	entryID, exists := s.scheduledJobs[workflowID]
	if !exists {
		return
	}
	if err := s.scheduler.Unregister(entryID); err != nil {
		s.logger.Warn("unregister schedule failed",
			zap.String("workflowId", workflowID),
			zap.Error(err))
	}
	delete(s.scheduledJobs, workflowID)
}

// LoadAllSchedules registers entries for every enabled cron workflow. Called
// once at server startup.
func (s *SchedulerService) LoadAllSchedules() error {
	workflows, err := dao.NewWorkflowDao().ListEnabled(context.Background())
	if err != nil {
		return err
	}
	for _, workflow := range workflows {
		if err := s.UpsertWorkflowSchedule(workflow); err != nil {
			s.logger.Error("load schedule failed",
				zap.String("workflowId", workflow.ID),
				zap.Error(err))
		}
	}
	return nil
}

func cronExpr(workflow *model.Workflow) string {
	for i := range workflow.Nodes {
		node := &workflow.Nodes[i]
		if node.Kind != model.NodeKindTrigger || node.TriggerType != model.TriggerCron {
			continue
		}
		data, err := node.Data()
		if err != nil {
			return ""
		}
		expr, _ := data["cron"].(string)
		return expr
	}
	return ""
}
