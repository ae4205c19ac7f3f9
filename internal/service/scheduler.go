package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang-scheduler/config"
	"golang-scheduler/internal/contract"
	"golang-scheduler/internal/model"
	"golang-scheduler/pkg/logger"
	"golang-scheduler/pkg/utils"

	"github.com/google/uuid"
)

type SchedulerService interface {
	Start(ctx context.Context)
	Stop(ctx context.Context)
	CreateTask(ctx context.Context, configurationID, userID string, schedule model.ScheduleConfig) (string, error)
	UpdateTask(ctx context.Context, taskID string, updates model.TaskUpdateParam) error
	DeleteTask(ctx context.Context, taskID string) error
	GetTasks(ctx context.Context, userID string) []model.ScheduledTask
	GetTask(ctx context.Context, taskID string) (*model.ScheduledTask, error)
	ExecuteNow(ctx context.Context, taskID string) (string, error)
	PauseTask(ctx context.Context, taskID string) error
	ResumeTask(ctx context.Context, taskID string) error
	GetTaskStats(ctx context.Context, userID string) model.TaskStats
	GetSchedulerStatus(ctx context.Context) model.SchedulerStatus
	Cleanup(ctx context.Context) int
}

type schedulerService struct {
	cfg          *config.Config
	log          *logger.Logger
	orchestrator contract.ExecutionOrchestrator
	notifier     contract.NotificationService
	configStore  contract.ConfigurationStore
	semaphore    chan struct{}

	// mu guards every field below. The registry and the timer map are only
	// ever touched while holding it; outbound collaborator calls never are.
	mu        sync.Mutex
	tasks     map[string]*model.ScheduledTask
	timers    map[string]*time.Timer
	running   bool
	startedAt time.Time
	sweepStop chan struct{}

	now func() time.Time
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	orchestrator contract.ExecutionOrchestrator,
	notifier contract.NotificationService,
	configStore contract.ConfigurationStore,
) *schedulerService {
	maxConcurrency := cfg.Scheduler.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &schedulerService{
		cfg:          cfg,
		log:          log,
		orchestrator: orchestrator,
		notifier:     notifier,
		configStore:  configStore,
		semaphore:    make(chan struct{}, maxConcurrency),
		tasks:        make(map[string]*model.ScheduledTask),
		timers:       make(map[string]*time.Timer),
		now:          time.Now,
	}
}

// Start arms timers for all active tasks and begins the reconciliation sweep.
// Calling it while already running is a warned no-op.
func (s *schedulerService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.WarnContext(ctx, "Scheduler already running")
		return
	}
	s.running = true
	s.startedAt = s.now()
	s.sweepStop = make(chan struct{})

	armed := 0
	for _, task := range s.tasks {
		if task.Status == model.TaskStatusActive && task.Schedule.Enabled {
			s.armTimerLocked(task)
			armed++
		}
	}

	utils.GoSafe(func() { s.sweepLoop(s.sweepStop) })

	s.log.InfoContext(ctx, "Scheduler started",
		logger.IntField("tasks", len(s.tasks)),
		logger.IntField("timers_armed", armed),
	)
}

// Stop cancels every live timer and halts the sweep. Task state is untouched.
func (s *schedulerService) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	close(s.sweepStop)

	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}

	s.log.InfoContext(ctx, "Scheduler stopped", logger.IntField("tasks", len(s.tasks)))
}

func (s *schedulerService) CreateTask(ctx context.Context, configurationID, userID string, schedule model.ScheduleConfig) (string, error) {
	configuration, err := s.configStore.GetConfiguration(ctx, configurationID)
	if err != nil {
		return "", fmt.Errorf("failed to look up configuration: %w", err)
	}
	if configuration == nil {
		return "", fmt.Errorf("%w: %s", model.ErrConfigurationNotFound, configurationID)
	}

	now := s.now()
	task := &model.ScheduledTask{
		ID:              uuid.NewString(),
		ConfigurationID: configurationID,
		UserID:          userID,
		Name:            configuration.Name,
		Schedule:        schedule,
		Status:          model.TaskStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Disabled schedules are stored as-is and never validated or armed.
	if schedule.Enabled {
		compiled, err := compileSchedule(schedule)
		if err != nil {
			return "", err
		}
		task.NextRun = compiled.NextRun(now)
	}

	s.mu.Lock()
	s.tasks[task.ID] = task
	if s.running && task.Schedule.Enabled {
		s.armTimerLocked(task)
	}
	s.mu.Unlock()

	s.log.InfoContext(ctx, "Task created",
		logger.StringField("task_id", task.ID),
		logger.StringField("configuration_id", configurationID),
		logger.StringField("schedule_type", string(schedule.Type)),
		logger.Field("next_run", task.NextRun),
	)
	return task.ID, nil
}

func (s *schedulerService) UpdateTask(ctx context.Context, taskID string, updates model.TaskUpdateParam) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrTaskNotFound, taskID)
	}

	now := s.now()

	// Validate everything before mutating: a failed update leaves the task untouched.
	if updates.Status != nil && !updates.Status.Valid() {
		return model.NewValidationError("status %q must be one of active, paused, stopped", *updates.Status)
	}

	if updates.Schedule != nil {
		merged := task.Schedule.Merge(*updates.Schedule)
		if merged.Enabled {
			compiled, err := compileSchedule(merged)
			if err != nil {
				return err
			}
			task.NextRun = compiled.NextRun(now)
		}
		task.Schedule = merged
	}

	if updates.Status != nil {
		// Applied as given; transition legality is deliberately not enforced here.
		task.Status = *updates.Status
	}

	task.UpdatedAt = now

	s.cancelTimerLocked(taskID)
	if task.Status == model.TaskStatusActive && s.running && task.Schedule.Enabled {
		if !task.NextRun.After(now) {
			compiled, err := compileSchedule(task.Schedule)
			if err != nil {
				return err
			}
			task.NextRun = compiled.NextRun(now)
		}
		s.armTimerLocked(task)
	}

	s.log.InfoContext(ctx, "Task updated",
		logger.StringField("task_id", taskID),
		logger.StringField("status", string(task.Status)),
		logger.Field("next_run", task.NextRun),
	)
	return nil
}

func (s *schedulerService) DeleteTask(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[taskID]; !ok {
		return fmt.Errorf("%w: %s", model.ErrTaskNotFound, taskID)
	}
	s.cancelTimerLocked(taskID)
	delete(s.tasks, taskID)

	s.log.InfoContext(ctx, "Task deleted", logger.StringField("task_id", taskID))
	return nil
}

func (s *schedulerService) GetTasks(ctx context.Context, userID string) []model.ScheduledTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ScheduledTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		if userID != "" && task.UserID != userID {
			continue
		}
		out = append(out, *task)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *schedulerService) GetTask(ctx context.Context, taskID string) (*model.ScheduledTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrTaskNotFound, taskID)
	}
	copied := *task
	return &copied, nil
}

// ExecuteNow triggers a run independently of the timer. Unlike timer-driven
// dispatch, orchestrator failures are surfaced to the caller.
func (s *schedulerService) ExecuteNow(ctx context.Context, taskID string) (string, error) {
	s.mu.Lock()
	task, ok := s.tasks[taskID]
	if !ok {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: %s", model.ErrTaskNotFound, taskID)
	}
	configurationID, userID := task.ConfigurationID, task.UserID
	s.mu.Unlock()

	s.semaphore <- struct{}{}
	executionID, execErr := s.orchestrator.StartExecution(ctx, configurationID, userID)
	<-s.semaphore

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	// The task may have been deleted while the orchestrator call was in flight.
	task, ok = s.tasks[taskID]
	if !ok {
		if execErr != nil {
			return "", fmt.Errorf("failed to start execution: %w", execErr)
		}
		return executionID, nil
	}

	task.ExecutionCount++
	task.UpdatedAt = now
	if execErr != nil {
		task.FailureCount++
		s.log.ErrorContext(ctx, "Manual execution failed",
			logger.ErrorField(execErr),
			logger.StringField("task_id", taskID),
			logger.StringField("configuration_id", configurationID),
		)
		return "", fmt.Errorf("failed to start execution: %w", execErr)
	}

	task.LastRun = &now
	task.LastExecutionID = &executionID
	s.monitorExecution(taskID, executionID)

	s.log.InfoContext(ctx, "Manual execution started",
		logger.StringField("task_id", taskID),
		logger.StringField("execution_id", executionID),
	)
	return executionID, nil
}

func (s *schedulerService) PauseTask(ctx context.Context, taskID string) error {
	return s.UpdateTask(ctx, taskID, model.TaskUpdateParam{Status: utils.ToPointer(model.TaskStatusPaused)})
}

func (s *schedulerService) ResumeTask(ctx context.Context, taskID string) error {
	return s.UpdateTask(ctx, taskID, model.TaskUpdateParam{Status: utils.ToPointer(model.TaskStatusActive)})
}

func (s *schedulerService) GetTaskStats(ctx context.Context, userID string) model.TaskStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats model.TaskStats
	var successes uint64
	for _, task := range s.tasks {
		if userID != "" && task.UserID != userID {
			continue
		}
		stats.TotalTasks++
		switch task.Status {
		case model.TaskStatusActive:
			stats.ActiveTasks++
			if !task.NextRun.IsZero() && (stats.NextExecution == nil || task.NextRun.Before(*stats.NextExecution)) {
				next := task.NextRun
				stats.NextExecution = &next
			}
		case model.TaskStatusPaused:
			stats.PausedTasks++
		case model.TaskStatusStopped:
			stats.StoppedTasks++
		}
		stats.TotalRuns += task.ExecutionCount
		successes += task.SuccessCount
	}

	if stats.TotalRuns > 0 {
		stats.SuccessRate = float64(successes) / float64(stats.TotalRuns) * 100
	}
	return stats
}

func (s *schedulerService) GetSchedulerStatus(ctx context.Context) model.SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := model.SchedulerStatus{
		IsRunning:    s.running,
		TotalTasks:   len(s.tasks),
		ActiveTimers: len(s.timers),
	}
	for _, task := range s.tasks {
		if task.Status == model.TaskStatusActive {
			status.ActiveTasks++
		}
	}
	if s.running {
		status.Uptime = s.now().Sub(s.startedAt)
	}
	return status
}

// Cleanup removes stopped tasks whose UpdatedAt is older than the retention
// window. Returns the number of tasks removed.
func (s *schedulerService) Cleanup(ctx context.Context) int {
	retention := s.cfg.Scheduler.CleanupRetention
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	cutoff := s.now().Add(-retention)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, task := range s.tasks {
		if task.Status != model.TaskStatusStopped || !task.UpdatedAt.Before(cutoff) {
			continue
		}
		s.cancelTimerLocked(id)
		delete(s.tasks, id)
		removed++
	}

	if removed > 0 {
		s.log.InfoContext(ctx, "Cleanup removed stale tasks", logger.IntField("removed", removed))
	}
	return removed
}

// armTimerLocked replaces any live timer for the task with one firing at
// NextRun. Must be called with s.mu held.
func (s *schedulerService) armTimerLocked(task *model.ScheduledTask) {
	s.cancelTimerLocked(task.ID)

	taskID := task.ID
	delay := task.NextRun.Sub(s.now())
	if delay < 0 {
		delay = 0
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		// A cancelled or replaced timer that already fired must not dispatch:
		// the handle in the map is the single source of truth.
		if s.timers[taskID] != timer {
			s.mu.Unlock()
			return
		}
		delete(s.timers, taskID)
		s.mu.Unlock()

		s.dispatch(taskID)
	})
	s.timers[taskID] = timer
}

func (s *schedulerService) cancelTimerLocked(taskID string) {
	if timer, ok := s.timers[taskID]; ok {
		timer.Stop()
		delete(s.timers, taskID)
	}
}

// dispatch runs one timer- or sweep-driven firing of a task. The caller must
// have already removed the task's timer handle.
func (s *schedulerService) dispatch(taskID string) {
	s.mu.Lock()
	task, ok := s.tasks[taskID]
	if !ok || task.Status != model.TaskStatusActive || !s.running {
		s.mu.Unlock()
		return
	}
	configurationID, userID := task.ConfigurationID, task.UserID
	s.mu.Unlock()

	timeout := s.cfg.Executor.DefaultTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.semaphore <- struct{}{}
	executionID, execErr := s.orchestrator.StartExecution(ctx, configurationID, userID)
	<-s.semaphore

	s.mu.Lock()
	now := s.now()
	task, ok = s.tasks[taskID]
	if !ok {
		s.mu.Unlock()
		return
	}

	task.ExecutionCount++
	task.UpdatedAt = now
	if execErr != nil {
		task.FailureCount++
	} else {
		task.LastRun = &now
		task.LastExecutionID = &executionID
		s.monitorExecution(taskID, executionID)
	}

	switch {
	case task.Schedule.Type == model.ScheduleTypeOnce:
		task.Status = model.TaskStatusStopped
		s.cancelTimerLocked(taskID)
	case s.terminalConditionLocked(task, now):
		task.Status = model.TaskStatusStopped
		s.cancelTimerLocked(taskID)
	default:
		// A single failed firing must not stall a recurring task.
		if compiled, err := compileSchedule(task.Schedule); err != nil {
			s.log.Error("Failed to recompute next run",
				logger.ErrorField(err),
				logger.StringField("task_id", taskID),
			)
		} else {
			task.NextRun = compiled.NextRun(now)
			if s.running && task.Status == model.TaskStatusActive && task.Schedule.Enabled {
				s.armTimerLocked(task)
			}
		}
	}
	s.mu.Unlock()

	if execErr != nil {
		s.log.ErrorContext(ctx, "Failed to dispatch task",
			logger.ErrorField(execErr),
			logger.StringField("task_id", taskID),
			logger.StringField("configuration_id", configurationID),
		)
		s.alertDispatchFailure(ctx, taskID, configurationID, execErr)
	} else {
		s.log.InfoContext(ctx, "Task dispatched",
			logger.StringField("task_id", taskID),
			logger.StringField("execution_id", executionID),
		)
	}
}

// alertDispatchFailure notifies about a timer-driven dispatch failure.
// Notification errors are swallowed; alerting must never break dispatch.
func (s *schedulerService) alertDispatchFailure(ctx context.Context, taskID, configurationID string, execErr error) {
	alert := model.SystemAlert{
		Type:      model.AlertTypeError,
		Title:     "Scheduled task dispatch failed",
		Message:   execErr.Error(),
		Timestamp: s.now(),
		Metadata: map[string]interface{}{
			"task_id":          taskID,
			"configuration_id": configurationID,
		},
	}
	if err := s.notifier.SendSystemAlert(ctx, alert); err != nil {
		s.log.WarnContext(ctx, "Failed to send dispatch alert",
			logger.ErrorField(err),
			logger.StringField("task_id", taskID),
		)
	}
}

// monitorExecution spawns the fire-and-forget completion check for one
// execution. Must be called with s.mu held; the goroutine re-acquires it.
func (s *schedulerService) monitorExecution(taskID, executionID string) {
	delay := s.cfg.Scheduler.MonitorDelay
	if delay <= 0 {
		delay = 5 * time.Second
	}

	utils.GoSafe(func() {
		time.Sleep(delay)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		execution, err := s.orchestrator.GetExecutionStatus(ctx, executionID)
		if err != nil || execution == nil {
			// Best-effort monitoring: never surfaced, never alerted.
			s.log.DebugContext(ctx, "Execution status unavailable",
				logger.ErrorField(err),
				logger.StringField("execution_id", executionID),
			)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		// The task may be gone by now; a late monitor write is a no-op.
		task, ok := s.tasks[taskID]
		if !ok {
			return
		}
		switch execution.Status {
		case model.ExecutionStatusCompleted:
			task.SuccessCount++
		case model.ExecutionStatusFailed:
			task.FailureCount++
		default:
			// Still pending after the monitor delay; leave the counters alone.
		}
	})
}

// terminalConditionLocked reports whether the task hit its execution cap or
// end date. Must be called with s.mu held.
func (s *schedulerService) terminalConditionLocked(task *model.ScheduledTask, now time.Time) bool {
	if task.Schedule.MaxExecutions != nil && task.ExecutionCount >= *task.Schedule.MaxExecutions {
		return true
	}
	if task.Schedule.EndDate != nil && now.After(*task.Schedule.EndDate) {
		return true
	}
	return false
}

func (s *schedulerService) sweepLoop(stop chan struct{}) {
	interval := s.cfg.Scheduler.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.reconcile()
		}
	}
}

// reconcile is the safety net against lost timers: it re-arms or immediately
// fires active tasks without a live timer and force-stops tasks whose
// terminal conditions are newly satisfied. Idempotent.
func (s *schedulerService) reconcile() {
	s.mu.Lock()
	now := s.now()
	var due []string
	for id, task := range s.tasks {
		if task.Status != model.TaskStatusActive {
			// Defensive: non-active tasks must never hold a timer.
			s.cancelTimerLocked(id)
			continue
		}
		if s.terminalConditionLocked(task, now) {
			task.Status = model.TaskStatusStopped
			task.UpdatedAt = now
			s.cancelTimerLocked(id)
			s.log.Info("Task reached terminal condition",
				logger.StringField("task_id", id),
			)
			continue
		}
		if !task.Schedule.Enabled {
			continue
		}
		if _, armed := s.timers[id]; armed {
			continue
		}
		if task.NextRun.IsZero() {
			continue
		}
		if !task.NextRun.After(now) {
			due = append(due, id)
		} else {
			s.armTimerLocked(task)
		}
	}
	s.mu.Unlock()

	for _, id := range due {
		taskID := id
		utils.GoSafe(func() { s.dispatch(taskID) })
	}
}
