package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang-scheduler/config"
	"golang-scheduler/internal/model"
	"golang-scheduler/internal/repository"
	"golang-scheduler/internal/strategy"
	"golang-scheduler/pkg/cache"
	"golang-scheduler/pkg/common"
	"golang-scheduler/pkg/logger"
	"golang-scheduler/pkg/utils"

	"github.com/google/uuid"
)

// TaskExecutor is the in-process execution orchestrator. It owns execution
// records and performs the actual work through per-type strategies.
type TaskExecutor interface {
	StartExecution(ctx context.Context, configurationID, userID string) (string, error)
	GetExecutionStatus(ctx context.Context, executionID string) (*model.Execution, error)
}

type taskExecutor struct {
	cfg        *config.Config
	log        *logger.Logger
	configRepo repository.ConfigurationRepository
	executions cache.Cache
	strategies map[strategy.ConfigurationType]strategy.ExecutionStrategy
}

func NewTaskExecutor(
	cfg *config.Config,
	log *logger.Logger,
	configRepo repository.ConfigurationRepository,
	executions cache.Cache,
	strategies map[strategy.ConfigurationType]strategy.ExecutionStrategy,
) TaskExecutor {
	return &taskExecutor{
		cfg:        cfg,
		log:        log,
		configRepo: configRepo,
		executions: executions,
		strategies: strategies,
	}
}

func (t *taskExecutor) StartExecution(ctx context.Context, configurationID, userID string) (string, error) {
	configuration, err := t.configRepo.FindByID(ctx, configurationID)
	if err != nil {
		return "", fmt.Errorf("failed to find configuration: %w", err)
	}
	if configuration == nil {
		return "", fmt.Errorf("%w: %s", model.ErrConfigurationNotFound, configurationID)
	}
	if !configuration.Enabled {
		return "", fmt.Errorf("configuration %s is disabled", configurationID)
	}

	execution := &model.Execution{
		ID:              uuid.NewString(),
		ConfigurationID: configurationID,
		UserID:          userID,
		Status:          model.ExecutionStatusPending,
		StartedAt:       time.Now(),
	}
	t.storeExecution(execution)

	t.log.InfoContext(ctx, "Execution started",
		logger.StringField("execution_id", execution.ID),
		logger.StringField("configuration_id", configurationID),
		logger.StringField("type", configuration.Type),
	)

	utils.GoSafe(func() {
		t.run(execution, configuration)
	})

	return execution.ID, nil
}

func (t *taskExecutor) GetExecutionStatus(ctx context.Context, executionID string) (*model.Execution, error) {
	value, found := t.executions.Get(fmt.Sprintf(common.KEY_EXECUTION_RECORD, executionID))
	if !found {
		return nil, fmt.Errorf("%w: %s", model.ErrExecutionNotFound, executionID)
	}
	execution, ok := value.(model.Execution)
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrExecutionNotFound, executionID)
	}
	return &execution, nil
}

func (t *taskExecutor) run(execution *model.Execution, configuration *model.Configuration) {
	timeout := time.Duration(configuration.Timeout) * time.Second
	if timeout <= 0 {
		timeout = t.cfg.Executor.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	executionStrategy := t.strategies[strategy.ConfigurationType(configuration.Type)]
	if executionStrategy == nil {
		execution.Status = model.ExecutionStatusFailed
		execution.ErrorMessage = sql.NullString{String: fmt.Sprintf("unknown configuration type %q", configuration.Type), Valid: true}
	} else {
		result, err := executionStrategy.Execute(ctx, configuration)
		if err != nil {
			t.log.ErrorContextWithAlert(ctx, "Failed to execute configuration",
				logger.ErrorField(err),
				logger.StringField("execution_id", execution.ID),
				logger.StringField("configuration_id", configuration.ID),
				logger.StringField("type", configuration.Type),
			)
			execution.Status = model.ExecutionStatusFailed
			execution.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		} else {
			execution.Status = model.ExecutionStatusCompleted
		}
		execution.ExitCode = sql.NullInt32{Int32: result.ExitCode, Valid: true}
		execution.Output = sql.NullString{String: result.Output, Valid: true}
	}

	execution.CompletedAt = sql.NullTime{Time: time.Now(), Valid: true}
	t.storeExecution(execution)

	t.log.InfoContext(ctx, "Execution finished",
		logger.StringField("execution_id", execution.ID),
		logger.StringField("status", string(execution.Status)),
	)
}

func (t *taskExecutor) storeExecution(execution *model.Execution) {
	ttl := t.cfg.Scheduler.ExecutionCacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	t.executions.Set(fmt.Sprintf(common.KEY_EXECUTION_RECORD, execution.ID), *execution, ttl)
}
