package contract

import (
	"context"

	"golang-scheduler/internal/model"
)

// ExecutionOrchestrator starts and reports on concrete runs. It is the system
// of record for execution detail; the scheduler only keeps ids.
type ExecutionOrchestrator interface {
	StartExecution(ctx context.Context, configurationID, userID string) (string, error)
	GetExecutionStatus(ctx context.Context, executionID string) (*model.Execution, error)
}

// NotificationService delivers system alerts. Delivery failures must never
// propagate back into dispatch.
type NotificationService interface {
	SendSystemAlert(ctx context.Context, alert model.SystemAlert) error
}

// ConfigurationStore resolves configuration ids at task-creation time.
type ConfigurationStore interface {
	GetConfiguration(ctx context.Context, id string) (*model.Configuration, error)
}
