package model

import (
	"database/sql"
	"time"
)

type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// Execution is the orchestrator-owned record of one concrete run. The
// scheduler only ever references it by id.
type Execution struct {
	ID              string          `json:"id"`
	ConfigurationID string          `json:"configuration_id"`
	UserID          string          `json:"user_id"`
	Status          ExecutionStatus `json:"status"`
	ExitCode        sql.NullInt32   `json:"exit_code"`
	Output          sql.NullString  `json:"output"`
	ErrorMessage    sql.NullString  `json:"error_message"`
	StartedAt       time.Time       `json:"started_at"`
	CompletedAt     sql.NullTime    `json:"completed_at"`
}

type ExecutionOutcome string

const (
	OutcomeSuccess   ExecutionOutcome = "success"
	OutcomeFailure   ExecutionOutcome = "failure"
	OutcomeCancelled ExecutionOutcome = "cancelled"
)

// TaskExecutionResult is a transient pass-through summary of a run, returned
// to callers of manual execution. It is never stored by the scheduler.
type TaskExecutionResult struct {
	TaskID      string           `json:"task_id"`
	ExecutionID string           `json:"execution_id"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	Outcome     ExecutionOutcome `json:"outcome"`
	Error       string           `json:"error,omitempty"`
}

type AlertType string

const (
	AlertTypeError   AlertType = "error"
	AlertTypeWarning AlertType = "warning"
	AlertTypeInfo    AlertType = "info"
)

// SystemAlert is the payload handed to the notification service.
type SystemAlert struct {
	Type      AlertType              `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}
