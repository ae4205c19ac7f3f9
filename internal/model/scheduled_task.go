package model

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusActive  TaskStatus = "active"
	TaskStatusPaused  TaskStatus = "paused"
	TaskStatusStopped TaskStatus = "stopped"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusActive, TaskStatusPaused, TaskStatusStopped:
		return true
	}
	return false
}

type ScheduleType string

const (
	ScheduleTypeOnce    ScheduleType = "once"
	ScheduleTypeDaily   ScheduleType = "daily"
	ScheduleTypeWeekly  ScheduleType = "weekly"
	ScheduleTypeMonthly ScheduleType = "monthly"
	ScheduleTypeCustom  ScheduleType = "custom"
)

// ScheduleConfig is the declarative recurrence rule of a task. It is a value
// type: replaced wholesale on update after merging, never mutated in place.
type ScheduleConfig struct {
	Type           ScheduleType `json:"type"`
	Time           string       `json:"time"` // wall clock "HH:MM"
	Timezone       string       `json:"timezone"`
	DayOfWeek      *int         `json:"day_of_week,omitempty"`  // 0 = Sunday, weekly only
	DayOfMonth     *int         `json:"day_of_month,omitempty"` // 1-31, monthly only
	CronExpression *string      `json:"cron_expression,omitempty"`
	Enabled        bool         `json:"enabled"`
	EndDate        *time.Time   `json:"end_date,omitempty"`
	MaxExecutions  *uint64      `json:"max_executions,omitempty"`
}

// SchedulePatch is a partial override of a ScheduleConfig. Nil fields keep the
// existing value.
type SchedulePatch struct {
	Type           *ScheduleType `json:"type,omitempty"`
	Time           *string       `json:"time,omitempty"`
	Timezone       *string       `json:"timezone,omitempty"`
	DayOfWeek      *int          `json:"day_of_week,omitempty"`
	DayOfMonth     *int          `json:"day_of_month,omitempty"`
	CronExpression *string       `json:"cron_expression,omitempty"`
	Enabled        *bool         `json:"enabled,omitempty"`
	EndDate        *time.Time    `json:"end_date,omitempty"`
	MaxExecutions  *uint64       `json:"max_executions,omitempty"`
}

// Merge applies the patch shallowly on top of the receiver and returns the result.
func (c ScheduleConfig) Merge(patch SchedulePatch) ScheduleConfig {
	out := c
	if patch.Type != nil {
		out.Type = *patch.Type
	}
	if patch.Time != nil {
		out.Time = *patch.Time
	}
	if patch.Timezone != nil {
		out.Timezone = *patch.Timezone
	}
	if patch.DayOfWeek != nil {
		out.DayOfWeek = patch.DayOfWeek
	}
	if patch.DayOfMonth != nil {
		out.DayOfMonth = patch.DayOfMonth
	}
	if patch.CronExpression != nil {
		out.CronExpression = patch.CronExpression
	}
	if patch.Enabled != nil {
		out.Enabled = *patch.Enabled
	}
	if patch.EndDate != nil {
		out.EndDate = patch.EndDate
	}
	if patch.MaxExecutions != nil {
		out.MaxExecutions = patch.MaxExecutions
	}
	return out
}

// ScheduledTask is the unit of recurring work owned by the scheduler.
type ScheduledTask struct {
	ID              string         `json:"id"`
	ConfigurationID string         `json:"configuration_id"`
	UserID          string         `json:"user_id"`
	Name            string         `json:"name"`
	Schedule        ScheduleConfig `json:"schedule"`
	Status          TaskStatus     `json:"status"`
	NextRun         time.Time      `json:"next_run"`
	LastRun         *time.Time     `json:"last_run,omitempty"`
	LastExecutionID *string        `json:"last_execution_id,omitempty"`
	ExecutionCount  uint64         `json:"execution_count"`
	SuccessCount    uint64         `json:"success_count"`
	FailureCount    uint64         `json:"failure_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type TaskUpdateParam struct {
	Schedule *SchedulePatch `json:"schedule,omitempty"`
	Status   *TaskStatus    `json:"status,omitempty"`
}

// TaskStats aggregates the filtered task set for dashboards.
type TaskStats struct {
	TotalTasks     int        `json:"total_tasks"`
	ActiveTasks    int        `json:"active_tasks"`
	PausedTasks    int        `json:"paused_tasks"`
	StoppedTasks   int        `json:"stopped_tasks"`
	TotalRuns      uint64     `json:"total_runs"`
	SuccessRate    float64    `json:"success_rate"`
	NextExecution  *time.Time `json:"next_execution,omitempty"`
}

type SchedulerStatus struct {
	IsRunning    bool          `json:"is_running"`
	TotalTasks   int           `json:"total_tasks"`
	ActiveTasks  int           `json:"active_tasks"`
	ActiveTimers int           `json:"active_timers"`
	Uptime       time.Duration `json:"uptime"`
}
