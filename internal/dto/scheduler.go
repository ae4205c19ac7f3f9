package dto

import (
	"encoding/json"

	"golang-scheduler/internal/model"
)

type CreateTaskRequest struct {
	ConfigurationID string               `json:"configuration_id" validate:"required"`
	UserID          string               `json:"user_id" validate:"required"`
	Schedule        model.ScheduleConfig `json:"schedule" validate:"required"`
}

type UpdateTaskRequest struct {
	Schedule *model.SchedulePatch `json:"schedule,omitempty"`
	Status   *model.TaskStatus    `json:"status,omitempty" validate:"omitempty,oneof=active paused stopped"`
}

type CreateConfigurationRequest struct {
	UserID  string          `json:"user_id" validate:"required"`
	Name    string          `json:"name" validate:"required"`
	Type    string          `json:"type" validate:"required,oneof=http_request command batch_url"`
	Payload json.RawMessage `json:"payload" validate:"required"`
	Timeout int             `json:"timeout" validate:"omitempty,min=1"`
	Enabled *bool           `json:"enabled,omitempty"`
}

type UpdateConfigurationRequest struct {
	Name    *string         `json:"name,omitempty"`
	Type    *string         `json:"type,omitempty" validate:"omitempty,oneof=http_request command batch_url"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Timeout *int            `json:"timeout,omitempty" validate:"omitempty,min=1"`
	Enabled *bool           `json:"enabled,omitempty"`
}
