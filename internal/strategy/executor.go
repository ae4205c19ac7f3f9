package strategy

import (
	"context"

	"golang-scheduler/internal/model"
)

const (
	EXIT_CODE_SUCCESS         = 200
	EXIT_CODE_FAILED          = 500
	EXIT_CODE_SKIPPED         = 204
	EXIT_CODE_PARTIAL_SUCCESS = 206
)

type ConfigurationType string

const (
	TypeHTTPRequest ConfigurationType = "http_request"
	TypeCommand     ConfigurationType = "command"
	TypeBatchURL    ConfigurationType = "batch_url"
)

type ExecutionResult struct {
	ExitCode int32  `json:"exit_code"`
	Output   string `json:"output"`
}

// ExecutionStrategy defines the interface for different configuration execution strategies.
type ExecutionStrategy interface {
	Execute(ctx context.Context, configuration *model.Configuration) (ExecutionResult, error)
	GetType() ConfigurationType
}
