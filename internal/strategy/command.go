package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	"golang-scheduler/config"
	"golang-scheduler/internal/model"
	"golang-scheduler/pkg/logger"
)

type commandPayload struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

type commandStrategy struct {
	cfg *config.Config
	log *logger.Logger
}

func NewCommandStrategy(cfg *config.Config, log *logger.Logger) ExecutionStrategy {
	return &commandStrategy{cfg: cfg, log: log}
}

func (s *commandStrategy) GetType() ConfigurationType {
	return TypeCommand
}

func (s *commandStrategy) Execute(ctx context.Context, configuration *model.Configuration) (ExecutionResult, error) {
	var payload commandPayload
	if err := json.Unmarshal(configuration.Payload, &payload); err != nil {
		return ExecutionResult{ExitCode: EXIT_CODE_FAILED}, fmt.Errorf("invalid command payload: %w", err)
	}
	if payload.Command == "" {
		return ExecutionResult{ExitCode: EXIT_CODE_FAILED}, fmt.Errorf("command payload requires a command")
	}

	cmd := exec.CommandContext(ctx, payload.Command, payload.Args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		exitCode := int32(EXIT_CODE_FAILED)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = int32(exitErr.ExitCode())
		}
		return ExecutionResult{ExitCode: exitCode, Output: string(output)},
			fmt.Errorf("command %q failed: %w", payload.Command, err)
	}

	s.log.DebugContext(ctx, "Command executed",
		logger.StringField("command", payload.Command),
		logger.IntField("output_bytes", len(output)),
	)
	return ExecutionResult{ExitCode: EXIT_CODE_SUCCESS, Output: string(output)}, nil
}
