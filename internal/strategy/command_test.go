package strategy

import (
	"context"
	"testing"
	"time"

	"golang-scheduler/config"
	"golang-scheduler/internal/model"
	"golang-scheduler/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func testConfig() *config.Config {
	return &config.Config{
		Executor: config.Executor{DefaultTimeout: time.Second, BatchURLLimit: 2},
	}
}

func TestCommandStrategyExecute(t *testing.T) {
	strategy := NewCommandStrategy(testConfig(), testLogger(t))
	configuration := &model.Configuration{
		ID:      "cfg-1",
		Type:    string(TypeCommand),
		Payload: datatypes.JSON(`{"command":"echo","args":["hello"]}`),
	}

	result, err := strategy.Execute(context.Background(), configuration)
	require.NoError(t, err)
	assert.Equal(t, int32(EXIT_CODE_SUCCESS), result.ExitCode)
	assert.Equal(t, "hello\n", result.Output)
}

func TestCommandStrategyNonZeroExit(t *testing.T) {
	strategy := NewCommandStrategy(testConfig(), testLogger(t))
	configuration := &model.Configuration{
		ID:      "cfg-1",
		Type:    string(TypeCommand),
		Payload: datatypes.JSON(`{"command":"sh","args":["-c","exit 3"]}`),
	}

	result, err := strategy.Execute(context.Background(), configuration)
	require.Error(t, err)
	assert.Equal(t, int32(3), result.ExitCode)
}

func TestCommandStrategyRejectsBadPayload(t *testing.T) {
	strategy := NewCommandStrategy(testConfig(), testLogger(t))

	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `not json`},
		{name: "missing command", payload: `{"args":["x"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configuration := &model.Configuration{
				ID:      "cfg-1",
				Type:    string(TypeCommand),
				Payload: datatypes.JSON(tt.payload),
			}
			result, err := strategy.Execute(context.Background(), configuration)
			require.Error(t, err)
			assert.Equal(t, int32(EXIT_CODE_FAILED), result.ExitCode)
		})
	}
}
