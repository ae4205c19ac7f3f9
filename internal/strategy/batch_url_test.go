package strategy

import (
	"context"
	"fmt"
	"testing"

	"golang-scheduler/internal/model"
	"golang-scheduler/pkg/httpclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// fakeHTTPClient maps each endpoint to a canned status code; unmapped
// endpoints fail with a transport error.
type fakeHTTPClient struct {
	statuses map[string]int
}

func (f *fakeHTTPClient) Get(ctx context.Context, endpoint string, queryParams, headers map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
	status, ok := f.statuses[endpoint]
	if !ok {
		return nil, fmt.Errorf("dial %s: connection refused", endpoint)
	}
	return &httpclient.BaseResponse{StatusCode: status}, nil
}

func (f *fakeHTTPClient) Post(ctx context.Context, endpoint string, body interface{}, headers map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
	return f.Get(ctx, endpoint, nil, nil, result)
}

func (f *fakeHTTPClient) Put(ctx context.Context, endpoint string, body interface{}, headers map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
	return f.Get(ctx, endpoint, nil, nil, result)
}

func (f *fakeHTTPClient) Delete(ctx context.Context, endpoint string, headers map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
	return f.Get(ctx, endpoint, nil, nil, result)
}

func batchConfiguration(payload string) *model.Configuration {
	return &model.Configuration{
		ID:      "cfg-1",
		Type:    string(TypeBatchURL),
		Payload: datatypes.JSON(payload),
	}
}

func TestBatchURLStrategyExecute(t *testing.T) {
	tests := []struct {
		name         string
		statuses     map[string]int
		payload      string
		wantExitCode int32
		wantErr      bool
	}{
		{
			name:         "all urls succeed",
			statuses:     map[string]int{"http://a": 200, "http://b": 204},
			payload:      `{"urls":["http://a","http://b"]}`,
			wantExitCode: EXIT_CODE_SUCCESS,
		},
		{
			name:         "some urls fail",
			statuses:     map[string]int{"http://a": 200, "http://b": 503},
			payload:      `{"urls":["http://a","http://b"]}`,
			wantExitCode: EXIT_CODE_PARTIAL_SUCCESS,
		},
		{
			name:         "all urls fail",
			statuses:     map[string]int{},
			payload:      `{"urls":["http://a","http://b"]}`,
			wantExitCode: EXIT_CODE_FAILED,
			wantErr:      true,
		},
		{
			name:         "empty url list is skipped",
			statuses:     map[string]int{},
			payload:      `{"urls":[]}`,
			wantExitCode: EXIT_CODE_SKIPPED,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := NewBatchURLStrategy(testConfig(), testLogger(t), &fakeHTTPClient{statuses: tt.statuses})
			result, err := strategy.Execute(context.Background(), batchConfiguration(tt.payload))
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantExitCode, result.ExitCode)
		})
	}
}

func TestBatchURLStrategyOutputKeepsURLOrder(t *testing.T) {
	strategy := NewBatchURLStrategy(testConfig(), testLogger(t), &fakeHTTPClient{
		statuses: map[string]int{"http://a": 200, "http://b": 201, "http://c": 202},
	})
	result, err := strategy.Execute(context.Background(), batchConfiguration(`{"urls":["http://a","http://b","http://c"]}`))
	require.NoError(t, err)
	assert.Equal(t, "http://a: 200\nhttp://b: 201\nhttp://c: 202", result.Output)
}
