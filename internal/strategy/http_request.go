package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang-scheduler/config"
	"golang-scheduler/internal/model"
	"golang-scheduler/pkg/httpclient"
	"golang-scheduler/pkg/logger"
)

type httpRequestPayload struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    json.RawMessage   `json:"body,omitempty"`
}

type httpRequestStrategy struct {
	cfg    *config.Config
	log    *logger.Logger
	client httpclient.HTTPClient
}

func NewHTTPRequestStrategy(cfg *config.Config, log *logger.Logger, client httpclient.HTTPClient) ExecutionStrategy {
	return &httpRequestStrategy{cfg: cfg, log: log, client: client}
}

func (s *httpRequestStrategy) GetType() ConfigurationType {
	return TypeHTTPRequest
}

func (s *httpRequestStrategy) Execute(ctx context.Context, configuration *model.Configuration) (ExecutionResult, error) {
	var payload httpRequestPayload
	if err := json.Unmarshal(configuration.Payload, &payload); err != nil {
		return ExecutionResult{ExitCode: EXIT_CODE_FAILED}, fmt.Errorf("invalid http_request payload: %w", err)
	}
	if payload.URL == "" {
		return ExecutionResult{ExitCode: EXIT_CODE_FAILED}, fmt.Errorf("http_request payload requires a url")
	}

	var (
		resp *httpclient.BaseResponse
		err  error
	)
	switch strings.ToUpper(payload.Method) {
	case "", "GET":
		resp, err = s.client.Get(ctx, payload.URL, nil, payload.Headers, nil)
	case "POST":
		resp, err = s.client.Post(ctx, payload.URL, payload.Body, payload.Headers, nil)
	case "PUT":
		resp, err = s.client.Put(ctx, payload.URL, payload.Body, payload.Headers, nil)
	case "DELETE":
		resp, err = s.client.Delete(ctx, payload.URL, payload.Headers, nil)
	default:
		return ExecutionResult{ExitCode: EXIT_CODE_FAILED}, fmt.Errorf("unsupported http method %q", payload.Method)
	}
	if err != nil {
		return ExecutionResult{ExitCode: EXIT_CODE_FAILED}, fmt.Errorf("http request failed: %w", err)
	}

	s.log.DebugContext(ctx, "HTTP request executed",
		logger.StringField("url", payload.URL),
		logger.IntField("status_code", resp.StatusCode),
	)

	result := ExecutionResult{
		ExitCode: int32(resp.StatusCode),
		Output:   string(resp.Body),
	}
	if resp.StatusCode >= 400 {
		return result, fmt.Errorf("http request returned status %d", resp.StatusCode)
	}
	return result, nil
}
