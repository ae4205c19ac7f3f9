package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"golang-scheduler/config"
	"golang-scheduler/internal/model"
	"golang-scheduler/pkg/httpclient"
	"golang-scheduler/pkg/logger"

	"golang.org/x/sync/errgroup"
)

type batchURLPayload struct {
	URLs []string `json:"urls"`
}

// batchURLStrategy opens every URL in the payload concurrently, bounded by the
// configured limit. Individual failures do not abort the batch.
type batchURLStrategy struct {
	cfg    *config.Config
	log    *logger.Logger
	client httpclient.HTTPClient
}

func NewBatchURLStrategy(cfg *config.Config, log *logger.Logger, client httpclient.HTTPClient) ExecutionStrategy {
	return &batchURLStrategy{cfg: cfg, log: log, client: client}
}

func (s *batchURLStrategy) GetType() ConfigurationType {
	return TypeBatchURL
}

func (s *batchURLStrategy) Execute(ctx context.Context, configuration *model.Configuration) (ExecutionResult, error) {
	var payload batchURLPayload
	if err := json.Unmarshal(configuration.Payload, &payload); err != nil {
		return ExecutionResult{ExitCode: EXIT_CODE_FAILED}, fmt.Errorf("invalid batch_url payload: %w", err)
	}
	if len(payload.URLs) == 0 {
		return ExecutionResult{ExitCode: EXIT_CODE_SKIPPED, Output: "no urls in payload"}, nil
	}

	limit := s.cfg.Executor.BatchURLLimit
	if limit <= 0 {
		limit = 5
	}

	var (
		mu     sync.Mutex
		failed int
		lines  = make([]string, len(payload.URLs))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, url := range payload.URLs {
		i, url := i, url
		g.Go(func() error {
			resp, err := s.client.Get(gctx, url, nil, nil, nil)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				lines[i] = fmt.Sprintf("%s: %v", url, err)
				return nil
			}
			if resp.StatusCode >= 400 {
				failed++
			}
			lines[i] = fmt.Sprintf("%s: %d", url, resp.StatusCode)
			return nil
		})
	}
	_ = g.Wait()

	output := strings.Join(lines, "\n")
	switch {
	case failed == len(payload.URLs):
		return ExecutionResult{ExitCode: EXIT_CODE_FAILED, Output: output},
			fmt.Errorf("all %d urls failed", failed)
	case failed > 0:
		s.log.WarnContext(ctx, "Batch URL run partially failed",
			logger.IntField("failed", failed),
			logger.IntField("total", len(payload.URLs)),
		)
		return ExecutionResult{ExitCode: EXIT_CODE_PARTIAL_SUCCESS, Output: output}, nil
	default:
		return ExecutionResult{ExitCode: EXIT_CODE_SUCCESS, Output: output}, nil
	}
}
