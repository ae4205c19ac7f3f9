package service

import (
	"golang-scheduler/config"
	"golang-scheduler/internal/contract"
	"golang-scheduler/internal/repository"
	"golang-scheduler/internal/strategy"
	"golang-scheduler/pkg/cache"
	"golang-scheduler/pkg/httpclient"
	"golang-scheduler/pkg/logger"
	"golang-scheduler/pkg/telegram"
)

type Service struct {
	SchedulerService    SchedulerService
	TaskExecutor        TaskExecutor
	NotificationService contract.NotificationService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	executionCache cache.Cache,
	telegramSender *telegram.Sender,
) *Service {
	notifier := NewTelegramNotificationService(cfg, log, telegramSender)
	if sink, ok := notifier.(logger.AlertSink); ok {
		log.SetAlertSink(sink)
	}

	client := httpclient.New(cfg.Executor.HTTPTimeout)
	strategies := make(map[strategy.ConfigurationType]strategy.ExecutionStrategy)
	strategies[strategy.TypeHTTPRequest] = strategy.NewHTTPRequestStrategy(cfg, log, client)
	strategies[strategy.TypeCommand] = strategy.NewCommandStrategy(cfg, log)
	strategies[strategy.TypeBatchURL] = strategy.NewBatchURLStrategy(cfg, log, client)

	taskExecutor := NewTaskExecutor(cfg, log, repo.ConfigurationRepo, executionCache, strategies)
	schedulerService := NewSchedulerService(cfg, log, taskExecutor, notifier, repo.ConfigurationRepo)

	return &Service{
		SchedulerService:    schedulerService,
		TaskExecutor:        taskExecutor,
		NotificationService: notifier,
	}
}
