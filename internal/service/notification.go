package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang-scheduler/config"
	"golang-scheduler/internal/contract"
	"golang-scheduler/internal/model"
	"golang-scheduler/pkg/logger"
	"golang-scheduler/pkg/telegram"
)

// telegramNotifier delivers system alerts to the configured Telegram chat.
// It doubles as the logger's alert sink so alert-flagged error logs reach the
// same channel.
type telegramNotifier struct {
	cfg    *config.Config
	log    *logger.Logger
	sender *telegram.Sender
}

func NewTelegramNotificationService(cfg *config.Config, log *logger.Logger, sender *telegram.Sender) contract.NotificationService {
	return &telegramNotifier{cfg: cfg, log: log, sender: sender}
}

func (n *telegramNotifier) SendSystemAlert(ctx context.Context, alert model.SystemAlert) error {
	return n.sender.Send(ctx, formatAlert(alert))
}

// Alert implements logger.AlertSink.
func (n *telegramNotifier) Alert(level, message string, fields map[string]interface{}, at time.Time) {
	alertType := model.AlertTypeError
	if level == "WARN" {
		alertType = model.AlertTypeWarning
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.cfg.Telegram.TimeoutDuration)
	defer cancel()

	alert := model.SystemAlert{
		Type:      alertType,
		Title:     fmt.Sprintf("%s Alert", level),
		Message:   message,
		Timestamp: at,
		Metadata:  fields,
	}
	if err := n.SendSystemAlert(ctx, alert); err != nil {
		n.log.Warn("Failed to deliver alert", logger.ErrorField(err))
	}
}

func formatAlert(alert model.SystemAlert) string {
	icon := "🚨"
	switch alert.Type {
	case model.AlertTypeWarning:
		icon = "⚠️"
	case model.AlertTypeInfo:
		icon = "ℹ️"
	}

	keys := make([]string, 0, len(alert.Metadata))
	for k := range alert.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fieldStr := ""
	for _, k := range keys {
		fieldStr += fmt.Sprintf("• %s: %v\n", k, alert.Metadata[k])
	}

	return fmt.Sprintf(
		"%s *%s*\n\n*Message:* %s\n\n*Fields:*\n%s\n*Time:* %s",
		icon,
		alert.Title,
		alert.Message,
		fieldStr,
		alert.Timestamp.Format("2006-01-02 15:04:05"),
	)
}
