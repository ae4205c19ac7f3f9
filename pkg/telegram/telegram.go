package telegram

import (
	"context"

	"golang-scheduler/config"
	"golang-scheduler/pkg/logger"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// Sender delivers messages to the configured alert chat, rate limited
// globally so bursts of alerts cannot trip Telegram's API limits.
type Sender struct {
	cfg     *config.TelegramConfig
	log     *logger.Logger
	bot     *telebot.Bot
	limiter *rate.Limiter
}

func NewSender(cfg *config.TelegramConfig, log *logger.Logger, bot *telebot.Bot) *Sender {
	maxPerSecond := cfg.MaxRequestPerSecond
	if maxPerSecond <= 0 {
		maxPerSecond = 30
	}
	return &Sender{
		cfg:     cfg,
		log:     log,
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(maxPerSecond), maxPerSecond),
	}
}

func (t *Sender) Send(ctx context.Context, text string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := t.bot.Send(telebot.ChatID(t.cfg.ChatID), text, telebot.ModeMarkdown)
	return err
}
