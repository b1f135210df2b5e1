package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/rasoichef-partner-bot/internal/dialog"
	"github.com/Spok95/rasoichef-partner-bot/internal/domain/partners"
	"github.com/Spok95/rasoichef-partner-bot/internal/infra/metrics"
)

// telegramAPI is the part of *tgbotapi.BotAPI the bot uses.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

// applicationStore is implemented by *partners.Repo.
type applicationStore interface {
	Create(ctx context.Context, a partners.Application) (*partners.Application, error)
	GetByTelegramID(ctx context.Context, tgID int64) (*partners.Application, error)
	SetStatus(ctx context.Context, tgID int64, status partners.Status) (*partners.Application, error)
	List(ctx context.Context, limit int) ([]partners.Application, error)
}

type Bot struct {
	api       telegramAPI
	log       *slog.Logger
	sessions  *dialog.Store
	apps      applicationStore
	adminChat int64
	metrics   *metrics.Metrics
}

func New(api telegramAPI, log *slog.Logger,
	sessions *dialog.Store, apps applicationStore,
	adminChatID int64, m *metrics.Metrics) *Bot {

	return &Bot{
		api: api, log: log, sessions: sessions, apps: apps,
		adminChat: adminChatID, metrics: m,
	}
}

// Run polls updates and handles them one by one until ctx is done.
func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, upd)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		b.onMessage(ctx, upd)
	} else if upd.CallbackQuery != nil {
		b.onCallback(ctx, upd)
	}
}

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg.Chat == nil || msg.From == nil {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	cb := upd.CallbackQuery
	if cb.Message == nil || cb.Message.Chat == nil || cb.From == nil {
		_ = b.answerCallback(cb, "Outdated", false)
		return
	}
	b.handleCallback(ctx, cb)
}
