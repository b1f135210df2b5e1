package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/rasoichef-partner-bot/internal/domain/partners"
)

const recentApplications = 10

func (b *Bot) isAdmin(chatID int64) bool {
	return b.adminChat != 0 && chatID == b.adminChat
}

func (b *Bot) notifyAdmin(a *partners.Application) {
	if b.adminChat == 0 {
		return
	}
	if a.Status == partners.StatusApproved {
		b.send(tgbotapi.NewMessage(b.adminChat, fmt.Sprintf(
			"Approved partner updated their details:\n— Telegram: @%s (id %d)\n%s",
			a.Username, a.TelegramID, applicationSummary(a))))
		return
	}
	text := fmt.Sprintf("New partner application:\n— Telegram: @%s (id %d)\n%s\n\nApprove?",
		a.Username, a.TelegramID, applicationSummary(a))
	m := tgbotapi.NewMessage(b.adminChat, text)
	m.ReplyMarkup = decisionKeyboard(a.TelegramID)
	b.send(m)
}

func (b *Bot) decide(ctx context.Context, cb *tgbotapi.CallbackQuery, tgIDStr string, status partners.Status) {
	fromChat := cb.Message.Chat.ID
	if !b.isAdmin(fromChat) {
		_ = b.answerCallback(cb, "Not allowed", true)
		return
	}
	tgID, err := strconv.ParseInt(tgIDStr, 10, 64)
	if err != nil {
		_ = b.answerCallback(cb, "Invalid data", true)
		return
	}

	app, err := b.apps.SetStatus(ctx, tgID, status)
	if err != nil {
		if !errors.Is(err, partners.ErrNotFound) {
			b.log.Error("set application status failed", "tg_id", tgID, "status", status, "err", err)
		}
		_ = b.answerCallback(cb, "Could not update the application", true)
		return
	}
	b.metrics.Applications.WithLabelValues(string(status)).Inc()

	mark := "\n\n✅ Approved"
	partnerText := fmt.Sprintf("Good news! %s is now a RasoiChef partner.", orDash(app.RestaurantName))
	if status == partners.StatusRejected {
		mark = "\n\n⛔ Rejected"
		partnerText = "Your application was not approved. Press /start to register again."
	}
	b.editTextAndClear(fromChat, cb.Message.MessageID, cb.Message.Text+mark)
	b.send(tgbotapi.NewMessage(tgID, partnerText))
	_ = b.answerCallback(cb, "Done", false)
}

func (b *Bot) listApplications(ctx context.Context, chatID int64) {
	if !b.isAdmin(chatID) {
		b.send(tgbotapi.NewMessage(chatID, "Access denied"))
		return
	}
	list, err := b.apps.List(ctx, recentApplications)
	if err != nil {
		b.log.Error("list applications failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not load applications."))
		return
	}
	if len(list) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "No applications yet."))
		return
	}

	var sb strings.Builder
	sb.WriteString("Latest applications:\n")
	for _, a := range list {
		_, _ = fmt.Fprintf(&sb, "#%d %s — %s (@%s), %s\n",
			a.ID, orDash(a.RestaurantName), orDash(a.OwnerName), a.Username, statusText(a.Status))
	}
	b.send(tgbotapi.NewMessage(chatID, strings.TrimRight(sb.String(), "\n")))
}

func (b *Bot) exportApplications(ctx context.Context, chatID int64) {
	if !b.isAdmin(chatID) {
		b.send(tgbotapi.NewMessage(chatID, "Access denied"))
		return
	}
	list, err := b.apps.List(ctx, 0)
	if err != nil {
		b.log.Error("list applications failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not load applications."))
		return
	}
	data, err := partners.ExportXLSX(list)
	if err != nil {
		b.log.Error("export applications failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not build the file."))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("partner_applications_%s.xlsx", time.Now().Format("20060102_150405")),
		Bytes: data,
	})
	doc.Caption = fmt.Sprintf("Partner applications: %d", len(list))
	b.send(doc)
	b.metrics.Exports.Inc()
}
