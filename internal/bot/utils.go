package bot

import (
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/rasoichef-partner-bot/internal/dialog"
	"github.com/Spok95/rasoichef-partner-bot/internal/wizard"
)

/*** HELPERS ***/

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) error {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	_, err := b.api.Request(resp)
	return err
}

func (b *Bot) send(msg tgbotapi.Chattable) tgbotapi.Message {
	m, err := b.api.Send(msg)
	if err != nil {
		b.log.Error("send failed", "err", err)
	}
	return m
}

// setState switches the dialog state and carries last_mid over.
func (b *Bot) setState(chatID int64, state dialog.State, payload dialog.Payload) {
	if payload == nil {
		payload = dialog.Payload{}
	}
	if mid, ok := dialog.GetInt(b.sessions.Get(chatID).Payload, dialog.KeyLastMID); ok {
		payload[dialog.KeyLastMID] = mid
	}
	b.sessions.Set(chatID, state, payload)
}

// clearPrevStep убрать inline-кнопки у прошлого шага, если он был
func (b *Bot) clearPrevStep(chatID int64) {
	mid, ok := dialog.GetInt(b.sessions.Get(chatID).Payload, dialog.KeyLastMID)
	if !ok {
		return
	}
	rm := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
	b.send(tgbotapi.NewEditMessageReplyMarkup(chatID, mid, rm))
}

// render edits msgID in place, or sends a new message when msgID is 0 and
// remembers it so its buttons can be cleared later.
func (b *Bot) render(chatID int64, msgID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if msgID != 0 {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, kb))
		return
	}
	b.clearPrevStep(chatID)
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = kb
	sent := b.send(m)
	if sent.MessageID != 0 {
		b.sessions.Get(chatID).Payload[dialog.KeyLastMID] = sent.MessageID
	}
}

func (b *Bot) editTextAndClear(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID, text,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	b.send(edit)
}

// fieldError reports a rejected field write. It points at a stale button or a
// finished flow, so nothing is retried.
func (b *Bot) fieldError(cb *tgbotapi.CallbackQuery, chatID int64, stepIndex int, name string, err error) {
	b.metrics.FieldErrors.Inc()
	b.log.Warn("field write rejected",
		"chat_id", chatID, "step", stepIndex, "field", name, "err", err)

	text := "This form is outdated. Press /start to begin again."
	if errors.Is(err, wizard.ErrCompleted) {
		text = "Your registration is already finished."
	}
	if cb != nil {
		_ = b.answerCallback(cb, text, true)
		return
	}
	b.send(tgbotapi.NewMessage(chatID, text))
}
