package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/rasoichef-partner-bot/internal/auth"
	"github.com/Spok95/rasoichef-partner-bot/internal/dialog"
	"github.com/Spok95/rasoichef-partner-bot/internal/domain/partners"
	"github.com/Spok95/rasoichef-partner-bot/internal/wizard"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		b.clearPrevStep(chatID)
		sess := b.sessions.Start(chatID)
		b.metrics.Transitions.WithLabelValues("start").Inc()
		b.render(chatID, 0, authText(sess.Mode), authKeyboard(sess.Mode))
		return

	case "cancel":
		b.clearPrevStep(chatID)
		b.sessions.Reset(chatID)
		b.metrics.Transitions.WithLabelValues("cancel").Inc()
		b.send(tgbotapi.NewMessage(chatID, "Registration cancelled. Press /start to begin again."))
		return

	case "help":
		b.send(tgbotapi.NewMessage(chatID,
			"Commands:\n/start — log in or register your restaurant\n/cancel — drop the current registration\n/help — help"))
		return

	case "applications":
		b.listApplications(ctx, chatID)
		return

	case "export":
		b.exportApplications(ctx, chatID)
		return

	default:
		b.send(tgbotapi.NewMessage(chatID, "Unknown command. Send /help"))
		return
	}
}

func (b *Bot) handleStateMessage(_ context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	sess := b.sessions.Get(chatID)

	switch sess.State {
	case dialog.StateAwaitField:
		name, _ := dialog.GetString(sess.Payload, dialog.KeyField)
		step, _ := dialog.GetInt(sess.Payload, dialog.KeyStep)
		value := strings.TrimSpace(msg.Text)
		if value == "" {
			b.send(tgbotapi.NewMessage(chatID, fieldPrompt(step, name)))
			return
		}
		w := b.sessions.Wizard(chatID)
		if err := w.SetText(step, name, value); err != nil {
			b.fieldError(nil, chatID, step, name, err)
			return
		}
		b.log.Debug("field set", "chat_id", chatID, "step", step, "field", name)
		b.setState(chatID, dialog.StateStepForm, nil)
		b.render(chatID, 0, formText(w), formKeyboard(w))
		return

	case dialog.StateIdle:
		b.send(tgbotapi.NewMessage(chatID, "Press /start to log in or register your restaurant."))
		return

	default:
		b.send(tgbotapi.NewMessage(chatID, "Use the buttons above, or /cancel to start over."))
		return
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	fromChat := cb.Message.Chat.ID
	msgID := cb.Message.MessageID

	// Общая навигация
	if data == "nav:cancel" {
		b.sessions.Reset(fromChat)
		b.metrics.Transitions.WithLabelValues("cancel").Inc()
		b.editTextAndClear(fromChat, msgID, "Registration cancelled. Press /start to begin again.")
		_ = b.answerCallback(cb, "Cancelled", false)
		return
	}
	if data == "nav:back" {
		b.handleBack(cb)
		return
	}

	switch {
	/* ===== Login / signup ===== */

	case data == "auth:toggle":
		sess := b.sessions.Get(fromChat)
		if sess.State != dialog.StateAuth {
			_ = b.answerCallback(cb, "Outdated", false)
			return
		}
		mode := sess.Mode.Toggle()
		b.sessions.SetMode(fromChat, mode)
		b.render(fromChat, msgID, authText(mode), authKeyboard(mode))
		_ = b.answerCallback(cb, "", false)
		return

	case data == "auth:login":
		if b.sessions.Get(fromChat).State != dialog.StateAuth {
			_ = b.answerCallback(cb, "Outdated", false)
			return
		}
		b.handleLogin(ctx, cb)
		return

	case data == "auth:signup":
		sess := b.sessions.Get(fromChat)
		if sess.State != dialog.StateAuth || sess.Mode != auth.ModeSignup {
			_ = b.answerCallback(cb, "Outdated", false)
			return
		}
		if b.alreadyPartner(ctx, cb) {
			return
		}
		w := b.sessions.Wizard(fromChat)
		b.setState(fromChat, dialog.StateStepper, nil)
		b.render(fromChat, msgID, stepperText(w), stepperKeyboard(w))
		_ = b.answerCallback(cb, "Ok", false)
		return

	/* ===== Onboarding wizard ===== */

	case data == "wiz:open":
		if b.sessions.Get(fromChat).State != dialog.StateStepper {
			_ = b.answerCallback(cb, "Outdated", false)
			return
		}
		w := b.sessions.Wizard(fromChat)
		b.setState(fromChat, dialog.StateStepForm, nil)
		b.render(fromChat, msgID, formText(w), formKeyboard(w))
		_ = b.answerCallback(cb, "", false)
		return

	case strings.HasPrefix(data, "wiz:f:"):
		if b.sessions.Get(fromChat).State != dialog.StateStepForm {
			_ = b.answerCallback(cb, "Outdated", false)
			return
		}
		step, name, ok := parseFieldData(strings.TrimPrefix(data, "wiz:f:"))
		if !ok {
			_ = b.answerCallback(cb, "Invalid data", true)
			return
		}
		if err := b.sessions.Wizard(fromChat).Editable(step); err != nil {
			b.fieldError(cb, fromChat, step, name, err)
			return
		}
		b.setState(fromChat, dialog.StateAwaitField, dialog.Payload{dialog.KeyField: name, dialog.KeyStep: step})
		b.render(fromChat, msgID, fieldPrompt(step, name), navKeyboard(true, true))
		_ = b.answerCallback(cb, "", false)
		return

	case strings.HasPrefix(data, "wiz:t:"):
		if b.sessions.Get(fromChat).State != dialog.StateStepForm {
			_ = b.answerCallback(cb, "Outdated", false)
			return
		}
		step, name, ok := parseFieldData(strings.TrimPrefix(data, "wiz:t:"))
		if !ok {
			_ = b.answerCallback(cb, "Invalid data", true)
			return
		}
		w := b.sessions.Wizard(fromChat)
		if err := w.SetFlag(step, name, !w.Flag(step, name)); err != nil {
			b.fieldError(cb, fromChat, step, name, err)
			return
		}
		b.render(fromChat, msgID, formText(w), formKeyboard(w))
		_ = b.answerCallback(cb, "", false)
		return

	case data == "wiz:next":
		st := b.sessions.Get(fromChat).State
		if st != dialog.StateStepForm && st != dialog.StateStepper {
			_ = b.answerCallback(cb, "Outdated", false)
			return
		}
		b.handleNext(ctx, cb)
		return

	/* ===== Admin decisions ===== */

	case strings.HasPrefix(data, "adm:approve:"):
		b.decide(ctx, cb, strings.TrimPrefix(data, "adm:approve:"), partners.StatusApproved)
		return

	case strings.HasPrefix(data, "adm:reject:"):
		b.decide(ctx, cb, strings.TrimPrefix(data, "adm:reject:"), partners.StatusRejected)
		return
	}

	_ = b.answerCallback(cb, "Unknown action", false)
}

// handleBack pops one screen: field prompt -> form -> stepper. On the stepper it
// moves the wizard one step back; on the first step that changes nothing.
func (b *Bot) handleBack(cb *tgbotapi.CallbackQuery) {
	fromChat := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	sess := b.sessions.Get(fromChat)

	switch sess.State {
	case dialog.StateAwaitField:
		w := b.sessions.Wizard(fromChat)
		b.setState(fromChat, dialog.StateStepForm, nil)
		b.render(fromChat, msgID, formText(w), formKeyboard(w))
	case dialog.StateStepForm:
		w := b.sessions.Wizard(fromChat)
		b.setState(fromChat, dialog.StateStepper, nil)
		b.render(fromChat, msgID, stepperText(w), stepperKeyboard(w))
	case dialog.StateStepper:
		w := b.sessions.Wizard(fromChat)
		if _, err := w.Retreat(); err != nil {
			_ = b.answerCallback(cb, "Your registration is already finished.", true)
			return
		}
		b.metrics.Transitions.WithLabelValues("retreat").Inc()
		b.render(fromChat, msgID, stepperText(w), stepperKeyboard(w))
	default:
		_ = b.answerCallback(cb, "Outdated", false)
		return
	}
	_ = b.answerCallback(cb, "", false)
}

// handleNext advances the wizard; from the last step it completes the flow and
// submits the application. A completed flow whose submit failed is submitted again.
func (b *Bot) handleNext(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	fromChat := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	w := b.sessions.Wizard(fromChat)

	if !w.IsCompleted() {
		next, done, err := w.Advance()
		if err != nil {
			_ = b.answerCallback(cb, "Outdated", false)
			return
		}
		b.metrics.Transitions.WithLabelValues("advance").Inc()
		if !done {
			b.log.Debug("wizard advanced", "chat_id", fromChat, "step", next.Index)
			b.setState(fromChat, dialog.StateStepper, nil)
			b.render(fromChat, msgID, stepperText(w), stepperKeyboard(w))
			_ = b.answerCallback(cb, fmt.Sprintf("Step %d of %d", next.Index+1, wizard.StepCount), false)
			return
		}
		b.metrics.Completed.Inc()
		b.log.Info("onboarding completed", "chat_id", fromChat, "tg_id", cb.From.ID)
	}
	b.submit(ctx, cb)
}

func (b *Bot) submit(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	fromChat := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	w := b.sessions.Wizard(fromChat)

	app := partners.FromWizard(partners.Telegram{ID: cb.From.ID, Username: cb.From.UserName}, w)
	saved, err := b.apps.Create(ctx, app)
	if err != nil {
		b.log.Error("save application failed", "chat_id", fromChat, "err", err)
		b.render(fromChat, msgID, "We could not save your application. Please try again.", submitRetryKeyboard())
		_ = b.answerCallback(cb, "Error", true)
		return
	}

	b.editTextAndClear(fromChat, msgID,
		"Thank you! Your application has been sent to the RasoiChef team.\n\n"+applicationSummary(saved)+
			"\n\nWe will message you here once it is reviewed.")
	b.sessions.Reset(fromChat)
	_ = b.answerCallback(cb, "Sent", false)

	b.notifyAdmin(saved)
}

// alreadyPartner stops a second signup of an approved partner and shows the status instead.
func (b *Bot) alreadyPartner(ctx context.Context, cb *tgbotapi.CallbackQuery) bool {
	app, err := b.apps.GetByTelegramID(ctx, cb.From.ID)
	if err != nil {
		if !errors.Is(err, partners.ErrNotFound) {
			b.log.Error("lookup application failed", "tg_id", cb.From.ID, "err", err)
		}
		return false
	}
	if app.Status != partners.StatusApproved {
		return false
	}
	b.editTextAndClear(cb.Message.Chat.ID, cb.Message.MessageID,
		fmt.Sprintf("%s is already a RasoiChef partner.\nApplication status: %s",
			orDash(app.RestaurantName), statusText(app.Status)))
	b.sessions.Reset(cb.Message.Chat.ID)
	_ = b.answerCallback(cb, "Already registered", false)
	return true
}

func (b *Bot) handleLogin(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	fromChat := cb.Message.Chat.ID
	msgID := cb.Message.MessageID

	app, err := b.apps.GetByTelegramID(ctx, cb.From.ID)
	switch {
	case errors.Is(err, partners.ErrNotFound):
		b.render(fromChat, msgID,
			"No partner account found for this Telegram profile.\nSign up to register your restaurant.",
			authKeyboard(auth.ModeLogin))
		_ = b.answerCallback(cb, "Not found", false)
		return
	case err != nil:
		b.log.Error("lookup application failed", "tg_id", cb.From.ID, "err", err)
		_ = b.answerCallback(cb, "Error, try again later", true)
		return
	}

	b.editTextAndClear(fromChat, msgID,
		fmt.Sprintf("Welcome back, %s!\nApplication status: %s", orDash(app.RestaurantName), statusText(app.Status)))
	b.sessions.Reset(fromChat)
	_ = b.answerCallback(cb, "Ok", false)
}

// parseFieldData разбирает "<step>:<name>"
func parseFieldData(s string) (int, string, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return 0, "", false
	}
	step, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", false
	}
	return step, parts[1], true
}
