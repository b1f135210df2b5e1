package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/rasoichef-partner-bot/internal/auth"
	"github.com/Spok95/rasoichef-partner-bot/internal/wizard"
)

func authKeyboard(mode auth.Mode) tgbotapi.InlineKeyboardMarkup {
	primary := tgbotapi.NewInlineKeyboardButtonData("🔑 Log in", "auth:login")
	if mode == auth.ModeSignup {
		primary = tgbotapi.NewInlineKeyboardButtonData("🍳 Start registration", "auth:signup")
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(primary),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mode.SwitchPrompt(), "auth:toggle"),
		),
	)
}

func stepperKeyboard(w *wizard.Controller) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Continue ›", "wiz:open"),
		),
		navKeyboard(w.CurrentStep().Index > 0, true).InlineKeyboard[0],
	)
}

// formKeyboard has one button per declared field of the step, then Back/Continue.
func formKeyboard(w *wizard.Controller) tgbotapi.InlineKeyboardMarkup {
	step := w.CurrentStep()
	fields, _ := wizard.Fields(step.Index)

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(fields)+2)
	for _, f := range fields {
		var btn tgbotapi.InlineKeyboardButton
		switch f.Kind {
		case wizard.KindToggle:
			btn = tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s %s", checkbox(w.Flag(step.Index, f.Name)), f.Label),
				fmt.Sprintf("wiz:t:%d:%s", step.Index, f.Name),
			)
		default:
			btn = tgbotapi.NewInlineKeyboardButtonData(
				"✏️ "+fieldLabel(f),
				fmt.Sprintf("wiz:f:%d:%s", step.Index, f.Name),
			)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn))
	}

	next := tgbotapi.NewInlineKeyboardButtonData("Save and continue ➡️", "wiz:next")
	if step.Index == wizard.StepCount-1 {
		next = tgbotapi.NewInlineKeyboardButtonData("📨 Submit", "wiz:next")
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "nav:back"),
			next,
		),
		navKeyboard(false, true).InlineKeyboard[0],
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func submitRetryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📨 Submit again", "wiz:next"),
		),
		navKeyboard(false, true).InlineKeyboard[0],
	)
}

func navKeyboard(back bool, cancel bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	if back {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "nav:back"))
	}
	if cancel {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", "nav:cancel"))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func decisionKeyboard(tgID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", fmt.Sprintf("adm:approve:%d", tgID)),
			tgbotapi.NewInlineKeyboardButtonData("⛔ Reject", fmt.Sprintf("adm:reject:%d", tgID)),
		),
	)
}
