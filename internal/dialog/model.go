package dialog

import (
	"github.com/Spok95/rasoichef-partner-bot/internal/auth"
	"github.com/Spok95/rasoichef-partner-bot/internal/wizard"
)

type State string

const (
	StateIdle State = "idle"

	// Вход / регистрация
	StateAuth State = "auth"

	// Онбординг партнёра
	StateStepper    State = "stepper"     // вертикальный список шагов
	StateStepForm   State = "step_form"   // форма текущего шага
	StateAwaitField State = "await_field" // ждём текстовое значение поля
)

// Ключи payload
const (
	KeyField   = "field"
	KeyStep    = "step"
	KeyLastMID = "last_mid"
)

type Payload map[string]any

// Session is the whole UI state of one chat. Each chat owns its controller.
type Session struct {
	ChatID  int64
	State   State
	Payload Payload
	Mode    auth.Mode
	Wizard  *wizard.Controller
}

// GetString Helper для безопасного чтения строк из payload
func GetString(p Payload, key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt reads an int stored by the bot itself.
func GetInt(p Payload, key string) (int, bool) {
	switch v := p[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
