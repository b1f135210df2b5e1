package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/rasoichef-partner-bot/internal/auth"
	"github.com/Spok95/rasoichef-partner-bot/internal/dialog"
	"github.com/Spok95/rasoichef-partner-bot/internal/domain/partners"
	"github.com/Spok95/rasoichef-partner-bot/internal/infra/metrics"
	"github.com/Spok95/rasoichef-partner-bot/internal/wizard"
)

const (
	partnerChat int64 = 1
	adminChat   int64 = 999
)

type fakeAPI struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	nextID   int
	updates  chan tgbotapi.Update
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

// lastText returns the text of the latest sent or edited message.
func (f *fakeAPI) lastText() string {
	for i := len(f.sent) - 1; i >= 0; i-- {
		switch m := f.sent[i].(type) {
		case tgbotapi.MessageConfig:
			return m.Text
		case tgbotapi.EditMessageTextConfig:
			return m.Text
		}
	}
	return ""
}

func (f *fakeAPI) hasText(sub string) bool {
	for _, c := range f.sent {
		if e, ok := c.(tgbotapi.EditMessageTextConfig); ok && strings.Contains(e.Text, sub) {
			return true
		}
		if m, ok := c.(tgbotapi.MessageConfig); ok && strings.Contains(m.Text, sub) {
			return true
		}
	}
	return false
}

func (f *fakeAPI) messagesTo(chatID int64) []tgbotapi.MessageConfig {
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok && m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeAPI) lastAnswer() tgbotapi.CallbackConfig {
	for i := len(f.requests) - 1; i >= 0; i-- {
		if c, ok := f.requests[i].(tgbotapi.CallbackConfig); ok {
			return c
		}
	}
	return tgbotapi.CallbackConfig{}
}

type fakeApps struct {
	list      []partners.Application
	createErr error
}

func (s *fakeApps) Create(_ context.Context, a partners.Application) (*partners.Application, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	a.ID = int64(len(s.list) + 1)
	s.list = append(s.list, a)
	return &a, nil
}

func (s *fakeApps) GetByTelegramID(_ context.Context, tgID int64) (*partners.Application, error) {
	for i := range s.list {
		if s.list[i].TelegramID == tgID {
			a := s.list[i]
			return &a, nil
		}
	}
	return nil, partners.ErrNotFound
}

func (s *fakeApps) SetStatus(_ context.Context, tgID int64, status partners.Status) (*partners.Application, error) {
	for i := range s.list {
		if s.list[i].TelegramID == tgID {
			s.list[i].Status = status
			a := s.list[i]
			return &a, nil
		}
	}
	return nil, partners.ErrNotFound
}

func (s *fakeApps) List(_ context.Context, limit int) ([]partners.Application, error) {
	if limit > 0 && limit < len(s.list) {
		return s.list[:limit], nil
	}
	return s.list, nil
}

type harness struct {
	bot      *Bot
	api      *fakeAPI
	apps     *fakeApps
	sessions *dialog.Store
	metrics  *metrics.Metrics
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := &fakeAPI{}
	apps := &fakeApps{}
	sessions := dialog.NewStore()
	m := metrics.New(prometheus.NewRegistry())
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &harness{
		bot:      New(api, log, sessions, apps, adminChat, m),
		api:      api,
		apps:     apps,
		sessions: sessions,
		metrics:  m,
	}
}

func (h *harness) command(chatID int64, cmd string) {
	text := "/" + cmd
	h.bot.handleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 100,
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
		Chat:      &tgbotapi.Chat{ID: chatID},
		From:      &tgbotapi.User{ID: chatID, UserName: "joe"},
	}})
}

func (h *harness) text(chatID int64, text string) {
	h.bot.handleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 101,
		Text:      text,
		Chat:      &tgbotapi.Chat{ID: chatID},
		From:      &tgbotapi.User{ID: chatID, UserName: "joe"},
	}})
}

func (h *harness) press(chatID int64, data string) {
	h.pressOn(chatID, data, "")
}

func (h *harness) pressOn(chatID int64, data, messageText string) {
	h.bot.handleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb",
		From: &tgbotapi.User{ID: chatID, UserName: "joe"},
		Message: &tgbotapi.Message{
			MessageID: 10,
			Text:      messageText,
			Chat:      &tgbotapi.Chat{ID: chatID},
		},
		Data: data,
	}})
}

func (h *harness) state(chatID int64) dialog.State { return h.sessions.Get(chatID).State }

// openWizard runs /start, switches to signup and opens the stepper.
func (h *harness) openWizard(t *testing.T, chatID int64) *wizard.Controller {
	t.Helper()
	h.command(chatID, "start")
	h.press(chatID, "auth:toggle")
	h.press(chatID, "auth:signup")
	require.Equal(t, dialog.StateStepper, h.state(chatID))
	return h.sessions.Wizard(chatID)
}

func TestStart_ShowsLoginScreen(t *testing.T) {
	h := newHarness(t)

	h.command(partnerChat, "start")

	assert.Equal(t, dialog.StateAuth, h.state(partnerChat))
	assert.Contains(t, h.api.lastText(), "Partner Login")
}

func TestAuthToggle(t *testing.T) {
	h := newHarness(t)
	h.command(partnerChat, "start")

	h.press(partnerChat, "auth:toggle")
	assert.Equal(t, auth.ModeSignup, h.sessions.Get(partnerChat).Mode)
	assert.Contains(t, h.api.lastText(), "Chef Registration")

	h.press(partnerChat, "auth:toggle")
	assert.Equal(t, auth.ModeLogin, h.sessions.Get(partnerChat).Mode)
	assert.Contains(t, h.api.lastText(), "Partner Login")
}

func TestSignupRequiresSignupMode(t *testing.T) {
	h := newHarness(t)
	h.command(partnerChat, "start")

	h.press(partnerChat, "auth:signup")

	assert.Equal(t, dialog.StateAuth, h.state(partnerChat))
	assert.Equal(t, "Outdated", h.api.lastAnswer().Text)
}

func TestLogin(t *testing.T) {
	h := newHarness(t)

	h.command(partnerChat, "start")
	h.press(partnerChat, "auth:login")
	assert.Contains(t, h.api.lastText(), "No partner account found")
	assert.Equal(t, dialog.StateAuth, h.state(partnerChat))

	h.apps.list = append(h.apps.list, partners.Application{
		TelegramID: partnerChat, RestaurantName: "Joe's", Status: partners.StatusApproved,
	})
	h.press(partnerChat, "auth:login")
	assert.Contains(t, h.api.lastText(), "Welcome back, Joe's!")
	assert.Contains(t, h.api.lastText(), "approved")
	assert.Equal(t, dialog.StateIdle, h.state(partnerChat))
}

func TestStepper_ShowsProgress(t *testing.T) {
	h := newHarness(t)
	h.openWizard(t, partnerChat)

	text := h.api.lastText()
	assert.Contains(t, text, "17%")
	assert.Contains(t, text, "▶ Restaurant information")
	assert.Contains(t, text, "Name, location and contact number")
	assert.NotContains(t, text, "Menu details and operational hours")
}

func TestFullOnboardingFlow(t *testing.T) {
	h := newHarness(t)
	w := h.openWizard(t, partnerChat)

	h.press(partnerChat, "wiz:open")
	require.Equal(t, dialog.StateStepForm, h.state(partnerChat))
	assert.Contains(t, h.api.lastText(), "Restaurant name*: —")

	h.press(partnerChat, "wiz:f:0:restaurantName")
	require.Equal(t, dialog.StateAwaitField, h.state(partnerChat))
	assert.Contains(t, h.api.lastText(), "restaurant name")

	h.text(partnerChat, "  Joe's  ")
	require.Equal(t, dialog.StateStepForm, h.state(partnerChat))
	assert.Equal(t, "Joe's", w.Text(0, wizard.FieldRestaurantName))
	assert.Contains(t, h.api.lastText(), "Restaurant name*: Joe's")

	h.press(partnerChat, "wiz:t:0:getUpdatesOnWhatsapp")
	assert.False(t, w.Flag(0, wizard.FieldWhatsappUpdates))

	h.press(partnerChat, "wiz:next")
	assert.Equal(t, 1, w.CurrentStep().Index)
	assert.Equal(t, dialog.StateStepper, h.state(partnerChat))
	assert.Contains(t, h.api.lastText(), "✅ Restaurant information")
	assert.Contains(t, h.api.lastText(), "50%")

	h.press(partnerChat, "nav:back")
	assert.Equal(t, 0, w.CurrentStep().Index)
	assert.Equal(t, "Joe's", w.Text(0, wizard.FieldRestaurantName))

	h.press(partnerChat, "wiz:next")
	h.press(partnerChat, "wiz:open")
	h.press(partnerChat, "wiz:f:1:cuisineType")
	h.text(partnerChat, "Punjabi")
	h.press(partnerChat, "wiz:next")
	require.Equal(t, 2, w.CurrentStep().Index)
	assert.False(t, w.IsCompleted())

	h.press(partnerChat, "wiz:next")

	assert.True(t, w.IsCompleted())
	require.Len(t, h.apps.list, 1)
	app := h.apps.list[0]
	assert.Equal(t, "Joe's", app.RestaurantName)
	assert.Equal(t, "Punjabi", app.CuisineType)
	assert.False(t, app.WhatsappUpdates)
	assert.Equal(t, partners.StatusPending, app.Status)

	assert.Equal(t, dialog.StateIdle, h.state(partnerChat))
	assert.Zero(t, h.sessions.Len())
	assert.True(t, h.api.hasText("Thank you!"))

	admin := h.api.messagesTo(adminChat)
	require.Len(t, admin, 1)
	assert.Contains(t, admin[0].Text, "Joe's")
	assert.NotNil(t, admin[0].ReplyMarkup)

	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Completed))
	assert.Equal(t, 4.0, testutil.ToFloat64(h.metrics.Transitions.WithLabelValues("advance")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Transitions.WithLabelValues("retreat")))
}

func TestBackAtFirstStepIsNoop(t *testing.T) {
	h := newHarness(t)
	w := h.openWizard(t, partnerChat)

	h.press(partnerChat, "nav:back")

	assert.Equal(t, 0, w.CurrentStep().Index)
	assert.Equal(t, dialog.StateStepper, h.state(partnerChat))
}

func TestBackPopsScreens(t *testing.T) {
	h := newHarness(t)
	h.openWizard(t, partnerChat)
	h.press(partnerChat, "wiz:open")
	h.press(partnerChat, "wiz:f:0:ownerName")

	h.press(partnerChat, "nav:back")
	assert.Equal(t, dialog.StateStepForm, h.state(partnerChat))

	h.press(partnerChat, "nav:back")
	assert.Equal(t, dialog.StateStepper, h.state(partnerChat))
}

func TestInvalidStepIsReported(t *testing.T) {
	h := newHarness(t)
	w := h.openWizard(t, partnerChat)
	h.press(partnerChat, "wiz:open")

	h.press(partnerChat, "wiz:t:5:x")

	ans := h.api.lastAnswer()
	assert.True(t, ans.ShowAlert)
	assert.Contains(t, ans.Text, "outdated")
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.FieldErrors))
	assert.Equal(t, dialog.StateStepForm, h.state(partnerChat))
	assert.Equal(t, 0, w.CurrentStep().Index)

	h.press(partnerChat, "wiz:f:3:y")
	assert.Equal(t, 2.0, testutil.ToFloat64(h.metrics.FieldErrors))
	assert.Equal(t, dialog.StateStepForm, h.state(partnerChat))
}

func TestSubmitFailureCanBeRetried(t *testing.T) {
	h := newHarness(t)
	w := h.openWizard(t, partnerChat)
	h.apps.createErr = errors.New("db down")

	for i := 0; i < wizard.StepCount; i++ {
		h.press(partnerChat, "wiz:next")
	}
	require.True(t, w.IsCompleted())
	assert.Empty(t, h.apps.list)
	assert.Contains(t, h.api.lastText(), "could not save")
	assert.Equal(t, 1, h.sessions.Len())

	h.apps.createErr = nil
	h.press(partnerChat, "wiz:next")

	assert.Len(t, h.apps.list, 1)
	assert.Zero(t, h.sessions.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Completed))
}

func TestCancel(t *testing.T) {
	h := newHarness(t)
	h.openWizard(t, partnerChat)

	h.press(partnerChat, "nav:cancel")

	assert.Zero(t, h.sessions.Len())
	assert.Contains(t, h.api.lastText(), "cancelled")
}

func TestStaleButtonsAfterCancel(t *testing.T) {
	h := newHarness(t)
	h.openWizard(t, partnerChat)
	h.command(partnerChat, "cancel")

	h.press(partnerChat, "wiz:next")

	assert.Equal(t, "Outdated", h.api.lastAnswer().Text)
	assert.Zero(t, h.sessions.Len())
}

func TestAdminDecision(t *testing.T) {
	h := newHarness(t)
	h.apps.list = []partners.Application{{TelegramID: partnerChat, RestaurantName: "Joe's", Status: partners.StatusPending}}

	h.pressOn(partnerChat, "adm:approve:1", "New partner application")
	assert.Equal(t, "Not allowed", h.api.lastAnswer().Text)
	assert.Equal(t, partners.StatusPending, h.apps.list[0].Status)

	h.pressOn(adminChat, "adm:approve:1", "New partner application")
	assert.Equal(t, partners.StatusApproved, h.apps.list[0].Status)
	msgs := h.api.messagesTo(partnerChat)
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[len(msgs)-1].Text, "Good news")
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Applications.WithLabelValues("approved")))

	h.pressOn(adminChat, "adm:reject:77", "New partner application")
	assert.Equal(t, "Could not update the application", h.api.lastAnswer().Text)
}

func TestAdminCommands(t *testing.T) {
	h := newHarness(t)
	h.apps.list = []partners.Application{{ID: 1, TelegramID: partnerChat, RestaurantName: "Joe's", Username: "joe"}}

	h.command(partnerChat, "export")
	assert.Equal(t, "Access denied", h.api.lastText())

	h.command(adminChat, "applications")
	assert.Contains(t, h.api.lastText(), "#1 Joe's")

	h.command(adminChat, "export")
	doc, ok := h.api.sent[len(h.api.sent)-1].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, adminChat, doc.ChatID)
	assert.Equal(t, "Partner applications: 1", doc.Caption)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Exports))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	h := newHarness(t)
	h.api.updates = make(chan tgbotapi.Update, 1)
	h.api.updates <- tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     "/start",
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
		Chat:     &tgbotapi.Chat{ID: partnerChat},
		From:     &tgbotapi.User{ID: partnerChat},
	}}
	close(h.api.updates)

	err := h.bot.Run(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, dialog.StateAuth, h.state(partnerChat))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.api.updates = make(chan tgbotapi.Update)
	assert.ErrorIs(t, h.bot.Run(ctx, 1), context.Canceled)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "▰▰▱▱▱▱▱▱▱▱ 17%", progressBar(1.0/6, 10))
	assert.Equal(t, "▰▰▰▰▰▰▰▰▰▰ 100%", progressBar(1, 10))
	assert.Equal(t, "▱▱▱▱ 0%", progressBar(-1, 4))
}

func TestParseFieldData(t *testing.T) {
	step, name, ok := parseFieldData("1:cuisineType")
	require.True(t, ok)
	assert.Equal(t, 1, step)
	assert.Equal(t, "cuisineType", name)

	for _, bad := range []string{"", "x:name", "1:", "1"} {
		_, _, ok := parseFieldData(bad)
		assert.False(t, ok, bad)
	}
}

func TestFieldOfUnreachedStepIsRejected(t *testing.T) {
	h := newHarness(t)
	w := h.openWizard(t, partnerChat)
	h.press(partnerChat, "wiz:open")
	require.Equal(t, 0, w.CurrentStep().Index)

	h.press(partnerChat, "wiz:t:2:hasLicense")

	assert.False(t, w.Flag(wizard.StepDocuments, wizard.FieldHasLicense))
	ans := h.api.lastAnswer()
	assert.True(t, ans.ShowAlert)
	assert.Contains(t, ans.Text, "outdated")
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.FieldErrors))

	h.press(partnerChat, "wiz:f:1:cuisineType")
	assert.Equal(t, dialog.StateStepForm, h.state(partnerChat))
	assert.Equal(t, 2.0, testutil.ToFloat64(h.metrics.FieldErrors))
}

func TestEmptyFieldInputKeepsValue(t *testing.T) {
	h := newHarness(t)
	w := h.openWizard(t, partnerChat)
	h.press(partnerChat, "wiz:open")
	h.press(partnerChat, "wiz:f:0:restaurantName")
	h.text(partnerChat, "Joe's")
	h.press(partnerChat, "wiz:f:0:restaurantName")

	h.text(partnerChat, "")

	assert.Equal(t, "Joe's", w.Text(0, wizard.FieldRestaurantName))
	assert.Equal(t, dialog.StateAwaitField, h.state(partnerChat))
	assert.Contains(t, h.api.lastText(), "Send the restaurant name")
}

func TestSignupOfApprovedPartnerIsRefused(t *testing.T) {
	h := newHarness(t)
	h.apps.list = []partners.Application{{
		TelegramID: partnerChat, RestaurantName: "Joe's", Status: partners.StatusApproved,
	}}

	h.command(partnerChat, "start")
	h.press(partnerChat, "auth:toggle")
	h.press(partnerChat, "auth:signup")

	assert.Equal(t, dialog.StateIdle, h.state(partnerChat))
	assert.Contains(t, h.api.lastText(), "already a RasoiChef partner")
	assert.Equal(t, partners.StatusApproved, h.apps.list[0].Status)
	assert.Empty(t, h.api.messagesTo(adminChat))
}

func TestSignupAfterRejectionIsAllowed(t *testing.T) {
	h := newHarness(t)
	h.apps.list = []partners.Application{{TelegramID: partnerChat, Status: partners.StatusRejected}}

	h.openWizard(t, partnerChat)
}

func TestFieldEditAfterFailedSubmit(t *testing.T) {
	h := newHarness(t)
	w := h.openWizard(t, partnerChat)
	h.apps.createErr = errors.New("db down")
	for i := 0; i < wizard.StepCount; i++ {
		h.press(partnerChat, "wiz:next")
	}
	require.True(t, w.IsCompleted())

	h.press(partnerChat, "nav:back")
	assert.Equal(t, "Your registration is already finished.", h.api.lastAnswer().Text)

	h.press(partnerChat, "wiz:open")
	require.Equal(t, dialog.StateStepForm, h.state(partnerChat))
	h.press(partnerChat, "wiz:t:2:hasLicense")

	ans := h.api.lastAnswer()
	assert.True(t, ans.ShowAlert)
	assert.Equal(t, "Your registration is already finished.", ans.Text)
	assert.False(t, w.Flag(wizard.StepDocuments, wizard.FieldHasLicense))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.FieldErrors))
}

func TestResubmitOfApprovedPartnerSkipsDecision(t *testing.T) {
	h := newHarness(t)

	h.bot.notifyAdmin(&partners.Application{TelegramID: partnerChat, RestaurantName: "Joe's", Status: partners.StatusApproved})

	msgs := h.api.messagesTo(adminChat)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "Approved partner updated their details")
	assert.Nil(t, msgs[0].ReplyMarkup)
}
