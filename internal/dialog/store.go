package dialog

import (
	"sync"

	"github.com/Spok95/rasoichef-partner-bot/internal/auth"
	"github.com/Spok95/rasoichef-partner-bot/internal/wizard"
)

// Store keeps sessions in memory. A session lives from /start until the flow is
// completed or cancelled; nothing survives a restart.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewStore() *Store { return &Store{sessions: map[int64]*Session{}} }

// Get returns the chat's session, or an idle one if there is none yet.
func (s *Store) Get(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[chatID]; ok {
		return sess
	}
	return &Session{ChatID: chatID, State: StateIdle, Payload: Payload{}, Mode: auth.ModeLogin}
}

// Start drops whatever the chat had and opens a fresh session on the auth screen.
func (s *Store) Start(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &Session{ChatID: chatID, State: StateAuth, Payload: Payload{}, Mode: auth.ModeLogin}
	s.sessions[chatID] = sess
	return sess
}

// Set updates the dialog state and payload. A nil payload is stored as empty.
func (s *Store) Set(chatID int64, state State, payload Payload) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &Session{ChatID: chatID, Mode: auth.ModeLogin}
		s.sessions[chatID] = sess
	}
	if payload == nil {
		payload = Payload{}
	}
	sess.State = state
	sess.Payload = payload
	return sess
}

// SetMode stores the login/signup switch of the chat.
func (s *Store) SetMode(chatID int64, mode auth.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[chatID]; ok {
		sess.Mode = mode
	}
}

// Wizard returns the chat's controller, creating a fresh one on first use.
func (s *Store) Wizard(chatID int64) *wizard.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &Session{ChatID: chatID, State: StateIdle, Payload: Payload{}, Mode: auth.ModeLogin}
		s.sessions[chatID] = sess
	}
	if sess.Wizard == nil {
		sess.Wizard = wizard.New()
	}
	return sess.Wizard
}

func (s *Store) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

// Len is the number of open sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
