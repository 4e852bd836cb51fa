package discord

import (
	"sync"

	"campusbot/internal/application"
	"campusbot/internal/domain/entities"
)

// dialogKind names the text-driven conversation a user is currently in.
type dialogKind int

const (
	dialogNone dialogKind = iota
	dialogWizard
	dialogEditField
	dialogRegisterName
	dialogRegisterGraduation
	dialogFeedbackText
	dialogSOSText
)

// editField identifies which event field an edit dialog is collecting.
type editField string

const (
	fieldTitle       editField = "title"
	fieldDate        editField = "date"
	fieldStart       editField = "start"
	fieldEnd         editField = "end"
	fieldLocation    editField = "location"
	fieldDescription editField = "description"
	fieldLink        editField = "link"
)

// dialogSession is the per-user conversation state. Discord has no FSM
// storage of its own, so the adapter keeps these in memory; a restart
// simply drops unfinished dialogs.
type dialogSession struct {
	Kind dialogKind

	Wizard *application.Wizard

	// Edit dialog.
	EventID int64
	Field   editField

	// Onboarding answers collected so far.
	Profile entities.Profile

	// Feedback text waiting for the anonymity choice.
	PendingText string
}

// sessionStore is a mutex-guarded map of active dialogs keyed by user id.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*dialogSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*dialogSession)}
}

func (s *sessionStore) get(userID string) (*dialogSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

func (s *sessionStore) put(userID string, sess *dialogSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
}

func (s *sessionStore) clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
