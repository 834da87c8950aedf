// Package store holds session-scoped conversation and document state.
// The Store interface is the seam between orchestration and persistence:
// the in-memory implementation here can be swapped for a durable backend
// without touching turn logic.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lexdraft-ai/lexdraft/internal/provider"
)

// NotFoundError reports a missing chat or document.
type NotFoundError struct {
	Kind string // "chat" or "document"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ValidationError reports a malformed store operation, e.g. editing a
// non-user message.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// DefaultTitle is assigned to chats created without a first user message.
const DefaultTitle = "New Chat"

// Chat is one conversation thread within a session.
type Chat struct {
	ID        string
	Title     string
	CreatedAt time.Time
	Messages  []provider.Message
}

// ChatSummary is the listing view of a chat.
type ChatSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the session-scoped state abstraction consulted and mutated by
// the turn orchestrator and the document tools. All methods are safe for
// concurrent use across sessions; operations within one session are
// serialized by the implementation.
type Store interface {
	// CreateChat creates a new chat thread, newest-first in the listing order.
	CreateChat(sessionID, title string) Chat

	// GetChat fetches a chat snapshot. An empty chatID, or autoCreate with an
	// unknown id, creates a fresh chat; otherwise an unknown id is a
	// *NotFoundError.
	GetChat(sessionID, chatID string, autoCreate bool) (Chat, error)

	// ListChats returns chat summaries, most recently created first.
	ListChats(sessionID string) []ChatSummary

	// DeleteChat removes a chat and its order entry atomically.
	DeleteChat(sessionID, chatID string) error

	// AppendMessage appends to a chat's history.
	AppendMessage(sessionID, chatID string, msg provider.Message) error

	// SetTitle replaces a chat's title.
	SetTitle(sessionID, chatID, title string) error

	// EditMessage replaces the content of a user-authored message and
	// truncates the history through that index inclusive. Returns the
	// truncated history.
	EditMessage(sessionID, chatID string, index int, newContent string) ([]provider.Message, error)

	// MergeExtracted merges data into the session's extracted-data map for a
	// document type; new values overwrite prior values for the same key, and
	// the map is never wholesale replaced. Returns the merged view.
	MergeExtracted(sessionID, docType string, data map[string]any) map[string]any

	// Extracted returns a copy of the extracted data for a document type.
	Extracted(sessionID, docType string) map[string]any

	// SaveDocument stores a newly rendered document, assigns its immutable
	// `{type}_{sequence}` id, and advances the session's current pointer.
	SaveDocument(sessionID, docType, text string) string

	// Document returns a document's text.
	Document(sessionID, documentID string) (string, error)

	// UpdateDocument replaces a document's text in place.
	UpdateDocument(sessionID, documentID, text string) error

	// ResolveDocumentID picks the edit target: the explicit id if given
	// (the literal "current" defers to the pointer), else the session's
	// current document, else the most recently created one.
	ResolveDocumentID(sessionID, explicit string) (string, error)

	// ClearSession drops all chats, extracted data, and documents for a session.
	ClearSession(sessionID string)
}

// Memory is the in-memory Store implementation. Sessions are created lazily
// on first reference and never expire; eviction is an external concern.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	mu         sync.Mutex
	chats      map[string]*Chat
	order      []string // chat ids, most recent first
	extracted  map[string]map[string]any
	documents  map[string]string
	docOrder   []string
	currentDoc string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]*session)}
}

func (m *Memory) session(sessionID string) *session {
	if sessionID == "" {
		sessionID = "default"
	}

	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok = m.sessions[sessionID]; ok {
		return s
	}
	s = &session{
		chats:     make(map[string]*Chat),
		extracted: make(map[string]map[string]any),
		documents: make(map[string]string),
	}
	m.sessions[sessionID] = s
	return s
}

func (m *Memory) CreateChat(sessionID, title string) Chat {
	s := m.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createChatLocked(title)
}

func (s *session) createChatLocked(title string) Chat {
	if title == "" {
		title = DefaultTitle
	}
	chat := &Chat{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	s.chats[chat.ID] = chat
	s.order = append([]string{chat.ID}, s.order...)
	return snapshot(chat)
}

func (m *Memory) GetChat(sessionID, chatID string, autoCreate bool) (Chat, error) {
	s := m.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if chatID != "" {
		if chat, ok := s.chats[chatID]; ok {
			return snapshot(chat), nil
		}
	}
	if autoCreate || chatID == "" {
		return s.createChatLocked(""), nil
	}
	return Chat{}, &NotFoundError{Kind: "chat", ID: chatID}
}

func (m *Memory) ListChats(sessionID string) []ChatSummary {
	s := m.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]ChatSummary, 0, len(s.order))
	for _, id := range s.order {
		if chat, ok := s.chats[id]; ok {
			summaries = append(summaries, ChatSummary{ID: chat.ID, Title: chat.Title, CreatedAt: chat.CreatedAt})
		}
	}
	return summaries
}

func (m *Memory) DeleteChat(sessionID, chatID string) error {
	s := m.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chats[chatID]; !ok {
		return &NotFoundError{Kind: "chat", ID: chatID}
	}
	delete(s.chats, chatID)
	for i, id := range s.order {
		if id == chatID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) AppendMessage(sessionID, chatID string, msg provider.Message) error {
	s := m.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[chatID]
	if !ok {
		return &NotFoundError{Kind: "chat", ID: chatID}
	}
	chat.Messages = append(chat.Messages, msg)
	return nil
}

func (m *Memory) SetTitle(sessionID, chatID, title string) error {
	s := m.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[chatID]
	if !ok {
		return &NotFoundError{Kind: "chat", ID: chatID}
	}
	chat.Title = title
	return nil
}

func (m *Memory) EditMessage(sessionID, chatID string, index int, newContent string) ([]provider.Message, error) {
	s := m.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[chatID]
	if !ok {
		return nil, &NotFoundError{Kind: "chat", ID: chatID}
	}
	if index < 0 || index >= len(chat.Messages) {
		return nil, &ValidationError{Reason: "message_index out of range"}
	}
	if chat.Messages[index].Role != provider.RoleUser {
		return nil, &ValidationError{Reason: "only user messages can be edited"}
	}

	chat.Messages[index].Content = newContent
	chat.Messages = chat.Messages[:index+1]

	out := make([]provider.Message, len(chat.Messages))
	copy(out, chat.Messages)
	return out, nil
}

func (m *Memory) MergeExtracted(sessionID, docType string, data map[string]any) map[string]any {
	s := m.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.extracted[docType]
	if !ok {
		existing = make(map[string]any)
		s.extracted[docType] = existing
	}
	for k, v := range data {
		existing[k] = v
	}
	return copyMap(existing)
}

func (m *Memory) Extracted(sessionID, docType string) map[string]any {
	s := m.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMap(s.extracted[docType])
}

func (m *Memory) SaveDocument(sessionID, docType, text string) string {
	s := m.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("%s_%d", docType, len(s.docOrder))
	s.documents[id] = text
	s.docOrder = append(s.docOrder, id)
	s.currentDoc = id
	return id
}

func (m *Memory) Document(sessionID, documentID string) (string, error) {
	s := m.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	text, ok := s.documents[documentID]
	if !ok {
		return "", &NotFoundError{Kind: "document", ID: documentID}
	}
	return text, nil
}

func (m *Memory) UpdateDocument(sessionID, documentID, text string) error {
	s := m.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[documentID]; !ok {
		return &NotFoundError{Kind: "document", ID: documentID}
	}
	s.documents[documentID] = text
	return nil
}

func (m *Memory) ResolveDocumentID(sessionID, explicit string) (string, error) {
	s := m.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if explicit != "" && explicit != "current" {
		if _, ok := s.documents[explicit]; ok {
			return explicit, nil
		}
		return "", &NotFoundError{Kind: "document", ID: explicit}
	}
	if s.currentDoc != "" {
		return s.currentDoc, nil
	}
	if len(s.docOrder) > 0 {
		return s.docOrder[len(s.docOrder)-1], nil
	}
	return "", &NotFoundError{Kind: "document", ID: "current"}
}

func (m *Memory) ClearSession(sessionID string) {
	if sessionID == "" {
		sessionID = "default"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

func snapshot(chat *Chat) Chat {
	out := *chat
	out.Messages = make([]provider.Message, len(chat.Messages))
	copy(out.Messages, chat.Messages)
	return out
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
