package model

import "time"

// PendingTag remembers the last analyzed image while the assistant waits
// for the user to supply a name for it.
type PendingTag struct {
	Description string
	MediaKey    string
	CreatedAt   time.Time
}

// DocumentContext holds the extracted text of the most recently uploaded
// document. Each new upload overwrites the previous one.
type DocumentContext struct {
	Text      string
	MediaKey  string
	UpdatedAt time.Time
}

// Session is the ephemeral per-conversation state. Only the intent router
// mutates it, and only while holding the session store's per-conversation
// lock. When both sub-states are present, tag capture takes priority
// because it was explicitly solicited by the previous turn.
type Session struct {
	ConversationID ConversationID
	PendingTag     *PendingTag
	Document       *DocumentContext
	CreatedAt      time.Time
}

// Reset drops all pending state from the session.
func (s *Session) Reset() {
	s.PendingTag = nil
	s.Document = nil
}
