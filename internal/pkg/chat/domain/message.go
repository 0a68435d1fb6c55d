package chat

import (
	"strings"
	"time"
)

// MessageType classifies message content. Open enumeration: unknown values
// are carried through as opaque locators rather than rejected.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
)

// IsText reports whether the content is display text subject to sanitization.
// Non-text content is an opaque reference and passes through unfiltered.
func (t MessageType) IsText() bool {
	return t == MessageTypeText || t == ""
}

// Message is an immutable log entry in a thread. ID and SentAt are assigned
// by the store at persistence time; client-supplied timestamps are never
// trusted. The total order within a thread is (SentAt, ID).
type Message struct {
	ID          int64       `db:"id"`
	ThreadID    string      `db:"thread_id"`
	SenderID    string      `db:"sender_id"`
	Content     string      `db:"content"`
	MessageType MessageType `db:"message_type"`
	SentAt      time.Time   `db:"sent_at"`
}

// NewMessage validates sender input and normalizes it into a message ready to
// persist. Text content is trimmed; empty content is rejected.
func NewMessage(threadID, senderID, content string, msgType MessageType) (Message, error) {
	if threadID == "" || senderID == "" {
		return Message{}, ErrEmptyContent
	}
	if msgType == "" {
		msgType = MessageTypeText
	}
	if msgType.IsText() {
		content = strings.TrimSpace(content)
	}
	if content == "" {
		return Message{}, ErrEmptyContent
	}
	return Message{
		ThreadID:    threadID,
		SenderID:    senderID,
		Content:     content,
		MessageType: msgType,
	}, nil
}
