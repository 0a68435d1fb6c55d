package chat

import "errors"

// Domain-level errors for chat behaviors.
var (
	ErrJobNotFound    = errors.New("chat: job not found")
	ErrThreadNotFound = errors.New("chat: thread not found")
	ErrNotJobOwner    = errors.New("chat: only the job's client may initiate this thread")
	ErrNotParty       = errors.New("chat: user is not a party to the thread")
	ErrEmptyContent   = errors.New("chat: message content is required")
)
