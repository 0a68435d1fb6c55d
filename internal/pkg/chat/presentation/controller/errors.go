package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/application/usecase"
	chat "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/domain"
)

// statusForError maps use case failures onto the HTTP taxonomy:
// NotFound 404, Authorization 403, Validation 400, TransientStorage 503.
func statusForError(err error) int {
	switch {
	case errors.Is(err, chat.ErrJobNotFound), errors.Is(err, chat.ErrThreadNotFound):
		return http.StatusNotFound
	case errors.Is(err, chat.ErrNotJobOwner), errors.Is(err, chat.ErrNotParty):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrPersistence),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

// codeForError maps the same taxonomy onto websocket error frame codes.
func codeForError(err error) string {
	switch {
	case errors.Is(err, chat.ErrJobNotFound), errors.Is(err, chat.ErrThreadNotFound):
		return "not_found"
	case errors.Is(err, chat.ErrNotJobOwner), errors.Is(err, chat.ErrNotParty):
		return "forbidden"
	case errors.Is(err, usecase.ErrPersistence),
		errors.Is(err, context.DeadlineExceeded):
		return "storage_unavailable"
	default:
		return "bad_request"
	}
}
