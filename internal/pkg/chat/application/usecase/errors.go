package usecase

import (
	"errors"
	"fmt"

	chat "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/domain"
)

// ErrPersistence indicates an infrastructure/repository failure inside a use
// case. Callers should treat it as transient and retriable with backoff.
var ErrPersistence = fmt.Errorf("chat use case persistence error")

// wrapRepoErr passes domain sentinels through untouched and marks everything
// else as a persistence failure.
func wrapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, chat.ErrJobNotFound),
		errors.Is(err, chat.ErrThreadNotFound),
		errors.Is(err, chat.ErrNotJobOwner),
		errors.Is(err, chat.ErrNotParty):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
}
