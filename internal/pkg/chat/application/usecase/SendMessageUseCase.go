package usecase

import (
	"context"
	"fmt"

	cacheport "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/cache/port"
	chat "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/domain"
	repository "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/persistence/repository/port"
	"github.com/akbolaji-04/Prolink-clone/internal/pkg/moderation"
)

// SendMessageInput carries the data to append one message. SenderID is the
// identity pinned to the connection at handshake, never a frame field.
type SendMessageInput struct {
	ThreadID    string
	SenderID    string
	Content     string
	MessageType chat.MessageType
}

// SendMessageUseCase validates, sanitizes and durably appends a message.
// Text content passes the sanitizer before it reaches the store, so a blocked
// term is never persisted or broadcast unmasked. Non-text content is an
// opaque locator and passes through unfiltered.
type SendMessageUseCase struct {
	Repo      repository.ChatRepository
	Cache     cacheport.Cache // optional
	Sanitizer *moderation.Sanitizer
}

func NewSendMessageUseCase(repo repository.ChatRepository, cache cacheport.Cache, sanitizer *moderation.Sanitizer) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo, Cache: cache, Sanitizer: sanitizer}
}

// Execute returns the persisted message (store-assigned id and timestamp)
// together with the thread, so the caller can fan out and identify the
// counterparty without another lookup.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (chat.Message, chat.Thread, error) {
	if in.ThreadID == "" || in.SenderID == "" {
		return chat.Message{}, chat.Thread{}, fmt.Errorf("thread_id and sender are required")
	}

	resolver := threadResolver{repo: uc.Repo, cache: uc.Cache}
	t, err := resolver.resolve(ctx, in.ThreadID)
	if err != nil {
		return chat.Message{}, chat.Thread{}, err
	}
	if !t.IsParty(in.SenderID) {
		return chat.Message{}, chat.Thread{}, chat.ErrNotParty
	}

	msg, err := chat.NewMessage(in.ThreadID, in.SenderID, in.Content, in.MessageType)
	if err != nil {
		return chat.Message{}, chat.Thread{}, err
	}
	if msg.MessageType.IsText() && uc.Sanitizer != nil {
		msg.Content = uc.Sanitizer.Sanitize(msg.Content)
	}

	saved, err := uc.Repo.AppendMessage(ctx, msg)
	if err != nil {
		return chat.Message{}, chat.Thread{}, wrapRepoErr(err)
	}
	return saved, t, nil
}
