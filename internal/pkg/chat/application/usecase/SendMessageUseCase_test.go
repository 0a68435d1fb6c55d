package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/application/usecase"
	chat "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/domain"
	"github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/persistence/repository/adapter"
	"github.com/akbolaji-04/Prolink-clone/internal/pkg/moderation"
)

func seededThread(t *testing.T, repo *adapter.MemChatRepository) chat.Thread {
	t.Helper()
	th, err := repo.FindOrCreateThread(context.Background(), "job-1", "client-1", "provider-1")
	require.NoError(t, err)
	return th
}

func TestSendMessagePersistsSanitizedText(t *testing.T) {
	repo := seededRepo()
	th := seededThread(t, repo)
	uc := usecase.NewSendMessageUseCase(repo, nil, moderation.NewSanitizer([]string{"scam"}))

	msg, gotThread, err := uc.Execute(context.Background(), usecase.SendMessageInput{
		ThreadID: th.ID,
		SenderID: "provider-1",
		Content:  "this is a scam offer",
	})
	require.NoError(t, err)
	assert.Equal(t, th.ID, gotThread.ID)
	assert.Equal(t, "this is a **** offer", msg.Content)
	assert.Equal(t, chat.MessageTypeText, msg.MessageType)
	assert.NotZero(t, msg.ID)
	assert.False(t, msg.SentAt.IsZero())

	stored, err := repo.ListMessages(context.Background(), th.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "this is a **** offer", stored[0].Content, "blocked term must never reach the store unmasked")
}

func TestSendMessageSkipsSanitizerForNonText(t *testing.T) {
	repo := seededRepo()
	th := seededThread(t, repo)
	uc := usecase.NewSendMessageUseCase(repo, nil, moderation.NewSanitizer([]string{"scam"}))

	msg, _, err := uc.Execute(context.Background(), usecase.SendMessageInput{
		ThreadID:    th.ID,
		SenderID:    "client-1",
		Content:     "https://cdn.example/scam.png",
		MessageType: chat.MessageTypeImage,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/scam.png", msg.Content, "non-text content is an opaque locator")
}

func TestSendMessageRejectsOutsider(t *testing.T) {
	repo := seededRepo()
	th := seededThread(t, repo)
	uc := usecase.NewSendMessageUseCase(repo, nil, nil)

	_, _, err := uc.Execute(context.Background(), usecase.SendMessageInput{
		ThreadID: th.ID,
		SenderID: "intruder",
		Content:  "hello",
	})
	assert.ErrorIs(t, err, chat.ErrNotParty)
}

func TestSendMessageThreadAbsent(t *testing.T) {
	uc := usecase.NewSendMessageUseCase(seededRepo(), nil, nil)

	_, _, err := uc.Execute(context.Background(), usecase.SendMessageInput{
		ThreadID: "no-such-thread",
		SenderID: "client-1",
		Content:  "hello",
	})
	assert.ErrorIs(t, err, chat.ErrThreadNotFound)
}

func TestSendMessageRejectsEmptyText(t *testing.T) {
	repo := seededRepo()
	th := seededThread(t, repo)
	uc := usecase.NewSendMessageUseCase(repo, nil, nil)

	_, _, err := uc.Execute(context.Background(), usecase.SendMessageInput{
		ThreadID: th.ID,
		SenderID: "client-1",
		Content:  "   \t ",
	})
	assert.ErrorIs(t, err, chat.ErrEmptyContent)
}

func TestSendMessageUsesPartyCache(t *testing.T) {
	repo := seededRepo()
	th := seededThread(t, repo)
	cache := newFakeCache()
	uc := usecase.NewSendMessageUseCase(repo, cache, nil)

	_, _, err := uc.Execute(context.Background(), usecase.SendMessageInput{
		ThreadID: th.ID,
		SenderID: "client-1",
		Content:  "hi",
	})
	require.NoError(t, err)
	assert.True(t, cache.has("chat:parties:"+th.ID), "party pair should be cached after first resolve")
}
