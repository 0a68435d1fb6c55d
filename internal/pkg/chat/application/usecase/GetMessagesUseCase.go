package usecase

import (
	"context"
	"fmt"

	cacheport "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/cache/port"
	chat "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/domain"
	repository "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/persistence/repository/port"
)

// GetMessagesInput carries parameters to fetch a thread's history.
type GetMessagesInput struct {
	ThreadID string
	CallerID string
	Limit    int
	Offset   int
}

// GetMessagesUseCase returns a thread's messages in ascending send order.
// Only the thread's two parties may read it. Fetching history also clears the
// caller's unread counter for the thread (the durable log is the source of
// truth on reload).
type GetMessagesUseCase struct {
	Repo  repository.ChatRepository
	Cache cacheport.Cache // optional
}

func NewGetMessagesUseCase(repo repository.ChatRepository, cache cacheport.Cache) *GetMessagesUseCase {
	return &GetMessagesUseCase{Repo: repo, Cache: cache}
}

func (uc *GetMessagesUseCase) Execute(ctx context.Context, in GetMessagesInput) ([]chat.Message, error) {
	if in.ThreadID == "" || in.CallerID == "" {
		return nil, fmt.Errorf("thread_id and caller are required")
	}

	resolver := threadResolver{repo: uc.Repo, cache: uc.Cache}
	t, err := resolver.resolve(ctx, in.ThreadID)
	if err != nil {
		return nil, err
	}
	if !t.IsParty(in.CallerID) {
		return nil, chat.ErrNotParty
	}

	msgs, err := uc.Repo.ListMessages(ctx, in.ThreadID, in.Limit, in.Offset)
	if err != nil {
		return nil, wrapRepoErr(err)
	}

	if uc.Cache != nil {
		_, _ = uc.Cache.Del(ctx, unreadKey(in.CallerID, in.ThreadID))
	}
	return msgs, nil
}
