package usecase

import (
	"context"
	"fmt"

	cacheport "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/cache/port"
	chat "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/domain"
	repository "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/persistence/repository/port"
)

// ListThreadsInput wraps the caller identity for the conversation list.
type ListThreadsInput struct {
	UserID string
}

// ListThreadsUseCase returns every thread the user is a party to, newest
// first, decorated with best-effort unread counts from the cache.
type ListThreadsUseCase struct {
	Repo  repository.ChatRepository
	Cache cacheport.Cache // optional
}

func NewListThreadsUseCase(repo repository.ChatRepository, cache cacheport.Cache) *ListThreadsUseCase {
	return &ListThreadsUseCase{Repo: repo, Cache: cache}
}

func (uc *ListThreadsUseCase) Execute(ctx context.Context, in ListThreadsInput) ([]chat.ThreadSummary, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	summaries, err := uc.Repo.ListThreadsForUser(ctx, in.UserID)
	if err != nil {
		return nil, wrapRepoErr(err)
	}

	// Unread counts are a convenience, never a reason to fail the listing.
	if uc.Cache != nil {
		for i := range summaries {
			if n, err := uc.Cache.GetInt(ctx, unreadKey(in.UserID, summaries[i].ThreadID)); err == nil {
				summaries[i].UnreadCount = n
			}
		}
	}
	return summaries, nil
}
