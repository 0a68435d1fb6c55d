package usecase

import (
	"context"
	"fmt"

	cacheport "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/cache/port"
	chat "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/domain"
	repository "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/persistence/repository/port"
)

// JoinThreadInput validates a request to attach a realtime session to a
// thread's room.
type JoinThreadInput struct {
	ThreadID string
	UserID   string
}

// JoinThreadUseCase ensures the user is one of the thread's two parties
// before the hub registers the membership. Knowing a thread identifier is not
// a capability to observe it.
type JoinThreadUseCase struct {
	Repo  repository.ChatRepository
	Cache cacheport.Cache // optional
}

func NewJoinThreadUseCase(repo repository.ChatRepository, cache cacheport.Cache) *JoinThreadUseCase {
	return &JoinThreadUseCase{Repo: repo, Cache: cache}
}

// Execute returns the thread on success so the caller can identify the
// counterparty without a second lookup.
func (uc *JoinThreadUseCase) Execute(ctx context.Context, in JoinThreadInput) (chat.Thread, error) {
	if in.ThreadID == "" || in.UserID == "" {
		return chat.Thread{}, fmt.Errorf("thread_id and user_id are required")
	}

	resolver := threadResolver{repo: uc.Repo, cache: uc.Cache}
	t, err := resolver.resolve(ctx, in.ThreadID)
	if err != nil {
		return chat.Thread{}, err
	}
	if !t.IsParty(in.UserID) {
		return chat.Thread{}, chat.ErrNotParty
	}
	return t, nil
}
