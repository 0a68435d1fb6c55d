package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	cacheport "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/cache/port"
	chat "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/domain"
	repository "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/persistence/repository/port"
)

const partyCacheTTL = time.Hour

// threadResolver loads a thread's party pair, consulting the cache first.
// Threads are immutable after creation, so a cached party pair never goes
// stale; only existence is re-checked on a miss. The cache is optional and
// strictly best-effort.
type threadResolver struct {
	repo  repository.ChatRepository
	cache cacheport.Cache
}

func partyCacheKey(threadID string) string {
	return "chat:parties:" + threadID
}

// unreadKey addresses a user's unread counter for one thread.
func unreadKey(userID, threadID string) string {
	return fmt.Sprintf("chat:unread:%s:%s", userID, threadID)
}

// resolve returns the thread identified by threadID. The cached form carries
// only the party pair; callers needing more than ID/ClientID/ProviderID must
// go through the repository directly.
func (tr threadResolver) resolve(ctx context.Context, threadID string) (chat.Thread, error) {
	if tr.cache != nil {
		if v, err := tr.cache.Get(ctx, partyCacheKey(threadID)); err == nil {
			if parts := strings.SplitN(v, ",", 2); len(parts) == 2 {
				return chat.Thread{ID: threadID, ClientID: parts[0], ProviderID: parts[1]}, nil
			}
		}
	}

	t, err := tr.repo.GetThread(ctx, threadID)
	if err != nil {
		return chat.Thread{}, wrapRepoErr(err)
	}
	if tr.cache != nil {
		_ = tr.cache.Set(ctx, partyCacheKey(threadID), t.ClientID+","+t.ProviderID, partyCacheTTL)
	}
	return t, nil
}
