package adapter

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	chat "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/domain"
	repository "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/persistence/repository/port"
)

// MemChatRepository is an in-memory ChatRepository for tests and local runs
// without Postgres. It honors the same contracts as the Pg adapter: the
// thread triple is unique under concurrency, and message ids and send
// timestamps are assigned at append under a per-store lock, so appends are
// serialized exactly like the database's.
type MemChatRepository struct {
	mu       sync.Mutex
	jobs     map[string]chat.Job
	names    map[string]string // userID -> display name
	threads  map[string]chat.Thread
	byTriple map[[3]string]string // (job, client, provider) -> threadID
	messages map[string][]chat.Message
	nextID   int64
}

func NewMemChatRepository() *MemChatRepository {
	return &MemChatRepository{
		jobs:     make(map[string]chat.Job),
		names:    make(map[string]string),
		threads:  make(map[string]chat.Thread),
		byTriple: make(map[[3]string]string),
		messages: make(map[string][]chat.Message),
	}
}

var _ repository.ChatRepository = (*MemChatRepository)(nil)

// SeedProfile registers a display name, standing in for the marketplace's
// profiles table.
func (r *MemChatRepository) SeedProfile(userID, fullName string) {
	r.mu.Lock()
	r.names[userID] = fullName
	r.mu.Unlock()
}

// SeedJob registers a job, standing in for the marketplace's jobs table.
func (r *MemChatRepository) SeedJob(j chat.Job) {
	r.mu.Lock()
	r.jobs[j.ID] = j
	r.mu.Unlock()
}

func (r *MemChatRepository) GetJob(ctx context.Context, jobID string) (chat.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[jobID]
	if !ok {
		return chat.Job{}, chat.ErrJobNotFound
	}
	return j, nil
}

func (r *MemChatRepository) FindOrCreateThread(ctx context.Context, jobID, clientID, providerID string) (chat.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [3]string{jobID, clientID, providerID}
	if id, ok := r.byTriple[key]; ok {
		return r.threads[id], nil
	}
	t := chat.Thread{
		ID:         uuid.NewString(),
		JobID:      jobID,
		ClientID:   clientID,
		ProviderID: providerID,
		CreatedAt:  time.Now().UTC(),
	}
	r.byTriple[key] = t.ID
	r.threads[t.ID] = t
	return t, nil
}

func (r *MemChatRepository) GetThread(ctx context.Context, threadID string) (chat.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.threads[threadID]
	if !ok {
		return chat.Thread{}, chat.ErrThreadNotFound
	}
	return t, nil
}

func (r *MemChatRepository) ListThreadsForUser(ctx context.Context, userID string) ([]chat.ThreadSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var summaries []chat.ThreadSummary
	for _, t := range r.threads {
		if !t.IsParty(userID) {
			continue
		}
		summaries = append(summaries, chat.ThreadSummary{
			ThreadID:       t.ID,
			JobTitle:       r.jobs[t.JobID].Title,
			OtherPartyName: r.names[t.Counterparty(userID)],
			CreatedAt:      t.CreatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (r *MemChatRepository) AppendMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.threads[m.ThreadID]; !ok {
		return chat.Message{}, chat.ErrThreadNotFound
	}
	r.nextID++
	m.ID = r.nextID
	m.SentAt = time.Now().UTC()
	r.messages[m.ThreadID] = append(r.messages[m.ThreadID], m)
	return m, nil
}

func (r *MemChatRepository) ListMessages(ctx context.Context, threadID string, limit, offset int) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[threadID]
	out := make([]chat.Message, len(msgs))
	copy(out, msgs)
	sort.Slice(out, func(i, j int) bool {
		if out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SentAt.Before(out[j].SentAt)
	})
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
