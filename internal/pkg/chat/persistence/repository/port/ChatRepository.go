package repository

import (
	"context"

	chat "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/domain"
)

// ChatRepository defines persistence operations for the chat core. The jobs
// and profiles tables are owned by the marketplace surface; this port only
// reads them (ownership checks and summary joins).
//
// Adapters translate storage failures into the domain sentinels where the
// contract names one (chat.ErrJobNotFound, chat.ErrThreadNotFound); anything
// else is an infrastructure error for the use case layer to wrap.
type ChatRepository interface {
	// GetJob returns the job slice needed for authorization and summaries.
	GetJob(ctx context.Context, jobID string) (chat.Job, error)

	// FindOrCreateThread resolves the thread for the triple, creating it if
	// absent. Idempotent under concurrent calls: the storage-layer unique
	// constraint on the triple is the final arbiter, not an application
	// check.
	FindOrCreateThread(ctx context.Context, jobID, clientID, providerID string) (chat.Thread, error)

	// GetThread loads a thread by id.
	GetThread(ctx context.Context, threadID string) (chat.Thread, error)

	// ListThreadsForUser returns summaries for every thread where userID is
	// the client or provider party, newest first.
	ListThreadsForUser(ctx context.Context, userID string) ([]chat.ThreadSummary, error)

	// AppendMessage durably appends m, assigning the identifier and send
	// timestamp at the store. Appends within one thread are totally ordered
	// by (sent_at, id).
	AppendMessage(ctx context.Context, m chat.Message) (chat.Message, error)

	// ListMessages returns the thread's messages in ascending send order.
	// limit <= 0 means no limit.
	ListMessages(ctx context.Context, threadID string, limit, offset int) ([]chat.Message, error)
}
