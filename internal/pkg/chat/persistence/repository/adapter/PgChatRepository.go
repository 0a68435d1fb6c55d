package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/domain"
	repository "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/persistence/repository/port"
)

const (
	pgFKViolation = "23503"
	pgInvalidText = "22P02" // malformed uuid literal, raised at the cast
)

// isPgCode reports whether err carries the given Postgres error code.
func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// Ids are opaque strings to callers; a value Postgres rejects at the uuid
// cast can never address a row, so it reads as absent rather than as a
// storage failure.
func rowAbsent(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || isPgCode(err, pgInvalidText)
}

type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

var _ repository.ChatRepository = (*PgChatRepository)(nil)

func (r *PgChatRepository) GetJob(ctx context.Context, jobID string) (chat.Job, error) {
	var j chat.Job
	err := r.pool.QueryRow(ctx,
		"SELECT id::text, client_id::text, title FROM jobs WHERE id = $1::uuid",
		jobID,
	).Scan(&j.ID, &j.ClientID, &j.Title)
	if rowAbsent(err) {
		return chat.Job{}, chat.ErrJobNotFound
	}
	if err != nil {
		return chat.Job{}, err
	}
	return j, nil
}

// FindOrCreateThread inserts with ON CONFLICT DO NOTHING and then selects, so
// two concurrent "not found, create it" paths converge on the single row the
// unique constraint admits.
func (r *PgChatRepository) FindOrCreateThread(ctx context.Context, jobID, clientID, providerID string) (chat.Thread, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_threads (job_id, client_id, provider_id)
		VALUES ($1::uuid, $2::uuid, $3::uuid)
		ON CONFLICT ON CONSTRAINT chat_threads_triple_key DO NOTHING
	`, jobID, clientID, providerID)
	if err != nil {
		return chat.Thread{}, err
	}

	var t chat.Thread
	err = r.pool.QueryRow(ctx, `
		SELECT id::text, job_id::text, client_id::text, provider_id::text, created_at
		FROM chat_threads
		WHERE job_id = $1::uuid AND client_id = $2::uuid AND provider_id = $3::uuid
	`, jobID, clientID, providerID).Scan(&t.ID, &t.JobID, &t.ClientID, &t.ProviderID, &t.CreatedAt)
	if err != nil {
		return chat.Thread{}, err
	}
	return t, nil
}

func (r *PgChatRepository) GetThread(ctx context.Context, threadID string) (chat.Thread, error) {
	var t chat.Thread
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, job_id::text, client_id::text, provider_id::text, created_at
		FROM chat_threads
		WHERE id = $1::uuid
	`, threadID).Scan(&t.ID, &t.JobID, &t.ClientID, &t.ProviderID, &t.CreatedAt)
	if rowAbsent(err) {
		return chat.Thread{}, chat.ErrThreadNotFound
	}
	if err != nil {
		return chat.Thread{}, err
	}
	return t, nil
}

func (r *PgChatRepository) ListThreadsForUser(ctx context.Context, userID string) ([]chat.ThreadSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			ct.id::text AS thread_id,
			j.title     AS job_title,
			CASE
				WHEN ct.client_id = $1::uuid THEN p_provider.full_name
				ELSE p_client.full_name
			END AS other_party_name,
			ct.created_at
		FROM chat_threads ct
		JOIN jobs j ON ct.job_id = j.id
		JOIN profiles p_client ON ct.client_id = p_client.user_id
		JOIN profiles p_provider ON ct.provider_id = p_provider.user_id
		WHERE ct.client_id = $1::uuid OR ct.provider_id = $1::uuid
		ORDER BY ct.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []chat.ThreadSummary
	for rows.Next() {
		var s chat.ThreadSummary
		if err := rows.Scan(&s.ThreadID, &s.JobTitle, &s.OtherPartyName, &s.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *PgChatRepository) AppendMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (thread_id, sender_id, content, message_type)
		VALUES ($1::uuid, $2::uuid, $3, $4)
		RETURNING id, sent_at
	`, m.ThreadID, m.SenderID, m.Content, string(m.MessageType)).Scan(&m.ID, &m.SentAt)
	if err != nil {
		if isPgCode(err, pgFKViolation) || isPgCode(err, pgInvalidText) {
			return chat.Message{}, chat.ErrThreadNotFound
		}
		return chat.Message{}, err
	}
	return m, nil
}

func (r *PgChatRepository) ListMessages(ctx context.Context, threadID string, limit, offset int) ([]chat.Message, error) {
	if offset < 0 {
		offset = 0
	}
	query := `
		SELECT id, thread_id::text, sender_id::text, content, message_type, sent_at
		FROM messages
		WHERE thread_id = $1::uuid
		ORDER BY sent_at, id
		OFFSET $2`
	args := []any{threadID, offset}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		if isPgCode(err, pgInvalidText) {
			return nil, chat.ErrThreadNotFound
		}
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var (
			m       chat.Message
			msgType string
		)
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.Content, &msgType, &m.SentAt); err != nil {
			return nil, err
		}
		m.MessageType = chat.MessageType(msgType)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		// pgx can defer the cast failure to the row stream.
		if isPgCode(err, pgInvalidText) {
			return nil, chat.ErrThreadNotFound
		}
		return nil, err
	}
	return msgs, nil
}
