package chat

import "time"

// Thread is a durable conversation scoped to one job and one client-provider
// pair. Immutable after creation; at most one thread exists per
// (job, client, provider) triple, enforced by a storage-layer unique
// constraint.
type Thread struct {
	ID         string    `db:"id"`
	JobID      string    `db:"job_id"`
	ClientID   string    `db:"client_id"`
	ProviderID string    `db:"provider_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// IsParty reports whether userID is one of the thread's two participants.
func (t Thread) IsParty(userID string) bool {
	return userID != "" && (userID == t.ClientID || userID == t.ProviderID)
}

// Counterparty returns the other participant relative to userID, or "" if
// userID is not a party.
func (t Thread) Counterparty(userID string) string {
	switch userID {
	case t.ClientID:
		return t.ProviderID
	case t.ProviderID:
		return t.ClientID
	default:
		return ""
	}
}

// ThreadSummary is one row of a user's conversation list: the thread plus the
// joined job title and counterparty display name.
type ThreadSummary struct {
	ThreadID       string    `db:"thread_id"`
	JobTitle       string    `db:"job_title"`
	OtherPartyName string    `db:"other_party_name"`
	CreatedAt      time.Time `db:"created_at"`
	UnreadCount    int64     `db:"-"` // best-effort, from the cache
}

// Job is the slice of the marketplace job record the chat core needs:
// ownership for the initiate authorization check and the title for summaries.
type Job struct {
	ID       string `db:"id"`
	ClientID string `db:"client_id"`
	Title    string `db:"title"`
}
