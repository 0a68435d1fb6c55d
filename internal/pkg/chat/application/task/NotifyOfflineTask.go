package task

import (
	"context"
	"encoding/json"
	"time"

	cacheport "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/cache/port"
	"github.com/akbolaji-04/Prolink-clone/internal/infrastructure/logging"
	qport "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/queue/port"
)

// NotifyOfflineTaskType is the queue task name for recording an unread
// notification when a message's recipient held no live session at fan-out
// time. The message itself is already durable; this only maintains the
// recipient's unread counter.
const NotifyOfflineTaskType = "chat:notify_offline"

// NotifyOfflinePayload is the JSON payload transported via the queue.
type NotifyOfflinePayload struct {
	ThreadID    string `json:"threadId"`
	RecipientID string `json:"recipientId"`
	MessageID   int64  `json:"messageId"`
}

// unreadKey must mirror the key scheme the use cases read and clear.
func unreadKey(userID, threadID string) string {
	return "chat:unread:" + userID + ":" + threadID
}

// RegisterNotifyOfflineTask binds the task handler to the provided server.
// The handler bumps the recipient's per-thread unread counter; duplicate
// retries over-count at worst, which the history fetch reset absorbs.
func RegisterNotifyOfflineTask(srv qport.Server, cache cacheport.Cache) {
	srv.Register(NotifyOfflineTaskType, func(ctx context.Context, t qport.Task) error {
		var p NotifyOfflinePayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: retrying will not help
			return err
		}
		if p.ThreadID == "" || p.RecipientID == "" {
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		n, err := cache.Incr(ctx, unreadKey(p.RecipientID, p.ThreadID))
		if err != nil {
			return err // transient cache failure, let the queue retry
		}
		logger := logging.L()
		logger.Debug().
			Str("thread_id", p.ThreadID).
			Str("recipient_id", p.RecipientID).
			Int64("unread", n).
			Msg("offline notification recorded")
		return nil
	})
}
