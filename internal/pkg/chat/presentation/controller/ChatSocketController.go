package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/akbolaji-04/Prolink-clone/internal/infrastructure/auth"
	cacheport "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/cache/port"
	"github.com/akbolaji-04/Prolink-clone/internal/infrastructure/logging"
	qport "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/queue/port"
	"github.com/akbolaji-04/Prolink-clone/internal/infrastructure/realtime"
	"github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/application/task"
	"github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/application/usecase"
	chat "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/domain"
	repository "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/persistence/repository/port"
	"github.com/akbolaji-04/Prolink-clone/internal/pkg/moderation"
)

// ChatSocketController handles the websocket endpoint for realtime chat
// traffic: handshake, room join, message send and fan-out, disconnect.
//
// The caller identity comes from the auth middleware at handshake time and is
// pinned to the connection for its lifetime; frame payloads never carry a
// sender id.
type ChatSocketController struct {
	hub             *realtime.Hub
	joinUC          *usecase.JoinThreadUseCase
	sendUC          *usecase.SendMessageUseCase
	queue           qport.Client // optional; offline notifications
	inflightTimeout time.Duration
}

func NewChatSocketController(
	repo repository.ChatRepository,
	cache cacheport.Cache,
	sanitizer *moderation.Sanitizer,
	hub *realtime.Hub,
	queue qport.Client,
) *ChatSocketController {
	return &ChatSocketController{
		hub:             hub,
		joinUC:          usecase.NewJoinThreadUseCase(repo, cache),
		sendUC:          usecase.NewSendMessageUseCase(repo, cache, sanitizer),
		queue:           queue,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The credential check happens before the upgrade; origin is not a
		// capability here.
		return true
	},
}

type inboundFrame struct {
	Type        string `json:"type"`
	ThreadID    string `json:"thread_id,omitempty"`
	Content     string `json:"content,omitempty"`
	MessageType string `json:"message_type,omitempty"`
}

type errorFrame struct {
	Type     string `json:"type"`
	Code     string `json:"code"`
	Error    string `json:"error"`
	ThreadID string `json:"thread_id,omitempty"`
}

type ackFrame struct {
	Type      string `json:"type"`
	ThreadID  string `json:"thread_id,omitempty"`
	MessageID int64  `json:"message_id,omitempty"`
}

type outboundMessage struct {
	Type    string         `json:"type"`
	Message messagePayload `json:"message"`
}

type messagePayload struct {
	ID          int64     `json:"id"`
	ThreadID    string    `json:"thread_id"`
	SenderID    string    `json:"sender_id"`
	Content     string    `json:"content"`
	MessageType string    `json:"message_type"`
	SentAt      time.Time `json:"sent_at"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and processes frames until
// the client disconnects. One read loop per connection; the only suspension
// points are the store calls inside the use cases, so slow storage never
// stalls other connections.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.UserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; nothing more to do.
			return
		}

		conn := realtime.NewConn(userID, ws)
		ctl.hub.Attach(conn)
		conn.Start()
		logger := logging.L()
		logger.Debug().Str("conn_id", conn.ID()).Str("user_id", userID).Msg("chat session connected")

		defer func() {
			ctl.hub.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
			logger := logging.L()
			logger.Debug().Str("conn_id", conn.ID()).Str("user_id", userID).Msg("chat session disconnected")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		ctl.replyAck(conn, ackFrame{Type: "connected"})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error(), "")
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload", "")
				continue
			}

			switch frame.Type {
			case "join":
				ctl.handleJoin(c, conn, frame)
			case "leave":
				ctl.handleLeave(conn, frame)
			case "message":
				ctl.handleMessage(c, conn, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type", "")
			}
		}
	}
}

// handleJoin registers room membership after verifying the user is a party
// to the thread. Idempotent for sessions already in the room.
func (ctl *ChatSocketController) handleJoin(c *gin.Context, conn *realtime.Conn, frame inboundFrame) {
	if frame.ThreadID == "" {
		ctl.replyError(conn, "bad_request", "thread_id is required", "")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	_, err := ctl.joinUC.Execute(ctx, usecase.JoinThreadInput{
		ThreadID: frame.ThreadID,
		UserID:   conn.UserID(),
	})
	if err != nil {
		ctl.replyError(conn, codeForError(err), err.Error(), frame.ThreadID)
		return
	}

	ctl.hub.Join(frame.ThreadID, conn)
	ctl.replyAck(conn, ackFrame{Type: "joined", ThreadID: frame.ThreadID})
}

func (ctl *ChatSocketController) handleLeave(conn *realtime.Conn, frame inboundFrame) {
	if frame.ThreadID == "" {
		ctl.replyError(conn, "bad_request", "thread_id is required", "")
		return
	}
	ctl.hub.Leave(frame.ThreadID, conn)
	ctl.replyAck(conn, ackFrame{Type: "left", ThreadID: frame.ThreadID})
}

// handleMessage runs sanitize -> persist -> broadcast. The sender's own
// connection is excluded from fan-out (its view is already updated
// optimistically) and instead receives a sent ack carrying the persisted id,
// or an error frame, so the optimistic state can be reconciled either way.
func (ctl *ChatSocketController) handleMessage(c *gin.Context, conn *realtime.Conn, frame inboundFrame) {
	if frame.ThreadID == "" {
		ctl.replyError(conn, "bad_request", "thread_id is required", "")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	msg, thread, err := ctl.sendUC.Execute(ctx, usecase.SendMessageInput{
		ThreadID:    frame.ThreadID,
		SenderID:    conn.UserID(),
		Content:     frame.Content,
		MessageType: chat.MessageType(frame.MessageType),
	})
	if err != nil {
		logger := logging.L()
		logger.Warn().Err(err).
			Str("thread_id", frame.ThreadID).
			Str("user_id", conn.UserID()).
			Msg("send failed")
		ctl.replyError(conn, codeForError(err), err.Error(), frame.ThreadID)
		return
	}

	out := outboundMessage{Type: "message", Message: toPayload(msg)}
	payload, err := json.Marshal(out)
	if err != nil {
		ctl.replyError(conn, "internal_error", "failed to encode message", frame.ThreadID)
		return
	}

	ctl.hub.Broadcast(frame.ThreadID, payload, conn.ID())
	ctl.replyAck(conn, ackFrame{Type: "sent", ThreadID: frame.ThreadID, MessageID: msg.ID})

	ctl.notifyIfOffline(ctx, thread.Counterparty(conn.UserID()), msg)
}

// notifyIfOffline enqueues an unread-counter bump when the counterparty holds
// no live session in the room. Best-effort: the message is already durable.
func (ctl *ChatSocketController) notifyIfOffline(ctx context.Context, recipientID string, msg chat.Message) {
	if ctl.queue == nil || recipientID == "" || ctl.hub.IsUserOnline(msg.ThreadID, recipientID) {
		return
	}
	payload, err := json.Marshal(task.NotifyOfflinePayload{
		ThreadID:    msg.ThreadID,
		RecipientID: recipientID,
		MessageID:   msg.ID,
	})
	if err != nil {
		return
	}
	_, err = ctl.queue.Enqueue(ctx,
		qport.Task{Type: task.NotifyOfflineTaskType, Payload: payload},
		qport.EnqueueOption{Queue: "chat", MaxRetry: 10},
	)
	if err != nil {
		logger := logging.L()
		logger.Warn().Err(err).Str("thread_id", msg.ThreadID).Msg("offline notify enqueue failed")
	}
}

func (ctl *ChatSocketController) replyAck(conn *realtime.Conn, frame ackFrame) {
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ChatSocketController) replyError(conn *realtime.Conn, code, message, threadID string) {
	frame := errorFrame{Type: "error", Code: code, Error: message, ThreadID: threadID}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}

func toPayload(msg chat.Message) messagePayload {
	return messagePayload{
		ID:          msg.ID,
		ThreadID:    msg.ThreadID,
		SenderID:    msg.SenderID,
		Content:     msg.Content,
		MessageType: string(msg.MessageType),
		SentAt:      msg.SentAt,
	}
}
