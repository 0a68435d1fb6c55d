package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chat "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/domain"
)

// wsFrame is the union of every frame shape the server emits, decoded
// loosely so one reader serves acks, errors and message events alike.
type wsFrame struct {
	Type      string `json:"type"`
	Code      string `json:"code"`
	Error     string `json:"error"`
	ThreadID  string `json:"thread_id"`
	MessageID int64  `json:"message_id"`
	Message   struct {
		ID          int64     `json:"id"`
		ThreadID    string    `json:"thread_id"`
		SenderID    string    `json:"sender_id"`
		Content     string    `json:"content"`
		MessageType string    `json:"message_type"`
		SentAt      time.Time `json:"sent_at"`
	} `json:"message"`
}

func dialSocket(t *testing.T, env *testEnv, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/chats/ws?token=" + env.token(t, userID)
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { ws.Close() })

	// Every session is greeted before any frames are accepted.
	frame := readFrame(t, ws)
	require.Equal(t, "connected", frame.Type)
	return ws
}

func readFrame(t *testing.T, ws *websocket.Conn) wsFrame {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	var frame wsFrame
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func writeFrame(t *testing.T, ws *websocket.Conn, frame map[string]any) {
	t.Helper()
	require.NoError(t, ws.WriteJSON(frame))
}

func joinRoom(t *testing.T, ws *websocket.Conn, threadID string) {
	t.Helper()
	writeFrame(t, ws, map[string]any{"type": "join", "thread_id": threadID})
	frame := readFrame(t, ws)
	require.Equal(t, "joined", frame.Type)
	require.Equal(t, threadID, frame.ThreadID)
}

func setupThread(t *testing.T, env *testEnv) string {
	t.Helper()
	th, err := env.repo.FindOrCreateThread(context.Background(), "job-1", "client-1", "provider-1")
	require.NoError(t, err)
	return th.ID
}

func TestSocketSendDeliversToCounterpartyOnly(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.engine)
	defer srv.Close()
	threadID := setupThread(t, env)

	client := dialSocket(t, env, srv, "client-1")
	provider := dialSocket(t, env, srv, "provider-1")
	joinRoom(t, client, threadID)
	joinRoom(t, provider, threadID)

	writeFrame(t, client, map[string]any{"type": "message", "thread_id": threadID, "content": "hello Bob"})

	// The counterparty receives exactly the persisted message.
	got := readFrame(t, provider)
	require.Equal(t, "message", got.Type)
	assert.Equal(t, threadID, got.Message.ThreadID)
	assert.Equal(t, "client-1", got.Message.SenderID)
	assert.Equal(t, "hello Bob", got.Message.Content)
	assert.Equal(t, "text", got.Message.MessageType)
	assert.NotZero(t, got.Message.ID)
	assert.False(t, got.Message.SentAt.IsZero())

	// The sender gets a sent ack carrying the persisted id, never an echo of
	// its own message event.
	ack := readFrame(t, client)
	require.Equal(t, "sent", ack.Type)
	assert.Equal(t, threadID, ack.ThreadID)
	assert.Equal(t, got.Message.ID, ack.MessageID)

	// What was broadcast is what was stored.
	stored, err := env.repo.ListMessages(context.Background(), threadID, 0, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "hello Bob", stored[0].Content)
}

func TestSocketSendMasksBlockedTerms(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.engine)
	defer srv.Close()
	threadID := setupThread(t, env)

	client := dialSocket(t, env, srv, "client-1")
	provider := dialSocket(t, env, srv, "provider-1")
	joinRoom(t, client, threadID)
	joinRoom(t, provider, threadID)

	writeFrame(t, client, map[string]any{"type": "message", "thread_id": threadID, "content": "pure scam"})

	got := readFrame(t, provider)
	require.Equal(t, "message", got.Type)
	assert.Equal(t, "pure ****", got.Message.Content)

	stored, err := env.repo.ListMessages(context.Background(), threadID, 0, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "pure ****", stored[0].Content)
}

func TestSocketJoinRejectsOutsider(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.engine)
	defer srv.Close()
	env.repo.SeedProfile("intruder", "Mallory")
	threadID := setupThread(t, env)

	intruder := dialSocket(t, env, srv, "intruder")
	writeFrame(t, intruder, map[string]any{"type": "join", "thread_id": threadID})

	frame := readFrame(t, intruder)
	require.Equal(t, "error", frame.Type)
	assert.Equal(t, "forbidden", frame.Code)
	assert.Equal(t, threadID, frame.ThreadID)
}

func TestSocketJoinAbsentThread(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.engine)
	defer srv.Close()

	client := dialSocket(t, env, srv, "client-1")
	writeFrame(t, client, map[string]any{"type": "join", "thread_id": "no-such-thread"})

	frame := readFrame(t, client)
	require.Equal(t, "error", frame.Type)
	assert.Equal(t, "not_found", frame.Code)
}

func TestSocketSendWithoutMembershipStillPersists(t *testing.T) {
	// Room membership shapes fan-out, not authorization: a party that never
	// joined can still send, and the message lands in the store.
	env := newTestEnv(t)
	srv := httptest.NewServer(env.engine)
	defer srv.Close()
	threadID := setupThread(t, env)

	client := dialSocket(t, env, srv, "client-1")
	writeFrame(t, client, map[string]any{"type": "message", "thread_id": threadID, "content": "are you there?"})

	ack := readFrame(t, client)
	require.Equal(t, "sent", ack.Type)

	stored, err := env.repo.ListMessages(context.Background(), threadID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestSocketSendByOutsiderRejected(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.engine)
	defer srv.Close()
	env.repo.SeedProfile("intruder", "Mallory")
	threadID := setupThread(t, env)

	intruder := dialSocket(t, env, srv, "intruder")
	writeFrame(t, intruder, map[string]any{"type": "message", "thread_id": threadID, "content": "let me in"})

	frame := readFrame(t, intruder)
	require.Equal(t, "error", frame.Type)
	assert.Equal(t, "forbidden", frame.Code)

	stored, err := env.repo.ListMessages(context.Background(), threadID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestSocketEmptyMessageRejected(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.engine)
	defer srv.Close()
	threadID := setupThread(t, env)

	client := dialSocket(t, env, srv, "client-1")
	writeFrame(t, client, map[string]any{"type": "message", "thread_id": threadID, "content": "   "})

	frame := readFrame(t, client)
	require.Equal(t, "error", frame.Type)
	assert.Equal(t, "bad_request", frame.Code)
}

func TestSocketLeaveStopsDelivery(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.engine)
	defer srv.Close()
	threadID := setupThread(t, env)

	client := dialSocket(t, env, srv, "client-1")
	provider := dialSocket(t, env, srv, "provider-1")
	joinRoom(t, client, threadID)
	joinRoom(t, provider, threadID)

	writeFrame(t, provider, map[string]any{"type": "leave", "thread_id": threadID})
	left := readFrame(t, provider)
	require.Equal(t, "left", left.Type)

	writeFrame(t, client, map[string]any{"type": "message", "thread_id": threadID, "content": "anyone?"})
	ack := readFrame(t, client)
	require.Equal(t, "sent", ack.Type)

	// The departed session must see nothing.
	require.NoError(t, provider.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err := provider.ReadMessage()
	assert.Error(t, err, "no frame should reach a session that left the room")
}

func TestSocketMalformedAndUnknownFrames(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.engine)
	defer srv.Close()

	client := dialSocket(t, env, srv, "client-1")

	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte("{not json")))
	frame := readFrame(t, client)
	require.Equal(t, "error", frame.Type)
	assert.Equal(t, "bad_request", frame.Code)

	writeFrame(t, client, map[string]any{"type": "subscribe"})
	frame = readFrame(t, client)
	require.Equal(t, "error", frame.Type)
	assert.Equal(t, "unsupported_type", frame.Code)

	// The session survives bad frames.
	writeFrame(t, client, map[string]any{"type": "join", "thread_id": setupThread(t, env)})
	frame = readFrame(t, client)
	assert.Equal(t, "joined", frame.Type)
}

func TestSocketHandshakeRequiresCredential(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.engine)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/chats/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSocketImagePassthrough(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.engine)
	defer srv.Close()
	threadID := setupThread(t, env)

	client := dialSocket(t, env, srv, "client-1")
	provider := dialSocket(t, env, srv, "provider-1")
	joinRoom(t, provider, threadID)

	writeFrame(t, client, map[string]any{
		"type": "message", "thread_id": threadID,
		"content": "https://cdn.example/scam.png", "message_type": string(chat.MessageTypeImage),
	})

	got := readFrame(t, provider)
	require.Equal(t, "message", got.Type)
	assert.Equal(t, "https://cdn.example/scam.png", got.Message.Content, "non-text content is never masked")
	assert.Equal(t, "image", got.Message.MessageType)
}
