package http

import (
	"github.com/gin-gonic/gin"

	"github.com/akbolaji-04/Prolink-clone/internal/infrastructure/auth"
	cacheport "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/cache/port"
	qport "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/queue/port"
	"github.com/akbolaji-04/Prolink-clone/internal/infrastructure/realtime"
	"github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/presentation/controller"
	repository "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/persistence/repository/port"
	"github.com/akbolaji-04/Prolink-clone/internal/pkg/moderation"
)

// Deps bundles the collaborators the chat endpoints need.
type Deps struct {
	Repo      repository.ChatRepository
	Cache     cacheport.Cache // optional
	Queue     qport.Client    // optional
	Sanitizer *moderation.Sanitizer
	Hub       *realtime.Hub
	Verifier  *auth.Verifier
}

// RegisterRoutes registers chat-related endpoints under the given router
// group. It constructs per-endpoint controllers and binds them directly to
// routes. Every route requires an authenticated caller, the websocket
// handshake included.
func RegisterRoutes(g *gin.RouterGroup, d Deps) {
	initiateCtl := controller.NewInitiateThreadController(d.Repo)
	listCtl := controller.NewListThreadsController(d.Repo, d.Cache)
	messagesCtl := controller.NewGetMessagesController(d.Repo, d.Cache)
	socketCtl := controller.NewChatSocketController(d.Repo, d.Cache, d.Sanitizer, d.Hub, d.Queue)

	chats := g.Group("/chats", auth.Middleware(d.Verifier))

	// POST /api/v1/chats/initiate -> find or create a thread
	chats.POST("/initiate", initiateCtl.Handle())

	// GET /api/v1/chats -> caller's conversation list
	chats.GET("", listCtl.Handle())

	// GET /api/v1/chats/:threadId/messages -> thread history
	chats.GET("/:threadId/messages", messagesCtl.Handle())

	// GET /api/v1/chats/ws -> websocket endpoint for realtime chat
	chats.GET("/ws", socketCtl.Handle())
}
