package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akbolaji-04/Prolink-clone/internal/infrastructure/auth"
	cacheport "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/cache/port"
	"github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/application/usecase"
	repository "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/persistence/repository/port"
)

// GetMessagesController handles the thread history endpoint.
type GetMessagesController struct {
	UC *usecase.GetMessagesUseCase
}

func NewGetMessagesController(repo repository.ChatRepository, cache cacheport.Cache) *GetMessagesController {
	return &GetMessagesController{UC: usecase.NewGetMessagesUseCase(repo, cache)}
}

func (h *GetMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		threadID := c.Param("threadId")
		if threadID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threadId is required"})
			return
		}

		// No pagination required by the contract; limit/offset accepted as a
		// convenience.
		limit, offset := 0, 0
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		if v := c.Query("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, usecase.GetMessagesInput{
			ThreadID: threadID,
			CallerID: auth.UserID(c),
			Limit:    limit,
			Offset:   offset,
		})
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, gin.H{
				"id":           m.ID,
				"thread_id":    m.ThreadID,
				"sender_id":    m.SenderID,
				"content":      m.Content,
				"message_type": m.MessageType,
				"sent_at":      m.SentAt,
			})
		}
		c.JSON(http.StatusOK, gin.H{"messages": out, "count": len(out)})
	}
}
