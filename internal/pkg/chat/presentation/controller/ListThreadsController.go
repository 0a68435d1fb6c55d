package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akbolaji-04/Prolink-clone/internal/infrastructure/auth"
	cacheport "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/cache/port"
	"github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/application/usecase"
	repository "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/persistence/repository/port"
)

// ListThreadsController handles the caller's conversation list endpoint.
type ListThreadsController struct {
	UC *usecase.ListThreadsUseCase
}

func NewListThreadsController(repo repository.ChatRepository, cache cacheport.Cache) *ListThreadsController {
	return &ListThreadsController{UC: usecase.NewListThreadsUseCase(repo, cache)}
}

func (h *ListThreadsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		summaries, err := h.UC.Execute(ctx, usecase.ListThreadsInput{UserID: auth.UserID(c)})
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(summaries))
		for _, s := range summaries {
			out = append(out, gin.H{
				"thread_id":        s.ThreadID,
				"job_title":        s.JobTitle,
				"other_party_name": s.OtherPartyName,
				"created_at":       s.CreatedAt,
				"unread_count":     s.UnreadCount,
			})
		}
		c.JSON(http.StatusOK, gin.H{"threads": out, "count": len(out)})
	}
}
