package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akbolaji-04/Prolink-clone/internal/infrastructure/auth"
	"github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/application/usecase"
	repository "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/persistence/repository/port"
)

// InitiateThreadController handles the find-or-create thread endpoint (one
// controller per endpoint).
type InitiateThreadController struct {
	UC *usecase.InitiateThreadUseCase
}

func NewInitiateThreadController(repo repository.ChatRepository) *InitiateThreadController {
	return &InitiateThreadController{UC: usecase.NewInitiateThreadUseCase(repo)}
}

type initiateThreadRequest struct {
	JobID      string `json:"job_id" binding:"required"`
	ProviderID string `json:"provider_id" binding:"required"`
}

func (h *InitiateThreadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req initiateThreadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		t, err := h.UC.Execute(ctx, usecase.InitiateThreadInput{
			JobID:      req.JobID,
			CallerID:   auth.UserID(c),
			ProviderID: req.ProviderID,
		})
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"thread_id": t.ID})
	}
}
