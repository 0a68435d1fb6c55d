package usecase

import (
	"context"
	"fmt"

	chat "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/domain"
	repository "github.com/akbolaji-04/Prolink-clone/internal/pkg/chat/persistence/repository/port"
)

// InitiateThreadInput carries the data to find or create the conversation
// thread for a (job, client, provider) triple. CallerID is the authenticated
// identity, never a client-supplied field.
type InitiateThreadInput struct {
	JobID      string
	CallerID   string
	ProviderID string
}

// InitiateThreadUseCase opens (or returns) the thread between a job's client
// and a provider. Only the job's owning client may originate a thread.
type InitiateThreadUseCase struct {
	Repo repository.ChatRepository
}

func NewInitiateThreadUseCase(repo repository.ChatRepository) *InitiateThreadUseCase {
	return &InitiateThreadUseCase{Repo: repo}
}

// Execute is idempotent: repeated calls for the same triple return the same
// thread, even when racing, because the storage layer's unique constraint is
// the final arbiter. Authorization failures create nothing and leak nothing
// beyond what the job-absent 404 already would.
func (uc *InitiateThreadUseCase) Execute(ctx context.Context, in InitiateThreadInput) (chat.Thread, error) {
	if in.JobID == "" || in.CallerID == "" || in.ProviderID == "" {
		return chat.Thread{}, fmt.Errorf("job_id, caller and provider_id are required")
	}

	job, err := uc.Repo.GetJob(ctx, in.JobID)
	if err != nil {
		return chat.Thread{}, wrapRepoErr(err)
	}
	if job.ClientID != in.CallerID {
		return chat.Thread{}, chat.ErrNotJobOwner
	}

	t, err := uc.Repo.FindOrCreateThread(ctx, job.ID, job.ClientID, in.ProviderID)
	if err != nil {
		return chat.Thread{}, wrapRepoErr(err)
	}
	return t, nil
}
