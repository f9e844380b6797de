package output

import (
	"context"

	"eventbot/internal/domain/entities"
)

// DraftRepository keeps at most one creation draft and one edit draft per
// user. A miss returns domain.ErrDraftNotFound; Save upserts.
type DraftRepository interface {
	GetCreation(ctx context.Context, userID string) (*entities.CreationDraft, error)
	SaveCreation(ctx context.Context, draft *entities.CreationDraft) error
	DeleteCreation(ctx context.Context, userID string) error
	// CommitCreation stores event and removes the user's creation draft as
	// one unit: either both happen or neither does.
	CommitCreation(ctx context.Context, userID string, event *entities.Event) error

	GetEdit(ctx context.Context, userID string) (*entities.EditDraft, error)
	SaveEdit(ctx context.Context, draft *entities.EditDraft) error
	DeleteEdit(ctx context.Context, userID string) error
}
