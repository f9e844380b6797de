package output

import (
	"context"

	"eventbot/internal/domain/entities"
)

// EventRepository stores committed events. Every lookup is scope-filtered;
// a miss returns domain.ErrEventNotFound.
type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	FindByID(ctx context.Context, scopeID string, id uint) (*entities.Event, error)
	FindByScope(ctx context.Context, scopeID string, limit int) ([]entities.Event, error)
	FindByCreator(ctx context.Context, scopeID, creatorID string, limit int) ([]entities.Event, error)
	Update(ctx context.Context, event *entities.Event) error
	Delete(ctx context.Context, id uint) error
}
