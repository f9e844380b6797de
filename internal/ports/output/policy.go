package output

import (
	"context"

	"eventbot/internal/domain/entities"
)

// Authorizer answers whether a user may edit or delete an event.
type Authorizer interface {
	CanEdit(ctx context.Context, userID string, event *entities.Event) bool
}
