package output

import (
	"context"

	"eventbot/internal/domain/entities"
)

// ParticipantStore reads and writes participants. Lists are ordered by
// joined_at, then id.
type ParticipantStore interface {
	FindByEventIDAndUserID(ctx context.Context, eventID uint, userID string) (*entities.Participant, error)
	FindByEventIDAndStatus(ctx context.Context, eventID uint, status string) ([]entities.Participant, error)
	CountByEventIDAndStatus(ctx context.Context, eventID uint, status string) (int, error)
	Create(ctx context.Context, participant *entities.Participant) error
	Update(ctx context.Context, participant *entities.Participant) error
	Delete(ctx context.Context, participant *entities.Participant) error
}

// LedgerTx is the view of the store inside one atomic unit.
type LedgerTx interface {
	ParticipantStore
	UpdateEvent(ctx context.Context, event *entities.Event) error
}

type ParticipantRepository interface {
	ParticipantStore
	// WithEventLock runs fn as a single atomic unit, serialized against every
	// other unit on the same event. fn receives the event as read under the
	// lock; returning an error rolls the unit back.
	WithEventLock(ctx context.Context, eventID uint, fn func(ctx context.Context, event *entities.Event, tx LedgerTx) error) error
}
