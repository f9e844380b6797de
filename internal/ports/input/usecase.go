package input

import (
	"context"

	"eventbot/internal/domain/entities"
)

// Engine routes one stimulus to the wizard or the registry. A nil prompt
// means the stimulus was not recognized.
type Engine interface {
	Handle(ctx context.Context, s Stimulus) (*Prompt, error)
}

type EventUseCase interface {
	ListByScope(ctx context.Context, scopeID string, limit int) ([]entities.Event, error)
	ListByCreator(ctx context.Context, scopeID, creatorID string, limit int) ([]entities.Event, error)
	GetEvent(ctx context.Context, scopeID string, id uint) (*entities.Event, error)
	DeleteEvent(ctx context.Context, scopeID string, id uint, userID string) (*entities.Event, error)
}

type ParticipantUseCase interface {
	Join(ctx context.Context, scopeID string, eventID uint, userID string) (*entities.JoinResult, error)
	Cancel(ctx context.Context, scopeID string, eventID uint, userID string) (*entities.LeaveResult, error)
	Roster(ctx context.Context, scopeID string, eventID uint, userID string) (*entities.Roster, error)
}
