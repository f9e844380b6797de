package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/input"
	"eventbot/internal/ports/output"
)

var _ input.EventUseCase = (*EventService)(nil)

type EventService struct {
	eventRepo output.EventRepository
	authz     output.Authorizer
	logger    *zap.Logger
}

func NewEventService(eventRepo output.EventRepository, authz output.Authorizer, logger *zap.Logger) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		authz:     authz,
		logger:    logger,
	}
}

// ListByScope returns the newest events of a scope first.
func (s *EventService) ListByScope(ctx context.Context, scopeID string, limit int) ([]entities.Event, error) {
	return s.eventRepo.FindByScope(ctx, scopeID, limit)
}

func (s *EventService) ListByCreator(ctx context.Context, scopeID, creatorID string, limit int) ([]entities.Event, error) {
	return s.eventRepo.FindByCreator(ctx, scopeID, creatorID, limit)
}

func (s *EventService) GetEvent(ctx context.Context, scopeID string, id uint) (*entities.Event, error) {
	return s.eventRepo.FindByID(ctx, scopeID, id)
}

// CanEdit loads the event and checks the edit policy.
func (s *EventService) CanEdit(ctx context.Context, scopeID string, id uint, userID string) (*entities.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, scopeID, id)
	if err != nil {
		return nil, err
	}
	if !s.authz.CanEdit(ctx, userID, event) {
		return nil, domain.ErrNotEditor
	}
	return event, nil
}

// DeleteEvent removes an event the user may edit. Participants and edit
// drafts go with it.
func (s *EventService) DeleteEvent(ctx context.Context, scopeID string, id uint, userID string) (*entities.Event, error) {
	event, err := s.CanEdit(ctx, scopeID, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Delete(ctx, event.ID); err != nil {
		return nil, fmt.Errorf("delete event: %w", err)
	}
	s.logger.Info("event deleted", zap.Uint("event_id", event.ID), zap.String("user_id", userID))
	return event, nil
}
