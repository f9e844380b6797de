package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	q *Queries
}

func NewEventRepository(q *Queries) *EventRepository {
	return &EventRepository{q: q}
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	row, err := r.q.CreateEvent(ctx, eventToRow(event))
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	event.ID = uint(row.ID)
	event.CreatedAt = pgtypeTimestamptzToTime(row.CreatedAt)
	event.UpdatedAt = pgtypeTimestamptzToTime(row.UpdatedAt)
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, scopeID string, id uint) (*entities.Event, error) {
	row, err := r.q.GetEventByScopeAndID(ctx, scopeID, int64(id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	e := eventToDomain(row)
	return &e, nil
}

func (r *EventRepository) FindByScope(ctx context.Context, scopeID string, limit int) ([]entities.Event, error) {
	rows, err := r.q.ListEventsByScope(ctx, scopeID, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list events by scope: %w", err)
	}
	return eventsToDomain(rows), nil
}

func (r *EventRepository) FindByCreator(ctx context.Context, scopeID, creatorID string, limit int) ([]entities.Event, error) {
	rows, err := r.q.ListEventsByCreator(ctx, scopeID, creatorID, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list events by creator: %w", err)
	}
	return eventsToDomain(rows), nil
}

func (r *EventRepository) Update(ctx context.Context, event *entities.Event) error {
	n, err := r.q.UpdateEvent(ctx, eventToRow(event))
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if n == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// Delete removes the event. Participants and edit drafts cascade.
func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	n, err := r.q.DeleteEvent(ctx, int64(id))
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
