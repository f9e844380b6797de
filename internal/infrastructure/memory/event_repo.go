package memory

import (
	"cmp"
	"context"
	"slices"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	store *Store
}

func NewEventRepository(store *Store) *EventRepository {
	return &EventRepository{store: store}
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertEvent(event)
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, scopeID string, id uint) (*entities.Event, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok || e.ScopeID != scopeID {
		return nil, domain.ErrEventNotFound
	}
	return &e, nil
}

func (r *EventRepository) FindByScope(ctx context.Context, scopeID string, limit int) ([]entities.Event, error) {
	return r.list(limit, func(e entities.Event) bool { return e.ScopeID == scopeID }), nil
}

func (r *EventRepository) FindByCreator(ctx context.Context, scopeID, creatorID string, limit int) ([]entities.Event, error) {
	return r.list(limit, func(e entities.Event) bool {
		return e.ScopeID == scopeID && e.CreatorID == creatorID
	}), nil
}

// list returns matching events, newest id first.
func (r *EventRepository) list(limit int, match func(entities.Event) bool) []entities.Event {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.Event
	for _, e := range s.events {
		if match(e) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b entities.Event) int { return cmp.Compare(b.ID, a.ID) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *EventRepository) Update(ctx context.Context, event *entities.Event) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[event.ID]; !ok {
		return domain.ErrEventNotFound
	}
	s.events[event.ID] = *event
	return nil
}

// Delete removes the event with its participants and edit drafts. It waits
// for any ledger unit running on the event.
func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	s := r.store
	l := s.eventLock(id)
	l.Lock()
	defer l.Unlock()
	defer s.dropEventLock(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(s.events, id)
	for pid, p := range s.participants {
		if p.EventID == id {
			delete(s.participants, pid)
		}
	}
	for user, d := range s.edit {
		if d.EventID == id {
			delete(s.edit, user)
		}
	}
	return nil
}
