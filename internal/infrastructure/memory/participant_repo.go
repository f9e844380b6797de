package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

var (
	_ output.ParticipantRepository = (*ParticipantRepository)(nil)
	_ output.LedgerTx              = (*ParticipantRepository)(nil)
)

type ParticipantRepository struct {
	store *Store
}

func NewParticipantRepository(store *Store) *ParticipantRepository {
	return &ParticipantRepository{store: store}
}

func (r *ParticipantRepository) FindByEventIDAndUserID(ctx context.Context, eventID uint, userID string) (*entities.Participant, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.participants {
		if p.EventID == eventID && p.UserID == userID {
			return &p, nil
		}
	}
	return nil, domain.ErrParticipantNotFound
}

// FindByEventIDAndStatus lists participants by joined_at, then id.
func (r *ParticipantRepository) FindByEventIDAndStatus(ctx context.Context, eventID uint, status string) ([]entities.Participant, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.Participant
	for _, p := range s.participants {
		if p.EventID == eventID && p.Status == status {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b entities.Participant) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *ParticipantRepository) CountByEventIDAndStatus(ctx context.Context, eventID uint, status string) (int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.participants {
		if p.EventID == eventID && p.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *ParticipantRepository) Create(ctx context.Context, participant *entities.Participant) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[participant.EventID]; !ok {
		return domain.ErrEventNotFound
	}
	for _, p := range s.participants {
		if p.EventID == participant.EventID && p.UserID == participant.UserID {
			return fmt.Errorf("participant %s already in event %d", p.UserID, p.EventID)
		}
	}
	s.nextPartID++
	now := s.now()
	participant.ID = s.nextPartID
	participant.CreatedAt, participant.UpdatedAt = now, now
	if participant.JoinedAt.IsZero() {
		participant.JoinedAt = now
	}
	s.participants[participant.ID] = *participant
	return nil
}

func (r *ParticipantRepository) Update(ctx context.Context, participant *entities.Participant) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.participants[participant.ID]; !ok {
		return domain.ErrParticipantNotFound
	}
	participant.UpdatedAt = s.now()
	s.participants[participant.ID] = *participant
	return nil
}

func (r *ParticipantRepository) Delete(ctx context.Context, participant *entities.Participant) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.participants[participant.ID]; !ok {
		return domain.ErrParticipantNotFound
	}
	delete(s.participants, participant.ID)
	return nil
}

func (r *ParticipantRepository) UpdateEvent(ctx context.Context, event *entities.Event) error {
	return NewEventRepository(r.store).Update(ctx, event)
}

// WithEventLock holds the event's mutex for the whole unit. When fn fails the
// event and its participants are restored to their state before the unit.
func (r *ParticipantRepository) WithEventLock(ctx context.Context, eventID uint, fn func(ctx context.Context, event *entities.Event, tx output.LedgerTx) error) error {
	l := r.store.eventLock(eventID)
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	event, participants, ok := r.snapshot(eventID)
	if !ok {
		return domain.ErrEventNotFound
	}
	working := event
	if err := fn(ctx, &working, r); err != nil {
		r.restore(event, participants)
		return err
	}
	return nil
}

func (r *ParticipantRepository) snapshot(eventID uint) (entities.Event, map[uint]entities.Participant, bool) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[eventID]
	if !ok {
		return entities.Event{}, nil, false
	}
	participants := make(map[uint]entities.Participant)
	for id, p := range s.participants {
		if p.EventID == eventID {
			participants[id] = p
		}
	}
	return event, participants, true
}

// restore puts back the snapshot of a failed unit. An event deleted in the
// meantime stays deleted.
func (r *ParticipantRepository) restore(event entities.Event, participants map[uint]entities.Participant) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[event.ID]; !ok {
		return
	}
	s.events[event.ID] = event
	for id, p := range s.participants {
		if p.EventID == event.ID {
			delete(s.participants, id)
		}
	}
	for id, p := range participants {
		s.participants[id] = p
	}
}
