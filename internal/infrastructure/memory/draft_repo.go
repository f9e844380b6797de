package memory

import (
	"context"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

var _ output.DraftRepository = (*DraftRepository)(nil)

type DraftRepository struct {
	store *Store
}

func NewDraftRepository(store *Store) *DraftRepository {
	return &DraftRepository{store: store}
}

func (r *DraftRepository) GetCreation(ctx context.Context, userID string) (*entities.CreationDraft, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.creation[userID]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	return &d, nil
}

func (r *DraftRepository) SaveCreation(ctx context.Context, draft *entities.CreationDraft) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creation[draft.UserID] = *draft
	return nil
}

func (r *DraftRepository) DeleteCreation(ctx context.Context, userID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creation, userID)
	return nil
}

func (r *DraftRepository) CommitCreation(ctx context.Context, userID string, event *entities.Event) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertEvent(event)
	delete(s.creation, userID)
	return nil
}

func (r *DraftRepository) GetEdit(ctx context.Context, userID string) (*entities.EditDraft, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.edit[userID]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	return &d, nil
}

func (r *DraftRepository) SaveEdit(ctx context.Context, draft *entities.EditDraft) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[draft.EventID]; !ok {
		return domain.ErrEventNotFound
	}
	s.edit[draft.UserID] = *draft
	return nil
}

func (r *DraftRepository) DeleteEdit(ctx context.Context, userID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.edit, userID)
	return nil
}
