// Package memory is an in-process store for tests and single-instance runs.
package memory

import (
	"sync"
	"time"

	"eventbot/internal/domain/entities"
)

// Store holds the shared state behind the memory repositories.
type Store struct {
	mu           sync.RWMutex
	nextEventID  uint
	nextPartID   uint
	events       map[uint]entities.Event
	participants map[uint]entities.Participant
	creation     map[string]entities.CreationDraft
	edit         map[string]entities.EditDraft

	locksMu sync.Mutex
	locks   map[uint]*sync.Mutex

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		events:       make(map[uint]entities.Event),
		participants: make(map[uint]entities.Participant),
		creation:     make(map[string]entities.CreationDraft),
		edit:         make(map[string]entities.EditDraft),
		locks:        make(map[uint]*sync.Mutex),
		now:          time.Now,
	}
}

// eventLock returns the mutex serializing ledger units of one event.
func (s *Store) eventLock(eventID uint) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[eventID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[eventID] = l
	}
	return l
}

func (s *Store) dropEventLock(eventID uint) {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	delete(s.locks, eventID)
}

// insertEvent assigns the next id and stores event. Callers hold s.mu.
func (s *Store) insertEvent(event *entities.Event) {
	s.nextEventID++
	event.ID = s.nextEventID
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now()
	}
	if event.UpdatedAt.IsZero() {
		event.UpdatedAt = event.CreatedAt
	}
	s.events[event.ID] = *event
}
