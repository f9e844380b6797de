package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/input"
	"eventbot/internal/ports/output"
)

var _ input.ParticipantUseCase = (*ParticipantService)(nil)

// ParticipantService is the attendance ledger. Every read-modify-write runs
// inside participants.WithEventLock.
type ParticipantService struct {
	participantRepo output.ParticipantRepository
	eventRepo       output.EventRepository
	metrics         output.Metrics
	logger          *zap.Logger
	now             func() time.Time
}

func NewParticipantService(
	participantRepo output.ParticipantRepository,
	eventRepo output.EventRepository,
	metrics output.Metrics,
	logger *zap.Logger,
) *ParticipantService {
	return &ParticipantService{
		participantRepo: participantRepo,
		eventRepo:       eventRepo,
		metrics:         metrics,
		logger:          logger,
		now:             time.Now,
	}
}

// Join admits the user, or waitlists them when every seat is taken. Joining
// twice is not an error: it reports JoinAlreadyJoined with the current state.
func (s *ParticipantService) Join(ctx context.Context, scopeID string, eventID uint, userID string) (*entities.JoinResult, error) {
	if _, err := s.eventRepo.FindByID(ctx, scopeID, eventID); err != nil {
		return nil, err
	}
	var res entities.JoinResult
	err := s.participantRepo.WithEventLock(ctx, eventID, func(ctx context.Context, event *entities.Event, tx output.LedgerTx) error {
		confirmed, err := tx.CountByEventIDAndStatus(ctx, eventID, domain.StatusConfirmed)
		if err != nil {
			return fmt.Errorf("count confirmed: %w", err)
		}
		res = entities.JoinResult{Confirmed: confirmed, Capacity: event.Capacity}

		existing, err := tx.FindByEventIDAndUserID(ctx, eventID, userID)
		if err == nil {
			res.Status = entities.JoinAlreadyJoined
			res.Participant = *existing
			return nil
		}
		if !errors.Is(err, domain.ErrParticipantNotFound) {
			return fmt.Errorf("find participant: %w", err)
		}

		participant := &entities.Participant{
			EventID:  eventID,
			UserID:   userID,
			Status:   domain.StatusConfirmed,
			JoinedAt: s.now(),
		}
		res.Status = entities.JoinAdmitted
		if event.IsFull(confirmed) {
			participant.Status = domain.StatusWaitlist
			res.Status = entities.JoinWaitlisted
		}
		if err := tx.Create(ctx, participant); err != nil {
			return fmt.Errorf("create participant: %w", err)
		}
		if participant.Status == domain.StatusConfirmed {
			res.Confirmed++
		}
		res.Participant = *participant
		return nil
	})
	if err != nil {
		s.metrics.Attendance("join", "error")
		return nil, err
	}
	s.metrics.Attendance("join", string(res.Status))
	return &res, nil
}

// Cancel removes the user's participation and promotes the oldest waiter into
// any seat that frees up.
func (s *ParticipantService) Cancel(ctx context.Context, scopeID string, eventID uint, userID string) (*entities.LeaveResult, error) {
	if _, err := s.eventRepo.FindByID(ctx, scopeID, eventID); err != nil {
		return nil, err
	}
	var res entities.LeaveResult
	err := s.participantRepo.WithEventLock(ctx, eventID, func(ctx context.Context, event *entities.Event, tx output.LedgerTx) error {
		participant, err := tx.FindByEventIDAndUserID(ctx, eventID, userID)
		if errors.Is(err, domain.ErrParticipantNotFound) {
			res.Status = entities.LeaveNotJoined
			return nil
		}
		if err != nil {
			return fmt.Errorf("find participant: %w", err)
		}
		if err := tx.Delete(ctx, participant); err != nil {
			return fmt.Errorf("delete participant: %w", err)
		}
		res.Status = entities.LeaveCancelled

		promoted, err := fillSeats(ctx, event, tx)
		if err != nil {
			return err
		}
		if len(promoted) > 0 {
			res.Promoted = &promoted[0]
		}
		return nil
	})
	if err != nil {
		s.metrics.Attendance("cancel", "error")
		return nil, err
	}
	s.metrics.Attendance("cancel", string(res.Status))
	if res.Promoted != nil {
		s.metrics.Promotion()
		s.logger.Info("waitlist promotion",
			zap.Uint("event_id", eventID),
			zap.String("promoted_user", res.Promoted.UserID))
	}
	return &res, nil
}

// Roster lists the participants of an event. Only its creator may see it.
func (s *ParticipantService) Roster(ctx context.Context, scopeID string, eventID uint, userID string) (*entities.Roster, error) {
	event, err := s.eventRepo.FindByID(ctx, scopeID, eventID)
	if err != nil {
		return nil, err
	}
	if event.CreatorID != userID {
		return nil, domain.ErrNotOrganizer
	}
	confirmed, err := s.participantRepo.FindByEventIDAndStatus(ctx, eventID, domain.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("find confirmed: %w", err)
	}
	waiting, err := s.participantRepo.FindByEventIDAndStatus(ctx, eventID, domain.StatusWaitlist)
	if err != nil {
		return nil, fmt.Errorf("find waitlist: %w", err)
	}
	return &entities.Roster{Event: *event, Confirmed: confirmed, Waiting: waiting}, nil
}

// ApplyEdit mutates the live event under its lock and persists it. A finite
// capacity below the confirmed count is refused; a larger one promotes waiters.
func (s *ParticipantService) ApplyEdit(ctx context.Context, eventID uint, apply func(event *entities.Event) error) (*entities.Event, []entities.Participant, error) {
	var (
		saved    entities.Event
		promoted []entities.Participant
	)
	err := s.participantRepo.WithEventLock(ctx, eventID, func(ctx context.Context, event *entities.Event, tx output.LedgerTx) error {
		if err := apply(event); err != nil {
			return err
		}
		confirmed, err := tx.CountByEventIDAndStatus(ctx, eventID, domain.StatusConfirmed)
		if err != nil {
			return fmt.Errorf("count confirmed: %w", err)
		}
		if !event.Unlimited() && confirmed > event.Capacity {
			return domain.ErrCannotReduceCapacity
		}
		event.UpdatedAt = s.now()
		if err := tx.UpdateEvent(ctx, event); err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		promoted, err = fillSeats(ctx, event, tx)
		if err != nil {
			return err
		}
		saved = *event
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	for range promoted {
		s.metrics.Promotion()
	}
	return &saved, promoted, nil
}

// fillSeats promotes waiters, oldest first, while seats are free.
func fillSeats(ctx context.Context, event *entities.Event, tx output.LedgerTx) ([]entities.Participant, error) {
	waiting, err := tx.FindByEventIDAndStatus(ctx, event.ID, domain.StatusWaitlist)
	if err != nil {
		return nil, fmt.Errorf("find waitlist: %w", err)
	}
	if len(waiting) == 0 {
		return nil, nil
	}
	confirmed, err := tx.CountByEventIDAndStatus(ctx, event.ID, domain.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("count confirmed: %w", err)
	}
	free := event.FreeSeats(confirmed)
	if free < 0 || free > len(waiting) {
		free = len(waiting)
	}
	promoted := make([]entities.Participant, 0, free)
	for _, p := range waiting[:free] {
		p.Status = domain.StatusConfirmed
		if err := tx.Update(ctx, &p); err != nil {
			return nil, fmt.Errorf("promote participant: %w", err)
		}
		promoted = append(promoted, p)
	}
	return promoted, nil
}
