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

var (
	_ output.ParticipantRepository = (*ParticipantRepository)(nil)
	_ output.LedgerTx              = (*ParticipantRepository)(nil)
)

// TxBeginner opens transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ParticipantRepository implements output.ParticipantRepository on pgx.
type ParticipantRepository struct {
	db TxBeginner
	q  *Queries
}

func NewParticipantRepository(db TxBeginner, q *Queries) *ParticipantRepository {
	return &ParticipantRepository{db: db, q: q}
}

// WithEventLock runs fn in one transaction holding the event row lock, so
// concurrent units on the same event queue behind each other.
func (r *ParticipantRepository) WithEventLock(ctx context.Context, eventID uint, fn func(ctx context.Context, event *entities.Event, tx output.LedgerTx) error) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		q := r.q.WithTx(tx)
		row, err := q.GetEventForUpdate(ctx, int64(eventID))
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEventNotFound
		}
		if err != nil {
			return fmt.Errorf("lock event: %w", err)
		}
		event := eventToDomain(row)
		return fn(ctx, &event, &ParticipantRepository{q: q})
	})
}

func (r *ParticipantRepository) UpdateEvent(ctx context.Context, event *entities.Event) error {
	return NewEventRepository(r.q).Update(ctx, event)
}

func (r *ParticipantRepository) Create(ctx context.Context, participant *entities.Participant) error {
	row, err := r.q.CreateParticipant(ctx, participantRow{
		EventID:  int64(participant.EventID),
		UserID:   participant.UserID,
		Status:   participant.Status,
		JoinedAt: timestamptz(participant.JoinedAt),
	})
	if err != nil {
		return fmt.Errorf("create participant: %w", err)
	}
	participant.ID = uint(row.ID)
	participant.JoinedAt = pgtypeTimestamptzToTime(row.JoinedAt)
	participant.CreatedAt = pgtypeTimestamptzToTime(row.CreatedAt)
	participant.UpdatedAt = pgtypeTimestamptzToTime(row.UpdatedAt)
	return nil
}

func (r *ParticipantRepository) FindByEventIDAndUserID(ctx context.Context, eventID uint, userID string) (*entities.Participant, error) {
	row, err := r.q.GetParticipantByEventIDAndUserID(ctx, int64(eventID), userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get participant by event id and user id: %w", err)
	}
	p := participantToDomain(row)
	return &p, nil
}

func (r *ParticipantRepository) FindByEventIDAndStatus(ctx context.Context, eventID uint, status string) ([]entities.Participant, error) {
	rows, err := r.q.GetParticipantsByEventIDAndStatus(ctx, int64(eventID), status)
	if err != nil {
		return nil, fmt.Errorf("get participants by event id and status: %w", err)
	}
	out := make([]entities.Participant, len(rows))
	for i := range rows {
		out[i] = participantToDomain(rows[i])
	}
	return out, nil
}

func (r *ParticipantRepository) CountByEventIDAndStatus(ctx context.Context, eventID uint, status string) (int, error) {
	count, err := r.q.CountParticipantsByEventIDAndStatus(ctx, int64(eventID), status)
	if err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return int(count), nil
}

func (r *ParticipantRepository) Update(ctx context.Context, participant *entities.Participant) error {
	n, err := r.q.UpdateParticipant(ctx, int64(participant.ID), participant.Status)
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	if n == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (r *ParticipantRepository) Delete(ctx context.Context, participant *entities.Participant) error {
	n, err := r.q.DeleteParticipant(ctx, int64(participant.ID))
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	if n == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}
