package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

var _ output.DraftRepository = (*DraftRepository)(nil)

// pgForeignKeyViolation is the SQLSTATE of a dangling event_id.
const pgForeignKeyViolation = "23503"

type DraftRepository struct {
	db TxBeginner
	q  *Queries
}

func NewDraftRepository(db TxBeginner, q *Queries) *DraftRepository {
	return &DraftRepository{db: db, q: q}
}

func (r *DraftRepository) GetCreation(ctx context.Context, userID string) (*entities.CreationDraft, error) {
	row, err := r.q.GetCreationDraft(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get creation draft: %w", err)
	}
	d := creationDraftToDomain(row)
	return &d, nil
}

func (r *DraftRepository) SaveCreation(ctx context.Context, draft *entities.CreationDraft) error {
	if err := r.q.UpsertCreationDraft(ctx, creationDraftToRow(draft)); err != nil {
		return fmt.Errorf("upsert creation draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) DeleteCreation(ctx context.Context, userID string) error {
	if err := r.q.DeleteCreationDraft(ctx, userID); err != nil {
		return fmt.Errorf("delete creation draft: %w", err)
	}
	return nil
}

// CommitCreation inserts the event and deletes the draft in one transaction.
func (r *DraftRepository) CommitCreation(ctx context.Context, userID string, event *entities.Event) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		q := r.q.WithTx(tx)
		if err := NewEventRepository(q).Create(ctx, event); err != nil {
			return err
		}
		if err := q.DeleteCreationDraft(ctx, userID); err != nil {
			return fmt.Errorf("delete creation draft: %w", err)
		}
		return nil
	})
}

func (r *DraftRepository) GetEdit(ctx context.Context, userID string) (*entities.EditDraft, error) {
	row, err := r.q.GetEditDraft(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get edit draft: %w", err)
	}
	d := editDraftToDomain(row)
	return &d, nil
}

func (r *DraftRepository) SaveEdit(ctx context.Context, draft *entities.EditDraft) error {
	err := r.q.UpsertEditDraft(ctx, editDraftToRow(draft))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return domain.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("upsert edit draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) DeleteEdit(ctx context.Context, userID string) error {
	if err := r.q.DeleteEditDraft(ctx, userID); err != nil {
		return fmt.Errorf("delete edit draft: %w", err)
	}
	return nil
}
