package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries runs the statements of every repository against a DBTX.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to tx.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

type eventRow struct {
	ID            int64
	ScopeID       string
	CreatorID     string
	Name          string
	StartAt       pgtype.Timestamptz
	StartHasClock bool
	EndAt         pgtype.Timestamptz
	EndHasClock   bool
	Capacity      int32
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

const eventColumns = `id, scope_id, creator_id, name, start_at, start_has_clock,
	end_at, end_has_clock, capacity, created_at, updated_at`

func scanEvent(row pgx.Row) (eventRow, error) {
	var e eventRow
	err := row.Scan(&e.ID, &e.ScopeID, &e.CreatorID, &e.Name, &e.StartAt, &e.StartHasClock,
		&e.EndAt, &e.EndHasClock, &e.Capacity, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func scanEvents(rows pgx.Rows) ([]eventRow, error) {
	defer rows.Close()
	var out []eventRow
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

const createEvent = `INSERT INTO events (scope_id, creator_id, name, start_at, start_has_clock, end_at, end_has_clock, capacity)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + eventColumns

func (q *Queries) CreateEvent(ctx context.Context, e eventRow) (eventRow, error) {
	return scanEvent(q.db.QueryRow(ctx, createEvent,
		e.ScopeID, e.CreatorID, e.Name, e.StartAt, e.StartHasClock, e.EndAt, e.EndHasClock, e.Capacity))
}

const getEventByScopeAndID = `SELECT ` + eventColumns + ` FROM events WHERE scope_id = $1 AND id = $2`

func (q *Queries) GetEventByScopeAndID(ctx context.Context, scopeID string, id int64) (eventRow, error) {
	return scanEvent(q.db.QueryRow(ctx, getEventByScopeAndID, scopeID, id))
}

const getEventForUpdate = `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`

// GetEventForUpdate row-locks the event until the surrounding transaction ends.
func (q *Queries) GetEventForUpdate(ctx context.Context, id int64) (eventRow, error) {
	return scanEvent(q.db.QueryRow(ctx, getEventForUpdate, id))
}

const listEventsByScope = `SELECT ` + eventColumns + ` FROM events
WHERE scope_id = $1 ORDER BY id DESC LIMIT $2`

func (q *Queries) ListEventsByScope(ctx context.Context, scopeID string, limit int32) ([]eventRow, error) {
	rows, err := q.db.Query(ctx, listEventsByScope, scopeID, limit)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

const listEventsByCreator = `SELECT ` + eventColumns + ` FROM events
WHERE scope_id = $1 AND creator_id = $2 ORDER BY id DESC LIMIT $3`

func (q *Queries) ListEventsByCreator(ctx context.Context, scopeID, creatorID string, limit int32) ([]eventRow, error) {
	rows, err := q.db.Query(ctx, listEventsByCreator, scopeID, creatorID, limit)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

const updateEvent = `UPDATE events
SET name = $2, start_at = $3, start_has_clock = $4, end_at = $5, end_has_clock = $6,
    capacity = $7, updated_at = NOW()
WHERE id = $1`

func (q *Queries) UpdateEvent(ctx context.Context, e eventRow) (int64, error) {
	tag, err := q.db.Exec(ctx, updateEvent,
		e.ID, e.Name, e.StartAt, e.StartHasClock, e.EndAt, e.EndHasClock, e.Capacity)
	return tag.RowsAffected(), err
}

const deleteEvent = `DELETE FROM events WHERE id = $1`

func (q *Queries) DeleteEvent(ctx context.Context, id int64) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteEvent, id)
	return tag.RowsAffected(), err
}

type participantRow struct {
	ID        int64
	EventID   int64
	UserID    string
	Status    string
	JoinedAt  pgtype.Timestamptz
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

const participantColumns = `id, event_id, user_id, status, joined_at, created_at, updated_at`

func scanParticipant(row pgx.Row) (participantRow, error) {
	var p participantRow
	err := row.Scan(&p.ID, &p.EventID, &p.UserID, &p.Status, &p.JoinedAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const createParticipant = `INSERT INTO participants (event_id, user_id, status, joined_at)
VALUES ($1, $2, $3, COALESCE($4, NOW()))
RETURNING ` + participantColumns

func (q *Queries) CreateParticipant(ctx context.Context, p participantRow) (participantRow, error) {
	return scanParticipant(q.db.QueryRow(ctx, createParticipant, p.EventID, p.UserID, p.Status, p.JoinedAt))
}

const getParticipantByEventIDAndUserID = `SELECT ` + participantColumns + ` FROM participants
WHERE event_id = $1 AND user_id = $2`

func (q *Queries) GetParticipantByEventIDAndUserID(ctx context.Context, eventID int64, userID string) (participantRow, error) {
	return scanParticipant(q.db.QueryRow(ctx, getParticipantByEventIDAndUserID, eventID, userID))
}

const getParticipantsByEventIDAndStatus = `SELECT ` + participantColumns + ` FROM participants
WHERE event_id = $1 AND status = $2 ORDER BY joined_at, id`

func (q *Queries) GetParticipantsByEventIDAndStatus(ctx context.Context, eventID int64, status string) ([]participantRow, error) {
	rows, err := q.db.Query(ctx, getParticipantsByEventIDAndStatus, eventID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []participantRow
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const countParticipantsByEventIDAndStatus = `SELECT COUNT(*) FROM participants WHERE event_id = $1 AND status = $2`

func (q *Queries) CountParticipantsByEventIDAndStatus(ctx context.Context, eventID int64, status string) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countParticipantsByEventIDAndStatus, eventID, status).Scan(&n)
	return n, err
}

const updateParticipant = `UPDATE participants SET status = $2, updated_at = NOW() WHERE id = $1`

func (q *Queries) UpdateParticipant(ctx context.Context, id int64, status string) (int64, error) {
	tag, err := q.db.Exec(ctx, updateParticipant, id, status)
	return tag.RowsAffected(), err
}

const deleteParticipant = `DELETE FROM participants WHERE id = $1`

func (q *Queries) DeleteParticipant(ctx context.Context, id int64) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteParticipant, id)
	return tag.RowsAffected(), err
}

type draftRow struct {
	UserID        string
	ScopeID       string
	EventID       int64
	Step          string
	Name          string
	StartAt       pgtype.Timestamptz
	StartHasClock bool
	EndAt         pgtype.Timestamptz
	EndHasClock   bool
	Capacity      int32
	Touched       int16
	UpdatedAt     pgtype.Timestamptz
}

const getCreationDraft = `SELECT user_id, scope_id, step, name, start_at, start_has_clock,
	end_at, end_has_clock, capacity, updated_at
FROM creation_drafts WHERE user_id = $1`

func (q *Queries) GetCreationDraft(ctx context.Context, userID string) (draftRow, error) {
	var d draftRow
	err := q.db.QueryRow(ctx, getCreationDraft, userID).Scan(&d.UserID, &d.ScopeID, &d.Step, &d.Name,
		&d.StartAt, &d.StartHasClock, &d.EndAt, &d.EndHasClock, &d.Capacity, &d.UpdatedAt)
	return d, err
}

const upsertCreationDraft = `INSERT INTO creation_drafts
	(user_id, scope_id, step, name, start_at, start_has_clock, end_at, end_has_clock, capacity, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (user_id) DO UPDATE SET
	scope_id = EXCLUDED.scope_id, step = EXCLUDED.step, name = EXCLUDED.name,
	start_at = EXCLUDED.start_at, start_has_clock = EXCLUDED.start_has_clock,
	end_at = EXCLUDED.end_at, end_has_clock = EXCLUDED.end_has_clock,
	capacity = EXCLUDED.capacity, updated_at = EXCLUDED.updated_at`

func (q *Queries) UpsertCreationDraft(ctx context.Context, d draftRow) error {
	_, err := q.db.Exec(ctx, upsertCreationDraft, d.UserID, d.ScopeID, d.Step, d.Name,
		d.StartAt, d.StartHasClock, d.EndAt, d.EndHasClock, d.Capacity, d.UpdatedAt)
	return err
}

const deleteCreationDraft = `DELETE FROM creation_drafts WHERE user_id = $1`

func (q *Queries) DeleteCreationDraft(ctx context.Context, userID string) error {
	_, err := q.db.Exec(ctx, deleteCreationDraft, userID)
	return err
}

const getEditDraft = `SELECT user_id, scope_id, event_id, step, name, start_at, start_has_clock,
	end_at, end_has_clock, capacity, touched, updated_at
FROM edit_drafts WHERE user_id = $1`

func (q *Queries) GetEditDraft(ctx context.Context, userID string) (draftRow, error) {
	var d draftRow
	err := q.db.QueryRow(ctx, getEditDraft, userID).Scan(&d.UserID, &d.ScopeID, &d.EventID, &d.Step, &d.Name,
		&d.StartAt, &d.StartHasClock, &d.EndAt, &d.EndHasClock, &d.Capacity, &d.Touched, &d.UpdatedAt)
	return d, err
}

const upsertEditDraft = `INSERT INTO edit_drafts
	(user_id, scope_id, event_id, step, name, start_at, start_has_clock, end_at, end_has_clock,
	 capacity, touched, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (user_id) DO UPDATE SET
	scope_id = EXCLUDED.scope_id, event_id = EXCLUDED.event_id, step = EXCLUDED.step,
	name = EXCLUDED.name, start_at = EXCLUDED.start_at, start_has_clock = EXCLUDED.start_has_clock,
	end_at = EXCLUDED.end_at, end_has_clock = EXCLUDED.end_has_clock,
	capacity = EXCLUDED.capacity, touched = EXCLUDED.touched, updated_at = EXCLUDED.updated_at`

func (q *Queries) UpsertEditDraft(ctx context.Context, d draftRow) error {
	_, err := q.db.Exec(ctx, upsertEditDraft, d.UserID, d.ScopeID, d.EventID, d.Step, d.Name,
		d.StartAt, d.StartHasClock, d.EndAt, d.EndHasClock, d.Capacity, d.Touched, d.UpdatedAt)
	return err
}

const deleteEditDraft = `DELETE FROM edit_drafts WHERE user_id = $1`

func (q *Queries) DeleteEditDraft(ctx context.Context, userID string) error {
	_, err := q.db.Exec(ctx, deleteEditDraft, userID)
	return err
}
