package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"eventbot/internal/domain/entities"
	"eventbot/pkg/temporal"
)

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

// timestamptz maps the zero time to NULL.
func timestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func momentToColumns(m temporal.Moment) (pgtype.Timestamptz, bool) {
	return timestamptz(m.Time()), m.HasClock()
}

func columnsToMoment(at pgtype.Timestamptz, hasClock bool) temporal.Moment {
	return temporal.Restore(pgtypeTimestamptzToTime(at), hasClock)
}

func eventToRow(e *entities.Event) eventRow {
	row := eventRow{
		ID:        int64(e.ID),
		ScopeID:   e.ScopeID,
		CreatorID: e.CreatorID,
		Name:      e.Name,
		Capacity:  int32(e.Capacity),
	}
	row.StartAt, row.StartHasClock = momentToColumns(e.Start)
	row.EndAt, row.EndHasClock = momentToColumns(e.End)
	return row
}

func eventToDomain(e eventRow) entities.Event {
	return entities.Event{
		ID:        uint(e.ID),
		ScopeID:   e.ScopeID,
		CreatorID: e.CreatorID,
		Name:      e.Name,
		Start:     columnsToMoment(e.StartAt, e.StartHasClock),
		End:       columnsToMoment(e.EndAt, e.EndHasClock),
		Capacity:  int(e.Capacity),
		CreatedAt: pgtypeTimestamptzToTime(e.CreatedAt),
		UpdatedAt: pgtypeTimestamptzToTime(e.UpdatedAt),
	}
}

func eventsToDomain(rows []eventRow) []entities.Event {
	out := make([]entities.Event, len(rows))
	for i := range rows {
		out[i] = eventToDomain(rows[i])
	}
	return out
}

func participantToDomain(p participantRow) entities.Participant {
	return entities.Participant{
		ID:        uint(p.ID),
		EventID:   uint(p.EventID),
		UserID:    p.UserID,
		Status:    p.Status,
		JoinedAt:  pgtypeTimestamptzToTime(p.JoinedAt),
		CreatedAt: pgtypeTimestamptzToTime(p.CreatedAt),
		UpdatedAt: pgtypeTimestamptzToTime(p.UpdatedAt),
	}
}

func creationDraftToRow(d *entities.CreationDraft) draftRow {
	row := draftRow{
		UserID:    d.UserID,
		ScopeID:   d.ScopeID,
		Step:      string(d.Step),
		Name:      d.Name,
		Capacity:  int32(d.Capacity),
		UpdatedAt: timestamptz(d.UpdatedAt),
	}
	row.StartAt, row.StartHasClock = momentToColumns(d.Start)
	row.EndAt, row.EndHasClock = momentToColumns(d.End)
	return row
}

func creationDraftToDomain(d draftRow) entities.CreationDraft {
	return entities.CreationDraft{
		UserID:    d.UserID,
		ScopeID:   d.ScopeID,
		Step:      entities.Step(d.Step),
		Name:      d.Name,
		Start:     columnsToMoment(d.StartAt, d.StartHasClock),
		End:       columnsToMoment(d.EndAt, d.EndHasClock),
		Capacity:  int(d.Capacity),
		UpdatedAt: pgtypeTimestamptzToTime(d.UpdatedAt),
	}
}

func editDraftToRow(d *entities.EditDraft) draftRow {
	row := draftRow{
		UserID:    d.UserID,
		ScopeID:   d.ScopeID,
		EventID:   int64(d.EventID),
		Step:      string(d.Step),
		Name:      d.Name,
		Capacity:  int32(d.Capacity),
		Touched:   int16(d.Touched),
		UpdatedAt: timestamptz(d.UpdatedAt),
	}
	row.StartAt, row.StartHasClock = momentToColumns(d.Start)
	row.EndAt, row.EndHasClock = momentToColumns(d.End)
	return row
}

func editDraftToDomain(d draftRow) entities.EditDraft {
	return entities.EditDraft{
		UserID:    d.UserID,
		ScopeID:   d.ScopeID,
		EventID:   uint(d.EventID),
		Step:      entities.Step(d.Step),
		Name:      d.Name,
		Start:     columnsToMoment(d.StartAt, d.StartHasClock),
		End:       columnsToMoment(d.EndAt, d.EndHasClock),
		Capacity:  int(d.Capacity),
		Touched:   entities.EditField(d.Touched),
		UpdatedAt: pgtypeTimestamptzToTime(d.UpdatedAt),
	}
}
