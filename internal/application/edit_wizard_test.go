package application

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/input"
)

func idOf(e *entities.Event) string {
	return strconv.FormatUint(uint64(e.ID), 10)
}

func (h *harness) reload(t *testing.T, e *entities.Event) *entities.Event {
	t.Helper()
	got, err := h.events.FindByID(context.Background(), testScope, e.ID)
	require.NoError(t, err)
	return got
}

func TestEdit_NonDestructiveSave(t *testing.T) {
	h := newHarness(t)
	e := h.seedEvent(t, "alice", 5)

	p := h.choose(t, "alice", input.ChoiceEdit, idOf(e))
	require.Equal(t, input.PromptEditMenu, p.Name)
	assert.Equal(t, input.Nav{Home: true, Exit: true}, p.Nav)
	assert.Equal(t, 5, p.Event.Capacity)

	p = h.choose(t, "alice", input.ChoiceEditTitle, "")
	assert.Equal(t, input.PromptAskTitle, p.Name)
	assert.Equal(t, input.Nav{Back: true, Home: true, Exit: true}, p.Nav)

	p = h.text(t, "alice", "Renamed")
	assert.Equal(t, input.PromptEditMenu, p.Name)
	assert.Equal(t, "Renamed", p.Event.Name)

	unchanged := h.reload(t, e)
	assert.Equal(t, "Offsite", unchanged.Name)

	p = h.choose(t, "alice", input.ChoiceEditSave, "")
	require.Equal(t, input.PromptEditSaved, p.Name)

	got := h.reload(t, e)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, 5, got.Capacity)
	assertMomentEqual(t, e.Start, got.Start, "start")
	assertMomentEqual(t, e.End, got.End, "end")

	_, err := h.drafts.GetEdit(context.Background(), "alice")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestEdit_SaveOnlyCopiesTouchedFields(t *testing.T) {
	h := newHarness(t)
	e := h.seedEvent(t, "alice", 5)
	h.choose(t, "alice", input.ChoiceEdit, idOf(e))
	h.choose(t, "alice", input.ChoiceEditTitle, "")
	h.text(t, "alice", "Renamed")

	// A concurrent change to an untouched field survives the save.
	live := h.reload(t, e)
	live.Capacity = 8
	require.NoError(t, h.events.Update(context.Background(), live))

	h.choose(t, "alice", input.ChoiceEditSave, "")
	got := h.reload(t, e)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, 8, got.Capacity)
}

func TestEdit_CancelLeavesEventUntouched(t *testing.T) {
	h := newHarness(t)
	e := h.seedEvent(t, "alice", 5)
	h.choose(t, "alice", input.ChoiceEdit, idOf(e))
	h.choose(t, "alice", input.ChoiceEditCapacity, "")
	h.text(t, "alice", "9")

	p := h.choose(t, "alice", input.ChoiceEditCancel, "")
	assert.Equal(t, input.PromptEditCanceled, p.Name)
	assert.Equal(t, 5, h.reload(t, e).Capacity)

	_, err := h.drafts.GetEdit(context.Background(), "alice")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestEdit_ExitCancels(t *testing.T) {
	h := newHarness(t)
	e := h.seedEvent(t, "alice", 5)
	h.choose(t, "alice", input.ChoiceEdit, idOf(e))
	h.choose(t, "alice", input.ChoiceEditTitle, "")

	p := h.choose(t, "alice", input.ChoiceExit, "")
	assert.Equal(t, input.PromptEditCanceled, p.Name)
}

func TestEdit_BackReturnsToMenu(t *testing.T) {
	h := newHarness(t)
	e := h.seedEvent(t, "alice", 5)
	h.choose(t, "alice", input.ChoiceEdit, idOf(e))
	h.choose(t, "alice", input.ChoiceEditEnd, "")
	h.choose(t, "alice", input.ChoiceEndByTime, "")

	p := h.choose(t, "alice", input.ChoiceBack, "")
	assert.Equal(t, input.PromptEditMenu, p.Name)

	d, err := h.drafts.GetEdit(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, entities.StepMenu, d.Step)
	assert.Zero(t, d.Touched)
}

func TestEdit_TextAtMenuRepromptsMenu(t *testing.T) {
	h := newHarness(t)
	e := h.seedEvent(t, "alice", 5)
	h.choose(t, "alice", input.ChoiceEdit, idOf(e))

	p := h.text(t, "alice", "what now")
	assert.Equal(t, input.PromptEditMenu, p.Name)
}

func TestEdit_StartDateDropsClock(t *testing.T) {
	h := newHarness(t)
	e := h.seedEvent(t, "alice", 0)
	h.choose(t, "alice", input.ChoiceEdit, idOf(e))

	h.choose(t, "alice", input.ChoiceEditStartDate, "")
	p := h.choose(t, "alice", input.ChoicePickDate, "2025-08-30")
	require.Equal(t, input.PromptEditMenu, p.Name)
	assert.False(t, p.Event.Start.HasClock())

	h.choose(t, "alice", input.ChoiceEditStartTime, "")
	p = h.text(t, "alice", "09:15")
	assertMomentEqual(t, h.at(t, "2025-08-30", "09:15"), p.Event.Start, "start")

	h.choose(t, "alice", input.ChoiceEditSave, "")
	got := h.reload(t, e)
	assertMomentEqual(t, h.at(t, "2025-08-30", "09:15"), got.Start, "start")
	assertMomentEqual(t, e.End, got.End, "end")
}

func TestEdit_EndTimeMustFollowStart(t *testing.T) {
	h := newHarness(t)
	e := h.seedEvent(t, "alice", 0)
	h.choose(t, "alice", input.ChoiceEdit, idOf(e))
	h.choose(t, "alice", input.ChoiceEditEnd, "")
	h.choose(t, "alice", input.ChoiceEndByTime, "")

	p := h.text(t, "alice", "09:00")
	assert.Equal(t, input.PromptAskEndTime, p.Name)
	assert.Equal(t, "invalid_end_time", p.Notice)

	p = h.text(t, "alice", "11:00")
	assert.Equal(t, input.PromptEditMenu, p.Name)
	assertMomentEqual(t, h.at(t, "2025-09-01", "11:00"), p.Event.End, "end")
}

func TestEdit_SaveRejectsEndBeforeMovedStart(t *testing.T) {
	h := newHarness(t)
	e := h.seedEvent(t, "alice", 0)
	h.choose(t, "alice", input.ChoiceEdit, idOf(e))
	h.choose(t, "alice", input.ChoiceEditStartTime, "")
	h.text(t, "alice", "13:00")

	p := h.choose(t, "alice", input.ChoiceEditSave, "")
	assert.Equal(t, input.PromptEditMenu, p.Name)
	assert.Equal(t, "invalid_end_time", p.Notice)
	assertMomentEqual(t, e.Start, h.reload(t, e).Start, "start")
}

func TestEdit_DurationAndNoEnd(t *testing.T) {
	h := newHarness(t)
	e := h.seedEvent(t, "alice", 0)
	h.choose(t, "alice", input.ChoiceEdit, idOf(e))

	h.choose(t, "alice", input.ChoiceEditEnd, "")
	h.choose(t, "alice", input.ChoiceEndByDuration, "")
	p := h.choose(t, "alice", input.ChoiceDuration, "30m")
	assert.Equal(t, input.PromptEditMenu, p.Name)
	assert.Equal(t, 30*time.Minute, p.Event.End.Sub(p.Event.Start))
	assert.False(t, p.Event.End.HasClock())

	h.choose(t, "alice", input.ChoiceEditEnd, "")
	p = h.choose(t, "alice", input.ChoiceNoEnd, "")
	assert.False(t, p.Event.HasEnd())

	h.choose(t, "alice", input.ChoiceEditSave, "")
	assert.False(t, h.reload(t, e).HasEnd())
}

func TestEdit_RejectsOutOfRangeCapacity(t *testing.T) {
	h := newHarness(t)
	e := h.seedEvent(t, "alice", 5)
	h.choose(t, "alice", input.ChoiceEdit, idOf(e))
	h.choose(t, "alice", input.ChoiceEditCapacity, "")

	for _, text := range []string{"0", "2147483648", "3000000000", "4294967297"} {
		p := h.text(t, "alice", text)
		assert.Equal(t, input.PromptAskCapacity, p.Name, text)
		assert.Equal(t, "invalid_capacity", p.Notice, text)
	}

	d, err := h.drafts.GetEdit(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 5, d.Capacity)
	assert.False(t, d.Touched.Has(entities.FieldCapacity))
}

func TestEdit_CapacityBelowConfirmedIsRefused(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	e := h.seedEvent(t, "alice", 3)
	for _, user := range []string{"u1", "u2", "u3"} {
		_, err := h.ledger.Join(ctx, testScope, e.ID, user)
		require.NoError(t, err)
	}

	h.choose(t, "alice", input.ChoiceEdit, idOf(e))
	h.choose(t, "alice", input.ChoiceEditCapacity, "")
	h.text(t, "alice", "2")

	p := h.choose(t, "alice", input.ChoiceEditSave, "")
	assert.Equal(t, input.PromptEditMenu, p.Name)
	assert.Equal(t, "cannot_reduce_capacity", p.Notice)
	assert.Equal(t, 3, h.reload(t, e).Capacity)

	_, err := h.drafts.GetEdit(ctx, "alice")
	assert.NoError(t, err, "draft survives a refused save")
}

func TestEdit_RaisingCapacityPromotesWaiters(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	e := h.seedEvent(t, "alice", 1)
	for _, user := range []string{"u1", "u2", "u3"} {
		_, err := h.ledger.Join(ctx, testScope, e.ID, user)
		require.NoError(t, err)
	}

	h.choose(t, "alice", input.ChoiceEdit, idOf(e))
	h.choose(t, "alice", input.ChoiceEditCapacity, "")
	h.text(t, "alice", "2")
	p := h.choose(t, "alice", input.ChoiceEditSave, "")
	require.Equal(t, input.PromptEditSaved, p.Name)

	roster, err := h.ledger.Roster(ctx, testScope, e.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, userIDs(roster.Confirmed))
	assert.Equal(t, []string{"u3"}, userIDs(roster.Waiting))
}

func TestEdit_UnlimitedCapacityPromotesEveryone(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	e := h.seedEvent(t, "alice", 1)
	for _, user := range []string{"u1", "u2", "u3"} {
		_, err := h.ledger.Join(ctx, testScope, e.ID, user)
		require.NoError(t, err)
	}

	h.choose(t, "alice", input.ChoiceEdit, idOf(e))
	h.choose(t, "alice", input.ChoiceEditCapacity, "")
	h.choose(t, "alice", input.ChoiceNoCapacity, "")
	h.choose(t, "alice", input.ChoiceEditSave, "")

	roster, err := h.ledger.Roster(ctx, testScope, e.ID, "alice")
	require.NoError(t, err)
	assert.Len(t, roster.Confirmed, 3)
	assert.Empty(t, roster.Waiting)
}

func TestEdit_OnlyEditorsMayOpen(t *testing.T) {
	h := newHarness(t)
	e := h.seedEvent(t, "alice", 5)

	p := h.choose(t, "mallory", input.ChoiceEdit, idOf(e))
	assert.Equal(t, input.PromptDenied, p.Name)
	assert.Equal(t, "not_editor", p.Notice)

	_, err := h.drafts.GetEdit(context.Background(), "mallory")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestEdit_MembersPolicy(t *testing.T) {
	h := newHarness(t, testScope)
	e := h.seedEvent(t, "alice", 5)

	p := h.choose(t, "bob", input.ChoiceEdit, idOf(e))
	require.Equal(t, input.PromptEditMenu, p.Name)
	h.choose(t, "bob", input.ChoiceEditTitle, "")
	h.text(t, "bob", "By Bob")
	p = h.choose(t, "bob", input.ChoiceEditSave, "")
	require.Equal(t, input.PromptEditSaved, p.Name)
	assert.Equal(t, "By Bob", h.reload(t, e).Name)
	assert.Equal(t, "alice", h.reload(t, e).CreatorID)
}

func TestEdit_UnknownOrForeignEvent(t *testing.T) {
	h := newHarness(t)
	e := h.seedEvent(t, "alice", 5)

	assert.Equal(t, input.PromptNotFound, h.choose(t, "alice", input.ChoiceEdit, "999").Name)
	assert.Equal(t, input.PromptNotFound, h.choose(t, "alice", input.ChoiceEdit, "abc").Name)

	p, err := h.engine.Handle(context.Background(),
		input.ChoiceStimulus("alice", "other-guild", input.ChoiceEdit, idOf(e)))
	require.NoError(t, err)
	assert.Equal(t, input.PromptNotFound, p.Name)
}

func TestEdit_SaveAfterEventDeleted(t *testing.T) {
	h := newHarness(t)
	e := h.seedEvent(t, "alice", 5)
	h.choose(t, "alice", input.ChoiceEdit, idOf(e))
	h.choose(t, "alice", input.ChoiceEditTitle, "")
	h.text(t, "alice", "Renamed")

	h.choose(t, "alice", input.ChoiceDelete, idOf(e))
	h.choose(t, "alice", input.ChoiceDeleteConfirm, idOf(e))

	// The edit draft went with the event: save is no longer recognized.
	assert.Nil(t, h.choose(t, "alice", input.ChoiceEditSave, ""))
}

func TestEdit_RevokedPermissionAtSave(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	e := h.seedEvent(t, "alice", 5)
	h.choose(t, "alice", input.ChoiceEdit, idOf(e))
	h.choose(t, "alice", input.ChoiceEditTitle, "")
	h.text(t, "alice", "Renamed")

	live := h.reload(t, e)
	live.CreatorID = "carol"
	require.NoError(t, h.events.Update(ctx, live))

	p := h.choose(t, "alice", input.ChoiceEditSave, "")
	assert.Equal(t, input.PromptDenied, p.Name)
	assert.Equal(t, "Offsite", h.reload(t, e).Name)

	_, err := h.drafts.GetEdit(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestEdit_TakesPrecedenceOverCreation(t *testing.T) {
	h := newHarness(t)
	e := h.seedEvent(t, "alice", 5)
	h.choose(t, "alice", input.ChoiceStartWizard, "")
	h.choose(t, "alice", input.ChoiceEdit, idOf(e))
	h.choose(t, "alice", input.ChoiceEditTitle, "")

	p := h.text(t, "alice", "Edited")
	assert.Equal(t, input.PromptEditMenu, p.Name)
	assert.Equal(t, entities.StepTitle, h.creationDraft(t, "alice").Step)
	assert.Empty(t, h.creationDraft(t, "alice").Name)
}

func userIDs(ps []entities.Participant) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.UserID
	}
	return out
}
