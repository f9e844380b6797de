package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eventbot/internal/domain/entities"
	"eventbot/internal/infrastructure/lock"
	"eventbot/internal/infrastructure/memory"
	"eventbot/internal/ports/input"
	"eventbot/internal/ports/output"
	"eventbot/pkg/temporal"
	"eventbot/pkg/tz"
)

const testScope = "guild-1"

type harness struct {
	events       *memory.EventRepository
	participants *memory.ParticipantRepository
	drafts       *memory.DraftRepository
	composer     *temporal.Composer
	policy       *ScopePolicy
	eventSvc     *EventService
	ledger       *ParticipantService
	creation     *CreationWizard
	edit         *EditWizard
	engine       *Engine
}

func newHarness(t *testing.T, memberScopes ...string) *harness {
	t.Helper()
	return newHarnessWithMetrics(t, output.NopMetrics{}, memberScopes...)
}

func newHarnessWithMetrics(t *testing.T, metrics output.Metrics, memberScopes ...string) *harness {
	t.Helper()
	store := memory.NewStore()
	log := zap.NewNop()
	h := &harness{
		events:       memory.NewEventRepository(store),
		participants: memory.NewParticipantRepository(store),
		drafts:       memory.NewDraftRepository(store),
		composer:     temporal.NewComposer(tz.MustLoad(tz.DefaultZone)),
		policy:       NewScopePolicy(EditPolicyAuthorOnly, memberScopes),
	}
	h.eventSvc = NewEventService(h.events, h.policy, log)
	h.ledger = NewParticipantService(h.participants, h.events, metrics, log)
	h.creation = NewCreationWizard(h.drafts, h.composer, metrics, log)
	h.edit = NewEditWizard(h.drafts, h.events, h.policy, h.ledger, h.composer, metrics, log)
	h.engine = NewEngine(h.creation, h.edit, h.eventSvc, h.ledger, h.drafts, lock.NewLocal(), log)
	return h
}

func (h *harness) text(t *testing.T, userID, text string) *input.Prompt {
	t.Helper()
	p, err := h.engine.Handle(context.Background(), input.TextStimulus(userID, testScope, text))
	require.NoError(t, err)
	return p
}

func (h *harness) choose(t *testing.T, userID string, choice input.Choice, value string) *input.Prompt {
	t.Helper()
	p, err := h.engine.Handle(context.Background(), input.ChoiceStimulus(userID, testScope, choice, value))
	require.NoError(t, err)
	return p
}

func (h *harness) creationDraft(t *testing.T, userID string) *entities.CreationDraft {
	t.Helper()
	d, err := h.drafts.GetCreation(context.Background(), userID)
	require.NoError(t, err)
	return d
}

func (h *harness) day(t *testing.T, date string) temporal.Moment {
	t.Helper()
	m, err := h.composer.ParseCalendarDate(date)
	require.NoError(t, err)
	return m
}

func (h *harness) at(t *testing.T, date, hhmm string) temporal.Moment {
	t.Helper()
	m, err := h.composer.ComposeClock(h.day(t, date), hhmm)
	require.NoError(t, err)
	return m
}

// seedEvent stores an event created by creatorID.
func (h *harness) seedEvent(t *testing.T, creatorID string, capacity int) *entities.Event {
	t.Helper()
	e := &entities.Event{
		ScopeID:   testScope,
		CreatorID: creatorID,
		Name:      "Offsite",
		Start:     h.at(t, "2025-09-01", "10:00"),
		End:       h.at(t, "2025-09-01", "12:00"),
		Capacity:  capacity,
	}
	require.NoError(t, h.events.Create(context.Background(), e))
	return e
}

func assertMomentEqual(t *testing.T, want, got temporal.Moment, label string) {
	t.Helper()
	assert.True(t, want.Equal(got), "%s: want %v (clock=%v), got %v (clock=%v)",
		label, want.Time(), want.HasClock(), got.Time(), got.HasClock())
}

// assertSameDraft compares everything but UpdatedAt.
func assertSameDraft(t *testing.T, want, got *entities.CreationDraft) {
	t.Helper()
	assert.Equal(t, want.Step, got.Step)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Capacity, got.Capacity)
	assertMomentEqual(t, want.Start, got.Start, "start")
	assertMomentEqual(t, want.End, got.End, "end")
}
