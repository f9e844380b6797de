package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/infrastructure/memory"
	"eventbot/internal/ports/input"
	"eventbot/internal/ports/output"
)

func TestCreation_HappyPath(t *testing.T) {
	h := newHarness(t)

	p := h.choose(t, "alice", input.ChoiceStartWizard, "")
	assert.Equal(t, input.PromptAskTitle, p.Name)
	assert.Equal(t, input.Nav{Home: true, Exit: true}, p.Nav)

	p = h.text(t, "alice", "Offsite")
	assert.Equal(t, input.PromptAskStartDate, p.Name)
	assert.Equal(t, input.Nav{Back: true, Reset: true, Home: true, Exit: true}, p.Nav)

	p = h.choose(t, "alice", input.ChoicePickDate, "2025-09-01")
	assert.Equal(t, input.PromptAskStartTime, p.Name)

	p = h.choose(t, "alice", input.ChoiceTimeSkip, "")
	assert.Equal(t, input.PromptAskEndMode, p.Name)

	p = h.choose(t, "alice", input.ChoiceEndByDuration, "")
	assert.Equal(t, input.PromptAskDuration, p.Name)

	p = h.text(t, "alice", "1:30")
	assert.Equal(t, input.PromptAskCapacity, p.Name)

	p = h.choose(t, "alice", input.ChoiceNoCapacity, "")
	require.Equal(t, input.PromptEventCreated, p.Name)
	require.NotNil(t, p.Event)

	e := p.Event
	assert.NotZero(t, e.ID)
	assert.Equal(t, "Offsite", e.Name)
	assert.Equal(t, testScope, e.ScopeID)
	assert.Equal(t, "alice", e.CreatorID)
	assert.False(t, e.Start.HasClock())
	assert.False(t, e.End.HasClock())
	assert.Equal(t, 90*time.Minute, e.End.Sub(e.Start))
	assert.True(t, e.Unlimited())
	assertMomentEqual(t, h.day(t, "2025-09-01"), e.Start, "start")

	_, err := h.drafts.GetCreation(context.Background(), "alice")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	stored, err := h.events.FindByID(context.Background(), testScope, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Offsite", stored.Name)
}

func TestCreation_ClockedEndAndCapacity(t *testing.T) {
	h := newHarness(t)
	h.choose(t, "alice", input.ChoiceStartWizard, "")
	h.text(t, "alice", "Lunch")
	h.text(t, "alice", "2025/09/01")
	h.choose(t, "alice", input.ChoiceTime, "10:00")
	h.choose(t, "alice", input.ChoiceEndByTime, "")

	p := h.text(t, "alice", "12:30")
	assert.Equal(t, input.PromptAskCapacity, p.Name)

	p = h.text(t, "alice", "12")
	require.Equal(t, input.PromptEventCreated, p.Name)
	assert.Equal(t, 12, p.Event.Capacity)
	assertMomentEqual(t, h.at(t, "2025-09-01", "10:00"), p.Event.Start, "start")
	assertMomentEqual(t, h.at(t, "2025-09-01", "12:30"), p.Event.End, "end")
}

func TestCreation_InvalidEndTime(t *testing.T) {
	h := newHarness(t)
	h.choose(t, "alice", input.ChoiceStartWizard, "")
	h.text(t, "alice", "Offsite")
	h.choose(t, "alice", input.ChoicePickDate, "2025-09-01")
	h.text(t, "alice", "10:00")
	h.choose(t, "alice", input.ChoiceEndByTime, "")
	before := h.creationDraft(t, "alice")

	for _, text := range []string{"09:00", "10:00"} {
		p := h.text(t, "alice", text)
		assert.Equal(t, input.PromptAskEndTime, p.Name)
		assert.Equal(t, "invalid_end_time", p.Notice)
		assertSameDraft(t, before, h.creationDraft(t, "alice"))
	}
	assertMomentEqual(t, h.composer.StartOfDay(before.Start), before.End, "seeded end")
}

func TestCreation_MalformedInputLeavesDraftUnchanged(t *testing.T) {
	h := newHarness(t)
	h.choose(t, "alice", input.ChoiceStartWizard, "")
	h.text(t, "alice", "Offsite")
	h.choose(t, "alice", input.ChoicePickDate, "2025-09-01")
	before := h.creationDraft(t, "alice")

	for _, text := range []string{"24:00", "9:5", "abc", "12:60", ""} {
		p := h.text(t, "alice", text)
		assert.Equal(t, input.PromptAskStartTime, p.Name, text)
		assert.Equal(t, "invalid_time", p.Notice, text)
		assertSameDraft(t, before, h.creationDraft(t, "alice"))
	}
}

func TestCreation_RejectsBadAnswers(t *testing.T) {
	h := newHarness(t)
	h.choose(t, "alice", input.ChoiceStartWizard, "")

	p := h.text(t, "alice", "   ")
	assert.Equal(t, input.PromptAskTitle, p.Name)
	assert.Equal(t, "invalid_title", p.Notice)

	h.text(t, "alice", "Offsite")
	p = h.text(t, "alice", "2025-13-01")
	assert.Equal(t, input.PromptAskStartDate, p.Name)
	assert.Equal(t, "invalid_date", p.Notice)

	h.text(t, "alice", "2025-09-01")
	h.choose(t, "alice", input.ChoiceTimeSkip, "")
	h.choose(t, "alice", input.ChoiceEndByDuration, "")
	for _, text := range []string{"0", "-5m", "soon"} {
		p = h.text(t, "alice", text)
		assert.Equal(t, input.PromptAskDuration, p.Name, text)
		assert.Equal(t, "invalid_duration", p.Notice, text)
	}

	h.choose(t, "alice", input.ChoiceDurationSkip, "")
	for _, text := range []string{"0", "-1", "3.5", "ten", "2147483648", "3000000000", "4294967297"} {
		p = h.text(t, "alice", text)
		assert.Equal(t, input.PromptAskCapacity, p.Name, text)
		assert.Equal(t, "invalid_capacity", p.Notice, text)
	}
}

func TestCreation_CapacityUpperBound(t *testing.T) {
	h := newHarness(t)
	h.choose(t, "alice", input.ChoiceStartWizard, "")
	h.text(t, "alice", "Offsite")
	h.choose(t, "alice", input.ChoicePickDate, "2025-09-01")
	h.choose(t, "alice", input.ChoiceTimeSkip, "")
	h.choose(t, "alice", input.ChoiceNoEnd, "")

	p := h.text(t, "alice", "2147483647")
	require.Equal(t, input.PromptEventCreated, p.Name)
	assert.Equal(t, 2147483647, p.Event.Capacity)
}

func TestCreation_TypedClockIsTrimmed(t *testing.T) {
	h := newHarness(t)
	h.choose(t, "alice", input.ChoiceStartWizard, "")
	h.text(t, "alice", "Offsite")
	h.choose(t, "alice", input.ChoicePickDate, "2025-09-01")

	p := h.text(t, "alice", " 09:00 ")
	assert.Equal(t, input.PromptAskEndMode, p.Name)
	assertMomentEqual(t, h.at(t, "2025-09-01", "09:00"), h.creationDraft(t, "alice").Start, "start")
}

func TestCreation_TitleTooLong(t *testing.T) {
	h := newHarness(t)
	h.choose(t, "alice", input.ChoiceStartWizard, "")

	long := make([]rune, entities.MaxNameLength+1)
	for i := range long {
		long[i] = 'あ'
	}
	p := h.text(t, "alice", string(long))
	assert.Equal(t, "invalid_title", p.Notice)

	p = h.text(t, "alice", string(long[:entities.MaxNameLength]))
	assert.Equal(t, input.PromptAskStartDate, p.Name)
}

func TestCreation_BackIsInverseOfForward(t *testing.T) {
	h := newHarness(t)
	h.choose(t, "alice", input.ChoiceStartWizard, "")

	forward := []struct {
		name     string
		stimulus input.Stimulus
	}{
		{"title", input.TextStimulus("alice", testScope, "Offsite")},
		{"start_date", input.ChoiceStimulus("alice", testScope, input.ChoicePickDate, "2025-09-01")},
		{"start_time", input.TextStimulus("alice", testScope, "10:00")},
		{"end_mode", input.ChoiceStimulus("alice", testScope, input.ChoiceEndByTime, "")},
	}
	ctx := context.Background()
	for _, step := range forward {
		before := h.creationDraft(t, "alice")

		_, err := h.engine.Handle(ctx, step.stimulus)
		require.NoError(t, err, step.name)
		p := h.choose(t, "alice", input.ChoiceBack, "")
		assert.Equal(t, creationPrompts[before.Step], p.Name, step.name)
		assertSameDraft(t, before, h.creationDraft(t, "alice"))

		_, err = h.engine.Handle(ctx, step.stimulus)
		require.NoError(t, err, step.name)
	}
}

func TestCreation_BackFromCapacityClearsEnd(t *testing.T) {
	h := newHarness(t)
	h.choose(t, "alice", input.ChoiceStartWizard, "")
	h.text(t, "alice", "Offsite")
	h.choose(t, "alice", input.ChoicePickDate, "2025-09-01")
	h.text(t, "alice", "10:00")
	h.choose(t, "alice", input.ChoiceEndByDuration, "")
	h.text(t, "alice", "2h")

	p := h.choose(t, "alice", input.ChoiceBack, "")
	assert.Equal(t, input.PromptAskEndMode, p.Name)

	d := h.creationDraft(t, "alice")
	assert.Equal(t, entities.StepEndMode, d.Step)
	assert.True(t, d.End.IsZero())
	assert.Zero(t, d.Capacity)
	assert.True(t, d.Start.HasClock())
}

func TestCreation_BackOnTitleIsNoOp(t *testing.T) {
	h := newHarness(t)
	h.choose(t, "alice", input.ChoiceStartWizard, "")

	p := h.choose(t, "alice", input.ChoiceBack, "")
	assert.Equal(t, input.PromptAskTitle, p.Name)
	assert.Equal(t, input.NoticeCannotGoBack, p.Notice)
	assert.Equal(t, entities.StepTitle, h.creationDraft(t, "alice").Step)
}

func TestCreation_Reset(t *testing.T) {
	h := newHarness(t)
	h.choose(t, "alice", input.ChoiceStartWizard, "")
	h.text(t, "alice", "Offsite")
	h.choose(t, "alice", input.ChoicePickDate, "2025-09-01")
	h.text(t, "alice", "10:00")

	p := h.choose(t, "alice", input.ChoiceReset, "")
	assert.Equal(t, input.PromptAskTitle, p.Name)

	d := h.creationDraft(t, "alice")
	assertSameDraft(t, entities.NewCreationDraft("alice", testScope), d)
	assert.Equal(t, testScope, d.ScopeID)
}

func TestCreation_StartWizardResetsExistingDraft(t *testing.T) {
	h := newHarness(t)
	h.choose(t, "alice", input.ChoiceStartWizard, "")
	h.text(t, "alice", "Offsite")

	p := h.choose(t, "alice", input.ChoiceStartWizard, "")
	assert.Equal(t, input.PromptAskTitle, p.Name)
	assert.Empty(t, h.creationDraft(t, "alice").Name)
}

func TestCreation_ExitDiscardsDraft(t *testing.T) {
	h := newHarness(t)
	h.choose(t, "alice", input.ChoiceStartWizard, "")
	h.text(t, "alice", "Offsite")

	p := h.choose(t, "alice", input.ChoiceExit, "")
	assert.Equal(t, input.PromptExit, p.Name)

	_, err := h.drafts.GetCreation(context.Background(), "alice")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	events, err := h.events.FindByScope(context.Background(), testScope, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCreation_NoEndSkipsToCapacity(t *testing.T) {
	h := newHarness(t)
	h.choose(t, "alice", input.ChoiceStartWizard, "")
	h.text(t, "alice", "Offsite")
	h.choose(t, "alice", input.ChoicePickDate, "2025-09-01")
	h.choose(t, "alice", input.ChoiceTime, "19:00")

	p := h.choose(t, "alice", input.ChoiceNoEnd, "")
	assert.Equal(t, input.PromptAskCapacity, p.Name)
	assert.True(t, h.creationDraft(t, "alice").End.IsZero())

	p = h.text(t, "alice", "3")
	require.Equal(t, input.PromptEventCreated, p.Name)
	assert.False(t, p.Event.HasEnd())
}

func TestCreation_SkipEndTime(t *testing.T) {
	h := newHarness(t)
	h.choose(t, "alice", input.ChoiceStartWizard, "")
	h.text(t, "alice", "Offsite")
	h.choose(t, "alice", input.ChoicePickDate, "2025-09-01")
	h.choose(t, "alice", input.ChoiceTimeSkip, "")
	h.choose(t, "alice", input.ChoiceEndByTime, "")

	p := h.choose(t, "alice", input.ChoiceTimeSkip, "")
	assert.Equal(t, input.PromptAskCapacity, p.Name)
	assert.True(t, h.creationDraft(t, "alice").End.IsZero())
}

func TestCreation_UnrecognizedStimulus(t *testing.T) {
	h := newHarness(t)

	assert.Nil(t, h.text(t, "alice", "hello"))

	h.choose(t, "alice", input.ChoiceStartWizard, "")
	h.text(t, "alice", "Offsite")
	h.choose(t, "alice", input.ChoicePickDate, "2025-09-01")
	h.choose(t, "alice", input.ChoiceTimeSkip, "")

	// end_mode only takes its three choices.
	assert.Nil(t, h.text(t, "alice", "12:00"))
	assert.Nil(t, h.choose(t, "alice", input.ChoiceNoCapacity, ""))
	assert.Equal(t, entities.StepEndMode, h.creationDraft(t, "alice").Step)
}

func TestCreation_DraftsArePerUser(t *testing.T) {
	h := newHarness(t)
	h.choose(t, "alice", input.ChoiceStartWizard, "")
	h.choose(t, "bob", input.ChoiceStartWizard, "")

	h.text(t, "alice", "Alice party")
	h.text(t, "bob", "Bob party")

	assert.Equal(t, "Alice party", h.creationDraft(t, "alice").Name)
	assert.Equal(t, "Bob party", h.creationDraft(t, "bob").Name)
}

func TestCreationTransitions_CoverEveryStep(t *testing.T) {
	steps := []entities.Step{
		entities.StepTitle, entities.StepStartDate, entities.StepStartTime, entities.StepEndMode,
		entities.StepEndTime, entities.StepDuration, entities.StepCapacity,
	}
	for _, step := range steps {
		found := false
		for k := range creationTransitions {
			if k.step == step {
				found = true
				break
			}
		}
		assert.True(t, found, step)
		assert.NotEmpty(t, creationPrompts[step], step)
	}
}

func TestCreationTransition_EndByTimeSeedsStartOfDay(t *testing.T) {
	h := newHarness(t)
	d := &entities.CreationDraft{Step: entities.StepEndMode, Start: h.at(t, "2025-09-01", "10:00")}

	err := creationTransitions[key(entities.StepEndMode, input.ChoiceEndByTime)](h.creation, d, input.Stimulus{})
	require.NoError(t, err)
	assert.Equal(t, entities.StepEndTime, d.Step)
	assertMomentEqual(t, h.day(t, "2025-09-01"), d.End, "seed")
	assert.False(t, d.End.HasClock())
}

func TestCreationTransition_DurationIsDerived(t *testing.T) {
	h := newHarness(t)
	start := h.at(t, "2025-09-01", "10:00")
	d := &entities.CreationDraft{Step: entities.StepDuration, Start: start}

	err := creationTransitions[key(entities.StepDuration, input.ChoiceDuration)](h.creation, d,
		input.ChoiceStimulus("alice", testScope, input.ChoiceDuration, "90m"))
	require.NoError(t, err)
	assert.Equal(t, entities.StepCapacity, d.Step)
	assert.Equal(t, 90*time.Minute, d.End.Sub(start))
	assert.False(t, d.End.HasClock())
}

// failingCommit refuses CommitCreation while fail is set.
type failingCommit struct {
	*memory.DraftRepository
	fail bool
}

func (f *failingCommit) CommitCreation(ctx context.Context, userID string, event *entities.Event) error {
	if f.fail {
		return errors.New("connection reset")
	}
	return f.DraftRepository.CommitCreation(ctx, userID, event)
}

func TestCreation_FailedCommitLeavesNoEvent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	drafts := &failingCommit{DraftRepository: h.drafts, fail: true}
	wizard := NewCreationWizard(drafts, h.composer, output.NopMetrics{}, zap.NewNop())

	_, err := wizard.Start(ctx, "alice", testScope)
	require.NoError(t, err)
	for _, s := range []input.Stimulus{
		input.TextStimulus("alice", testScope, "Offsite"),
		input.ChoiceStimulus("alice", testScope, input.ChoicePickDate, "2025-09-01"),
		input.ChoiceStimulus("alice", testScope, input.ChoiceTimeSkip, ""),
		input.ChoiceStimulus("alice", testScope, input.ChoiceNoEnd, ""),
	} {
		_, err := wizard.Handle(ctx, s)
		require.NoError(t, err)
	}

	finish := input.ChoiceStimulus("alice", testScope, input.ChoiceNoCapacity, "")
	_, err = wizard.Handle(ctx, finish)
	require.Error(t, err)

	events, err := h.events.FindByScope(ctx, testScope, 0)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, entities.StepCapacity, h.creationDraft(t, "alice").Step)

	drafts.fail = false
	p, err := wizard.Handle(ctx, finish)
	require.NoError(t, err)
	require.Equal(t, input.PromptEventCreated, p.Name)

	events, err = h.events.FindByScope(ctx, testScope, 0)
	require.NoError(t, err)
	assert.Len(t, events, 1)
	_, err = h.drafts.GetCreation(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	p, err = wizard.Handle(ctx, finish)
	require.NoError(t, err)
	assert.Nil(t, p)
}
