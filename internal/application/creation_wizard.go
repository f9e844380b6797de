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
	"eventbot/pkg/temporal"
)

const flowCreate = "create"

// creationTransition applies one stimulus to the draft and advances its step.
// A validation error leaves the draft untouched.
type creationTransition func(w *CreationWizard, d *entities.CreationDraft, s input.Stimulus) error

var creationTransitions = map[transitionKey]creationTransition{
	key(entities.StepTitle, input.TriggerText): (*CreationWizard).answerTitle,

	key(entities.StepStartDate, input.TriggerText):    (*CreationWizard).answerStartDate,
	key(entities.StepStartDate, input.ChoicePickDate): (*CreationWizard).answerStartDate,

	key(entities.StepStartTime, input.TriggerText):    (*CreationWizard).answerStartTime,
	key(entities.StepStartTime, input.ChoiceTime):     (*CreationWizard).answerStartTime,
	key(entities.StepStartTime, input.ChoiceTimeSkip): (*CreationWizard).skipStartTime,

	key(entities.StepEndMode, input.ChoiceEndByTime):     (*CreationWizard).chooseEndByTime,
	key(entities.StepEndMode, input.ChoiceEndByDuration): (*CreationWizard).chooseEndByDuration,
	key(entities.StepEndMode, input.ChoiceNoEnd):         (*CreationWizard).skipEnd,

	key(entities.StepEndTime, input.TriggerText):    (*CreationWizard).answerEndTime,
	key(entities.StepEndTime, input.ChoiceTime):     (*CreationWizard).answerEndTime,
	key(entities.StepEndTime, input.ChoiceTimeSkip): (*CreationWizard).skipEnd,

	key(entities.StepDuration, input.TriggerText):        (*CreationWizard).answerDuration,
	key(entities.StepDuration, input.ChoiceDuration):     (*CreationWizard).answerDuration,
	key(entities.StepDuration, input.ChoiceDurationSkip): (*CreationWizard).skipEnd,

	key(entities.StepCapacity, input.TriggerText):      (*CreationWizard).answerCapacity,
	key(entities.StepCapacity, input.ChoiceNoCapacity): (*CreationWizard).skipCapacity,
}

// creationPrompts maps each step to the prompt that asks for it.
var creationPrompts = map[entities.Step]input.PromptName{
	entities.StepTitle:     input.PromptAskTitle,
	entities.StepStartDate: input.PromptAskStartDate,
	entities.StepStartTime: input.PromptAskStartTime,
	entities.StepEndMode:   input.PromptAskEndMode,
	entities.StepEndTime:   input.PromptAskEndTime,
	entities.StepDuration:  input.PromptAskDuration,
	entities.StepCapacity:  input.PromptAskCapacity,
}

// CreationWizard drives the linear creation flow.
type CreationWizard struct {
	drafts   output.DraftRepository
	composer *temporal.Composer
	metrics  output.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewCreationWizard(
	drafts output.DraftRepository,
	composer *temporal.Composer,
	metrics output.Metrics,
	logger *zap.Logger,
) *CreationWizard {
	return &CreationWizard{
		drafts:   drafts,
		composer: composer,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Start creates or resets the user's draft at the title step.
func (w *CreationWizard) Start(ctx context.Context, userID, scopeID string) (*input.Prompt, error) {
	d := entities.NewCreationDraft(userID, scopeID)
	if err := w.save(ctx, d); err != nil {
		return nil, err
	}
	w.metrics.WizardTransition(flowCreate, string(entities.StepTitle), "started")
	return creationPrompt(entities.StepTitle), nil
}

// Handle applies s to the user's draft. It returns nil when the user has no
// draft or s means nothing at the current step.
func (w *CreationWizard) Handle(ctx context.Context, s input.Stimulus) (*input.Prompt, error) {
	d, err := w.drafts.GetCreation(ctx, s.UserID)
	if errors.Is(err, domain.ErrDraftNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get creation draft: %w", err)
	}

	switch s.Trigger() {
	case input.ChoiceBack:
		return w.back(ctx, d)
	case input.ChoiceReset:
		d.Reset()
		if err := w.save(ctx, d); err != nil {
			return nil, err
		}
		w.metrics.WizardTransition(flowCreate, string(entities.StepTitle), "reset")
		return creationPrompt(entities.StepTitle), nil
	case input.ChoiceExit:
		if err := w.drafts.DeleteCreation(ctx, d.UserID); err != nil {
			return nil, fmt.Errorf("delete creation draft: %w", err)
		}
		w.metrics.WizardTransition(flowCreate, string(d.Step), "exit")
		return &input.Prompt{Name: input.PromptExit, Nav: input.Nav{Home: true}}, nil
	}

	transition, ok := creationTransitions[key(d.Step, s.Trigger())]
	if !ok {
		return nil, nil
	}
	step := d.Step
	if err := transition(w, d, s); err != nil {
		if !isValidation(err) {
			return nil, err
		}
		w.metrics.WizardTransition(flowCreate, string(step), "rejected")
		w.logger.Debug("creation input rejected",
			zap.String("user_id", s.UserID),
			zap.String("step", string(step)),
			zap.Error(err))
		p := creationPrompt(step)
		p.Notice = noticeFor(err)
		return p, nil
	}
	w.metrics.WizardTransition(flowCreate, string(step), "accepted")
	if d.Step == entities.StepDone {
		return w.finalize(ctx, d)
	}
	if err := w.save(ctx, d); err != nil {
		return nil, err
	}
	return creationPrompt(d.Step), nil
}

// back rewinds one step and clears whatever the undone step had set.
func (w *CreationWizard) back(ctx context.Context, d *entities.CreationDraft) (*input.Prompt, error) {
	switch d.Step {
	case entities.StepTitle:
		p := creationPrompt(entities.StepTitle)
		p.Notice = input.NoticeCannotGoBack
		return p, nil
	case entities.StepStartDate:
		d.Name = ""
		d.Step = entities.StepTitle
	case entities.StepStartTime:
		d.Start = temporal.Moment{}
		d.Step = entities.StepStartDate
	case entities.StepEndMode:
		d.Start = w.composer.StartOfDay(d.Start)
		d.End = temporal.Moment{}
		d.Capacity = 0
		d.Step = entities.StepStartTime
	case entities.StepEndTime, entities.StepDuration, entities.StepCapacity:
		d.End = temporal.Moment{}
		d.Capacity = 0
		d.Step = entities.StepEndMode
	default:
		return nil, nil
	}
	if err := w.save(ctx, d); err != nil {
		return nil, err
	}
	w.metrics.WizardTransition(flowCreate, string(d.Step), "back")
	return creationPrompt(d.Step), nil
}

func (w *CreationWizard) finalize(ctx context.Context, d *entities.CreationDraft) (*input.Prompt, error) {
	event := d.ToEvent()
	now := w.now()
	event.CreatedAt, event.UpdatedAt = now, now
	if err := w.drafts.CommitCreation(ctx, d.UserID, event); err != nil {
		return nil, fmt.Errorf("commit creation: %w", err)
	}
	w.metrics.WizardTransition(flowCreate, string(entities.StepDone), "finalized")
	w.logger.Info("event created",
		zap.Uint("event_id", event.ID),
		zap.String("scope_id", event.ScopeID),
		zap.String("user_id", event.CreatorID))
	return &input.Prompt{
		Name:  input.PromptEventCreated,
		Nav:   input.Nav{Home: true},
		Event: event,
	}, nil
}

func (w *CreationWizard) save(ctx context.Context, d *entities.CreationDraft) error {
	d.UpdatedAt = w.now()
	if err := w.drafts.SaveCreation(ctx, d); err != nil {
		return fmt.Errorf("save creation draft: %w", err)
	}
	return nil
}

func creationPrompt(step entities.Step) *input.Prompt {
	nav := input.Nav{Back: true, Reset: true, Home: true, Exit: true}
	if step == entities.StepTitle {
		nav.Back, nav.Reset = false, false
	}
	return &input.Prompt{Name: creationPrompts[step], Nav: nav}
}

func (w *CreationWizard) answerTitle(d *entities.CreationDraft, s input.Stimulus) error {
	name, err := parseTitle(s.Text)
	if err != nil {
		return err
	}
	d.Name = name
	d.Step = entities.StepStartDate
	return nil
}

func (w *CreationWizard) answerStartDate(d *entities.CreationDraft, s input.Stimulus) error {
	day, err := w.composer.ParseCalendarDate(answer(s))
	if err != nil {
		return err
	}
	d.Start = day
	d.Step = entities.StepStartTime
	return nil
}

func (w *CreationWizard) answerStartTime(d *entities.CreationDraft, s input.Stimulus) error {
	start, err := w.composer.ComposeClock(d.Start, answer(s))
	if err != nil {
		return err
	}
	d.Start = start
	d.Step = entities.StepEndMode
	return nil
}

func (w *CreationWizard) skipStartTime(d *entities.CreationDraft, _ input.Stimulus) error {
	d.Start = w.composer.StartOfDay(d.Start)
	d.Step = entities.StepEndMode
	return nil
}

// chooseEndByTime seeds the end at the start's day so the clock lands on the
// same calendar day.
func (w *CreationWizard) chooseEndByTime(d *entities.CreationDraft, _ input.Stimulus) error {
	d.End = w.composer.StartOfDay(d.Start)
	d.Step = entities.StepEndTime
	return nil
}

func (w *CreationWizard) chooseEndByDuration(d *entities.CreationDraft, _ input.Stimulus) error {
	d.End = temporal.Moment{}
	d.Step = entities.StepDuration
	return nil
}

func (w *CreationWizard) skipEnd(d *entities.CreationDraft, _ input.Stimulus) error {
	d.End = temporal.Moment{}
	d.Step = entities.StepCapacity
	return nil
}

func (w *CreationWizard) answerEndTime(d *entities.CreationDraft, s input.Stimulus) error {
	end, err := w.composer.ComposeClock(d.Start, answer(s))
	if err != nil {
		return err
	}
	if !end.After(d.Start) {
		return domain.ErrEndBeforeStart
	}
	d.End = end
	d.Step = entities.StepCapacity
	return nil
}

func (w *CreationWizard) answerDuration(d *entities.CreationDraft, s input.Stimulus) error {
	dur, err := temporal.ParseDuration(answer(s))
	if err != nil {
		return err
	}
	d.End = d.Start.Add(dur)
	d.Step = entities.StepCapacity
	return nil
}

func (w *CreationWizard) answerCapacity(d *entities.CreationDraft, s input.Stimulus) error {
	n, err := parseCapacity(s.Text)
	if err != nil {
		return err
	}
	d.Capacity = n
	d.Step = entities.StepDone
	return nil
}

func (w *CreationWizard) skipCapacity(d *entities.CreationDraft, _ input.Stimulus) error {
	d.Capacity = 0
	d.Step = entities.StepDone
	return nil
}
