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

const flowEdit = "edit"

// editTransition applies one stimulus to an edit draft and moves its step.
// A validation error leaves the draft untouched.
type editTransition func(w *EditWizard, d *entities.EditDraft, s input.Stimulus) error

var editTransitions = map[transitionKey]editTransition{
	key(entities.StepMenu, input.ChoiceEditTitle):     goTo(entities.StepTitle),
	key(entities.StepMenu, input.ChoiceEditStartDate): goTo(entities.StepStartDate),
	key(entities.StepMenu, input.ChoiceEditStartTime): goTo(entities.StepStartTime),
	key(entities.StepMenu, input.ChoiceEditEnd):       goTo(entities.StepEndMode),
	key(entities.StepMenu, input.ChoiceEditCapacity):  goTo(entities.StepCapacity),
	key(entities.StepMenu, input.TriggerText):         goTo(entities.StepMenu),

	key(entities.StepTitle, input.TriggerText): (*EditWizard).editTitle,

	key(entities.StepStartDate, input.TriggerText):    (*EditWizard).editStartDate,
	key(entities.StepStartDate, input.ChoicePickDate): (*EditWizard).editStartDate,

	key(entities.StepStartTime, input.TriggerText):    (*EditWizard).editStartTime,
	key(entities.StepStartTime, input.ChoiceTime):     (*EditWizard).editStartTime,
	key(entities.StepStartTime, input.ChoiceTimeSkip): (*EditWizard).clearStartTime,

	key(entities.StepEndMode, input.ChoiceEndByTime):     goTo(entities.StepEndTime),
	key(entities.StepEndMode, input.ChoiceEndByDuration): goTo(entities.StepDuration),
	key(entities.StepEndMode, input.ChoiceNoEnd):         (*EditWizard).clearEnd,

	key(entities.StepEndTime, input.TriggerText):    (*EditWizard).editEndTime,
	key(entities.StepEndTime, input.ChoiceTime):     (*EditWizard).editEndTime,
	key(entities.StepEndTime, input.ChoiceTimeSkip): goTo(entities.StepMenu),

	key(entities.StepDuration, input.TriggerText):        (*EditWizard).editDuration,
	key(entities.StepDuration, input.ChoiceDuration):     (*EditWizard).editDuration,
	key(entities.StepDuration, input.ChoiceDurationSkip): (*EditWizard).clearEnd,

	key(entities.StepCapacity, input.TriggerText):      (*EditWizard).editCapacity,
	key(entities.StepCapacity, input.ChoiceNoCapacity): (*EditWizard).clearCapacity,
}

func goTo(step entities.Step) editTransition {
	return func(_ *EditWizard, d *entities.EditDraft, _ input.Stimulus) error {
		d.Step = step
		return nil
	}
}

// EditApplier commits an edit to the live event under its ledger lock.
type EditApplier interface {
	ApplyEdit(ctx context.Context, eventID uint, apply func(event *entities.Event) error) (*entities.Event, []entities.Participant, error)
}

// EditWizard drives the menu-based edit flow. The live event is only written
// on save.
type EditWizard struct {
	drafts   output.DraftRepository
	events   output.EventRepository
	authz    output.Authorizer
	ledger   EditApplier
	composer *temporal.Composer
	metrics  output.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewEditWizard(
	drafts output.DraftRepository,
	events output.EventRepository,
	authz output.Authorizer,
	ledger EditApplier,
	composer *temporal.Composer,
	metrics output.Metrics,
	logger *zap.Logger,
) *EditWizard {
	return &EditWizard{
		drafts:   drafts,
		events:   events,
		authz:    authz,
		ledger:   ledger,
		composer: composer,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Open seeds an edit draft from the event and shows the menu.
func (w *EditWizard) Open(ctx context.Context, userID, scopeID string, eventID uint) (*input.Prompt, error) {
	event, err := w.events.FindByID(ctx, scopeID, eventID)
	if errors.Is(err, domain.ErrEventNotFound) {
		return notFoundPrompt(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	if !w.authz.CanEdit(ctx, userID, event) {
		return deniedPrompt(domain.ErrNotEditor), nil
	}
	d := entities.NewEditDraft(userID, event)
	if err := w.save(ctx, d); err != nil {
		return nil, err
	}
	w.metrics.WizardTransition(flowEdit, string(entities.StepMenu), "started")
	return menuPrompt(d), nil
}

// Handle applies s to the user's edit draft. It returns nil when there is no
// edit draft or s means nothing at the current step.
func (w *EditWizard) Handle(ctx context.Context, s input.Stimulus) (*input.Prompt, error) {
	d, err := w.drafts.GetEdit(ctx, s.UserID)
	if errors.Is(err, domain.ErrDraftNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get edit draft: %w", err)
	}

	switch s.Trigger() {
	case input.ChoiceExit, input.ChoiceEditCancel:
		if err := w.drafts.DeleteEdit(ctx, d.UserID); err != nil {
			return nil, fmt.Errorf("delete edit draft: %w", err)
		}
		w.metrics.WizardTransition(flowEdit, string(d.Step), "canceled")
		return &input.Prompt{Name: input.PromptEditCanceled, Nav: input.Nav{Home: true}}, nil
	case input.ChoiceBack:
		d.Step = entities.StepMenu
		return w.persist(ctx, d)
	case input.ChoiceEditSave:
		if d.Step == entities.StepMenu {
			return w.commit(ctx, d)
		}
	}

	transition, ok := editTransitions[key(d.Step, s.Trigger())]
	if !ok {
		return nil, nil
	}
	step := d.Step
	if err := transition(w, d, s); err != nil {
		if !isValidation(err) {
			return nil, err
		}
		w.metrics.WizardTransition(flowEdit, string(step), "rejected")
		p := editPrompt(d)
		p.Notice = noticeFor(err)
		return p, nil
	}
	w.metrics.WizardTransition(flowEdit, string(step), "accepted")
	return w.persist(ctx, d)
}

// persist saves the draft and prompts for its step. A draft whose event is
// gone is dropped.
func (w *EditWizard) persist(ctx context.Context, d *entities.EditDraft) (*input.Prompt, error) {
	err := w.save(ctx, d)
	if errors.Is(err, domain.ErrEventNotFound) {
		return w.abandon(ctx, d, notFoundPrompt())
	}
	if err != nil {
		return nil, err
	}
	return editPrompt(d), nil
}

// commit re-checks the event and the policy, then copies the touched fields
// onto the live event.
func (w *EditWizard) commit(ctx context.Context, d *entities.EditDraft) (*input.Prompt, error) {
	event, err := w.events.FindByID(ctx, d.ScopeID, d.EventID)
	if errors.Is(err, domain.ErrEventNotFound) {
		return w.abandon(ctx, d, notFoundPrompt())
	}
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	if !w.authz.CanEdit(ctx, d.UserID, event) {
		return w.abandon(ctx, d, deniedPrompt(domain.ErrNotEditor))
	}

	saved, promoted, err := w.ledger.ApplyEdit(ctx, d.EventID, func(event *entities.Event) error {
		d.ApplyTo(event)
		if event.HasEnd() && !event.End.After(event.Start) {
			return domain.ErrEndBeforeStart
		}
		return nil
	})
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		return w.abandon(ctx, d, notFoundPrompt())
	case errors.Is(err, domain.ErrCannotReduceCapacity), errors.Is(err, domain.ErrEndBeforeStart):
		w.metrics.WizardTransition(flowEdit, string(entities.StepMenu), "rejected")
		p := menuPrompt(d)
		p.Notice = domain.Code(err)
		return p, nil
	case err != nil:
		return nil, fmt.Errorf("apply edit: %w", err)
	}

	if err := w.drafts.DeleteEdit(ctx, d.UserID); err != nil {
		return nil, fmt.Errorf("delete edit draft: %w", err)
	}
	w.metrics.WizardTransition(flowEdit, string(entities.StepMenu), "saved")
	w.logger.Info("event edited",
		zap.Uint("event_id", saved.ID),
		zap.String("user_id", d.UserID),
		zap.Int("promoted", len(promoted)))
	return &input.Prompt{Name: input.PromptEditSaved, Nav: input.Nav{Home: true}, Event: saved}, nil
}

func (w *EditWizard) abandon(ctx context.Context, d *entities.EditDraft, p *input.Prompt) (*input.Prompt, error) {
	if err := w.drafts.DeleteEdit(ctx, d.UserID); err != nil {
		return nil, fmt.Errorf("delete edit draft: %w", err)
	}
	return p, nil
}

func (w *EditWizard) save(ctx context.Context, d *entities.EditDraft) error {
	d.UpdatedAt = w.now()
	if err := w.drafts.SaveEdit(ctx, d); err != nil {
		return fmt.Errorf("save edit draft: %w", err)
	}
	return nil
}

// preview is the event as it would look once saved.
func preview(d *entities.EditDraft) *entities.Event {
	return &entities.Event{
		ID:       d.EventID,
		ScopeID:  d.ScopeID,
		Name:     d.Name,
		Start:    d.Start,
		End:      d.End,
		Capacity: d.Capacity,
	}
}

func menuPrompt(d *entities.EditDraft) *input.Prompt {
	return &input.Prompt{
		Name:  input.PromptEditMenu,
		Nav:   input.Nav{Home: true, Exit: true},
		Event: preview(d),
	}
}

func editPrompt(d *entities.EditDraft) *input.Prompt {
	if d.Step == entities.StepMenu {
		return menuPrompt(d)
	}
	return &input.Prompt{
		Name:  creationPrompts[d.Step],
		Nav:   input.Nav{Back: true, Home: true, Exit: true},
		Event: preview(d),
	}
}

func notFoundPrompt() *input.Prompt {
	return &input.Prompt{Name: input.PromptNotFound, Nav: input.Nav{Home: true}}
}

func deniedPrompt(err error) *input.Prompt {
	return &input.Prompt{Name: input.PromptDenied, Nav: input.Nav{Home: true}, Notice: domain.Code(err)}
}

func (w *EditWizard) editTitle(d *entities.EditDraft, s input.Stimulus) error {
	name, err := parseTitle(s.Text)
	if err != nil {
		return err
	}
	d.Name = name
	d.Touched |= entities.FieldName
	d.Step = entities.StepMenu
	return nil
}

// editStartDate moves the start to another day. The new start carries no
// clock until one is chosen again.
func (w *EditWizard) editStartDate(d *entities.EditDraft, s input.Stimulus) error {
	day, err := w.composer.ParseCalendarDate(answer(s))
	if err != nil {
		return err
	}
	d.Start = day
	d.Touched |= entities.FieldStart
	d.Step = entities.StepMenu
	return nil
}

func (w *EditWizard) editStartTime(d *entities.EditDraft, s input.Stimulus) error {
	start, err := w.composer.ComposeClock(d.Start, answer(s))
	if err != nil {
		return err
	}
	d.Start = start
	d.Touched |= entities.FieldStart
	d.Step = entities.StepMenu
	return nil
}

func (w *EditWizard) clearStartTime(d *entities.EditDraft, _ input.Stimulus) error {
	d.Start = w.composer.StartOfDay(d.Start)
	d.Touched |= entities.FieldStart
	d.Step = entities.StepMenu
	return nil
}

func (w *EditWizard) editEndTime(d *entities.EditDraft, s input.Stimulus) error {
	end, err := w.composer.ComposeClock(d.Start, answer(s))
	if err != nil {
		return err
	}
	if !end.After(d.Start) {
		return domain.ErrEndBeforeStart
	}
	d.End = end
	d.Touched |= entities.FieldEnd
	d.Step = entities.StepMenu
	return nil
}

func (w *EditWizard) editDuration(d *entities.EditDraft, s input.Stimulus) error {
	dur, err := temporal.ParseDuration(answer(s))
	if err != nil {
		return err
	}
	d.End = d.Start.Add(dur)
	d.Touched |= entities.FieldEnd
	d.Step = entities.StepMenu
	return nil
}

func (w *EditWizard) clearEnd(d *entities.EditDraft, _ input.Stimulus) error {
	d.End = temporal.Moment{}
	d.Touched |= entities.FieldEnd
	d.Step = entities.StepMenu
	return nil
}

func (w *EditWizard) editCapacity(d *entities.EditDraft, s input.Stimulus) error {
	n, err := parseCapacity(s.Text)
	if err != nil {
		return err
	}
	d.Capacity = n
	d.Touched |= entities.FieldCapacity
	d.Step = entities.StepMenu
	return nil
}

func (w *EditWizard) clearCapacity(d *entities.EditDraft, _ input.Stimulus) error {
	d.Capacity = 0
	d.Touched |= entities.FieldCapacity
	d.Step = entities.StepMenu
	return nil
}
