package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eventbot/internal/domain"
	"eventbot/internal/ports/input"
	"eventbot/internal/ports/output"
)

// ListLimit caps the list and mine commands.
const ListLimit = 10

var _ input.Engine = (*Engine)(nil)

// Engine routes stimuli: home and registry commands first, then the edit
// flow, then the creation flow. Stimuli of one user are handled one at a time.
type Engine struct {
	creation     *CreationWizard
	edit         *EditWizard
	events       *EventService
	participants input.ParticipantUseCase
	drafts       output.DraftRepository
	locker       output.Locker
	logger       *zap.Logger
}

func NewEngine(
	creation *CreationWizard,
	edit *EditWizard,
	events *EventService,
	participants input.ParticipantUseCase,
	drafts output.DraftRepository,
	locker output.Locker,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		creation:     creation,
		edit:         edit,
		events:       events,
		participants: participants,
		drafts:       drafts,
		locker:       locker,
		logger:       logger,
	}
}

func (e *Engine) Handle(ctx context.Context, s input.Stimulus) (*input.Prompt, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	log := e.logger.With(
		zap.String("stimulus_id", s.ID),
		zap.String("user_id", s.UserID),
		zap.String("scope_id", s.ScopeID),
		zap.String("trigger", string(s.Trigger())))

	unlock, err := e.locker.Lock(ctx, "user:"+s.UserID)
	if err != nil {
		return nil, fmt.Errorf("lock user: %w", err)
	}
	defer unlock()

	p, err := e.route(ctx, s)
	if err != nil {
		log.Error("stimulus failed", zap.Error(err))
		return nil, err
	}
	if p == nil {
		log.Debug("stimulus not recognized")
		return nil, nil
	}
	log.Debug("stimulus handled", zap.String("prompt", string(p.Name)), zap.String("notice", p.Notice))
	return p, nil
}

func (e *Engine) route(ctx context.Context, s input.Stimulus) (*input.Prompt, error) {
	if s.Kind == input.StimulusChoice {
		if p, handled, err := e.command(ctx, s); handled || err != nil {
			return p, err
		}
	}
	p, err := e.edit.Handle(ctx, s)
	if p != nil || err != nil {
		return p, err
	}
	return e.creation.Handle(ctx, s)
}

// command handles the choices that work without a draft.
func (e *Engine) command(ctx context.Context, s input.Stimulus) (*input.Prompt, bool, error) {
	home := input.Nav{Home: true}
	switch s.Choice {
	case input.ChoiceHome:
		return &input.Prompt{Name: input.PromptHome}, true, nil
	case input.ChoiceStartWizard:
		p, err := e.creation.Start(ctx, s.UserID, s.ScopeID)
		return p, true, err
	case input.ChoiceHelp:
		return &input.Prompt{Name: input.PromptHelp, Nav: home}, true, nil
	case input.ChoiceHomeExit:
		if err := e.drafts.DeleteCreation(ctx, s.UserID); err != nil {
			return nil, true, fmt.Errorf("delete creation draft: %w", err)
		}
		if err := e.drafts.DeleteEdit(ctx, s.UserID); err != nil {
			return nil, true, fmt.Errorf("delete edit draft: %w", err)
		}
		return &input.Prompt{Name: input.PromptExit, Nav: home}, true, nil
	case input.ChoiceList:
		events, err := e.events.ListByScope(ctx, s.ScopeID, ListLimit)
		if err != nil {
			return nil, true, err
		}
		return &input.Prompt{Name: input.PromptEventList, Nav: home, Events: events}, true, nil
	case input.ChoiceMine:
		events, err := e.events.ListByCreator(ctx, s.ScopeID, s.UserID, ListLimit)
		if err != nil {
			return nil, true, err
		}
		return &input.Prompt{Name: input.PromptEventList, Nav: home, Events: events}, true, nil
	case input.ChoiceDetail, input.ChoiceEdit, input.ChoiceDelete, input.ChoiceDeleteConfirm,
		input.ChoiceDeleteAbort, input.ChoiceJoin, input.ChoiceLeave, input.ChoiceRoster:
		p, err := e.eventCommand(ctx, s)
		return p, true, err
	}
	return nil, false, nil
}

func (e *Engine) eventCommand(ctx context.Context, s input.Stimulus) (*input.Prompt, error) {
	id, err := strconv.ParseUint(s.Value, 10, 64)
	if err != nil || id == 0 {
		return notFoundPrompt(), nil
	}
	eventID := uint(id)
	home := input.Nav{Home: true}

	var p *input.Prompt
	switch s.Choice {
	case input.ChoiceDetail:
		event, err := e.events.GetEvent(ctx, s.ScopeID, eventID)
		if err != nil {
			return refusal(err)
		}
		p = &input.Prompt{Name: input.PromptEventSummary, Nav: home, Event: event}
	case input.ChoiceEdit:
		return e.edit.Open(ctx, s.UserID, s.ScopeID, eventID)
	case input.ChoiceDelete:
		event, err := e.events.CanEdit(ctx, s.ScopeID, eventID, s.UserID)
		if err != nil {
			return refusal(err)
		}
		p = &input.Prompt{Name: input.PromptDeleteConfirm, Nav: home, Event: event}
	case input.ChoiceDeleteConfirm:
		event, err := e.events.DeleteEvent(ctx, s.ScopeID, eventID, s.UserID)
		if err != nil {
			return refusal(err)
		}
		p = &input.Prompt{Name: input.PromptDeleted, Nav: home, Event: event}
	case input.ChoiceDeleteAbort:
		p = &input.Prompt{Name: input.PromptDeleteAborted, Nav: home}
	case input.ChoiceJoin:
		res, err := e.participants.Join(ctx, s.ScopeID, eventID, s.UserID)
		if err != nil {
			return refusal(err)
		}
		p = &input.Prompt{Name: input.PromptJoinResult, Nav: home, Join: res}
	case input.ChoiceLeave:
		res, err := e.participants.Cancel(ctx, s.ScopeID, eventID, s.UserID)
		if err != nil {
			return refusal(err)
		}
		p = &input.Prompt{Name: input.PromptLeaveResult, Nav: home, Leave: res}
	case input.ChoiceRoster:
		roster, err := e.participants.Roster(ctx, s.ScopeID, eventID, s.UserID)
		if err != nil {
			return refusal(err)
		}
		p = &input.Prompt{Name: input.PromptRoster, Nav: home, Roster: roster}
	}
	return p, nil
}

// refusal turns lookup and permission errors into prompts. Anything else is
// a failure.
func refusal(err error) (*input.Prompt, error) {
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		return notFoundPrompt(), nil
	case errors.Is(err, domain.ErrNotEditor), errors.Is(err, domain.ErrNotOrganizer):
		return deniedPrompt(err), nil
	}
	return nil, err
}
