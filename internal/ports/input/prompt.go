package input

import "eventbot/internal/domain/entities"

// PromptName identifies what the renderer should show next.
type PromptName string

const (
	PromptAskTitle     PromptName = "ask_title"
	PromptAskStartDate PromptName = "ask_start_date"
	PromptAskStartTime PromptName = "ask_start_time"
	PromptAskEndMode   PromptName = "ask_end_mode"
	PromptAskEndTime   PromptName = "ask_end_time"
	PromptAskDuration  PromptName = "ask_duration"
	PromptAskCapacity  PromptName = "ask_capacity"
	PromptEventCreated PromptName = "event_created"

	PromptEditMenu     PromptName = "edit_menu"
	PromptEditSaved    PromptName = "edit_saved"
	PromptEditCanceled PromptName = "edit_canceled"

	PromptHome          PromptName = "home"
	PromptHelp          PromptName = "help"
	PromptExit          PromptName = "exit"
	PromptEventSummary  PromptName = "event_summary"
	PromptEventList     PromptName = "event_list"
	PromptDeleteConfirm PromptName = "delete_confirm"
	PromptDeleted       PromptName = "deleted"
	PromptDeleteAborted PromptName = "delete_aborted"
	PromptJoinResult    PromptName = "join_result"
	PromptLeaveResult   PromptName = "leave_result"
	PromptRoster        PromptName = "roster"
	PromptNotFound      PromptName = "not_found"
	PromptDenied        PromptName = "denied"
)

// NoticeCannotGoBack is the notice of a back press on the first step.
const NoticeCannotGoBack = "cannot_go_back"

// Nav selects the navigation affordances offered with a prompt.
type Nav struct {
	Back  bool
	Reset bool
	Home  bool
	Exit  bool
}

// Prompt is the engine's answer to a stimulus. Notice, when set, is a
// corrective message code shown above the prompt.
type Prompt struct {
	Name   PromptName
	Nav    Nav
	Notice string
	Event  *entities.Event
	Events []entities.Event
	Join   *entities.JoinResult
	Leave  *entities.LeaveResult
	Roster *entities.Roster
}
