package input

// StimulusKind distinguishes free text from discrete choices.
type StimulusKind uint8

const (
	StimulusText StimulusKind = iota + 1
	StimulusChoice
)

// Choice is an opaque token carried by a button press or structured pick.
type Choice string

// Home and registry commands. Work with or without a draft.
const (
	ChoiceHome        Choice = "home"
	ChoiceStartWizard Choice = "home.create"
	ChoiceHelp        Choice = "home.help"
	ChoiceHomeExit    Choice = "home.exit"
	ChoiceList        Choice = "home.list"
	ChoiceMine        Choice = "home.mine"

	// Value carries the event id.
	ChoiceDetail        Choice = "evt.detail"
	ChoiceEdit          Choice = "evt.edit"
	ChoiceDelete        Choice = "evt.delete"
	ChoiceDeleteConfirm Choice = "evt.delete.ok"
	ChoiceDeleteAbort   Choice = "evt.delete.no"
	ChoiceJoin          Choice = "evt.join"
	ChoiceLeave         Choice = "evt.leave"
	ChoiceRoster        Choice = "evt.roster"
)

// Wizard navigation and answers.
const (
	ChoiceBack  Choice = "back"
	ChoiceReset Choice = "reset"
	ChoiceExit  Choice = "exit"

	ChoicePickDate      Choice = "pick.date" // Value: YYYY-MM-DD
	ChoiceTime          Choice = "time"      // Value: HH:MM
	ChoiceTimeSkip      Choice = "time.skip"
	ChoiceEndByTime     Choice = "end.time"
	ChoiceEndByDuration Choice = "end.duration"
	ChoiceNoEnd         Choice = "end.none"
	ChoiceDuration      Choice = "dur" // Value: duration preset
	ChoiceDurationSkip  Choice = "dur.skip"
	ChoiceNoCapacity    Choice = "cap.none"

	ChoiceEditTitle     Choice = "edit.title"
	ChoiceEditStartDate Choice = "edit.start_date"
	ChoiceEditStartTime Choice = "edit.start_time"
	ChoiceEditEnd       Choice = "edit.end"
	ChoiceEditCapacity  Choice = "edit.capacity"
	ChoiceEditSave      Choice = "edit.save"
	ChoiceEditCancel    Choice = "edit.cancel"
)

// Stimulus is one inbound message or button press.
type Stimulus struct {
	ID      string
	UserID  string
	ScopeID string
	Kind    StimulusKind
	Text    string
	Choice  Choice
	Value   string
}

func TextStimulus(userID, scopeID, text string) Stimulus {
	return Stimulus{UserID: userID, ScopeID: scopeID, Kind: StimulusText, Text: text}
}

func ChoiceStimulus(userID, scopeID string, choice Choice, value string) Stimulus {
	return Stimulus{UserID: userID, ScopeID: scopeID, Kind: StimulusChoice, Choice: choice, Value: value}
}

// TriggerText is the trigger of every free-text stimulus.
const TriggerText Choice = "text"

// Trigger is the transition-table category of a stimulus: TriggerText or the choice token.
func (s Stimulus) Trigger() Choice {
	if s.Kind == StimulusText {
		return TriggerText
	}
	return s.Choice
}
