package discord

import (
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/input"
	"eventbot/internal/ports/output"
	pkgdiscord "eventbot/pkg/discord"
	"eventbot/pkg/temporal"
)

const (
	buttonsPerRow = 5
	maxRows       = 5
	upcomingDays  = 7
)

var (
	timeCandidates     = []string{"09:00", "10:00", "19:00"}
	durationCandidates = []int{30, 60, 90}
)

// textPrompts accept a typed answer through the input modal.
var textPrompts = map[input.PromptName]bool{
	input.PromptAskTitle:     true,
	input.PromptAskStartDate: true,
	input.PromptAskStartTime: true,
	input.PromptAskEndTime:   true,
	input.PromptAskDuration:  true,
	input.PromptAskCapacity:  true,
}

// Message is a rendered prompt.
type Message struct {
	Content    string
	Embed      *discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

// Renderer turns engine prompts into Discord messages.
type Renderer struct {
	t        output.T
	locale   string
	composer *temporal.Composer
	now      func() time.Time
}

func NewRenderer(t output.T, locale string, composer *temporal.Composer) *Renderer {
	return &Renderer{t: t, locale: locale, composer: composer, now: time.Now}
}

func (r *Renderer) tr(key string, data map[string]any) string {
	return r.t.T(r.locale, key, data)
}

func (r *Renderer) Render(p *input.Prompt) Message {
	var lines []string
	if p.Notice != "" {
		lines = append(lines, "⚠️ "+r.notice(p.Notice))
	}
	lines = append(lines, r.tr("prompt."+string(p.Name), nil))

	var embed *discordgo.MessageEmbed
	switch {
	case p.Event != nil:
		embed = r.card(p.Event)
	case p.Events != nil || p.Name == input.PromptEventList:
		lines = append(lines, "", r.list(p.Events))
	case p.Join != nil:
		lines = append(lines, r.join(p.Join))
	case p.Leave != nil:
		lines = append(lines, r.leave(p.Leave))
	case p.Roster != nil:
		lines = append(lines, "", r.roster(p.Roster))
	}

	rows := r.answerRows(p)
	if nav := r.navRow(p.Nav); nav != nil {
		rows = append(rows, nav)
	}
	if len(rows) > maxRows {
		rows = rows[len(rows)-maxRows:]
	}
	components := make([]discordgo.MessageComponent, len(rows))
	for i, row := range rows {
		components[i] = discordgo.ActionsRow{Components: row}
	}
	return Message{Content: strings.Join(lines, "\n"), Embed: embed, Components: components}
}

func (r *Renderer) notice(code string) string {
	if code == input.NoticeCannotGoBack {
		return r.tr("notice."+code, nil)
	}
	return r.tr("errors."+code, nil)
}

// card renders the event summary. A derived end is shown as a duration.
func (r *Renderer) card(e *entities.Event) *discordgo.MessageEmbed {
	lines := []string{
		r.tr("summary.name", map[string]any{"Name": e.Name}),
		r.tr("summary.start", map[string]any{"Start": r.composer.Format(e.Start)}),
	}
	if e.HasEnd() {
		if e.End.HasClock() {
			lines = append(lines, r.tr("summary.end", map[string]any{"End": r.composer.Format(e.End)}))
		} else {
			minutes := int(e.End.Sub(e.Start) / time.Minute)
			lines = append(lines, r.tr("summary.duration", map[string]any{"Duration": temporal.HumanizeMinutes(minutes)}))
		}
	}
	if e.Unlimited() {
		lines = append(lines, r.tr("summary.unlimited", nil))
	} else {
		lines = append(lines, r.tr("summary.capacity", map[string]any{"Capacity": e.Capacity}))
	}
	var footer string
	if e.ID != 0 {
		footer = "#" + strconv.FormatUint(uint64(e.ID), 10)
	}
	return pkgdiscord.BuildEventEmbed(e.Name, lines, footer)
}

func (r *Renderer) list(events []entities.Event) string {
	if len(events) == 0 {
		return r.tr("list.empty", nil)
	}
	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = "#" + strconv.FormatUint(uint64(e.ID), 10) + " " + e.Name + " / " + r.composer.Format(e.Start)
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) join(res *entities.JoinResult) string {
	if res.Status == entities.JoinAdmitted && res.Capacity <= 0 {
		return r.tr("join.admitted_unlimited", map[string]any{"Confirmed": res.Confirmed})
	}
	return r.tr("join."+string(res.Status), map[string]any{"Confirmed": res.Confirmed, "Capacity": res.Capacity})
}

func (r *Renderer) leave(res *entities.LeaveResult) string {
	text := r.tr("leave."+string(res.Status), nil)
	if res.Promoted != nil {
		text += "\n" + r.tr("leave.promoted", map[string]any{"UserID": res.Promoted.UserID})
	}
	return text
}

func (r *Renderer) roster(ro *entities.Roster) string {
	section := func(key string, ps []entities.Participant) string {
		head := r.tr(key, map[string]any{"Count": len(ps)})
		if len(ps) == 0 {
			return head + "\n" + r.tr("roster.empty", nil)
		}
		return head + "\n" + pkgdiscord.FormatMentions(ps)
	}
	return section("roster.confirmed", ro.Confirmed) + "\n" + section("roster.waiting", ro.Waiting)
}

func (r *Renderer) button(labelKey string, style discordgo.ButtonStyle, choice input.Choice, value string) discordgo.Button {
	return discordgo.Button{Label: r.tr(labelKey, nil), Style: style, CustomID: encodeCustomID(choice, value)}
}

func rawButton(label string, choice input.Choice, value string) discordgo.Button {
	return discordgo.Button{Label: label, Style: discordgo.SecondaryButton, CustomID: encodeCustomID(choice, value)}
}

// answerRows builds the buttons that answer p, chunked into rows.
func (r *Renderer) answerRows(p *input.Prompt) [][]discordgo.MessageComponent {
	var buttons []discordgo.MessageComponent
	if textPrompts[p.Name] {
		buttons = append(buttons, discordgo.Button{
			Label:    "✏️",
			Style:    discordgo.PrimaryButton,
			CustomID: encodeCustomID(choiceInput, string(p.Name)),
		})
	}

	switch p.Name {
	case input.PromptAskStartDate:
		for _, day := range r.composer.UpcomingDays(r.now(), upcomingDays) {
			buttons = append(buttons, rawButton(day, input.ChoicePickDate, day))
		}
	case input.PromptAskStartTime, input.PromptAskEndTime:
		for _, hhmm := range timeCandidates {
			buttons = append(buttons, rawButton(hhmm, input.ChoiceTime, hhmm))
		}
		buttons = append(buttons, r.button("button.time_skip", discordgo.SecondaryButton, input.ChoiceTimeSkip, ""))
	case input.PromptAskEndMode:
		buttons = append(buttons,
			r.button("button.end_time", discordgo.PrimaryButton, input.ChoiceEndByTime, ""),
			r.button("button.end_duration", discordgo.PrimaryButton, input.ChoiceEndByDuration, ""),
			r.button("button.end_none", discordgo.SecondaryButton, input.ChoiceNoEnd, ""))
	case input.PromptAskDuration:
		for _, m := range durationCandidates {
			buttons = append(buttons, rawButton(temporal.HumanizeMinutes(m), input.ChoiceDuration, strconv.Itoa(m)+"m"))
		}
		buttons = append(buttons, r.button("button.duration_skip", discordgo.SecondaryButton, input.ChoiceDurationSkip, ""))
	case input.PromptAskCapacity:
		buttons = append(buttons, r.button("button.no_capacity", discordgo.SecondaryButton, input.ChoiceNoCapacity, ""))
	case input.PromptEditMenu:
		buttons = append(buttons,
			r.button("button.edit_title", discordgo.SecondaryButton, input.ChoiceEditTitle, ""),
			r.button("button.edit_start_date", discordgo.SecondaryButton, input.ChoiceEditStartDate, ""),
			r.button("button.edit_start_time", discordgo.SecondaryButton, input.ChoiceEditStartTime, ""),
			r.button("button.edit_end", discordgo.SecondaryButton, input.ChoiceEditEnd, ""),
			r.button("button.edit_capacity", discordgo.SecondaryButton, input.ChoiceEditCapacity, ""),
			r.button("button.edit_save", discordgo.SuccessButton, input.ChoiceEditSave, ""),
			r.button("button.edit_cancel", discordgo.DangerButton, input.ChoiceEditCancel, ""))
	case input.PromptEventCreated, input.PromptEventSummary, input.PromptEditSaved:
		if p.Event != nil {
			buttons = append(buttons, r.eventButtons(p.Event.ID)...)
		}
	case input.PromptEventList:
		for _, e := range p.Events {
			id := strconv.FormatUint(uint64(e.ID), 10)
			buttons = append(buttons, rawButton("#"+id, input.ChoiceDetail, id))
		}
	case input.PromptDeleteConfirm:
		if p.Event != nil {
			id := strconv.FormatUint(uint64(p.Event.ID), 10)
			buttons = append(buttons,
				r.button("button.delete_ok", discordgo.DangerButton, input.ChoiceDeleteConfirm, id),
				r.button("button.delete_no", discordgo.SecondaryButton, input.ChoiceDeleteAbort, id))
		}
	case input.PromptHome, input.PromptHelp, input.PromptExit:
		buttons = append(buttons,
			r.button("button.create", discordgo.PrimaryButton, input.ChoiceStartWizard, ""),
			r.button("button.list", discordgo.SecondaryButton, input.ChoiceList, ""),
			r.button("button.mine", discordgo.SecondaryButton, input.ChoiceMine, ""),
			r.button("button.help", discordgo.SecondaryButton, input.ChoiceHelp, ""))
	}
	return chunk(buttons)
}

func (r *Renderer) eventButtons(eventID uint) []discordgo.MessageComponent {
	id := strconv.FormatUint(uint64(eventID), 10)
	return []discordgo.MessageComponent{
		r.button("button.join", discordgo.SuccessButton, input.ChoiceJoin, id),
		r.button("button.leave", discordgo.DangerButton, input.ChoiceLeave, id),
		r.button("button.roster", discordgo.SecondaryButton, input.ChoiceRoster, id),
		r.button("button.edit", discordgo.SecondaryButton, input.ChoiceEdit, id),
		r.button("button.delete", discordgo.SecondaryButton, input.ChoiceDelete, id),
	}
}

func (r *Renderer) navRow(nav input.Nav) []discordgo.MessageComponent {
	var row []discordgo.MessageComponent
	if nav.Back {
		row = append(row, r.button("nav.back", discordgo.SecondaryButton, input.ChoiceBack, ""))
	}
	if nav.Reset {
		row = append(row, r.button("nav.reset", discordgo.SecondaryButton, input.ChoiceReset, ""))
	}
	if nav.Home {
		row = append(row, r.button("nav.home", discordgo.SecondaryButton, input.ChoiceHome, ""))
	}
	if nav.Exit {
		row = append(row, r.button("nav.exit", discordgo.DangerButton, input.ChoiceExit, ""))
	}
	return row
}

func chunk(buttons []discordgo.MessageComponent) [][]discordgo.MessageComponent {
	var rows [][]discordgo.MessageComponent
	for len(buttons) > 0 {
		n := min(buttonsPerRow, len(buttons))
		rows = append(rows, buttons[:n])
		buttons = buttons[n:]
	}
	return rows
}

// Failure is shown when a stimulus could not be processed.
func (r *Renderer) Failure() string { return r.tr("errors.internal", nil) }

// Expired is shown for a button whose wizard is gone.
func (r *Renderer) Expired() string { return r.tr("errors.expired", nil) }

func (r *Renderer) PromotionNotice() string { return r.tr("dm.promoted", nil) }
