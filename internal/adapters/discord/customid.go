package discord

import (
	"strings"

	"eventbot/internal/ports/input"
)

const (
	customIDPrefix = "wz"
	customIDSep    = "|"

	// textModalID is the modal that carries a free-text answer.
	textModalID  = "wz_text"
	textInputID  = "answer"
	choiceInput  = input.Choice("input")
	maxCustomID  = 100
)

// encodeCustomID packs a choice and its value into a component custom id.
func encodeCustomID(choice input.Choice, value string) string {
	id := customIDPrefix + customIDSep + string(choice) + customIDSep + value
	if len(id) > maxCustomID {
		return id[:maxCustomID]
	}
	return id
}

// decodeCustomID reverses encodeCustomID. ok is false for ids this adapter
// did not produce.
func decodeCustomID(id string) (choice input.Choice, value string, ok bool) {
	parts := strings.SplitN(id, customIDSep, 3)
	if len(parts) != 3 || parts[0] != customIDPrefix || parts[1] == "" {
		return "", "", false
	}
	return input.Choice(parts[1]), parts[2], true
}
