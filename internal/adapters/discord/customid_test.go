package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eventbot/internal/ports/input"
)

func TestCustomID_RoundTrip(t *testing.T) {
	cases := []struct {
		choice input.Choice
		value  string
	}{
		{input.ChoiceJoin, "42"},
		{input.ChoicePickDate, "2025-09-01"},
		{input.ChoiceTime, "19:00"},
		{input.ChoiceBack, ""},
		{input.ChoiceDuration, "1:30"},
	}
	for _, tc := range cases {
		choice, value, ok := decodeCustomID(encodeCustomID(tc.choice, tc.value))
		assert.True(t, ok)
		assert.Equal(t, tc.choice, choice)
		assert.Equal(t, tc.value, value)
	}
}

func TestDecodeCustomID_Foreign(t *testing.T) {
	for _, id := range []string{"", "btn_join", "wz|", "wz||x", "other|back|"} {
		_, _, ok := decodeCustomID(id)
		assert.False(t, ok, id)
	}
}
