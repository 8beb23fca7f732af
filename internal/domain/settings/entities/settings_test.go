package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFlag(t *testing.T) {
	f, ok := ParseFlag(" AntiLink ")
	assert.True(t, ok)
	assert.Equal(t, FlagAntiLink, f)

	_, ok = ParseFlag("unknown")
	assert.False(t, ok)
}

func TestSettings_Triggers(t *testing.T) {
	s := Settings{AutoRespondTriggers: map[string]string{"zeta": "z", "alpha": "a", "mid": "m"}}

	assert.Equal(t, []Trigger{
		{Trigger: "alpha", Response: "a"},
		{Trigger: "mid", Response: "m"},
		{Trigger: "zeta", Response: "z"},
	}, s.Triggers())
}

func TestSettings_Set(t *testing.T) {
	var s Settings
	for _, f := range Flags {
		s.Set(f, true)
	}
	assert.Equal(t, Settings{
		AutoTyping:    true,
		AutoRecording: true,
		AlwaysOnline:  true,
		AntiLink:      true,
		AntiBot:       true,
		AutoRespond:   true,
	}, s)
}

func TestColumnsRoundTrip(t *testing.T) {
	s := Settings{AntiLink: true, BannedWords: []string{"x"}, AutoRespondTriggers: map[string]string{"hi": "yo"}}
	assert.Equal(t, s, *ColumnsFrom(s).ToEntity())
}
