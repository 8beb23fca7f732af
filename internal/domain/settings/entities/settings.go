package entities

import (
	"sort"
	"strings"
	"time"
)

// Flag names a boolean automation setting
type Flag string

const (
	FlagAutoTyping    Flag = "autotyping"
	FlagAutoRecording Flag = "autorecording"
	FlagAlwaysOnline  Flag = "alwaysonline"
	FlagAntiLink      Flag = "antilink"
	FlagAntiBot       Flag = "antibot"
	FlagAutoRespond   Flag = "autorespond"
)

// Flags lists every toggleable flag
var Flags = []Flag{
	FlagAutoTyping,
	FlagAutoRecording,
	FlagAlwaysOnline,
	FlagAntiLink,
	FlagAntiBot,
	FlagAutoRespond,
}

// ParseFlag resolves a flag name case-insensitively
func ParseFlag(name string) (Flag, bool) {
	f := Flag(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Flags {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// Settings is the automation configuration of one identity
type Settings struct {
	AutoTyping          bool              `json:"autotyping"`
	AutoRecording       bool              `json:"autorecording"`
	AlwaysOnline        bool              `json:"alwaysonline"`
	AntiLink            bool              `json:"antilink"`
	AntiBot             bool              `json:"antibot"`
	AutoRespond         bool              `json:"autorespond"`
	AutoRespondTriggers map[string]string `json:"autoRespondTriggers"`
	BannedWords         []string          `json:"bannedWords"`
}

// Trigger is one auto-respond rule
type Trigger struct {
	Trigger  string
	Response string
}

// Clone returns a deep copy with non-nil collections
func (s Settings) Clone() Settings {
	out := s
	out.AutoRespondTriggers = make(map[string]string, len(s.AutoRespondTriggers))
	for k, v := range s.AutoRespondTriggers {
		out.AutoRespondTriggers[k] = v
	}
	out.BannedWords = append(make([]string, 0, len(s.BannedWords)), s.BannedWords...)
	return out
}

// Set assigns a flag value
func (s *Settings) Set(flag Flag, value bool) {
	switch flag {
	case FlagAutoTyping:
		s.AutoTyping = value
	case FlagAutoRecording:
		s.AutoRecording = value
	case FlagAlwaysOnline:
		s.AlwaysOnline = value
	case FlagAntiLink:
		s.AntiLink = value
	case FlagAntiBot:
		s.AntiBot = value
	case FlagAutoRespond:
		s.AutoRespond = value
	}
}

// Triggers returns the auto-respond rules sorted by trigger
func (s Settings) Triggers() []Trigger {
	keys := make([]string, 0, len(s.AutoRespondTriggers))
	for k := range s.AutoRespondTriggers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	triggers := make([]Trigger, 0, len(keys))
	for _, k := range keys {
		triggers = append(triggers, Trigger{Trigger: k, Response: s.AutoRespondTriggers[k]})
	}
	return triggers
}

// HasBannedWord reports whether word is already banned
func (s Settings) HasBannedWord(word string) bool {
	for _, w := range s.BannedWords {
		if w == word {
			return true
		}
	}
	return false
}

// Activity tracks command usage of a group
type Activity struct {
	CommandCount int64      `json:"commandCount"`
	LastActive   *time.Time `json:"lastActive,omitempty"`
}
