package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult_HasMedia(t *testing.T) {
	cases := []struct {
		name   string
		result Result
		want   bool
	}{
		{"none", Result{}, false},
		{"null media", Result{Media: json.RawMessage("null")}, false},
		{"false media", Result{Media: json.RawMessage("false")}, false},
		{"true media", Result{Media: json.RawMessage("true")}, true},
		{"url", Result{MediaURL: "http://x"}, true},
		{"base64", Result{MediaBase64: "aGk="}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.result.HasMedia())
		})
	}
}

func TestResult_MediaSource(t *testing.T) {
	assert.Equal(t, "http://a", (&Result{MediaURL: "http://a", Media: json.RawMessage(`"http://b"`)}).MediaSource())
	assert.Equal(t, "s3://bucket/key", (&Result{Media: json.RawMessage(`"s3://bucket/key"`)}).MediaSource())
	assert.Empty(t, (&Result{Media: json.RawMessage("true")}).MediaSource())
}

func TestResult_MediaCaption(t *testing.T) {
	assert.Equal(t, "cap", (&Result{Caption: "cap", Message: "msg"}).MediaCaption())
	assert.Equal(t, "msg", (&Result{Message: "msg"}).MediaCaption())
}

func TestCommandContext_GroupIDIsNullForDirectChats(t *testing.T) {
	body, err := json.Marshal(CommandContext{ChatID: "user:1"})
	assert.NoError(t, err)
	assert.Contains(t, string(body), `"groupId":null`)
	assert.NotContains(t, string(body), `"quoted"`)
}
