package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/entities"
)

func TestDecide_Table(t *testing.T) {
	tests := []struct {
		reason entities.Reason
		want   entities.Decision
	}{
		{entities.ReasonLoggedOut, entities.Terminal()},
		{entities.ReasonRestartRequired, entities.ReconnectAfter(0)},
		{entities.ReasonConnectionClosed, entities.ReconnectAfter(10 * time.Second)},
		{entities.ReasonTimedOut, entities.ReconnectAfter(5 * time.Second)},
		{entities.ReasonUnknown, entities.ReconnectAfter(5 * time.Second)},
		{entities.Reason("navigation"), entities.ReconnectAfter(5 * time.Second)},
		{entities.ReasonBadSession, entities.DeleteCredentialAndRetry()},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.reason))
		})
	}
}

func TestDecide_OnlyLoggedOutIsTerminal(t *testing.T) {
	tabulated := []entities.Reason{
		entities.ReasonLoggedOut,
		entities.ReasonRestartRequired,
		entities.ReasonConnectionClosed,
		entities.ReasonTimedOut,
		entities.ReasonUnknown,
	}

	for _, reason := range tabulated {
		terminal := Decide(reason).Action == entities.ActionTerminal
		assert.Equal(t, reason == entities.ReasonLoggedOut, terminal, "reason %s", reason)
	}
}

func TestReasonOf(t *testing.T) {
	assert.Equal(t, entities.ReasonConnectionClosed, entities.ReasonOf(nil))
	assert.Equal(t, entities.ReasonTimedOut, entities.ReasonOf(entities.NewDisconnectError(entities.ReasonTimedOut, nil)))
	assert.Equal(t, entities.ReasonUnknown, entities.ReasonOf(assert.AnError))
}
