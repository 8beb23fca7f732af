package policy

import (
	"time"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/entities"
)

const (
	connectionClosedDelay = 10 * time.Second
	timedOutDelay         = 5 * time.Second
	defaultDelay          = 5 * time.Second
)

// Decide maps a disconnect reason to what the connection manager does next
func Decide(reason entities.Reason) entities.Decision {
	switch reason {
	case entities.ReasonLoggedOut:
		return entities.Terminal()
	case entities.ReasonRestartRequired:
		return entities.ReconnectAfter(0)
	case entities.ReasonConnectionClosed:
		return entities.ReconnectAfter(connectionClosedDelay)
	case entities.ReasonTimedOut:
		return entities.ReconnectAfter(timedOutDelay)
	case entities.ReasonBadSession:
		return entities.DeleteCredentialAndRetry()
	default:
		return entities.ReconnectAfter(defaultDelay)
	}
}
