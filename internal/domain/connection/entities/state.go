package entities

import (
	"errors"
	"fmt"
	"time"
)

// State is the connection lifecycle state
type State string

const (
	StateIdle           State = "idle"
	StateConnecting     State = "connecting"
	StateQRPending      State = "qr_pending"
	StateAuthenticating State = "authenticating"
	StateReady          State = "ready"
	StateClosed         State = "closed"
)

// AllStates lists every state, in lifecycle order
var AllStates = []State{
	StateIdle,
	StateConnecting,
	StateQRPending,
	StateAuthenticating,
	StateReady,
	StateClosed,
}

// StateNames returns AllStates as strings
func StateNames() []string {
	names := make([]string, len(AllStates))
	for i, s := range AllStates {
		names[i] = string(s)
	}
	return names
}

// Reason is why a connection ended
type Reason string

const (
	ReasonLoggedOut        Reason = "logged-out"
	ReasonRestartRequired  Reason = "restart-required"
	ReasonConnectionClosed Reason = "connection-closed"
	ReasonTimedOut         Reason = "timed-out"
	ReasonBadSession       Reason = "bad-session"
	ReasonUnknown          Reason = "unknown"
)

// DisconnectError carries the classified reason of a client failure
type DisconnectError struct {
	Reason Reason
	Err    error
}

func (e *DisconnectError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *DisconnectError) Unwrap() error {
	return e.Err
}

// NewDisconnectError wraps err with a reason
func NewDisconnectError(reason Reason, err error) *DisconnectError {
	return &DisconnectError{Reason: reason, Err: err}
}

// ReasonOf extracts the disconnect reason from err.
// A nil error is a clean close by the remote side.
func ReasonOf(err error) Reason {
	if err == nil {
		return ReasonConnectionClosed
	}
	var de *DisconnectError
	if errors.As(err, &de) {
		return de.Reason
	}
	return ReasonUnknown
}

// Action is what the reconnect policy decided
type Action string

const (
	ActionReconnect                Action = "reconnect"
	ActionDeleteCredentialAndRetry Action = "delete_credential_and_retry"
	ActionTerminal                 Action = "terminal"
)

// Decision is the reconnect policy output
type Decision struct {
	Action Action
	Delay  time.Duration
}

// ReconnectAfter builds a reconnect decision
func ReconnectAfter(d time.Duration) Decision {
	return Decision{Action: ActionReconnect, Delay: d}
}

// Terminal builds a terminal decision
func Terminal() Decision {
	return Decision{Action: ActionTerminal}
}

// DeleteCredentialAndRetry builds a decision that wipes local state and reconnects
func DeleteCredentialAndRetry() Decision {
	return Decision{Action: ActionDeleteCredentialAndRetry}
}

// Status is a point-in-time view of the connection
type Status struct {
	State          State     `json:"state"`
	SessionID      string    `json:"session_id"`
	Identity       string    `json:"identity,omitempty"`
	Attempts       int       `json:"attempts"`
	RestoredLogin  bool      `json:"restored_login"`
	LastReason     Reason    `json:"last_reason,omitempty"`
	LastError      string    `json:"last_error,omitempty"`
	QRAvailable    bool      `json:"qr_available"`
	ReadySince     time.Time `json:"ready_since,omitempty"`
	StateChangedAt time.Time `json:"state_changed_at"`
}
