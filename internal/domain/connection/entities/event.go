package entities

// EventKind names a lifecycle signal of the chat-network client
type EventKind string

const (
	EventQR            EventKind = "qr"
	EventAuthenticated EventKind = "authenticated"
	EventReady         EventKind = "ready"
	EventDisconnected  EventKind = "disconnected"
	EventAuthFailure   EventKind = "auth_failure"
)

// Event is a lifecycle signal. Only the fields of its kind are set.
type Event struct {
	Kind       EventKind
	QR         string
	Credential []byte
	Identity   string
	Reason     Reason
	Message    string
	Err        error

	attempt int
}

// QR is emitted when a fresh login code must be scanned
func QR(payload string) Event {
	return Event{Kind: EventQR, QR: payload}
}

// Authenticated is emitted once the network accepted a login
func Authenticated(credential []byte) Event {
	return Event{Kind: EventAuthenticated, Credential: credential}
}

// Ready is emitted when messages can flow
func Ready(identity string) Event {
	return Event{Kind: EventReady, Identity: identity}
}

// Disconnected is emitted when the connection ends
func Disconnected(reason Reason, err error) Event {
	return Event{Kind: EventDisconnected, Reason: reason, Err: err}
}

// AuthFailure is emitted when the network rejected the credential
func AuthFailure(message string) Event {
	return Event{Kind: EventAuthFailure, Message: message}
}

// WithAttempt tags the event with the connection attempt that produced it
func (e Event) WithAttempt(attempt int) Event {
	e.attempt = attempt
	return e
}

// Attempt returns the attempt tag
func (e Event) Attempt() int {
	return e.attempt
}
