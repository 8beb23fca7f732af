package telegram

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/gotd/td/tgerr"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/entities"
	sessionerrors "github.com/SAVX-BOY/dead-x-bot/internal/domain/session/errors"
)

// errAuthFailureReported ends Run after an auth failure event was emitted
var errAuthFailureReported = errors.New("authentication failure reported")

// classify maps a client error to a disconnect reason
func classify(err error) error {
	if err == nil {
		return entities.NewDisconnectError(entities.ReasonConnectionClosed, nil)
	}

	var de *entities.DisconnectError
	if errors.As(err, &de) {
		return err
	}

	return entities.NewDisconnectError(reasonFor(err), err)
}

func reasonFor(err error) entities.Reason {
	switch {
	case errors.Is(err, sessionerrors.ErrCorruptCredential),
		tgerr.Is(err, "AUTH_KEY_DUPLICATED", "AUTH_KEY_INVALID"):
		return entities.ReasonBadSession
	case tgerr.Is(err, "AUTH_KEY_UNREGISTERED", "SESSION_REVOKED", "SESSION_EXPIRED",
		"USER_DEACTIVATED", "USER_DEACTIVATED_BAN"):
		return entities.ReasonLoggedOut
	case tgerr.Is(err, "AUTH_RESTART"):
		return entities.ReasonRestartRequired
	case isTimeout(err):
		return entities.ReasonTimedOut
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.EPIPE):
		return entities.ReasonConnectionClosed
	default:
		return entities.ReasonUnknown
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
