package errors

import (
	pkgerrors "github.com/SAVX-BOY/dead-x-bot/pkg/errors"
)

var (
	ErrSessionNotFound    = pkgerrors.NewCredentialInvalidError("session not found")
	ErrSessionExpired     = pkgerrors.NewCredentialInvalidError("session expired")
	ErrSessionInactive    = pkgerrors.NewCredentialInvalidError("session is not active")
	ErrScannerUnreachable = pkgerrors.NewTransientNetworkError("scanner unreachable")
	ErrPushRejected       = pkgerrors.NewRemoteApplicationError("scanner rejected credentials")
	ErrLocalStore         = pkgerrors.NewLocalIOError("local credential store failure")
	ErrNoLocalCredential  = pkgerrors.NewNotFoundError("no local credential")
	ErrCorruptCredential  = pkgerrors.NewLocalIOError("local credential is corrupted")
	ErrEmptyCredential    = pkgerrors.NewValidationError("credential blob is empty")
	ErrInvalidSessionID   = pkgerrors.NewValidationError("session id is required")
)
