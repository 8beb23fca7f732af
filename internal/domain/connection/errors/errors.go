package errors

import (
	pkgerrors "github.com/SAVX-BOY/dead-x-bot/pkg/errors"
)

var (
	ErrAttemptInFlight       = pkgerrors.NewConflictError("connection attempt already in progress")
	ErrManagerStopped        = pkgerrors.NewConflictError("connection manager stopped")
	ErrTerminated            = pkgerrors.NewConflictError("connection terminated, a new session is required")
	ErrInitializationTimeout = pkgerrors.NewTransientNetworkError("connection not ready before initialization timeout")
	ErrLoggedOut             = pkgerrors.NewCredentialRejectedError("account logged out, credential is void")
	ErrAuthFailure           = pkgerrors.NewCredentialRejectedError("authentication failed")
	ErrNoQRCode              = pkgerrors.NewNotFoundError("no QR code pending")
)
